package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/logging"
)

// TemplateSuffix marks files that are executed as templates. Other files are
// copied as they are.
const TemplateSuffix = ".j2"

// Renderer renders a template tree into an output directory.
type Renderer struct {
	Source string
	Output string
	Funcs  template.FuncMap
}

// NewRenderer returns a Renderer using FuncMap.
func NewRenderer(source, output string) *Renderer {
	return &Renderer{Source: source, Output: output, Funcs: FuncMap()}
}

// Render applies DataDefaults to data, builds the path filter from marker
// files under Source and writes every included file to Output. It returns the
// rendered output paths.
func (r *Renderer) Render(data config.Document) ([]string, error) {
	data = DataDefaults(data)

	filter, err := NewPathFilter(r.Source, data)
	if err != nil {
		return nil, err
	}

	var written []string
	err = filepath.WalkDir(r.Source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !filter.Include(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() == MarkerFile {
			return nil
		}

		rel, err := filepath.Rel(r.Source, path)
		if err != nil {
			return err
		}
		out, err := r.renderFile(path, rel, data)
		if err != nil {
			return err
		}
		written = append(written, out)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Rendered %d files into %s", len(written), r.Output)
	return written, nil
}

func (r *Renderer) renderFile(path, rel string, data config.Document) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", rel, err)
	}

	content := raw
	if strings.HasSuffix(rel, TemplateSuffix) {
		rel = strings.TrimSuffix(rel, TemplateSuffix)
		tmpl, err := template.New(rel).Funcs(r.Funcs).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return "", fmt.Errorf("failed to parse template %s: %w", rel, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
			return "", fmt.Errorf("failed to render template %s: %w", rel, err)
		}
		content = buf.Bytes()
	}

	out := filepath.Join(r.Output, rel)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(out, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}
	logging.Debug("Rendered %s", out)
	return out, nil
}
