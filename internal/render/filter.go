package render

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/logging"
)

// MarkerFile names the predicate that decides whether its directory is rendered.
const MarkerFile = ".mjfilter"

// Predicate decides from the configuration whether a directory is rendered.
type Predicate func(data config.Document) bool

var predicates = map[string]Predicate{
	"worker-nodes": hasWorkerNodes,
	"talos":        distributionIs("talos"),
	"k3s":          distributionIs("k3s"),
	"k0s":          distributionIs("k0s"),
}

// Predicates returns the registered predicate names, sorted.
func Predicates() []string {
	names := make([]string, 0, len(predicates))
	for name := range predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func distribution(data config.Document) string {
	for _, path := range []string{"distribution.type", "bootstrap_distribution", "distribution"} {
		if v, ok := config.Lookup(data, path); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "k3s"
}

func distributionIs(name string) Predicate {
	return func(data config.Document) bool {
		return distribution(data) == name
	}
}

// hasWorkerNodes holds for k3s clusters with at least one node explicitly
// marked as a non-controller.
func hasWorkerNodes(data config.Document) bool {
	if distribution(data) != "k3s" {
		return false
	}
	for _, item := range nodeList(data) {
		node, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if controller, ok := node["controller"].(bool); ok && !controller {
			return true
		}
	}
	return false
}

// PathFilter excludes directory subtrees whose marker predicate is false.
type PathFilter struct {
	excluded []string
}

// NewPathFilter walks root for marker files and evaluates each named
// predicate against data. An unknown predicate name is an error.
func NewPathFilter(root string, data config.Document) (*PathFilter, error) {
	f := &PathFilter{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != MarkerFile {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		name := strings.TrimSpace(string(raw))
		predicate, ok := predicates[name]
		if !ok {
			return fmt.Errorf("%s: unknown predicate %q (known: %s)", path, name, strings.Join(Predicates(), ", "))
		}

		if !predicate(data) {
			dir := filepath.Dir(path)
			logging.Debug("Excluding %s (%s is false)", dir, name)
			f.excluded = append(f.excluded, dir)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Include reports whether path lies outside every excluded subtree.
func (f *PathFilter) Include(path string) bool {
	path = filepath.Clean(path)
	for _, dir := range f.excluded {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

// Excluded returns the excluded directories in walk order.
func (f *PathFilter) Excluded() []string {
	return append([]string(nil), f.excluded...)
}
