package rules

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/validate"
	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var builtinFS embed.FS

// Distribution holds the per-distribution constants used by node checks.
type Distribution struct {
	Port            int      `yaml:"port" validate:"required,min=1,max=65535"`
	Tools           []string `yaml:"tools"`
	RequireUsername bool     `yaml:"require_username"`
	RequireDisk     bool     `yaml:"require_disk"`
}

// Requirements converts the distribution flags for inventory validation.
func (d Distribution) Requirements() validate.NodeRequirements {
	return validate.NodeRequirements{Username: d.RequireUsername, Disk: d.RequireDisk}
}

// Tunnel describes when the tunnel feature and its CLI are required.
type Tunnel struct {
	// AlwaysEnabled treats the tunnel as configured even without an enable flag.
	AlwaysEnabled bool `yaml:"always_enabled"`
	// Tool is required only when the tunnel is enabled.
	Tool string `yaml:"tool"`
	// ToolUnlessToken waives Tool when a pre-issued tunnel token is configured.
	ToolUnlessToken bool `yaml:"tool_unless_token"`
}

// NodeKeys names the per-node keys inside an inventory entry.
type NodeKeys struct {
	Name        string `yaml:"name" validate:"required"`
	Address     string `yaml:"address" validate:"required"`
	Controller  string `yaml:"controller"`
	Username    string `yaml:"username"`
	Disk        string `yaml:"disk"`
	MACAddr     string `yaml:"mac_addr"`
	SchematicID string `yaml:"schematic_id"`
}

// InventoryLayout describes how nodes are laid out in the document. Grouped
// inventories are maps of group name to node list; membership in one of
// ControllerGroups makes a node a controller.
type InventoryLayout struct {
	Grouped          bool     `yaml:"grouped"`
	ControllerGroups []string `yaml:"controller_groups"`
	Keys             NodeKeys `yaml:"keys"`
}

// Profile is one configuration generation: field paths, defaults and
// generation-specific constants. Profiles are immutable once loaded.
type Profile struct {
	Name          string                  `yaml:"name" validate:"required"`
	Aliases       []string                `yaml:"aliases"`
	Massage       []string                `yaml:"massage"`
	Paths         map[Field]string        `yaml:"paths"`
	Defaults      map[Field]any           `yaml:"defaults"`
	Required      []Field                 `yaml:"required"`
	Distributions map[string]Distribution `yaml:"distributions" validate:"required,min=1,dive"`
	GlobalTools   []string                `yaml:"global_tools"`
	Tunnel        Tunnel                  `yaml:"tunnel"`
	Inventory     InventoryLayout         `yaml:"inventory"`
}

// Path returns the document path for f, or "" when the profile has none.
func (p *Profile) Path(f Field) string {
	return p.Paths[f]
}

// Requires reports whether the profile makes f mandatory wherever it is read.
func (p *Profile) Requires(f Field) bool {
	for _, r := range p.Required {
		if r == f {
			return true
		}
	}
	return false
}

// DistributionNames lists the supported distributions in sorted order.
func (p *Profile) DistributionNames() []string {
	names := make([]string, 0, len(p.Distributions))
	for name := range p.Distributions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Distribution looks up a distribution by name.
func (p *Profile) Distribution(name string) (Distribution, error) {
	d, ok := p.Distributions[name]
	if !ok {
		return Distribution{}, &validate.SyntaxError{
			Field:    "distribution",
			Value:    name,
			Expected: "one of " + strings.Join(p.DistributionNames(), ", "),
		}
	}
	return d, nil
}

// Prepare returns a massaged copy of doc with every profile default written
// at its path when the document leaves it unset. doc is not modified.
func (p *Profile) Prepare(doc config.Document) config.Document {
	out := config.Massage(doc, p.Massage...)

	fields := make([]string, 0, len(p.Defaults))
	for f := range p.Defaults {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)

	for _, name := range fields {
		f := Field(name)
		path := p.Path(f)
		if _, ok := config.Lookup(out, path); !ok {
			// copied so callers cannot alter the shared profile
			value := config.Document{"v": p.Defaults[f]}.Clone()["v"]
			config.Set(out, path, value)
		}
	}
	return out
}

// ParseProfile decodes and validates a profile document.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if err := validate.ValidateStruct(&p); err != nil {
		return nil, fmt.Errorf("invalid profile %q: %w", p.Name, err)
	}
	if err := validate.ValidateStruct(&p.Inventory.Keys); err != nil {
		return nil, fmt.Errorf("invalid profile %q inventory keys: %w", p.Name, err)
	}
	for f := range p.Defaults {
		if p.Paths[f] == "" {
			return nil, fmt.Errorf("invalid profile %q: default for unmapped field %s", p.Name, f)
		}
	}
	return &p, nil
}

// LoadProfile reads a custom profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(data)
}

var builtins map[string]*Profile

func init() {
	builtins = make(map[string]*Profile)
	entries, err := builtinFS.ReadDir("profiles")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		data, err := builtinFS.ReadFile("profiles/" + entry.Name())
		if err != nil {
			panic(err)
		}
		p, err := ParseProfile(data)
		if err != nil {
			panic(fmt.Sprintf("builtin profile %s: %v", entry.Name(), err))
		}
		builtins[p.Name] = p
		for _, alias := range p.Aliases {
			builtins[alias] = p
		}
	}
}

// Builtin returns a built-in profile by name or alias ("flat"/"v1", "nested"/"v2").
func Builtin(name string) (*Profile, error) {
	p, ok := builtins[name]
	if !ok {
		names := make([]string, 0, len(builtins))
		for n := range builtins {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}

// Builtins returns each built-in profile once, sorted by name.
func Builtins() []*Profile {
	seen := make(map[*Profile]bool, len(builtins))
	out := make([]*Profile, 0, len(builtins))
	for _, p := range builtins {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve returns a built-in profile by name, or loads one from disk when
// name refers to an existing YAML file.
func Resolve(name string) (*Profile, error) {
	if p, err := Builtin(name); err == nil {
		return p, nil
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return LoadProfile(name)
	}
	return Builtin(name)
}
