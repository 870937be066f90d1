package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/resolve"
)

// ParamSpec is one user parameter in the yaml parameter file.
type ParamSpec struct {
	Value   float64 `yaml:"value"`
	Unit    string  `yaml:"unit,omitempty"`
	Expr    string  `yaml:"expr,omitempty"`
	Comment string  `yaml:"comment,omitempty"`
}

// LoadParams reads the yaml parameter set into a render namespace.
func LoadParams(path string) (resolve.Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}

	specs := map[string]ParamSpec{}
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing parameter file %s: %w", path, err)
	}

	ns := make(resolve.Namespace, len(specs))
	for name, spec := range specs {
		ns[name] = resolve.Parameter{
			Value:   spec.Value,
			Unit:    spec.Unit,
			Expr:    spec.Expr,
			Comment: spec.Comment,
		}
	}
	log.Debug(log.CatConfig, "Loaded parameters", "path", path, "count", len(ns))
	return ns, nil
}

// SaveParams writes the namespace back as a yaml parameter file. Keys are
// emitted in sorted order so the file diffs cleanly.
func SaveParams(path string, ns resolve.Namespace) error {
	names := make([]string, 0, len(ns))
	for name := range ns {
		names = append(names, name)
	}
	sort.Strings(names)

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range names {
		p := ns[name]
		spec := ParamSpec{Value: p.Value, Unit: p.Unit, Expr: p.Expr, Comment: p.Comment}
		var specNode yaml.Node
		if err := specNode.Encode(spec); err != nil {
			return fmt.Errorf("encoding parameter %s: %w", name, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&specNode,
		)
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshaling parameters: %w", err)
	}

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating parameter directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".params.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(out); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debug(log.CatConfig, "Saved parameters", "path", path, "count", len(ns))
	return nil
}
