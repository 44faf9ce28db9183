package gen

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is the file name generated code is written to when no
// output is configured.
const DefaultOutput = "tsv_gen.go"

// Opts configures a generator run.
type Opts struct {
	// Dir is the directory of the package to read. Defaults to ".".
	Dir string `yaml:"dir"`
	// Types are the names of the types to generate readers for. Types they
	// reference are generated too.
	Types []string `yaml:"types"`
	// Output is the file to write, relative to Dir unless absolute.
	Output string `yaml:"output"`
}

// LoadConfig reads Opts from a YAML file:
//
//	dir: ./internal/fixtures
//	output: tsv_gen.go
//	types: [Header, Object]
func LoadConfig(path string) (Opts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Opts{}, err
	}
	var opts Opts
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Opts{}, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	return opts, nil
}

// Merge returns o with every field set in override replacing its own.
func (o Opts) Merge(override Opts) Opts {
	if override.Dir != "" {
		o.Dir = override.Dir
	}
	if len(override.Types) > 0 {
		o.Types = override.Types
	}
	if override.Output != "" {
		o.Output = override.Output
	}
	return o
}

func (o Opts) withDefaults() Opts {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	return o
}

// OutputPath returns the path generated code is written to.
func (o Opts) OutputPath() string {
	o = o.withDefaults()
	if filepath.IsAbs(o.Output) {
		return o.Output
	}
	return filepath.Join(o.Dir, o.Output)
}
