// Package gen implements tsvgen, which writes tsv.Reader implementations
// for the types of a package from their declarations.
//
// Structs get a ReadTSV method reading their exported fields in
// declaration order. Defined types over a scalar, byte array, byte slice or
// array get one too. An interface marked with the variants directive
// becomes an enum: a read function selecting the variant by its tag, which
// is registered with tsv.MustRegisterFunc so derived plans use it as well.
//
// Types that already have a ReadTSV method are read through it and get no
// generated method. Types with an UnmarshalText method are read with
// Fields.Read, which goes through encoding.TextUnmarshaler. A defined type
// over another type of the package, `type A B`, is read by B's shape, since
// A does not inherit B's methods.
//
// The generated code follows the same rules as the reflection-based plans
// of package tsv, so both read the same documents the same way.
package gen

import (
	"fmt"
	"os"
	"slices"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("tsvgen.gen")

// Describe analyzes the requested types of the package in opts.Dir and
// returns the models code would be generated from, sorted by name.
func Describe(opts Opts) ([]*TypeDecl, string, error) {
	opts = opts.withDefaults()
	if len(opts.Types) == 0 {
		return nil, "", ErrNoTypes
	}

	src, err := load(opts.Dir, opts.Output)
	if err != nil {
		return nil, "", err
	}

	a := newAnalyzer(src)
	if err := a.run(opts.Types); err != nil {
		return nil, src.name, err
	}

	if len(a.order) == 0 {
		return nil, src.name, fmt.Errorf("%w: every requested type reads itself", ErrNoTypes)
	}

	names := slices.Clone(a.order)
	slices.Sort(names)
	decls := make([]*TypeDecl, 0, len(names))
	for _, name := range names {
		decls = append(decls, a.decls[name])
	}
	return decls, src.name, nil
}

// Generate returns the source of the generated file.
func Generate(opts Opts) ([]byte, error) {
	decls, pkg, err := Describe(opts)
	if err != nil {
		return nil, err
	}
	for _, d := range decls {
		log.Debugf("generating %s %s", d.Kind, d.Name)
	}
	return render(pkg, decls)
}

// Run generates code and writes it to opts.OutputPath().
func Run(opts Opts) error {
	code, err := Generate(opts)
	if err != nil {
		return err
	}
	path := opts.OutputPath()
	if err := os.WriteFile(path, code, 0o644); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	log.Infof("wrote %s", path)
	return nil
}
