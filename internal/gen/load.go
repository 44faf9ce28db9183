package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
)

// VariantsDirective marks an interface type as an enum and lists its
// variants, in the interface's doc comment:
//
//	//tsv:variants Line Circle *Polygon
//	type Shape interface{ isShape() }
const VariantsDirective = "//tsv:variants"

// source is the parsed form of the package a run reads.
type source struct {
	fset  *token.FileSet
	name  string
	specs map[string]*typeSpec
	// types with a `Validate() error` method, on the value or the pointer
	validates map[string]bool
	// types reading themselves: a ReadTSV(*tsv.Fields) error method
	readers map[string]bool
	// types with an UnmarshalText([]byte) error method
	texts map[string]bool
	// method names by receiver base type; true for pointer receivers
	methods map[string]map[string]bool
}

type typeSpec struct {
	spec     *ast.TypeSpec
	variants []string // directive arguments, nil without a directive
	hasDir   bool
}

func (s *source) pos(p token.Pos) token.Position {
	return s.fset.Position(p)
}

// load parses the non-test Go files of dir, leaving out the file generated
// code is written to.
func load(dir, output string) (*source, error) {
	outBase := filepath.Base(output)
	filter := func(fi fs.FileInfo) bool {
		name := fi.Name()
		return !strings.HasSuffix(name, "_test.go") && name != outBase
	}

	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, filter, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPackage, dir)
	}
	if len(pkgs) > 1 {
		names := make([]string, 0, len(pkgs))
		for name := range pkgs {
			names = append(names, name)
		}
		return nil, fmt.Errorf("multiple packages in %s: %s", dir, strings.Join(names, ", "))
	}

	src := &source{
		fset:      fset,
		specs:     make(map[string]*typeSpec),
		validates: make(map[string]bool),
		readers:   make(map[string]bool),
		texts:     make(map[string]bool),
		methods:   make(map[string]map[string]bool),
	}
	for name, pkg := range pkgs {
		src.name = name
		for _, file := range pkg.Files {
			src.collect(file)
		}
	}
	return src, nil
}

func (s *source) collect(file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				entry := &typeSpec{spec: ts}
				entry.variants, entry.hasDir = directive(doc)
				s.specs[ts.Name.Name] = entry
			}
		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) != 1 {
				continue
			}
			recv := receiverName(d.Recv.List[0].Type)
			if s.methods[recv] == nil {
				s.methods[recv] = make(map[string]bool)
			}
			_, ptr := d.Recv.List[0].Type.(*ast.StarExpr)
			s.methods[recv][d.Name.Name] = ptr

			switch {
			case isValidate(d):
				s.validates[recv] = true
			case isReadTSV(d):
				s.readers[recv] = true
			case isUnmarshalText(d):
				s.texts[recv] = true
			}
		}
	}
}

// directive returns the arguments of the variants directive in doc.
func directive(doc *ast.CommentGroup) ([]string, bool) {
	if doc == nil {
		return nil, false
	}
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, VariantsDirective)
		if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		return strings.Fields(rest), true
	}
	return nil, false
}

// isValidate reports whether fn is a `Validate() error` method.
func isValidate(fn *ast.FuncDecl) bool {
	if fn.Recv == nil || len(fn.Recv.List) != 1 || fn.Name.Name != "Validate" {
		return false
	}
	return fn.Type.Params.NumFields() == 0 && returnsError(fn)
}

// returnsError reports whether fn has exactly one result, of type error.
func returnsError(fn *ast.FuncDecl) bool {
	results := fn.Type.Results
	if results.NumFields() != 1 {
		return false
	}
	id, ok := results.List[0].Type.(*ast.Ident)
	return ok && id.Name == "error"
}

// singleParam returns the type of fn's only parameter.
func singleParam(fn *ast.FuncDecl) (ast.Expr, bool) {
	params := fn.Type.Params
	if params.NumFields() != 1 {
		return nil, false
	}
	return params.List[0].Type, true
}

// isReadTSV reports whether fn is a `ReadTSV(*tsv.Fields) error` method,
// whatever name the tsv package is imported under.
func isReadTSV(fn *ast.FuncDecl) bool {
	if fn.Name.Name != "ReadTSV" || !returnsError(fn) {
		return false
	}
	param, ok := singleParam(fn)
	if !ok {
		return false
	}
	star, ok := param.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	return ok && sel.Sel.Name == "Fields"
}

// isUnmarshalText reports whether fn is an `UnmarshalText([]byte) error`
// method.
func isUnmarshalText(fn *ast.FuncDecl) bool {
	if fn.Name.Name != "UnmarshalText" || !returnsError(fn) {
		return false
	}
	param, ok := singleParam(fn)
	if !ok {
		return false
	}
	arr, ok := param.(*ast.ArrayType)
	return ok && arr.Len == nil && isByte(arr.Elt)
}

// receiverName returns the base type name of a method receiver.
func receiverName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}
