package gen

import (
	"errors"
	"fmt"
	"go/token"
)

// Generation-time diagnostics. Each is reported wrapped in a *Diagnostic
// carrying the source position and the type it concerns.
var (
	ErrUnknownType      = errors.New("type is not declared in this package")
	ErrUnsupportedType  = errors.New("type cannot be assembled from fields")
	ErrUnexportedField  = errors.New("unexported field, tag it `tsv:\"-\"` to skip it")
	ErrInvalidTag       = errors.New("invalid tsv struct tag")
	ErrNotInterface     = errors.New("//tsv:variants directive on a non-interface type")
	ErrGenericEnum      = errors.New("enum interface cannot have type parameters")
	ErrUnknownVariant   = errors.New("variant is not a type declared in this package")
	ErrInvalidVariant   = errors.New("variant must be a non-generic type implementing the enum interface")
	ErrDuplicateVariant = errors.New("duplicate variant tag")
	ErrNoVariants       = errors.New("//tsv:variants directive lists no variants")
	ErrArrayLength      = errors.New("array length must be a constant expression")
	ErrNoTypes          = errors.New("no types requested")
	ErrNoPackage        = errors.New("no Go package found")
)

// Diagnostic is a problem found in the input package.
type Diagnostic struct {
	Pos  token.Position
	Type string // the type being generated
	Msg  string // detail, may be empty
	Err  error
}

// Error implements the error interface
func (d *Diagnostic) Error() string {
	s := ""
	if d.Pos.IsValid() {
		s = d.Pos.String() + ": "
	}
	s += d.Type + ": "
	if d.Msg != "" {
		s += d.Msg + ": "
	}
	return s + d.Err.Error()
}

// Unwrap returns the underlying sentinel.
func (d *Diagnostic) Unwrap() error {
	return d.Err
}

func diagf(pos token.Position, typ string, err error, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Type: typ, Msg: fmt.Sprintf(format, args...), Err: err}
}
