package tsv

import (
	"errors"
	"fmt"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Parse errors
///////////////////////////////////////////////////////////////////////////////

// Kind classifies a parse failure.
type Kind int

const (
	// KindEncoding: the document buffer is not valid UTF-8.
	KindEncoding Kind = iota + 1
	// KindParseField: a field's text does not match the format of its
	// target type, or an enum tag names no known variant.
	KindParseField
	// KindEndOfDocument: a line was requested but none remain.
	KindEndOfDocument
	// KindEndOfLine: a field was requested but none remain on the line.
	KindEndOfLine
	// KindSurplusFields: a line held more fields than its target consumed.
	KindSurplusFields
)

func (k Kind) String() string {
	switch k {
	case KindEncoding:
		return "encoding"
	case KindParseField:
		return "parse field"
	case KindEndOfDocument:
		return "end of document"
	case KindEndOfLine:
		return "end of line"
	case KindSurplusFields:
		return "surplus fields"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the error returned for every parse failure.
//
// Position fields are 1-based and left at zero when unknown. Nested
// assembly failures reach the caller with their Kind unchanged; outer
// layers only fill in positions that are still missing.
type Error struct {
	Kind   Kind
	Line   int    // line number within the document
	Field  int    // field number within the line
	Offset int    // byte offset of an encoding error
	Text   string // offending field text, for KindParseField
	Type   string // target type name, for KindParseField
	Err    error  // underlying cause, if any
}

// Sentinels for use with errors.Is. Any *Error matches the sentinel of the
// same Kind.
var (
	ErrEncoding      = &Error{Kind: KindEncoding}
	ErrParseField    = &Error{Kind: KindParseField}
	ErrEndOfDocument = &Error{Kind: KindEndOfDocument}
	ErrEndOfLine     = &Error{Kind: KindEndOfLine}
	ErrSurplusFields = &Error{Kind: KindSurplusFields}
)

// Error implements the error interface
func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString("tsv: ")
	if e.Line > 0 {
		fmt.Fprintf(b, "line %d: ", e.Line)
	}
	if e.Field > 0 {
		fmt.Fprintf(b, "field %d: ", e.Field)
	}
	b.WriteString(e.Kind.String())
	switch e.Kind {
	case KindEncoding:
		fmt.Fprintf(b, " at byte %d", e.Offset)
	case KindParseField:
		if e.Field > 0 {
			fmt.Fprintf(b, " %q", e.Text)
		}
		if e.Type != "" {
			fmt.Fprintf(b, " as %s", e.Type)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or zero if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// atLine returns a copy of a parse error with its line number filled in.
// Wrapped errors and errors that already carry a line are returned as they
// are.
func atLine(err error, line int) error {
	if e, ok := err.(*Error); ok && e.Line == 0 {
		c := *e
		c.Line = line
		return &c
	}
	return err
}

///////////////////////////////////////////////////////////////////////////////
// Shape errors
///////////////////////////////////////////////////////////////////////////////

// Errors reported while compiling a plan or registering an enum. They
// describe a problem with a Go type, not with the data being parsed.
var (
	ErrUnsupportedType    = errors.New("type cannot be assembled from fields")
	ErrUnexportedField    = errors.New("unexported field cannot be assigned, tag it `tsv:\"-\"` to skip it")
	ErrUnregisteredEnum   = errors.New("interface type is not a registered enum")
	ErrNotInterface       = errors.New("enum type must be an interface")
	ErrInvalidVariant     = errors.New("invalid enum variant")
	ErrDuplicateVariant   = errors.New("duplicate enum variant tag")
	ErrNoVariants         = errors.New("enum must declare at least one variant")
	ErrInvalidTag         = errors.New("invalid tsv struct tag")
	ErrInvalidDestination = errors.New("destination must be a non-nil pointer")
)

// ShapeError reports why a Go type has no plan.
type ShapeError struct {
	Type  string // the type being compiled
	Field string // path to the offending field, if any
	Err   error
}

// Error implements the error interface
func (se *ShapeError) Error() string {
	if se.Field != "" {
		return fmt.Sprintf("tsv: cannot derive %s: field %s: %v", se.Type, se.Field, se.Err)
	}
	return fmt.Sprintf("tsv: cannot derive %s: %v", se.Type, se.Err)
}

// Unwrap returns the underlying cause.
func (se *ShapeError) Unwrap() error {
	return se.Err
}
