package tsv

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Reader is the Value Assembly contract: a type implementing it builds
// itself from the next fields of f.
//
// Implementations must read their fields strictly in order and must not
// keep f after returning. They should leave the receiver untouched when
// they fail, which the code generated by tsvgen does by assembling into a
// local value first.
type Reader interface {
	ReadTSV(f *Fields) error
}

// ErrUnknownVariant is the cause attached to a KindParseField error when an
// enum tag names no variant.
var ErrUnknownVariant = errors.New("unknown enum variant")

// Fields is a forward-only cursor over the tab-separated fields of a single
// line. Fields handed out are substrings of the line.
//
// A Fields is owned by one reader at a time and is not safe for concurrent
// use.
type Fields struct {
	rest     string // unread part of the line
	done     bool   // no field left
	consumed int    // fields handed out so far
	line     int    // line number within the document, 0 when standalone
	reg      *Registry
}

// NewFields returns a cursor over line, using the default registry for
// derived plans. line must not contain the line separator.
func NewFields(line string) *Fields {
	return newFields(line, 0, nil)
}

func newFields(line string, lineNo int, reg *Registry) *Fields {
	if reg == nil {
		reg = defaultRegistry
	}
	return &Fields{rest: line, line: lineNo, reg: reg}
}

// Next returns the next field of the line. Once every field has been handed
// out it fails with a KindEndOfLine error, on this and every later call.
func (f *Fields) Next() (string, error) {
	if f.done {
		return "", &Error{Kind: KindEndOfLine, Line: f.line, Field: f.consumed + 1}
	}
	f.consumed++
	i := strings.IndexByte(f.rest, FieldSeparator)
	if i < 0 {
		field := f.rest
		f.rest, f.done = "", true
		return field, nil
	}
	field := f.rest[:i]
	f.rest = f.rest[i+1:]
	return field, nil
}

// More reports whether unread fields remain.
func (f *Fields) More() bool {
	return !f.done
}

// Consumed returns the number of fields read so far.
func (f *Fields) Consumed() int {
	return f.consumed
}

// Line returns the 1-based line number of the cursor within its document,
// or 0 for a standalone cursor.
func (f *Fields) Line() int {
	return f.line
}

// Done fails with a KindSurplusFields error if unread fields remain.
func (f *Fields) Done() error {
	if f.done {
		return nil
	}
	return &Error{Kind: KindSurplusFields, Line: f.line, Field: f.consumed + 1}
}

// Read assembles the value dest points to from the next fields. On failure
// *dest is left untouched.
func (f *Fields) Read(dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w, got %T", ErrInvalidDestination, dest)
	}
	return f.readValue(rv.Elem())
}

func (f *Fields) readValue(dst reflect.Value) error {
	plan, err := f.reg.Plan(dst.Type())
	if err != nil {
		return err
	}
	tmp := reflect.New(dst.Type()).Elem()
	if err := plan.Execute(f, tmp); err != nil {
		return err
	}
	dst.Set(tmp)
	return nil
}

// UnknownVariant returns the error for an enum tag that names no variant.
// The tag must be the field just read.
func (f *Fields) UnknownVariant(tag string) error {
	return f.fieldError(tag, "", ErrUnknownVariant)
}

// fieldError reports that the field just read could not be converted to typ.
func (f *Fields) fieldError(text, typ string, cause error) *Error {
	return &Error{
		Kind:  KindParseField,
		Line:  f.line,
		Field: f.consumed,
		Text:  text,
		Type:  typ,
		Err:   cause,
	}
}

// Read assembles a T from the next fields of f.
func Read[T any](f *Fields) (T, error) {
	var out T
	if r, ok := any(&out).(Reader); ok {
		if err := r.ReadTSV(f); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	}
	plan, err := f.reg.Plan(reflect.TypeFor[T]())
	if err != nil {
		return out, err
	}
	if err := plan.Execute(f, reflect.ValueOf(&out).Elem()); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ParseLine assembles a T from a whole line. Unlike reading through a
// Document with default options, a line with fields left over after T is
// complete fails with a KindSurplusFields error.
func ParseLine[T any](line string) (T, error) {
	f := NewFields(line)
	v, err := Read[T](f)
	if err != nil {
		return v, err
	}
	if err := f.Done(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
