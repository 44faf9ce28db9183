package tsv

import (
	"fmt"
	"strings"
)

// Validatable is implemented by records that check their own invariants
// once all of their fields have been read.
//
// Derived plans call Validate on every assembled value whose pointer
// implements it. Types implementing Reader are expected to do so
// themselves, which is what the code generated by tsvgen does.
type Validatable interface {
	// Validate returns an error if the assembled value is not acceptable.
	// It is called on a pointer to a fully populated value.
	Validate() error
}

// Validate runs v.Validate and reports a failure as a KindParseField error
// at the current line.
func (f *Fields) Validate(v Validatable) error {
	if err := v.Validate(); err != nil {
		return &Error{
			Kind: KindParseField,
			Line: f.line,
			Type: strings.TrimPrefix(fmt.Sprintf("%T", v), "*"),
			Err:  err,
		}
	}
	return nil
}
