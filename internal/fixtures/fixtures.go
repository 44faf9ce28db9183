// Package fixtures holds record types whose readers are generated by
// tsvgen. Tests check the generated readers against the plans package tsv
// derives for the same types.
package fixtures

import (
	"errors"

	"github.com/google/uuid"
)

//go:generate go run ../../cmd/tsvgen generate -t Header,Object

var errNoVersion = errors.New("version must be positive")

// Colour is an RGB triple, written as six hex digits.
type Colour [3]byte

// Header is the first line of a drawing.
type Header struct {
	Version    uint32
	Title      string
	Background Colour
}

func (h *Header) Validate() error {
	if h.Version == 0 {
		return errNoVersion
	}
	return nil
}

// Shape is the outline of an Object.
//
//tsv:variants Line Circle Rectangle
type Shape interface{ isShape() }

type Line struct{ X1, Y1, X2, Y2 uint32 }

type Circle struct{ X, Y, R uint32 }

type Rectangle [4]uint32

func (Line) isShape()      {}
func (Circle) isShape()    {}
func (Rectangle) isShape() {}

// Object is one element of a drawing.
type Object struct {
	ID     uuid.UUID `tsv:"hex"`
	Colour Colour
	Filled bool
	Shape  Shape
	Label  *string
}
