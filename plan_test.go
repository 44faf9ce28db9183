package tsv

import (
	"errors"
	"reflect"
	"testing"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface{ isShape() }

type line struct{ X1, Y1, X2, Y2 uint32 }

type circle [3]uint32

type dot struct{}

func (line) isShape()   {}
func (circle) isShape() {}
func (dot) isShape()    {}

type list interface{ isList() }

type cons struct {
	Head uint8
	Tail list
}

type end struct{}

func (cons) isList() {}
func (end) isList()  {}

type span struct {
	Lo, Hi int
}

func (s *span) Validate() error {
	if s.Lo > s.Hi {
		return errors.New("lo exceeds hi")
	}
	return nil
}

func newShapeRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(RegistryOpts{})
	require.NoError(t, RegisterEnumIn[shape](reg, line{}, (*circle)(nil), dot{}))
	require.NoError(t, RegisterEnumIn[list](reg, cons{}, end{}))
	return reg
}

func TestPlan_Shapes(t *testing.T) {
	reg := newShapeRegistry(t)

	tests := []struct {
		name  string
		typ   reflect.Type
		shape Shape
		steps int
		len   int
	}{
		{"int", reflect.TypeFor[int](), ShapeScalar, 0, 0},
		{"string", reflect.TypeFor[string](), ShapeScalar, 0, 0},
		{"uuid", reflect.TypeFor[uuid.UUID](), ShapeText, 0, 0},
		{"time", reflect.TypeFor[time.Time](), ShapeText, 0, 0},
		{"json", reflect.TypeFor[JSON](), ShapeReader, 0, 0},
		{"int128", reflect.TypeFor[Int128](), ShapeReader, 0, 0},
		{"hex_array", reflect.TypeFor[[3]byte](), ShapeHex, 0, 3},
		{"hex_slice", reflect.TypeFor[[]byte](), ShapeHex, 0, 0},
		{"uint128", reflect.TypeFor[Uint128](), ShapeReader, 0, 0},
		{"unit", reflect.TypeFor[dot](), ShapeUnit, 0, 0},
		{"struct", reflect.TypeFor[header](), ShapeStruct, 3, 0},
		{"tuple", reflect.TypeFor[circle](), ShapeTuple, 0, 3},
		{"pointer", reflect.TypeFor[*span](), ShapePointer, 0, 0},
		{"enum", reflect.TypeFor[shape](), ShapeEnum, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := reg.Plan(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, plan.Type)
			assert.Equal(t, tt.shape, plan.Shape, "got %s", plan.Shape)
			assert.Equal(t, tt.steps, plan.Steps())
			assert.Equal(t, tt.len, plan.Len)
		})
	}
}

func TestPlan_StructSteps(t *testing.T) {
	plan, err := NewRegistry(RegistryOpts{}).Plan(reflect.TypeFor[header]())
	require.NoError(t, err)

	var names []string
	var indexes []int
	for step := plan.Head; step != nil; step = step.Next {
		names = append(names, step.FieldName)
		indexes = append(indexes, step.FieldIndex)
	}
	assert.Equal(t, []string{"Version", "Title", "Background"}, names)
	assert.Equal(t, []int{0, 1, 2}, indexes)
	assert.Equal(t, ShapeHex, plan.Head.Next.Next.Plan.Shape)
}

func TestPlan_Unsupported(t *testing.T) {
	type withMap struct {
		Inner struct {
			M map[string]int
		}
	}
	type withUnexported struct {
		A int
		b int
	}
	type withBadTag struct {
		A int `tsv:"base64"`
	}
	type withHexInt struct {
		A int `tsv:"hex"`
	}

	tests := []struct {
		name  string
		typ   reflect.Type
		field string
		err   error
	}{
		{"map", reflect.TypeFor[map[string]int](), "", ErrUnsupportedType},
		{"chan", reflect.TypeFor[chan int](), "", ErrUnsupportedType},
		{"func", reflect.TypeFor[func()](), "", ErrUnsupportedType},
		{"uintptr", reflect.TypeFor[uintptr](), "", ErrUnsupportedType},
		{"unsafe_pointer", reflect.TypeFor[unsafe.Pointer](), "", ErrUnsupportedType},
		{"int_slice", reflect.TypeFor[[]int](), "", ErrUnsupportedType},
		{"nested_map", reflect.TypeFor[withMap](), "Inner.M", ErrUnsupportedType},
		{"tuple_of_maps", reflect.TypeFor[[2]map[int]int](), "[]", ErrUnsupportedType},
		{"unregistered_interface", reflect.TypeFor[shape](), "", ErrUnregisteredEnum},
		{"any", reflect.TypeFor[any](), "", ErrUnregisteredEnum},
		{"unexported", reflect.TypeFor[withUnexported](), "b", ErrUnexportedField},
		{"bad_tag", reflect.TypeFor[withBadTag](), "A", ErrInvalidTag},
		{"hex_on_int", reflect.TypeFor[withHexInt](), "A", ErrInvalidTag},
	}

	reg := NewRegistry(RegistryOpts{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := reg.Plan(tt.typ)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tt.err)

			var se *ShapeError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.typ.String(), se.Type)
			assert.Equal(t, tt.field, se.Field)
		})
	}

	assert.Empty(t, reg.Types(), "failed compilations must not be cached")
}

func TestPlan_FieldsReadShapeError(t *testing.T) {
	var m map[string]int
	err := NewFields("x").Read(&m)

	var se *ShapeError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, Kind(0), KindOf(err))
}

func TestPlan_SkipTag(t *testing.T) {
	type record struct {
		A     int
		cache map[string]int `tsv:"-"`
		B     int
		C     string `tsv:"-"`
	}

	r, err := ParseLine[record]("1\t2")
	require.NoError(t, err)
	assert.Equal(t, 1, r.A)
	assert.Equal(t, 2, r.B)
	assert.Nil(t, r.cache)
	assert.Empty(t, r.C)
}

func TestPlan_HexTag(t *testing.T) {
	type record struct {
		ID  uuid.UUID `tsv:"hex"`
		Raw []byte    `tsv:"hex"`
	}

	r, err := ParseLine[record]("00112233445566778899aabbccddeeff\t0102")
	require.NoError(t, err)
	assert.Equal(t, uuid.UUID{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, r.ID)
	assert.Equal(t, []byte{1, 2}, r.Raw)

	// without the tag the same field goes through UnmarshalText
	_, err = ParseLine[uuid.UUID]("00112233445566778899aabbccddeeff")
	require.NoError(t, err)
	_, err = ParseLine[record]("00112233-4455-6677-8899-aabbccddeeff\t0102")
	assert.ErrorIs(t, err, ErrParseField)
}

func TestPlan_Pointer(t *testing.T) {
	type record struct {
		Name *string
		Size **uint16
	}

	r, err := ParseLine[record]("n\t12")
	require.NoError(t, err)
	require.NotNil(t, r.Name)
	assert.Equal(t, "n", *r.Name)
	require.NotNil(t, r.Size)
	require.NotNil(t, *r.Size)
	assert.Equal(t, uint16(12), **r.Size)
}

func TestPlan_Tuple(t *testing.T) {
	type point [2]int8
	v, err := ParseLine[[3]point]("1\t2\t3\t4\t-5\t-6")
	require.NoError(t, err)
	assert.Equal(t, [3]point{{1, 2}, {3, 4}, {-5, -6}}, v)

	_, err = ParseLine[[3]point]("1\t2\t3\t4\t-5")
	assert.ErrorIs(t, err, ErrEndOfLine)

	_, err = ParseLine[[0]int]("")
	assert.ErrorIs(t, err, ErrSurplusFields)
}

func TestPlan_Enum(t *testing.T) {
	reg := newShapeRegistry(t)

	read := func(line string) (shape, error) {
		f := reg.NewFields(line)
		v, err := Read[shape](f)
		if err != nil {
			return v, err
		}
		return v, f.Done()
	}

	t.Run("NamedVariant", func(t *testing.T) {
		v, err := read("line\t0\t0\t500\t500")
		require.NoError(t, err)
		assert.Equal(t, line{0, 0, 500, 500}, v)
	})

	t.Run("PointerVariant", func(t *testing.T) {
		v, err := read("circle\t200\t300\t20")
		require.NoError(t, err)
		assert.Equal(t, &circle{200, 300, 20}, v)
	})

	t.Run("UnitVariant", func(t *testing.T) {
		v, err := read("dot")
		require.NoError(t, err)
		assert.Equal(t, dot{}, v)
	})

	t.Run("UnknownVariant", func(t *testing.T) {
		v, err := read("hexagon\t1")
		assert.Nil(t, v)
		assert.ErrorIs(t, err, ErrParseField)
		assert.ErrorIs(t, err, ErrUnknownVariant)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "hexagon", e.Text)
		assert.Equal(t, "tsv.shape", e.Type)
		assert.Equal(t, 1, e.Field)
	})

	t.Run("TagIsCaseSensitive", func(t *testing.T) {
		_, err := read("Line\t0\t0\t1\t1")
		assert.ErrorIs(t, err, ErrUnknownVariant)
	})

	t.Run("PayloadError", func(t *testing.T) {
		_, err := read("circle\t200\tx\t20")

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, KindParseField, e.Kind)
		assert.Equal(t, 3, e.Field)
		assert.Equal(t, "uint32", e.Type)
	})

	t.Run("MissingTag", func(t *testing.T) {
		f := reg.NewFields("dot")
		_, _ = f.Next()
		_, err := Read[shape](f)
		assert.ErrorIs(t, err, ErrEndOfLine)
	})

	t.Run("Recursive", func(t *testing.T) {
		f := reg.NewFields("cons\t1\tcons\t2\tend")
		v, err := Read[list](f)
		require.NoError(t, err)
		require.NoError(t, f.Done())
		assert.Equal(t, cons{Head: 1, Tail: cons{Head: 2, Tail: end{}}}, v)
	})

	t.Run("InsideStruct", func(t *testing.T) {
		type object struct {
			Colour [3]byte
			Fill   bool
			Shape  shape
		}
		doc, err := NewDocumentString("550055\ttrue\tcircle\t200\t300\t20", DocumentOpts{Registry: reg})
		require.NoError(t, err)

		o, err := ReadOne[object](doc)
		require.NoError(t, err)
		assert.Equal(t, object{
			Colour: [3]byte{0x55, 0x00, 0x55},
			Fill:   true,
			Shape:  &circle{200, 300, 20},
		}, o)
	})
}

func TestPlan_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		s, err := ParseLine[span]("1\t2")
		require.NoError(t, err)
		assert.Equal(t, span{1, 2}, s)
	})

	t.Run("Invalid", func(t *testing.T) {
		doc, err := NewDocumentString("1\t2\n5\t2", DocumentOpts{})
		require.NoError(t, err)

		_, err = ReadOne[span](doc)
		require.NoError(t, err)

		s, err := ReadOne[span](doc)
		assert.Equal(t, span{}, s)
		assert.ErrorIs(t, err, ErrParseField)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 2, e.Line)
		assert.Equal(t, "tsv.span", e.Type)
		assert.EqualError(t, e.Err, "lo exceeds hi")
	})

	t.Run("Nested", func(t *testing.T) {
		type window struct {
			Name  string
			Range span
		}
		_, err := ParseLine[window]("w\t9\t1")
		assert.ErrorIs(t, err, ErrParseField)

		_, err = ParseLine[[]*span]("")
		assert.ErrorIs(t, err, ErrUnsupportedType)

		p, err := ParseLine[*span]("1\t1")
		require.NoError(t, err)
		assert.Equal(t, &span{1, 1}, p)
	})
}

func TestPlan_NoPartialAssignment(t *testing.T) {
	reg := newShapeRegistry(t)
	f := reg.NewFields("7\tcircle\t1\t2\tnope")

	dest := struct {
		N     int
		Shape shape
	}{N: -1, Shape: dot{}}

	err := f.Read(&dest)
	assert.ErrorIs(t, err, ErrParseField)
	assert.Equal(t, -1, dest.N)
	assert.Equal(t, dot{}, dest.Shape)
}
