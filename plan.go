package tsv

import (
	"fmt"
	"reflect"

	"github.com/tliron/commonlog"
)

var planLog = commonlog.GetLogger(PlanLoggerName)

// Shape names the rule a Plan was derived with.
type Shape int

const (
	ShapeScalar  Shape = iota // one field, converted by a built-in decoder
	ShapeText                 // one field, handed to encoding.TextUnmarshaler
	ShapeHex                  // one field of hex digits into a byte array or slice
	ShapeReader               // the type's own Reader, or a registered reader func
	ShapeUnit                 // a struct without fields; reads nothing
	ShapeStruct               // one step per field, in declaration order
	ShapeTuple                // an array of N non-byte elements, read one after another
	ShapePointer              // a fresh value of the element type
	ShapeEnum                 // a tag field naming a variant, then the variant's payload
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeText:
		return "text"
	case ShapeHex:
		return "hex"
	case ShapeReader:
		return "reader"
	case ShapeUnit:
		return "unit"
	case ShapeStruct:
		return "struct"
	case ShapeTuple:
		return "tuple"
	case ShapePointer:
		return "pointer"
	case ShapeEnum:
		return "enum"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// decodeFunc assembles a value into v, which must be settable and
// addressable.
type decodeFunc func(f *Fields, v reflect.Value) error

// Plan is the compiled assembly procedure for one Go type: the mechanical
// transcription of the type's declared shape into parse order.
//
// Plans are built once per type and Registry, and may refer to each other,
// including cyclically through pointers and enums.
type Plan struct {
	Type  reflect.Type
	Shape Shape
	Head  *PlanStep // first field step, for ShapeStruct
	Elem  *Plan     // element plan, for ShapeTuple and ShapePointer
	Enum  *Enum     // variants, for ShapeEnum
	Len   int       // element count, for ShapeTuple and fixed-size ShapeHex

	decode decodeFunc
}

// PlanStep represents a single field in a struct plan
type PlanStep struct {
	Next       *PlanStep // Next is the next field in declaration order
	Plan       *Plan     // Plan assembles the field's value
	FieldName  string    // Name of the field for error reporting
	FieldIndex int       // Index of the field in the struct
}

// Execute assembles a value of p.Type into v. v must be settable and
// addressable; on failure it may hold a partially assembled value, so
// callers assemble into a scratch value, as Fields.Read does.
func (p *Plan) Execute(f *Fields, v reflect.Value) error {
	return p.decode(f, v)
}

// Steps returns the number of field steps of a struct plan.
func (p *Plan) Steps() int {
	n := 0
	for s := p.Head; s != nil; s = s.Next {
		n++
	}
	return n
}

///////////////////////////////////////////////////////////////////////////////
// Compilation
///////////////////////////////////////////////////////////////////////////////

// compiler derives the plans for one root type. Plans are published to the
// registry's cache only once every plan reachable from the root is complete.
type compiler struct {
	reg      *Registry
	root     reflect.Type
	building map[reflect.Type]*Plan
}

func (c *compiler) fail(field string, err error) error {
	return &ShapeError{Type: c.root.String(), Field: field, Err: err}
}

// compile returns the plan for typ, compiling it if it is not known yet.
// field is the path from the root type, for error reporting.
func (c *compiler) compile(typ reflect.Type, field string) (*Plan, error) {
	if p, ok := c.reg.plans.Get(typ); ok {
		return p, nil
	}
	if p, ok := c.building[typ]; ok {
		return p, nil
	}

	p := &Plan{Type: typ}
	c.building[typ] = p
	if err := c.derive(p, field); err != nil {
		return nil, err
	}
	if c.reg.validates(typ) {
		p.decode = validated(p.decode)
	}
	if planLog.AllowLevel(commonlog.Debug) {
		planLog.Debug("compiled plan", "type", typ.String(), "shape", p.Shape.String(), "steps", p.Steps())
	}
	return p, nil
}

// derive applies the first matching rule:
//  1. a registered reader func
//  2. the type's own Reader implementation
//  3. a registered enum interface
//  4. encoding.TextUnmarshaler
//  5. the type's kind
func (c *compiler) derive(p *Plan, field string) error {
	typ := p.Type

	if fn, ok := c.reg.readers[typ]; ok {
		p.Shape, p.decode = ShapeReader, decodeFunc(fn)
		return nil
	}
	if reflect.PointerTo(typ).Implements(ReaderType) {
		p.Shape, p.decode = ShapeReader, decodeReader
		return nil
	}
	if typ.Kind() == reflect.Interface {
		return c.deriveEnum(p, field)
	}
	if reflect.PointerTo(typ).Implements(TextUnmarshalerType) {
		p.Shape, p.decode = ShapeText, setText
		return nil
	}

	switch typ.Kind() {
	case reflect.String:
		p.Shape, p.decode = ShapeScalar, setString
	case reflect.Bool:
		p.Shape, p.decode = ShapeScalar, setBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.Shape, p.decode = ShapeScalar, setInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		p.Shape, p.decode = ShapeScalar, setUint
	case reflect.Float32, reflect.Float64:
		p.Shape, p.decode = ShapeScalar, setFloat
	case reflect.Complex64, reflect.Complex128:
		p.Shape, p.decode = ShapeScalar, setComplex
	case reflect.Array:
		return c.deriveArray(p, field)
	case reflect.Slice:
		if typ.Elem().Kind() != reflect.Uint8 {
			return c.fail(field, fmt.Errorf("%w: %s (only byte slices are supported)", ErrUnsupportedType, typ))
		}
		p.Shape, p.decode = ShapeHex, setHexSlice
	case reflect.Struct:
		return c.deriveStruct(p, field)
	case reflect.Pointer:
		return c.derivePointer(p, field)
	default:
		return c.fail(field, fmt.Errorf("%w: %s", ErrUnsupportedType, typ))
	}
	return nil
}

// deriveHex compiles a plan that reads typ as hex digits whatever other rule
// would apply. It is used for fields tagged `tsv:"hex"` and is not cached.
func (c *compiler) deriveHex(typ reflect.Type, field string) (*Plan, error) {
	switch {
	case typ.Kind() == reflect.Array && typ.Elem().Kind() == reflect.Uint8:
		return &Plan{Type: typ, Shape: ShapeHex, Len: typ.Len(), decode: setHexArray}, nil
	case typ.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.Uint8:
		return &Plan{Type: typ, Shape: ShapeHex, decode: setHexSlice}, nil
	default:
		return nil, c.fail(field, fmt.Errorf("%w: option %q on %s", ErrInvalidTag, HexTagOption, typ))
	}
}

func (c *compiler) deriveArray(p *Plan, field string) error {
	typ := p.Type
	p.Len = typ.Len()
	if typ.Elem().Kind() == reflect.Uint8 {
		p.Shape, p.decode = ShapeHex, setHexArray
		return nil
	}

	elem, err := c.compile(typ.Elem(), field+"[]")
	if err != nil {
		return err
	}
	p.Shape, p.Elem = ShapeTuple, elem
	p.decode = func(f *Fields, v reflect.Value) error {
		for i := 0; i < v.Len(); i++ {
			if err := elem.decode(f, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (c *compiler) derivePointer(p *Plan, field string) error {
	elemType := p.Type.Elem()
	elem, err := c.compile(elemType, field)
	if err != nil {
		return err
	}
	p.Shape, p.Elem = ShapePointer, elem
	p.decode = func(f *Fields, v reflect.Value) error {
		nv := reflect.New(elemType)
		if err := elem.decode(f, nv.Elem()); err != nil {
			return err
		}
		v.Set(nv)
		return nil
	}
	return nil
}

func (c *compiler) deriveStruct(p *Plan, field string) error {
	typ := p.Type

	var head, current *PlanStep
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		path := joinPath(field, sf.Name)

		opts, err := fieldTag(sf)
		if err != nil {
			return c.fail(path, err)
		}
		if opts.Skip {
			continue
		}
		if !sf.IsExported() {
			return c.fail(path, ErrUnexportedField)
		}

		var sub *Plan
		if opts.Hex {
			sub, err = c.deriveHex(sf.Type, path)
		} else {
			sub, err = c.compile(sf.Type, path)
		}
		if err != nil {
			return err
		}

		step := &PlanStep{Plan: sub, FieldName: sf.Name, FieldIndex: i}
		if head == nil {
			head = step
		} else {
			current.Next = step
		}
		current = step
	}

	if head == nil {
		p.Shape, p.decode = ShapeUnit, decodeUnit
		return nil
	}
	p.Shape, p.Head = ShapeStruct, head
	p.decode = func(f *Fields, v reflect.Value) error {
		for step := head; step != nil; step = step.Next {
			if err := step.Plan.decode(f, v.Field(step.FieldIndex)); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (c *compiler) deriveEnum(p *Plan, field string) error {
	typ := p.Type
	enum, ok := c.reg.enums[typ]
	if !ok {
		return c.fail(field, fmt.Errorf("%w: %s", ErrUnregisteredEnum, typ))
	}

	plans := make(map[string]*Plan, len(enum.Variants))
	for _, variant := range enum.Variants {
		vp, err := c.compile(variant.Type, joinPath(field, variant.Tag))
		if err != nil {
			return err
		}
		plans[variant.Tag] = vp
	}

	p.Shape, p.Enum = ShapeEnum, enum
	p.decode = func(f *Fields, v reflect.Value) error {
		tag, err := f.Next()
		if err != nil {
			return err
		}
		vp, ok := plans[tag]
		if !ok {
			return f.fieldError(tag, typ.String(), ErrUnknownVariant)
		}
		nv := reflect.New(vp.Type).Elem()
		if err := vp.decode(f, nv); err != nil {
			return err
		}
		v.Set(nv)
		return nil
	}
	return nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

///////////////////////////////////////////////////////////////////////////////
// Decoders shared by several rules
///////////////////////////////////////////////////////////////////////////////

func decodeUnit(*Fields, reflect.Value) error {
	return nil
}

func decodeReader(f *Fields, v reflect.Value) error {
	return v.Addr().Interface().(Reader).ReadTSV(f)
}

// validated runs Validate on every value decode assembles.
func validated(decode decodeFunc) decodeFunc {
	return func(f *Fields, v reflect.Value) error {
		if err := decode(f, v); err != nil {
			return err
		}
		return f.Validate(v.Addr().Interface().(Validatable))
	}
}
