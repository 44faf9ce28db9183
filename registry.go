package tsv

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/tliron/commonlog"
)

///////////////////////////////////////////////////////////////////////////////
// Enums
///////////////////////////////////////////////////////////////////////////////

// Variant is one alternative of an enum.
type Variant struct {
	Tag  string       // the text of the tag field selecting this variant
	Type reflect.Type // the concrete type stored in the interface
}

// Enum is a registered enum: an interface type together with the concrete
// types it may hold. On the wire an enum is a tag field naming the variant
// followed by the variant's own fields.
type Enum struct {
	Type     reflect.Type
	Variants []Variant
}

// Lookup returns the variant selected by tag.
func (e *Enum) Lookup(tag string) (Variant, bool) {
	for _, v := range e.Variants {
		if v.Tag == tag {
			return v, true
		}
	}
	return Variant{}, false
}

// Tags returns the variant tags in registration order.
func (e *Enum) Tags() []string {
	tags := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		tags[i] = v.Tag
	}
	return tags
}

// variantTag is the tag a variant type is selected by: its type name, or
// for a pointer variant the name of the type it points to.
func variantTag(typ reflect.Type) string {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Name()
}

///////////////////////////////////////////////////////////////////////////////
// Registry
///////////////////////////////////////////////////////////////////////////////

// Registry holds the enums and custom readers plans are derived with, and
// caches the plans themselves.
//
// A Registry is safe for concurrent use. Registration invalidates every
// cached plan, so it is best done during initialisation.
type Registry struct {
	mu      sync.Mutex
	plans   *PlanCache
	readers map[reflect.Type]decodeFunc
	enums   map[reflect.Type]*Enum
	log     commonlog.Logger
}

type RegistryOpts struct {
	// Logger receives registration and compilation events. Defaults to the
	// "tsv.registry" logger.
	Logger commonlog.Logger
}

var defaultRegistry = NewRegistry(RegistryOpts{})

// DefaultRegistry returns the registry used by NewFields, ParseLine and
// documents without a Registry option.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func NewRegistry(opts RegistryOpts) *Registry {
	if opts.Logger == nil {
		opts.Logger = commonlog.GetLogger(RegistryLoggerName)
	}
	return &Registry{
		plans:   NewPlanCache(),
		readers: make(map[reflect.Type]decodeFunc),
		enums:   make(map[reflect.Type]*Enum),
		log:     opts.Logger,
	}
}

// NewFields returns a cursor over line that derives plans from reg.
func (reg *Registry) NewFields(line string) *Fields {
	return newFields(line, 0, reg)
}

// Plan returns the compiled plan for typ, deriving it and every plan it
// depends on if needed.
func (reg *Registry) Plan(typ reflect.Type) (*Plan, error) {
	if p, ok := reg.plans.Get(typ); ok {
		return p, nil
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if p, ok := reg.plans.Get(typ); ok {
		return p, nil
	}

	c := &compiler{
		reg:      reg,
		root:     typ,
		building: make(map[reflect.Type]*Plan),
	}
	plan, err := c.compile(typ, "")
	if err != nil {
		return nil, err
	}
	for t, p := range c.building {
		reg.plans.Store(t, p)
	}
	return plan, nil
}

// Enum returns the registered enum for the interface type typ.
func (reg *Registry) Enum(typ reflect.Type) (*Enum, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	e, ok := reg.enums[typ]
	return e, ok
}

// RegisterEnumType registers iface, which must be an interface type, as an
// enum whose variants are the dynamic types of variants. A variant is
// given as a value of its type, typically a zero value or a typed nil
// pointer, and is selected by its type name. Registering iface again
// replaces its variants.
func (reg *Registry) RegisterEnumType(iface reflect.Type, variants ...any) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return fmt.Errorf("%w, got %v", ErrNotInterface, iface)
	}
	if len(variants) == 0 {
		return fmt.Errorf("%w: %s", ErrNoVariants, iface)
	}

	enum := &Enum{Type: iface, Variants: make([]Variant, 0, len(variants))}
	for i, v := range variants {
		typ := reflect.TypeOf(v)
		if typ == nil {
			return fmt.Errorf("%w: %s: variant %d is untyped nil", ErrInvalidVariant, iface, i)
		}
		if !typ.Implements(iface) {
			return fmt.Errorf("%w: %s does not implement %s", ErrInvalidVariant, typ, iface)
		}
		tag := variantTag(typ)
		if tag == "" {
			return fmt.Errorf("%w: %s has no type name", ErrInvalidVariant, typ)
		}
		if _, dup := enum.Lookup(tag); dup {
			return fmt.Errorf("%w: %s: %q", ErrDuplicateVariant, iface, tag)
		}
		enum.Variants = append(enum.Variants, Variant{Tag: tag, Type: typ})
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.enums[iface] = enum
	reg.plans.Clear()
	reg.log.Info("registered enum", "type", iface.String(), "variants", enum.Tags())
	return nil
}

// registerReader registers fn as the reader of typ, replacing any previous
// reader and taking precedence over every other rule.
func (reg *Registry) registerReader(typ reflect.Type, fn decodeFunc) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.readers[typ] = fn
	reg.plans.Clear()
	reg.log.Info("registered reader", "type", typ.String())
}

// validates reports whether derived plans for typ end with a Validate call.
// Readers are left to validate on their own.
func (reg *Registry) validates(typ reflect.Type) bool {
	if _, ok := reg.readers[typ]; ok {
		return false
	}
	ptr := reflect.PointerTo(typ)
	return ptr.Implements(ValidatableType) && !ptr.Implements(ReaderType)
}

// Types returns the types with a cached plan, for diagnostics.
func (reg *Registry) Types() []string {
	var names []string
	reg.plans.cache.Range(func(k, _ any) bool {
		names = append(names, k.(reflect.Type).String())
		return true
	})
	slices.Sort(names)
	return names
}

///////////////////////////////////////////////////////////////////////////////
// Generic helpers
///////////////////////////////////////////////////////////////////////////////

// RegisterEnum registers the interface type E as an enum in the default
// registry.
//
//	tsv.RegisterEnum[Shape](Line{}, Circle{}, (*Polygon)(nil))
func RegisterEnum[E any](variants ...any) error {
	return RegisterEnumIn[E](defaultRegistry, variants...)
}

// RegisterEnumIn registers the interface type E as an enum in reg.
func RegisterEnumIn[E any](reg *Registry, variants ...any) error {
	return reg.RegisterEnumType(reflect.TypeFor[E](), variants...)
}

// MustRegisterEnum is RegisterEnum, panicking on error. It is meant for
// package initialisation.
func MustRegisterEnum[E any](variants ...any) {
	if err := RegisterEnum[E](variants...); err != nil {
		panic(err)
	}
}

// RegisterFunc makes fn the reader of T in the default registry. This is
// how code generated by tsvgen hooks enums up, and how types from other
// packages can be given a format.
func RegisterFunc[T any](fn func(f *Fields) (T, error)) {
	RegisterFuncIn(defaultRegistry, fn)
}

// RegisterFuncIn makes fn the reader of T in reg.
func RegisterFuncIn[T any](reg *Registry, fn func(f *Fields) (T, error)) {
	reg.registerReader(reflect.TypeFor[T](), func(f *Fields, v reflect.Value) error {
		out, err := fn(f)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(&out).Elem())
		return nil
	})
}

// MustRegisterFunc is RegisterFunc for use in init functions. It panics if
// fn is nil.
func MustRegisterFunc[T any](fn func(f *Fields) (T, error)) {
	if fn == nil {
		panic(fmt.Sprintf("tsv: nil reader func for %s", reflect.TypeFor[T]()))
	}
	RegisterFunc(fn)
}

// Compile derives the plan for T in the default registry, reporting a
// ShapeError if T cannot be assembled from fields.
func Compile[T any]() error {
	_, err := defaultRegistry.Plan(reflect.TypeFor[T]())
	return err
}

// MustCompile is Compile, panicking on error. Use it in init or a
// package-level var to surface shape errors at startup.
func MustCompile[T any]() {
	if err := Compile[T](); err != nil {
		panic(err)
	}
}
