package gen

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/SimonDaKappa/go-tsv"
)

// DeclKind is the shape of a generated type declaration.
type DeclKind string

const (
	DeclStruct DeclKind = "struct" // fields in declaration order
	DeclNamed  DeclKind = "named"  // defined type over a builtin, byte or array type
	DeclEnum   DeclKind = "enum"   // interface with a variants directive
)

// ExprKind is the shape of a field type.
type ExprKind string

const (
	ExprBuiltin  ExprKind = "builtin"   // string, bool or a numeric type
	ExprHexArray ExprKind = "hex_array" // [N]byte, or a field tagged hex
	ExprHexSlice ExprKind = "hex_slice" // []byte
	ExprArray    ExprKind = "array"     // [N]T with T not byte, read as a tuple
	ExprPointer  ExprKind = "pointer"   // *T
	ExprStruct   ExprKind = "struct"    // anonymous struct
	ExprLocal    ExprKind = "local"     // type declared in the package, gets a ReadTSV method
	ExprReader   ExprKind = "reader"    // type declared in the package with its own ReadTSV
	ExprText     ExprKind = "text"      // type declared in the package with UnmarshalText
	ExprEnum     ExprKind = "enum"      // enum declared in the package, gets a read function
	ExprExternal ExprKind = "external"  // anything else, read with Fields.Read
)

// TypeDecl is the generator's model of one type it writes code for.
type TypeDecl struct {
	Name       string    `json:"name"`
	Kind       DeclKind  `json:"kind"`
	TypeParams []string  `json:"type_params,omitempty"`
	Fields     []Field   `json:"fields,omitempty"`
	Underlying *TypeExpr `json:"underlying,omitempty"`
	Variants   []Variant `json:"variants,omitempty"`
	Validates  bool      `json:"validates,omitempty"`
}

// Field is a struct field that is read.
type Field struct {
	Name string    `json:"name"`
	Type *TypeExpr `json:"type"`
}

// Variant is one alternative of an enum.
type Variant struct {
	Tag     string `json:"tag"`
	Pointer bool   `json:"pointer,omitempty"`
	Text    bool   `json:"text,omitempty"` // read with Fields.Read, through UnmarshalText
}

// TypeExpr is the model of a field type.
type TypeExpr struct {
	Kind   ExprKind  `json:"kind"`
	Source string    `json:"source"`
	Name   string    `json:"name,omitempty"` // builtin or declared type name
	Elem   *TypeExpr `json:"elem,omitempty"`
	Fields []Field   `json:"fields,omitempty"`
}

var builtins = map[string]bool{
	"string": true, "bool": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true, "rune": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "byte": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

func isByte(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && (id.Name == "byte" || id.Name == "uint8")
}

///////////////////////////////////////////////////////////////////////////////
// Analysis
///////////////////////////////////////////////////////////////////////////////

// analyzer turns requested type names into TypeDecls, following references
// to other types of the package.
type analyzer struct {
	src   *source
	decls map[string]*TypeDecl
	order []string
	queue []string
	seen  map[string]bool
	diags []error
}

func newAnalyzer(src *source) *analyzer {
	return &analyzer{
		src:   src,
		decls: make(map[string]*TypeDecl),
		seen:  make(map[string]bool),
	}
}

func (a *analyzer) report(d *Diagnostic) {
	a.diags = append(a.diags, d)
}

func (a *analyzer) request(name string) {
	if !a.seen[name] {
		a.seen[name] = true
		a.queue = append(a.queue, name)
	}
}

// run analyzes names and everything they reference. It returns the
// diagnostics joined into one error.
func (a *analyzer) run(names []string) error {
	for _, name := range names {
		if _, ok := a.src.specs[name]; !ok {
			a.report(diagf(token.Position{}, name, ErrUnknownType, ""))
			continue
		}
		a.request(name)
	}
	for len(a.queue) > 0 {
		name := a.queue[0]
		a.queue = a.queue[1:]
		if decl := a.decl(name); decl != nil {
			a.decls[name] = decl
			a.order = append(a.order, name)
		}
	}
	return errors.Join(a.diags...)
}

func (a *analyzer) decl(name string) *TypeDecl {
	entry := a.src.specs[name]
	spec := entry.spec
	pos := a.src.pos(spec.Pos())

	if spec.Assign.IsValid() {
		a.report(diagf(pos, name, ErrUnsupportedType, "type alias"))
		return nil
	}

	if a.src.readers[name] || a.src.texts[name] {
		log.Infof("%s reads itself, nothing to generate", name)
		return nil
	}

	decl := &TypeDecl{Name: name, Validates: a.src.validates[name]}
	tparams := make(map[string]bool)
	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			for _, id := range field.Names {
				decl.TypeParams = append(decl.TypeParams, id.Name)
				tparams[id.Name] = true
			}
		}
	}

	_, isIface := spec.Type.(*ast.InterfaceType)
	switch {
	case entry.hasDir && !isIface:
		a.report(diagf(pos, name, ErrNotInterface, ""))
		return nil
	case isIface && !entry.hasDir:
		a.report(diagf(pos, name, ErrUnsupportedType, "interface without a %s directive", VariantsDirective))
		return nil
	case isIface:
		return a.enum(decl, entry, pos)
	}

	switch t := a.underlying(spec.Type).(type) {
	case *ast.StructType:
		decl.Kind = DeclStruct
		decl.Fields = a.fields(name, t, tparams)
		return decl
	default:
		under := a.expr(name, "", t, tparams)
		if under == nil {
			return nil
		}
		switch under.Kind {
		case ExprBuiltin, ExprHexArray, ExprHexSlice, ExprArray:
		default:
			a.report(diagf(pos, name, ErrUnsupportedType, "defined type over %s", under.Source))
			return nil
		}
		decl.Kind = DeclNamed
		decl.Underlying = under
		return decl
	}
}

func (a *analyzer) enum(decl *TypeDecl, entry *typeSpec, pos token.Position) *TypeDecl {
	name := decl.Name
	if len(decl.TypeParams) > 0 {
		a.report(diagf(pos, name, ErrGenericEnum, ""))
		return nil
	}
	if len(entry.variants) == 0 {
		a.report(diagf(pos, name, ErrNoVariants, ""))
		return nil
	}

	decl.Kind = DeclEnum
	tags := make(map[string]bool)
	ok := true
	for _, arg := range entry.variants {
		tag, ptr := strings.CutPrefix(arg, "*")
		vs, found := a.src.specs[tag]
		switch {
		case !found || !token.IsIdentifier(tag):
			a.report(diagf(pos, name, ErrUnknownVariant, "%s", arg))
			ok = false
			continue
		case vs.spec.TypeParams != nil:
			a.report(diagf(pos, name, ErrInvalidVariant, "%s is generic", tag))
			ok = false
			continue
		}
		if _, isIface := vs.spec.Type.(*ast.InterfaceType); isIface {
			a.report(diagf(pos, name, ErrInvalidVariant, "%s is an interface", tag))
			ok = false
			continue
		}
		if missing := a.missingMethod(entry.spec.Type.(*ast.InterfaceType), vs, ptr); missing != "" {
			a.report(diagf(pos, name, ErrInvalidVariant, "%s does not implement %s: method %s", arg, name, missing))
			ok = false
			continue
		}
		if tags[tag] {
			a.report(diagf(pos, name, ErrDuplicateVariant, "%s", tag))
			ok = false
			continue
		}
		tags[tag] = true
		decl.Variants = append(decl.Variants, Variant{
			Tag:     tag,
			Pointer: ptr,
			Text:    a.src.texts[tag] && !a.src.readers[tag],
		})
		a.request(tag)
	}
	if !ok {
		return nil
	}
	return decl
}

// underlying follows defined types of the package, as in `type A B`, to
// the type expression they end in. Methods are not inherited, so only the
// shape carries over. Generic and interface types end the walk.
func (a *analyzer) underlying(expr ast.Expr) ast.Expr {
	seen := make(map[string]bool)
	for {
		if paren, ok := expr.(*ast.ParenExpr); ok {
			expr = paren.X
			continue
		}
		id, ok := expr.(*ast.Ident)
		if !ok || builtins[id.Name] || seen[id.Name] {
			return expr
		}
		entry, ok := a.src.specs[id.Name]
		if !ok || entry.spec.TypeParams != nil || entry.spec.Assign.IsValid() {
			return expr
		}
		if _, isIface := entry.spec.Type.(*ast.InterfaceType); isIface {
			return expr
		}
		seen[id.Name] = true
		expr = entry.spec.Type
	}
}

// missingMethod returns a method listed by iface that the variant lacks,
// or "". Embedded interfaces and type sets are not checked, and a struct
// variant with embedded fields is accepted as is since promoted methods
// are not tracked.
func (a *analyzer) missingMethod(iface *ast.InterfaceType, variant *typeSpec, ptr bool) string {
	if st, ok := variant.spec.Type.(*ast.StructType); ok {
		for _, field := range st.Fields.List {
			if len(field.Names) == 0 {
				return ""
			}
		}
	}
	methods := a.src.methods[variant.spec.Name.Name]
	for _, m := range iface.Methods.List {
		if _, ok := m.Type.(*ast.FuncType); !ok {
			continue
		}
		for _, id := range m.Names {
			ptrRecv, found := methods[id.Name]
			switch {
			case !found:
				return id.Name
			case ptrRecv && !ptr:
				return id.Name + " (pointer receiver, list the variant as *" + variant.spec.Name.Name + ")"
			}
		}
	}
	return ""
}

func (a *analyzer) fields(typ string, st *ast.StructType, tparams map[string]bool) []Field {
	var out []Field
	for _, field := range st.Fields.List {
		pos := a.src.pos(field.Pos())

		var opts tsv.TagOptions
		if field.Tag != nil {
			raw, _ := strconv.Unquote(field.Tag.Value)
			var err error
			opts, err = tsv.ParseTag(reflect.StructTag(raw).Get(tsv.TagName))
			if err != nil {
				a.report(diagf(pos, typ, ErrInvalidTag, "%v", err))
				continue
			}
		}
		if opts.Skip {
			continue
		}

		names := make([]string, 0, len(field.Names))
		for _, id := range field.Names {
			names = append(names, id.Name)
		}
		if len(names) == 0 {
			names = append(names, receiverName(embeddedBase(field.Type)))
		}

		for _, name := range names {
			if !ast.IsExported(name) {
				a.report(diagf(pos, typ, ErrUnexportedField, "%s", name))
				continue
			}
			var te *TypeExpr
			if opts.Hex {
				te = a.hexExpr(typ, name, field.Type)
			} else {
				te = a.expr(typ, name, field.Type, tparams)
			}
			if te != nil {
				out = append(out, Field{Name: name, Type: te})
			}
		}
	}
	return out
}

// embeddedBase strips the package qualifier of an embedded field type.
func embeddedBase(expr ast.Expr) ast.Expr {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if sel, ok := expr.(*ast.SelectorExpr); ok {
		return sel.Sel
	}
	return expr
}

// hexExpr handles a field tagged `tsv:"hex"`. Types from other packages are
// trusted to be byte arrays; the compiler rejects them otherwise.
func (a *analyzer) hexExpr(typ, field string, expr ast.Expr) *TypeExpr {
	pos := a.src.pos(expr.Pos())
	src := types.ExprString(expr)

	switch e := expr.(type) {
	case *ast.ArrayType:
		if isByte(e.Elt) {
			if e.Len == nil {
				return &TypeExpr{Kind: ExprHexSlice, Source: src}
			}
			return &TypeExpr{Kind: ExprHexArray, Source: src}
		}
	case *ast.SelectorExpr:
		return &TypeExpr{Kind: ExprHexArray, Source: src}
	case *ast.Ident:
		if entry, ok := a.src.specs[e.Name]; ok {
			if arr, ok := entry.spec.Type.(*ast.ArrayType); ok && isByte(arr.Elt) {
				if arr.Len == nil {
					return &TypeExpr{Kind: ExprHexSlice, Source: src, Name: e.Name}
				}
				return &TypeExpr{Kind: ExprHexArray, Source: src, Name: e.Name}
			}
		}
	}
	a.report(diagf(pos, typ, ErrInvalidTag, "option %q on field %s of type %s", tsv.HexTagOption, field, src))
	return nil
}

// expr models a field type, requesting the local types it refers to.
func (a *analyzer) expr(typ, field string, expr ast.Expr, tparams map[string]bool) *TypeExpr {
	pos := a.src.pos(expr.Pos())
	src := types.ExprString(expr)
	unsupported := func(why string) *TypeExpr {
		if field != "" {
			a.report(diagf(pos, typ, ErrUnsupportedType, "field %s: %s", field, why))
		} else {
			a.report(diagf(pos, typ, ErrUnsupportedType, "%s", why))
		}
		return nil
	}

	switch e := expr.(type) {
	case *ast.ParenExpr:
		return a.expr(typ, field, e.X, tparams)

	case *ast.Ident:
		switch {
		case builtins[e.Name]:
			return &TypeExpr{Kind: ExprBuiltin, Source: src, Name: e.Name}
		case tparams[e.Name]:
			return &TypeExpr{Kind: ExprExternal, Source: src}
		}
		entry, ok := a.src.specs[e.Name]
		if !ok {
			if types.Universe.Lookup(e.Name) != nil {
				return unsupported(e.Name)
			}
			a.report(diagf(pos, typ, ErrUnknownType, "%s", e.Name))
			return nil
		}
		if _, isIface := entry.spec.Type.(*ast.InterfaceType); isIface {
			if !entry.hasDir {
				return unsupported("interface " + e.Name + " without a " + VariantsDirective + " directive")
			}
			a.request(e.Name)
			return &TypeExpr{Kind: ExprEnum, Source: src, Name: e.Name}
		}
		switch {
		case a.src.readers[e.Name]:
			return &TypeExpr{Kind: ExprReader, Source: src, Name: e.Name}
		case a.src.texts[e.Name]:
			return &TypeExpr{Kind: ExprText, Source: src, Name: e.Name}
		}
		a.request(e.Name)
		return &TypeExpr{Kind: ExprLocal, Source: src, Name: e.Name}

	case *ast.IndexExpr, *ast.IndexListExpr:
		base := receiverName(e)
		if _, ok := a.src.specs[base]; ok {
			switch {
			case a.src.readers[base]:
				return &TypeExpr{Kind: ExprReader, Source: src, Name: base}
			case a.src.texts[base]:
				return &TypeExpr{Kind: ExprText, Source: src, Name: base}
			}
			a.request(base)
			return &TypeExpr{Kind: ExprLocal, Source: src, Name: base}
		}
		return &TypeExpr{Kind: ExprExternal, Source: src}

	case *ast.SelectorExpr:
		if src == "unsafe.Pointer" {
			return unsupported(src)
		}
		return &TypeExpr{Kind: ExprExternal, Source: src}

	case *ast.StarExpr:
		elem := a.expr(typ, field, e.X, tparams)
		if elem == nil {
			return nil
		}
		return &TypeExpr{Kind: ExprPointer, Source: src, Elem: elem}

	case *ast.ArrayType:
		if e.Len == nil {
			if isByte(e.Elt) {
				return &TypeExpr{Kind: ExprHexSlice, Source: src}
			}
			return unsupported("slice " + src)
		}
		if _, ok := e.Len.(*ast.Ellipsis); ok {
			a.report(diagf(pos, typ, ErrArrayLength, "%s", src))
			return nil
		}
		if isByte(e.Elt) {
			return &TypeExpr{Kind: ExprHexArray, Source: src}
		}
		elem := a.expr(typ, field, e.Elt, tparams)
		if elem == nil {
			return nil
		}
		return &TypeExpr{Kind: ExprArray, Source: src, Elem: elem}

	case *ast.StructType:
		return &TypeExpr{Kind: ExprStruct, Source: src, Fields: a.fields(typ, e, tparams)}

	default:
		return unsupported(src)
	}
}
