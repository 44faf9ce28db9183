package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
)

// LibraryImportPath is the import path generated code reads through.
const LibraryImportPath = "github.com/SimonDaKappa/go-tsv"

const header = "// Code generated by tsvgen. DO NOT EDIT."

// renderer writes Go source line by line. Indentation is left to
// go/format.
type renderer struct {
	buf bytes.Buffer
}

func (r *renderer) p(format string, args ...any) {
	fmt.Fprintf(&r.buf, format, args...)
	r.buf.WriteByte('\n')
}

func (r *renderer) returnOnError(values string) {
	r.p("if err != nil {")
	r.p("return %serr", values)
	r.p("}")
}

// render writes the file for decls, in the order given.
func render(pkg string, decls []*TypeDecl) ([]byte, error) {
	r := &renderer{}
	r.p(header)
	r.p("")
	r.p("package %s", pkg)
	r.p("")
	r.p("import %q", LibraryImportPath)

	var enums []string
	for _, d := range decls {
		r.p("")
		switch d.Kind {
		case DeclStruct, DeclNamed:
			r.method(d)
		case DeclEnum:
			r.enum(d)
			enums = append(enums, d.Name)
		}
	}

	if len(enums) > 0 {
		r.p("")
		r.p("func init() {")
		for _, name := range enums {
			r.p("tsv.MustRegisterFunc(%s)", readFuncName(name))
		}
		r.p("}")
	}

	out, err := format.Source(r.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error formatting generated code: %w\n%s", err, r.buf.Bytes())
	}
	return out, nil
}

func readFuncName(enum string) string {
	return "read" + enum + "TSV"
}

func instance(d *TypeDecl) string {
	if len(d.TypeParams) == 0 {
		return d.Name
	}
	return d.Name + "[" + strings.Join(d.TypeParams, ", ") + "]"
}

// method writes the ReadTSV method of a struct or defined type. The value
// is assembled in a local and only stored through the receiver once every
// field has been read.
func (r *renderer) method(d *TypeDecl) {
	typ := instance(d)

	r.p("// ReadTSV implements tsv.Reader.")
	r.p("func (v *%s) ReadTSV(f *tsv.Fields) error {", typ)
	r.p("var out %s", typ)
	switch d.Kind {
	case DeclStruct:
		for _, field := range d.Fields {
			r.read("out."+field.Name, "", field.Type, 0)
		}
	case DeclNamed:
		r.read("out", typ, d.Underlying, 0)
	}
	if d.Validates {
		r.p("if err := f.Validate(&out); err != nil {")
		r.p("return err")
		r.p("}")
	}
	r.p("*v = out")
	r.p("return nil")
	r.p("}")
}

// enum writes the read function of an enum: the tag field selects the
// variant, whose own ReadTSV reads the rest.
func (r *renderer) enum(d *TypeDecl) {
	r.p("// %s reads a %s: a variant tag followed by the variant's fields.", readFuncName(d.Name), d.Name)
	r.p("func %s(f *tsv.Fields) (%s, error) {", readFuncName(d.Name), d.Name)
	r.p("tag, err := f.Next()")
	r.returnOnError("nil, ")
	r.p("switch tag {")
	for _, v := range d.Variants {
		r.p("case %q:", v.Tag)
		dst := "v"
		if v.Pointer {
			r.p("v := new(%s)", v.Tag)
		} else {
			r.p("var v %s", v.Tag)
			dst = "&v"
		}
		if v.Text {
			r.p("if err := f.Read(%s); err != nil {", dst)
		} else {
			r.p("if err := v.ReadTSV(f); err != nil {")
		}
		r.p("return nil, err")
		r.p("}")
		r.p("return v, nil")
	}
	r.p("default:")
	r.p("return nil, f.UnknownVariant(tag)")
	r.p("}")
	r.p("}")
}

// read writes the statements assembling the value of type t into the
// addressable expression lv. conv converts a scalar to the destination
// type; it defaults to the scalar's own type.
func (r *renderer) read(lv, conv string, t *TypeExpr, depth int) {
	switch t.Kind {
	case ExprBuiltin:
		if conv == "" {
			conv = t.Name
		}
		r.p("{")
		r.p("x, err := %s", builtinReader(t.Name))
		r.returnOnError("")
		r.p("%s = %s(x)", lv, conv)
		r.p("}")

	case ExprHexArray:
		r.p("if err := tsv.ReadHex(f, %s[:]); err != nil {", lv)
		r.p("return err")
		r.p("}")

	case ExprHexSlice:
		if conv == "" {
			conv = t.Name
		}
		r.p("{")
		r.p("x, err := tsv.ReadHexBytes(f)")
		r.returnOnError("")
		if conv == "" {
			r.p("%s = x", lv)
		} else {
			r.p("%s = %s(x)", lv, conv)
		}
		r.p("}")

	case ExprArray:
		i := fmt.Sprintf("i%d", depth)
		r.p("for %s := range %s {", i, lv)
		r.read(lv+"["+i+"]", "", t.Elem, depth+1)
		r.p("}")

	case ExprPointer:
		r.p("%s = new(%s)", lv, t.Elem.Source)
		r.read("(*"+lv+")", "", t.Elem, depth)

	case ExprStruct:
		for _, field := range t.Fields {
			r.read(lv+"."+field.Name, "", field.Type, depth)
		}

	case ExprLocal, ExprReader:
		r.p("if err := %s.ReadTSV(f); err != nil {", lv)
		r.p("return err")
		r.p("}")

	case ExprEnum:
		r.p("{")
		r.p("x, err := %s(f)", readFuncName(t.Name))
		r.returnOnError("")
		r.p("%s = x", lv)
		r.p("}")

	default: // ExprText, ExprExternal
		r.p("if err := f.Read(&%s); err != nil {", lv)
		r.p("return err")
		r.p("}")
	}
}

func builtinReader(name string) string {
	switch name {
	case "string":
		return "tsv.ReadString(f)"
	case "bool":
		return "tsv.ReadBool(f)"
	case "int":
		return "tsv.ReadInt(f, 0)"
	case "int8":
		return "tsv.ReadInt(f, 8)"
	case "int16":
		return "tsv.ReadInt(f, 16)"
	case "int32", "rune":
		return "tsv.ReadInt(f, 32)"
	case "int64":
		return "tsv.ReadInt(f, 64)"
	case "uint":
		return "tsv.ReadUint(f, 0)"
	case "uint8", "byte":
		return "tsv.ReadUint(f, 8)"
	case "uint16":
		return "tsv.ReadUint(f, 16)"
	case "uint32":
		return "tsv.ReadUint(f, 32)"
	case "uint64":
		return "tsv.ReadUint(f, 64)"
	case "float32":
		return "tsv.ReadFloat(f, 32)"
	case "float64":
		return "tsv.ReadFloat(f, 64)"
	case "complex64":
		return "tsv.ReadComplex(f, 64)"
	case "complex128":
		return "tsv.ReadComplex(f, 128)"
	default:
		panic("gen: no reader for builtin " + name)
	}
}
