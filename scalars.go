package tsv

import (
	"encoding"
	"errors"
	"reflect"
	"strconv"
	"strings"
)

var (
	errBoolLiteral = errors.New(`want "true" or "false"`)
	errHexLength   = errors.New("wrong number of hex digits")
	errHexDigit    = errors.New("invalid hex digit")
)

///////////////////////////////////////////////////////////////////////////////
// Scalar readers
//
// These are the building blocks both derived plans and generated code use.
// Each consumes exactly one field.
///////////////////////////////////////////////////////////////////////////////

// ReadString returns the next field as is.
func ReadString(f *Fields) (string, error) {
	return f.Next()
}

// ReadBool reads a field that must be exactly "true" or "false".
func ReadBool(f *Fields) (bool, error) {
	return readBool(f, "bool")
}

// ReadInt reads a base-10 signed integer that fits in bitSize bits.
func ReadInt(f *Fields, bitSize int) (int64, error) {
	return readInt(f, bitSize, intTypeName("int", bitSize))
}

// ReadUint reads a base-10 unsigned integer that fits in bitSize bits.
func ReadUint(f *Fields, bitSize int) (uint64, error) {
	return readUint(f, bitSize, intTypeName("uint", bitSize))
}

// ReadFloat reads a floating point number of the given precision.
func ReadFloat(f *Fields, bitSize int) (float64, error) {
	return readFloat(f, bitSize, intTypeName("float", bitSize))
}

// ReadComplex reads a complex number of the given precision (64 or 128).
func ReadComplex(f *Fields, bitSize int) (complex128, error) {
	return readComplex(f, bitSize, intTypeName("complex", bitSize))
}

// ReadHex reads a field of exactly 2*len(dst) hex digits into dst, high
// nibble first. dst is only written once the whole field is known to be
// valid.
func ReadHex(f *Fields, dst []byte) error {
	s, err := f.Next()
	if err != nil {
		return err
	}
	if err := decodeHex(dst, s); err != nil {
		return f.fieldError(s, "["+strconv.Itoa(len(dst))+"]byte", err)
	}
	return nil
}

// ReadHexBytes reads a field holding any even number of hex digits.
func ReadHexBytes(f *Fields) ([]byte, error) {
	s, err := f.Next()
	if err != nil {
		return nil, err
	}
	if len(s)%2 != 0 {
		return nil, f.fieldError(s, "[]byte", errHexLength)
	}
	b := make([]byte, len(s)/2)
	if err := decodeHex(b, s); err != nil {
		return nil, f.fieldError(s, "[]byte", err)
	}
	return b, nil
}

func intTypeName(prefix string, bitSize int) string {
	if bitSize == 0 {
		return prefix
	}
	return prefix + strconv.Itoa(bitSize)
}

func readBool(f *Fields, typ string) (bool, error) {
	s, err := f.Next()
	if err != nil {
		return false, err
	}
	switch s {
	case TrueLiteral:
		return true, nil
	case FalseLiteral:
		return false, nil
	default:
		return false, f.fieldError(s, typ, errBoolLiteral)
	}
}

func readInt(f *Fields, bitSize int, typ string) (int64, error) {
	s, err := f.Next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, bitSize)
	if err != nil {
		return 0, f.fieldError(s, typ, numErr(err))
	}
	return n, nil
}

func readUint(f *Fields, bitSize int, typ string) (uint64, error) {
	s, err := f.Next()
	if err != nil {
		return 0, err
	}
	// ParseUint takes no sign; accept '+' like the signed types do
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bitSize)
	if err != nil {
		return 0, f.fieldError(s, typ, numErr(err))
	}
	return n, nil
}

func readFloat(f *Fields, bitSize int, typ string) (float64, error) {
	s, err := f.Next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseFloat(s, bitSize)
	if err != nil {
		return 0, f.fieldError(s, typ, numErr(err))
	}
	return n, nil
}

func readComplex(f *Fields, bitSize int, typ string) (complex128, error) {
	s, err := f.Next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseComplex(s, bitSize)
	if err != nil {
		return 0, f.fieldError(s, typ, numErr(err))
	}
	return n, nil
}

// numErr strips the strconv wrapper, whose message repeats the field text.
func numErr(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

// decodeHex decodes s into dst, which must be exactly half as long. dst is
// left untouched unless the whole of s is valid.
func decodeHex(dst []byte, s string) error {
	if len(s) != 2*len(dst) {
		return errHexLength
	}
	for i := 0; i < len(s); i++ {
		if _, ok := hexDigit(s[i]); !ok {
			return errHexDigit
		}
	}
	for i := range dst {
		hi, _ := hexDigit(s[2*i])
		lo, _ := hexDigit(s[2*i+1])
		dst[i] = hi<<4 | lo
	}
	return nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

///////////////////////////////////////////////////////////////////////////////
// Reflection setters used by derived plans
///////////////////////////////////////////////////////////////////////////////

func setString(f *Fields, v reflect.Value) error {
	s, err := f.Next()
	if err != nil {
		return err
	}
	v.SetString(s)
	return nil
}

func setBool(f *Fields, v reflect.Value) error {
	b, err := readBool(f, v.Type().String())
	if err != nil {
		return err
	}
	v.SetBool(b)
	return nil
}

func setInt(f *Fields, v reflect.Value) error {
	n, err := readInt(f, v.Type().Bits(), v.Type().String())
	if err != nil {
		return err
	}
	v.SetInt(n)
	return nil
}

func setUint(f *Fields, v reflect.Value) error {
	n, err := readUint(f, v.Type().Bits(), v.Type().String())
	if err != nil {
		return err
	}
	v.SetUint(n)
	return nil
}

func setFloat(f *Fields, v reflect.Value) error {
	n, err := readFloat(f, v.Type().Bits(), v.Type().String())
	if err != nil {
		return err
	}
	v.SetFloat(n)
	return nil
}

func setComplex(f *Fields, v reflect.Value) error {
	n, err := readComplex(f, v.Type().Bits(), v.Type().String())
	if err != nil {
		return err
	}
	v.SetComplex(n)
	return nil
}

// setHexArray decodes into a byte array. v must be addressable.
func setHexArray(f *Fields, v reflect.Value) error {
	s, err := f.Next()
	if err != nil {
		return err
	}
	if err := decodeHex(v.Slice(0, v.Len()).Bytes(), s); err != nil {
		return f.fieldError(s, v.Type().String(), err)
	}
	return nil
}

func setHexSlice(f *Fields, v reflect.Value) error {
	s, err := f.Next()
	if err != nil {
		return err
	}
	if len(s)%2 != 0 {
		return f.fieldError(s, v.Type().String(), errHexLength)
	}
	b := reflect.MakeSlice(v.Type(), len(s)/2, len(s)/2)
	if err := decodeHex(b.Bytes(), s); err != nil {
		return f.fieldError(s, v.Type().String(), err)
	}
	v.Set(b)
	return nil
}

// setText hands the field to the value's UnmarshalText. v must be
// addressable.
func setText(f *Fields, v reflect.Value) error {
	s, err := f.Next()
	if err != nil {
		return err
	}
	u := v.Addr().Interface().(encoding.TextUnmarshaler)
	if err := u.UnmarshalText([]byte(s)); err != nil {
		return f.fieldError(s, v.Type().String(), err)
	}
	return nil
}
