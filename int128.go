package tsv

import (
	"math/bits"
	"strconv"
)

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi, Lo uint64
}

// Int128 is a signed 128-bit integer in two's complement.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Uint128From64 widens v.
func Uint128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Int128From64 widens v, extending its sign.
func Int128From64(v int64) Int128 {
	return Int128{Hi: v >> 63, Lo: uint64(v)}
}

// ParseUint128 parses a base-10 unsigned integer, with an optional leading
// '+'. Errors are strconv.ErrSyntax or strconv.ErrRange.
func ParseUint128(s string) (Uint128, error) {
	if len(s) > 0 && s[0] == '+' {
		s = s[1:]
	}
	return parseDigits128(s)
}

// ParseInt128 parses a base-10 signed integer, with an optional leading
// sign. Errors are strconv.ErrSyntax or strconv.ErrRange.
func ParseInt128(s string) (Int128, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	mag, err := parseDigits128(s)
	if err != nil {
		return Int128{}, err
	}
	const signBit = 1 << 63
	if neg {
		if mag.Hi > signBit || (mag.Hi == signBit && mag.Lo != 0) {
			return Int128{}, strconv.ErrRange
		}
		mag = mag.neg()
	} else if mag.Hi >= signBit {
		return Int128{}, strconv.ErrRange
	}
	return Int128{Hi: int64(mag.Hi), Lo: mag.Lo}, nil
}

func parseDigits128(s string) (Uint128, error) {
	if s == "" {
		return Uint128{}, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Uint128{}, strconv.ErrSyntax
		}
	}
	var u Uint128
	for i := 0; i < len(s); i++ {
		// u = u*10 + digit
		hiHi, hiLo := bits.Mul64(u.Hi, 10)
		loHi, loLo := bits.Mul64(u.Lo, 10)
		hi, carry := bits.Add64(hiLo, loHi, 0)
		if hiHi != 0 || carry != 0 {
			return Uint128{}, strconv.ErrRange
		}
		lo, carry := bits.Add64(loLo, uint64(s[i]-'0'), 0)
		hi, carry = bits.Add64(hi, 0, carry)
		if carry != 0 {
			return Uint128{}, strconv.ErrRange
		}
		u = Uint128{Hi: hi, Lo: lo}
	}
	return u, nil
}

// neg returns the two's complement of u.
func (u Uint128) neg() Uint128 {
	lo, borrow := bits.Sub64(0, u.Lo, 0)
	hi, _ := bits.Sub64(0, u.Hi, borrow)
	return Uint128{Hi: hi, Lo: lo}
}

func (u Uint128) quoRem(d uint64) (Uint128, uint64) {
	q := Uint128{Hi: u.Hi / d}
	var r uint64
	q.Lo, r = bits.Div64(u.Hi%d, u.Lo, d)
	return q, r
}

// String formats u in base 10.
func (u Uint128) String() string {
	if u.Hi == 0 {
		return strconv.FormatUint(u.Lo, 10)
	}
	var buf [39]byte
	i := len(buf)
	for u.Hi != 0 || u.Lo != 0 {
		var r uint64
		u, r = u.quoRem(10)
		i--
		buf[i] = byte('0' + r)
	}
	return string(buf[i:])
}

// String formats i in base 10.
func (i Int128) String() string {
	if i.Hi >= 0 {
		return Uint128{Hi: uint64(i.Hi), Lo: i.Lo}.String()
	}
	return "-" + Uint128{Hi: uint64(i.Hi), Lo: i.Lo}.neg().String()
}

// ReadTSV implements Reader.
func (u *Uint128) ReadTSV(f *Fields) error {
	v, err := ReadUint128(f)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ReadTSV implements Reader.
func (i *Int128) ReadTSV(f *Fields) error {
	v, err := ReadInt128(f)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// ReadUint128 reads a base-10 unsigned 128-bit integer.
func ReadUint128(f *Fields) (Uint128, error) {
	s, err := f.Next()
	if err != nil {
		return Uint128{}, err
	}
	v, err := ParseUint128(s)
	if err != nil {
		return Uint128{}, f.fieldError(s, "uint128", err)
	}
	return v, nil
}

// ReadInt128 reads a base-10 signed 128-bit integer.
func ReadInt128(f *Fields) (Int128, error) {
	s, err := f.Next()
	if err != nil {
		return Int128{}, err
	}
	v, err := ParseInt128(s)
	if err != nil {
		return Int128{}, f.fieldError(s, "int128", err)
	}
	return v, nil
}
