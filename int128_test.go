package tsv

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUint128(t *testing.T) {
	tests := []struct {
		in      string
		want    Uint128
		wantErr error
	}{
		{"0", Uint128{}, nil},
		{"+1", Uint128{Lo: 1}, nil},
		{"18446744073709551615", Uint128{Lo: 1<<64 - 1}, nil},
		{"18446744073709551616", Uint128{Hi: 1}, nil},
		{"340282366920938463463374607431768211455", Uint128{Hi: 1<<64 - 1, Lo: 1<<64 - 1}, nil},
		{"340282366920938463463374607431768211456", Uint128{}, strconv.ErrRange},
		{"3402823669209384634633746074317682114550", Uint128{}, strconv.ErrRange},
		{"", Uint128{}, strconv.ErrSyntax},
		{"+", Uint128{}, strconv.ErrSyntax},
		{"-1", Uint128{}, strconv.ErrSyntax},
		{"12a", Uint128{}, strconv.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUint128(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, trimPlus(tt.in), got.String())
		})
	}
}

func trimPlus(s string) string {
	if len(s) > 0 && s[0] == '+' {
		return s[1:]
	}
	return s
}

func TestParseInt128(t *testing.T) {
	tests := []struct {
		in      string
		want    Int128
		wantErr error
	}{
		{"0", Int128{}, nil},
		{"-1", Int128{Hi: -1, Lo: 1<<64 - 1}, nil},
		{"+42", Int128{Lo: 42}, nil},
		{"-18446744073709551616", Int128{Hi: -1}, nil},
		{"170141183460469231731687303715884105727", Int128{Hi: 1<<63 - 1, Lo: 1<<64 - 1}, nil},
		{"-170141183460469231731687303715884105728", Int128{Hi: -1 << 63}, nil},
		{"170141183460469231731687303715884105728", Int128{}, strconv.ErrRange},
		{"-170141183460469231731687303715884105729", Int128{}, strconv.ErrRange},
		{"-", Int128{}, strconv.ErrSyntax},
		{"--1", Int128{}, strconv.ErrSyntax},
		{"1e3", Int128{}, strconv.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInt128(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, trimPlus(tt.in), got.String())
		})
	}
}

func TestFrom64(t *testing.T) {
	assert.Equal(t, Int128{Hi: -1, Lo: 1<<64 - 5}, Int128From64(-5))
	assert.Equal(t, Int128{Lo: 5}, Int128From64(5))
	assert.Equal(t, "-5", Int128From64(-5).String())
	assert.Equal(t, Uint128{Lo: 7}, Uint128From64(7))
}

func TestInt128_Read(t *testing.T) {
	type record struct {
		Big   Uint128
		Small Int128
	}

	r, err := ParseLine[record]("340282366920938463463374607431768211455\t-2")
	require.NoError(t, err)
	assert.Equal(t, record{
		Big:   Uint128{Hi: 1<<64 - 1, Lo: 1<<64 - 1},
		Small: Int128From64(-2),
	}, r)

	_, err = ParseLine[record]("1\t99999999999999999999999999999999999999999")
	assert.ErrorIs(t, err, ErrParseField)
	assert.ErrorIs(t, err, strconv.ErrRange)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "int128", e.Type)
	assert.Equal(t, 2, e.Field)
}
