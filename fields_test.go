package tsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	A uint8
	B uint8
}

func TestFields_Next(t *testing.T) {
	t.Run("SplitsOnTabs", func(t *testing.T) {
		f := NewFields("a\tb\t\tc")

		var got []string
		for f.More() {
			s, err := f.Next()
			require.NoError(t, err)
			got = append(got, s)
		}
		assert.Equal(t, []string{"a", "b", "", "c"}, got)
		assert.Equal(t, 4, f.Consumed())
	})

	t.Run("EmptyLineHasOneEmptyField", func(t *testing.T) {
		f := NewFields("")

		s, err := f.Next()
		require.NoError(t, err)
		assert.Equal(t, "", s)
		assert.False(t, f.More())
	})

	t.Run("EndOfLineIsStable", func(t *testing.T) {
		f := NewFields("x")
		_, err := f.Next()
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err = f.Next()
			assert.ErrorIs(t, err, ErrEndOfLine)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, 2, e.Field)
		}
	})

	t.Run("TrailingTabMeansEmptyLastField", func(t *testing.T) {
		f := NewFields("a\t")
		_, _ = f.Next()
		require.True(t, f.More())
		s, err := f.Next()
		require.NoError(t, err)
		assert.Equal(t, "", s)
	})
}

func TestFields_Done(t *testing.T) {
	f := NewFields("1\t2")
	_, _ = f.Next()
	assert.ErrorIs(t, f.Done(), ErrSurplusFields)

	_, _ = f.Next()
	assert.NoError(t, f.Done())
}

func TestFields_Read(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := NewFields("42\t31")
		var p pair
		require.NoError(t, f.Read(&p))
		assert.Equal(t, pair{42, 31}, p)
	})

	t.Run("FailureLeavesDestinationUntouched", func(t *testing.T) {
		f := NewFields("1\tnope")
		p := pair{7, 8}
		err := f.Read(&p)
		assert.ErrorIs(t, err, ErrParseField)
		assert.Equal(t, pair{7, 8}, p)
	})

	t.Run("InvalidDestination", func(t *testing.T) {
		f := NewFields("1")
		var p pair
		assert.ErrorIs(t, f.Read(p), ErrInvalidDestination)
		assert.ErrorIs(t, f.Read((*pair)(nil)), ErrInvalidDestination)
	})
}

func TestRead(t *testing.T) {
	t.Run("Scalars", func(t *testing.T) {
		f := NewFields("hello\t-5\ttrue")

		s, err := Read[string](f)
		require.NoError(t, err)
		assert.Equal(t, "hello", s)

		n, err := Read[int16](f)
		require.NoError(t, err)
		assert.Equal(t, int16(-5), n)

		b, err := Read[bool](f)
		require.NoError(t, err)
		assert.True(t, b)
	})

	t.Run("ReaderFastPath", func(t *testing.T) {
		f := NewFields("-170141183460469231731687303715884105728")
		v, err := Read[Int128](f)
		require.NoError(t, err)
		assert.Equal(t, Int128{Hi: -1 << 63}, v)
	})

	t.Run("ErrorReturnsZero", func(t *testing.T) {
		f := NewFields("3\tx")
		v, err := Read[pair](f)
		assert.Error(t, err)
		assert.Equal(t, pair{}, v)
	})
}

func TestParseLine(t *testing.T) {
	t.Run("ExactFit", func(t *testing.T) {
		p, err := ParseLine[pair]("42\t31")
		require.NoError(t, err)
		assert.Equal(t, pair{42, 31}, p)
	})

	t.Run("SurplusFields", func(t *testing.T) {
		p, err := ParseLine[pair]("42\t21\t0")
		assert.ErrorIs(t, err, ErrSurplusFields)
		assert.Equal(t, pair{}, p)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 3, e.Field)
	})

	t.Run("MissingField", func(t *testing.T) {
		_, err := ParseLine[pair]("42")
		assert.ErrorIs(t, err, ErrEndOfLine)
	})

	t.Run("UnitFromEmptyLine", func(t *testing.T) {
		_, err := ParseLine[struct{}]("")
		assert.ErrorIs(t, err, ErrSurplusFields, "an empty line still holds one empty field")
	})
}

func TestFields_UnknownVariant(t *testing.T) {
	f := NewFields("Hexagon")
	tag, err := f.Next()
	require.NoError(t, err)

	err = f.UnknownVariant(tag)
	assert.ErrorIs(t, err, ErrParseField)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Hexagon", e.Text)
	assert.Equal(t, 1, e.Field)
}
