package tsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	type event struct {
		ID      uint32
		Payload JSON
	}

	t.Run("Valid", func(t *testing.T) {
		ev, err := ParseLine[event](`7` + "\t" + `{"name":"launch","tags":["a","b"],"n":3}`)
		require.NoError(t, err)
		assert.Equal(t, uint32(7), ev.ID)
		assert.Equal(t, "launch", ev.Payload.Get("name").String())
		assert.Equal(t, int64(2), ev.Payload.Get("tags.#").Int())

		var body struct {
			Name string   `json:"name"`
			Tags []string `json:"tags"`
			N    int      `json:"n"`
		}
		require.NoError(t, ev.Payload.Decode(&body))
		assert.Equal(t, "launch", body.Name)
		assert.Equal(t, []string{"a", "b"}, body.Tags)
		assert.Equal(t, 3, body.N)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseLine[event]("7\t{oops")
		assert.ErrorIs(t, err, ErrParseField)
		assert.ErrorIs(t, err, errInvalidJSON)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "tsv.JSON", e.Type)
	})

	t.Run("DecodeMismatch", func(t *testing.T) {
		var n int
		err := JSON(`"text"`).Decode(&n)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error unmarshaling JSON field")
	})

	t.Run("Scalar", func(t *testing.T) {
		j, err := ParseLine[JSON]("12.5")
		require.NoError(t, err)
		assert.Equal(t, 12.5, j.Get("@this").Float())
		assert.Equal(t, "12.5", j.String())
	})
}
