package tsv

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("invalid JSON")

// JSON is a field holding a JSON document. Like any string read from a
// Document it is borrowed from the document's text.
type JSON string

// ReadTSV implements Reader. The field must be valid JSON.
func (j *JSON) ReadTSV(f *Fields) error {
	s, err := f.Next()
	if err != nil {
		return err
	}
	if !gjson.Valid(s) {
		return f.fieldError(s, "tsv.JSON", errInvalidJSON)
	}
	*j = JSON(s)
	return nil
}

// Get queries the document with a gjson path.
func (j JSON) Get(path string) gjson.Result {
	return gjson.Get(string(j), path)
}

// Decode unmarshals the document into v.
func (j JSON) Decode(v any) error {
	if err := json.Unmarshal([]byte(j), v); err != nil {
		return fmt.Errorf("error unmarshaling JSON field: %w", err)
	}
	return nil
}

// String returns the raw document text.
func (j JSON) String() string {
	return string(j)
}
