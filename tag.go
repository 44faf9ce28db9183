package tsv

import (
	"fmt"
	"reflect"
	"strings"
)

// This file contains the parser for the `tsv` struct tag. The tag is
// optional; untagged exported fields are read in declaration order.
//
// Tag grammar:
//     tag:
//         '-' | <option_list>
//     option_list:
//         [<option>]^* // Delimited with ","
//     option:
//         hex
//
// `tsv:"-"` skips the field: it consumes no input and keeps its zero value.
// `tsv:"hex"` reads a byte array or byte slice as hex digits even when its
// type implements encoding.TextUnmarshaler (uuid.UUID, for instance).

// TagOptions is the decoded form of a `tsv` struct tag.
type TagOptions struct {
	Skip bool
	Hex  bool
}

// ParseTag decodes the value of a `tsv` struct tag.
func ParseTag(raw string) (TagOptions, error) {
	raw = strings.TrimSpace(raw)
	if raw == SkipTagValue {
		return TagOptions{Skip: true}, nil
	}

	var opts TagOptions
	for _, opt := range strings.Split(raw, TagOptionDelimiter) {
		switch opt = strings.TrimSpace(opt); opt {
		case "":
			continue
		case HexTagOption:
			opts.Hex = true
		default:
			return TagOptions{}, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, opt)
		}
	}
	return opts, nil
}

// fieldTag returns the tag options of a struct field.
func fieldTag(field reflect.StructField) (TagOptions, error) {
	raw, ok := field.Tag.Lookup(TagName)
	if !ok {
		return TagOptions{}, nil
	}
	return ParseTag(raw)
}
