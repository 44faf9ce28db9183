// Package tsv is a small parser for line-oriented, tab-separated data in
// which every line may encode a different record type.
//
// Unlike standard TSV there is no header row and no fixed schema: the caller
// names the expected shape at each read by asking for a Go type. A typical
// document carries a header line followed by any number of object lines:
//
//	1	Example Title	FFFFFF
//	000000	false	Line	0	0	500	500
//	550055	true	Circle	200	300	20
//
// The package is built from two layers:
//   - Document walks the buffer line by line ('\n'), and Fields walks one
//     line field by field ('\t'). Both only move forward.
//   - The Value Assembly contract builds a Go value from a Fields cursor. A
//     type takes part either by implementing [Reader], or by letting the
//     package derive a [Plan] for it from its declared shape.
//
// Derived plans follow the declared shape of a type:
//   - structs read one value per exported field, in declaration order. A
//     field tagged `tsv:"-"` is skipped.
//   - arrays [N]T read N values of T, except [N]byte, which reads one field
//     of exactly 2N hex digits.
//   - pointers allocate a fresh value and read into it.
//   - interfaces registered with [RegisterEnum] read a tag field holding the
//     name of one of their variant types, then read that variant's payload.
//   - scalars (string, bool, integers of every width including [Int128] and
//     [Uint128], floats, complex numbers) read one field each, as do types
//     implementing encoding.TextUnmarshaler, such as uuid.UUID.
//
// The tsvgen command generates the same assembly logic as Go source, so
// derived types pay no reflection cost at runtime.
//
// # Borrowed text
//
// Strings decoded from a Document are views into the buffer it was created
// from; nothing is copied. The buffer must not be modified while the document
// or any value read from it is still in use. Set DocumentOpts.Copy to make the
// document own a private copy instead.
//
// # Errors
//
// Every parse failure is an [*Error] whose [Kind] tells malformed encoding,
// malformed fields, truncated lines, truncated documents and surplus fields
// apart. Use errors.Is with ErrEncoding, ErrParseField, ErrEndOfDocument,
// ErrEndOfLine or ErrSurplusFields to test for a kind. Problems with a type's
// shape (a map field, an unregistered interface) are reported separately, as
// errors wrapping ErrUnsupportedType and friends, when its plan is compiled.
package tsv
