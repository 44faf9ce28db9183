package tsv

import (
	"iter"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/tliron/commonlog"
)

var documentLog = commonlog.GetLogger(LoggerName)

// DocumentOpts configures a Document. The zero value gives the default
// behaviour.
type DocumentOpts struct {
	// Copy makes the document own a private copy of the buffer. By default
	// the buffer is aliased and must stay unmodified while the document or
	// anything read from it is in use.
	Copy bool
	// StrictFields rejects lines with unread fields left after a record,
	// the way ParseLine always does. By default surplus fields are ignored.
	StrictFields bool
	// SkipInvalid makes ReadAll drop lines that fail to parse and carry on,
	// instead of ending at the first one.
	SkipInvalid bool
	// Registry supplies enums, custom readers and cached plans. Nil means
	// the default registry.
	Registry *Registry
}

// Document is a read-once cursor over the lines of a UTF-8 buffer.
//
// A Document never yields the same line twice. It is not safe for
// concurrent use.
type Document struct {
	rest string // unread text
	done bool   // no line left
	line int    // lines handed out so far
	opts DocumentOpts
}

// NewDocument validates data as UTF-8 and returns a document over it. The
// document aliases data; see DocumentOpts.Copy.
func NewDocument(data []byte) (*Document, error) {
	return NewDocumentWithOpts(data, DocumentOpts{})
}

// NewDocumentWithOpts is NewDocument with options.
func NewDocumentWithOpts(data []byte, opts DocumentOpts) (*Document, error) {
	if off := invalidUTF8(data); off >= 0 {
		return nil, &Error{Kind: KindEncoding, Offset: off}
	}
	var text string
	if opts.Copy {
		text = string(data)
	} else {
		text = unsafe.String(unsafe.SliceData(data), len(data))
	}
	return &Document{rest: text, opts: opts}, nil
}

// NewDocumentString returns a document over s. Strings are immutable, so no
// copy is ever needed.
func NewDocumentString(s string, opts DocumentOpts) (*Document, error) {
	if !utf8.ValidString(s) {
		return nil, &Error{Kind: KindEncoding, Offset: invalidUTF8([]byte(s))}
	}
	return &Document{rest: s, opts: opts}, nil
}

// invalidUTF8 returns the offset of the first invalid UTF-8 sequence in
// data, or -1.
func invalidUTF8(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// Next hands out a cursor over the next line. It fails with a
// KindEndOfDocument error once every line has been read, on this and every
// later call.
func (d *Document) Next() (*Fields, error) {
	if d.done {
		return nil, &Error{Kind: KindEndOfDocument, Line: d.line + 1}
	}
	d.line++
	var line string
	if i := strings.IndexByte(d.rest, LineSeparator); i >= 0 {
		line, d.rest = d.rest[:i], d.rest[i+1:]
	} else {
		line, d.rest, d.done = d.rest, "", true
	}
	return newFields(line, d.line, d.opts.Registry), nil
}

// More reports whether unread lines remain.
func (d *Document) More() bool {
	return !d.done
}

// Line returns the number of lines read so far, which is also the number of
// the line read last.
func (d *Document) Line() int {
	return d.line
}

// Read takes the next line and assembles the value dest points to from it.
// On failure *dest is left untouched.
func (d *Document) Read(dest any) error {
	f, err := d.Next()
	if err != nil {
		return err
	}
	if err := f.Read(dest); err != nil {
		return atLine(err, f.line)
	}
	return d.finish(f)
}

func (d *Document) finish(f *Fields) error {
	if d.opts.StrictFields {
		return f.Done()
	}
	return nil
}

// ReadOne takes the next line of d and assembles a T from it.
func ReadOne[T any](d *Document) (T, error) {
	f, err := d.Next()
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := Read[T](f)
	if err != nil {
		return v, atLine(err, f.line)
	}
	if err := d.finish(f); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ReadAll returns the remaining lines of d as a sequence of T. The sequence
// ends at the first line that fails to parse without reporting why, unless
// DocumentOpts.SkipInvalid is set, in which case failing lines are dropped.
// Use ReadAllErr to see the failures.
//
// The sequence consumes d and cannot be restarted.
func ReadAll[T any](d *Document) iter.Seq[T] {
	return func(yield func(T) bool) {
		for d.More() {
			v, err := ReadOne[T](d)
			if err != nil {
				if documentLog.AllowLevel(commonlog.Debug) {
					documentLog.Debug("dropped line", "line", d.Line(), "error", err.Error())
				}
				if d.opts.SkipInvalid {
					continue
				}
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// ReadAllErr returns the remaining lines of d as a sequence of results. A
// line that fails to parse yields its error; iteration carries on until the
// caller stops or the document ends.
func ReadAllErr[T any](d *Document) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for d.More() {
			if !yield(ReadOne[T](d)) {
				return
			}
		}
	}
}
