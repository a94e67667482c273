package export

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

// Flags control the writer's formatting.
type Flags uint

const (
	// FlagCompact disables newlines and indentation.
	FlagCompact Flags = 1 << iota
)

const defaultBufferSize = 4096

var (
	// ErrUnbalanced is recorded when containers are closed without a matching
	// open, closed with the wrong kind, or left open at Close.
	ErrUnbalanced = errors.New("unbalanced container nesting")
	// ErrMisplacedKey is recorded when Key is called outside an object.
	ErrMisplacedKey = errors.New("key outside of an object")
)

// UnsupportedValueError is recorded for floating point values that have no
// JSON representation.
type UnsupportedValueError struct {
	Value float64
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported value: %v", e.Value)
}

type containerKind uint8

const (
	kindObject containerKind = iota
	kindArray
)

// frame is the bookkeeping for one open container.
type frame struct {
	kind     containerKind
	hasChild bool
}

// Writer emits JSON tokens in a single forward pass.
//
// The caller drives nesting explicitly; the writer only tracks, per open
// container, whether a child has been emitted yet, and uses that to place
// commas. A Writer is owned by one goroutine and serves one document.
type Writer struct {
	stream    *jsoniter.Stream
	flags     Flags
	indent    string
	threshold int
	stack     []frame
	err       error
	closed    bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithFlags sets the formatting flags.
func WithFlags(f Flags) WriterOption {
	return func(w *Writer) { w.flags = f }
}

// WithIndent sets the per-level indentation string (a tab by default).
func WithIndent(indent string) WriterOption {
	return func(w *Writer) { w.indent = indent }
}

// WithFlushThreshold makes the writer flush to the sink whenever at least n
// bytes are buffered. Zero keeps everything buffered until Flush or Close.
func WithFlushThreshold(n int) WriterOption {
	return func(w *Writer) { w.threshold = n }
}

// NewWriter creates a writer that emits to out.
func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{indent: "\t"}
	for _, opt := range opts {
		opt(w)
	}
	size := defaultBufferSize
	if w.threshold > size {
		size = w.threshold
	}
	w.stream = jsoniter.NewStream(jsoniter.ConfigDefault, out, size)
	return w
}

// Depth returns the number of open containers.
func (w *Writer) Depth() int { return len(w.stack) }

// Err returns the first error recorded by the writer or its stream.
func (w *Writer) Err() error {
	if w.err != nil {
		return w.err
	}
	return w.stream.Error
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) ok() bool {
	return w.err == nil && w.stream.Error == nil
}

func (w *Writer) compact() bool { return w.flags&FlagCompact != 0 }

func (w *Writer) newline(depth int) {
	if w.compact() {
		return
	}
	w.stream.WriteRaw("\n")
	if depth > 0 && w.indent != "" {
		w.stream.WriteRaw(strings.Repeat(w.indent, depth))
	}
}

// delimit starts a new child of the innermost container: a comma if a
// sibling came before, then the line break and indentation.
func (w *Writer) delimit() {
	if len(w.stack) == 0 {
		return
	}
	top := &w.stack[len(w.stack)-1]
	if top.hasChild {
		w.stream.WriteRaw(",")
	}
	top.hasChild = true
	w.newline(len(w.stack))
}

func (w *Writer) start(kind containerKind, isArrayElement bool) {
	if !w.ok() {
		return
	}
	if isArrayElement {
		w.delimit()
	}
	if kind == kindObject {
		w.stream.WriteRaw("{")
	} else {
		w.stream.WriteRaw("[")
	}
	w.stack = append(w.stack, frame{kind: kind})
}

func (w *Writer) end(kind containerKind) {
	if !w.ok() {
		return
	}
	if len(w.stack) == 0 || w.stack[len(w.stack)-1].kind != kind {
		w.fail(ErrUnbalanced)
		return
	}
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if top.hasChild {
		w.newline(len(w.stack))
	}
	if kind == kindObject {
		w.stream.WriteRaw("}")
	} else {
		w.stream.WriteRaw("]")
	}
	w.maybeFlush()
}

// StartObject opens an object. isArrayElement marks the object as a new
// child of the enclosing container; pass false right after Key.
func (w *Writer) StartObject(isArrayElement bool) { w.start(kindObject, isArrayElement) }

// EndObject closes the innermost object.
func (w *Writer) EndObject() { w.end(kindObject) }

// StartArray opens an array. isArrayElement has the same meaning as for
// StartObject.
func (w *Writer) StartArray(isArrayElement bool) { w.start(kindArray, isArrayElement) }

// EndArray closes the innermost array.
func (w *Writer) EndArray() { w.end(kindArray) }

// Key emits an object key. The value must follow through a Simple* call or a
// Start* call with isArrayElement false.
func (w *Writer) Key(name string) {
	if !w.ok() {
		return
	}
	if len(w.stack) == 0 || w.stack[len(w.stack)-1].kind != kindObject {
		w.fail(ErrMisplacedKey)
		return
	}
	w.delimit()
	w.stream.WriteString(validUTF8(name))
	if w.compact() {
		w.stream.WriteRaw(":")
	} else {
		w.stream.WriteRaw(": ")
	}
}

func (w *Writer) float32(v float32) {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		w.fail(&UnsupportedValueError{Value: float64(v)})
		return
	}
	w.stream.WriteFloat32(v)
}

func (w *Writer) float64(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		w.fail(&UnsupportedValueError{Value: v})
		return
	}
	w.stream.WriteFloat64(v)
}

func (w *Writer) inlineFloats(vals []float32) {
	w.stream.WriteRaw("[")
	for i, v := range vals {
		if i > 0 {
			w.stream.WriteRaw(",")
		}
		w.float32(v)
	}
	w.stream.WriteRaw("]")
}

func (w *Writer) inlineInts(vals []int64) {
	w.stream.WriteRaw("[")
	for i, v := range vals {
		if i > 0 {
			w.stream.WriteRaw(",")
		}
		w.stream.WriteInt64(v)
	}
	w.stream.WriteRaw("]")
}

// ElementFloat emits a float array element.
func (w *Writer) ElementFloat(v float32) {
	if !w.ok() {
		return
	}
	w.delimit()
	w.float32(v)
	w.maybeFlush()
}

// ElementFloat64 emits a double precision array element.
func (w *Writer) ElementFloat64(v float64) {
	if !w.ok() {
		return
	}
	w.delimit()
	w.float64(v)
	w.maybeFlush()
}

// ElementInt emits an integer array element.
func (w *Writer) ElementInt(v int64) {
	if !w.ok() {
		return
	}
	w.delimit()
	w.stream.WriteInt64(v)
	w.maybeFlush()
}

// ElementUint emits an unsigned integer array element.
func (w *Writer) ElementUint(v uint64) {
	if !w.ok() {
		return
	}
	w.delimit()
	w.stream.WriteUint64(v)
	w.maybeFlush()
}

// ElementFloats emits a flat numeric array, on one line, as an array element.
func (w *Writer) ElementFloats(vals ...float32) {
	if !w.ok() {
		return
	}
	w.delimit()
	w.inlineFloats(vals)
	w.maybeFlush()
}

// ElementInts emits a flat integer array, on one line, as an array element.
func (w *Writer) ElementInts(vals ...int64) {
	if !w.ok() {
		return
	}
	w.delimit()
	w.inlineInts(vals)
	w.maybeFlush()
}

// SimpleFloat emits a float value after Key.
func (w *Writer) SimpleFloat(v float32) {
	if !w.ok() {
		return
	}
	w.float32(v)
}

// SimpleFloat64 emits a double precision value after Key.
func (w *Writer) SimpleFloat64(v float64) {
	if !w.ok() {
		return
	}
	w.float64(v)
}

// SimpleInt emits an integer value after Key.
func (w *Writer) SimpleInt(v int64) {
	if !w.ok() {
		return
	}
	w.stream.WriteInt64(v)
}

// SimpleUint emits an unsigned integer value after Key.
func (w *Writer) SimpleUint(v uint64) {
	if !w.ok() {
		return
	}
	w.stream.WriteUint64(v)
}

// SimpleString emits a quoted string value after Key. Quotes, backslashes
// and control characters are escaped; invalid UTF-8 becomes U+FFFD.
func (w *Writer) SimpleString(s string) {
	if !w.ok() {
		return
	}
	w.stream.WriteString(validUTF8(s))
}

// validUTF8 replaces each run of invalid bytes with U+FFFD. The stream copies
// bytes above 0x7f through unchanged.
func validUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}

// SimpleBytes emits b as a quoted string of lowercase hex pairs.
func (w *Writer) SimpleBytes(b []byte) {
	if !w.ok() {
		return
	}
	w.stream.WriteRaw(`"`)
	w.stream.WriteRaw(hex.EncodeToString(b))
	w.stream.WriteRaw(`"`)
	w.maybeFlush()
}

// SimpleFloats emits a flat numeric array on one line after Key. Used for
// matrices, vectors, colors and quaternions.
func (w *Writer) SimpleFloats(vals ...float32) {
	if !w.ok() {
		return
	}
	w.inlineFloats(vals)
}

// SimpleInts emits a flat integer array on one line after Key.
func (w *Writer) SimpleInts(vals ...int64) {
	if !w.ok() {
		return
	}
	w.inlineInts(vals)
}

func (w *Writer) maybeFlush() {
	if w.threshold > 0 && w.stream.Buffered() >= w.threshold {
		_ = w.stream.Flush()
	}
}

// Flush writes everything buffered so far to the sink.
func (w *Writer) Flush() error {
	if err := w.stream.Flush(); err != nil {
		return err
	}
	return w.Err()
}

// Close flushes the remaining buffer. It reports ErrUnbalanced if containers
// are still open. Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return w.Err()
	}
	w.closed = true
	if len(w.stack) != 0 {
		w.fail(ErrUnbalanced)
	}
	if err := w.stream.Flush(); err != nil {
		return err
	}
	return w.Err()
}
