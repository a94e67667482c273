package export

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes++
	return c.Buffer.Write(p)
}

func TestWriter_Layout(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		build func(w *Writer)
		want  string
	}{
		{
			name: "empty object",
			build: func(w *Writer) {
				w.StartObject(false)
				w.EndObject()
			},
			want: "{}",
		},
		{
			name: "empty array",
			build: func(w *Writer) {
				w.StartArray(false)
				w.EndArray()
			},
			want: "[]",
		},
		{
			name: "object with keys",
			build: func(w *Writer) {
				w.StartObject(false)
				w.Key("name")
				w.SimpleString("Root")
				w.Key("flags")
				w.SimpleUint(0)
				w.EndObject()
			},
			want: "{\n\t\"name\": \"Root\",\n\t\"flags\": 0\n}",
		},
		{
			name: "nested arrays",
			build: func(w *Writer) {
				w.StartArray(false)
				w.StartArray(true)
				w.EndArray()
				w.StartArray(true)
				w.ElementInt(1)
				w.EndArray()
				w.EndArray()
			},
			want: "[\n\t[],\n\t[\n\t\t1\n\t]\n]",
		},
		{
			name:  "nested arrays compact",
			flags: FlagCompact,
			build: func(w *Writer) {
				w.StartArray(false)
				w.StartArray(true)
				w.EndArray()
				w.StartArray(true)
				w.ElementInt(1)
				w.EndArray()
				w.EndArray()
			},
			want: "[[],[1]]",
		},
		{
			name:  "object in object compact",
			flags: FlagCompact,
			build: func(w *Writer) {
				w.StartObject(false)
				w.Key("a")
				w.StartObject(false)
				w.Key("b")
				w.SimpleFloats(1, 2, 3)
				w.EndObject()
				w.Key("c")
				w.SimpleInts(4, 5)
				w.EndObject()
			},
			want: `{"a":{"b":[1,2,3]},"c":[4,5]}`,
		},
		{
			name:  "inline elements",
			flags: FlagCompact,
			build: func(w *Writer) {
				w.StartArray(false)
				w.ElementFloat64(0.5)
				w.ElementFloats(1, 0, 0)
				w.ElementInts(255, 0)
				w.EndArray()
			},
			want: "[0.5,[1,0,0],[255,0]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, WithFlags(tt.flags))
			tt.build(w)
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_CommaCount(t *testing.T) {
	for n := 0; n <= 6; n++ {
		var buf bytes.Buffer
		w := NewWriter(&buf, WithFlags(FlagCompact))
		w.StartArray(false)
		for i := 0; i < n; i++ {
			w.ElementInt(int64(i))
		}
		w.EndArray()
		if err := w.Close(); err != nil {
			t.Fatalf("n=%d: Close() error = %v", n, err)
		}

		want := n - 1
		if n == 0 {
			want = 0
		}
		out := buf.String()
		if got := strings.Count(out, ","); got != want {
			t.Errorf("n=%d: %d commas in %q, want %d", n, got, out, want)
		}
		if strings.HasPrefix(out, "[,") || strings.HasSuffix(out, ",]") {
			t.Errorf("n=%d: misplaced comma in %q", n, out)
		}

		var vals []int
		if err := json.Unmarshal(buf.Bytes(), &vals); err != nil {
			t.Fatalf("n=%d: output is not valid JSON: %v", n, err)
		}
		if len(vals) != n {
			t.Errorf("n=%d: parsed %d elements", n, len(vals))
		}
	}
}

func TestWriter_ObjectKeyCount(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartObject(false)
	keys := []string{"a", "b", "c", "d"}
	for i, k := range keys {
		w.Key(k)
		w.SimpleInt(int64(i))
	}
	w.EndObject()
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got := strings.Count(buf.String(), ","); got != len(keys)-1 {
		t.Errorf("%d commas, want %d", got, len(keys)-1)
	}
	var obj map[string]int
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if obj["d"] != 3 {
		t.Errorf("obj[d] = %d, want 3", obj["d"])
	}
}

func TestWriter_StringEscaping(t *testing.T) {
	inputs := []string{
		`plain`,
		`with "quotes"`,
		`back\slash`,
		"line\nbreak\ttab\rreturn",
		"control\x01\x1f chars",
		"unicode ünïcødé",
		`C:\path\"file".obj`,
	}

	for _, in := range inputs {
		var buf bytes.Buffer
		w := NewWriter(&buf, WithFlags(FlagCompact))
		w.StartObject(false)
		w.Key(in)
		w.SimpleString(in)
		w.EndObject()
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		var obj map[string]string
		if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
			t.Fatalf("input %q: output is not valid JSON: %v\n%s", in, err, buf.String())
		}
		if got, ok := obj[in]; !ok || got != in {
			t.Errorf("input %q: round trip got %q (key present %v)", in, got, ok)
		}
	}
}

func TestWriter_InvalidUTF8(t *testing.T) {
	inputs := []struct {
		in   string
		want string
	}{
		{in: "bad\xffname", want: "bad\uFFFDname"},
		{in: "\xc3", want: "\uFFFD"},
		{in: "two\xff\xfebad", want: "two\uFFFDbad"},
		{in: "ok ü", want: "ok ü"},
	}

	for _, tt := range inputs {
		var buf bytes.Buffer
		w := NewWriter(&buf, WithFlags(FlagCompact))
		w.StartObject(false)
		w.Key(tt.in)
		w.SimpleString(tt.in)
		w.EndObject()
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		if !utf8.Valid(buf.Bytes()) {
			t.Errorf("input %q: output is not valid UTF-8: %q", tt.in, buf.String())
		}
		var obj map[string]string
		if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
			t.Fatalf("input %q: output is not valid JSON: %v", tt.in, err)
		}
		if got, ok := obj[tt.want]; !ok || got != tt.want {
			t.Errorf("input %q: got %v, want key and value %q", tt.in, obj, tt.want)
		}
	}
}

func TestWriter_QuoteEscapedLiterally(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SimpleString("a\"b\\c\n")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got, want := buf.String(), `"a\"b\\c\n"`; got != want {
		t.Errorf("output = %s, want %s", got, want)
	}
}

func TestWriter_Numbers(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  string
	}{
		{name: "float32 tenth", write: func(w *Writer) { w.SimpleFloat(0.1) }, want: "0.1"},
		{name: "float32 integer", write: func(w *Writer) { w.SimpleFloat(100) }, want: "100"},
		{name: "float32 negative", write: func(w *Writer) { w.SimpleFloat(-2.5) }, want: "-2.5"},
		{name: "float64 tenth", write: func(w *Writer) { w.SimpleFloat64(0.1) }, want: "0.1"},
		{name: "int", write: func(w *Writer) { w.SimpleInt(-42) }, want: "-42"},
		{name: "uint", write: func(w *Writer) { w.SimpleUint(4294967295) }, want: "4294967295"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			tt.write(w)
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_NonFiniteFloat(t *testing.T) {
	values := []float64{math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, v := range values {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		w.StartArray(false)
		w.ElementFloat64(v)
		w.EndArray()
		err := w.Close()

		var uve *UnsupportedValueError
		if !errors.As(err, &uve) {
			t.Errorf("value %v: Close() error = %v, want *UnsupportedValueError", v, err)
		}
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SimpleFloat(float32(math.NaN()))
	if w.Err() == nil {
		t.Error("SimpleFloat(NaN) should record an error")
	}
}

func TestWriter_BytesRoundTrip(t *testing.T) {
	data := []byte{0x00, 0x01, 0x7f, 0x80, 0xff, '"', '\\'}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartObject(false)
	w.Key("data")
	w.SimpleBytes(data)
	w.EndObject()
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var obj map[string]string
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if obj["data"] != "00017f80ff225c" {
		t.Errorf("data = %q", obj["data"])
	}
	decoded, err := hex.DecodeString(obj["data"])
	if err != nil {
		t.Fatalf("hex.DecodeString() error = %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("decoded = %x, want %x", decoded, data)
	}
}

func TestWriter_Balance(t *testing.T) {
	tests := []struct {
		name    string
		build   func(w *Writer)
		wantErr error
	}{
		{
			name:    "end without start",
			build:   func(w *Writer) { w.EndObject() },
			wantErr: ErrUnbalanced,
		},
		{
			name: "end with wrong kind",
			build: func(w *Writer) {
				w.StartObject(false)
				w.EndArray()
			},
			wantErr: ErrUnbalanced,
		},
		{
			name:    "left open",
			build:   func(w *Writer) { w.StartArray(false) },
			wantErr: ErrUnbalanced,
		},
		{
			name: "key inside array",
			build: func(w *Writer) {
				w.StartArray(false)
				w.Key("nope")
				w.EndArray()
			},
			wantErr: ErrMisplacedKey,
		},
		{
			name:    "key at top level",
			build:   func(w *Writer) { w.Key("nope") },
			wantErr: ErrMisplacedKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			tt.build(w)
			if err := w.Close(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Close() error = %v, want %v", err, tt.wantErr)
			}
			if w.Depth() < 0 {
				t.Errorf("Depth() = %d", w.Depth())
			}
		})
	}
}

func TestWriter_Depth(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	if w.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", w.Depth())
	}
	w.StartObject(false)
	w.Key("a")
	w.StartArray(false)
	if w.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", w.Depth())
	}
	w.EndArray()
	w.EndObject()
	if w.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", w.Depth())
	}
}

func TestWriter_FlushOnlyOnClose(t *testing.T) {
	var out countingWriter
	w := NewWriter(&out)
	w.StartArray(false)
	for i := 0; i < 1000; i++ {
		w.ElementInt(int64(i))
	}
	w.EndArray()
	if out.Len() != 0 {
		t.Errorf("%d bytes reached the sink before Close", out.Len())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if out.writes != 1 {
		t.Errorf("sink written %d times, want 1", out.writes)
	}
	// Second Close is a no-op
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if out.writes != 1 {
		t.Errorf("sink written %d times after second Close, want 1", out.writes)
	}
}

func TestWriter_FlushThreshold(t *testing.T) {
	build := func(w *Writer) {
		w.StartArray(false)
		for i := 0; i < 500; i++ {
			w.StartArray(true)
			w.ElementInt(int64(i))
			w.ElementFloat(float32(i) / 4)
			w.EndArray()
		}
		w.EndArray()
	}

	var whole bytes.Buffer
	w := NewWriter(&whole)
	build(w)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var chunked countingWriter
	w = NewWriter(&chunked, WithFlushThreshold(64))
	build(w)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if chunked.writes < 2 {
		t.Errorf("sink written %d times, want incremental flushes", chunked.writes)
	}
	if !bytes.Equal(whole.Bytes(), chunked.Bytes()) {
		t.Error("incremental flushing changed the output")
	}
}

func TestWriter_SinkFailure(t *testing.T) {
	w := NewWriter(failingWriter{})
	w.StartObject(false)
	w.Key("a")
	w.SimpleInt(1)
	w.EndObject()
	if err := w.Close(); err == nil {
		t.Error("Close() should report the sink failure")
	}
}

func TestWriter_Indent(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithIndent("  "))
	w.StartArray(false)
	w.ElementInt(1)
	w.EndArray()
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got, want := buf.String(), "[\n  1\n]"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
