package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/iksnae/scene2json/internal"
	"github.com/iksnae/scene2json/internal/scene"
)

// JSONExporter streams a scene as a single JSON object
type JSONExporter struct {
	// Compact drops newlines and indentation
	Compact bool
	// FlushThreshold bounds the writer's buffer; zero flushes once at the end
	FlushThreshold int
}

// Export writes sc to w
func (e *JSONExporter) Export(ctx context.Context, sc *scene.Scene, w io.Writer) error {
	var flags Flags
	if e.Compact {
		flags |= FlagCompact
	}
	jw := NewWriter(w, WithFlags(flags), WithFlushThreshold(e.FlushThreshold))

	if err := NewSceneSerializer(ctx, jw).Serialize(sc); err != nil {
		_ = jw.Close()
		return err
	}
	return jw.Close()
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}

// Format returns the format name accepted by NewExporter
func (e *JSONExporter) Format() string {
	if e.Compact {
		return "json-compact"
	}
	return "json"
}

// ExportFile exports sc into the file at path. Failures to create, write or
// close the file are reported as *internal.ExportError.
func ExportFile(ctx context.Context, e Exporter, sc *scene.Scene, path string, tee ...io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: e.Format(), Path: path, Err: err}
	}

	var w io.Writer = f
	if len(tee) > 0 {
		w = io.MultiWriter(append([]io.Writer{f}, tee...)...)
	}

	if err := e.Export(ctx, sc, w); err != nil {
		_ = f.Close()
		return &internal.ExportError{Format: e.Format(), Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &internal.ExportError{Format: e.Format(), Path: path, Err: fmt.Errorf("close: %w", err)}
	}
	internal.LogDebug("Wrote %s", path)
	return nil
}
