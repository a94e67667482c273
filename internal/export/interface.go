package export

import (
	"context"
	"fmt"
	"io"

	"github.com/iksnae/scene2json/internal/scene"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(ctx context.Context, sc *scene.Scene, w io.Writer) error
	Extension() string
	Format() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "json-compact", "min":
		return &JSONExporter{Compact: true}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, json-compact)", format)
	}
}
