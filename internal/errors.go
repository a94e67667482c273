package internal

import "fmt"

// ImportError represents errors reading a scene file
type ImportError struct {
	Path string
	Op   string // "open", "read", "decode"
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ParseError represents an invalid entry inside a scene description
type ParseError struct {
	Source string // file path
	Key    string // location inside the document, e.g. "meshes[0].faces[3]"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// CacheError represents errors accessing the export cache
type CacheError struct {
	Op  string // "open", "lookup", "store", "list", "clear"
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
