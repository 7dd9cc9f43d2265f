package ref

import (
	"fmt"
	"os"
	"strings"
)

// Document is an identified source of text. Equality and hash are by Name
// alone: two documents with identical content but different names are
// distinct, and a Document implementation must not override that by
// comparing content.
type Document interface {
	// Name is the stable identifier used for equality, hashing, and
	// diagnostic reporting (a path-like string).
	Name() string

	// Len returns the total length of the document's content, in bytes,
	// measured the same way Reference.Length counts them (bytes, since the
	// pipeline operates on UTF-8 source text byte-for-byte like the source
	// language it distills).
	Len() uint32

	// Read returns the substring covered by r. Implementations must reject
	// a Reference whose End() exceeds Len() with ErrOutOfBounds.
	Read(r Reference) (string, error)
}

// ErrOutOfBounds is returned by Document.Read when the Reference extends
// past the end of the document.
var ErrOutOfBounds = fmt.Errorf("reference out of document bounds")

// ErrDocumentNotFound is raised by a file-backed Document when the
// underlying file cannot be read.
type ErrDocumentNotFound struct {
	Name string
	Err  error
}

func (e *ErrDocumentNotFound) Error() string {
	return fmt.Sprintf("document not found: %s: %v", e.Name, e.Err)
}

func (e *ErrDocumentNotFound) Unwrap() error { return e.Err }

// PseudoDocument is an in-memory Document, identified by an explicit name
// distinct from its content.
type PseudoDocument struct {
	name    string
	content string
}

// NewPseudoDocument builds an in-memory Document. Two PseudoDocuments with
// the same name are equal for Environment purposes even if their content
// differs — Document identity is by name alone.
func NewPseudoDocument(name, content string) *PseudoDocument {
	return &PseudoDocument{name: name, content: content}
}

func (d *PseudoDocument) Name() string { return d.name }

func (d *PseudoDocument) Len() uint32 { return uint32(len(d.content)) }

func (d *PseudoDocument) Read(r Reference) (string, error) {
	if r.End() > d.Len() {
		return "", ErrOutOfBounds
	}
	return d.content[r.Position:r.End()], nil
}

// FileDocument is a file-backed Document. Content is read eagerly at
// construction time: incremental reparsing is out of scope, so there is no
// benefit to lazily streaming a file we will re-read in full on every
// Reference anyway.
type FileDocument struct {
	path    string
	content string
}

// NewFileDocument reads path once and wraps it as a Document named after
// the path.
func NewFileDocument(path string) (*FileDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ErrDocumentNotFound{Name: path, Err: err}
	}
	return &FileDocument{path: path, content: string(data)}, nil
}

func (d *FileDocument) Name() string { return d.path }

func (d *FileDocument) Len() uint32 { return uint32(len(d.content)) }

func (d *FileDocument) Read(r Reference) (string, error) {
	if r.End() > d.Len() {
		return "", ErrOutOfBounds
	}
	return d.content[r.Position:r.End()], nil
}

// LineColumn derives a 1-based (line, column) pair for a position within the
// document, by counting newlines up to that position. This is the technique
// the diagnostic formatter relies on to derive file/line/column from a
// Document + Reference.
func LineColumn(d Document, position uint32) (line, column int, err error) {
	if position > d.Len() {
		return 0, 0, ErrOutOfBounds
	}
	prefix, err := d.Read(New(0, position))
	if err != nil {
		return 0, 0, err
	}
	line = 1 + strings.Count(prefix, "\n")
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		column = len(prefix) - idx
	} else {
		column = len(prefix) + 1
	}
	return line, column, nil
}
