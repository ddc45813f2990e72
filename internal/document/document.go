// Package document loads raw files from a directory and normalizes them
// into text blobs for the ingestion pipeline.
//
// Each supported format has a Handler that extracts plain text. The loader
// scans a single flat directory (non-recursive); the document id is the file
// base name including its extension, which is stable and unique within the
// directory.
package document

// Document is a normalized text blob produced by the loader.
// Immutable once produced.
type Document struct {
	// ID is the source file's base name including extension.
	ID string

	// Text is the full extracted text content.
	Text string
}

// Handler extracts plain text from a file of one format.
type Handler interface {
	// Read extracts the full text content of the file at path.
	// Multi-part content (PDF pages, DOCX paragraphs) is joined with
	// single spaces.
	Read(path string) (string, error)
}
