// Package chunk splits normalized document text into fixed-size overlapping
// segments for embedding.
package chunk

import (
	"errors"
	"fmt"
)

// Defaults for the splitting window.
const (
	DefaultSize    = 1000
	DefaultOverlap = 20
)

// ErrInvalidSettings indicates a size/overlap combination that cannot
// terminate.
var ErrInvalidSettings = errors.New("chunk: invalid splitter settings")

// Splitter produces overlapping fixed-size chunks of text. Size and overlap
// are measured in code points, not bytes, so multi-byte characters are never
// split mid-rune.
//
// Starting at offset 0 it emits the window [start, start+size), clamped to
// the text length, then advances start by size-overlap. The last chunk may
// be shorter than size. Chunk count is deterministic given the text length
// and settings.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter validates the window settings and returns a Splitter.
// overlap >= size would never advance the window, so it fails fast.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidSettings, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap cannot be negative, got %d", ErrInvalidSettings, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidSettings, overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Size returns the configured window size.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured window overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split chunks text into overlapping windows. Empty text yields no chunks.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(runes); start += s.size - s.overlap {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		// Once a window reaches the end of the text, later windows would be
		// pure overlap of this one.
		if end == len(runes) {
			break
		}
	}
	return chunks
}
