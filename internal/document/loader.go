package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Loader scans a flat directory and produces normalized documents.
type Loader struct {
	dir      string
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewLoader creates a Loader for the given directory with the default
// handler registry (.txt, .pdf, .docx).
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		dir: dir,
		handlers: map[string]Handler{
			".txt":  TxtHandler{},
			".pdf":  PDFHandler{},
			".docx": DocxHandler{},
		},
		logger: logger,
	}
}

// Load reads every supported file in the directory and returns one Document
// per file, in directory order. Subdirectories are not descended into.
//
// Files with unrecognized extensions are skipped with a warning. A file that
// fails to read or parse is also skipped with a warning rather than aborting
// the whole load; one bad file must not block the corpus.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("scanning docs directory %s: %w", l.dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))

		handler, ok := l.handlers[ext]
		if !ok {
			l.logger.Warn("unsupported file extension, skipping",
				zap.String("file", name),
				zap.String("extension", ext),
			)
			continue
		}

		text, err := handler.Read(filepath.Join(l.dir, name))
		if err != nil {
			l.logger.Warn("failed to read document, skipping",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}

		docs = append(docs, Document{ID: name, Text: text})
	}

	l.logger.Debug("loaded documents", zap.Int("count", len(docs)))
	return docs, nil
}
