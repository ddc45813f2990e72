package document

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeDocx builds a minimal DOCX archive with the given paragraphs.
func writeDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestLoader_LoadsTxtFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha content"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("beta content"), 0o644))

	loader := NewLoader(dir, zap.NewNop())
	docs, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "a.txt", docs[0].ID)
	assert.Equal(t, "alpha content", docs[0].Text)
	assert.Equal(t, "b.txt", docs[1].ID)
	assert.Equal(t, "beta content", docs[1].Text)
}

func TestLoader_LoadsDocxParagraphsJoinedWithSpaces(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "report.docx"), "first paragraph", "second paragraph")

	loader := NewLoader(dir, zap.NewNop())
	docs, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "report.docx", docs[0].ID)
	assert.Equal(t, "first paragraph second paragraph", docs[0].Text)
}

func TestLoader_SkipsUnsupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.csv"), []byte("a,b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.md"), []byte("# nope"), 0o644))

	loader := NewLoader(dir, zap.NewNop())
	docs, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "keep.txt", docs[0].ID)
}

func TestLoader_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.txt"), []byte("fine"), 0o644))
	// Not a ZIP archive, so the DOCX handler fails to parse it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.docx"), []byte("not a zip"), 0o644))

	loader := NewLoader(dir, zap.NewNop())
	docs, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "good.txt", docs[0].ID)
}

func TestLoader_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.txt"), []byte("top"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.txt"), []byte("deep"), 0o644))

	loader := NewLoader(dir, zap.NewNop())
	docs, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "top.txt", docs[0].ID)
}

func TestLoader_MissingDirectoryIsError(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	_, err := loader.Load(context.Background())
	require.Error(t, err)
}

func TestLoader_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(dir, zap.NewNop())
	_, err := loader.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDocxHandler_EmptyDocument(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "empty.docx"))

	var h DocxHandler
	text, err := h.Read(filepath.Join(dir, "empty.docx"))
	require.NoError(t, err)
	assert.Equal(t, "", text)
}
