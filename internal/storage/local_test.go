package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestSaveWritesFileAndReturnsReference(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	fh := uploadHeader(t, "cert.PDF", []byte("%PDF-1.4"))
	ref, err := store.Save(fh, "certificate", DocumentTypes)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "/uploads/certificate-"))
	require.True(t, strings.HasSuffix(ref, ".pdf"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/")))
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-1.4"), data)
}

func TestSaveUniqueNamesPerUpload(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(uploadHeader(t, "a.png", []byte("x")), "certificate", DocumentTypes)
	require.NoError(t, err)
	second, err := store.Save(uploadHeader(t, "a.png", []byte("x")), "certificate", DocumentTypes)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(uploadHeader(t, "payload.exe", []byte("MZ")), "certificate", DocumentTypes)
	require.ErrorIs(t, err, ErrBadType)

	// PDFs are documents, never campaign images.
	_, err = store.Save(uploadHeader(t, "scan.pdf", []byte("%PDF")), "image", ImageTypes)
	require.ErrorIs(t, err, ErrBadType)
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	t.Parallel()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	big := bytes.Repeat([]byte("a"), MaxUploadBytes+1)
	_, err = store.Save(uploadHeader(t, "big.png", big), "image", ImageTypes)
	require.ErrorIs(t, err, ErrTooLarge)
}
