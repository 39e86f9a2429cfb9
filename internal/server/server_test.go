package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhara/epubprobe/internal/config"
	"github.com/yuhara/epubprobe/internal/extract"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTP{Host: "127.0.0.1", Port: 0},
		Parse: config.Parse{
			PreviewLength:  200,
			MaxUploadBytes: 10 << 20,
		},
	}
}

func testServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, logger).Handler()
}

// testEPUB builds a minimal valid book archive.
func testEPUB(t *testing.T) []byte {
	t.Helper()

	const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
	const opf = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Upload Fixture</dc:title>
    <dc:language>en</dc:language>
  </metadata>
  <manifest><item id="c1" href="ch1.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="c1"/></spine>
</package>`
	const chapter = `<html xmlns="http://www.w3.org/1999/xhtml"><head><title>One</title></head><body><p>` +
		`Some chapter text that survives stripping.</p></body></html>`

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	mt, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = mt.Write([]byte("application/epub+zip"))
	require.NoError(t, err)

	for name, data := range map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      opf,
		"OEBPS/ch1.xhtml":        chapter,
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// uploadRequest builds a multipart POST to /api/parse.
func uploadRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/parse", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthz(t *testing.T) {
	h := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestParseUpload(t *testing.T) {
	h := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "book", "fixture.epub", testEPUB(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var res extract.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "Upload Fixture", res.BookMeta.Title)
	assert.Equal(t, extract.DefaultAuthor, res.BookMeta.Author)
	assert.Equal(t, 1, res.ChapterCount)
	require.Len(t, res.Chapters, 1)
	assert.Equal(t, "One", res.Chapters[0].Title)
}

func TestParseUpload_PreviewLengthFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Parse.PreviewLength = 10
	h := testServer(t, cfg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "book", "fixture.epub", testEPUB(t)))

	require.Equal(t, http.StatusOK, rec.Code)

	var res extract.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.Len(t, res.Chapters, 1)
	assert.Equal(t, "Some chapt"+extract.DefaultPreviewMarker, res.Chapters[0].ContentPreview)
}

func TestParseUpload_MissingField(t *testing.T) {
	h := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "document", "fixture.epub", testEPUB(t)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body["error"], `"book"`)
}

func TestParseUpload_WrongExtension(t *testing.T) {
	h := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "book", "fixture.pdf", testEPUB(t)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ".epub")
}

func TestParseUpload_NotAnArchive(t *testing.T) {
	h := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "book", "broken.epub", []byte("garbage bytes")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestParseUpload_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Parse.MaxUploadBytes = 64
	h := testServer(t, cfg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "book", "fixture.epub", testEPUB(t)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestParseUpload_MethodNotAllowed(t *testing.T) {
	h := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/parse", strings.NewReader("")))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
