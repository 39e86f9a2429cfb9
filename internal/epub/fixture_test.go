package epub

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// zipEntry describes one archive entry for test fixtures.
type zipEntry struct {
	name  string
	data  string
	store bool // use zip.Store (required for mimetype)
}

// buildArchive builds an in-memory ZIP from the given entries.
func buildArchive(t *testing.T, entries []zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		method := zip.Deflate
		if e.store {
			method = zip.Store
		}
		fw, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: method})
		if err != nil {
			t.Fatalf("create %s: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.data)); err != nil {
			t.Fatalf("write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const minimalOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="chapter1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="chapter1"/>
  </spine>
</package>`

const chapter1XHTML = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter 1</title></head>
<body><h1>Chapter 1</h1><p>Hello, World!</p></body>
</html>`

// minimalEPUB builds a small valid EPUB archive.
func minimalEPUB(t *testing.T) []byte {
	t.Helper()
	return buildArchive(t, []zipEntry{
		{name: "mimetype", data: "application/epub+zip", store: true},
		{name: "META-INF/container.xml", data: containerXML},
		{name: "OEBPS/content.opf", data: minimalOPF},
		{name: "OEBPS/chapter1.xhtml", data: chapter1XHTML},
	})
}

// writeEPUB writes archive bytes to a file under dir and returns the path.
func writeEPUB(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "test.epub")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write test epub: %v", err)
	}
	return path
}
