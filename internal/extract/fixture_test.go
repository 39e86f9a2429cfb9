package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/yuhara/epubprobe/internal/epub"
)

const fixtureContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// spineOPF builds a package document around the given manifest and spine
// fragments.
func spineOPF(manifest, spine string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Fixture Book</dc:title>
    <dc:creator>Fixture Author</dc:creator>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>` + manifest + `</manifest>
  <spine>` + spine + `</spine>
</package>`
}

// xhtmlDoc wraps body content in a minimal XHTML document, optionally
// with a title element.
func xhtmlDoc(title, body string) string {
	head := "<head></head>"
	if title != "" {
		head = "<head><title>" + title + "</title></head>"
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">` + head + `<body>` + body + `</body></html>`
}

// buildBookBytes assembles an EPUB archive in memory. files maps archive
// paths (relative to OEBPS/) to contents.
func buildBookBytes(t *testing.T, opf string, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	writeEntry := func(name, data string, store bool) {
		method := zip.Deflate
		if store {
			method = zip.Store
		}
		fw, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(data)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	writeEntry("mimetype", "application/epub+zip", true)
	writeEntry("META-INF/container.xml", fixtureContainerXML, false)
	writeEntry("OEBPS/content.opf", opf, false)
	for name, data := range files {
		writeEntry("OEBPS/"+name, data, false)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

// buildBook opens a Reader over a freshly built archive.
func buildBook(t *testing.T, opf string, files map[string]string) *epub.Reader {
	t.Helper()
	r, err := epub.FromBytes(buildBookBytes(t, opf, files))
	if err != nil {
		t.Fatalf("open fixture book: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

// parsedPackage parses the fixture book's package document.
func parsedPackage(t *testing.T, r *epub.Reader) *epub.Package {
	t.Helper()
	pkg, err := epub.ParsePackage(r)
	if err != nil {
		t.Fatalf("parse fixture package: %v", err)
	}
	return pkg
}
