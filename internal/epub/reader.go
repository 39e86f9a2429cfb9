package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	containerPath    = "META-INF/container.xml"
	expectedMimetype = "application/epub+zip"
	packageMediaType = "application/oebps-package+xml"
)

// Reader provides access to the contents of an OCF container. A Reader is
// owned by exactly one parse operation and is not safe for concurrent use.
type Reader struct {
	zr       *zip.Reader
	closer   io.Closer // non-nil only when created via Open
	files    map[string]*zip.File
	rootPath string
	warnings []string
}

// container.xml structure
type ocfContainer struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// Open opens an EPUB file at the given path. The caller must call Close
// when done, on every exit path.
func Open(path string) (*Reader, error) {
	zrc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, path, err)
	}

	r, err := initReader(&zrc.Reader, zrc)
	if err != nil {
		zrc.Close()
		return nil, err
	}
	return r, nil
}

// NewReader creates a Reader from an io.ReaderAt with the given size.
// The caller owns the lifetime of ra; Close only clears internal state.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	return initReader(zr, nil)
}

// FromBytes creates a Reader over an in-memory EPUB.
func FromBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

func initReader(zr *zip.Reader, closer io.Closer) (*Reader, error) {
	r := &Reader{
		zr:     zr,
		closer: closer,
		files:  make(map[string]*zip.File, len(zr.File)),
	}

	for _, f := range zr.File {
		name := normalizePath(f.Name)
		if _, exists := r.files[name]; !exists {
			r.files[name] = f // first entry wins
		}
	}

	r.checkMimetype()

	if err := r.parseContainer(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases resources held by the Reader. When the Reader was
// created via Open, Close closes the underlying file. Close is idempotent.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// RootPath returns the archive path of the package document, as declared
// by the container descriptor.
func (r *Reader) RootPath() string {
	return r.rootPath
}

// Warnings returns non-fatal observations accumulated while opening the
// container.
func (r *Reader) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

// Has reports whether the archive contains an entry at the given path.
func (r *Reader) Has(path string) bool {
	_, ok := r.files[normalizePath(path)]
	return ok
}

// ReadFile reads the contents of an archive entry by path.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	f, ok := r.files[normalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("epub: file not found in archive: %s", path)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epub: open %s: %w", path, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// checkMimetype records deviations from the OCF mimetype rules as
// warnings. Real-world EPUBs get this entry wrong often enough that a
// hard failure would reject otherwise readable books.
func (r *Reader) checkMimetype() {
	f, ok := r.files["mimetype"]
	if !ok {
		r.warnings = append(r.warnings, "mimetype entry missing")
		return
	}
	if f.Method != zip.Store {
		r.warnings = append(r.warnings, "mimetype entry is compressed")
	}
	content, err := r.ReadFile("mimetype")
	if err != nil {
		r.warnings = append(r.warnings, fmt.Sprintf("cannot read mimetype entry: %v", err))
		return
	}
	if string(content) != expectedMimetype {
		r.warnings = append(r.warnings, fmt.Sprintf("unexpected mimetype: %q", string(content)))
	}
}

// parseContainer reads the fixed container descriptor and resolves the
// package document path from its first usable rootfile declaration.
func (r *Reader) parseContainer() error {
	content, err := r.ReadFile(containerPath)
	if err != nil {
		if !r.Has(containerPath) {
			return ErrMissingContainerDescriptor
		}
		return fmt.Errorf("%w: read %s: %v", ErrInvalidArchive, containerPath, err)
	}

	var c ocfContainer
	if err := xml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidArchive, containerPath, err)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.FullPath == "" {
			continue
		}
		if rf.MediaType == packageMediaType || rf.MediaType == "" {
			r.rootPath = normalizePath(rf.FullPath)
			return nil
		}
	}

	// No media-type match: fall back to the first declared path.
	for _, rf := range c.Rootfiles.Rootfile {
		if rf.FullPath != "" {
			r.rootPath = normalizePath(rf.FullPath)
			return nil
		}
	}

	return ErrNoRootFileDeclared
}

// normalizePath normalizes archive entry paths (strips ./ prefix).
func normalizePath(path string) string {
	return strings.TrimPrefix(path, "./")
}
