package extract

import "github.com/yuhara/epubprobe/internal/epub"

// ParseBook runs the full pipeline over raw EPUB bytes: open container,
// parse package document, extract chapters, assemble. Each call opens its
// own container and shares no state with other calls; the container is
// released on every exit path.
func ParseBook(data []byte, opts Options) (*Result, error) {
	r, err := epub.FromBytes(data)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return parse(r, opts)
}

// ParseFile runs the full pipeline over an EPUB file on disk.
func ParseFile(path string, opts Options) (*Result, error) {
	r, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return parse(r, opts)
}

func parse(r *epub.Reader, opts Options) (*Result, error) {
	pkg, err := epub.ParsePackage(r)
	if err != nil {
		return nil, err
	}

	ex := NewExtractor(opts)
	chapters, err := ex.Extract(r, pkg)
	if err != nil {
		return nil, err
	}

	warnings := append(r.Warnings(), ex.Warnings()...)
	return Assemble(pkg.Metadata, chapters, warnings), nil
}
