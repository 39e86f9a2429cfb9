package epub

// Package represents the parsed package document (OPF).
type Package struct {
	Metadata Metadata
	Manifest map[string]ManifestItem // id -> item
	// ManifestOrder preserves the document order of manifest ids.
	ManifestOrder []string
	Spine         []SpineItem
	// BaseDir is the archive directory containing the package document.
	// Manifest hrefs are already joined against it.
	BaseDir string
}

// Metadata holds the Dublin Core fields extracted from the package
// document. Fields are raw strings; absent fields stay empty and are
// defaulted at assembly time, not here.
type Metadata struct {
	Title       string
	Creator     string
	Publisher   string
	Date        string
	Language    string
	Identifier  string
	Description string

	// CoverID is the manifest id named by an EPUB 2 meta name="cover"
	// element, if any.
	CoverID string
}

// ManifestItem represents an item in the manifest. Href is relative to
// the archive root (the package document's directory is already applied).
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// SpineItem represents an itemref in the spine. Document order is
// significant and preserved by the parser.
type SpineItem struct {
	IDRef  string
	Linear bool
}
