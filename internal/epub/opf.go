package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"strings"
)

// opfPackage represents the package document XML structure.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata represents the metadata section. Repeated elements are
// collected in document order; the first occurrence of each field wins.
type opfMetadata struct {
	Title       []string        `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator     []string        `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Publisher   []string        `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Date        []string        `xml:"http://purl.org/dc/elements/1.1/ date"`
	Language    []string        `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifier  []opfIdentifier `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Description []string        `xml:"http://purl.org/dc/elements/1.1/ description"`
	Meta        []opfMeta       `xml:"meta"`
}

// opfIdentifier represents an identifier element.
type opfIdentifier struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
}

// opfMeta represents a meta element (EPUB 2.0 attribute form).
type opfMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

// opfManifest represents the manifest section.
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents an item in the manifest.
type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// opfSpine represents the spine section.
type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

// opfItemRef represents an itemref in the spine.
type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// ParsePackage reads and parses the package document declared by the
// container descriptor.
func ParsePackage(r *Reader) (*Package, error) {
	rootPath := r.RootPath()
	if !r.Has(rootPath) {
		return nil, fmt.Errorf("%w: %s", ErrRootFileNotFound, rootPath)
	}
	content, err := r.ReadFile(rootPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootFileNotFound, rootPath, err)
	}
	return ParsePackageXML(content, path.Dir(rootPath))
}

// ParsePackageXML parses package document content. baseDir is the archive
// directory containing the package document; manifest hrefs are joined
// against it so they address the archive directly.
func ParsePackageXML(content []byte, baseDir string) (*Package, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(content, &pkg); err != nil {
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			return nil, fmt.Errorf("%w: line %d: %s", ErrMalformedPackageXML, syn.Line, syn.Msg)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedPackageXML, err)
	}

	p := &Package{
		Metadata: extractMetadata(&pkg.Metadata),
		Manifest: make(map[string]ManifestItem, len(pkg.Manifest.Items)),
		BaseDir:  baseDir,
	}

	for _, item := range pkg.Manifest.Items {
		if _, exists := p.Manifest[item.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateManifestID, item.ID)
		}
		mi := ManifestItem{
			ID:        item.ID,
			Href:      joinPath(baseDir, item.Href),
			MediaType: item.MediaType,
		}
		if item.Properties != "" {
			mi.Properties = strings.Fields(item.Properties)
		}
		p.Manifest[item.ID] = mi
		p.ManifestOrder = append(p.ManifestOrder, item.ID)
	}

	for _, ref := range pkg.Spine.ItemRefs {
		if _, ok := p.Manifest[ref.IDRef]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedSpineReference, ref.IDRef)
		}
		p.Spine = append(p.Spine, SpineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}

	return p, nil
}

// extractMetadata maps the raw metadata section to Metadata. Multiple
// occurrences of the same field take the first one; unrecognized elements
// are ignored by the XML decoder.
func extractMetadata(meta *opfMetadata) Metadata {
	md := Metadata{}
	if len(meta.Title) > 0 {
		md.Title = strings.TrimSpace(meta.Title[0])
	}
	if len(meta.Creator) > 0 {
		md.Creator = strings.TrimSpace(meta.Creator[0])
	}
	if len(meta.Publisher) > 0 {
		md.Publisher = strings.TrimSpace(meta.Publisher[0])
	}
	if len(meta.Date) > 0 {
		md.Date = strings.TrimSpace(meta.Date[0])
	}
	if len(meta.Language) > 0 {
		md.Language = strings.TrimSpace(meta.Language[0])
	}
	if len(meta.Identifier) > 0 {
		md.Identifier = strings.TrimSpace(meta.Identifier[0].Value)
	}
	if len(meta.Description) > 0 {
		md.Description = strings.TrimSpace(meta.Description[0])
	}
	for _, m := range meta.Meta {
		if m.Name == "cover" && m.Content != "" {
			md.CoverID = m.Content
			break
		}
	}
	return md
}

// joinPath joins the package document directory with a relative href.
func joinPath(base, rel string) string {
	if base == "" || base == "." {
		return rel
	}
	return path.Join(base, rel)
}
