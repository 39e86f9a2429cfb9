package epub

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrNoCover indicates no cover image could be detected in the manifest.
var ErrNoCover = errors.New("epub: no cover image found")

// CoverInfo holds information about the detected cover image.
type CoverInfo struct {
	ManifestID      string
	Href            string
	MediaType       string
	DetectionMethod string // "properties", "meta", "filename"
}

// DetectCover detects the cover image from the manifest. Methods are
// tried in priority order:
//  1. properties="cover-image" (EPUB 3.0)
//  2. meta name="cover" (EPUB 2.0)
//  3. filename pattern (basename contains "cover", SVG excluded)
//
// Returns nil if no cover image is found.
func (p *Package) DetectCover() *CoverInfo {
	for _, id := range p.ManifestOrder {
		item := p.Manifest[id]
		for _, prop := range item.Properties {
			if prop == "cover-image" {
				return &CoverInfo{
					ManifestID:      item.ID,
					Href:            item.Href,
					MediaType:       item.MediaType,
					DetectionMethod: "properties",
				}
			}
		}
	}

	if p.Metadata.CoverID != "" {
		if item, ok := p.Manifest[p.Metadata.CoverID]; ok && isImageMediaType(item.MediaType) {
			return &CoverInfo{
				ManifestID:      item.ID,
				Href:            item.Href,
				MediaType:       item.MediaType,
				DetectionMethod: "meta",
			}
		}
	}

	for _, id := range p.ManifestOrder {
		item := p.Manifest[id]
		if !isImageMediaType(item.MediaType) {
			continue
		}
		if strings.Contains(strings.ToLower(path.Base(item.Href)), "cover") {
			return &CoverInfo{
				ManifestID:      item.ID,
				Href:            item.Href,
				MediaType:       item.MediaType,
				DetectionMethod: "filename",
			}
		}
	}

	return nil
}

// CoverThumbnail reads the detected cover image and re-encodes it as a
// JPEG bounded to maxWidth pixels (height follows the aspect ratio).
// Images narrower than maxWidth are encoded at their original size.
func CoverThumbnail(r *Reader, p *Package, maxWidth int) ([]byte, error) {
	info := p.DetectCover()
	if info == nil {
		return nil, ErrNoCover
	}

	data, err := r.ReadFile(info.Href)
	if err != nil {
		return nil, fmt.Errorf("epub: read cover %s: %w", info.Href, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("epub: decode cover %s: %w", info.Href, err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("epub: encode cover thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// isImageMediaType checks if a media type is a raster image (SVG excluded).
func isImageMediaType(mediaType string) bool {
	if mediaType == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
