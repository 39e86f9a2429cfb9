package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuhara/epubprobe/internal/epub"
)

// ErrEmptyBook indicates that no spine entry resolved to readable,
// non-empty content.
var ErrEmptyBook = errors.New("extract: no readable chapter content in book")

const (
	// DefaultPreviewLength is the preview bound in runes.
	DefaultPreviewLength = 200

	// DefaultPreviewMarker is appended to previews of truncated chapters.
	DefaultPreviewMarker = "..."
)

// Chapter is one entry of the extracted reading order. Index is 1-based
// and contiguous over the retained chapters.
type Chapter struct {
	Index            int    `json:"chapterIndex"`
	Title            string `json:"title"`
	ID               string `json:"id"`
	ContentPreview   string `json:"contentPreview"`
	RawContentLength int    `json:"rawContentLength"`
}

// Options configures extraction. The zero value selects the defaults.
type Options struct {
	// PreviewLength bounds the preview in runes; <= 0 means the default.
	PreviewLength int

	// PreviewMarker is appended when a preview is truncated; "" means the
	// default marker.
	PreviewMarker string

	// NextID generates a chapter id when the manifest item declares none
	// or its id was already taken by an earlier chapter of this parse.
	// nil selects a sequential "chapter-N" counter.
	NextID func() string
}

// Extractor walks a spine and produces chapter records. One Extractor
// serves one parse call; it accumulates per-chapter warnings.
type Extractor struct {
	previewLength int
	previewMarker string
	nextID        func() string
	warnings      []string
}

// NewExtractor creates an Extractor with the given options.
func NewExtractor(opts Options) *Extractor {
	e := &Extractor{
		previewLength: opts.PreviewLength,
		previewMarker: opts.PreviewMarker,
		nextID:        opts.NextID,
	}
	if e.previewLength <= 0 {
		e.previewLength = DefaultPreviewLength
	}
	if e.previewMarker == "" {
		e.previewMarker = DefaultPreviewMarker
	}
	if e.nextID == nil {
		e.nextID = counterID()
	}
	return e
}

// Warnings returns the per-chapter events recorded during Extract.
func (e *Extractor) Warnings() []string {
	return append([]string(nil), e.warnings...)
}

// Extract reads every spine entry in order and builds the retained
// chapter sequence. Unreadable documents, non-text documents, and
// documents that strip to nothing are dropped without consuming an index
// slot. When nothing survives, Extract fails with ErrEmptyBook.
func (e *Extractor) Extract(r *epub.Reader, pkg *epub.Package) ([]Chapter, error) {
	var chapters []Chapter
	seenIDs := make(map[string]bool)

	for _, si := range pkg.Spine {
		// Resolution against the manifest already happened during package
		// parsing; a missing entry here would be a programming error.
		item, ok := pkg.Manifest[si.IDRef]
		if !ok {
			return nil, fmt.Errorf("%w: %q", epub.ErrUnresolvedSpineReference, si.IDRef)
		}

		if !isTextDocument(item.MediaType) {
			e.warnf("skipping non-text spine entry %q (%s)", si.IDRef, item.MediaType)
			continue
		}

		data, err := r.ReadFile(item.Href)
		if err != nil {
			e.warnf("dropping chapter %q: %v", si.IDRef, err)
			continue
		}

		text := StripMarkup(data)
		if text == "" {
			continue
		}

		pos := len(chapters) + 1
		title := documentTitle(data)
		if title == "" {
			title = fmt.Sprintf("Chapter %d", pos)
		}
		// A spine may reference the same manifest item more than once.
		// Repeat occurrences fall back to the generator so ids stay
		// unique within one parse.
		id := item.ID
		for id == "" || seenIDs[id] {
			id = e.nextID()
		}
		seenIDs[id] = true

		chapters = append(chapters, Chapter{
			Index:            pos,
			Title:            title,
			ID:               id,
			ContentPreview:   e.preview(text),
			RawContentLength: utf8.RuneCountInString(text),
		})
	}

	if len(chapters) == 0 {
		return nil, ErrEmptyBook
	}
	return chapters, nil
}

// preview returns the first previewLength runes of text, appending the
// marker only when text exceeds the bound.
func (e *Extractor) preview(text string) string {
	runes := []rune(text)
	if len(runes) <= e.previewLength {
		return text
	}
	return string(runes[:e.previewLength]) + e.previewMarker
}

func (e *Extractor) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

// counterID returns a sequential id generator. Deterministic so tests can
// assert exact ids.
func counterID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("chapter-%d", n)
	}
}

// isTextDocument checks if a media type indicates an HTML-family content
// document. An empty media type is attempted anyway.
func isTextDocument(mediaType string) bool {
	return mediaType == "" || strings.Contains(mediaType, "html")
}
