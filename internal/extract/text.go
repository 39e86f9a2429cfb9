package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipTags is the set of tags whose content is dropped during stripping.
// head covers title, meta, and style blocks; chapter text lives in body.
var skipTags = map[atom.Atom]bool{
	atom.Head:   true,
	atom.Title:  true,
	atom.Script: true,
	atom.Style:  true,
}

// StripMarkup removes all markup from an HTML/XHTML document and returns
// the plain text with whitespace runs collapsed to single spaces. Tags
// collapse to nothing; head, script, and style content is dropped. Entity
// decoding is limited to what the tokenizer performs natively.
//
// Stripping is idempotent for text whose decoded form is free of
// markup-like characters. Entities are decoded exactly once: an escaped
// tag such as &lt;b&gt; decodes to a literal <b>, which a second pass
// would consume as markup. Callers must not strip the same content
// twice.
func StripMarkup(data []byte) string {
	z := html.NewTokenizer(bytes.NewReader(data))

	var buf strings.Builder
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// The only error a bytes source produces is EOF.
			return strings.Join(strings.Fields(buf.String()), " ")

		case html.StartTagToken:
			name, _ := z.TagName()
			if skipTags[atom.Lookup(name)] {
				skipDepth++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if skipTags[atom.Lookup(name)] && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			// Tags collapse to nothing: text on either side of a tag is
			// concatenated verbatim so inline markup never splits a word.
			buf.Write(z.Text())
		}
	}
}

// documentTitle returns the trimmed text of the document's <title>
// element, or "" when the document has none.
func documentTitle(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	title := doc.Find("title").First().Text()
	return strings.Join(strings.Fields(title), " ")
}
