package extract

import "github.com/yuhara/epubprobe/internal/epub"

// Default strings substituted for metadata fields the package document
// left unset. They are applied uniformly at assembly time so no result
// field is ever empty.
const (
	DefaultTitle     = "Unknown Title"
	DefaultAuthor    = "Unknown Author"
	DefaultPublisher = "Unknown Publisher"
	DefaultDate      = "Unknown Date"
	DefaultLanguage  = "Unknown Language"
)

// BookMeta is the normalized book metadata of a parse result.
type BookMeta struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Date      string `json:"date"`
	Language  string `json:"language"`
}

// Result is the final output of a parse. It is built once and never
// mutated afterwards.
type Result struct {
	BookMeta     BookMeta  `json:"bookMeta"`
	ChapterCount int       `json:"chapterCount"`
	Chapters     []Chapter `json:"chapters"`
	Warnings     []string  `json:"warnings,omitempty"`
}

// Assemble merges metadata and chapter records into a Result, applying
// the default-substitution policy. Inputs are copied, not retained.
func Assemble(md epub.Metadata, chapters []Chapter, warnings []string) *Result {
	return &Result{
		BookMeta: BookMeta{
			Title:     orDefault(md.Title, DefaultTitle),
			Author:    orDefault(md.Creator, DefaultAuthor),
			Publisher: orDefault(md.Publisher, DefaultPublisher),
			Date:      orDefault(md.Date, DefaultDate),
			Language:  orDefault(md.Language, DefaultLanguage),
		},
		ChapterCount: len(chapters),
		Chapters:     append([]Chapter(nil), chapters...),
		Warnings:     append([]string(nil), warnings...),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
