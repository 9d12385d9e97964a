package entities

import (
	"crypto/md5"
	"encoding/hex"
)

// Book groups the highlights taken from a single title. The ID is derived
// from title and author, so the same book keeps the same ID across re-parses.
type Book struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Author     string      `json:"author"`
	AmazonID   string      `json:"amazonId,omitempty"`
	CoverImage string      `json:"cover_image"`
	Highlights []Highlight `json:"highlights"`
}

// Highlight is a single quoted passage. The ID depends on the text alone:
// the same passage always maps to the same ID, which keeps exclusion by ID
// stable across re-parses.
type Highlight struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Metadata string `json:"metadata"`
}

// ExcludedBook is one row of the book exclusion ledger.
type ExcludedBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Reason string `json:"reason,omitempty"`
}

// ExcludedHighlight is one row of the highlight exclusion ledger.
type ExcludedHighlight struct {
	BookTitle     string `json:"book_title"`
	HighlightText string `json:"highlight_text"`
}

// BookID returns the deterministic ID for a (title, author) pair.
func BookID(title, author string) string {
	sum := md5.Sum([]byte(title + author))
	return hex.EncodeToString(sum[:])
}

// HighlightID returns the deterministic ID for a highlight's text.
func HighlightID(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
