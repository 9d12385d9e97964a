package clippings

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/mrlokans/kindle-library/internal/entities"
	"github.com/mrlokans/kindle-library/internal/exclusions"
)

const entrySeparator = "=========="

var (
	// Title with author: "Book Title (Author Name)".
	// Greedy prefix so the LAST parenthesized group wins when the title
	// itself contains parentheses, e.g. "Dune (Unabridged) (Frank Herbert)".
	titleAuthorPattern = regexp.MustCompile(`^(.*)\(([^()]+)\)[^()]*$`)

	// Embedded Amazon catalog token on the metadata line: "ASIN: B000FC1PJI"
	asinPattern = regexp.MustCompile(`ASIN:\s*([A-Z0-9]{10})`)
)

// ExclusionSource provides the exclusion sets applied during a parse.
// Both sets are loaded once per Parse call, so a parse sees a consistent
// snapshot of the ledgers.
type ExclusionSource interface {
	LoadExcludedBooks() map[string]struct{}
	LoadExcludedHighlights() map[string]struct{}
}

// Parser parses the Kindle "My Clippings.txt" export format and groups
// entries into books, minus exclusions.
type Parser struct {
	exclusions ExclusionSource
}

func NewParser(exclusions ExclusionSource) *Parser {
	return &Parser{exclusions: exclusions}
}

// ParseFile parses the clippings file at path. A missing or unreadable file
// yields an empty book list, not an error: the caller treats that as an
// empty library.
func (p *Parser) ParseFile(path string) []entities.Book {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("Error opening clippings file %s: %v", path, err)
		return []entities.Book{}
	}
	defer f.Close()

	books, err := p.Parse(f)
	if err != nil {
		log.Printf("Error parsing clippings file %s: %v", path, err)
		return []entities.Book{}
	}
	return books
}

// Parse reads the raw export and returns the books in first-seen order.
// First-seen order is an invariant the API relies on, not an accident of
// the underlying map: an explicit order slice tracks it.
func (p *Parser) Parse(r io.Reader) ([]entities.Book, error) {
	excludedBooks := p.exclusions.LoadExcludedBooks()
	excludedHighlights := p.exclusions.LoadExcludedHighlights()

	bookMap := make(map[string]*entities.Book)
	bookOrder := []string{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var currentLines []string
	processEntry := func() {
		if len(currentLines) == 0 {
			return
		}
		p.addEntry(currentLines, excludedBooks, excludedHighlights, bookMap, &bookOrder)
		currentLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == entrySeparator {
			processEntry()
			continue
		}
		currentLines = append(currentLines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading clippings: %w", err)
	}

	// Last entry when the file does not end with a separator
	processEntry()

	books := make([]entities.Book, 0, len(bookOrder))
	for _, key := range bookOrder {
		books = append(books, *bookMap[key])
	}
	return books, nil
}

// addEntry parses a single clipping and merges it into the accumulating
// book map. A malformed entry is skipped with a log line and never aborts
// the parse.
func (p *Parser) addEntry(lines []string, excludedBooks, excludedHighlights map[string]struct{}, bookMap map[string]*entities.Book, bookOrder *[]string) {
	lines = trimBlankLines(lines)
	if len(lines) < 4 {
		// Bookmarks and notes without quoted text have fewer lines
		return
	}

	title, author, err := parseTitleAuthor(lines[0])
	if err != nil {
		log.Printf("Skipping clipping entry: %v", err)
		return
	}

	bookKey := exclusions.Key(title, author)
	if _, excluded := excludedBooks[bookKey]; excluded {
		return
	}

	metadataLine := strings.TrimSpace(lines[1])
	highlightText := strings.TrimSpace(lines[3])

	book, exists := bookMap[bookKey]
	if !exists {
		book = &entities.Book{
			ID:         entities.BookID(title, author),
			Title:      title,
			Author:     author,
			AmazonID:   parseAmazonID(metadataLine),
			Highlights: []entities.Highlight{},
		}
		bookMap[bookKey] = book
		*bookOrder = append(*bookOrder, bookKey)
	}

	highlightKey := exclusions.Key(title, highlightText)
	if _, excluded := excludedHighlights[highlightKey]; excluded {
		// The book record stays; only this highlight is dropped
		return
	}

	book.Highlights = append(book.Highlights, entities.Highlight{
		ID:       entities.HighlightID(highlightText),
		Text:     highlightText,
		Metadata: cleanMetadata(metadataLine),
	})
}

func parseTitleAuthor(line string) (title, author string, err error) {
	line = strings.TrimSpace(line)
	matches := titleAuthorPattern.FindStringSubmatch(line)
	if len(matches) != 3 {
		return "", "", fmt.Errorf("no parenthesized author in title line %q", line)
	}
	return strings.TrimSpace(matches[1]), strings.TrimSpace(matches[2]), nil
}

func parseAmazonID(metadataLine string) string {
	matches := asinPattern.FindStringSubmatch(metadataLine)
	if len(matches) == 2 {
		return matches[1]
	}
	return ""
}

// cleanMetadata strips the boilerplate prefix from the metadata line,
// keeping the location and date part for display.
func cleanMetadata(line string) string {
	line = strings.TrimSpace(line)
	for _, prefix := range []string{"- Your Highlight on", "Your Highlight on"} {
		line = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimSpace(line)
}

func trimBlankLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
