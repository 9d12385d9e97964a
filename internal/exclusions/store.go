package exclusions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/kindle-library/internal/entities"
)

const (
	booksLedgerName      = "exclude.csv"
	highlightsLedgerName = "excluded-clippings.csv"
)

var (
	booksHeader      = []string{"title", "author", "reason"}
	highlightsHeader = []string{"book_title", "highlight_text"}
)

// Store persists exclusion decisions in two append-only CSV ledgers:
// one for whole books, one for individual highlights. Rows are only ever
// appended; "un-excluding" is not supported.
type Store struct {
	booksPath      string
	highlightsPath string
}

// NewStore creates a store backed by ledgers inside dataDir. The directory
// is created if missing.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &Store{
		booksPath:      filepath.Join(dataDir, booksLedgerName),
		highlightsPath: filepath.Join(dataDir, highlightsLedgerName),
	}, nil
}

// Key builds the normalized lookup key for a pair of ledger fields.
// Normalization (lower-case, trimmed) is the single definition of
// "is X excluded" and the parser applies the same rule.
func Key(a, b string) string {
	return strings.ToLower(strings.TrimSpace(a)) + "|" + strings.ToLower(strings.TrimSpace(b))
}

// LoadExcludedBooks returns the set of normalized title|author keys.
// A missing ledger is created with its header row and yields an empty set.
func (s *Store) LoadExcludedBooks() map[string]struct{} {
	return s.loadKeys(s.booksPath, booksHeader)
}

// LoadExcludedHighlights returns the set of normalized
// bookTitle|highlightText keys.
func (s *Store) LoadExcludedHighlights() map[string]struct{} {
	return s.loadKeys(s.highlightsPath, highlightsHeader)
}

func (s *Store) loadKeys(path string, header []string) map[string]struct{} {
	keys := make(map[string]struct{})

	rows, err := s.readLedger(path, header)
	if err != nil {
		log.Printf("WARNING: could not read ledger %s: %v", path, err)
		return keys
	}

	for _, row := range rows {
		keys[Key(row[0], row[1])] = struct{}{}
	}

	return keys
}

// ExcludeBook appends one row to the book ledger. The in-memory view is
// never updated speculatively: a failed write excludes nothing.
func (s *Store) ExcludeBook(title, author, reason string) error {
	return s.appendRow(s.booksPath, booksHeader, []string{
		strings.TrimSpace(title),
		strings.TrimSpace(author),
		strings.TrimSpace(reason),
	})
}

// ExcludeHighlight appends one row to the highlight ledger.
func (s *Store) ExcludeHighlight(bookTitle, highlightText string) error {
	return s.appendRow(s.highlightsPath, highlightsHeader, []string{
		strings.TrimSpace(bookTitle),
		strings.TrimSpace(highlightText),
	})
}

// ListExcludedBooks returns the book exclusion records in ledger order.
func (s *Store) ListExcludedBooks() ([]entities.ExcludedBook, error) {
	rows, err := s.readLedger(s.booksPath, booksHeader)
	if err != nil {
		return nil, err
	}

	records := make([]entities.ExcludedBook, 0, len(rows))
	for _, row := range rows {
		record := entities.ExcludedBook{Title: row[0], Author: row[1]}
		if len(row) > 2 {
			record.Reason = row[2]
		}
		records = append(records, record)
	}
	return records, nil
}

// ListExcludedHighlights returns the highlight exclusion records in ledger order.
func (s *Store) ListExcludedHighlights() ([]entities.ExcludedHighlight, error) {
	rows, err := s.readLedger(s.highlightsPath, highlightsHeader)
	if err != nil {
		return nil, err
	}

	records := make([]entities.ExcludedHighlight, 0, len(rows))
	for _, row := range rows {
		records = append(records, entities.ExcludedHighlight{
			BookTitle:     row[0],
			HighlightText: row[1],
		})
	}
	return records, nil
}

// readLedger reads all data rows of a ledger, creating the file with its
// header row when absent. Malformed rows are skipped with a warning, never
// fatal.
func (s *Store) readLedger(path string, header []string) ([][]string, error) {
	if err := s.ensureLedger(path, header); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ledger rows may carry optional columns
	reader.TrimLeadingSpace = true

	var rows [][]string
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Printf("WARNING: skipping malformed row in %s: %v", path, err)
				continue
			}
			return nil, fmt.Errorf("read ledger: %w", err)
		}

		if first {
			first = false
			continue // header row
		}

		if len(row) < 2 {
			log.Printf("WARNING: skipping short row in %s: %q", path, row)
			continue
		}

		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *Store) ensureLedger(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat ledger: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("create ledger: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	writer.Flush()

	log.Printf("Created ledger: %s", path)
	return writer.Error()
}

func (s *Store) appendRow(path string, header, row []string) error {
	if err := s.ensureLedger(path, header); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush ledger row: %w", err)
	}
	return nil
}
