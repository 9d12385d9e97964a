package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Amazon serves product images under a handful of hosts; the same catalog
// id works on all of them, so each is tried in turn.
var defaultAmazonTemplates = []string{
	"https://images-na.ssl-images-amazon.com/images/P/%s.01.L.jpg",
	"https://m.media-amazon.com/images/P/%s.01.L.jpg",
	"https://images-amazon.com/images/P/%s.01.LZZZZZZZ.jpg",
}

const (
	defaultFetchTimeout = 5 * time.Second

	// Amazon answers unknown ids with a tiny placeholder image instead of
	// a 404; anything under this size is treated as a miss.
	defaultMinCoverBytes = 1000
)

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

// Resolver finds a cover image for a book through a prioritized chain of
// remote lookups: Amazon image templates by catalog id first, then an
// OpenLibrary title/author search. Every remote call is time-bounded and
// every failure is non-fatal; the only outcomes are bytes or nil.
type Resolver struct {
	httpClient      *http.Client
	amazonTemplates []string
	searchBaseURL   string
	coverBaseURL    string
	minCoverBytes   int
}

// NewResolver creates a resolver with the given per-request timeout and
// minimum acceptable body size. Zero values select the defaults.
func NewResolver(timeout time.Duration, minCoverBytes int) *Resolver {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if minCoverBytes <= 0 {
		minCoverBytes = defaultMinCoverBytes
	}

	return &Resolver{
		httpClient:      &http.Client{Timeout: timeout},
		amazonTemplates: defaultAmazonTemplates,
		searchBaseURL:   "https://openlibrary.org",
		coverBaseURL:    "https://covers.openlibrary.org",
		minCoverBytes:   minCoverBytes,
	}
}

// ResolveCover returns the cover image bytes for a book, or nil when every
// source in the chain comes up empty. It never returns an error: remote
// failures are logged and swallowed.
func (r *Resolver) ResolveCover(ctx context.Context, title, author, amazonID string) []byte {
	if amazonID != "" {
		if data := r.tryAmazon(ctx, amazonID); data != nil {
			return data
		}
	}

	return r.tryOpenLibrary(ctx, title, author)
}

// tryAmazon walks the image template URLs substituting the catalog id,
// short-circuiting on the first plausible image.
func (r *Resolver) tryAmazon(ctx context.Context, amazonID string) []byte {
	for _, template := range r.amazonTemplates {
		coverURL := fmt.Sprintf(template, amazonID)
		data, err := r.fetchImage(ctx, coverURL)
		if err != nil {
			log.Printf("Amazon cover attempt failed (%s): %v", coverURL, err)
			continue
		}
		log.Printf("Found Amazon cover: %s", coverURL)
		return data
	}
	return nil
}

// tryOpenLibrary searches OpenLibrary for the book and fetches the first
// result's full-size cover, if it has one.
func (r *Resolver) tryOpenLibrary(ctx context.Context, title, author string) []byte {
	query := url.QueryEscape(strings.TrimSpace(cleanQueryTerm(title) + " " + cleanQueryTerm(author)))
	searchURL := fmt.Sprintf("%s/search.json?q=%s", r.searchBaseURL, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		log.Printf("OpenLibrary request failed for %q: %v", title, err)
		return nil
	}
	req.Header.Set("User-Agent", "KindleLibrary/1.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Printf("OpenLibrary search failed for %q: %v", title, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("OpenLibrary search for %q returned status %d", title, resp.StatusCode)
		return nil
	}

	var result openLibrarySearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("OpenLibrary decode failed for %q: %v", title, err)
		return nil
	}

	if len(result.Docs) == 0 || result.Docs[0].CoverI == 0 {
		return nil
	}

	coverURL := fmt.Sprintf("%s/b/id/%d-L.jpg", r.coverBaseURL, result.Docs[0].CoverI)
	data, err := r.fetchImage(ctx, coverURL)
	if err != nil {
		log.Printf("OpenLibrary cover fetch failed for %q: %v", title, err)
		return nil
	}
	return data
}

// fetchImage downloads an image and rejects non-200 responses and bodies
// below the placeholder threshold.
func (r *Resolver) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "KindleLibrary/1.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(data) < r.minCoverBytes {
		return nil, fmt.Errorf("body too small (%d bytes), likely a placeholder", len(data))
	}

	return data, nil
}

// cleanQueryTerm strips punctuation so titles like "1984: A Novel" search well.
func cleanQueryTerm(s string) string {
	return strings.TrimSpace(punctuationPattern.ReplaceAllString(s, " "))
}

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	AuthorName []string `json:"author_name"`
	CoverI     int      `json:"cover_i"`
}
