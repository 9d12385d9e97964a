package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kindle-library/internal/clippings"
	"github.com/mrlokans/kindle-library/internal/covers"
	"github.com/mrlokans/kindle-library/internal/entities"
	"github.com/mrlokans/kindle-library/internal/exclusions"
	"github.com/mrlokans/kindle-library/internal/library"
)

type stubAssembler struct {
	books []entities.Book
}

func (s *stubAssembler) Books(ctx context.Context) []entities.Book {
	return s.books
}

type nilResolver struct{}

func (nilResolver) ResolveCover(ctx context.Context, title, author, amazonID string) []byte {
	return nil
}

const testClippings = `Dune (Frank Herbert)
- Your Highlight on page 8 | Location 64-64 | Added on Tuesday, April 15, 2025 10:16:21 PM

Fear is the mind-killer
==========
1984 (George Orwell)
- Your Highlight at location 120-121 | Added on Saturday, 26 March 2016 18:37:26

War is peace
==========
`

// newTestServer wires the real parser, store, cache and assembler behind
// the router, with cover resolution stubbed out.
func newTestServer(t *testing.T) (*gin.Engine, *exclusions.Store, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	clippingsPath := filepath.Join(dataDir, "My Clippings.txt")
	require.NoError(t, os.WriteFile(clippingsPath, []byte(testClippings), 0644))

	store, err := exclusions.NewStore(dataDir)
	require.NoError(t, err)

	cache, err := covers.NewCache(filepath.Join(dataDir, "covers"))
	require.NoError(t, err)

	parser := clippings.NewParser(store)
	assembler := library.NewAssembler(parser, cache, nilResolver{}, clippingsPath)

	router := NewRouter(RouterConfig{
		Assembler:      assembler,
		ExclusionStore: store,
		Version:        "test",
	})
	return router, store, dataDir
}

func getBooks(t *testing.T, router *gin.Engine) []entities.Book {
	t.Helper()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/books", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var books []entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	return books
}

func TestGetBooks_ReturnsParsedLibrary(t *testing.T) {
	router, _, _ := newTestServer(t)

	books := getBooks(t, router)

	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Frank Herbert", books[0].Author)
	require.Len(t, books[0].Highlights, 1)
	assert.Equal(t, "Fear is the mind-killer", books[0].Highlights[0].Text)
	assert.Equal(t, "1984", books[1].Title)
}

func TestGetBooks_ExcludedBookDisappears(t *testing.T) {
	router, store, _ := newTestServer(t)

	require.NoError(t, store.ExcludeBook("1984", "george orwell", ""))

	books := getBooks(t, router)

	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	require.Len(t, books[0].Highlights, 1)
}

func TestGetBooks_ExcludedHighlightLeavesBook(t *testing.T) {
	router, store, _ := newTestServer(t)

	require.NoError(t, store.ExcludeHighlight("dune", "fear is the mind-killer"))

	books := getBooks(t, router)

	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Empty(t, books[0].Highlights)
}

func TestGetBooks_MissingClippingsFileIsEmptyList(t *testing.T) {
	router, _, dataDir := newTestServer(t)

	require.NoError(t, os.Remove(filepath.Join(dataDir, "My Clippings.txt")))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/books", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetBooks_CoverAbsentOnTotalMiss(t *testing.T) {
	router, _, _ := newTestServer(t)

	books := getBooks(t, router)

	require.Len(t, books, 2)
	for _, book := range books {
		assert.Empty(t, book.CoverImage)
	}
}

func TestGetBooks_SerializesExpectedFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := NewRouter(RouterConfig{
		Assembler: &stubAssembler{books: []entities.Book{
			{
				ID:         "book-id",
				Title:      "Dune",
				Author:     "Frank Herbert",
				AmazonID:   "B000FC1PJI",
				CoverImage: "/covers/abc.jpg",
				Highlights: []entities.Highlight{
					{ID: "hl-id", Text: "Fear is the mind-killer", Metadata: "page 8"},
				},
			},
		}},
		ExclusionStore: &failingStore{},
		Version:        "test",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/books", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var payload []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload, 1)

	book := payload[0]
	assert.Equal(t, "book-id", book["id"])
	assert.Equal(t, "B000FC1PJI", book["amazonId"])
	assert.Equal(t, "/covers/abc.jpg", book["cover_image"])

	highlights, ok := book["highlights"].([]any)
	require.True(t, ok)
	require.Len(t, highlights, 1)
	highlight := highlights[0].(map[string]any)
	assert.Equal(t, "hl-id", highlight["id"])
	assert.Equal(t, "page 8", highlight["metadata"])
}

func TestHealthAndPing(t *testing.T) {
	router, _, _ := newTestServer(t)

	for _, path := range []string{"/health", "/ping"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestCORSHeaders(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
