package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kindle-library/internal/entities"
)

// failingStore simulates ledger write failures (disk full, permissions).
type failingStore struct{}

func (failingStore) ExcludeBook(title, author, reason string) error {
	return errors.New("disk full")
}

func (failingStore) ExcludeHighlight(bookTitle, highlightText string) error {
	return errors.New("disk full")
}

func (failingStore) ListExcludedBooks() ([]entities.ExcludedBook, error) {
	return nil, errors.New("unreadable ledger")
}

func (failingStore) ListExcludedHighlights() ([]entities.ExcludedHighlight, error) {
	return nil, errors.New("unreadable ledger")
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestExcludeBook_Success(t *testing.T) {
	router, store, _ := newTestServer(t)

	w := postJSON(router, "/api/exclude-book", `{"title":"1984","author":"George Orwell","reason":"finished"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	records, err := store.ListExcludedBooks()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1984", records[0].Title)
	assert.Equal(t, "finished", records[0].Reason)
}

func TestExcludeBook_RemovesBookFromLibrary(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := postJSON(router, "/api/exclude-book", `{"title":"1984","author":"George Orwell"}`)
	require.Equal(t, http.StatusOK, w.Code)

	books := getBooks(t, router)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestExcludeBook_MissingFields(t *testing.T) {
	router, _, _ := newTestServer(t)

	for _, body := range []string{
		`{"title":"1984"}`,
		`{"author":"George Orwell"}`,
		`{}`,
		`not json`,
	} {
		w := postJSON(router, "/api/exclude-book", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestExcludeHighlight_Success(t *testing.T) {
	router, store, _ := newTestServer(t)

	w := postJSON(router, "/api/exclude-highlight", `{"bookTitle":"Dune","highlightText":"Fear is the mind-killer"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	records, err := store.ListExcludedHighlights()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dune", records[0].BookTitle)
}

func TestExcludeHighlight_MissingFields(t *testing.T) {
	router, _, _ := newTestServer(t)

	for _, body := range []string{
		`{"bookTitle":"Dune"}`,
		`{"highlightText":"Fear is the mind-killer"}`,
		`{}`,
	} {
		w := postJSON(router, "/api/exclude-highlight", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestListExcludedBooks(t *testing.T) {
	router, store, _ := newTestServer(t)

	require.NoError(t, store.ExcludeBook("1984", "George Orwell", "finished"))
	require.NoError(t, store.ExcludeBook("Dune", "Frank Herbert", ""))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/excluded-books", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var records []entities.ExcludedBook
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "1984", records[0].Title)
	assert.Equal(t, "Dune", records[1].Title)
}

func TestListExcludedBooks_EmptyIsJSONArray(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/excluded-books", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListExcludedHighlights(t *testing.T) {
	router, store, _ := newTestServer(t)

	require.NoError(t, store.ExcludeHighlight("Dune", "Fear is the mind-killer"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/excluded-highlights", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var records []entities.ExcludedHighlight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Fear is the mind-killer", records[0].HighlightText)
}

func TestExclusionEndpoints_LedgerFailuresAreServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(RouterConfig{
		Assembler:      &stubAssembler{},
		ExclusionStore: failingStore{},
		Version:        "test",
	})

	w := postJSON(router, "/api/exclude-book", `{"title":"1984","author":"George Orwell"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = postJSON(router, "/api/exclude-highlight", `{"bookTitle":"Dune","highlightText":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/excluded-books", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
