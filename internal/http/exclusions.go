package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindle-library/internal/entities"
)

// ExclusionStore persists and lists exclusion decisions.
type ExclusionStore interface {
	ExcludeBook(title, author, reason string) error
	ExcludeHighlight(bookTitle, highlightText string) error
	ListExcludedBooks() ([]entities.ExcludedBook, error)
	ListExcludedHighlights() ([]entities.ExcludedHighlight, error)
}

type ExclusionsController struct {
	store ExclusionStore
}

func NewExclusionsController(store ExclusionStore) *ExclusionsController {
	return &ExclusionsController{store: store}
}

type excludeBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Reason string `json:"reason"`
}

type excludeHighlightRequest struct {
	BookTitle     string `json:"bookTitle"`
	HighlightText string `json:"highlightText"`
}

// ExcludeBook appends a book to the exclusion ledger.
// POST /api/exclude-book
func (controller *ExclusionsController) ExcludeBook(c *gin.Context) {
	var req excludeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Title == "" || req.Author == "" {
		respondBadRequest(c, "missing title or author")
		return
	}

	if err := controller.store.ExcludeBook(req.Title, req.Author, req.Reason); err != nil {
		respondInternalError(c, err, "exclude book")
		return
	}

	respondSuccess(c)
}

// ExcludeHighlight appends a single highlight to the exclusion ledger.
// POST /api/exclude-highlight
func (controller *ExclusionsController) ExcludeHighlight(c *gin.Context) {
	var req excludeHighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.BookTitle == "" || req.HighlightText == "" {
		respondBadRequest(c, "missing required fields")
		return
	}

	if err := controller.store.ExcludeHighlight(req.BookTitle, req.HighlightText); err != nil {
		respondInternalError(c, err, "exclude highlight")
		return
	}

	respondSuccess(c)
}

// ListExcludedBooks serves the book exclusion records in ledger order.
// GET /api/excluded-books
func (controller *ExclusionsController) ListExcludedBooks(c *gin.Context) {
	records, err := controller.store.ListExcludedBooks()
	if err != nil {
		respondInternalError(c, err, "list excluded books")
		return
	}
	if records == nil {
		records = []entities.ExcludedBook{}
	}
	c.JSON(http.StatusOK, records)
}

// ListExcludedHighlights serves the highlight exclusion records in ledger order.
// GET /api/excluded-highlights
func (controller *ExclusionsController) ListExcludedHighlights(c *gin.Context) {
	records, err := controller.store.ListExcludedHighlights()
	if err != nil {
		respondInternalError(c, err, "list excluded highlights")
		return
	}
	if records == nil {
		records = []entities.ExcludedHighlight{}
	}
	c.JSON(http.StatusOK, records)
}
