package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindle-library/internal/entities"
)

// BookAssembler produces the full library view: parsed books with their
// cover references attached.
type BookAssembler interface {
	Books(ctx context.Context) []entities.Book
}

type BooksController struct {
	assembler BookAssembler
}

func NewBooksController(assembler BookAssembler) *BooksController {
	return &BooksController{assembler: assembler}
}

// GetBooks serves the assembled book list.
// GET /api/books
//
// A missing clippings file surfaces as an empty list, not an error.
func (controller *BooksController) GetBooks(c *gin.Context) {
	books := controller.assembler.Books(c.Request.Context())
	c.JSON(http.StatusOK, books)
}
