package http

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries the router's dependencies. A struct keeps the
// constructor signature stable as collaborators are added.
type RouterConfig struct {
	Assembler      BookAssembler
	ExclusionStore ExclusionStore
	CoversDir      string
	StaticPath     string
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())

	health := NewHealthController(cfg.Version)
	books := NewBooksController(cfg.Assembler)
	exclusionsController := NewExclusionsController(cfg.ExclusionStore)

	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	{
		api.GET("/books", books.GetBooks)
		api.POST("/exclude-book", exclusionsController.ExcludeBook)
		api.GET("/excluded-books", exclusionsController.ListExcludedBooks)
		api.POST("/exclude-highlight", exclusionsController.ExcludeHighlight)
		api.GET("/excluded-highlights", exclusionsController.ListExcludedHighlights)
	}

	// Cached cover images, served under the prefix the assembler bakes
	// into each book's cover reference
	if cfg.CoversDir != "" {
		router.Static("/covers", cfg.CoversDir)
	}

	// Browser UI
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
		router.StaticFile("/", filepath.Join(cfg.StaticPath, "index.html"))
	}

	return router
}
