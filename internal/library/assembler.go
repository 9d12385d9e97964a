package library

import (
	"context"
	"sync"

	"github.com/mrlokans/kindle-library/internal/entities"
)

// CoversURLPrefix is the public path prefix under which cached cover
// images are served.
const CoversURLPrefix = "/covers/"

// BookParser produces the parsed, exclusion-filtered book list.
type BookParser interface {
	ParseFile(path string) []entities.Book
}

// CoverCache is the on-disk cover store fronting the resolver.
type CoverCache interface {
	Get(title, author string) (string, bool)
	Put(data []byte, title, author string) (string, bool)
}

// CoverResolver fetches cover bytes from remote sources; nil means absent.
type CoverResolver interface {
	ResolveCover(ctx context.Context, title, author, amazonID string) []byte
}

// Assembler orchestrates the parser and the cover cache/resolver pair into
// the final library view served by the API.
type Assembler struct {
	parser        BookParser
	cache         CoverCache
	resolver      CoverResolver
	clippingsPath string
}

func NewAssembler(parser BookParser, cache CoverCache, resolver CoverResolver, clippingsPath string) *Assembler {
	return &Assembler{
		parser:        parser,
		cache:         cache,
		resolver:      resolver,
		clippingsPath: clippingsPath,
	}
}

// Books parses the clippings file and attaches a cover reference to each
// book. Cover work fans out to one goroutine per book, since each is an
// independent time-bounded network operation, and the call returns only
// after every book has settled. A book whose whole resolution chain fails
// keeps an empty cover reference; it never affects the others.
func (a *Assembler) Books(ctx context.Context) []entities.Book {
	books := a.parser.ParseFile(a.clippingsPath)

	var wg sync.WaitGroup
	for i := range books {
		wg.Add(1)
		go func(book *entities.Book) {
			defer wg.Done()
			book.CoverImage = a.resolveCoverRef(ctx, book)
		}(&books[i])
	}
	wg.Wait()

	return books
}

func (a *Assembler) resolveCoverRef(ctx context.Context, book *entities.Book) string {
	if filename, ok := a.cache.Get(book.Title, book.Author); ok {
		return CoversURLPrefix + filename
	}

	data := a.resolver.ResolveCover(ctx, book.Title, book.Author, book.AmazonID)
	if data == nil {
		return ""
	}

	filename, ok := a.cache.Put(data, book.Title, book.Author)
	if !ok {
		return ""
	}
	return CoversURLPrefix + filename
}
