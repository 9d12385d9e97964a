package covers

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Cache is a content-addressed on-disk store of cover images, keyed by a
// hash of (title, author). Entries are immutable once written, so the same
// book never triggers a second remote fetch across restarts.
type Cache struct {
	cacheDir string
}

// NewCache creates a cover cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{cacheDir: cacheDir}, nil
}

// Filename returns the deterministic cache filename for a book.
func Filename(title, author string) string {
	hash := md5.Sum([]byte(title + author))
	return hex.EncodeToString(hash[:]) + ".jpg"
}

// Get returns the cached filename for a book if a cache entry exists.
// Existence is checked with a stat only; the image bytes are not validated.
func (c *Cache) Get(title, author string) (string, bool) {
	filename := Filename(title, author)
	if _, err := os.Stat(filepath.Join(c.cacheDir, filename)); err != nil {
		return "", false
	}
	return filename, true
}

// Put stores cover bytes for a book and returns the cache filename.
// Write failures are logged and reported as absent, never fatal: the
// caller simply serves the book without a cover.
func (c *Cache) Put(data []byte, title, author string) (string, bool) {
	filename := Filename(title, author)
	cachePath := filepath.Join(c.cacheDir, filename)

	tmpFile, err := os.CreateTemp(c.cacheDir, "cover_tmp_")
	if err != nil {
		log.Printf("Error creating temp cover file for %q: %v", title, err)
		return "", false
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		log.Printf("Error writing cover for %q: %v", title, err)
		return "", false
	}
	if err := tmpFile.Close(); err != nil {
		log.Printf("Error closing cover file for %q: %v", title, err)
		return "", false
	}

	if err := os.Rename(tmpPath, cachePath); err != nil {
		log.Printf("Error saving cover for %q: %v", title, err)
		return "", false
	}

	return filename, true
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}
