package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindle-library/internal/clippings"
	"github.com/mrlokans/kindle-library/internal/config"
	"github.com/mrlokans/kindle-library/internal/covers"
	"github.com/mrlokans/kindle-library/internal/exclusions"
	http_controllers "github.com/mrlokans/kindle-library/internal/http"
	"github.com/mrlokans/kindle-library/internal/library"
)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the exclusion store, parser, cover cache/resolver and library
// assembler behind the HTTP facade and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Kindle Library v%s", version)

	store, err := exclusions.NewStore(cfg.Library.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize exclusion store: %v", err)
	}

	coverCache, err := covers.NewCache(cfg.Library.CoversDir)
	if err != nil {
		log.Fatalf("Failed to initialize cover cache: %v", err)
	}
	log.Printf("Cover cache initialized at %s", cfg.Library.CoversDir)

	resolver := covers.NewResolver(cfg.Covers.FetchTimeout, cfg.Covers.MinBytes)
	parser := clippings.NewParser(store)

	clippingsPath := filepath.Join(cfg.Library.DataDir, cfg.Library.ClippingsFile)
	if _, err := os.Stat(clippingsPath); os.IsNotExist(err) {
		log.Printf("WARNING: clippings file %s does not exist; the library will be empty until it appears", clippingsPath)
	}

	assembler := library.NewAssembler(parser, coverCache, resolver, clippingsPath)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Assembler:      assembler,
		ExclusionStore: store,
		CoversDir:      coverCache.CacheDir(),
		StaticPath:     cfg.Library.StaticPath,
		Version:        version,
	})

	Serve(router, cfg)
}
