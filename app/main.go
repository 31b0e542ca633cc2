package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mlevkov/mdfeed/app/api"
	"github.com/mlevkov/mdfeed/app/article"
	"github.com/mlevkov/mdfeed/app/book"
	"github.com/mlevkov/mdfeed/app/cache"
	"github.com/mlevkov/mdfeed/app/cfg"
	"github.com/mlevkov/mdfeed/app/feed"
)

func main() {
	// The mdBook hooks must answer before flag parsing: mdBook invokes
	// "mdfeed supports <renderer>" and "mdfeed --version" on its own terms.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "supports":
			// Feed files are plain sources for the HTML renderer, so every
			// renderer is supported.
			fmt.Println("true")
			return
		case "--version", "-V":
			fmt.Printf("mdfeed %s\n", cfg.GetVersion())
			return
		}
	}

	appCfg, rest, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdfeed: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if len(rest) > 0 && rest[0] == "serve" {
		runServe(appCfg)
		return
	}

	runPipeline(appCfg)
}

// runPipeline is the preprocessor mode: read [context, book] from stdin,
// write the feed files next to the chapters, echo the book to stdout.
func runPipeline(appCfg *cfg.Cfg) {
	in, err := book.Parse(os.Stdin)
	if err != nil {
		slog.Error("Failed to read preprocessor input", "error", err)
		os.Exit(1)
	}

	var store *cache.Store
	if appCfg.CachePath != "" {
		store, err = cache.Open(appCfg.CachePath)
		if err != nil {
			// A broken cache must not break the book build.
			slog.Warn("Preview cache unavailable, continuing without it", "path", appCfg.CachePath, "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	articles, err := article.Collect(in.SrcDir)
	if err != nil {
		slog.Error("Failed to collect chapters", "dir", in.SrcDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Collected chapters", "count", len(articles), "dir", in.SrcDir)

	builder := feed.NewBuilder(in.Channel, in.Options, appCfg.MinBodyChars, store)
	files, err := builder.Run(articles)
	if err != nil {
		slog.Error("Failed to generate feeds", "error", err)
		os.Exit(1)
	}

	for _, file := range files {
		path := filepath.Join(in.SrcDir, file.Name)
		if err := os.WriteFile(path, []byte(file.Data), 0o644); err != nil {
			slog.Error("Failed to write feed file", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("Wrote feed file", "path", path, "size", len(file.Data))
	}

	// Round-trip every generated document through a real feed parser. A
	// verification failure is logged, not fatal: the files are already on
	// disk and the book build should finish.
	if err := feed.NewVerifier().Run(files); err != nil {
		slog.Warn("Feed verification failed", "error", err)
	}

	if _, err := os.Stdout.Write(in.Book); err != nil {
		slog.Error("Failed to echo book to stdout", "error", err)
		os.Exit(1)
	}
}

// runServe exposes previously generated feed files over HTTP, mainly for
// checking output in a feed reader before publishing.
func runServe(appCfg *cfg.Cfg) {
	handler := api.NewHandler(appCfg.ServeDir, appCfg.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Serving feed files", "dir", appCfg.ServeDir, "port", appCfg.Port)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("HTTP server error", "error", err)
		os.Exit(1)
	}
}
