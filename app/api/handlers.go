package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// feedFilePattern matches the names the builder produces: rss.xml, rss2.xml,
// atom.xml, atom3.xml, feed.json, feed2.json, and so on. Anything else is
// refused so the server never exposes arbitrary files.
var feedFilePattern = regexp.MustCompile(`^(rss|atom)[0-9]*\.xml$|^feed[0-9]*\.json$`)

func NewHandler(dir, version string) *Handler {
	return &Handler{
		dir:     dir,
		version: version,
	}
}

func (h *Handler) GetFeedFile(c *gin.Context) {
	name := c.Param("name")
	if !feedFilePattern.MatchString(name) {
		c.Status(http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(filepath.Join(h.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("Failed to read feed file", "file", name, "error", err)
		}
		c.Status(http.StatusNotFound)
		return
	}

	c.Data(http.StatusOK, contentTypeFor(name), data)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if names, err := h.listFeedFiles(); err == nil {
		health["feed_files"] = names
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetIndex(c *gin.Context) {
	names, err := h.listFeedFiles()
	if err != nil {
		slog.Error("Failed to list feed files", "dir", h.dir, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service": "mdfeed",
		"version": h.version,
		"feeds":   names,
	})
}

func (h *Handler) listFeedFiles() ([]string, error) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && feedFilePattern.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func contentTypeFor(name string) string {
	switch {
	case filepath.Ext(name) == ".json":
		return "application/feed+json; charset=utf-8"
	case name[:4] == "atom":
		return "application/atom+xml; charset=utf-8"
	default:
		return "application/rss+xml; charset=utf-8"
	}
}
