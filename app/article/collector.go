package article

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Collect walks srcDir recursively and returns every eligible chapter sorted
// by resolved date, newest first. Ties keep their discovery order. A missing
// or unreadable root is fatal; individual unreadable files are skipped so a
// single bad chapter never aborts the run.
func Collect(srcDir string) ([]Article, error) {
	var articles []Article

	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == srcDir {
				return err
			}
			slog.Warn("Skipping unreadable path", "path", p, "error", err)
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !eligible(d.Name()) {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			slog.Warn("Skipping unreadable chapter", "path", p, "error", err)
			return nil
		}

		modTime := time.Now().UTC()
		if info, err := d.Info(); err == nil {
			modTime = info.ModTime().UTC()
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			rel = p
		}
		rel = filepath.ToSlash(rel)

		meta, body := Resolve(string(data), rel, modTime)

		articles = append(articles, Article{
			Path: rel,
			Body: body,
			Meta: meta,
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source directory %s: %w", srcDir, err)
	}

	// Newest first; the stable sort keeps discovery order for equal dates.
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Meta.Date.After(articles[j].Meta.Date)
	})

	slog.Debug("Collected chapters", "dir", srcDir, "count", len(articles))

	return articles, nil
}

// eligible reports whether a file name belongs in the feed: Markdown
// extension, and not the auto-generated mdBook navigation file.
func eligible(name string) bool {
	if strings.EqualFold(name, "SUMMARY.md") {
		return false
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}
