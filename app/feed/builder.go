package feed

import (
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/mlevkov/mdfeed/app/article"
	"github.com/mlevkov/mdfeed/app/cache"
	"github.com/mlevkov/mdfeed/app/preview"
)

// previewWorkers bounds the pool that renders chapter previews. Each chapter
// is independent, so the only ordering that matters is the already-sorted
// input slice, which indexed writes preserve.
const previewWorkers = 4

// Builder turns the sorted chapter list into serialized feed documents, one
// per page and enabled format. The preview for each chapter is computed once
// and shared by every renderer.
type Builder struct {
	channel      Channel
	options      Options
	minBodyChars int
	extractor    *preview.Extractor
	store        *cache.Store
}

// NewBuilder creates a builder for one run. store may be nil, which disables
// the preview cache.
func NewBuilder(channel Channel, options Options, minBodyChars int, store *cache.Store) *Builder {
	if minBodyChars <= 0 {
		minBodyChars = preview.DefaultMinBodyChars
	}

	return &Builder{
		channel:      channel,
		options:      options,
		minBodyChars: minBodyChars,
		extractor:    preview.NewExtractor(minBodyChars, options.FullPreview),
		store:        store,
	}
}

// Run produces the ordered list of output files: every RSS page, then every
// Atom page when enabled, then every JSON Feed page when enabled.
func (b *Builder) Run(articles []article.Article) ([]OutputFile, error) {
	entries := b.buildEntries(articles)
	pages := Plan(entries, b.options.Paginated, b.options.MaxItems)

	slog.Debug("Planned feed pages", "entries", len(entries), "pages", len(pages))

	var files []OutputFile

	rss := NewRSSGenerator()
	for _, page := range pages {
		doc, err := rss.Run(b.channel, page)
		if err != nil {
			return nil, fmt.Errorf("failed to generate RSS page %d: %w", page.Index, err)
		}
		files = append(files, OutputFile{Name: FileName("rss", ".xml", page.Index), Data: []byte(doc)})
	}

	if b.options.EmitAtom {
		atom := NewAtomGenerator()
		for _, page := range pages {
			doc, err := atom.Run(b.channel, page)
			if err != nil {
				return nil, fmt.Errorf("failed to generate Atom page %d: %w", page.Index, err)
			}
			files = append(files, OutputFile{Name: FileName("atom", ".xml", page.Index), Data: []byte(doc)})
		}
	}

	if b.options.EmitJSON {
		jsonGen := NewJSONGenerator()
		for _, page := range pages {
			doc, err := jsonGen.Run(b.channel, page)
			if err != nil {
				return nil, fmt.Errorf("failed to generate JSON page %d: %w", page.Index, err)
			}
			files = append(files, OutputFile{Name: FileName("feed", ".json", page.Index), Data: []byte(doc)})
		}
	}

	return files, nil
}

func (b *Builder) buildEntries(articles []article.Article) []Entry {
	entries := make([]Entry, len(articles))

	workers := previewWorkers
	if len(articles) < workers {
		workers = len(articles)
	}
	if workers <= 1 {
		for i := range articles {
			entries[i] = b.buildEntry(articles[i])
		}
		return entries
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entries[i] = b.buildEntry(articles[i])
			}
		}()
	}
	for i := range articles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return entries
}

func (b *Builder) buildEntry(a article.Article) Entry {
	return Entry{
		Title:     a.Meta.Title,
		Link:      b.chapterLink(a.Path),
		Preview:   b.chapterPreview(a),
		Author:    a.Meta.Author,
		Published: a.Meta.Date,
	}
}

func (b *Builder) chapterPreview(a article.Article) string {
	if b.store == nil {
		return b.extractor.Run(a.Body, a.Meta.Summary, a.Meta.HasSummary)
	}

	key := cache.Key(a.Body, a.Meta.Summary, a.Meta.HasSummary, b.options.FullPreview, b.minBodyChars)

	if cached, ok, err := b.store.Get(key); err != nil {
		slog.Warn("Preview cache read failed", "path", a.Path, "error", err)
	} else if ok {
		return cached
	}

	rendered := b.extractor.Run(a.Body, a.Meta.Summary, a.Meta.HasSummary)

	if err := b.store.Put(key, rendered); err != nil {
		slog.Warn("Preview cache write failed", "path", a.Path, "error", err)
	}

	return rendered
}

// chapterLink derives the public URL of a chapter: extension swapped to
// .html, README pages rewritten to index.html, base URL without a trailing
// slash.
func (b *Builder) chapterLink(relPath string) string {
	base := strings.TrimRight(b.channel.SiteURL, "/")

	ext := path.Ext(relPath)
	htmlPath := strings.TrimSuffix(relPath, ext) + ".html"

	if htmlPath == "README.html" {
		htmlPath = "index.html"
	} else if strings.HasSuffix(htmlPath, "/README.html") {
		htmlPath = strings.TrimSuffix(htmlPath, "/README.html") + "/index.html"
	}

	return base + "/" + htmlPath
}
