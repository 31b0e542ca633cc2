package feed

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mlevkov/mdfeed/app/article"
	"github.com/mlevkov/mdfeed/app/cache"
)

func makeArticle(path, title, body string, published time.Time) article.Article {
	return article.Article{
		Path: path,
		Body: body,
		Meta: article.Metadata{
			Title: title,
			Date:  published,
		},
	}
}

func TestBuilderSinglePost(t *testing.T) {
	builder := NewBuilder(testChannel, Options{}, 0, nil)

	articles := []article.Article{
		makeArticle("posts/a.md", "Post A", "# Post A\n\nHello world.\n", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	files, err := builder.Run(articles)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("Expected 1 output file, got %d", len(files))
	}
	if files[0].Name != "rss.xml" {
		t.Errorf("Expected rss.xml, got %s", files[0].Name)
	}

	output := string(files[0].Data)
	checks := []string{
		"<title>Post A</title>",
		"<link>https://example.com/posts/a.html</link>",
		"<description><![CDATA[<p>Hello world.</p>]]></description>",
		"<pubDate>Wed, 01 Jan 2025 00:00:00 +0000</pubDate>",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("Expected output to contain %q", check)
		}
	}
}

func TestBuilderSummaryPreferredForThinBody(t *testing.T) {
	builder := NewBuilder(testChannel, Options{}, 0, nil)

	a := makeArticle("note.md", "Note", "", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	a.Meta.Summary = "Custom summary."
	a.Meta.HasSummary = true

	files, err := builder.Run([]article.Article{a})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(string(files[0].Data), "<p>Custom summary.</p>") {
		t.Error("Expected the preview to come from the description")
	}
}

func TestBuilderChapterLinks(t *testing.T) {
	tests := []struct {
		name     string
		siteURL  string
		path     string
		expected string
	}{
		{"plain chapter", "https://example.com/", "posts/a.md", "https://example.com/posts/a.html"},
		{"no trailing slash", "https://example.com", "posts/a.md", "https://example.com/posts/a.html"},
		{"markdown extension variant", "https://example.com/", "posts/b.markdown", "https://example.com/posts/b.html"},
		{"root readme", "https://example.com/", "README.md", "https://example.com/index.html"},
		{"nested readme", "https://example.com/", "guide/README.md", "https://example.com/guide/index.html"},
		{"readme-like name kept", "https://example.com/", "READMEs.md", "https://example.com/READMEs.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder(Channel{SiteURL: tt.siteURL}, Options{}, 0, nil)
			if got := builder.chapterLink(tt.path); got != tt.expected {
				t.Errorf("chapterLink(%q) = %q, expected %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestBuilderPaginatedAllFormats(t *testing.T) {
	builder := NewBuilder(testChannel, Options{
		Paginated: true,
		MaxItems:  2,
		EmitAtom:  true,
		EmitJSON:  true,
	}, 0, nil)

	articles := make([]article.Article, 5)
	for i := range articles {
		articles[i] = makeArticle(
			fmt.Sprintf("posts/p%d.md", i),
			fmt.Sprintf("Post %d", i),
			fmt.Sprintf("Body of post %d.", i),
			time.Date(2024, 1, 10-i, 0, 0, 0, 0, time.UTC),
		)
	}

	files, err := builder.Run(articles)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{
		"rss.xml", "rss2.xml", "rss3.xml",
		"atom.xml", "atom2.xml", "atom3.xml",
		"feed.json", "feed2.json", "feed3.json",
	}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %d", len(expected), len(files))
	}
	for i, name := range expected {
		if files[i].Name != name {
			t.Errorf("File %d: expected %s, got %s", i, name, files[i].Name)
		}
	}

	byName := make(map[string]string, len(files))
	for _, f := range files {
		byName[f.Name] = string(f.Data)
	}

	// Page 2 points its JSON readers at page 3; the last page points nowhere.
	var page2 JSONFeed
	if err := json.Unmarshal([]byte(byName["feed2.json"]), &page2); err != nil {
		t.Fatalf("feed2.json failed to parse: %v", err)
	}
	if page2.NextURL != "https://example.com/feed3.json" {
		t.Errorf("Expected feed2.json next_url to point at feed3.json, got %q", page2.NextURL)
	}

	var page3 JSONFeed
	if err := json.Unmarshal([]byte(byName["feed3.json"]), &page3); err != nil {
		t.Fatalf("feed3.json failed to parse: %v", err)
	}
	if page3.NextURL != "" {
		t.Errorf("Expected no next_url on the last page, got %q", page3.NextURL)
	}
	if len(page3.Items) != 1 {
		t.Errorf("Expected 1 item on the last page, got %d", len(page3.Items))
	}

	// Page 1 holds the two newest posts in every format.
	if !strings.Contains(byName["rss.xml"], "<title>Post 0</title>") ||
		!strings.Contains(byName["rss.xml"], "<title>Post 1</title>") {
		t.Error("Expected the newest posts on RSS page 1")
	}
	if strings.Contains(byName["rss.xml"], "<title>Post 2</title>") {
		t.Error("Expected page 1 to hold only the first two posts")
	}

	if err := NewVerifier().Run(files); err != nil {
		t.Errorf("Expected all generated documents to verify, got: %v", err)
	}
}

func TestBuilderConsistentIdentifiersAcrossFormats(t *testing.T) {
	builder := NewBuilder(testChannel, Options{EmitAtom: true, EmitJSON: true}, 0, nil)

	files, err := builder.Run([]article.Article{
		makeArticle("posts/a.md", "Post A", "Hello world.", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	link := "https://example.com/posts/a.html"
	for _, f := range files {
		if !strings.Contains(string(f.Data), link) {
			t.Errorf("%s: expected the chapter link %q", f.Name, link)
		}
	}
}

func TestBuilderFullPreviewUnbounded(t *testing.T) {
	builder := NewBuilder(testChannel, Options{FullPreview: true}, 0, nil)

	var body strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&body, "Paragraph number %d with some filler text.\n\n", i)
	}

	files, err := builder.Run([]article.Article{
		makeArticle("long.md", "Long", body.String(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	output := string(files[0].Data)
	if !strings.Contains(output, "Paragraph number 199") {
		t.Error("Expected full-content mode to keep the whole body")
	}
}

func TestBuilderUsesPreviewCache(t *testing.T) {
	store, err := cache.Open(filepath.Join(t.TempDir(), "previews.db"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	defer store.Close()

	builder := NewBuilder(testChannel, Options{}, 0, store)

	articles := []article.Article{
		makeArticle("a.md", "A", "First body.", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		makeArticle("b.md", "B", "Second body.", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	first, err := builder.Run(articles)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 cached previews, got %d", count)
	}

	// A second run is served from the cache and produces identical output.
	second, err := builder.Run(articles)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(first[0].Data) != string(second[0].Data) {
		t.Error("Expected cached run to produce identical output")
	}
}
