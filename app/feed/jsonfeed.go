package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const jsonFeedVersion = "https://jsonfeed.org/version/1.1"

type JSONFeed struct {
	Version     string         `json:"version"`
	Title       string         `json:"title"`
	HomePageURL string         `json:"home_page_url,omitempty"`
	FeedURL     string         `json:"feed_url,omitempty"`
	Description string         `json:"description,omitempty"`
	NextURL     string         `json:"next_url,omitempty"`
	Items       []JSONFeedItem `json:"items"`
}

type JSONFeedItem struct {
	ID            string          `json:"id"`
	URL           string          `json:"url,omitempty"`
	Title         string          `json:"title,omitempty"`
	ContentHTML   string          `json:"content_html,omitempty"`
	DatePublished string          `json:"date_published,omitempty"`
	Author        *JSONFeedAuthor `json:"author,omitempty"`
}

type JSONFeedAuthor struct {
	Name string `json:"name"`
}

type JSONGenerator struct{}

func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Run serializes one page as a JSON Feed 1.1 document. When an older page
// exists its feed file is referenced via next_url, which is how JSON Feed
// readers walk paginated archives.
func (g *JSONGenerator) Run(channel Channel, page Page) (string, error) {
	base := strings.TrimRight(channel.SiteURL, "/")

	out := JSONFeed{
		Version:     jsonFeedVersion,
		Title:       channel.Title,
		HomePageURL: base + "/",
		FeedURL:     fmt.Sprintf("%s/%s", base, FileName("feed", ".json", page.Index)),
		Description: channel.Description,
		Items:       make([]JSONFeedItem, 0, len(page.Entries)),
	}

	if page.Next > 0 {
		out.NextURL = fmt.Sprintf("%s/%s", base, FileName("feed", ".json", page.Next))
	}

	for _, entry := range page.Entries {
		item := JSONFeedItem{
			ID:            entry.Link,
			URL:           entry.Link,
			Title:         entry.Title,
			ContentHTML:   entry.Preview,
			DatePublished: entry.Published.UTC().Format(time.RFC3339),
		}
		if entry.Author != "" {
			item.Author = &JSONFeedAuthor{Name: entry.Author}
		}
		out.Items = append(out.Items, item)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize JSON feed: %w", err)
	}

	return string(data), nil
}
