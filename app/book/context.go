// Package book decodes the mdBook preprocessor input: a JSON array of
// [context, book] on stdin. The book value is never inspected, only echoed
// back so the build can continue.
package book

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/mlevkov/mdfeed/app/feed"
)

const (
	defaultTitle       = "My mdBook"
	defaultSiteURL     = "https://example.com/"
	defaultDescription = "An mdBook-generated site"

	// preprocessorTable is the config key mdfeed reads its options from,
	// i.e. [preprocessor.rss-feed] in book.toml.
	preprocessorTable = "rss-feed"
)

// Input is everything one preprocessor run needs: where the chapters live,
// the channel identity, the feed options, and the untouched book JSON.
type Input struct {
	SrcDir  string
	Channel feed.Channel
	Options feed.Options
	Book    json.RawMessage
}

type renderContext struct {
	Root   string `json:"root"`
	Config struct {
		Book struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"book"`
		Output struct {
			HTML struct {
				SiteURL string `json:"site-url"`
			} `json:"html"`
		} `json:"output"`
		Preprocessor map[string]json.RawMessage `json:"preprocessor"`
	} `json:"config"`
}

type feedOptions struct {
	FullPreview bool `json:"full-preview"`
	Paginated   bool `json:"paginated"`
	MaxItems    int  `json:"max-items"`
	EmitAtom    bool `json:"emit-atom"`
	EmitJSON    bool `json:"emit-json"`
}

// Parse reads the [context, book] array and applies the documented defaults
// for everything the book configuration leaves out.
func Parse(r io.Reader) (*Input, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode preprocessor input: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("preprocessor input must be a [context, book] array, got %d elements", len(raw))
	}

	var ctx renderContext
	if err := json.Unmarshal(raw[0], &ctx); err != nil {
		return nil, fmt.Errorf("failed to decode render context: %w", err)
	}

	var opts feedOptions
	if table, ok := ctx.Config.Preprocessor[preprocessorTable]; ok {
		// A malformed options table falls back to the defaults; the book
		// build should not fail over feed settings.
		_ = json.Unmarshal(table, &opts)
	}
	if opts.MaxItems < 0 {
		opts.MaxItems = 0
	}

	root := cmp.Or(ctx.Root, ".")

	return &Input{
		SrcDir: filepath.Join(root, "src"),
		Channel: feed.Channel{
			Title:       cmp.Or(ctx.Config.Book.Title, defaultTitle),
			SiteURL:     cmp.Or(ctx.Config.Output.HTML.SiteURL, defaultSiteURL),
			Description: cmp.Or(ctx.Config.Book.Description, defaultDescription),
		},
		Options: feed.Options{
			FullPreview: opts.FullPreview,
			Paginated:   opts.Paginated,
			MaxItems:    opts.MaxItems,
			EmitAtom:    opts.EmitAtom,
			EmitJSON:    opts.EmitJSON,
		},
		Book: raw[1],
	}, nil
}
