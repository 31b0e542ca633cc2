package article

import (
	"cmp"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// frontMatter mirrors the YAML header of a chapter. Description is a pointer
// so that an absent field can be told apart from an empty one.
type frontMatter struct {
	Title       string  `yaml:"title"`
	Date        string  `yaml:"date"`
	Author      string  `yaml:"author"`
	Description *string `yaml:"description"`
}

// SplitFrontMatter separates a leading `---` delimited YAML block from the
// Markdown body. The delimiter must open on the first line; an unterminated
// block is treated as plain body. Both returned strings are owned copies and
// the body always ends with a newline.
func SplitFrontMatter(text string) (header string, body string, had bool) {
	lines := strings.Split(text, "\n")

	if len(lines) == 0 || strings.TrimSpace(trimCR(lines[0])) != delimiter {
		return "", ensureTrailingNewline(text), false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(trimCR(lines[i])) == delimiter {
			header = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return header, ensureTrailingNewline(body), true
		}
	}

	// Opening delimiter without a closing one: not a header.
	return "", ensureTrailingNewline(text), false
}

// Resolve splits text into header and body and produces the chapter metadata
// with the full fallback chain applied: a missing or unparseable header yields
// a synthetic record (title from the filename stem, date from modTime, the
// whole body as summary), and an unparseable date degrades to modTime without
// rejecting the rest of the record.
func Resolve(text, relPath string, modTime time.Time) (Metadata, string) {
	header, body, had := SplitFrontMatter(text)
	stem := fileStem(relPath)
	fallback := modTime.UTC()

	if !had || strings.TrimSpace(header) == "" {
		return syntheticMetadata(stem, fallback, body), body
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return syntheticMetadata(stem, fallback, body), body
	}

	meta := Metadata{
		Title:  cmp.Or(strings.TrimSpace(fm.Title), stem),
		Date:   parseDate(fm.Date, fallback),
		Author: strings.TrimSpace(fm.Author),
	}
	if fm.Description != nil {
		meta.Summary = *fm.Description
		meta.HasSummary = true
	}

	return meta, body
}

func syntheticMetadata(stem string, date time.Time, body string) Metadata {
	return Metadata{
		Title:      stem,
		Date:       date,
		Summary:    body,
		HasSummary: true,
	}
}

// parseDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD calendar date
// (midnight UTC). Anything else falls back to the file modification time.
func parseDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC()
	}

	return fallback
}

func fileStem(relPath string) string {
	base := path.Base(relPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

func trimCR(line string) string {
	return strings.TrimSuffix(line, "\r")
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
