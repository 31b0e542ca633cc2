package preview

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	// MaxPreviewChars bounds the final HTML preview, counted in runes.
	MaxPreviewChars = 800

	// DefaultMinBodyChars is the body length below which an authored
	// description wins over the chapter body.
	DefaultMinBodyChars = 80

	maxParagraphs    = 3
	sourceSliceChars = 4000
)

// Extractor renders bounded HTML previews from chapter Markdown. It is
// stateless apart from its tunables, so one instance is shared across all
// chapters of a run.
type Extractor struct {
	minBodyChars int
	fullContent  bool
	md           goldmark.Markdown
}

func NewExtractor(minBodyChars int, fullContent bool) *Extractor {
	if minBodyChars <= 0 {
		minBodyChars = DefaultMinBodyChars
	}

	return &Extractor{
		minBodyChars: minBodyChars,
		fullContent:  fullContent,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
				extension.Footnote,
			),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Run produces the HTML preview for one chapter. In full-content mode the
// whole body is rendered and returned as-is. Otherwise the source is the
// trimmed body when it is long enough (or no summary exists), the summary
// when the body is thin, and the result is boilerplate-stripped, bounded,
// rendered, and reduced to the first paragraphs. Run is total: it never
// fails, it just returns an empty string when there is nothing to preview.
func (e *Extractor) Run(body, summary string, hasSummary bool) string {
	if e.fullContent {
		return e.render(body)
	}

	trimmed := strings.TrimSpace(body)

	source := trimmed
	if utf8.RuneCountInString(trimmed) < e.minBodyChars && hasSummary {
		source = summary
	}

	source = stripLeadingBoilerplate(source)
	source = utf8Prefix(source, sourceSliceChars)

	rendered := e.render(source)

	return utf8Prefix(firstParagraphs(rendered, maxParagraphs), MaxPreviewChars)
}

func (e *Extractor) render(source string) string {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(source), &buf); err != nil {
		// Convert only fails on writer errors; a bytes.Buffer has none.
		return ""
	}
	return buf.String()
}

// stripLeadingBoilerplate drops leading blank lines and, when the text opens
// with a heading-led block (TOC, admonition, metadata echo), everything up to
// and including the first blank line after the first heading. Text without a
// heading passes through with only the leading blanks removed.
func stripLeadingBoilerplate(source string) string {
	lines := strings.Split(source, "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	seenHeading := false
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimLeft(lines[i], " \t"), "#") {
			seenHeading = true
			continue
		}
		if seenHeading && strings.TrimSpace(lines[i]) == "" {
			return strings.Join(lines[i+1:], "\n")
		}
	}

	return strings.Join(lines[start:], "\n")
}

// utf8Prefix returns at most maxChars runes of s without ever splitting a
// multi-byte sequence.
func utf8Prefix(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}

	count := 0
	for i := range s {
		if count == maxChars {
			return s[:i]
		}
		count++
	}

	return s
}

// firstParagraphs concatenates up to maxCount top-level <p>…</p> blocks of an
// HTML fragment, markup included. A fragment with no paragraph at all (pure
// list, code block, table) is returned whole.
func firstParagraphs(fragment string, maxCount int) string {
	var out strings.Builder
	rest := fragment

	for count := 0; count < maxCount; count++ {
		open := indexParagraphOpen(rest)
		if open < 0 {
			break
		}

		closeRel := strings.Index(rest[open:], "</p>")
		if closeRel < 0 {
			break
		}

		end := open + closeRel + len("</p>")
		out.WriteString(rest[open:end])
		rest = rest[end:]
	}

	if out.Len() == 0 {
		return fragment
	}

	return out.String()
}

// indexParagraphOpen finds the next real paragraph tag. A bare "<p" prefix is
// not enough: "<pre>" must not match.
func indexParagraphOpen(s string) int {
	from := 0
	for {
		i := strings.Index(s[from:], "<p")
		if i < 0 {
			return -1
		}
		i += from

		next := i + 2
		if next >= len(s) {
			return -1
		}
		switch s[next] {
		case '>', ' ', '\t', '\n':
			return i
		}

		from = i + 2
	}
}
