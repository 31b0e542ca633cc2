package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
)

type AtomGenerator struct{}

func NewAtomGenerator() *AtomGenerator {
	return &AtomGenerator{}
}

// Run serializes one page as an Atom 1.0 feed. The feed `updated` element is
// the newest entry date on the page, or the Unix epoch for an empty page.
// When pagination is active the neighboring pages are linked via rel="next"
// (older) and rel="prev" (newer).
func (g *AtomGenerator) Run(channel Channel, page Page) (string, error) {
	base := strings.TrimRight(channel.SiteURL, "/")
	selfLink := fmt.Sprintf("%s/%s", base, FileName("atom", ".xml", page.Index))

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n")

	g.writeElement(&buf, "title", channel.Title, 2)
	g.writeElement(&buf, "id", selfLink, 2)
	g.writeElement(&buf, "updated", g.pageUpdated(page).Format(time.RFC3339), 2)
	g.writeElement(&buf, "subtitle", channel.Description, 2)

	g.writeLink(&buf, base+"/", "", "")
	g.writeLink(&buf, selfLink, "self", "application/atom+xml")

	if page.Prev > 0 {
		g.writeLink(&buf, fmt.Sprintf("%s/%s", base, FileName("atom", ".xml", page.Prev)), "prev", "application/atom+xml")
	}
	if page.Next > 0 {
		g.writeLink(&buf, fmt.Sprintf("%s/%s", base, FileName("atom", ".xml", page.Next)), "next", "application/atom+xml")
	}

	for _, entry := range page.Entries {
		g.writeEntry(&buf, entry)
	}

	buf.WriteString("</feed>")

	return buf.String(), nil
}

func (g *AtomGenerator) pageUpdated(page Page) time.Time {
	updated := time.Unix(0, 0).UTC()
	for _, entry := range page.Entries {
		if entry.Published.After(updated) {
			updated = entry.Published
		}
	}
	return updated
}

func (g *AtomGenerator) writeEntry(buf *bytes.Buffer, entry Entry) {
	buf.WriteString("  <entry>\n")

	g.writeElement(buf, "id", entry.Link, 4)
	g.writeElement(buf, "title", entry.Title, 4)
	buf.WriteString(fmt.Sprintf("    <link href=\"%s\" />\n", html.EscapeString(entry.Link)))
	g.writeElement(buf, "updated", entry.Published.UTC().Format(time.RFC3339), 4)

	buf.WriteString(`    <content type="html">`)
	xml.EscapeText(buf, []byte(entry.Preview))
	buf.WriteString("</content>\n")

	if entry.Author != "" {
		buf.WriteString("    <author>\n")
		g.writeElement(buf, "name", entry.Author, 6)
		buf.WriteString("    </author>\n")
	}

	buf.WriteString("  </entry>\n")
}

func (g *AtomGenerator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *AtomGenerator) writeLink(buf *bytes.Buffer, href, rel, linkType string) {
	buf.WriteString("  <link href=\"")
	buf.WriteString(html.EscapeString(href))
	buf.WriteString("\"")
	if rel != "" {
		buf.WriteString(fmt.Sprintf(" rel=%q", rel))
	}
	if linkType != "" {
		buf.WriteString(fmt.Sprintf(" type=%q", linkType))
	}
	buf.WriteString(" />\n")
}
