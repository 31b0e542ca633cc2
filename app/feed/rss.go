package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mlevkov/mdfeed/app/cfg"
)

type RSSGenerator struct{}

func NewRSSGenerator() *RSSGenerator {
	return &RSSGenerator{}
}

// Run serializes one page as an RSS 2.0 document. The preview HTML travels
// inside CDATA so feed readers receive it unescaped.
func (g *RSSGenerator) Run(channel Channel, page Page) (string, error) {
	base := strings.TrimRight(channel.SiteURL, "/")

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", base+"/", 4)
	g.writeElement(&buf, "description", channel.Description, 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("mdfeed/%s", cfg.GetVersion()), 4)

	selfLink := fmt.Sprintf("%s/%s", base, FileName("rss", ".xml", page.Index))
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	for _, entry := range page.Entries {
		g.writeItem(&buf, entry)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *RSSGenerator) writeItem(buf *bytes.Buffer, entry Entry) {
	buf.WriteString("    <item>\n")

	buf.WriteString(`      <guid isPermaLink="true">`)
	xml.EscapeText(buf, []byte(entry.Link))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", entry.Title, 6)
	g.writeElement(buf, "link", entry.Link, 6)

	buf.WriteString("      <description><![CDATA[")
	buf.WriteString(entry.Preview)
	buf.WriteString("]]></description>\n")

	g.writeElement(buf, "pubDate", entry.Published.Format(time.RFC1123Z), 6)

	if entry.Author != "" {
		g.writeElement(buf, "author", entry.Author, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *RSSGenerator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
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
