package article

import (
	"time"
)

// Article is one eligible Markdown chapter: its path relative to the src
// root (slash-separated), the body with the frontmatter stripped, and the
// resolved metadata. Articles are immutable once collected.
type Article struct {
	Path string
	Body string
	Meta Metadata
}

// Metadata is the resolved per-chapter record. Date is always set (real or
// fallback); Author and Summary may be empty.
type Metadata struct {
	Title   string
	Date    time.Time
	Author  string
	Summary string

	// HasSummary distinguishes "no description field" from an empty one,
	// which matters for the preview source selection.
	HasSummary bool
}
