package feed

import (
	"fmt"
	"time"
)

// Channel is the run-level feed identity supplied by the host build. SiteURL
// is kept exactly as configured; renderers normalize the trailing slash.
type Channel struct {
	Title       string
	SiteURL     string
	Description string
}

// Options are the per-run feed settings from the book configuration.
type Options struct {
	FullPreview bool
	Paginated   bool
	MaxItems    int
	EmitAtom    bool
	EmitJSON    bool
}

// Entry is the one shared representation every renderer reads. The preview is
// computed once per chapter, so all formats embed byte-identical markup.
type Entry struct {
	Title     string
	Link      string
	Preview   string
	Author    string
	Published time.Time
}

// Page is a contiguous slice of the date-sorted entry list. Index is 1-based.
// Prev points at the newer neighbor and Next at the older one; 0 means none.
type Page struct {
	Entries []Entry
	Index   int
	Prev    int
	Next    int
}

// OutputFile is one serialized feed document, ready for the caller to write.
type OutputFile struct {
	Name string
	Data []byte
}

// FileName maps a page index onto the output naming convention: page 1 keeps
// the bare base name, later pages append their number before the extension.
func FileName(base, ext string, index int) string {
	if index <= 1 {
		return base + ext
	}
	return fmt.Sprintf("%s%d%s", base, index, ext)
}
