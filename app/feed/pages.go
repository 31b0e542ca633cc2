package feed

// Plan partitions the sorted entry list into pages. With pagination disabled,
// a zero maximum, or a list that fits, everything lands on a single page.
// Pages are contiguous and page 1 always holds the newest entries.
func Plan(entries []Entry, paginated bool, maxItems int) []Page {
	if !paginated || maxItems <= 0 || len(entries) <= maxItems {
		return []Page{{Entries: entries, Index: 1}}
	}

	total := (len(entries) + maxItems - 1) / maxItems
	pages := make([]Page, 0, total)

	for i := 0; i < total; i++ {
		start := i * maxItems
		end := start + maxItems
		if end > len(entries) {
			end = len(entries)
		}

		page := Page{
			Entries: entries[start:end],
			Index:   i + 1,
		}
		if i > 0 {
			page.Prev = i
		}
		if i+1 < total {
			page.Next = i + 2
		}

		pages = append(pages, page)
	}

	return pages
}
