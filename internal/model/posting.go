package model

import (
	"sort"
	"strings"
	"time"
)

// Posting represents one job listing tracked by skillhound.
// A posting is created once per external identifier when first discovered
// and is immutable afterwards: re-scraping the same identifier overwrites
// the record with identical content, which is a no-op rather than an error.
type Posting struct {
	// ID is the stable identifier assigned by the external job board.
	// It is the unique key for the posting across all stores.
	ID string `json:"id"`

	// Link is the URL of the posting's detail page.
	Link string `json:"link"`

	// Fields holds the raw text fields scraped from the detail page,
	// keyed by field name (title, company, location, salary, summary...).
	// A posting discovered on a search page but not yet scored has no
	// fields; the scorer fills them in.
	Fields map[string]string `json:"fields,omitempty"`

	// ScrapedAt is when the detail page was last fetched.
	// Zero for shell postings that have only been seen on a search page.
	ScrapedAt time.Time `json:"scraped_at,omitempty"`
}

// Text returns all text fields concatenated in a deterministic order.
// The scorer scans this blob for skill mentions, so the order must be
// stable across invocations for idempotent re-scoring.
func (p *Posting) Text() string {
	if len(p.Fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p.Fields[k])
	}
	return sb.String()
}

// IsShell reports whether the posting is a shell record: discovered on a
// search page, identifier and link known, detail page not yet fetched.
func (p *Posting) IsShell() bool {
	return len(p.Fields) == 0 && p.ScrapedAt.IsZero()
}
