package fetcher

import (
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SearchResult is one page of board search results.
type SearchResult struct {
	// IDs holds the board's posting identifiers, one per result card,
	// in page order. Parallel to Links.
	IDs []string

	// Links holds the absolute posting detail URLs, parallel to IDs.
	Links []string

	// FoundEstimate is the board's total match count for the query.
	// Boards revise this between pages; 0 means the page carried no
	// count.
	FoundEstimate int
}

// parseSearchPage extracts result cards and the match estimate.
//
// Each card is an element with a data-id attribute inside the result
// list; the first anchor within the card links to the posting. Cards
// without an id or a link are skipped rather than failing the page.
func parseSearchPage(r io.Reader, base *url.URL) (*SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{}

	doc.Find(".result[data-id], [data-id].job-card").Each(func(_ int, card *goquery.Selection) {
		id, ok := card.Attr("data-id")
		if !ok || id == "" {
			return
		}
		href, ok := card.Find("a[href]").First().Attr("href")
		if !ok || href == "" {
			return
		}
		link, err := url.Parse(href)
		if err != nil {
			return
		}

		result.IDs = append(result.IDs, id)
		result.Links = append(result.Links, base.ResolveReference(link).String())
	})

	countText := doc.Find(".result-count, #result-count").First().Text()
	result.FoundEstimate = firstInt(countText)

	return result, nil
}

// firstInt returns the first run of digits in s, ignoring thousands
// separators ("1,024 jobs" parses as 1024). Returns 0 when s has none.
func firstInt(s string) int {
	var b strings.Builder
	started := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			started = true
		case r == ',' && started:
			// separator inside a number
		default:
			if started {
				n, _ := strconv.Atoi(b.String())
				return n
			}
		}
	}
	if !started {
		return 0
	}
	n, _ := strconv.Atoi(b.String())
	return n
}
