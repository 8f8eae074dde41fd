package fetcher

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// detailClasses maps CSS class names on detail pages to posting field
// names. The first match per field wins; later occurrences of the same
// class are ignored so that, e.g., a "related postings" sidebar cannot
// overwrite the real description.
var detailClasses = map[string]string{
	"job-title":       "title",
	"jobtitle":        "title",
	"company":         "company",
	"company-name":    "company",
	"location":        "location",
	"salary":          "salary",
	"description":     "description",
	"job-description": "description",
}

// parseDetailPage walks the detail page DOM and collects posting
// fields. A page with none of the known blocks falls back to a single
// "description" field holding the whole body text, so that scoring
// still has something to count over.
//
// Design decision: We walk the node tree directly rather than using
// selectors because:
//  1. Field extraction is a single pass over every node anyway
//  2. Malformed board HTML still yields partial fields
func parseDetailPage(r io.Reader) (map[string]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string)
	var bodyText strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer":
				return
			case "h1":
				if _, ok := fields["title"]; !ok {
					fields["title"] = nodeText(n)
				}
			}
			if field := fieldForNode(n); field != "" {
				if _, ok := fields[field]; !ok {
					fields[field] = nodeText(n)
				}
			}
		}
		if n.Type == html.TextNode {
			bodyText.WriteString(n.Data)
			bodyText.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if _, ok := fields["description"]; !ok {
		fields["description"] = collapseSpace(bodyText.String())
	}

	// Drop fields whose block held no text.
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields, nil
}

// fieldForNode returns the posting field a node's class maps to, or "".
func fieldForNode(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			if field, ok := detailClasses[strings.ToLower(class)]; ok {
				return field
			}
		}
	}
	return ""
}

// nodeText collects the text content beneath a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpace(b.String())
}

// collapseSpace trims and squeezes runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
