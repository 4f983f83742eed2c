// Package fetcher retrieves the current error list from the heat pump's
// ISG web interface.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/isgwatch/isgwatch/internal/entry"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Fetcher produces the complete current error list. The result is a full
// snapshot of what the upstream knows, not a delta.
type Fetcher interface {
	Fetch(ctx context.Context) ([]entry.Entry, error)
}

// ISGFetcher scrapes the error list table from the ISG status page.
type ISGFetcher struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewISG creates a fetcher for the given ISG error list URL.
func NewISG(url string, timeout time.Duration, log zerolog.Logger) *ISGFetcher {
	return &ISGFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch downloads and parses the error list page. The list may hold any
// number of rows; a shorter list than last time is not an error.
func (f *ISGFetcher) Fetch(ctx context.Context) ([]entry.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", f.url, resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	entries, err := parseErrorList(doc)
	if err != nil {
		return nil, err
	}

	f.log.Debug().
		Int("entries", len(entries)).
		Msg("Error list fetched")
	return entries, nil
}

// parseErrorList extracts entries from the first table with class "info".
// Rows with exactly five value cells are taken as
// (nr, error code, heat pump, date, time); anything else is a header or
// spacer row and skipped.
func parseErrorList(doc *html.Node) ([]entry.Entry, error) {
	table := findByTagClass(doc, "table", "info")
	if table == nil {
		return nil, errors.New("error list table not found in page response")
	}

	var entries []entry.Entry
	for _, tr := range findAllByTag(table, "tr") {
		var cells []string
		for _, td := range findAllByTag(tr, "td") {
			if hasClass(td, "value") {
				cells = append(cells, collectText(td))
			}
		}
		if len(cells) != 5 {
			continue
		}
		entries = append(entries, entry.Entry{
			Nr:        cells[0],
			ErrorCode: cells[1],
			Heatpump:  cells[2],
			Date:      cells[3],
			Time:      cells[4],
		})
	}
	return entries, nil
}

// findByTagClass returns the first element with the given tag carrying the
// given class, in document order.
func findByTagClass(root *html.Node, tag, class string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

// findAllByTag returns all elements with the given tag below root.
func findAllByTag(root *html.Node, tag string) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return results
}

// hasClass checks whether a node's class attribute contains the given class.
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// collectText concatenates all text nodes below n, whitespace-trimmed.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
