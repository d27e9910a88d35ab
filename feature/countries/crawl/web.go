package crawl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"country-pipeline/feature/countries/models"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ErrNoTable is returned by ParseTable when the page has no wikitable.
var ErrNoTable = errors.New("crawl: no wikitable found")

// tableClass is the class marking the data table.
const tableClass = "wikitable"

// WebSource scrapes the capitals table from the wiki page.
type WebSource struct {
	cfg     Config
	fetcher *fetcher
	logger  *zap.Logger
}

// NewWebSource creates a web crawler. A nil client gets a default one.
func NewWebSource(cfg Config, client *http.Client, logger *zap.Logger) *WebSource {
	return &WebSource{cfg: cfg, fetcher: newFetcher(cfg, client, logger), logger: logger}
}

// Fetch downloads the page and returns the rows of its first wikitable.
// A page without such a table yields no rows and a warning.
func (s *WebSource) Fetch(ctx context.Context) ([]models.RawWebRow, error) {
	body, err := s.fetcher.get(ctx, s.cfg.WikiURL, "text/html")
	if err != nil {
		return nil, err
	}

	rows, err := ParseTable(bytes.NewReader(body))
	if errors.Is(err, ErrNoTable) {
		s.logger.Warn("No wikitable on page", zap.String("url", s.cfg.WikiURL))
		return []models.RawWebRow{}, nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetched web rows", zap.String("url", s.cfg.WikiURL), zap.Int("rows", len(rows)))
	return rows, nil
}

// ParseTable extracts the first table whose class list contains wikitable.
// The first row is taken as the header and skipped. Each remaining row
// yields the text of its td and th cells, and rows without cells are
// dropped.
func ParseTable(r io.Reader) ([]models.RawWebRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	table := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "table" && hasClass(n, tableClass)
	})
	if table == nil {
		return nil, ErrNoTable
	}

	trs := findAll(table, func(n *html.Node) bool { return n.Data == "tr" })
	rows := make([]models.RawWebRow, 0, len(trs))
	for i, tr := range trs {
		if i == 0 {
			continue
		}
		cells := findAll(tr, func(n *html.Node) bool { return n.Data == "td" || n.Data == "th" })
		if len(cells) == 0 {
			continue
		}
		texts := make([]string, len(cells))
		for j, c := range cells {
			texts[j] = cellText(c)
		}
		rows = append(rows, models.NewRawWebRow(texts...))
	}

	return rows, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// cellText concatenates the trimmed text nodes under n.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && match(c) {
				results = append(results, c)
			}
			walk(c)
		}
	}
	walk(n)
	return results
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var result *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if result != nil {
			return
		}
		if n.Type == html.ElementNode && match(n) {
			result = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return result
}
