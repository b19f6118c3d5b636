package secsheets

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// FilingDocument is one entry of an EDGAR filing index page: a document
// belonging to a single filing's archive directory.
type FilingDocument struct {
	Seq         string
	Description string
	Name        string
	Type        string
	Size        string
	Href        string
}

// FetchFilingIndex downloads a filing's archive index page and returns
// its document listing. indexURL is the filing's archive directory URL
// (the dataSourceUrl with the document name stripped).
func FetchFilingIndex(c *Client, indexURL string) ([]FilingDocument, error) {
	body := c.Fetch(indexURL)
	if body == nil {
		return nil, fmt.Errorf("no filing index data at %s", indexURL)
	}
	return ParseFilingIndex(body)
}

// IndexURLFor strips the document name from an archive document URL,
// yielding the filing's index page URL.
func IndexURLFor(documentURL string) string {
	idx := strings.LastIndex(documentURL, "/")
	if idx == -1 {
		return documentURL
	}
	return documentURL[:idx+1]
}

// ParseFilingIndex parses an EDGAR filing index HTML page. Document rows
// live in tables with the "tableFile" class; each row carries sequence,
// description, linked document name, type and size cells.
func ParseFilingIndex(data []byte) ([]FilingDocument, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse filing index HTML: %w", err)
	}

	var documents []FilingDocument
	for _, table := range findTablesByClass(doc, "tableFile") {
		for _, row := range findRows(table) {
			cells := findCells(row)
			if len(cells) < 5 {
				continue
			}

			entry := FilingDocument{
				Seq:         nodeText(cells[0]),
				Description: nodeText(cells[1]),
				Name:        nodeText(cells[2]),
				Type:        nodeText(cells[3]),
				Size:        nodeText(cells[4]),
				Href:        firstHref(cells[2]),
			}

			// Skip the header row and spacer rows.
			if entry.Name == "" || strings.EqualFold(entry.Name, "Document") {
				continue
			}
			documents = append(documents, entry)
		}
	}

	return documents, nil
}

// findTablesByClass finds all tables whose class attribute contains the
// given name, in document order.
func findTablesByClass(n *html.Node, class string) []*html.Node {
	var tables []*html.Node
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			for _, attr := range n.Attr {
				if attr.Key == "class" && strings.Contains(attr.Val, class) {
					tables = append(tables, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return tables
}

// findRows returns the tr elements of a table in document order.
func findRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(table)
	return rows
}

// findCells returns the td/th elements of a row.
func findCells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, c)
		}
	}
	return cells
}

// firstHref returns the href of the first anchor under n, or "".
func firstHref(n *html.Node) string {
	var href string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if href != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return href
}

// nodeText extracts the trimmed text content of a node.
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
