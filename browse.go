package secsheets

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// DefaultPageSize is the pagination floor used when the terminal height
// cannot be determined, so a page never degenerates to zero rows.
const DefaultPageSize = 20

// SortCompaniesByTitle returns a copy of records sorted ascending by
// title, case-insensitively. The sort is stable so records sharing a
// title keep their source order.
func SortCompaniesByTitle(records []CompanyRecord) []CompanyRecord {
	sorted := make([]CompanyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
	})
	return sorted
}

// BrowseController presents the full company list, sorted by title, in
// fixed-size pages. Per page the user can advance, retreat, or select a
// row by its global 1-based number; anything else redraws the page with
// an error notice.
type BrowseController struct {
	companies []CompanyRecord
	pageSize  int
	in        *bufio.Scanner
	out       io.Writer
}

// NewBrowseController wires a paginated browser over the records. A
// pageSize below 1 falls back to DefaultPageSize.
func NewBrowseController(records []CompanyRecord, pageSize int, in io.Reader, out io.Writer) *BrowseController {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &BrowseController{
		companies: SortCompaniesByTitle(records),
		pageSize:  pageSize,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run pages through the company table until the user selects a row,
// quits ("q"), or the input stream ends. Next at the last page and back
// at the first page are no-ops. An empty list returns ErrNoCompanies.
func (b *BrowseController) Run() (SearchResult, error) {
	total := len(b.companies)
	if total == 0 {
		return SearchResult{}, ErrNoCompanies
	}

	totalPages := (total + b.pageSize - 1) / b.pageSize
	page := 0
	notice := ""

	for {
		b.renderPage(page, totalPages, notice)
		notice = ""

		if !b.in.Scan() {
			return SearchResult{}, ErrAborted
		}
		action := strings.ToLower(strings.TrimSpace(b.in.Text()))

		switch {
		case action == "next":
			if page < totalPages-1 {
				page++
			}
		case action == "back":
			if page > 0 {
				page--
			}
		case action == "q" || action == "quit":
			return SearchResult{}, ErrAborted
		default:
			selection, err := strconv.Atoi(action)
			if err != nil {
				notice = "Invalid input. Please enter 'next', 'back', 'q', or a row number."
				continue
			}
			if selection < 1 || selection > total {
				notice = "Invalid selection. Please enter a valid row number."
				continue
			}
			c := b.companies[selection-1]
			return SearchResult{Title: c.Title, Ticker: c.Ticker, CIK: c.CIK}, nil
		}
	}
}

// renderPage draws the grid for one page. Row numbers are global across
// the whole sorted list, not page-relative.
func (b *BrowseController) renderPage(page, totalPages int, notice string) {
	start := page * b.pageSize
	end := start + b.pageSize
	if end > len(b.companies) {
		end = len(b.companies)
	}

	if notice != "" {
		fmt.Fprintln(b.out, notice)
	}
	fmt.Fprintf(b.out, "\nDisplaying page %d/%d of companies.\n", page+1, totalPages)

	table := tablewriter.NewWriter(b.out)
	table.SetHeader([]string{"Row", "Title", "Ticker", "CIK"})
	table.SetAutoWrapText(false)
	for i := start; i < end; i++ {
		c := b.companies[i]
		table.Append([]string{strconv.Itoa(i + 1), c.Title, c.Ticker, c.CIK})
	}
	table.Render()

	fmt.Fprint(b.out, "\nInput:\n\t-The row number of the company you want to select.\n\t-'Next' to go forward\n\t-'Back' to go back\n\t-'q' to quit\nEnter: ")
}
