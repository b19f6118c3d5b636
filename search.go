package secsheets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ErrAborted indicates the user quit an interactive flow (or its input
// stream ended) before resolving a company.
var ErrAborted = errors.New("selection aborted")

// SearchResult is a fully-resolved company triple.
type SearchResult struct {
	Title  string
	Ticker string
	CIK    string
}

// queryKind classifies raw user input into a lookup path.
type queryKind int

const (
	queryCIK    queryKind = iota // all digits
	queryTicker                  // letters and digits only
	queryTitle                   // anything else (spaces, punctuation)
)

func classifyQuery(input string) queryKind {
	if input == "" {
		return queryTitle
	}
	digitsOnly := true
	alphanumeric := true
	for _, r := range input {
		if !unicode.IsDigit(r) {
			digitsOnly = false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			alphanumeric = false
		}
	}
	switch {
	case digitsOnly:
		return queryCIK
	case alphanumeric:
		return queryTicker
	default:
		return queryTitle
	}
}

// SearchController drives the interactive single-company search: prompt,
// classify, resolve, and disambiguate when several candidates match.
// Prompts go to out, replies are read line by line from in.
type SearchController struct {
	index *CompanyIndex
	in    *bufio.Scanner
	out   io.Writer
}

// NewSearchController wires a search flow over a built index.
func NewSearchController(index *CompanyIndex, in io.Reader, out io.Writer) *SearchController {
	return &SearchController{
		index: index,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run prompts until a single company is resolved. An empty result
// re-prompts indefinitely: this is an interactive tool, not a bounded
// operation. Entering "q" or closing the input stream returns
// ErrAborted. An empty index returns ErrNoCompanies instead of
// prompting against nothing.
func (s *SearchController) Run() (SearchResult, error) {
	if s.index.Len() == 0 {
		return SearchResult{}, ErrNoCompanies
	}

	for {
		fmt.Fprint(s.out, "Enter a company title, ticker, or CIK (q to quit): ")
		input, ok := s.readLine()
		if !ok {
			return SearchResult{}, ErrAborted
		}
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "q") {
			return SearchResult{}, ErrAborted
		}

		candidates := s.resolve(input)
		switch len(candidates) {
		case 0:
			fmt.Fprintf(s.out, "No companies found for %q. Please try again.\n", input)
		case 1:
			return candidates[0], nil
		default:
			return s.selectCandidate(candidates)
		}
	}
}

// resolve runs the classification policy against the index and returns
// the candidate list with missing fields filled from the input text.
func (s *SearchController) resolve(input string) []SearchResult {
	var entries []IndexEntry

	switch classifyQuery(input) {
	case queryCIK:
		fmt.Fprintln(s.out, "Searching by CIK...")
		entries = s.index.SearchByCIK(input)
	case queryTicker:
		fmt.Fprintln(s.out, "Searching by ticker...")
		entries = s.index.SearchByTicker(input)
		if len(entries) == 0 {
			fmt.Fprintln(s.out, "No ticker found, searching by title...")
			entries = s.index.SearchByTitle(input, true)
		}
	default:
		fmt.Fprintln(s.out, "Searching by title...")
		entries = s.index.SearchByTitle(input, true)
	}

	return fillMissingFields(entries, input)
}

// fillMissingFields converts index entries to results, substituting the
// original query text for whichever field the entry's bucket key
// consumed. The input is the best available stand-in, never a
// placeholder string.
func fillMissingFields(entries []IndexEntry, input string) []SearchResult {
	results := make([]SearchResult, 0, len(entries))
	for _, e := range entries {
		r := SearchResult{Title: e.Title, Ticker: e.Ticker, CIK: e.CIK}
		if r.Title == "" {
			r.Title = input
		}
		if r.Ticker == "" {
			r.Ticker = input
		}
		if r.CIK == "" {
			r.CIK = input
		}
		results = append(results, r)
	}
	return results
}

// selectCandidate enumerates the candidates with 1-based indices and
// loops on the selection prompt until a valid index arrives. Invalid
// input re-prompts against the same list; the search itself is never
// re-run.
func (s *SearchController) selectCandidate(candidates []SearchResult) (SearchResult, error) {
	for {
		fmt.Fprintln(s.out, "Multiple companies found. Please choose one by entering the corresponding number:")
		for i, c := range candidates {
			fmt.Fprintf(s.out, "%d. Title: %s, Ticker: %s, CIK: %s\n", i+1, c.Title, c.Ticker, c.CIK)
		}
		fmt.Fprint(s.out, "Enter the number of the company you want to select: ")

		input, ok := s.readLine()
		if !ok {
			return SearchResult{}, ErrAborted
		}

		selection, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(s.out, "Invalid input. Please enter a valid number.")
			continue
		}
		if selection < 1 || selection > len(candidates) {
			fmt.Fprintln(s.out, "Invalid selection. Please try again.")
			continue
		}
		return candidates[selection-1], nil
	}
}

func (s *SearchController) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}
