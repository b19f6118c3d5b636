package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	secsheets "github.com/secsheets/go-secsheets"
)

func main() {
	var (
		email      string
		outputPath string
		browseAll  bool
	)

	flag.StringVar(&email, "email", "", "Email for SEC User-Agent header (or use SEC_EMAIL env var)")
	flag.StringVar(&email, "e", "", "Email for SEC User-Agent (shorthand)")
	flag.StringVar(&outputPath, "output", "", "Output .xlsx file path (default: <TICKER>_sec_data.xlsx)")
	flag.StringVar(&outputPath, "o", "", "Output .xlsx file path (shorthand)")
	flag.BoolVar(&browseAll, "browse", false, "Skip the search prompt and browse all companies")
	flag.BoolVar(&browseAll, "b", false, "Browse all companies (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: secsheets [options]\n\n")
		fmt.Fprintf(os.Stderr, "Find a company in the SEC database and export its filings and\n")
		fmt.Fprintf(os.Stderr, "financial facts to a multi-sheet .xlsx report.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  SEC_EMAIL    Email for the SEC User-Agent header (also read from .env)\n")
	}

	flag.Parse()

	// Load .env if present; flags and real env still win.
	_ = godotenv.Load()

	if err := run(email, outputPath, browseAll); err != nil {
		if errors.Is(err, secsheets.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(email, outputPath string, browseAll bool) error {
	var err error
	if email == "" {
		email, err = secsheets.GetSecEmail()
		if err != nil {
			return err
		}
	}

	// One limiter, one client: every fetch in the process shares the
	// SEC quota.
	limiter := secsheets.NewRateLimiter(secsheets.DefaultMaxCalls, secsheets.DefaultWindow)
	client := secsheets.NewClient(limiter, email)

	fmt.Fprintln(os.Stderr, "Downloading SEC company list...")
	companies, err := secsheets.FetchCompanyList(client)
	if err != nil {
		return err
	}
	index := secsheets.BuildCompanyIndex(companies)

	company, err := resolveCompany(index, companies, browseAll)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Downloading SEC data for %s\n\tTicker: %s\n\tCIK: %s\n",
		company.Title, company.Ticker, company.CIK)

	facts, err := secsheets.FetchCompanyFacts(client, company.CIK)
	if err != nil {
		return err
	}
	subs, err := secsheets.FetchCompanySubmissions(client, company.CIK)
	if err != nil {
		return err
	}

	wb, err := secsheets.BuildReport(facts, subs)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(company)
	}
	if err := wb.SaveAs(outputPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Saved report: %s\n", outputPath)
	return nil
}

// resolveCompany drives the interactive flow: a search-or-browse choice
// prompt (looping on invalid input), then the chosen controller.
func resolveCompany(index *secsheets.CompanyIndex, companies []secsheets.CompanyRecord, browseAll bool) (secsheets.SearchResult, error) {
	in := os.Stdin
	out := os.Stdout

	if browseAll {
		browser := secsheets.NewBrowseController(companies, secsheets.TerminalPageSize(), in, out)
		return browser.Run()
	}

	for {
		fmt.Fprint(out, "Do you want to:\n\t1. Search for a single company\n\t2. Browse all companies\nEnter 1 or 2: ")
		choice, ok := readLine(in)
		if !ok {
			return secsheets.SearchResult{}, secsheets.ErrAborted
		}

		switch strings.TrimSpace(choice) {
		case "1":
			search := secsheets.NewSearchController(index, in, out)
			return search.Run()
		case "2":
			browser := secsheets.NewBrowseController(companies, secsheets.TerminalPageSize(), in, out)
			return browser.Run()
		default:
			fmt.Fprintln(out, "Invalid choice. Please enter 1 or 2.")
		}
	}
}

// readLine reads one line byte by byte so no input meant for the next
// controller is buffered away. The second return is false at EOF.
func readLine(r io.Reader) (string, bool) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return string(line), true
			}
			line = append(line, buf[0])
		}
		if err != nil {
			return string(line), len(line) > 0
		}
	}
}

// defaultOutputPath derives a file name from the resolved company.
func defaultOutputPath(company secsheets.SearchResult) string {
	base := company.Ticker
	if base == "" {
		base = company.CIK
	}
	base = strings.ToUpper(strings.ReplaceAll(base, " ", "_"))
	return fmt.Sprintf("%s_sec_data.xlsx", base)
}
