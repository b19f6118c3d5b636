package secsheets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Submissions represents the CIK submissions payload from data.sec.gov.
type Submissions struct {
	CIK                               string      `json:"cik"`
	EntityType                        string      `json:"entityType"`
	SIC                               string      `json:"sic"`
	SICDescription                    string      `json:"sicDescription"`
	OwnerOrg                          string      `json:"ownerOrg"`
	InsiderTransactionForOwnerExists  int         `json:"insiderTransactionForOwnerExists"`
	InsiderTransactionForIssuerExists int         `json:"insiderTransactionForIssuerExists"`
	Name                              string      `json:"name"`
	Tickers                           []string    `json:"tickers"`
	Exchanges                         []string    `json:"exchanges"`
	EIN                               string      `json:"ein"`
	Description                       string      `json:"description"`
	Website                           string      `json:"website"`
	InvestorWebsite                   string      `json:"investorWebsite"`
	Category                          string      `json:"category"`
	FiscalYearEnd                     string      `json:"fiscalYearEnd"`
	StateOfIncorporation              string      `json:"stateOfIncorporation"`
	Phone                             string      `json:"phone"`
	Addresses                         AddressBook `json:"addresses"`
	Filings                           FilingsData `json:"filings"`
}

// AddressBook holds the registrant's addresses keyed by purpose.
type AddressBook struct {
	Business Address `json:"business"`
	Mailing  Address `json:"mailing"`
}

// Address is a single postal address from the submissions payload.
type Address struct {
	Street1        string `json:"street1"`
	Street2        string `json:"street2"`
	City           string `json:"city"`
	StateOrCountry string `json:"stateOrCountry"`
	ZipCode        string `json:"zipCode"`
}

// String flattens the address into one display line.
func (a Address) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s, %s, %s %s", a.Street1, a.City, a.StateOrCountry, a.ZipCode))
}

// FilingsData contains recent and paginated filings information.
type FilingsData struct {
	Recent FilingArrays `json:"recent"`
	Files  []FilingFile `json:"files"`
}

// FilingFile describes a paginated file containing older filings.
type FilingFile struct {
	Name        string `json:"name"`
	FilingCount int    `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

// FilingArrays contains parallel arrays of filing data; each index in
// the arrays represents one filing.
type FilingArrays struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// CompanyProfile is the flattened descriptive frame for the company
// summary sheet.
type CompanyProfile struct {
	CIK                         string
	EntityType                  string
	SIC                         string
	SICDescription              string
	OwnerOrg                    string
	InsiderTransactionForOwner  int
	InsiderTransactionForIssuer int
	Name                        string
	Ticker                      string
	Exchange                    string
	EIN                         string
	Description                 string
	Website                     string
	InvestorWebsite             string
	Category                    string
	FiscalYearEnd               string
	StateOfIncorporation        string
	Address                     string
	Phone                       string
}

// FilingRow is one row of the filings sheet: the report date, the form
// type and the archive URL of the filing's primary document. Empty
// source fields are written as "N/A".
type FilingRow struct {
	ReportDate    string
	Form          string
	DataSourceURL string
}

// ParseSubmissions parses a submissions JSON from a reader (for local
// files or testing).
func ParseSubmissions(r io.Reader) (*Submissions, error) {
	var subs Submissions
	if err := json.NewDecoder(r).Decode(&subs); err != nil {
		return nil, fmt.Errorf("failed to parse submissions JSON: %w", err)
	}
	return &subs, nil
}

// FetchCompanySubmissions downloads and parses the submissions data for
// a CIK through the shared client. A nil payload from the client means
// no data was available.
func FetchCompanySubmissions(c *Client, cik string) (*Submissions, error) {
	body := c.Fetch(fmt.Sprintf(submissionsURLFmt, padCIK(cik)))
	if body == nil {
		return nil, fmt.Errorf("no submissions data for CIK %s", cik)
	}
	return ParseSubmissions(bytes.NewReader(body))
}

// Profile extracts the descriptive company frame. Tickers and exchanges
// are parallel arrays; only the primary listing is kept.
func (s *Submissions) Profile() CompanyProfile {
	profile := CompanyProfile{
		CIK:                         s.CIK,
		EntityType:                  s.EntityType,
		SIC:                         s.SIC,
		SICDescription:              s.SICDescription,
		OwnerOrg:                    s.OwnerOrg,
		InsiderTransactionForOwner:  s.InsiderTransactionForOwnerExists,
		InsiderTransactionForIssuer: s.InsiderTransactionForIssuerExists,
		Name:                        s.Name,
		EIN:                         s.EIN,
		Description:                 s.Description,
		Website:                     s.Website,
		InvestorWebsite:             s.InvestorWebsite,
		Category:                    s.Category,
		FiscalYearEnd:               s.FiscalYearEnd,
		StateOfIncorporation:        s.StateOfIncorporation,
		Address:                     s.Addresses.Business.String(),
		Phone:                       s.Phone,
	}
	if len(s.Tickers) > 0 {
		profile.Ticker = s.Tickers[0]
	}
	if len(s.Exchanges) > 0 {
		profile.Exchange = s.Exchanges[0]
	}
	return profile
}

// ArchiveURL constructs the full SEC EDGAR archive URL for a filing's
// primary document. The CIK loses its leading zeros and the accession
// number its dashes in the URL path.
func ArchiveURL(cik, accession, primaryDocument string) string {
	return fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/%s",
		strings.TrimLeft(cik, "0"),
		strings.ReplaceAll(accession, "-", ""),
		primaryDocument,
	)
}

// FilingRows converts the recent-filings parallel arrays into sheet
// rows. The arrays can be ragged; missing fields become "N/A".
func (s *Submissions) FilingRows() []FilingRow {
	recent := &s.Filings.Recent
	count := len(recent.AccessionNumber)
	rows := make([]FilingRow, 0, count)

	for i := 0; i < count; i++ {
		row := FilingRow{ReportDate: "N/A", Form: "N/A"}
		if i < len(recent.ReportDate) && recent.ReportDate[i] != "" {
			row.ReportDate = recent.ReportDate[i]
		}
		if i < len(recent.Form) && recent.Form[i] != "" {
			row.Form = recent.Form[i]
		}

		doc := ""
		if i < len(recent.PrimaryDocument) {
			doc = recent.PrimaryDocument[i]
		}
		row.DataSourceURL = ArchiveURL(s.CIK, recent.AccessionNumber[i], doc)

		rows = append(rows, row)
	}
	return rows
}

// GroupFilingsByForm buckets filing rows by form type. The returned keys
// are sorted so sheet layout is deterministic; rows within a group keep
// their source order.
func GroupFilingsByForm(rows []FilingRow) ([]string, map[string][]FilingRow) {
	groups := make(map[string][]FilingRow)
	var forms []string
	for _, row := range rows {
		if _, seen := groups[row.Form]; !seen {
			forms = append(forms, row.Form)
		}
		groups[row.Form] = append(groups[row.Form], row)
	}
	sort.Strings(forms)
	return forms, groups
}
