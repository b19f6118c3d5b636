package secsheets

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrNoCompanies indicates the company list was empty or unavailable, so
// neither search nor browse can proceed.
var ErrNoCompanies = errors.New("company list is empty")

// CompanyRecord is one entry of the SEC company list: the unpadded
// numeric CIK, the ticker symbol and the registrant title. Records are
// immutable once loaded. Multiple records may legally share a ticker or
// title; duplicates are preserved, never collapsed.
type CompanyRecord struct {
	CIK    string
	Ticker string
	Title  string
}

// companyListEntry matches the value shape of company_tickers.json.
// cik_str arrives as a bare number despite the name.
type companyListEntry struct {
	CIK    json.Number `json:"cik_str"`
	Ticker string      `json:"ticker"`
	Title  string      `json:"title"`
}

// ParseCompanyList parses the company_tickers.json payload. The file is
// an object keyed by ascending numeric index; records are returned in
// that source order so downstream index buckets keep it.
func ParseCompanyList(data []byte) ([]CompanyRecord, error) {
	var raw map[string]companyListEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse company list JSON: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	records := make([]CompanyRecord, 0, len(keys))
	for _, k := range keys {
		entry := raw[k]
		records = append(records, CompanyRecord{
			CIK:    entry.CIK.String(),
			Ticker: entry.Ticker,
			Title:  entry.Title,
		})
	}
	return records, nil
}

// FetchCompanyList downloads the SEC company list. The list is fetched
// fresh once per run; there is no cross-run caching.
func FetchCompanyList(c *Client) ([]CompanyRecord, error) {
	body := c.Fetch(companyListURL)
	if body == nil {
		return nil, fmt.Errorf("company list unavailable: %w", ErrNoCompanies)
	}

	records, err := ParseCompanyList(body)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoCompanies
	}
	return records, nil
}
