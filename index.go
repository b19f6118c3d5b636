package secsheets

import "strings"

// IndexEntry is a bucket entry in one of the index mappings. The field
// the record was keyed under is left empty: a ticker bucket stores only
// CIK and title, a title bucket only CIK and ticker, a CIK bucket only
// ticker and title. Callers resolving an entry fill the empty field from
// the query text (see fillMissingFields).
type IndexEntry struct {
	CIK    string
	Ticker string
	Title  string
}

// CompanyIndex holds three hash-indexed views of the company list: by
// ticker, by title and by CIK. Ticker and title keys are lower-cased;
// CIK keys are the raw unpadded strings. Buckets preserve source order
// and keep colliding records rather than deduplicating.
//
// The index is built once per run from a freshly downloaded list and is
// read-only afterwards.
type CompanyIndex struct {
	byTicker map[string][]IndexEntry
	byTitle  map[string][]IndexEntry
	byCIK    map[string][]IndexEntry

	// Unique title keys in first-seen order, so partial scans yield
	// deterministic candidate ordering.
	titleKeys []string

	total int
}

// BuildCompanyIndex builds all three mappings in a single pass over the
// records. Every record lands in exactly one bucket entry per mapping.
func BuildCompanyIndex(records []CompanyRecord) *CompanyIndex {
	ix := &CompanyIndex{
		byTicker: make(map[string][]IndexEntry),
		byTitle:  make(map[string][]IndexEntry),
		byCIK:    make(map[string][]IndexEntry),
		total:    len(records),
	}

	for _, rec := range records {
		tickerKey := strings.ToLower(rec.Ticker)
		ix.byTicker[tickerKey] = append(ix.byTicker[tickerKey], IndexEntry{CIK: rec.CIK, Title: rec.Title})

		titleKey := strings.ToLower(rec.Title)
		if _, seen := ix.byTitle[titleKey]; !seen {
			ix.titleKeys = append(ix.titleKeys, titleKey)
		}
		ix.byTitle[titleKey] = append(ix.byTitle[titleKey], IndexEntry{CIK: rec.CIK, Ticker: rec.Ticker})

		ix.byCIK[rec.CIK] = append(ix.byCIK[rec.CIK], IndexEntry{Ticker: rec.Ticker, Title: rec.Title})
	}

	return ix
}

// Len returns the number of source records the index was built from.
func (ix *CompanyIndex) Len() int {
	return ix.total
}

// SearchByTicker returns the bucket for a ticker, matched exactly and
// case-insensitively. Nil means no match.
func (ix *CompanyIndex) SearchByTicker(ticker string) []IndexEntry {
	return ix.byTicker[strings.ToLower(ticker)]
}

// SearchByCIK returns the bucket for an unpadded CIK string, matched
// exactly. Nil means no match.
func (ix *CompanyIndex) SearchByCIK(cik string) []IndexEntry {
	return ix.byCIK[cik]
}

// SearchByTitle searches company titles case-insensitively. With partial
// set, any title containing target as a substring matches; the scan is
// linear in the number of distinct titles, which is fine for a dataset
// loaded once per run. Without partial, only the exact bucket is
// returned. Nil means no match.
func (ix *CompanyIndex) SearchByTitle(target string, partial bool) []IndexEntry {
	key := strings.ToLower(target)
	if !partial {
		return ix.byTitle[key]
	}

	var result []IndexEntry
	for _, title := range ix.titleKeys {
		if strings.Contains(title, key) {
			result = append(result, ix.byTitle[title]...)
		}
	}
	return result
}
