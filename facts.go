package secsheets

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FactRow is one reported data point of a taxonomy concept, as delivered
// by the companyfacts API: period end, value, accession number, fiscal
// year, fiscal period, form type, filed date and frame label.
type FactRow struct {
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	Accn  string  `json:"accn"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
	Frame string  `json:"frame"`
}

// ConceptSeries is one concept of a taxonomy with its fact rows, already
// corrected by CorrectFactRow.
type ConceptSeries struct {
	Taxonomy    string
	Concept     string
	Label       string
	Description string
	Units       string
	SourceURL   string
	Rows        []FactRow
}

// TaxonomyFacts groups the concepts of one taxonomy (e.g. us-gaap, dei).
type TaxonomyFacts struct {
	Name     string
	Concepts []ConceptSeries
}

// CompanyFacts is the structured companyfacts payload for one company.
// Taxonomies and concepts are sorted by name for deterministic sheet
// layout.
type CompanyFacts struct {
	CIK        string
	EntityName string
	Taxonomies []TaxonomyFacts
}

// factsDocument matches the raw companyfacts JSON shape.
type factsDocument struct {
	CIK        json.Number                       `json:"cik"`
	EntityName string                            `json:"entityName"`
	Facts      map[string]map[string]conceptJSON `json:"facts"`
}

type conceptJSON struct {
	Label       string               `json:"label"`
	Description string               `json:"description"`
	Units       map[string][]FactRow `json:"units"`
}

// FetchCompanyFacts downloads and parses the companyfacts data for a CIK
// through the shared client.
func FetchCompanyFacts(c *Client, cik string) (*CompanyFacts, error) {
	body := c.Fetch(fmt.Sprintf(companyFactsURLFmt, padCIK(cik)))
	if body == nil {
		return nil, fmt.Errorf("no company facts data for CIK %s", cik)
	}
	return ParseCompanyFacts(body, cik)
}

// ParseCompanyFacts parses a companyfacts payload into sorted taxonomy
// and concept tables. Each concept keeps a single unit series (the first
// unit key in sorted order) and every row passes through CorrectFactRow.
func ParseCompanyFacts(data []byte, cik string) (*CompanyFacts, error) {
	var doc factsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse company facts JSON: %w", err)
	}

	facts := &CompanyFacts{
		CIK:        cik,
		EntityName: doc.EntityName,
	}

	taxonomies := make([]string, 0, len(doc.Facts))
	for name := range doc.Facts {
		taxonomies = append(taxonomies, name)
	}
	sort.Strings(taxonomies)

	for _, taxonomy := range taxonomies {
		conceptsByName := doc.Facts[taxonomy]

		concepts := make([]string, 0, len(conceptsByName))
		for name := range conceptsByName {
			concepts = append(concepts, name)
		}
		sort.Strings(concepts)

		tf := TaxonomyFacts{Name: taxonomy}
		for _, concept := range concepts {
			raw := conceptsByName[concept]

			series := ConceptSeries{
				Taxonomy:    taxonomy,
				Concept:     concept,
				Label:       raw.Label,
				Description: raw.Description,
				SourceURL:   ConceptSourceURL(cik, taxonomy, concept),
			}

			unit := firstUnitKey(raw.Units)
			if unit != "" {
				series.Units = unit
				rows := raw.Units[unit]
				series.Rows = make([]FactRow, len(rows))
				for i, row := range rows {
					series.Rows[i] = CorrectFactRow(row)
				}
			}

			tf.Concepts = append(tf.Concepts, series)
		}
		facts.Taxonomies = append(facts.Taxonomies, tf)
	}

	return facts, nil
}

// ConceptSourceURL returns the companyConcept endpoint for a single
// taxonomy concept.
func ConceptSourceURL(cik, taxonomy, concept string) string {
	return fmt.Sprintf(companyConceptFmt, padCIK(cik), taxonomy, concept)
}

// firstUnitKey picks the unit series to export when a concept reports in
// several units. Keys are compared sorted so the choice is stable.
func firstUnitKey(units map[string][]FactRow) string {
	if len(units) == 0 {
		return ""
	}
	keys := make([]string, 0, len(units))
	for k := range units {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// CorrectFactRow normalizes the fy/fp/frame columns of a raw fact row
// and returns the corrected copy. The companyfacts API leaves these
// fields inconsistently populated; the rules are:
//
//  1. fp empty or "FY", frame empty: fp becomes the "N/A" sentinel and
//     frame is derived as CY{fy}.
//  2. frame empty, fp a valid non-annual period: frame is derived as
//     CY{fy}{fp}I.
//  3. fp empty or "FY", frame of length 6 (no quarter): fp becomes "N/A".
//  4. fp empty or "FY", frame of length >= 9: fp is read out of the
//     frame's quarter segment (frame[6:8]).
//
// Combinations outside these four cases are returned unchanged; the API
// emits such rows (e.g. a quarterly fp with a populated frame) and they
// need no repair.
func CorrectFactRow(row FactRow) FactRow {
	fpAnnual := row.FP == "" || row.FP == "FY"

	switch {
	case fpAnnual && row.Frame == "":
		row.FP = "N/A"
		row.Frame = fmt.Sprintf("CY%d", row.FY)
	case row.Frame == "" && !fpAnnual:
		row.Frame = fmt.Sprintf("CY%d%sI", row.FY, row.FP)
	case fpAnnual && len(row.Frame) == 6:
		row.FP = "N/A"
	case fpAnnual && len(row.Frame) >= 9:
		row.FP = row.Frame[6:8]
	}
	return row
}
