package secsheets

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names used by the report layout.
const (
	SummarySheetName = "Company SEC Data Summary"
	FilingsSheetName = "SEC Filing Links"
	ProfileSheetName = "Company Summary"
)

// defaultSheetName is excelize's initial sheet, dropped on save when the
// report never wrote to it.
const defaultSheetName = "Sheet1"

// Workbook is the spreadsheet sink: it accepts named tables and single
// cells and writes an .xlsx file. It wraps an in-memory excelize file;
// nothing touches disk until SaveAs.
type Workbook struct {
	f       *excelize.File
	created map[string]bool
}

// NewWorkbook creates an empty in-memory workbook.
func NewWorkbook() *Workbook {
	return &Workbook{
		f:       excelize.NewFile(),
		created: make(map[string]bool),
	}
}

// ensureSheet creates the sheet if it does not exist yet.
func (w *Workbook) ensureSheet(name string) error {
	if w.created[name] {
		return nil
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	w.created[name] = true
	return nil
}

// AddSheetWithTable writes headers and rows as a table starting at A1,
// creating the sheet if needed.
func (w *Workbook) AddSheetWithTable(sheet string, headers []string, rows [][]any) error {
	return w.AddTableAt(sheet, "A1", headers, rows)
}

// AddTableAt writes headers and rows as a table whose top-left header
// cell is startCell, creating the sheet if needed.
func (w *Workbook) AddTableAt(sheet, startCell string, headers []string, rows [][]any) error {
	if err := w.ensureSheet(sheet); err != nil {
		return err
	}

	col, rowNum, err := excelize.CellNameToCoordinates(startCell)
	if err != nil {
		return fmt.Errorf("invalid start cell %q: %w", startCell, err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+i, rowNum)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+c, rowNum+1+r)
			if err != nil {
				return err
			}
			if err := w.f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetCell writes a single value, creating the sheet if needed.
func (w *Workbook) SetCell(sheet, cell string, value any) error {
	if err := w.ensureSheet(sheet); err != nil {
		return err
	}
	return w.f.SetCellValue(sheet, cell, value)
}

// SetFormula writes a formula cell, creating the sheet if needed.
func (w *Workbook) SetFormula(sheet, cell, formula string) error {
	if err := w.ensureSheet(sheet); err != nil {
		return err
	}
	return w.f.SetCellFormula(sheet, cell, formula)
}

// SaveAs drops the unused default sheet, activates the summary sheet
// when present, and writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if !w.created[defaultSheetName] && len(w.created) > 0 {
		if err := w.f.DeleteSheet(defaultSheetName); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	if w.created[SummarySheetName] {
		if idx, err := w.f.GetSheetIndex(SummarySheetName); err == nil && idx >= 0 {
			w.f.SetActiveSheet(idx)
		}
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return w.f.Close()
}

// ColumnLetter converts a 1-based column index to its letters
// (1 -> "A", 28 -> "AB").
func ColumnLetter(index int) (string, error) {
	name, err := excelize.ColumnNumberToName(index)
	if err != nil {
		return "", fmt.Errorf("invalid column index %d: %w", index, err)
	}
	return name, nil
}

// OffsetCell moves a cell reference right and down by the given steps.
// Negative steps move left and up; moving past column A or row 1 is an
// error.
func OffsetCell(cell string, right, down int) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return "", fmt.Errorf("invalid cell %q: %w", cell, err)
	}
	col += right
	row += down
	if col < 1 || row < 1 {
		return "", fmt.Errorf("cell offset out of bounds: %s %+d,%+d", cell, right, down)
	}
	return excelize.CoordinatesToCellName(col, row)
}

var nonWordChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SheetHyperlink builds the HYPERLINK formula linking to a sheet's A1
// cell. Sheet names containing anything beyond word characters are
// quoted inside the target.
func SheetHyperlink(sheetName string) string {
	target := sheetName
	if nonWordChars.MatchString(sheetName) {
		target = "'" + sheetName + "'"
	}
	return fmt.Sprintf(`HYPERLINK("#%s!A1", "%s")`, target, sheetName)
}

var illegalSheetChars = strings.NewReplacer(":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "")

// sanitizeSheetName strips characters Excel forbids in sheet names and
// truncates to the 31-character limit.
func sanitizeSheetName(name string) string {
	name = illegalSheetChars.Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

var factHeaders = []string{"end", "val", "accn", "fy", "fp", "form", "filed", "frame"}

// WriteFactsSheets writes one sheet per taxonomy concept plus the
// summary sheet that indexes them. Concept sheets are named
// {taxonomy}Sheet{n} with n counting per taxonomy; each carries a
// back-link to the summary in J1/J2, and the summary links forward to
// every concept sheet.
func WriteFactsSheets(wb *Workbook, facts *CompanyFacts) error {
	summaryHeaders := []string{
		"Taxonomy:", "Taxonomy Concept:", "Description:", "Data Units:",
		"Data Source Url:", "Sheet Name:", "Sheet Link:",
	}
	var summaryRows [][]any

	for _, taxonomy := range facts.Taxonomies {
		counter := 0
		for _, concept := range taxonomy.Concepts {
			counter++
			sheetName := sanitizeSheetName(fmt.Sprintf("%sSheet%d", taxonomy.Name, counter))

			rows := make([][]any, len(concept.Rows))
			for i, fact := range concept.Rows {
				rows[i] = []any{fact.End, fact.Val, fact.Accn, fact.FY, fact.FP, fact.Form, fact.Filed, fact.Frame}
			}
			if err := wb.AddSheetWithTable(sheetName, factHeaders, rows); err != nil {
				return err
			}

			if err := wb.SetCell(sheetName, "J1", "Link to Summary Sheet"); err != nil {
				return err
			}
			if err := wb.SetFormula(sheetName, "J2", SheetHyperlink(SummarySheetName)); err != nil {
				return err
			}

			summaryRows = append(summaryRows, []any{
				taxonomy.Name, concept.Label, concept.Description,
				concept.Units, concept.SourceURL, sheetName,
			})
		}
	}

	if err := wb.AddSheetWithTable(SummarySheetName, summaryHeaders, summaryRows); err != nil {
		return err
	}

	// The sheet-link column holds formulas, written after the value
	// table so they land in the otherwise empty G column.
	for i, row := range summaryRows {
		cell, err := OffsetCell("G2", 0, i)
		if err != nil {
			return err
		}
		sheetName, _ := row[5].(string)
		if err := wb.SetFormula(SummarySheetName, cell, SheetHyperlink(sheetName)); err != nil {
			return err
		}
	}
	return nil
}

var filingHeaders = []string{"Report Date:", "SEC Form Type:", "URL To Form:"}

// WriteFilingsSheet writes the filings sheet: one table per form type,
// each laid out four columns to the right of the previous one.
func WriteFilingsSheet(wb *Workbook, rows []FilingRow) error {
	forms, groups := GroupFilingsByForm(rows)

	startCell := "A1"
	for _, form := range forms {
		group := groups[form]
		tableRows := make([][]any, len(group))
		for i, row := range group {
			tableRows[i] = []any{row.ReportDate, row.Form, row.DataSourceURL}
		}
		if err := wb.AddTableAt(FilingsSheetName, startCell, filingHeaders, tableRows); err != nil {
			return err
		}

		next, err := OffsetCell(startCell, 4, 0)
		if err != nil {
			return err
		}
		startCell = next
	}

	// A company with no filings still gets the sheet with headers.
	if len(forms) == 0 {
		return wb.AddSheetWithTable(FilingsSheetName, filingHeaders, nil)
	}
	return nil
}

// WriteProfileSheet writes the company summary sheet: a header row of
// field names and one row of values.
func WriteProfileSheet(wb *Workbook, profile CompanyProfile) error {
	headers := []string{
		"cik", "entityType", "sic", "sicDescription", "ownerOrg",
		"insiderTransactionForOwner", "insiderTransactionForIssuer",
		"name", "ticker", "exchange", "ein", "description", "website",
		"investorWebsite", "category", "fiscalYearEnd",
		"stateOfIncorporation", "address", "phone",
	}
	row := []any{
		profile.CIK, profile.EntityType, profile.SIC, profile.SICDescription,
		profile.OwnerOrg, profile.InsiderTransactionForOwner,
		profile.InsiderTransactionForIssuer, profile.Name, profile.Ticker,
		profile.Exchange, profile.EIN, profile.Description, profile.Website,
		profile.InvestorWebsite, profile.Category, profile.FiscalYearEnd,
		profile.StateOfIncorporation, profile.Address, profile.Phone,
	}
	return wb.AddSheetWithTable(ProfileSheetName, headers, [][]any{row})
}

// BuildReport assembles the full workbook from fetched facts and
// submissions data.
func BuildReport(facts *CompanyFacts, subs *Submissions) (*Workbook, error) {
	wb := NewWorkbook()
	if err := WriteFactsSheets(wb, facts); err != nil {
		return nil, fmt.Errorf("failed to write facts sheets: %w", err)
	}
	if err := WriteFilingsSheet(wb, subs.FilingRows()); err != nil {
		return nil, fmt.Errorf("failed to write filings sheet: %w", err)
	}
	if err := WriteProfileSheet(wb, subs.Profile()); err != nil {
		return nil, fmt.Errorf("failed to write profile sheet: %w", err)
	}
	return wb, nil
}
