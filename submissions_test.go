package secsheets

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSubmissions(t *testing.T) *Submissions {
	t.Helper()
	f, err := os.Open("testdata/submissions.json")
	require.NoError(t, err)
	defer f.Close()

	subs, err := ParseSubmissions(f)
	require.NoError(t, err)
	return subs
}

func TestParseSubmissions(t *testing.T) {
	subs := loadSubmissions(t)

	assert.Equal(t, "320193", subs.CIK)
	assert.Equal(t, "Apple Inc.", subs.Name)
	assert.Equal(t, []string{"AAPL"}, subs.Tickers)
	assert.Equal(t, []string{"Nasdaq"}, subs.Exchanges)
	assert.Equal(t, "CA", subs.StateOfIncorporation)
	assert.Len(t, subs.Filings.Recent.AccessionNumber, 3)
	assert.Len(t, subs.Filings.Files, 1)
}

func TestProfile(t *testing.T) {
	profile := loadSubmissions(t).Profile()

	assert.Equal(t, "320193", profile.CIK)
	assert.Equal(t, "Apple Inc.", profile.Name)
	assert.Equal(t, "AAPL", profile.Ticker, "only the primary listing is kept")
	assert.Equal(t, "Nasdaq", profile.Exchange)
	assert.Equal(t, "Electronic Computers", profile.SICDescription)
	assert.Equal(t, 1, profile.InsiderTransactionForIssuer)
	assert.Equal(t, "ONE APPLE PARK WAY, CUPERTINO, CA 95014", profile.Address)
}

func TestProfileWithoutListings(t *testing.T) {
	subs := &Submissions{CIK: "99", Name: "Private Co"}
	profile := subs.Profile()

	assert.Empty(t, profile.Ticker)
	assert.Empty(t, profile.Exchange)
}

func TestAddressString(t *testing.T) {
	a := Address{Street1: "ONE APPLE PARK WAY", City: "CUPERTINO", StateOrCountry: "CA", ZipCode: "95014"}
	assert.Equal(t, "ONE APPLE PARK WAY, CUPERTINO, CA 95014", a.String())
}

func TestArchiveURL(t *testing.T) {
	got := ArchiveURL("0000320193", "0000320193-24-000123", "aapl-20240928.htm")
	want := "https://www.sec.gov/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm"
	assert.Equal(t, want, got)
}

func TestFilingRows(t *testing.T) {
	rows := loadSubmissions(t).FilingRows()
	require.Len(t, rows, 3)

	assert.Equal(t, FilingRow{
		ReportDate:    "2024-09-28",
		Form:          "10-K",
		DataSourceURL: "https://www.sec.gov/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm",
	}, rows[0])

	// The Form 4 has no report date; it reads "N/A" rather than blank.
	assert.Equal(t, "N/A", rows[2].ReportDate)
	assert.Equal(t, "4", rows[2].Form)
}

func TestFilingRowsRaggedArrays(t *testing.T) {
	subs := &Submissions{
		CIK: "100",
		Filings: FilingsData{Recent: FilingArrays{
			AccessionNumber: []string{"0000000100-24-000001", "0000000100-24-000002"},
			ReportDate:      []string{"2024-01-01"},
			Form:            []string{"10-K"},
		}},
	}
	rows := subs.FilingRows()
	require.Len(t, rows, 2)

	assert.Equal(t, "2024-01-01", rows[0].ReportDate)
	assert.Equal(t, "N/A", rows[1].ReportDate)
	assert.Equal(t, "N/A", rows[1].Form)
}

func TestGroupFilingsByForm(t *testing.T) {
	rows := []FilingRow{
		{ReportDate: "2024-09-28", Form: "10-K"},
		{ReportDate: "2024-06-29", Form: "10-Q"},
		{ReportDate: "2024-03-30", Form: "10-Q"},
		{ReportDate: "N/A", Form: "4"},
	}
	forms, groups := GroupFilingsByForm(rows)

	assert.Equal(t, []string{"10-K", "10-Q", "4"}, forms)
	assert.Len(t, groups["10-Q"], 2)
	assert.Equal(t, "2024-06-29", groups["10-Q"][0].ReportDate, "rows keep source order within a group")
}
