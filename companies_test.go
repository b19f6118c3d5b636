package secsheets

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyListJSON = `{
	"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc"},
	"1": {"cik_str": 789019, "ticker": "MSFT", "title": "Microsoft Corp"},
	"2": {"cik_str": 1018724, "ticker": "AMZN", "title": "Amazon Com Inc"},
	"10": {"cik_str": 1318605, "ticker": "TSLA", "title": "Tesla, Inc."}
}`

func TestParseCompanyList(t *testing.T) {
	records, err := ParseCompanyList([]byte(companyListJSON))
	require.NoError(t, err)

	want := []CompanyRecord{
		{CIK: "320193", Ticker: "AAPL", Title: "Apple Inc"},
		{CIK: "789019", Ticker: "MSFT", Title: "Microsoft Corp"},
		{CIK: "1018724", Ticker: "AMZN", Title: "Amazon Com Inc"},
		{CIK: "1318605", Ticker: "TSLA", Title: "Tesla, Inc."},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("company list mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCompanyListOrdersNumerically(t *testing.T) {
	// Key "10" must come after key "2", not between "1" and "2".
	records, err := ParseCompanyList([]byte(companyListJSON))
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "TSLA", records[3].Ticker)
}

func TestParseCompanyListPreservesDuplicates(t *testing.T) {
	data := `{
		"0": {"cik_str": 100, "ticker": "ABC", "title": "Abc Holdings"},
		"1": {"cik_str": 200, "ticker": "ABC", "title": "Abc Holdings"}
	}`
	records, err := ParseCompanyList([]byte(data))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseCompanyListBadJSON(t *testing.T) {
	_, err := ParseCompanyList([]byte("not json"))
	assert.Error(t, err)
}

func TestFetchCompanyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(companyListJSON))
	}))
	defer srv.Close()

	c := NewClient(NewRateLimiter(100, time.Minute), "dev@secsheets.dev")

	body := c.Fetch(srv.URL)
	require.NotNil(t, body)

	records, err := ParseCompanyList(body)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestFetchCompanyListEmpty(t *testing.T) {
	records, err := ParseCompanyList([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}
