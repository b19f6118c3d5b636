package secsheets

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	limiter := NewRateLimiter(1000, time.Minute)
	return NewClient(limiter, "dev@secsheets.dev"), srv
}

func TestFetchReturnsBody(t *testing.T) {
	var gotUserAgent string
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"ok":true}`))
	})

	body := c.Fetch(srv.URL)
	require.NotNil(t, body)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, BuildUserAgent("dev@secsheets.dev"), gotUserAgent)
}

func TestFetchReturnsNilOnNonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		if body := c.Fetch(srv.URL); body != nil {
			t.Errorf("status %d: expected nil payload, got %q", status, body)
		}
	}
}

func TestFetchReturnsNilOnTransportError(t *testing.T) {
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	if body := c.Fetch(srv.URL); body != nil {
		t.Errorf("expected nil payload on transport error, got %q", body)
	}
}

func TestFetchConsumesRateLimiterSlot(t *testing.T) {
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	})

	before := c.limiter.calls
	c.Fetch(srv.URL)
	c.Fetch(srv.URL)
	assert.Equal(t, before+2, c.limiter.calls)
}

func TestFetchJSON(t *testing.T) {
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Apple Inc"}`))
	})

	var payload struct {
		Name string `json:"name"`
	}
	require.True(t, c.FetchJSON(srv.URL, &payload))
	assert.Equal(t, "Apple Inc", payload.Name)
}

func TestFetchJSONReportsBadPayload(t *testing.T) {
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	var payload map[string]any
	assert.False(t, c.FetchJSON(srv.URL, &payload))
}

func TestNewClientDefaultsLimiter(t *testing.T) {
	c := NewClient(nil, "dev@secsheets.dev")
	require.NotNil(t, c.limiter)
	assert.Equal(t, DefaultMaxCalls, c.limiter.maxCalls)
	assert.Equal(t, DefaultWindow, c.limiter.window)
}

func TestGetSecEmail(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		t.Setenv(SecEmailEnvVar, "")
		_, err := GetSecEmail()
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Setenv(SecEmailEnvVar, "not-an-email")
		_, err := GetSecEmail()
		assert.Error(t, err)
	})

	t.Run("example.com rejected", func(t *testing.T) {
		t.Setenv(SecEmailEnvVar, "dev@example.com")
		_, err := GetSecEmail()
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		t.Setenv(SecEmailEnvVar, "dev@secsheets.dev")
		email, err := GetSecEmail()
		require.NoError(t, err)
		assert.Equal(t, "dev@secsheets.dev", email)
	})
}

func TestPadCIK(t *testing.T) {
	assert.Equal(t, "0000320193", padCIK("320193"))
	assert.Equal(t, "0000320193", padCIK("0000320193"))
}
