package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = ` Name ,Email,Account Timestamp,No Of Downloads,Download URLs,Visited URLs,Free or Paid
Alice,alice@acme.com,2025-04-01 10:00:00,3,,https://www.slideteam.net/p1,free
Bob,bob@beta.io,2025-04-02 11:30:00,0,,,paid
`

func TestFetchCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	rows, err := NewFetcher().Fetch(context.Background(), srv.URL+"/customer_data.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Header names are normalized: trimmed, commas stripped, spaces to underscores.
	assert.Equal(t, "Alice", rows[0]["Name"])
	assert.Equal(t, "alice@acme.com", rows[0]["Email"])
	assert.Equal(t, "2025-04-01 10:00:00", rows[0]["Account_Timestamp"])
	assert.Equal(t, "3", rows[0]["No_Of_Downloads"])
	assert.Equal(t, "https://www.slideteam.net/p1", rows[0]["Visited_URLs"])
	assert.Equal(t, "free", rows[0]["Free_or_Paid"])
	assert.Equal(t, "paid", rows[1]["Free_or_Paid"])
}

func TestFetchUnsupportedExtension(t *testing.T) {
	_, err := NewFetcher().Fetch(context.Background(), "http://example.com/customer_data.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFetchNoExtension(t *testing.T) {
	_, err := NewFetcher().Fetch(context.Background(), "http://example.com/customer_data")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFetchNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL+"/customer_data.csv")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetchMalformedCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Name,Email\n\"unterminated,quote\n"))
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL+"/data.csv")
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestFetchMalformedXLSX(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a spreadsheet"))
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL+"/data.xlsx")
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestFetchEmptyCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(""))
	}))
	defer srv.Close()

	rows, err := NewFetcher().Fetch(context.Background(), srv.URL+"/data.csv")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Name ", "Name"},
		{"No, Of Downloads", "No_Of_Downloads"},
		{"Account Timestamp", "Account_Timestamp"},
		{"Email", "Email"},
	}
	for _, tt := range tests {
		if got := NormalizeColumn(tt.in); got != tt.want {
			t.Errorf("NormalizeColumn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher().Fetch(ctx, srv.URL+"/data.csv")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}
