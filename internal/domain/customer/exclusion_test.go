package customer

import "testing"

func TestExcludedEmail(t *testing.T) {
	suffixes := []string{"gmail.com", "yahoo.co.uk", "aol.com"}

	tests := []struct {
		name     string
		addr     string
		suffixes []string
		want     bool
	}{
		{
			name:     "excluded domain",
			addr:     "john@gmail.com",
			suffixes: suffixes,
			want:     true,
		},
		{
			name:     "business domain passes",
			addr:     "jane@acme-corp.com",
			suffixes: suffixes,
			want:     false,
		},
		{
			name:     "case insensitive address",
			addr:     "John@GMAIL.COM",
			suffixes: suffixes,
			want:     true,
		},
		{
			name:     "case insensitive suffix",
			addr:     "john@yahoo.co.uk",
			suffixes: []string{"YAHOO.CO.UK"},
			want:     true,
		},
		{
			name:     "suffix matches longer domain",
			addr:     "bob@someaol.com",
			suffixes: suffixes,
			want:     true, // membership is a raw suffix check, matching ingestion semantics
		},
		{
			name:     "empty suffix list never excludes",
			addr:     "john@gmail.com",
			suffixes: nil,
			want:     false,
		},
		{
			name:     "empty entries are ignored",
			addr:     "john@acme.com",
			suffixes: []string{"", ""},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExcludedEmail(tt.addr, tt.suffixes); got != tt.want {
				t.Errorf("ExcludedEmail(%q, %v) = %v, want %v", tt.addr, tt.suffixes, got, tt.want)
			}
		})
	}
}
