package customer

import "strings"

// ExcludedEmail reports whether addr belongs to one of the excluded domain
// suffixes. Matching is a case-insensitive suffix check against the whole
// address, mirroring the membership rule applied at ingestion time. Note this
// also matches longer domains that merely end with a configured entry (e.g.
// "aol.com" matches "someaol.com"); the over-exclusion is accepted rather than
// silently tightening the semantics.
func ExcludedEmail(addr string, suffixes []string) bool {
	lower := strings.ToLower(addr)
	for _, s := range suffixes {
		if s == "" {
			continue
		}
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
