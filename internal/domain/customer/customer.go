package customer

import (
	"database/sql"
)

// Customer represents one record of the customer-data export persisted in the
// user_data_excluded table.
type Customer struct {
	ID               int64
	Name             string // may be blank; pipelines substitute a generic greeting
	Email            string // unique key for dedupe
	AccountTimestamp string
	NoOfDownloads    int
	DownloadURLs     sql.NullString // raw delimited text as exported
	VisitedURLs      sql.NullString // raw delimited text as exported
	FreeOrPaid       string
	EmailSent        sql.NullInt64 // 0/NULL = unsent, 1 = sent
}

// Sent reports whether an outreach email has already gone out to this customer.
func (c *Customer) Sent() bool {
	return c.EmailSent.Valid && c.EmailSent.Int64 == 1
}
