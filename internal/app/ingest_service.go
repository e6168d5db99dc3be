package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"customer_outreach_bot/internal/domain/customer"
	idb "customer_outreach_bot/internal/infra/database"
	"customer_outreach_bot/internal/infra/ingest"

	"github.com/sirupsen/logrus"
)

// FileFetcher retrieves the remote customer-data export as row records.
type FileFetcher interface {
	Fetch(ctx context.Context, fileURL string) ([]ingest.Row, error)
}

// IngestService loads new, non-excluded records from the remote export into
// the store: fetch, filter, dedupe, insert. Row-level failures are logged and
// skipped; a store connectivity failure aborts the pass so the next scheduled
// cycle retries it whole.
type IngestService struct {
	fetcher         FileFetcher
	customerRepo    customer.Repository
	fileURL         string
	excludedDomains []string
	logger          *logrus.Logger
}

func NewIngestService(
	fetcher FileFetcher,
	customerRepo customer.Repository,
	fileURL string,
	excludedDomains []string,
	logger *logrus.Logger,
) *IngestService {
	return &IngestService{
		fetcher:         fetcher,
		customerRepo:    customerRepo,
		fileURL:         fileURL,
		excludedDomains: excludedDomains,
		logger:          logger,
	}
}

// RunCycle executes one complete ingestion pass. A pass over a file with zero
// eligible rows is a normal outcome, not an error.
func (s *IngestService) RunCycle(ctx context.Context) error {
	rows, err := s.fetcher.Fetch(ctx, s.fileURL)
	if err != nil {
		return fmt.Errorf("fetching customer data: %w", err)
	}
	s.logger.Infof("Fetched customer data file: %d rows", len(rows))

	inserted := 0
	for i, row := range rows {
		c, err := customerFromRow(row)
		if err != nil {
			s.logger.Warnf("Skipping row %d: %v", i+1, err)
			continue
		}

		if customer.ExcludedEmail(c.Email, s.excludedDomains) {
			s.logger.Debugf("Email %s matches an excluded domain. Skipping insert.", c.Email)
			continue
		}

		exists, err := s.customerRepo.Exists(ctx, c.Email)
		if err != nil {
			// Connectivity failure: abort the pass instead of re-inserting
			// records we cannot verify. The next tick retries.
			return fmt.Errorf("checking existence of %s: %w", c.Email, err)
		}
		if exists {
			s.logger.Debugf("Email %s already exists in the store. Skipping insert.", c.Email)
			continue
		}

		if err := s.customerRepo.Insert(ctx, c); err != nil {
			if errors.Is(err, idb.ErrDuplicateEmail) {
				// A concurrent writer beat the existence check; same outcome
				// as the exists branch above.
				s.logger.Infof("Email %s inserted concurrently. Skipping.", c.Email)
				continue
			}
			s.logger.Errorf("Failed to insert record for %s: %v", c.Email, err)
			continue
		}
		inserted++
	}

	s.logger.Infof("Ingestion cycle complete: %d of %d rows inserted", inserted, len(rows))
	return nil
}

// customerFromRow extracts the required and optional fields from one export
// row. A missing required field yields an error so the row is skipped.
func customerFromRow(row ingest.Row) (*customer.Customer, error) {
	name, ok := row["Name"]
	if !ok {
		return nil, fmt.Errorf("missing column Name")
	}
	email, ok := row["Email"]
	if !ok || email == "" {
		return nil, fmt.Errorf("missing required field Email")
	}
	accountTS, ok := row["Account_Timestamp"]
	if !ok || accountTS == "" {
		return nil, fmt.Errorf("missing required field Account_Timestamp")
	}
	downloadsRaw, ok := row["No_Of_Downloads"]
	if !ok || downloadsRaw == "" {
		return nil, fmt.Errorf("missing required field No_Of_Downloads")
	}
	downloads, err := strconv.Atoi(downloadsRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid No_Of_Downloads %q: %w", downloadsRaw, err)
	}
	freeOrPaid, ok := row["Free_or_Paid"]
	if !ok || freeOrPaid == "" {
		return nil, fmt.Errorf("missing required field Free_or_Paid")
	}

	return &customer.Customer{
		Name:             name,
		Email:            email,
		AccountTimestamp: accountTS,
		NoOfDownloads:    downloads,
		DownloadURLs:     nullableString(row["Download_URLs"]),
		VisitedURLs:      nullableString(row["Visited_URLs"]),
		FreeOrPaid:       freeOrPaid,
	}, nil
}

func nullableString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
