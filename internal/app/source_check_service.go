package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ExportIndex reads the export listing page and reports when the latest
// customer-data file was published.
type ExportIndex interface {
	ExportTimestamp(ctx context.Context, indexURL string) (string, error)
}

// SourceCheckService polls the export index page and logs the timestamp of
// the latest export, giving operators a cheap signal that the upstream feed
// is still moving.
type SourceCheckService struct {
	index    ExportIndex
	indexURL string
	logger   *logrus.Logger
}

func NewSourceCheckService(index ExportIndex, indexURL string, logger *logrus.Logger) *SourceCheckService {
	return &SourceCheckService{index: index, indexURL: indexURL, logger: logger}
}

// RunCycle performs one poll of the export index.
func (s *SourceCheckService) RunCycle(ctx context.Context) error {
	ts, err := s.index.ExportTimestamp(ctx, s.indexURL)
	if err != nil {
		return fmt.Errorf("reading export index: %w", err)
	}
	s.logger.Infof("Timestamp found: %s", ts)
	return nil
}
