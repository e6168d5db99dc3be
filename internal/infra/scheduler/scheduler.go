package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleRunner is a pipeline that can execute one complete cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// OutreachScheduler drives the periodic pipelines on independent fixed-period
// timers. Each job is wrapped so that a new run is suppressed while the prior
// one is still in flight; a pipeline run is never preempted and never
// overlaps itself against the store.
type OutreachScheduler struct {
	cronEngine *cron.Cron
	logger     *logrus.Logger
}

func NewOutreachScheduler(logger *logrus.Logger) *OutreachScheduler {
	return &OutreachScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		logger: logger,
	}
}

// AddPipeline registers a pipeline to run every interval. Each invocation
// gets a context bounded by timeout; errors are logged, never fatal, so the
// pipeline retries at its next scheduled tick.
func (s *OutreachScheduler) AddPipeline(name string, interval, timeout time.Duration, runner CycleRunner) error {
	spec := fmt.Sprintf("@every %s", interval)
	_, err := s.cronEngine.AddFunc(spec, func() {
		s.logger.Infof("Cron job triggered for %s pipeline.", name)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := runner.RunCycle(ctx); err != nil {
			s.logger.Errorf("Error during %s cycle: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("could not add %s pipeline job: %w", name, err)
	}
	return nil
}

func (s *OutreachScheduler) Start() {
	s.cronEngine.Start()
	s.logger.Info("Outreach scheduler started with jobs.")
}

func (s *OutreachScheduler) Stop() {
	s.logger.Info("Stopping outreach scheduler...")
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Outreach scheduler gracefully stopped.")
}
