package app

import (
	"context"
	"fmt"
	"time"

	"customer_outreach_bot/internal/domain/customer"
	"customer_outreach_bot/internal/domain/outreach"

	"github.com/sirupsen/logrus"
)

// Mailer delivers one composed outreach message through the mail relay using
// the given sender's credential.
type Mailer interface {
	Send(ctx context.Context, sender outreach.SenderIdentity, to string, email outreach.GeneratedEmail, htmlBody string) error
}

// EmailComposer produces the personalized email for one recipient. It never
// fails; generation errors degrade to a fallback inside the composer.
type EmailComposer interface {
	Generate(ctx context.Context, c *customer.Customer, senderName string) outreach.GeneratedEmail
}

// OutreachService runs the notification pipeline: fetch unsent records,
// partition them across the sender pool, generate and send one email per
// recipient, and mark successes as sent. Delivery is at-least-once: a failed
// send leaves the record unsent so the next cycle retries it.
type OutreachService struct {
	customerRepo customer.Repository
	composer     EmailComposer
	mailer       Mailer
	senders      []outreach.SenderIdentity
	sendDelay    time.Duration
	logger       *logrus.Logger
}

func NewOutreachService(
	customerRepo customer.Repository,
	composer EmailComposer,
	mailer Mailer,
	senders []outreach.SenderIdentity,
	sendDelay time.Duration,
	logger *logrus.Logger,
) *OutreachService {
	return &OutreachService{
		customerRepo: customerRepo,
		composer:     composer,
		mailer:       mailer,
		senders:      senders,
		sendDelay:    sendDelay,
		logger:       logger,
	}
}

// RunCycle executes one complete notification pass.
func (s *OutreachService) RunCycle(ctx context.Context) error {
	unsent, err := s.customerRepo.ListUnsent(ctx)
	if err != nil {
		return fmt.Errorf("listing unsent customers: %w", err)
	}
	if len(unsent) == 0 {
		s.logger.Info("No customers awaiting outreach.")
		return nil
	}
	s.logger.Infof("Found %d customers who haven't been sent emails yet.", len(unsent))

	batches := outreach.Distribute(unsent, len(s.senders))

	sent := 0
	for i, sender := range s.senders {
		for _, c := range batches[i] {
			if err := s.sendOne(ctx, sender, c); err != nil {
				s.logger.Errorf("Failed to send to %s from %s: %v", c.Email, sender.Email, err)
			} else {
				sent++
			}

			// Fixed inter-message delay to respect outbound rate limits.
			select {
			case <-ctx.Done():
				s.logger.Warnf("Outreach cycle interrupted: %v", ctx.Err())
				s.logger.Infof("Total emails sent in this cycle: %d", sent)
				return ctx.Err()
			case <-time.After(s.sendDelay):
			}
		}
	}

	s.logger.Infof("Total emails sent in this cycle: %d", sent)
	return nil
}

func (s *OutreachService) sendOne(ctx context.Context, sender outreach.SenderIdentity, c *customer.Customer) error {
	email := s.composer.Generate(ctx, c, sender.Name)
	htmlBody := outreach.RenderHTML(email.Body)

	if err := s.mailer.Send(ctx, sender, c.Email, email, htmlBody); err != nil {
		// Leave the record unsent; it is re-selected next cycle.
		return err
	}

	if err := s.customerRepo.MarkSent(ctx, c.ID); err != nil {
		// The mail went out but the flag didn't stick; the record will be
		// retried next cycle, which is the accepted at-least-once outcome.
		s.logger.Errorf("Email sent to %s but marking record %d failed: %v", c.Email, c.ID, err)
		return nil
	}

	s.logger.Infof("Personalized email sent from %s <%s> to %s", sender.Name, sender.Email, c.Email)
	s.logger.Infof("Subject: %s", truncateSubject(email.Subject))
	return nil
}

func truncateSubject(subject string) string {
	if len(subject) > 40 {
		return subject[:40] + "..."
	}
	return subject
}
