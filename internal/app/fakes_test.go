package app

import (
	"context"
	"io"
	"sort"
	"sync"

	"customer_outreach_bot/internal/domain/customer"
	"customer_outreach_bot/internal/domain/outreach"
	"customer_outreach_bot/internal/infra/ingest"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeFetcher struct {
	rows []ingest.Row
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, fileURL string) ([]ingest.Row, error) {
	return f.rows, f.err
}

// memoryRepo is an in-memory customer.Repository used by the pipeline tests.
type memoryRepo struct {
	mu        sync.Mutex
	byEmail   map[string]*customer.Customer
	nextID    int64
	inserts   int
	existsErr error
	insertErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]*customer.Customer)}
}

func (r *memoryRepo) Exists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memoryRepo) Insert(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.nextID++
	c.ID = r.nextID
	r.byEmail[c.Email] = c
	r.inserts++
	return nil
}

func (r *memoryRepo) ListUnsent(ctx context.Context) ([]*customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*customer.Customer
	for _, c := range r.byEmail {
		if !c.Sent() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) MarkSent(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byEmail {
		if c.ID == id {
			c.EmailSent.Valid = true
			c.EmailSent.Int64 = 1
			return nil
		}
	}
	return nil
}

type fakeGenerator struct {
	resp       string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.resp, nil
}

type fakeTitles struct {
	titles map[string]string
	errs   map[string]error
	calls  []string
}

func (f *fakeTitles) PageTitle(ctx context.Context, pageURL string) (string, error) {
	f.calls = append(f.calls, pageURL)
	if err, ok := f.errs[pageURL]; ok {
		return "", err
	}
	return f.titles[pageURL], nil
}

type sentMessage struct {
	sender   outreach.SenderIdentity
	to       string
	email    outreach.GeneratedEmail
	htmlBody string
}

type fakeMailer struct {
	failFor map[string]error
	sent    []sentMessage
}

func (m *fakeMailer) Send(ctx context.Context, sender outreach.SenderIdentity, to string, email outreach.GeneratedEmail, htmlBody string) error {
	if err, ok := m.failFor[to]; ok {
		return err
	}
	m.sent = append(m.sent, sentMessage{sender: sender, to: to, email: email, htmlBody: htmlBody})
	return nil
}

type fakeComposer struct{}

func (fakeComposer) Generate(ctx context.Context, c *customer.Customer, senderName string) outreach.GeneratedEmail {
	return outreach.GeneratedEmail{
		Subject: "Hello " + c.Name,
		Body:    "Hi " + c.Name + ",\n\nFrom " + senderName + "\n\nBest regards,",
	}
}
