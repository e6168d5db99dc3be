package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"customer_outreach_bot/internal/domain/customer"
	"customer_outreach_bot/internal/domain/outreach"
	"customer_outreach_bot/internal/infra/titlescrape"

	"github.com/sirupsen/logrus"
)

// TitleResolver resolves a product-page URL to its human-readable title text.
type TitleResolver interface {
	PageTitle(ctx context.Context, pageURL string) (string, error)
}

// ContentGenerator produces raw completion text for a prompt.
type ContentGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// genericName greets customers whose export row carries no name.
const genericName = "Valued Customer"

// promptTemplate carries the persona and formatting instructions handed to
// the generator. {Name}, {Email} and {Page_Titles} are substituted per
// recipient.
const promptTemplate = `{Name} who's email address is {Email}, visited multiple pages on my website.
Here is information about the pages they visited:
{Page_Titles}

Read this information and try to understand what {Name} is looking for on my website slideteam. On the basis of their browsing history(visited pages), write an email where I can pitch {Name} my presentation services which includes presentation design, content research, and everything related to presentation.

1. Don't include topic in email
2. Include generic information about the topics in email, and make it a click bait email with subject line
3. Don't tell {Name} that we are tracking their browsing history
4. Introduce yourself as a presentation designer
5. Give CTA to this number <a href="tel:+14082151583">+1-408-215-1583</a>
6. Add this line at the end of the email: "Book A Free Consultation"
7. Very important: After "Regards," or "Best regards," or similar closing, DO NOT include any name, contact information, or position/title. End the email with just the closing (e.g., "Best regards,") and nothing else after that.
IMPORTANT: Format your response with "Subject:" followed by the email subject on the first line, then the email body after that.`

// namePlaceholderRe matches the bracketed signature placeholders generators
// like to leave behind, e.g. "[Your Name]" or "[full name]".
var namePlaceholderRe = regexp.MustCompile(`(?i)\[(?:your |my |full )?(?:full )?name\]`)

// ContentService builds the personalized outreach email for one recipient. It
// never fails: every error path degrades to a fixed fallback template so the
// notification pipeline always has a usable email.
type ContentService struct {
	generator           ContentGenerator
	titles              TitleResolver
	excludedURLPrefixes []string
	logger              *logrus.Logger
}

func NewContentService(
	generator ContentGenerator,
	titles TitleResolver,
	excludedURLPrefixes []string,
	logger *logrus.Logger,
) *ContentService {
	return &ContentService{
		generator:           generator,
		titles:              titles,
		excludedURLPrefixes: excludedURLPrefixes,
		logger:              logger,
	}
}

// Generate produces the subject and plain-text body for this customer, signed
// with the sender's display name.
func (s *ContentService) Generate(ctx context.Context, c *customer.Customer, senderName string) outreach.GeneratedEmail {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = genericName
	}

	pageTitles := s.resolvePageTitles(ctx, c.VisitedURLs.String)
	prompt := buildPrompt(name, c.Email, pageTitles)

	raw, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warnf("Content generation failed for %s, using fallback: %v", c.Email, err)
		return fallbackEmail(name, senderName)
	}

	subject, body := splitSubject(raw, name)
	if subject == "" {
		s.logger.Warnf("No subject line in generated content for %s. Using default subject.", c.Email)
		subject = defaultSubject(name)
	}
	body = namePlaceholderRe.ReplaceAllString(body, senderName)

	return outreach.GeneratedEmail{Subject: subject, Body: body}
}

// resolvePageTitles turns the raw visited-URL text into a newline-separated
// list of page titles. Every lookup failure degrades to a generic placeholder;
// this method never returns an error.
func (s *ContentService) resolvePageTitles(ctx context.Context, visitedURLs string) string {
	urls := cleanURLList(visitedURLs)

	filtered := urls[:0]
	for _, u := range urls {
		if !s.excludedURL(u) {
			filtered = append(filtered, u)
		}
	}
	if len(filtered) == 0 {
		return "No specific product pages were visited."
	}

	titles := make([]string, 0, len(filtered))
	for _, u := range filtered {
		title, err := s.titles.PageTitle(ctx, u)
		switch {
		case err == nil:
			titles = append(titles, title)
		case errors.Is(err, titlescrape.ErrPageNotFound):
			s.logger.Warnf("Page not found for URL %s", u)
			titles = append(titles, "Visited a page that no longer exists")
		case errors.Is(err, titlescrape.ErrNoTitle):
			titles = append(titles, "Visited a page but no title found")
		default:
			s.logger.Warnf("Could not resolve title for URL %s: %v", u, err)
			titles = append(titles, "Visited a page (couldn't retrieve title)")
		}
	}
	return strings.Join(titles, "\n")
}

func (s *ContentService) excludedURL(u string) bool {
	for _, prefix := range s.excludedURLPrefixes {
		if strings.HasPrefix(u, prefix) {
			return true
		}
	}
	return false
}

// cleanURLList splits the raw visited-URL text on newlines (or commas when no
// newline is present) and strips whitespace, quotes and trailing commas from
// each token.
func cleanURLList(raw string) []string {
	if raw == "" {
		return nil
	}

	var tokens []string
	if strings.Contains(raw, "\n") {
		tokens = strings.Split(raw, "\n")
	} else {
		tokens = strings.Split(raw, ",")
	}

	urls := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		// Tokens arrive in shapes like `"url",` so quotes, commas and
		// whitespace are trimmed as one cutset.
		clean := strings.Trim(tok, "\"', \t\r")
		if clean != "" {
			urls = append(urls, clean)
		}
	}
	return urls
}

func buildPrompt(name, email, pageTitles string) string {
	r := strings.NewReplacer(
		"{Name}", name,
		"{Email}", email,
		"{Page_Titles}", pageTitles,
	)
	return r.Replace(promptTemplate)
}

// splitSubject looks for a "Subject:" marker within the first 5 lines. When
// found, the marker line becomes the subject and everything after it the
// body; otherwise the subject is empty and the body is the whole text.
func splitSubject(raw string, name string) (subject, body string) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		if strings.HasPrefix(strings.ToLower(lines[i]), "subject:") {
			subject = strings.TrimSpace(lines[i][len("subject:"):])
			body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return subject, body
		}
	}
	return "", strings.TrimSpace(raw)
}

func defaultSubject(name string) string {
	return fmt.Sprintf("Custom Presentation Services for %s", name)
}

// fallbackEmail is the fixed template used whenever generation fails. It is
// parameterized only by the recipient and sender names; no generator output
// leaks into it.
func fallbackEmail(name, senderName string) outreach.GeneratedEmail {
	body := fmt.Sprintf(
		"Dear %s,\n\nI hope this message finds you well. My name is %s, and I am a professional presentation designer.\n\n"+
			"I noticed you've been exploring our presentation services at SlideTeam. I'd love to discuss how we can help you create impactful presentations tailored to your specific needs.\n\n"+
			"Please feel free to reach out to me at %s to discuss further.\n\nBest regards,",
		name, senderName, outreach.ContactPhone)
	return outreach.GeneratedEmail{
		Subject: defaultSubject(name),
		Body:    body,
	}
}
