package outreach

import "strings"

// Fixed contact details embedded in every outreach email.
const (
	ContactPhone = "+1-408-215-1583"
	phoneHref    = "tel:+14082151583"

	CTAPhrase = "Book A Free Consultation"
	ctaHref   = "https://www.slideteam.net/questionnaire/"
)

// closingPhrases are checked in order; the CTA is inserted before the first
// one found. "Best regards," must precede "Regards," so the longer phrase wins.
var closingPhrases = []string{
	"Best regards,",
	"Regards,",
	"Sincerely,",
	"Thanks,",
	"Thank you,",
	"Warm regards,",
	"Yours truly,",
}

// RenderHTML converts a plain-text email body into the HTML alternative part:
// newlines become <br>, the contact phone number becomes a tap-to-call link,
// ellipsis-only spacer lines are dropped, and the call-to-action phrase is
// hyperlinked in place if present, otherwise inserted before the closing
// salutation (or appended when no salutation is found).
func RenderHTML(plain string) string {
	html := strings.ReplaceAll(plain, "\n", "<br>")

	html = strings.ReplaceAll(html, ContactPhone,
		"<b><a href='"+phoneHref+"'>"+ContactPhone+"</a></b>")

	// Ellipsis-only lines exist purely for spacing; both the ASCII and the
	// unicode middle-dot variants show up in generated bodies.
	html = strings.ReplaceAll(html, "<br>...<br>", "<br>")
	html = strings.ReplaceAll(html, "<br>···<br>", "<br>")

	linkedCTA := "<b><a href='" + ctaHref + "'>" + CTAPhrase + "</a></b>"
	if strings.Contains(html, CTAPhrase) {
		return strings.ReplaceAll(html, CTAPhrase, linkedCTA)
	}

	for _, phrase := range closingPhrases {
		if idx := strings.Index(html, phrase); idx >= 0 {
			return html[:idx] + linkedCTA + html[idx:]
		}
	}
	return html + linkedCTA
}
