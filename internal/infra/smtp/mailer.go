package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"customer_outreach_bot/internal/domain/outreach"

	"github.com/google/uuid"
)

// Mailer submits composed messages to an authenticated SMTP relay over
// STARTTLS. Credentials come per-send from the sender identity, so one Mailer
// serves the whole pool.
type Mailer struct {
	host      string
	port      int
	ccAddress string
	timeout   time.Duration
}

func NewMailer(host string, port int, ccAddress string) *Mailer {
	return &Mailer{
		host:      host,
		port:      port,
		ccAddress: ccAddress,
		timeout:   30 * time.Second,
	}
}

// Send composes a multipart/alternative message (plain + HTML) and delivers
// it to the recipient with the fixed CC address.
func (m *Mailer) Send(ctx context.Context, sender outreach.SenderIdentity, to string, email outreach.GeneratedEmail, htmlBody string) error {
	msg := m.buildMessage(sender, to, email, htmlBody)

	recipients := []string{to}
	if m.ccAddress != "" {
		recipients = append(recipients, m.ccAddress)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := m.submit(ctx, addr, sender, recipients, msg); err != nil {
		return fmt.Errorf("SMTP send to %s failed: %w", to, err)
	}
	return nil
}

func (m *Mailer) buildMessage(sender outreach.SenderIdentity, to string, email outreach.GeneratedEmail, htmlBody string) []byte {
	boundary := "=_" + uuid.New().String()[:16]
	messageID := fmt.Sprintf("%s@outreach", uuid.New().String())

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", sender.Name, sender.Email)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	if m.ccAddress != "" {
		fmt.Fprintf(&buf, "Cc: %s\r\n", m.ccAddress)
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", email.Subject)
	fmt.Fprintf(&buf, "Message-ID: <%s>\r\n", messageID)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	buf.WriteString(email.Body)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}

// submit performs the raw SMTP transaction: STARTTLS, AUTH PLAIN with the
// sender's credential, then one MAIL/RCPT/DATA exchange for all recipients.
func (m *Mailer) submit(ctx context.Context, addr string, sender outreach.SenderIdentity, recipients []string, msg []byte) error {
	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("STARTTLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", sender.Email, sender.Password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("AUTH for %s: %w", sender.Email, err)
	}

	if err := client.Mail(sender.Email); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	return client.Quit()
}
