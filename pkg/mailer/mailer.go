// Package mailer sends plain text email over SMTP with STARTTLS.
package mailer

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

const dialTimeout = 5 * time.Second
const sessionDeadline = 15 * time.Second

// Mailer sends mail through a single SMTP account.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

// New creates a Mailer. An empty host leaves the mailer unconfigured; Send
// then fails, which callers treat as a logged, non-fatal condition.
func New(host string, port int, username, password, from, fromName string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

// Send delivers a plain text email to one recipient.
func (m *Mailer) Send(to, subject, body string) error {
	if m.host == "" || m.from == "" {
		return fmt.Errorf("smtp not configured")
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.fromName), m.from),
		"To":           to,
		"Subject":      mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(sessionDeadline))

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	if m.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth failed: %w", err)
			}
		}
	}

	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT failed: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write([]byte(msg.String())); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return c.Quit()
}
