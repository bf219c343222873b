package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
)

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

// EmailSender delivers alert summaries over SMTP as multipart
// text/HTML messages.
type EmailSender struct {
	cfg EmailConfig

	// sendMail is injectable for tests; defaults to smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender creates an SMTP alert sender.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg, sendMail: smtp.SendMail}
}

// Name identifies the channel in dispatch logs.
func (s *EmailSender) Name() string { return "email" }

// Send delivers one message summarizing the given alerts.
func (s *EmailSender) Send(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	if s.cfg.Host == "" {
		return eris.New("notify: email host not configured")
	}
	if len(s.cfg.Recipients) == 0 {
		return eris.New("notify: no email recipients configured")
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "notify: email send")
	}

	msg := buildMIME(s.cfg.From, s.cfg.Recipients, Subject(alerts), RenderText(alerts), RenderHTML(alerts))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, s.cfg.Recipients, msg); err != nil {
		return eris.Wrapf(err, "notify: send email via %s", addr)
	}

	zap.L().Info("alert email sent",
		zap.Int("alerts", len(alerts)),
		zap.Int("recipients", len(s.cfg.Recipients)))
	return nil
}

// SendText delivers a plain-text message, used for the weekly digest.
func (s *EmailSender) SendText(ctx context.Context, subject, body string) error {
	if s.cfg.Host == "" {
		return eris.New("notify: email host not configured")
	}
	if len(s.cfg.Recipients) == 0 {
		return eris.New("notify: no email recipients configured")
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "notify: email send")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(s.cfg.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, auth, s.cfg.From, s.cfg.Recipients, []byte(b.String())); err != nil {
		return eris.Wrapf(err, "notify: send email via %s", addr)
	}

	zap.L().Info("digest email sent", zap.Int("recipients", len(s.cfg.Recipients)))
	return nil
}

const mimeBoundary = "=_talent_radar_alt"

// buildMIME assembles a multipart/alternative message with text and HTML
// parts.
func buildMIME(from string, to []string, subject, textBody, htmlBody string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)

	return []byte(b.String())
}
