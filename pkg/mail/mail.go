package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jordan-wright/email"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

type Mailer interface {
	SendOTP(ctx context.Context, to, code string, ttl time.Duration) error
	SendPasswordReset(ctx context.Context, to, link string, ttl time.Duration) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	AppName  string
}

type SMTPMailer struct {
	cfg  SMTPConfig
	addr string
	auth smtp.Auth
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		cfg:  cfg,
		addr: cfg.Host + ":" + strconv.Itoa(cfg.Port),
		auth: auth,
	}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	html, err := render(otpTemplate, templateData{AppName: m.cfg.AppName, Code: code, Minutes: int(ttl.Minutes())})
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Your verification code is: %s. This code will expire in %d minutes.", code, int(ttl.Minutes()))
	return m.send(ctx, to, "Your Login OTP Code", text, html)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string, ttl time.Duration) error {
	html, err := render(resetTemplate, templateData{AppName: m.cfg.AppName, Link: link, Minutes: int(ttl.Minutes())})
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Reset your password: %s (valid for %d minutes).", link, int(ttl.Minutes()))
	return m.send(ctx, to, "Password Reset Request", text, html)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, text string, html []byte) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.cfg.AppName, m.cfg.From)
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(text)
	e.HTML = html

	done := make(chan error, 1)
	go func() { done <- e.Send(m.addr, m.auth) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: send %q: %w", subject, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer only records that a message would have been sent. Codes and links are never logged.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendOTP(ctx context.Context, to, _ string, ttl time.Duration) error {
	m.logger(ctx).Info("mail_skipped", "kind", "otp", "to", to, "ttl", ttl.String())
	return nil
}

func (m LogMailer) SendPasswordReset(ctx context.Context, to, _ string, ttl time.Duration) error {
	m.logger(ctx).Info("mail_skipped", "kind", "password_reset", "to", to, "ttl", ttl.String())
	return nil
}

func (m LogMailer) logger(ctx context.Context) *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return logging.FromContext(ctx)
}

type templateData struct {
	AppName string
	Code    string
	Link    string
	Minutes int
}

var otpTemplate = template.Must(template.New("otp").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>{{.AppName}} login verification</h2>
  <p>Use the code below to finish signing in:</p>
  <div style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</div>
  <p>This code will expire in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
</div>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>{{.AppName}} password reset</h2>
  <p>Click the link below to choose a new password:</p>
  <p><a href="{{.Link}}">Reset password</a></p>
  <p>The link is valid for {{.Minutes}} minutes.</p>
</div>`))

func render(t *template.Template, data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("mail: render %s: %w", t.Name(), err)
	}
	return buf.Bytes(), nil
}
