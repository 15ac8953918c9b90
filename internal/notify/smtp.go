package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"clinic-timesheet-bot/internal/models"
)

// SMTPConfig - параметры почтового сервера
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.To != ""
}

// Mail отправляет уведомление письмом на адрес администратора
type Mail struct {
	cfg     SMTPConfig
	timeout time.Duration
}

func NewMail(cfg SMTPConfig) *Mail {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &Mail{cfg: cfg, timeout: 10 * time.Second}
}

func (m *Mail) Notify(ctx context.Context, event models.NotificationEvent) error {
	return m.send(ctx, Subject(event), Body(event))
}

func (m *Mail) send(ctx context.Context, subject, body string) error {
	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprint(m.cfg.Port))

	dialer := net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}

	if m.cfg.User != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(m.cfg.To); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(m.cfg.From, m.cfg.To, subject, body)); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mimeWord(subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"Content-Transfer-Encoding: 8bit",
		"",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n" + strings.ReplaceAll(body, "\n", "\r\n"))
}

// mimeWord кодирует тему с не-ASCII символами
func mimeWord(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.QEncoding.Encode("utf-8", s)
		}
	}
	return s
}
