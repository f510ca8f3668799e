package utils

import (
	"context"
	"log"

	"feira_back_end/internal/config"

	"github.com/wneessen/go-mail"
)

// Mailer envia os emails transacionais via SMTP.
// Sem SMTP_HOST configurado, só registra no log.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *Mailer) Enabled() bool {
	return m.host != ""
}

func (m *Mailer) buildMessage(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := m.buildMessage(to, subject, htmlBody)
	if err != nil {
		return err
	}

	if !m.Enabled() {
		log.Printf("📭 SMTP não configurado, email para %s descartado: %s", to, subject)
		return nil
	}

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Enviando email para", to)
	return client.DialAndSendWithContext(ctx, msg)
}
