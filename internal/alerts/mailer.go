package alerts

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
)

type smtpConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var mailCfg smtpConfig

// ConfigureMailer sets the SMTP settings used by SendEmail.
func ConfigureMailer(host, port, username, password, from string) {
	mailCfg = smtpConfig{Host: host, Port: port, Username: username, Password: password, From: from}
}

// SendEmail sends a plain text email using SMTP with TLS. Without a
// configured host it logs the message instead, which keeps development
// setups working without a mail server.
func SendEmail(to, subject, body string) error {
	if mailCfg.Host == "" {
		log.Info().Str("to", to).Str("subject", subject).Msg("smtp not configured; dropping email")
		return nil
	}

	addr := mailCfg.Host + ":" + mailCfg.Port
	msg := fmt.Sprintf("From: %s\r\n", mailCfg.From)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/plain; charset=\"utf-8\"\r\n"
	msg += "\r\n" + body + "\r\n"

	tlsConfig := &tls.Config{ServerName: mailCfg.Host}
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, mailCfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Quit()

	if mailCfg.Username != "" {
		auth := smtp.PlainAuth("", mailCfg.Username, mailCfg.Password, mailCfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(mailCfg.From); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}
