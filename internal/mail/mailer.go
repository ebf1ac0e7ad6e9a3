package mail

import (
	"fmt"
	"log"
	"net/smtp"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Mailer sends transactional mail over SMTP. When no credentials are
// configured it runs in dev mode and logs instead of sending, so the reset
// flow stays usable on a laptop without a mail account.
type Mailer struct {
	cfg     Config
	devMode bool
}

func New(cfg Config) *Mailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Mailer{cfg: cfg, devMode: cfg.Username == "" || cfg.Password == ""}
}

// SendPasswordResetOTP mails the one-time code to the address.
func (m *Mailer) SendPasswordResetOTP(to, code string) error {
	subject := "Password Reset OTP"
	body := fmt.Sprintf("Your OTP for password reset is: %s. It expires in 5 minutes.", code)

	if m.devMode {
		log.Printf("[mail] dev mode, not sending: to=%s subject=%q body=%q", to, subject, body)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
