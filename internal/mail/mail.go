package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/Eric21111/expense-tracker-sub001/internal/config"
)

// Mailer sends the transactional mails (verification codes, password resets,
// budget alerts) over SMTP. All sends are best effort; callers log failures
// and move on.
type Mailer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != ""
}

func (m *Mailer) SendVerificationCode(to, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, m.cfg.CodeTTLMin)
	return m.send(to, "Verify your email", body)
}

func (m *Mailer) SendPasswordResetCode(to, code string) error {
	body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.\n\nIf you did not request this, you can ignore this email.", code, m.cfg.CodeTTLMin)
	return m.send(to, "Reset your password", body)
}

func (m *Mailer) SendBudgetAlert(to, category, level string, percentage float64) error {
	subject := fmt.Sprintf("Budget alert: %s", category)
	var body string
	if level == "exceeded" {
		body = fmt.Sprintf("You have spent %.0f%% of your %s budget. The limit is exceeded.", percentage, category)
	} else {
		body = fmt.Sprintf("You have spent %.0f%% of your %s budget.", percentage, category)
	}
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("smtp not configured")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.MailFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	return d.DialAndSend(msg)
}
