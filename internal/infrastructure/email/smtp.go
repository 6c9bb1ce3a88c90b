package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"tablier/internal/shared/config"
)

// SMTPNotifier sends billing notification emails over SMTP.
type SMTPNotifier struct {
	config config.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPNotifier(cfg config.EmailConfig) *SMTPNotifier {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	return &SMTPNotifier{
		config: cfg,
		dialer: dialer,
	}
}

// NotifyPaymentConfirmed sends the payment confirmation email for a newly
// reconciled subscription.
func (s *SMTPNotifier) NotifyPaymentConfirmed(ctx context.Context, to, plan string) error {
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}

	subject := "Your subscription is active"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Payment Confirmed</h2>
			<p>Thank you for subscribing. Your <strong>%s</strong> plan is now active.</p>
			<p>You can manage your subscription at any time from the billing portal in your account settings.</p>
			<p>If you didn't make this purchase, please contact support immediately.</p>
		</body>
		</html>
	`, plan)

	plainBody := fmt.Sprintf(`
Payment Confirmed

Thank you for subscribing. Your %s plan is now active.

You can manage your subscription at any time from the billing portal in your account settings.

If you didn't make this purchase, please contact support immediately.
	`, plan)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
