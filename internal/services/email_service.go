package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email, code string) error
	SendPermitDecision(email, permitNumber, status string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

// SendVerificationCode — код уходит только в письме и нигде больше.
func (s *emailService) SendVerificationCode(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your Verification Code")

	m.SetBody("text/plain", fmt.Sprintf("Your verification code is: %s", code))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *emailService) SendPermitDecision(email, permitNumber, status string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Permit %s: %s", permitNumber, status))

	body := fmt.Sprintf(`
		<h3>Permit to Work update</h3>
		<p>Permit <strong>%s</strong> has been <strong>%s</strong>.</p>
		<p>If you were not expecting this update, contact your site manager.</p>
	`, permitNumber, status)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send permit decision email: %w", err)
	}
	return nil
}
