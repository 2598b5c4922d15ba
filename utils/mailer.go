package utils

import (
	"log"

	"gopkg.in/gomail.v2"

	"food-donation-server/config"
)

// SendEmailNotification delivers an email through SMTP. When SMTP is not
// configured the message is logged instead of sent, so callers can always
// fire-and-forget. Delivery errors are returned but callers are expected
// to treat them as best-effort.
func SendEmailNotification(toEmail, subject, message string) error {
	smtp := config.AppConfig.SMTP
	if smtp.Host == "" || smtp.Email == "" {
		log.Printf("[EMAIL] To: %s", toEmail)
		log.Printf("[EMAIL] Subject: %s", subject)
		log.Printf("[EMAIL] Message: %s", message)
		return nil
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", smtp.Email)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/plain", message)

	dialer := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Email, smtp.Password)

	if err := dialer.DialAndSend(mailer); err != nil {
		log.Printf("⚠️ Failed to send email to %s: %v", toEmail, err)
		return err
	}

	return nil
}
