package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEnrollmentEmail notifies a learner that their purchase completed and the
// course is unlocked. Best effort: callers fire it from a goroutine and only
// the log sees failures.
func SendEnrollmentEmail(toEmail, toName, courseTitle string) error {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Println("SENDGRID_API_KEY not set, skipping enrollment email")
		return nil
	}

	from := mail.NewEmail("LMS Academy", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	subject := "You're enrolled: " + courseTitle

	plain := fmt.Sprintf("Hi %s,\n\nYour payment was received and you now have full access to \"%s\". Happy learning!", toName, courseTitle)
	html := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
		<h2>Welcome to %s!</h2>
		<p>Hi %s,</p>
		<p>Your payment was received and every lecture is now unlocked for you.</p>
		<p><a href="%s" style="display:inline-block;padding:12px 24px;background:#2563eb;color:#fff;text-decoration:none;border-radius:4px;">Start learning</a></p>
		<p style="color:#666;font-size:12px;">If you did not make this purchase, please contact support.</p>
	</div>`, courseTitle, toName, config.AppConfig.FrontendURL)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)

	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending enrollment email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("Enrollment email to %s rejected: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid rejected email: %d", resp.StatusCode)
	}
	return nil
}
