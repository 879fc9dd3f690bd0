package config

import (
	"log"
	"os"

	"asso-cms/mail"
)

// WebBaseURL is the public site address used to build links in emails.
func WebBaseURL() string {
	return envOr("WEB_BASE_URL", "http://localhost:3000")
}

// ContactInbox is the association address contact-form notifications go to.
func ContactInbox() string {
	return os.Getenv("CONTACT_INBOX")
}

func InitMailer() mail.Mailer {
	m, err := mail.NewClient(
		os.Getenv("SMTP_HOST"),
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASSWORD"),
		envOr("SMTP_FROM", `"Association" <noreply@localhost>`),
		os.Getenv("SMTP_SKIP_VERIFY") == "true",
	)
	if err != nil {
		log.Fatal("Failed to configure mail client:", err)
	}
	if !m.IsEnabled() {
		log.Println("Mail: DISABLED")
	}
	return m
}
