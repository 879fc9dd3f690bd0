package services

import (
	"fmt"
	"log"

	"asso-cms/mail"
	"asso-cms/models"
	"asso-cms/repositories"
)

type ContactService interface {
	Submit(req models.ContactRequest) (*models.ContactMessage, error)
	GetMessages(page, limit int) ([]models.ContactMessage, int64, error)
}

type contactService struct {
	contactRepo repositories.ContactRepository
	mailer      mail.Mailer
	inbox       string
}

func NewContactService(contactRepo repositories.ContactRepository, mailer mail.Mailer, inbox string) ContactService {
	return &contactService{contactRepo: contactRepo, mailer: mailer, inbox: inbox}
}

func (s *contactService) Submit(req models.ContactRequest) (*models.ContactMessage, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || !ValidEmail(email) {
		return nil, models.ErrorBadRequest{Message: "invalid email address"}
	}

	message := &models.ContactMessage{
		Name:    req.Name,
		Email:   email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.contactRepo.Create(message); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to save message"}
	}

	// Notification to the association inbox is best effort. The message is
	// already persisted, so a mail outage must not fail the request.
	if s.inbox != "" && s.mailer.IsEnabled() {
		subject := "Nouveau message de contact"
		if req.Subject != "" {
			subject = subject + " : " + req.Subject
		}
		body := fmt.Sprintf("De : %s <%s>\n\n%s\n", req.Name, email, req.Message)
		if err := s.mailer.SendTo(subject, body, []string{s.inbox}); err != nil {
			log.Println("Failed to send contact notification:", err)
		}
	}

	return message, nil
}

func (s *contactService) GetMessages(page, limit int) ([]models.ContactMessage, int64, error) {
	messages, total, err := s.contactRepo.GetList(page, limit)
	if err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to list messages"}
	}
	return messages, total, nil
}
