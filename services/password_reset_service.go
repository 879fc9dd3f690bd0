package services

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/url"
	"text/template"
	"time"

	"asso-cms/mail"
	"asso-cms/models"
	"asso-cms/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	resetTokenBytes = 32 // 256 bits of entropy, hex-encoded
	resetTokenTTL   = time.Hour
)

var resetEmailTmpl = template.Must(template.New("resetEmail").Parse(
	`Bonjour {{.FirstName}},

Une demande de réinitialisation de mot de passe a été effectuée pour votre compte.
Cliquez sur le lien ci-dessous pour choisir un nouveau mot de passe. Ce lien est
valable pendant 1 heure et ne peut être utilisé qu'une seule fois.

{{.Link}}

Si vous n'êtes pas à l'origine de cette demande, vous pouvez ignorer ce message.
`))

const resetEmailSubject = "Réinitialisation de votre mot de passe"

type PasswordResetService interface {
	Issue(email string) error
	Consume(token, password string) (*models.User, error)
	Verify(token string) error
}

type passwordResetService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.ResetTokenRepository
	mailer    mail.Mailer
	baseURL   string
}

func NewPasswordResetService(userRepo repositories.UserRepository, tokenRepo repositories.ResetTokenRepository, mailer mail.Mailer, baseURL string) PasswordResetService {
	return &passwordResetService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		baseURL:   baseURL,
	}
}

// Issue creates a single-use reset token and mails its link to the account
// holder. A request for an unknown address returns nil exactly like the
// found case: the response never reveals whether an account exists. A token
// is never left behind without a successfully sent notification.
func (s *passwordResetService) Issue(email string) error {
	email = NormalizeEmail(email)
	if email == "" || !ValidEmail(email) {
		return models.ErrorBadRequest{Message: "invalid email address"}
	}

	start := time.Now()

	user, err := s.userRepo.GetActiveByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sleepRemainder(start)
			return nil
		}
		return models.ErrorInternalServer{Message: "failed to look up user"}
	}

	tokenValue, err := generateResetToken()
	if err != nil {
		return models.ErrorInternalServer{Message: "failed to generate token"}
	}

	// Prior tokens, expired ones included, are superseded. Delete and
	// insert run in one transaction so a failed insert leaves the previous
	// token intact.
	token := &models.PasswordResetToken{
		Token:     tokenValue,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.tokenRepo.Replace(user.ID, token); err != nil {
		return models.ErrorInternalServer{Message: "failed to store token"}
	}

	body, err := s.buildResetEmail(user.FirstName, tokenValue)
	if err != nil {
		s.rollbackToken(token.ID)
		return models.ErrorInternalServer{Message: "failed to build reset email"}
	}

	if err := s.mailer.SendTo(resetEmailSubject, body, []string{user.Email}); err != nil {
		s.rollbackToken(token.ID)
		return models.ErrorInternalServer{Message: "failed to send reset email, please retry"}
	}

	return nil
}

// Consume validates a reset token and atomically rewrites the password,
// marks the token used, and discards the user's other tokens.
func (s *passwordResetService) Consume(tokenValue, password string) (*models.User, error) {
	if tokenValue == "" {
		return nil, models.ErrorBadRequest{Message: "token is required"}
	}
	if password == "" {
		return nil, models.ErrorBadRequest{Message: "password is required"}
	}
	if len(password) < minPasswordLen {
		return nil, models.ErrorBadRequest{Message: "password must be at least 6 characters"}
	}

	token, err := s.lookupUsable(tokenValue)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to hash password"}
	}

	if err := s.tokenRepo.Consume(token, string(hashed)); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to reset password"}
	}

	return token.User.Public(), nil
}

// Verify runs the Consume checks without mutating anything, so the reset
// page can validate a link before showing the form.
func (s *passwordResetService) Verify(tokenValue string) error {
	if tokenValue == "" {
		return models.ErrorBadRequest{Message: "token is required"}
	}

	token, err := s.tokenRepo.GetUnused(tokenValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorBadRequest{Message: "invalid or already used token"}
		}
		return models.ErrorInternalServer{Message: "failed to look up token"}
	}
	if token.Expired(time.Now()) {
		return models.ErrorBadRequest{Message: "expired token"}
	}
	if !token.User.Active {
		return models.ErrorBadRequest{Message: "account disabled"}
	}
	return nil
}

// lookupUsable fetches the unused token row and applies expiry and
// account-state checks. Expired rows are deleted on the way out.
func (s *passwordResetService) lookupUsable(tokenValue string) (*models.PasswordResetToken, error) {
	token, err := s.tokenRepo.GetUnused(tokenValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorBadRequest{Message: "invalid or already used token"}
		}
		return nil, models.ErrorInternalServer{Message: "failed to look up token"}
	}

	if token.Expired(time.Now()) {
		if err := s.tokenRepo.Delete(token.ID); err != nil {
			log.Println("Failed to delete expired reset token:", err)
		}
		return nil, models.ErrorBadRequest{Message: "expired token"}
	}

	if !token.User.Active {
		return nil, models.ErrorBadRequest{Message: "account disabled"}
	}

	return token, nil
}

func (s *passwordResetService) buildResetEmail(firstName, tokenValue string) (string, error) {
	link, err := url.Parse(s.baseURL + "/reset-password")
	if err != nil {
		return "", err
	}
	q := link.Query()
	q.Set("token", tokenValue)
	link.RawQuery = q.Encode()

	var buf bytes.Buffer
	err = resetEmailTmpl.Execute(&buf, struct {
		FirstName string
		Link      string
	}{firstName, link.String()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *passwordResetService) rollbackToken(id uint) {
	if err := s.tokenRepo.Delete(id); err != nil {
		log.Println("Failed to roll back reset token:", err)
	}
}

func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
