package repositories

import (
	"asso-cms/models"

	"gorm.io/gorm"
)

type ResetTokenRepository interface {
	Create(token *models.PasswordResetToken) error
	GetUnused(token string) (*models.PasswordResetToken, error)
	Delete(id uint) error
	DeleteByUser(userID uint) error
	Replace(userID uint, token *models.PasswordResetToken) error
	Consume(token *models.PasswordResetToken, passwordHash string) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

// GetUnused returns the unused token row with its owning user, or
// gorm.ErrRecordNotFound.
func (r *resetTokenRepository) GetUnused(token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := r.db.Preload("User").
		Where("token = ? AND used = ?", token, false).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *resetTokenRepository) Delete(id uint) error {
	return r.db.Delete(&models.PasswordResetToken{}, id).Error
}

func (r *resetTokenRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error
}

// Replace supersedes the user's previous reset tokens with the new one.
// Delete and insert commit or roll back together, so a failed insert never
// destroys a still-usable predecessor.
func (r *resetTokenRepository) Replace(userID uint, token *models.PasswordResetToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

// Consume applies the password rewrite, marks the token used, and removes
// the user's other reset tokens in a single transaction. All three effects
// commit or roll back together.
func (r *resetTokenRepository) Consume(token *models.PasswordResetToken, passwordHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", token.UserID).
			Update("password", passwordHash).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PasswordResetToken{}).
			Where("id = ?", token.ID).
			Update("used", true).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ? AND id <> ?", token.UserID, token.ID).
			Delete(&models.PasswordResetToken{}).Error
	})
}
