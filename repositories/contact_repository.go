package repositories

import (
	"asso-cms/models"

	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(message *models.ContactMessage) error
	GetList(page, limit int) ([]models.ContactMessage, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(message *models.ContactMessage) error {
	return r.db.Create(message).Error
}

func (r *contactRepository) GetList(page, limit int) ([]models.ContactMessage, int64, error) {
	var messages []models.ContactMessage
	var total int64

	query := r.db.Model(&models.ContactMessage{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&messages).Error

	return messages, total, err
}
