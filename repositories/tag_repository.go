package repositories

import (
	"asso-cms/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	FindOrCreateByNames(names []string) ([]models.Tag, error)
	GetList() ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindOrCreateByNames(names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		err := r.db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *tagRepository) GetList() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("name asc").Find(&tags).Error
	return tags, err
}
