package models

import (
	"time"

	"gorm.io/gorm"
)

type ArticleCategory string

const (
	CategoryEvent          ArticleCategory = "event"
	CategoryTestimonial    ArticleCategory = "testimonial"
	CategoryDigital        ArticleCategory = "digital"
	CategoryAdministrative ArticleCategory = "administrative"
	CategorySupport        ArticleCategory = "support"
	CategoryWellbeing      ArticleCategory = "wellbeing"
	CategoryJunior         ArticleCategory = "junior"
)

func (c ArticleCategory) Valid() bool {
	switch c {
	case CategoryEvent, CategoryTestimonial, CategoryDigital,
		CategoryAdministrative, CategorySupport, CategoryWellbeing, CategoryJunior:
		return true
	}
	return false
}

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

func (s ArticleStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type Article struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	AuthorID    uint            `json:"author_id" gorm:"not null"`
	Author      User            `json:"author" gorm:"foreignKey:AuthorID"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description"`
	Content     string          `json:"content" gorm:"type:text"`
	Category    ArticleCategory `json:"category" gorm:"not null;index"`
	Status      ArticleStatus   `json:"status" gorm:"default:'draft';index"`

	// Event fields, only meaningful for category "event".
	Location             string `json:"location,omitempty"`
	Capacity             *int   `json:"capacity,omitempty"`
	RegistrationRequired bool   `json:"registration_required"`

	Tags        []Tag          `json:"tags" gorm:"many2many:article_tags;"`
	PublishedAt *time.Time     `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
