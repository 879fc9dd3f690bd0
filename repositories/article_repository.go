package repositories

import (
	"asso-cms/models"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetList(params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error)
	Update(article *models.Article) error
	ReplaceTags(article *models.Article, tags []models.Tag) error
	Delete(id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").
		Preload("Tags").
		First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Sort columns are whitelisted; user input is never interpolated into SQL.
var articleSortColumns = map[string]string{
	"created_at":   "articles.created_at",
	"published_at": "articles.published_at",
	"updated_at":   "articles.updated_at",
	"title":        "articles.title",
}

func (r *articleRepository) GetList(params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.Model(&models.Article{}).Preload("Author").Preload("Tags")

	// Anonymous callers only ever see published articles.
	if isPublic {
		query = query.Where("articles.status = ?", models.StatusPublished)
	} else if params.Status != "" {
		query = query.Where("articles.status = ?", params.Status)
	}

	if params.Category != "" {
		query = query.Where("articles.category = ?", params.Category)
	}

	if params.AuthorID > 0 {
		query = query.Where("articles.author_id = ?", params.AuthorID)
	}

	if params.TagID > 0 {
		query = query.Joins("JOIN article_tags ON articles.id = article_tags.article_id").
			Where("article_tags.tag_id = ?", params.TagID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortColumn, ok := articleSortColumns[params.SortBy]
	if !ok {
		sortColumn = "articles.created_at"
	}
	sortOrder := "desc"
	if params.SortOrder == "asc" {
		sortOrder = "asc"
	}
	query = query.Order(sortColumn + " " + sortOrder)

	offset := (params.Page - 1) * params.Limit
	err := query.Offset(offset).Limit(params.Limit).Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) Update(article *models.Article) error {
	return r.db.Save(article).Error
}

func (r *articleRepository) ReplaceTags(article *models.Article, tags []models.Tag) error {
	return r.db.Model(article).Association("Tags").Replace(tags)
}

func (r *articleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Article{}, id).Error
}
