package services

import (
	"errors"
	"time"

	"asso-cms/models"
	"asso-cms/repositories"

	"gorm.io/gorm"
)

type ArticleService interface {
	CreateArticle(req models.CreateArticleRequest, authorID uint) (*models.Article, error)
	GetArticle(id uint, isPublic bool) (*models.Article, error)
	GetArticles(params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error)
	UpdateArticle(id uint, req models.UpdateArticleRequest, actorID uint, actorRole models.UserRole) (*models.Article, error)
	DeleteArticle(id uint, actorID uint, actorRole models.UserRole) error
	GetTags() ([]models.Tag, error)
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	tagRepo     repositories.TagRepository
}

func NewArticleService(articleRepo repositories.ArticleRepository, tagRepo repositories.TagRepository) ArticleService {
	return &articleService{articleRepo: articleRepo, tagRepo: tagRepo}
}

func (s *articleService) CreateArticle(req models.CreateArticleRequest, authorID uint) (*models.Article, error) {
	if !req.Category.Valid() {
		return nil, models.ErrorBadRequest{Message: "invalid category"}
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return nil, models.ErrorBadRequest{Message: "invalid status"}
	}

	tags, err := s.tagRepo.FindOrCreateByNames(req.Tags)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to resolve tags"}
	}

	article := &models.Article{
		AuthorID:             authorID,
		Title:                req.Title,
		Description:          req.Description,
		Content:              req.Content,
		Category:             req.Category,
		Status:               status,
		Location:             req.Location,
		Capacity:             req.Capacity,
		RegistrationRequired: req.RegistrationRequired,
		Tags:                 tags,
	}
	if status == models.StatusPublished {
		now := time.Now()
		article.PublishedAt = &now
	}

	if err := s.articleRepo.Create(article); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to create article"}
	}

	return s.GetArticle(article.ID, false)
}

func (s *articleService) GetArticle(id uint, isPublic bool) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "article not found"}
		}
		return nil, models.ErrorInternalServer{Message: "failed to load article"}
	}

	// Drafts are invisible to anonymous callers.
	if isPublic && article.Status != models.StatusPublished {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	return article, nil
}

func (s *articleService) GetArticles(params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	articles, total, err := s.articleRepo.GetList(params, isPublic)
	if err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to list articles"}
	}
	return articles, total, nil
}

func (s *articleService) UpdateArticle(id uint, req models.UpdateArticleRequest, actorID uint, actorRole models.UserRole) (*models.Article, error) {
	article, err := s.GetArticle(id, false)
	if err != nil {
		return nil, err
	}

	if err := checkOwnership(article, actorID, actorRole); err != nil {
		return nil, err
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Description != nil {
		article.Description = *req.Description
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, models.ErrorBadRequest{Message: "invalid category"}
		}
		article.Category = *req.Category
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, models.ErrorBadRequest{Message: "invalid status"}
		}
		// Stamp publication time on the first transition to published.
		if *req.Status == models.StatusPublished && article.PublishedAt == nil {
			now := time.Now()
			article.PublishedAt = &now
		}
		article.Status = *req.Status
	}
	if req.Location != nil {
		article.Location = *req.Location
	}
	if req.Capacity != nil {
		article.Capacity = req.Capacity
	}
	if req.RegistrationRequired != nil {
		article.RegistrationRequired = *req.RegistrationRequired
	}

	if req.Tags != nil {
		tags, err := s.tagRepo.FindOrCreateByNames(*req.Tags)
		if err != nil {
			return nil, models.ErrorInternalServer{Message: "failed to resolve tags"}
		}
		if err := s.articleRepo.ReplaceTags(article, tags); err != nil {
			return nil, models.ErrorInternalServer{Message: "failed to update tags"}
		}
		article.Tags = tags
	}

	if err := s.articleRepo.Update(article); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to update article"}
	}

	return article, nil
}

func (s *articleService) DeleteArticle(id uint, actorID uint, actorRole models.UserRole) error {
	article, err := s.GetArticle(id, false)
	if err != nil {
		return err
	}

	if err := checkOwnership(article, actorID, actorRole); err != nil {
		return err
	}

	if err := s.articleRepo.Delete(id); err != nil {
		return models.ErrorInternalServer{Message: "failed to delete article"}
	}
	return nil
}

func (s *articleService) GetTags() ([]models.Tag, error) {
	tags, err := s.tagRepo.GetList()
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to list tags"}
	}
	return tags, nil
}

// Administrators may mutate any article, editors only their own.
func checkOwnership(article *models.Article, actorID uint, actorRole models.UserRole) error {
	if actorRole == models.RoleAdmin {
		return nil
	}
	if article.AuthorID != actorID {
		return models.ErrorForbidden{Message: "you can only modify your own articles"}
	}
	return nil
}
