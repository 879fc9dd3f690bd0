package handlers

import (
	"net/http"
	"strconv"

	"asso-cms/helper"
	"asso-cms/models"
	"asso-cms/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		Helper:         &helper.HTTPHelper{},
	}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	article, err := h.articleService.CreateArticle(req, userID.(uint))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "article": article})
}

// GetArticles lists articles. Anonymous visitors only see published ones;
// an authenticated author gets the full list, drafts included.
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	_, authenticated := c.Get("user_id")

	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = 10
	}

	articles, total, err := h.articleService.GetArticles(params, !authenticated)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"articles":   articles,
		"total":      total,
		"pagination": h.Helper.GeneratePaging(c, 0, 0, params.Limit, params.Page, int(total)),
	})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID")
		return
	}

	// Anonymous unless the verifier put an identity on the context.
	_, authenticated := c.Get("user_id")

	article, err := h.articleService.GetArticle(uint(id), !authenticated)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "article": article})
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID")
		return
	}

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	article, err := h.articleService.UpdateArticle(uint(id), req, userID.(uint), models.UserRole(role.(string)))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "article": article})
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID")
		return
	}

	if err := h.articleService.DeleteArticle(uint(id), userID.(uint), models.UserRole(role.(string))); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Article deleted"})
}

func (h *ArticleHandler) GetTags(c *gin.Context) {
	tags, err := h.articleService.GetTags()
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tags": tags})
}
