package handlers

import (
	"net/http"
	"strconv"

	"asso-cms/helper"
	"asso-cms/models"
	"asso-cms/services"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService services.ContactService
	Helper         *helper.HTTPHelper
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		Helper:         &helper.HTTPHelper{},
	}
}

func (h *ContactHandler) SubmitMessage(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	message, err := h.contactService.Submit(req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message})
}

func (h *ContactHandler) GetMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	messages, total, err := h.contactService.GetMessages(page, limit)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": messages,
		"total":    total,
	})
}
