package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-studio/backend/internal/models"
	"github.com/atelier-studio/backend/internal/services"
)

type NotificationProviderHandler struct {
	service *services.NotificationService
}

func NewNotificationProviderHandler(service *services.NotificationService) *NotificationProviderHandler {
	return &NotificationProviderHandler{service: service}
}

func (h *NotificationProviderHandler) List(c *gin.Context) {
	providers, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch providers"})
		return
	}
	c.JSON(http.StatusOK, providers)
}

type CreateProviderRequest struct {
	Name            string `json:"name" binding:"required"`
	Type            string `json:"type" binding:"required"`
	URL             string `json:"url" binding:"required"`
	Enabled         bool   `json:"enabled"`
	NotifyContact   *bool  `json:"notify_contact"`
	NotifyEducation *bool  `json:"notify_education"`
}

func (h *NotificationProviderHandler) Create(c *gin.Context) {
	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := models.NotificationProvider{
		Name:            req.Name,
		Type:            req.Type,
		URL:             req.URL,
		Enabled:         req.Enabled,
		NotifyContact:   true,
		NotifyEducation: true,
	}
	if req.NotifyContact != nil {
		provider.NotifyContact = *req.NotifyContact
	}
	if req.NotifyEducation != nil {
		provider.NotifyEducation = *req.NotifyEducation
	}

	if err := h.service.Create(&provider); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create provider"})
		return
	}
	c.JSON(http.StatusCreated, provider)
}

func (h *NotificationProviderHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete provider"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Provider deleted"})
}
