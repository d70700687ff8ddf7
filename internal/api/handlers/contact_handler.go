package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/api/middleware"
	"github.com/atelier-studio/backend/internal/models"
	"github.com/atelier-studio/backend/internal/services"
	"github.com/atelier-studio/backend/internal/util"
)

// Client-facing messages. The spam path intentionally reuses the success
// message so detection is not observable from the response.
const (
	contactSuccessMessage   = "Thank you for reaching out! We'll get back to you within 1-2 business days."
	rateLimitedMessage      = "Too many submissions. Please try again later."
	validationFailedMessage = "Please correct the highlighted fields."
	internalErrorMessage    = "Something went wrong on our end. Please try again later."
	malformedRequestMessage = "Invalid request body."
)

type ContactHandler struct {
	pipeline *services.SubmissionService
	audit    *services.AuditService
	stats    *services.StatsService
	db       *gorm.DB
}

func NewContactHandler(pipeline *services.SubmissionService, audit *services.AuditService, stats *services.StatsService, db *gorm.DB) *ContactHandler {
	return &ContactHandler{pipeline: pipeline, audit: audit, stats: stats, db: db}
}

type ContactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	ServiceType    string `json:"serviceType"`
	ProjectDetails string `json:"projectDetails"`
}

// Submit handles POST /contact: the public contact form intake.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.audit.RecordBestEffort(&models.SubmissionLogEntry{
			Event:     models.EventFailure,
			FormKind:  models.FormContact,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Status:    models.StatusFailure,
			Reason:    "malformed request body",
		})
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": malformedRequestMessage})
		return
	}

	in := services.FormInput{
		Kind:        models.FormContact,
		Name:        util.SanitizeField(req.Name),
		Email:       util.SanitizeEmail(req.Email),
		ServiceType: util.SanitizeField(req.ServiceType),
		Body:        util.SanitizeField(req.ProjectDetails),
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}

	respondSubmission(c, h.pipeline.Process(services.ContactPolicy{}, in), contactSuccessMessage)
}

// List handles GET /admin/contact/submissions. Spam-flagged records are
// excluded unless ?spam=true.
func (h *ContactHandler) List(c *gin.Context) {
	var subs []models.ContactSubmission
	q := h.db.Order("created_at desc")

	if c.Query("spam") == "true" {
		q = q.Where("spam = ?", true)
	} else {
		q = q.Where("spam = ?", false)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	q = paginate(q, c)

	if err := q.Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Get handles GET /admin/contact/submissions/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	sub, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sub)
}

type UpdateSubmissionRequest struct {
	Status     *models.ReviewStatus `json:"status"`
	AdminNotes *string              `json:"adminNotes"`
}

// Update handles PATCH /admin/contact/submissions/:id. Only the review
// status and admin notes are mutable.
func (h *ContactHandler) Update(c *gin.Context) {
	sub, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status != nil {
		if !models.ValidReviewStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		sub.Status = *req.Status
	}
	if req.AdminNotes != nil {
		sub.AdminNotes = *req.AdminNotes
	}

	if err := h.db.Save(sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Delete handles DELETE /admin/contact/submissions/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	sub, ok := h.find(c)
	if !ok {
		return
	}
	if err := h.db.Delete(sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}

// Stats handles GET /admin/contact/stats?days=N.
func (h *ContactHandler) Stats(c *gin.Context) {
	respondStats(c, h.stats, models.FormContact)
}

func (h *ContactHandler) find(c *gin.Context) (*models.ContactSubmission, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	var sub models.ContactSubmission
	if err := h.db.First(&sub, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return nil, false
	}
	return &sub, true
}

// respondSubmission maps a pipeline Result onto the public response shape.
func respondSubmission(c *gin.Context, res services.Result, successMessage string) {
	switch res.Outcome {
	case services.OutcomeAccepted, services.OutcomeSpamFlagged:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": successMessage, "id": res.RecordUUID})
	case services.OutcomeRateLimited:
		// The reset time is deliberately not disclosed.
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": rateLimitedMessage})
	case services.OutcomeInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationFailedMessage, "errors": res.FieldErrors})
	default:
		entry := middleware.GetRequestLogger(c)
		entry.WithError(res.Err).Error("submission pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": internalErrorMessage})
	}
}

func respondStats(c *gin.Context, stats *services.StatsService, kind models.FormKind) {
	days := services.DefaultStatsDays
	if raw := c.Query("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			days = n
		}
	}
	overview, err := stats.Overview(kind, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func paginate(q *gorm.DB, c *gin.Context) *gorm.DB {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return q.Limit(limit).Offset(offset)
}
