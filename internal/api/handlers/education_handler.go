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

const (
	educationSuccessMessage  = "Thank you! Your inquiry has been received and we'll be in touch soon."
	recaptchaRequiredMessage = "reCAPTCHA verification required. Please try again."
	recaptchaFailedMessage   = "reCAPTCHA verification failed. Please try again."
)

type EducationHandler struct {
	pipeline  *services.SubmissionService
	audit     *services.AuditService
	stats     *services.StatsService
	recaptcha services.RecaptchaVerifier
	db        *gorm.DB
}

func NewEducationHandler(pipeline *services.SubmissionService, audit *services.AuditService, stats *services.StatsService, recaptcha services.RecaptchaVerifier, db *gorm.DB) *EducationHandler {
	return &EducationHandler{pipeline: pipeline, audit: audit, stats: stats, recaptcha: recaptcha, db: db}
}

type EducationRequest struct {
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Country               string   `json:"country"`
	State                 string   `json:"state"`
	City                  string   `json:"city"`
	SchoolName            string   `json:"schoolName"`
	SchoolDistrict        string   `json:"schoolDistrict"`
	GradesTeaching        []string `json:"gradesTeaching"`
	CustomCreationRequest string   `json:"customCreationRequest"`
	FormType              string   `json:"formType"`
	Token                 string   `json:"token"`
}

// Submit handles POST /education: the public education inquiry intake.
// reCAPTCHA verification runs before every other check.
func (h *EducationHandler) Submit(c *gin.Context) {
	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.audit.RecordBestEffort(&models.SubmissionLogEntry{
			Event:     models.EventFailure,
			FormKind:  models.FormEducation,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Status:    models.StatusFailure,
			Reason:    "malformed request body",
		})
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": malformedRequestMessage})
		return
	}

	if h.recaptcha.Enabled() {
		if req.Token == "" {
			h.recordRecaptchaReject(c, req, "recaptcha token missing")
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": recaptchaRequiredMessage})
			return
		}
		result, err := h.recaptcha.Verify(c.Request.Context(), req.Token, c.ClientIP())
		if err != nil {
			middleware.GetRequestLogger(c).WithError(err).Error("recaptcha verification error")
			h.recordRecaptchaReject(c, req, "recaptcha verification error")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": internalErrorMessage})
			return
		}
		if !result.Passed() {
			h.recordRecaptchaReject(c, req, "recaptcha verification failed")
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": recaptchaFailedMessage})
			return
		}
	}

	in := services.FormInput{
		Kind:           models.FormEducation,
		Name:           util.SanitizeField(req.Name),
		Email:          util.SanitizeEmail(req.Email),
		ServiceType:    util.SanitizeField(req.FormType),
		Body:           util.SanitizeField(req.CustomCreationRequest),
		Country:        util.SanitizeField(req.Country),
		State:          util.SanitizeField(req.State),
		City:           util.SanitizeField(req.City),
		SchoolName:     util.SanitizeField(req.SchoolName),
		SchoolDistrict: util.SanitizeField(req.SchoolDistrict),
		Grades:         sanitizeGrades(req.GradesTeaching),
		IPAddress:      c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
	}

	respondSubmission(c, h.pipeline.Process(services.EducationPolicy{}, in), educationSuccessMessage)
}

func (h *EducationHandler) recordRecaptchaReject(c *gin.Context, req EducationRequest, reason string) {
	h.audit.RecordBestEffort(&models.SubmissionLogEntry{
		Event:       models.EventValidationError,
		FormKind:    models.FormEducation,
		Email:       util.SanitizeEmail(req.Email),
		ServiceType: util.SanitizeField(req.FormType),
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Status:      models.StatusFailure,
		Reason:      reason,
	})
}

// List handles GET /admin/education/submissions.
func (h *EducationHandler) List(c *gin.Context) {
	var subs []models.EducationSubmission
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

// Get handles GET /admin/education/submissions/:id.
func (h *EducationHandler) Get(c *gin.Context) {
	sub, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Update handles PATCH /admin/education/submissions/:id.
func (h *EducationHandler) Update(c *gin.Context) {
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

// Delete handles DELETE /admin/education/submissions/:id.
func (h *EducationHandler) Delete(c *gin.Context) {
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

// Stats handles GET /admin/education/stats?days=N.
func (h *EducationHandler) Stats(c *gin.Context) {
	respondStats(c, h.stats, models.FormEducation)
}

func (h *EducationHandler) find(c *gin.Context) (*models.EducationSubmission, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	var sub models.EducationSubmission
	if err := h.db.First(&sub, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return nil, false
	}
	return &sub, true
}

func sanitizeGrades(grades []string) []string {
	out := make([]string, 0, len(grades))
	for _, g := range grades {
		out = append(out, util.SanitizeField(g))
	}
	return out
}
