package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/config"
	"github.com/atelier-studio/backend/internal/models"
	"github.com/atelier-studio/backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testClientAddr = "203.0.113.5:51234"

// testEnv bundles the wired services and router a handler test needs.
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *services.AuthService
}

// newTestEnv wires the full handler surface against a fresh in-memory DB.
// Admin routes are mounted without auth middleware; auth enforcement has
// its own tests in the middleware package.
func newTestEnv(t *testing.T, verifier services.RecaptchaVerifier) *testEnv {
	t.Helper()

	db := OpenTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&models.SubmissionLogEntry{},
		&models.ContactSubmission{},
		&models.EducationSubmission{},
		&models.User{},
		&models.NotificationProvider{},
	))

	audit := services.NewAuditService(db)
	rl := services.NewRateLimitService(db)
	spam := services.NewSpamService(db)
	pipeline := services.NewSubmissionService(db, rl, spam, nil)
	stats := services.NewStatsService(db)
	auth := services.NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	if verifier == nil {
		verifier = services.NewGoogleRecaptcha("")
	}

	contact := NewContactHandler(pipeline, audit, stats, db)
	education := NewEducationHandler(pipeline, audit, stats, verifier, db)
	authHandler := NewAuthHandler(auth, false)

	router := gin.New()
	router.POST("/api/v1/contact", contact.Submit)
	router.POST("/api/v1/education", education.Submit)
	router.POST("/api/v1/auth/login", authHandler.Login)
	router.POST("/api/v1/auth/logout", authHandler.Logout)

	admin := router.Group("/api/v1/admin")
	admin.GET("/contact/submissions", contact.List)
	admin.GET("/contact/submissions/:id", contact.Get)
	admin.PATCH("/contact/submissions/:id", contact.Update)
	admin.DELETE("/contact/submissions/:id", contact.Delete)
	admin.GET("/contact/stats", contact.Stats)
	admin.GET("/education/submissions", education.List)
	admin.GET("/education/submissions/:id", education.Get)
	admin.PATCH("/education/submissions/:id", education.Update)
	admin.DELETE("/education/submissions/:id", education.Delete)
	admin.GET("/education/stats", education.Stats)

	return &testEnv{router: router, db: db, auth: auth}
}

// doJSON performs a request with a JSON body and returns the recorder.
func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = testClientAddr
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doRaw performs a request with a raw string body.
func (e *testEnv) doRaw(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.RemoteAddr = testClientAddr
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (e *testEnv) countLogEntries(t *testing.T, event models.SubmissionEvent) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.SubmissionLogEntry{}).Where("event = ?", event).Count(&n).Error)
	return n
}

// fakeVerifier is a canned RecaptchaVerifier for handler tests.
type fakeVerifier struct {
	result services.RecaptchaResult
	err    error
}

func (f fakeVerifier) Enabled() bool { return true }

func (f fakeVerifier) Verify(ctx context.Context, token, remoteIP string) (services.RecaptchaResult, error) {
	return f.result, f.err
}

func validContactBody() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Jane Doe",
		"email":          "jane@example.com",
		"serviceType":    "branding",
		"projectDetails": "A full brand identity refresh for my pottery studio.",
	}
}

func validEducationBody() map[string]interface{} {
	return map[string]interface{}{
		"name":                  "Sam Teacher",
		"email":                 "sam@school.edu",
		"country":               "USA",
		"state":                 "Oregon",
		"city":                  "Portland",
		"schoolName":            "Riverside Elementary",
		"schoolDistrict":        "Portland Public Schools",
		"gradesTeaching":        []string{"K", "2"},
		"customCreationRequest": "A custom mural kit for our art room.",
		"formType":              "education",
	}
}
