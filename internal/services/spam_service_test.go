package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/models"
)

func cleanContactInput() FormInput {
	return FormInput{
		Kind:        models.FormContact,
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		ServiceType: "web-design",
		Body:        "I would like a new website for my pottery studio.",
		IPAddress:   "203.0.113.10",
	}
}

func TestSpamService_CleanSubmission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	verdict := svc.Score(cleanContactInput())
	assert.Equal(t, 0.0, verdict.Score)
	assert.False(t, verdict.IsSpam)
	assert.Empty(t, verdict.Reasons)
}

func TestSpamService_DisposableDomain(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	in := cleanContactInput()
	in.Email = "test@tempmail.com"

	verdict := svc.Score(in)
	assert.GreaterOrEqual(t, verdict.Score, WeightDisposable)
	assert.Contains(t, verdict.Reason(), "disposable email domain")
}

func TestSpamService_ShortBody(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	in := cleanContactInput()
	in.Body = "hi there"

	verdict := svc.Score(in)
	assert.InDelta(t, WeightShortBody, verdict.Score, 1e-9)
	assert.False(t, verdict.IsSpam)
	assert.Contains(t, verdict.Reason(), "too short")
}

func TestSpamService_KeywordPatterns(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	in := cleanContactInput()
	in.Body = "Act now for this investment opportunity in bitcoin, see https://spam.example"

	verdict := svc.Score(in)
	assert.InDelta(t, WeightKeywords, verdict.Score, 1e-9)
	assert.Contains(t, verdict.Reason(), "suspicious keyword patterns")
}

func TestSpamService_SingleKeywordGroupNotEnough(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	in := cleanContactInput()
	in.Body = "We build backlinks dashboards for internal analytics teams today."

	verdict := svc.Score(in)
	assert.NotContains(t, verdict.Reason(), "suspicious keyword patterns")
}

func TestSpamService_IPFrequency(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	for i := 0; i < ipFrequencyMinimum; i++ {
		seedLogEntry(t, db, "203.0.113.20", "", models.StatusSuccess, time.Duration(i+1)*time.Hour)
	}

	in := cleanContactInput()
	in.IPAddress = "203.0.113.20"

	verdict := svc.Score(in)
	assert.InDelta(t, WeightIPFrequency, verdict.Score, 1e-9)
	assert.Contains(t, verdict.Reason(), "frequency")
}

func seedDuplicateEntry(t *testing.T, db *gorm.DB, email string, formData datatypes.JSONMap, kind models.FormKind) {
	t.Helper()
	entry := models.SubmissionLogEntry{
		Event:     models.EventSuccess,
		FormKind:  kind,
		Email:     email,
		Status:    models.StatusSuccess,
		FormData:  formData,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&entry).Error)
}

func TestSpamService_DuplicateContactContent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	in := cleanContactInput()
	for i := 0; i < duplicateMinimum; i++ {
		seedDuplicateEntry(t, db, in.Email, datatypes.JSONMap{"project_details_length": len(in.Body)}, models.FormContact)
	}

	verdict := svc.Score(in)
	assert.Contains(t, verdict.Reason(), "duplicate content")
}

func TestSpamService_DuplicateEducationContent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	in := FormInput{
		Kind:       models.FormEducation,
		Name:       "Jane Doe",
		Email:      "teacher@example.com",
		SchoolName: "PS 118",
		Grades:     []string{"K", "1"},
		IPAddress:  "203.0.113.30",
	}
	for i := 0; i < duplicateMinimum; i++ {
		seedDuplicateEntry(t, db, in.Email, datatypes.JSONMap{"school_name": in.SchoolName}, models.FormEducation)
	}

	verdict := svc.Score(in)
	assert.Contains(t, verdict.Reason(), "duplicate content")
}

func TestSpamService_GradeSpread(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	in := FormInput{
		Kind:      models.FormEducation,
		Name:      "Jane Doe",
		Email:     "teacher@example.com",
		Grades:    []string{"K", "1", "2", "3", "4"},
		IPAddress: "203.0.113.31",
	}

	verdict := svc.Score(in)
	assert.InDelta(t, WeightGradeSpread, verdict.Score, 1e-9)
	assert.Contains(t, verdict.Reason(), "grade")
}

func TestSpamService_ScoreCappedAtOne(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	in := cleanContactInput()
	in.Email = "test@tempmail.com"
	in.Body = "Act now! bitcoin https://x.example seo backlinks"
	for i := 0; i < ipFrequencyMinimum; i++ {
		seedLogEntry(t, db, in.IPAddress, "", models.StatusSuccess, time.Duration(i+1)*time.Hour)
	}
	for i := 0; i < duplicateMinimum; i++ {
		seedDuplicateEntry(t, db, in.Email, datatypes.JSONMap{"project_details_length": len(in.Body)}, models.FormContact)
	}

	verdict := svc.Score(in)
	assert.Equal(t, 1.0, verdict.Score)
	assert.True(t, verdict.IsSpam)
}

func TestSpamService_ThresholdBoundary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	// Disposable domain alone (0.4) stays under the threshold; adding the
	// keyword signal (0.3) crosses it.
	in := cleanContactInput()
	in.Email = "test@yopmail.com"
	under := svc.Score(in)
	assert.False(t, under.IsSpam)

	in.Body = "urgent investment opportunity act now for bitcoin riches today"
	over := svc.Score(in)
	assert.True(t, over.IsSpam)
	assert.GreaterOrEqual(t, over.Score, SpamThreshold)
}

func TestSpamVerdict_ReasonJoinsWithSemicolon(t *testing.T) {
	v := SpamVerdict{Reasons: []string{"a", "b", "c"}}
	assert.Equal(t, "a; b; c", v.Reason())
	assert.Equal(t, 2, strings.Count(v.Reason(), ";"))
}
