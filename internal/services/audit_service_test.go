package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-studio/backend/internal/models"
)

func TestAuditService_RecordFillsDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuditService(db)

	entry := models.SubmissionLogEntry{
		Event:    models.EventSuccess,
		FormKind: models.FormContact,
		Status:   models.StatusSuccess,
	}
	require.NoError(t, svc.Record(&entry))

	assert.NotEmpty(t, entry.UUID)
	assert.WithinDuration(t, time.Now(), entry.CreatedAt, time.Minute)

	var got models.SubmissionLogEntry
	require.NoError(t, db.First(&got, "uuid = ?", entry.UUID).Error)
	assert.Equal(t, models.EventSuccess, got.Event)
}

func TestAuditService_RecordKeepsExplicitTimestamp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuditService(db)

	past := time.Now().Add(-48 * time.Hour)
	entry := models.SubmissionLogEntry{
		Event:     models.EventFailure,
		FormKind:  models.FormContact,
		Status:    models.StatusFailure,
		CreatedAt: past,
	}
	require.NoError(t, svc.Record(&entry))
	assert.WithinDuration(t, past, entry.CreatedAt, time.Second)
}

func TestAuditService_RecordBestEffortSwallowsErrors(t *testing.T) {
	db := setupTestDB(t)
	// No table to write into.
	require.NoError(t, db.Migrator().DropTable(&models.SubmissionLogEntry{}))

	svc := NewAuditService(db)
	svc.RecordBestEffort(&models.SubmissionLogEntry{
		Event:    models.EventFailure,
		FormKind: models.FormContact,
		Status:   models.StatusFailure,
	})
}

func TestAuditService_Recent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuditService(db)

	for i, kind := range []models.FormKind{models.FormContact, models.FormContact, models.FormEducation} {
		require.NoError(t, svc.Record(&models.SubmissionLogEntry{
			Event:     models.EventSuccess,
			FormKind:  kind,
			Status:    models.StatusSuccess,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		}))
	}

	entries, err := svc.Recent(models.FormContact, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, models.FormContact, e.FormKind)
	}
	// Newest first.
	assert.True(t, !entries[0].CreatedAt.Before(entries[1].CreatedAt))

	all, err := svc.Recent("", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
