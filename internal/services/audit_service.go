package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/logger"
	"github.com/atelier-studio/backend/internal/models"
)

// AuditService writes and reads the append-only submission ledger. Every
// submission attempt produces exactly one entry here; the rate limiter and
// spam scorer run their window queries against the same table.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService returns an AuditService using the provided DB.
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record inserts a ledger entry, filling UUID and CreatedAt when unset.
func (s *AuditService) Record(entry *models.SubmissionLogEntry) error {
	return record(s.db, entry)
}

// RecordBestEffort inserts a ledger entry and swallows any failure. The
// ledger must never block or fail a user-facing operation.
func (s *AuditService) RecordBestEffort(entry *models.SubmissionLogEntry) {
	if err := record(s.db, entry); err != nil {
		logger.WithFields(map[string]interface{}{
			"event": entry.Event,
			"form":  entry.FormKind,
		}).WithError(err).Warn("failed to write submission log entry")
	}
}

func record(db *gorm.DB, entry *models.SubmissionLogEntry) error {
	if entry == nil {
		return nil
	}
	if entry.UUID == "" {
		entry.UUID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return db.Create(entry).Error
}

// Recent returns the newest ledger entries, optionally filtered by form kind.
func (s *AuditService) Recent(kind models.FormKind, limit int) ([]models.SubmissionLogEntry, error) {
	var entries []models.SubmissionLogEntry
	q := s.db.Order("created_at desc")
	if kind != "" {
		q = q.Where("form_kind = ?", kind)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
