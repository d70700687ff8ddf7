package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/logger"
	"github.com/atelier-studio/backend/internal/models"
)

// retentionSchedule runs the pruner daily, off-peak.
const retentionSchedule = "0 4 * * *"

// RetentionService deletes aged submission ledger entries on a daily cron
// schedule. The ledger stores redacted form data only, but bounding its age
// keeps PII retention finite.
type RetentionService struct {
	db        *gorm.DB
	retention time.Duration
	cron      *cron.Cron
}

// NewRetentionService returns a pruner keeping entries younger than retention.
func NewRetentionService(db *gorm.DB, retention time.Duration) *RetentionService {
	return &RetentionService{db: db, retention: retention, cron: cron.New()}
}

// Start schedules the daily prune. Call Stop on shutdown.
func (s *RetentionService) Start() error {
	_, err := s.cron.AddFunc(retentionSchedule, func() {
		deleted, err := s.Prune()
		if err != nil {
			logger.Log().WithError(err).Warn("submission log prune failed")
			return
		}
		logger.WithFields(map[string]interface{}{"deleted": deleted}).Info("pruned submission log")
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running prune to finish.
func (s *RetentionService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Prune deletes ledger entries older than the retention period and returns
// the number of rows removed.
func (s *RetentionService) Prune() (int64, error) {
	cutoff := time.Now().Add(-s.retention)
	res := s.db.Where("created_at < ?", cutoff).Delete(&models.SubmissionLogEntry{})
	return res.RowsAffected, res.Error
}
