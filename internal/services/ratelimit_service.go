package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/logger"
	"github.com/atelier-studio/backend/internal/models"
)

// Per-identity submission ceilings, counted over trailing windows of the
// submission ledger. Spam-flagged entries do not count against a sender.
const (
	MaxPerIPHourly   = 3
	MaxPerIPDaily    = 10
	MaxPerEmailDaily = 5
)

// RateLimitResult reports whether a new submission is allowed right now.
type RateLimitResult struct {
	Limited     bool      `json:"limited"`
	Reason      string    `json:"reason,omitempty"`
	NextAllowed time.Time `json:"next_allowed,omitempty"`
}

// RateLimitService decides submission admission by re-querying the ledger on
// every request. It holds no in-process state.
type RateLimitService struct {
	db *gorm.DB
}

// NewRateLimitService returns a RateLimitService using the provided DB.
func NewRateLimitService(db *gorm.DB) *RateLimitService {
	return &RateLimitService{db: db}
}

// Check evaluates the three ceilings in order: hourly per IP, daily per IP,
// daily per email. The first breached ceiling wins. NextAllowed is the
// oldest offending entry's timestamp plus the window length.
//
// A database error is treated as not limited: availability is favored over
// strict enforcement, and the error is only logged.
func (s *RateLimitService) Check(ip, email string) RateLimitResult {
	return s.checkWith(s.db, ip, email)
}

// CheckTx is Check running inside an existing transaction so the admission
// decision and the attempt's ledger write are atomic.
func (s *RateLimitService) CheckTx(tx *gorm.DB, ip, email string) RateLimitResult {
	return s.checkWith(tx, ip, email)
}

func (s *RateLimitService) checkWith(db *gorm.DB, ip, email string) RateLimitResult {
	type ceiling struct {
		column string
		value  string
		window time.Duration
		limit  int64
		reason string
	}

	ceilings := []ceiling{
		{"ip_address", ip, time.Hour, MaxPerIPHourly, "too many submissions from this address in the last hour"},
		{"ip_address", ip, 24 * time.Hour, MaxPerIPDaily, "too many submissions from this address in the last day"},
		{"email", email, 24 * time.Hour, MaxPerEmailDaily, "too many submissions for this email in the last day"},
	}

	for _, c := range ceilings {
		if c.value == "" {
			continue
		}
		cutoff := time.Now().Add(-c.window)

		var count int64
		err := db.Model(&models.SubmissionLogEntry{}).
			Where(c.column+" = ? AND status <> ? AND created_at > ?", c.value, models.StatusSpam, cutoff).
			Count(&count).Error
		if err != nil {
			logger.Log().WithError(err).Warn("rate limit query failed, allowing submission")
			return RateLimitResult{}
		}
		if count < c.limit {
			continue
		}

		var oldest models.SubmissionLogEntry
		err = db.Where(c.column+" = ? AND status <> ? AND created_at > ?", c.value, models.StatusSpam, cutoff).
			Order("created_at asc").First(&oldest).Error
		next := time.Now().Add(c.window)
		if err == nil {
			next = oldest.CreatedAt.Add(c.window)
		}

		return RateLimitResult{Limited: true, Reason: c.reason, NextAllowed: next}
	}

	return RateLimitResult{}
}
