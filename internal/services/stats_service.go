package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/models"
)

const (
	// DefaultStatsDays is the dashboard's lookback when none is given.
	DefaultStatsDays = 30
	// MaxStatsDays caps the lookback window.
	MaxStatsDays = 365

	topBreakdownLimit = 10
)

// BreakdownRow is one categorical bucket in a stats overview.
type BreakdownRow struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// DailyCount is one day of submission attempts.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// StatsOverview aggregates the submission ledger for the admin dashboard.
type StatsOverview struct {
	FormKind models.FormKind  `json:"form_kind"`
	Days     int              `json:"days"`
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	ByEvent  map[string]int64 `json:"by_event"`
	// TopServiceTypes holds the ten most frequent service types (contact)
	// or form types (education) by attempt count.
	TopServiceTypes []BreakdownRow `json:"top_service_types"`
	Daily           []DailyCount   `json:"daily"`
}

// StatsService recomputes dashboard aggregates from the ledger on every
// call. There is no caching; admin loads are infrequent and pull-based.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService returns a StatsService using the provided DB.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Overview aggregates ledger entries for one form kind over a trailing
// window of whole days. days is clamped to [1, MaxStatsDays].
func (s *StatsService) Overview(kind models.FormKind, days int) (*StatsOverview, error) {
	if days <= 0 {
		days = DefaultStatsDays
	}
	if days > MaxStatsDays {
		days = MaxStatsDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	overview := &StatsOverview{
		FormKind: kind,
		Days:     days,
		ByStatus: map[string]int64{},
		ByEvent:  map[string]int64{},
	}

	base := func() *gorm.DB {
		return s.db.Model(&models.SubmissionLogEntry{}).
			Where("form_kind = ? AND created_at > ?", kind, cutoff)
	}

	if err := base().Count(&overview.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var statusRows []bucket
	if err := base().Select("status as key, count(*) as count").Group("status").Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, r := range statusRows {
		overview.ByStatus[r.Key] = r.Count
	}

	var eventRows []bucket
	if err := base().Select("event as key, count(*) as count").Group("event").Scan(&eventRows).Error; err != nil {
		return nil, err
	}
	for _, r := range eventRows {
		overview.ByEvent[r.Key] = r.Count
	}

	if err := base().Select("service_type as value, count(*) as count").
		Where("service_type <> ''").
		Group("service_type").
		Order("count desc").
		Limit(topBreakdownLimit).
		Scan(&overview.TopServiceTypes).Error; err != nil {
		return nil, err
	}

	if err := base().Select("date(created_at) as date, count(*) as count").
		Group("date(created_at)").
		Order("date asc").
		Scan(&overview.Daily).Error; err != nil {
		return nil, err
	}

	return overview, nil
}
