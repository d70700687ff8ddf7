package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionEvent tags the stage at which a submission attempt concluded.
type SubmissionEvent string

const (
	EventSubmission        SubmissionEvent = "submission"
	EventValidationError   SubmissionEvent = "validation_error"
	EventSuccess           SubmissionEvent = "success"
	EventFailure           SubmissionEvent = "failure"
	EventSpamDetected      SubmissionEvent = "spam_detected"
	EventRateLimitExceeded SubmissionEvent = "rate_limit_exceeded"
)

// SubmissionStatus is the coarse outcome recorded alongside the event.
type SubmissionStatus string

const (
	StatusSuccess SubmissionStatus = "success"
	StatusFailure SubmissionStatus = "failure"
	StatusSpam    SubmissionStatus = "spam"
)

// FormKind distinguishes which public form produced an attempt.
type FormKind string

const (
	FormContact   FormKind = "contact"
	FormEducation FormKind = "education"
)

// SubmissionLogEntry is the append-only audit record created for every form
// submission attempt, whatever its outcome. It is both the compliance trail
// and the data source for rate limiting and spam duplicate detection.
// Entries are never updated or deleted by request handling; only the
// retention pruner removes aged rows.
type SubmissionLogEntry struct {
	ID       uint            `json:"id" gorm:"primaryKey"`
	UUID     string          `json:"uuid" gorm:"uniqueIndex"`
	Event    SubmissionEvent `json:"event" gorm:"size:32;index"`
	FormKind FormKind        `json:"form_kind" gorm:"size:16;index"`
	Email    string          `json:"email,omitempty" gorm:"index"`
	// ServiceType carries the contact form's service selection or the
	// education form's formType, whichever applies.
	ServiceType string           `json:"service_type,omitempty" gorm:"size:64"`
	IPAddress   string           `json:"ip_address" gorm:"size:64;index"`
	UserAgent   string           `json:"user_agent" gorm:"size:512"`
	Status      SubmissionStatus `json:"status" gorm:"size:16"`
	// Reason is the semicolon-joined list of triggered heuristics, if any.
	Reason string `json:"reason,omitempty" gorm:"type:text"`
	// FormData holds a redacted projection of the submitted fields. Free
	// text bodies are stored as their length only, never verbatim.
	FormData  datatypes.JSONMap `json:"form_data,omitempty" gorm:"type:json"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:json"`
	CreatedAt time.Time         `json:"created_at" gorm:"index"`
}

func (e *SubmissionLogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	return
}
