package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewStatus is the admin workflow state of an accepted submission.
// Transitions run new → reviewed → responded → closed through the admin
// dashboard; the public pipeline never touches a record after creation.
type ReviewStatus string

const (
	ReviewStatusNew       ReviewStatus = "new"
	ReviewStatusReviewed  ReviewStatus = "reviewed"
	ReviewStatusResponded ReviewStatus = "responded"
	ReviewStatusClosed    ReviewStatus = "closed"
)

// ValidReviewStatus reports whether s is one of the allowed workflow states.
func ValidReviewStatus(s ReviewStatus) bool {
	switch s {
	case ReviewStatusNew, ReviewStatusReviewed, ReviewStatusResponded, ReviewStatusClosed:
		return true
	}
	return false
}

// ContactSubmission is an accepted contact form record. Fields are stored
// sanitized; only Status and AdminNotes are mutable after creation.
type ContactSubmission struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	UUID           string       `json:"uuid" gorm:"uniqueIndex"`
	Name           string       `json:"name" gorm:"size:100"`
	Email          string       `json:"email" gorm:"size:254;index"`
	ServiceType    string       `json:"service_type" gorm:"size:64"`
	ProjectDetails string       `json:"project_details" gorm:"type:text"`
	Status         ReviewStatus `json:"status" gorm:"size:16;default:'new';index"`
	// Spam marks silently-accepted submissions the scorer flagged. They are
	// persisted for review but excluded from default admin listings.
	Spam       bool      `json:"spam" gorm:"default:false;index"`
	AdminNotes string    `json:"admin_notes,omitempty" gorm:"type:text"`
	IPAddress  string    `json:"ip_address" gorm:"size:64"`
	UserAgent  string    `json:"user_agent" gorm:"size:512"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *ContactSubmission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = ReviewStatusNew
	}
	return
}
