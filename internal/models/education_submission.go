package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EducationSubmission is an accepted education inquiry record.
type EducationSubmission struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	UUID           string `json:"uuid" gorm:"uniqueIndex"`
	Name           string `json:"name" gorm:"size:100"`
	Email          string `json:"email" gorm:"size:254;index"`
	Country        string `json:"country" gorm:"size:100"`
	State          string `json:"state" gorm:"size:100"`
	City           string `json:"city" gorm:"size:100"`
	SchoolName     string `json:"school_name" gorm:"size:200;index"`
	SchoolDistrict string `json:"school_district" gorm:"size:200"`
	// GradesTeaching is a JSON array of grade levels, each in {K,1,2,3,4,5}.
	GradesTeaching        datatypes.JSON `json:"grades_teaching" gorm:"type:json"`
	CustomCreationRequest string         `json:"custom_creation_request,omitempty" gorm:"type:text"`
	FormType              string         `json:"form_type" gorm:"size:64"`
	Status                ReviewStatus   `json:"status" gorm:"size:16;default:'new';index"`
	Spam                  bool           `json:"spam" gorm:"default:false;index"`
	AdminNotes            string         `json:"admin_notes,omitempty" gorm:"type:text"`
	IPAddress             string         `json:"ip_address" gorm:"size:64"`
	UserAgent             string         `json:"user_agent" gorm:"size:512"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

func (s *EducationSubmission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = ReviewStatusNew
	}
	return
}
