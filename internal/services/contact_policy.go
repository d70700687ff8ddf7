package services

import (
	"fmt"
	"net/mail"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/models"
)

// AllowedServiceTypes is the fixed set the contact form's serviceType must
// come from.
var AllowedServiceTypes = map[string]struct{}{
	"branding":     {},
	"web-design":   {},
	"illustration": {},
	"photography":  {},
	"education":    {},
	"other":        {},
}

const (
	minNameLength    = 2
	maxNameLength    = 100
	maxEmailLength   = 254
	minDetailsLength = 10
	maxDetailsLength = 2000
)

// ContactPolicy adapts the shared pipeline to the contact form.
type ContactPolicy struct{}

func (ContactPolicy) Kind() models.FormKind { return models.FormContact }

func (ContactPolicy) Validate(in FormInput) map[string]string {
	errs := map[string]string{}

	validateName(errs, in.Name)
	validateEmail(errs, in.Email)

	if _, ok := AllowedServiceTypes[in.ServiceType]; !ok {
		errs["serviceType"] = "please select a valid service type"
	}
	if len(in.Body) < minDetailsLength {
		errs["projectDetails"] = fmt.Sprintf("project details must be at least %d characters", minDetailsLength)
	} else if len(in.Body) > maxDetailsLength {
		errs["projectDetails"] = fmt.Sprintf("project details must be at most %d characters", maxDetailsLength)
	}

	return errs
}

func (ContactPolicy) Persist(tx *gorm.DB, in FormInput, spam bool) (string, error) {
	sub := models.ContactSubmission{
		Name:           in.Name,
		Email:          in.Email,
		ServiceType:    in.ServiceType,
		ProjectDetails: in.Body,
		Spam:           spam,
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
	}
	if err := tx.Create(&sub).Error; err != nil {
		return "", fmt.Errorf("persist contact submission: %w", err)
	}
	return sub.UUID, nil
}

func (ContactPolicy) Redact(in FormInput) datatypes.JSONMap {
	return datatypes.JSONMap{
		"name":                   in.Name,
		"service_type":           in.ServiceType,
		"project_details_length": len(in.Body),
	}
}

func validateName(errs map[string]string, name string) {
	if len(name) < minNameLength || len(name) > maxNameLength {
		errs["name"] = fmt.Sprintf("name must be between %d and %d characters", minNameLength, maxNameLength)
	}
}

func validateEmail(errs map[string]string, email string) {
	if email == "" || len(email) > maxEmailLength {
		errs["email"] = "a valid email address is required"
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs["email"] = "a valid email address is required"
	}
}
