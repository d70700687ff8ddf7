package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/models"
)

// AllowedGrades is the grade levels the education form accepts.
var AllowedGrades = map[string]struct{}{
	"K": {}, "1": {}, "2": {}, "3": {}, "4": {}, "5": {},
}

const minLocationLength = 2

// EducationPolicy adapts the shared pipeline to the education inquiry form.
// reCAPTCHA verification happens in the handler before the pipeline runs,
// since it must precede every other check.
type EducationPolicy struct{}

func (EducationPolicy) Kind() models.FormKind { return models.FormEducation }

func (EducationPolicy) Validate(in FormInput) map[string]string {
	errs := map[string]string{}

	validateName(errs, in.Name)
	validateEmail(errs, in.Email)

	required := map[string]string{
		"schoolName":     in.SchoolName,
		"schoolDistrict": in.SchoolDistrict,
		"city":           in.City,
		"state":          in.State,
		"country":        in.Country,
	}
	for field, value := range required {
		if len(value) < minLocationLength {
			errs[field] = fmt.Sprintf("%s is required", field)
		}
	}

	if len(in.Grades) == 0 {
		errs["gradesTeaching"] = "select at least one grade level"
	}
	for _, g := range in.Grades {
		if _, ok := AllowedGrades[g]; !ok {
			errs["gradesTeaching"] = fmt.Sprintf("invalid grade level %q", g)
			break
		}
	}

	return errs
}

func (EducationPolicy) Persist(tx *gorm.DB, in FormInput, spam bool) (string, error) {
	grades, err := json.Marshal(in.Grades)
	if err != nil {
		return "", fmt.Errorf("encode grades: %w", err)
	}
	sub := models.EducationSubmission{
		Name:                  in.Name,
		Email:                 in.Email,
		Country:               in.Country,
		State:                 in.State,
		City:                  in.City,
		SchoolName:            in.SchoolName,
		SchoolDistrict:        in.SchoolDistrict,
		GradesTeaching:        datatypes.JSON(grades),
		CustomCreationRequest: in.Body,
		FormType:              in.ServiceType,
		Spam:                  spam,
		IPAddress:             in.IPAddress,
		UserAgent:             in.UserAgent,
	}
	if err := tx.Create(&sub).Error; err != nil {
		return "", fmt.Errorf("persist education submission: %w", err)
	}
	return sub.UUID, nil
}

func (EducationPolicy) Redact(in FormInput) datatypes.JSONMap {
	return datatypes.JSONMap{
		"name":                  in.Name,
		"school_name":           in.SchoolName,
		"school_district":       in.SchoolDistrict,
		"city":                  in.City,
		"state":                 in.State,
		"country":               in.Country,
		"grades_count":          len(in.Grades),
		"custom_request_length": len(in.Body),
	}
}
