package services

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/atelier-studio/backend/internal/models"
)

// The confidence score is an additive weighted sum capped at 1.0; whatever
// the input, it must stay inside [0,1] and the verdict must agree with the
// threshold.
func TestProperty_SpamScoreBounded(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSpamService(db)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("score_in_unit_interval_and_verdict_matches_threshold", prop.ForAll(
		func(name, email, body string, gradeCount int) bool {
			grades := make([]string, gradeCount)
			for i := range grades {
				grades[i] = "K"
			}

			for _, kind := range []models.FormKind{models.FormContact, models.FormEducation} {
				verdict := svc.Score(FormInput{
					Kind:      kind,
					Name:      name,
					Email:     email,
					Body:      body,
					Grades:    grades,
					IPAddress: "198.51.100.1",
				})
				if verdict.Score < 0 || verdict.Score > 1 {
					return false
				}
				if verdict.IsSpam != (verdict.Score >= SpamThreshold) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}
