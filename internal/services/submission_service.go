package services

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/logger"
	"github.com/atelier-studio/backend/internal/metrics"
	"github.com/atelier-studio/backend/internal/models"
)

// FormInput is a normalized, already-sanitized form submission. Handlers
// build one from their request DTO; fields that do not apply to a form kind
// stay zero.
type FormInput struct {
	Kind models.FormKind

	Name  string
	Email string
	// ServiceType carries the contact form's service selection or the
	// education form's formType.
	ServiceType string
	// Body is the free-text field: projectDetails for contact,
	// customCreationRequest for education.
	Body string

	Country        string
	State          string
	City           string
	SchoolName     string
	SchoolDistrict string
	Grades         []string

	IPAddress string
	UserAgent string
}

// Outcome discriminates pipeline results so callers branch on an explicit
// tag instead of inferring error classes.
type Outcome string

const (
	OutcomeAccepted    Outcome = "accepted"
	OutcomeSpamFlagged Outcome = "spam_flagged"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeSystemError Outcome = "system_error"
)

// Result is the pipeline's tagged outcome. Exactly one of the payload
// fields is meaningful per Outcome value.
type Result struct {
	Outcome     Outcome
	RecordUUID  string            // Accepted, SpamFlagged
	FieldErrors map[string]string // Invalid
	RetryAt     time.Time         // RateLimited
	Score       float64           // Accepted, SpamFlagged
	Err         error             // SystemError
}

// FormPolicy parameterizes the shared pipeline per form kind: how to
// validate, how to persist, and what redacted projection goes to the ledger.
type FormPolicy interface {
	Kind() models.FormKind
	// Validate returns a field-keyed error map; empty means valid.
	Validate(in FormInput) map[string]string
	// Persist writes the accepted record and returns its UUID.
	Persist(tx *gorm.DB, in FormInput, spam bool) (string, error)
	// Redact projects the input into the ledger's form_data column. Free
	// text must be reduced to its length.
	Redact(in FormInput) datatypes.JSONMap
}

// SubmissionService runs the linear intake pipeline: rate limit, validate,
// spam score, persist. The admission check, the submission insert, and the
// attempt's single ledger entry share one transaction, so the
// check-then-write sequence cannot race against a concurrent attempt from
// the same identity.
type SubmissionService struct {
	db          *gorm.DB
	rateLimiter *RateLimitService
	spam        *SpamService
	notifier    *NotificationService
}

// NewSubmissionService wires the pipeline. notifier may be nil.
func NewSubmissionService(db *gorm.DB, rl *RateLimitService, spam *SpamService, notifier *NotificationService) *SubmissionService {
	return &SubmissionService{db: db, rateLimiter: rl, spam: spam, notifier: notifier}
}

// Process runs one submission attempt through the pipeline and returns a
// tagged Result. Every call leaves exactly one ledger entry.
func (s *SubmissionService) Process(policy FormPolicy, in FormInput) Result {
	start := time.Now()
	metrics.IncSubmission(string(in.Kind))

	var res Result

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		entry := models.SubmissionLogEntry{
			FormKind:    in.Kind,
			Email:       in.Email,
			ServiceType: in.ServiceType,
			IPAddress:   in.IPAddress,
			UserAgent:   in.UserAgent,
			FormData:    policy.Redact(in),
			Metadata:    datatypes.JSONMap{},
		}

		if rl := s.rateLimiter.CheckTx(tx, in.IPAddress, in.Email); rl.Limited {
			entry.Event = models.EventRateLimitExceeded
			entry.Status = models.StatusFailure
			entry.Reason = rl.Reason
			finishEntry(&entry, start)
			if err := record(tx, &entry); err != nil {
				return err
			}
			res = Result{Outcome: OutcomeRateLimited, RetryAt: rl.NextAllowed}
			return nil
		}

		if fieldErrors := policy.Validate(in); len(fieldErrors) > 0 {
			entry.Event = models.EventValidationError
			entry.Status = models.StatusFailure
			entry.Metadata["validation_errors"] = fieldErrors
			finishEntry(&entry, start)
			if err := record(tx, &entry); err != nil {
				return err
			}
			res = Result{Outcome: OutcomeInvalid, FieldErrors: fieldErrors}
			return nil
		}

		verdict := s.spam.ScoreTx(tx, in)
		entry.Metadata["confidence"] = verdict.Score

		recordUUID, err := policy.Persist(tx, in, verdict.IsSpam)
		if err != nil {
			return err
		}
		entry.Metadata["record_uuid"] = recordUUID

		if verdict.IsSpam {
			entry.Event = models.EventSpamDetected
			entry.Status = models.StatusSpam
			entry.Reason = verdict.Reason()
		} else {
			entry.Event = models.EventSuccess
			entry.Status = models.StatusSuccess
		}
		finishEntry(&entry, start)
		if err := record(tx, &entry); err != nil {
			return err
		}

		res = Result{
			Outcome:    OutcomeAccepted,
			RecordUUID: recordUUID,
			Score:      verdict.Score,
		}
		if verdict.IsSpam {
			res.Outcome = OutcomeSpamFlagged
		}
		return nil
	})

	if txErr != nil {
		s.recordFailure(in, policy, start, txErr)
		return Result{Outcome: OutcomeSystemError, Err: txErr}
	}

	switch res.Outcome {
	case OutcomeAccepted:
		metrics.IncAccepted(string(in.Kind))
		s.notifyAccepted(in)
	case OutcomeSpamFlagged:
		metrics.IncSpam(string(in.Kind))
	case OutcomeRateLimited:
		metrics.IncRateLimited(string(in.Kind))
	case OutcomeInvalid:
		metrics.IncValidationFailed(string(in.Kind))
	}

	return res
}

// recordFailure writes the attempt's ledger entry after a rolled-back
// transaction. Best effort: a second failure is logged and swallowed.
func (s *SubmissionService) recordFailure(in FormInput, policy FormPolicy, start time.Time, cause error) {
	entry := models.SubmissionLogEntry{
		Event:       models.EventFailure,
		FormKind:    in.Kind,
		Email:       in.Email,
		ServiceType: in.ServiceType,
		IPAddress:   in.IPAddress,
		UserAgent:   in.UserAgent,
		Status:      models.StatusFailure,
		Reason:      cause.Error(),
		FormData:    policy.Redact(in),
		Metadata:    datatypes.JSONMap{},
	}
	finishEntry(&entry, start)
	if err := record(s.db, &entry); err != nil {
		logger.WithFields(map[string]interface{}{"form": in.Kind}).
			WithError(err).Warn("failed to write failure log entry")
	}
}

func (s *SubmissionService) notifyAccepted(in FormInput) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendSubmissionNotice(in.Kind, in.Name, in.Email)
}

func finishEntry(entry *models.SubmissionLogEntry, start time.Time) {
	entry.Metadata["duration_ms"] = time.Since(start).Milliseconds()
}
