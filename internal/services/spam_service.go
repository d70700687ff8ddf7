package services

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/logger"
	"github.com/atelier-studio/backend/internal/models"
)

// Signal weights and the verdict threshold. These values shipped with the
// original heuristics and are preserved as-is; they carry no derivation
// beyond hand tuning.
const (
	WeightIPFrequency = 0.4
	WeightDuplicate   = 0.3
	WeightKeywords    = 0.3
	WeightDisposable  = 0.4
	WeightShortBody   = 0.2
	WeightGradeSpread = 0.2

	SpamThreshold = 0.6

	ipFrequencyWindow  = 24 * time.Hour
	ipFrequencyMinimum = 5
	duplicateWindow    = 7 * 24 * time.Hour
	duplicateMinimum   = 2
	minBodyLength      = 20
	maxGradeSelection  = 4
)

// disposableDomains is a fixed blocklist of throwaway email providers.
var disposableDomains = map[string]struct{}{
	"tempmail.com":      {},
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"yopmail.com":       {},
	"throwaway.email":   {},
	"sharklasers.com":   {},
	"getnada.com":       {},
	"trashmail.com":     {},
	"maildrop.cc":       {},
}

// keywordPatterns are four independent groups of suspicious content. Two or
// more matching groups count as a single triggered signal.
var keywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(crypto(currency)?|bitcoin|forex|investment opportunity|loan offer|wire transfer|inheritance|lottery)\b`),
	regexp.MustCompile(`(?i)\b(seo|backlinks?|guest post(ing)?|link building|increase (your )?traffic|google ranking)\b`),
	regexp.MustCompile(`(?i)\b(act now|limited time|urgent(ly)?|immediate(ly)? required|once in a lifetime|don'?t miss)\b`),
	regexp.MustCompile(`(?i)(https?://|www\.)\S+`),
}

// SpamVerdict is the scorer's output: an additive confidence in [0,1], the
// threshold decision, and the triggered signal descriptions.
type SpamVerdict struct {
	Score   float64
	IsSpam  bool
	Reasons []string
}

// Reason returns the semicolon-joined signal descriptions for the ledger.
func (v SpamVerdict) Reason() string {
	return strings.Join(v.Reasons, "; ")
}

// SpamService computes a weighted confidence score from independent signals.
// All signals are read-only; a verdict never blocks persistence, it only
// routes the submission to silent success.
type SpamService struct {
	db *gorm.DB
}

// NewSpamService returns a SpamService using the provided DB.
func NewSpamService(db *gorm.DB) *SpamService {
	return &SpamService{db: db}
}

// Score evaluates the signal set for the input's form kind. Database errors
// inside a signal disable that signal only; scoring always returns a verdict.
func (s *SpamService) Score(in FormInput) SpamVerdict {
	return s.scoreWith(s.db, in)
}

// ScoreTx is Score running inside an existing transaction.
func (s *SpamService) ScoreTx(tx *gorm.DB, in FormInput) SpamVerdict {
	return s.scoreWith(tx, in)
}

func (s *SpamService) scoreWith(db *gorm.DB, in FormInput) SpamVerdict {
	var verdict SpamVerdict

	add := func(weight float64, reason string) {
		verdict.Score += weight
		verdict.Reasons = append(verdict.Reasons, reason)
	}

	if s.ipFrequencyExceeded(db, in.IPAddress) {
		add(WeightIPFrequency, "high submission frequency from this IP")
	}
	if s.duplicateContent(db, in) {
		add(WeightDuplicate, "duplicate content detected")
	}
	if matchedKeywordGroups(in) >= 2 {
		add(WeightKeywords, "suspicious keyword patterns")
	}
	if isDisposableDomain(in.Email) {
		add(WeightDisposable, "disposable email domain")
	}

	switch in.Kind {
	case models.FormContact:
		if len(in.Body) < minBodyLength {
			add(WeightShortBody, "message body too short")
		}
	case models.FormEducation:
		if len(in.Grades) > maxGradeSelection {
			add(WeightGradeSpread, "excessive grade selection")
		}
	}

	if verdict.Score > 1.0 {
		verdict.Score = 1.0
	}
	verdict.IsSpam = verdict.Score >= SpamThreshold

	return verdict
}

func (s *SpamService) ipFrequencyExceeded(db *gorm.DB, ip string) bool {
	if ip == "" {
		return false
	}
	var count int64
	err := db.Model(&models.SubmissionLogEntry{}).
		Where("ip_address = ? AND created_at > ?", ip, time.Now().Add(-ipFrequencyWindow)).
		Count(&count).Error
	if err != nil {
		logger.Log().WithError(err).Warn("spam ip frequency query failed")
		return false
	}
	return count >= ipFrequencyMinimum
}

// duplicateContent looks for repeats of the same submission within the
// duplicate window: same email plus same body length for contact, same
// school name plus email for education. Both checks run against the
// ledger's redacted form data projection.
func (s *SpamService) duplicateContent(db *gorm.DB, in FormInput) bool {
	if in.Email == "" {
		return false
	}
	cutoff := time.Now().Add(-duplicateWindow)

	q := db.Model(&models.SubmissionLogEntry{}).
		Where("email = ? AND form_kind = ? AND created_at > ?", in.Email, in.Kind, cutoff)

	switch in.Kind {
	case models.FormContact:
		q = q.Where(datatypes.JSONQuery("form_data").Equals(len(in.Body), "project_details_length"))
	case models.FormEducation:
		q = q.Where(datatypes.JSONQuery("form_data").Equals(in.SchoolName, "school_name"))
	default:
		return false
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		logger.Log().WithError(err).Warn("spam duplicate query failed")
		return false
	}
	return count >= duplicateMinimum
}

func matchedKeywordGroups(in FormInput) int {
	text := strings.Join([]string{in.Name, in.Body, in.SchoolName}, " ")
	matched := 0
	for _, re := range keywordPatterns {
		if re.MatchString(text) {
			matched++
		}
	}
	return matched
}

func isDisposableDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	_, blocked := disposableDomains[strings.ToLower(email[at+1:])]
	return blocked
}
