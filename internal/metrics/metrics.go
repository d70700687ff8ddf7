package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_form_submissions_total",
		Help: "Total number of form submission attempts received",
	}, []string{"form"})
	acceptedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_form_accepted_total",
		Help: "Total number of form submissions accepted and persisted",
	}, []string{"form"})
	spamTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_form_spam_total",
		Help: "Total number of form submissions flagged as spam",
	}, []string{"form"})
	rateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_form_rate_limited_total",
		Help: "Total number of form submissions rejected by the rate limiter",
	}, []string{"form"})
	validationFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_form_validation_failed_total",
		Help: "Total number of form submissions rejected by field validation",
	}, []string{"form"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(submissionsTotal, acceptedTotal, spamTotal, rateLimitedTotal, validationFailedTotal)
}

// IncSubmission increments the received submissions counter for a form kind.
func IncSubmission(form string) { submissionsTotal.WithLabelValues(form).Inc() }

// IncAccepted increments the accepted submissions counter for a form kind.
func IncAccepted(form string) { acceptedTotal.WithLabelValues(form).Inc() }

// IncSpam increments the spam-flagged counter for a form kind.
func IncSpam(form string) { spamTotal.WithLabelValues(form).Inc() }

// IncRateLimited increments the rate-limited counter for a form kind.
func IncRateLimited(form string) { rateLimitedTotal.WithLabelValues(form).Inc() }

// IncValidationFailed increments the validation-failure counter for a form kind.
func IncValidationFailed(form string) { validationFailedTotal.WithLabelValues(form).Inc() }
