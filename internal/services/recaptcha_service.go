package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RecaptchaMinScore is the lowest verification score treated as human.
const RecaptchaMinScore = 0.5

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaResult is the outcome of a token verification.
type RecaptchaResult struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
	Action  string  `json:"action"`
}

// Passed reports whether the verification clears the score floor.
func (r RecaptchaResult) Passed() bool {
	return r.Success && r.Score >= RecaptchaMinScore
}

// RecaptchaVerifier validates a client token against the verification API.
type RecaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (RecaptchaResult, error)
	// Enabled reports whether verification is configured at all.
	Enabled() bool
}

// GoogleRecaptcha verifies tokens against Google's siteverify endpoint.
type GoogleRecaptcha struct {
	secret   string
	endpoint string
	client   *http.Client
}

// NewGoogleRecaptcha returns a verifier for the given secret key. An empty
// secret disables verification (local development).
func NewGoogleRecaptcha(secret string) *GoogleRecaptcha {
	return &GoogleRecaptcha{
		secret:   secret,
		endpoint: recaptchaVerifyURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GoogleRecaptcha) Enabled() bool {
	return g.secret != ""
}

func (g *GoogleRecaptcha) Verify(ctx context.Context, token, remoteIP string) (RecaptchaResult, error) {
	form := url.Values{
		"secret":   {g.secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return RecaptchaResult{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return RecaptchaResult{}, fmt.Errorf("verify recaptcha: %w", err)
	}
	defer resp.Body.Close()

	var result RecaptchaResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return RecaptchaResult{}, fmt.Errorf("decode verify response: %w", err)
	}
	return result, nil
}
