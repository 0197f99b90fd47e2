package errors

import (
	"math"
	"net/url"
	"strings"
	"unicode"
)

// MaxPromptLength bounds the length of a background prompt in runes.
const MaxPromptLength = 1000

// ValidatePrompt validates a background prompt.
//
// The validation rules are:
//   - Not empty after trimming whitespace
//   - At most MaxPromptLength runes
//   - No control characters other than newlines and tabs
func ValidatePrompt(prompt string) error {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return New(ErrCodeMissingPrompt, "please describe the background you want")
	}

	if n := len([]rune(p)); n > MaxPromptLength {
		return New(ErrCodeInvalidInput, "prompt too long (%d characters, max %d)", n, MaxPromptLength)
	}

	for _, r := range p {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return New(ErrCodeInvalidInput, "prompt contains invalid control characters")
		}
	}

	return nil
}

// ValidatePlacement validates a normalized logo placement: both center
// fractions in [0,1] and a scale in (0,1].
func ValidatePlacement(x, y, scale float64) error {
	for _, v := range []float64{x, y, scale} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidPosition, "logo position must be a finite number")
		}
	}
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return New(ErrCodeInvalidPosition, "logo position (%.4f, %.4f) is outside the card", x, y)
	}
	if scale <= 0 || scale > 1 {
		return New(ErrCodeInvalidPosition, "logo scale %.4f must be in (0, 1]", scale)
	}
	return nil
}

// ValidateURL validates a service base URL.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}
