package cardapi

import (
	"fmt"
	"strings"

	apperr "github.com/matzehuels/cardforge/pkg/errors"
	"github.com/matzehuels/cardforge/pkg/placement"
)

// Endpoint paths relative to the service base URL.
const (
	PathGenerateCard  = "/generate-card"
	PathImprovePrompt = "/improve-prompt"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Mode selects where the card background comes from.
type Mode string

const (
	ModeGenerate Mode = "generate" // background generated from a prompt
	ModeUpload   Mode = "upload"   // background supplied as a file
)

// ParseMode parses "generate" or "upload".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeGenerate, ModeUpload:
		return m, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidMode, "unknown background mode %q (want generate or upload)", s)
}

// DefaultStyle is sent when no style is chosen.
const DefaultStyle = "DEFAULT"

// File is an in-memory upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// CardRequest is everything /generate-card needs.
type CardRequest struct {
	Logo       File
	Mode       Mode
	Prompt     string // generate mode
	Style      string // generate mode; empty means DefaultStyle
	Background *File  // upload mode
	Placement  placement.Placement
}

// Validate checks the request the same way the wizard checks each step, so
// a request built outside the wizard fails before it reaches the network.
func (r CardRequest) Validate() error {
	if len(r.Logo.Data) == 0 {
		return apperr.New(apperr.ErrCodeMissingFile, "please upload a company logo")
	}
	switch r.Mode {
	case ModeGenerate:
		if err := apperr.ValidatePrompt(r.Prompt); err != nil {
			return err
		}
	case ModeUpload:
		if r.Background == nil || len(r.Background.Data) == 0 {
			return apperr.New(apperr.ErrCodeMissingFile, "please upload a card background")
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidMode, "unknown background mode %q", r.Mode)
	}
	p := r.Placement
	return apperr.ValidatePlacement(p.CenterX, p.CenterY, p.Scale)
}

func (r CardRequest) style() string {
	if s := strings.TrimSpace(r.Style); s != "" {
		return strings.ToUpper(s)
	}
	return DefaultStyle
}

// Card is a composed image returned by the service.
type Card struct {
	Data        []byte
	ContentType string // e.g. image/png
	RequestID   string
}

// Extension returns a file extension matching the card's content type.
func (c *Card) Extension() string {
	switch c.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ".png"
}

// APIError is a failure reported by the service itself.
type APIError struct {
	Status  int    // HTTP status code
	Message string // "error" field of the JSON body, or a fallback
	NSFW    bool   // the service flagged an upload as inappropriate
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}
