package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantErr Code
	}{
		{"valid", "sunset over mountains", ""},
		{"multiline", "forest\nwith fog", ""},
		{"empty", "", ErrCodeMissingPrompt},
		{"whitespace only", "   \t ", ErrCodeMissingPrompt},
		{"too long", strings.Repeat("a", MaxPromptLength+1), ErrCodeInvalidInput},
		{"control character", "sun\x00set", ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrompt(tt.prompt)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePrompt() unexpected error: %v", err)
				}
				return
			}
			if !Is(err, tt.wantErr) {
				t.Errorf("ValidatePrompt() = %v, want code %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePlacement(t *testing.T) {
	tests := []struct {
		name     string
		x, y, s  float64
		wantErr  bool
	}{
		{"default", 0.5, 0.5, 0.5, false},
		{"corners", 0, 1, 1, false},
		{"x below range", -0.1, 0.5, 0.5, true},
		{"y above range", 0.5, 1.2, 0.5, true},
		{"zero scale", 0.5, 0.5, 0, true},
		{"scale above one", 0.5, 0.5, 1.5, true},
		{"nan", math.NaN(), 0.5, 0.5, true},
		{"inf", 0.5, math.Inf(1), 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlacement(tt.x, tt.y, tt.s)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlacement() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPosition) {
				t.Errorf("ValidatePlacement() code = %v, want %v", GetCode(err), ErrCodeInvalidPosition)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"http", "http://localhost:5000", false},
		{"https", "https://cards.example.com", false},
		{"empty", "", true},
		{"ftp scheme", "ftp://example.com", true},
		{"no host", "http://", true},
		{"not a url", "localhost:5000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateURL(tt.url); (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
