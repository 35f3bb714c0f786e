package common

import (
	goerrors "errors"
	"strings"
	"testing"

	"resumelens/internal/errors"
)

func TestValidateResumeText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCode string
	}{
		{"empty string", "", errors.ErrCodeEmptyResumeText},
		{"whitespace only", "   \n\t  ", errors.ErrCodeEmptyResumeText},
		{"one character short", strings.Repeat("a", 49), errors.ErrCodeResumeTooShort},
		{"exactly at threshold", strings.Repeat("a", 50), ""},
		{"well formed", strings.Repeat("experience ", 20), ""},
		{"padding does not count", strings.Repeat("a", 49) + "   ", errors.ErrCodeResumeTooShort},
		{"multibyte counted as characters", strings.Repeat("é", 50), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResumeText(tt.text)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected valid text, got %v", err)
				}
				return
			}

			var appErr *errors.AppError
			if !goerrors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
			if appErr.Type != errors.ErrorTypeValidation {
				t.Errorf("expected validation error, got %s", appErr.Type)
			}
			if appErr.Retryable {
				t.Error("validation failures must not be retryable")
			}
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	if err := ValidateOutputFormat("json", supported); err != nil {
		t.Errorf("json should be supported: %v", err)
	}
	if err := ValidateOutputFormat("yaml", supported); err == nil {
		t.Error("yaml should be rejected")
	}
	if err := ValidateOutputFormat("anything", nil); err != nil {
		t.Errorf("no restrictions should allow anything: %v", err)
	}
}
