package common

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"resumelens/internal/errors"
)

// MinResumeTextLength is the minimum number of characters a resume must
// contain after trimming, matching the service's own acceptance threshold.
const MinResumeTextLength = 50

// ValidateResumeText rejects text the service would refuse, before any
// request is made. Length is counted in characters, not bytes.
func ValidateResumeText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyResumeText,
			"Resume text cannot be empty", nil)
	}

	if utf8.RuneCountInString(trimmed) < MinResumeTextLength {
		return errors.NewValidationError(errors.ErrCodeResumeTooShort,
			fmt.Sprintf("Resume text is too short. Please provide a complete resume with at least %d characters", MinResumeTextLength), nil)
	}

	return nil
}

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}
