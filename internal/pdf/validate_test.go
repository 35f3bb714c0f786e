package pdf

import (
	goerrors "errors"
	"testing"

	"resumelens/internal/errors"
)

func TestValidateRejectsBadUploads(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		maxSize  int64
		wantCode string
	}{
		{"wrong extension", "resume.docx", []byte("%PDF-1.7"), 0, errors.ErrCodeInvalidFormat},
		{"no extension", "resume", []byte("%PDF-1.7"), 0, errors.ErrCodeInvalidFormat},
		{"empty file", "resume.pdf", nil, 0, errors.ErrCodeInvalidFormat},
		{"oversized", "resume.pdf", make([]byte, 11), 10, errors.ErrCodeFileTooLarge},
		{"wrong magic bytes", "resume.pdf", []byte("HELLO WORLD"), 0, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.filename, tt.data, tt.maxSize)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var appErr *errors.AppError
			if !goerrors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
			if appErr.Type != errors.ErrorTypeValidation {
				t.Errorf("expected validation type, got %s", appErr.Type)
			}
		})
	}
}

func TestWrapLines(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxCols int
		want    []string
	}{
		{"empty", "", 10, nil},
		{"short line", "hello", 10, []string{"hello"}},
		{"wraps at word boundary", "hello wide world", 11, []string{"hello wide", "world"}},
		{"hard break without spaces", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"drops blank lines", "one\n\n\ntwo", 10, []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapLines(tt.text, tt.maxCols)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d lines %v, got %d lines %v", len(tt.want), tt.want, len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
