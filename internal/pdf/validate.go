// Package pdf gives the rest of the application a validated view of a PDF
// resume: upload checks, plain-text extraction, and a page source that
// rasterizes pages for the viewer.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"resumelens/internal/errors"
	"resumelens/internal/utils"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxFileSize is the default upload limit, matching the service's own cap.
const MaxFileSize = 10 * 1024 * 1024

var pdfMagic = []byte("%PDF-")

// Validate rejects files the service could not process: wrong type, empty,
// oversized, not actually a PDF, or encrypted.
func Validate(filename string, data []byte, maxSize int64) error {
	if !utils.IsPDFFile(filename) {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Invalid file type. Please upload a PDF file", nil)
	}

	if len(data) == 0 {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"File is empty", nil)
	}

	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	if int64(len(data)) > maxSize {
		return errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File is too large. Maximum size is %s", utils.FormatFileSize(maxSize)), nil)
	}

	if !bytes.HasPrefix(data, pdfMagic) {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"File is not a valid PDF", nil)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		if isEncryptionError(err) {
			return errors.NewValidationError(errors.ErrCodeEncryptedPDF,
				"Cannot process encrypted PDF files", err)
		}
		return errors.NewValidationError(errors.ErrCodeUnreadablePDF,
			"Unable to read PDF content. The PDF may be image-based or corrupted", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		if isEncryptionError(err) {
			return errors.NewValidationError(errors.ErrCodeEncryptedPDF,
				"Cannot process encrypted PDF files", err)
		}
		return errors.NewValidationError(errors.ErrCodeUnreadablePDF,
			"Unable to read PDF content. The PDF may be image-based or corrupted", err)
	}

	return nil
}

// isEncryptionError recognizes pdfcpu failures caused by password
// protection.
func isEncryptionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "encrypt") || strings.Contains(msg, "password")
}
