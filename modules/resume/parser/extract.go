package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrTextExtraction marks failures in turning uploaded bytes into text:
// unsupported type, decoder failure, or an empty result. Callers treat all
// of these as terminal, not transient.
var ErrTextExtraction = errors.New("text extraction failed")

// ExtractText decodes the uploaded document into plain text, dispatching on
// the stored MIME type with the file extension as fallback.
func ExtractText(r io.Reader, mimeType, fileName string) (string, error) {
	var mime string
	switch {
	case isPDF(mimeType, fileName):
		mime = MimePDF
	case isDOCX(mimeType, fileName):
		mime = MimeDOCX
	default:
		return "", fmt.Errorf("%w: unsupported file type: %s", ErrTextExtraction, mimeType)
	}

	res, err := docconv.Convert(r, mime, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTextExtraction, err)
	}
	text := res.Body
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text extracted from document", ErrTextExtraction)
	}
	return text, nil
}

func isPDF(mimeType, fileName string) bool {
	return strings.EqualFold(mimeType, MimePDF) ||
		strings.EqualFold(filepath.Ext(fileName), ".pdf")
}

func isDOCX(mimeType, fileName string) bool {
	return strings.EqualFold(mimeType, MimeDOCX) ||
		strings.EqualFold(filepath.Ext(fileName), ".docx")
}
