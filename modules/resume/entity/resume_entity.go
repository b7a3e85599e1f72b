package entity

import (
	"time"

	"eventhub-api/core/entity"

	"github.com/google/uuid"
)

// ResumeStatus moves strictly forward through the ingestion pipeline,
// with a branch to FAILED from any non-terminal state. PARSED and FAILED
// are terminal.
type ResumeStatus string

const (
	ResumeStatusUploaded ResumeStatus = "UPLOADED"
	ResumeStatusScanning ResumeStatus = "SCANNING"
	ResumeStatusParsing  ResumeStatus = "PARSING"
	ResumeStatusParsed   ResumeStatus = "PARSED"
	ResumeStatusFailed   ResumeStatus = "FAILED"
)

// Terminal error codes recorded on a failed resume version.
const (
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeUserNotActive        = "USER_NOT_ACTIVE"
	ErrCodeMalwareDetected      = "MALWARE_DETECTED"
	ErrCodeTextExtractionFailed = "TEXT_EXTRACTION_FAILED"
	ErrCodeStorageWriteFailed   = "STORAGE_WRITE_FAILED"
	ErrCodeQueueError           = "QUEUE_ERROR"
	ErrCodeParsingError         = "PARSING_ERROR"
)

type ResumeVersion struct {
	UserID           uuid.UUID    `db:"user_id" json:"user_id"`
	FileName         string       `db:"file_name" json:"file_name"`
	MimeType         string       `db:"mime_type" json:"mime_type"`
	SizeBytes        int64        `db:"size_bytes" json:"size_bytes"`
	ContentSHA256    string       `db:"content_sha256" json:"content_sha256"`
	FileURI          string       `db:"file_uri" json:"file_uri"`
	Status           ResumeStatus `db:"status" json:"status"`
	ErrorCode        *string      `db:"error_code" json:"error_code,omitempty"`
	ErrorMessage     *string      `db:"error_message" json:"error_message,omitempty"`
	ExtractedTextURI *string      `db:"extracted_text_uri" json:"extracted_text_uri,omitempty"`
	ParseConfidence  *float64     `db:"parse_confidence" json:"parse_confidence,omitempty"`
	ParsedAt         *time.Time   `db:"parsed_at" json:"parsed_at,omitempty"`

	entity.BaseEntity
}

// IsTerminal reports whether no further pipeline transitions apply.
func (r *ResumeVersion) IsTerminal() bool {
	return r.Status == ResumeStatusParsed || r.Status == ResumeStatusFailed
}
