package dto

import (
	"strings"
	"time"

	"eventhub-api/modules/resume/entity"

	"github.com/google/uuid"
)

type ResumeResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	FileName        string              `json:"file_name"`
	MimeType        string              `json:"mime_type"`
	SizeBytes       int64               `json:"size_bytes"`
	ContentSHA256   string              `json:"content_sha256"`
	Status          entity.ResumeStatus `json:"status"`
	ErrorCode       *string             `json:"error_code,omitempty"`
	ErrorMessage    *string             `json:"error_message,omitempty"`
	ParseConfidence *float64            `json:"parse_confidence,omitempty"`
	ParsedAt        *time.Time          `json:"parsed_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ResumeStatusResponse is the polling view of an ingestion job.
type ResumeStatusResponse struct {
	ID            uuid.UUID           `json:"id"`
	Status        entity.ResumeStatus `json:"status"`
	ProgressStage string              `json:"progress_stage"`
	ErrorCode     *string             `json:"error_code,omitempty"`
	ErrorMessage  *string             `json:"error_message,omitempty"`
	ParsedAt      *time.Time          `json:"parsed_at,omitempty"`
}

func ToResumeResponse(resume *entity.ResumeVersion) *ResumeResponse {
	return &ResumeResponse{
		ID:              resume.ID,
		UserID:          resume.UserID,
		FileName:        resume.FileName,
		MimeType:        resume.MimeType,
		SizeBytes:       resume.SizeBytes,
		ContentSHA256:   resume.ContentSHA256,
		Status:          resume.Status,
		ErrorCode:       resume.ErrorCode,
		ErrorMessage:    resume.ErrorMessage,
		ParseConfidence: resume.ParseConfidence,
		ParsedAt:        resume.ParsedAt,
		CreatedAt:       resume.CreatedAt,
	}
}

func ToResumeStatusResponse(resume *entity.ResumeVersion) *ResumeStatusResponse {
	return &ResumeStatusResponse{
		ID:            resume.ID,
		Status:        resume.Status,
		ProgressStage: strings.ToLower(string(resume.Status)),
		ErrorCode:     resume.ErrorCode,
		ErrorMessage:  resume.ErrorMessage,
		ParsedAt:      resume.ParsedAt,
	}
}
