package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"eventhub-api/core/database"
	"eventhub-api/core/errors"
	"eventhub-api/core/logger"
	"eventhub-api/core/queue"
	"eventhub-api/core/storage"
	"eventhub-api/core/utils"
	authentity "eventhub-api/modules/auth/entity"
	"eventhub-api/modules/resume/dto"
	"eventhub-api/modules/resume/entity"
	"eventhub-api/modules/resume/repository"

	"github.com/google/uuid"
)

// Reason codes for resume upload failures.
const (
	ReasonInvalidMimeType      = "INVALID_MIME_TYPE"
	ReasonInvalidFileExtension = "INVALID_FILE_EXTENSION"
	ReasonFileTooLarge         = "FILE_TOO_LARGE"
	ReasonEmptyFile            = "EMPTY_FILE"
	ReasonResumeDuplicate      = "RESUME_DUPLICATE"
	ReasonResumeNotFound       = "RESUME_NOT_FOUND"
)

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var allowedExtensions = map[string]bool{".pdf": true, ".docx": true}

var filenameSanitizeRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type ResumeService struct {
	repo     repository.ResumeRepositoryInterface
	store    storage.BlobStore
	queue    queue.IQueue
	maxBytes int64
}

type ResumeServiceInterface interface {
	Upload(ctx context.Context, actor *utils.TokenClaims, fileName, contentType string, r io.Reader) (*dto.ResumeResponse, *errors.AppError)
	GetStatus(ctx context.Context, actor *utils.TokenClaims, resumeID uuid.UUID) (*dto.ResumeStatusResponse, *errors.AppError)
	GetLatest(ctx context.Context, actor *utils.TokenClaims) (*dto.ResumeResponse, *errors.AppError)
}

func NewResumeService(repo repository.ResumeRepositoryInterface, store storage.BlobStore, q queue.IQueue, maxBytes int64) ResumeServiceInterface {
	return &ResumeService{repo: repo, store: store, queue: q, maxBytes: maxBytes}
}

// Upload validates and stores the file, records an UPLOADED resume version,
// and enqueues the parse job. The caller never waits on parsing; clients
// poll GetStatus.
func (s *ResumeService) Upload(ctx context.Context, actor *utils.TokenClaims, fileName, contentType string, r io.Reader) (*dto.ResumeResponse, *errors.AppError) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType != "" && !allowedMimeTypes[mimeType] {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "only pdf/docx files are allowed", nil).
			WithReason(ReasonInvalidMimeType)
	}

	safeName := sanitizeFilename(fileName)
	if !allowedExtensions[strings.ToLower(filepath.Ext(safeName))] {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "only .pdf and .docx are allowed", nil).
			WithReason(ReasonInvalidFileExtension)
	}

	var buf bytes.Buffer
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(&buf, hasher), io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		logger.Error("ResumeService:Upload:Read", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to read uploaded file", err)
	}
	if size > s.maxBytes {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("file exceeds max size of %d bytes", s.maxBytes), nil).
			WithReason(ReasonFileTooLarge)
	}
	if size == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "uploaded file is empty", nil).
			WithReason(ReasonEmptyFile)
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	resumeID := uuid.New()
	key := fmt.Sprintf("resumes/%s/%s/%s", actor.UserID, resumeID, safeName)

	resume := &entity.ResumeVersion{
		UserID:        actor.UserID,
		FileName:      safeName,
		MimeType:      mimeType,
		SizeBytes:     size,
		ContentSHA256: hex.EncodeToString(hasher.Sum(nil)),
		FileURI:       s.store.ResolveURI(key),
		Status:        entity.ResumeStatusUploaded,
	}
	resume.ID = resumeID

	created, err := s.repo.Create(ctx, resume)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrConflict, "duplicate resume for this user", err).
				WithReason(ReasonResumeDuplicate)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to record resume", err)
	}

	storedURI, err := s.store.Put(ctx, key, &buf)
	if err != nil {
		logger.Error("ResumeService:Upload:Put", err)
		if mErr := s.repo.MarkFailed(ctx, created.ID, entity.ErrCodeStorageWriteFailed, err.Error()); mErr != nil {
			logger.Error("ResumeService:Upload:MarkFailed", mErr)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store uploaded file", err).
			WithReason(entity.ErrCodeStorageWriteFailed)
	}
	if storedURI != created.FileURI {
		if err := s.repo.UpdateFileURI(ctx, created.ID, storedURI); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to record file location", err)
		}
		created.FileURI = storedURI
	}

	if _, err := s.queue.EnqueueParseResume(ctx, created.ID); err != nil {
		logger.Error("ResumeService:Upload:Enqueue", err)
		if mErr := s.repo.MarkFailed(ctx, created.ID, entity.ErrCodeQueueError, err.Error()); mErr != nil {
			logger.Error("ResumeService:Upload:MarkFailed", mErr)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to enqueue parse job", err).
			WithReason(entity.ErrCodeQueueError)
	}

	return dto.ToResumeResponse(created), nil
}

func (s *ResumeService) GetStatus(ctx context.Context, actor *utils.TokenClaims, resumeID uuid.UUID) (*dto.ResumeStatusResponse, *errors.AppError) {
	resume, err := s.repo.GetByID(ctx, resumeID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up resume", err)
	}
	if resume == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "resume not found", nil).
			WithReason(ReasonResumeNotFound)
	}
	if actor.Role != string(authentity.RoleAdmin) && resume.UserID != actor.UserID {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to view this resume", nil)
	}
	return dto.ToResumeStatusResponse(resume), nil
}

func (s *ResumeService) GetLatest(ctx context.Context, actor *utils.TokenClaims) (*dto.ResumeResponse, *errors.AppError) {
	resume, err := s.repo.GetLatestByUser(ctx, actor.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up resume", err)
	}
	if resume == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "resume not found", nil).
			WithReason(ReasonResumeNotFound)
	}
	return dto.ToResumeResponse(resume), nil
}

// sanitizeFilename keeps only safe characters and bounds the length;
// anything unusable falls back to "resume".
func sanitizeFilename(raw string) string {
	const fallback = "resume"
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		candidate = fallback
	}
	candidate = filepath.Base(candidate)
	candidate = filenameSanitizeRe.ReplaceAllString(candidate, "_")
	candidate = strings.Trim(candidate, "._")
	if candidate == "" {
		candidate = fallback
	}
	if len(candidate) > 200 {
		ext := filepath.Ext(candidate)
		if len(ext) > 20 {
			ext = ext[:20]
		}
		stem := strings.TrimSuffix(candidate, filepath.Ext(candidate))
		if len(stem) > 160 {
			stem = stem[:160]
		}
		if stem == "" {
			stem = fallback
		}
		candidate = stem + ext
	}
	return candidate
}
