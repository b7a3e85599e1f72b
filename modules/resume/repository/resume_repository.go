package repository

import (
	"context"
	"database/sql"
	"time"

	"eventhub-api/core/database"
	"eventhub-api/core/logger"
	"eventhub-api/modules/resume/entity"

	"github.com/google/uuid"
)

// ResumeRepository handles resume version database operations
type ResumeRepository struct {
	DB database.IDatabase
}

func NewResumeRepository(db database.IDatabase) *ResumeRepository {
	return &ResumeRepository{DB: db}
}

type ResumeRepositoryInterface interface {
	Create(ctx context.Context, resume *entity.ResumeVersion) (*entity.ResumeVersion, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ResumeVersion, error)
	GetByUserAndHash(ctx context.Context, userID uuid.UUID, sha256 string) (*entity.ResumeVersion, error)
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entity.ResumeVersion, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.ResumeVersion, error)
	SetStatus(ctx context.Context, id uuid.UUID, status entity.ResumeStatus) error
	UpdateFileURI(ctx context.Context, id uuid.UUID, uri string) error
	SetExtractedTextURI(ctx context.Context, id uuid.UUID, uri string) error
	MarkParsed(ctx context.Context, id uuid.UUID, confidence float64, parsedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, code, message string) error
}

const resumeColumns = `
	id, user_id, file_name, mime_type, size_bytes, content_sha256, file_uri,
	status, error_code, error_message, extracted_text_uri, parse_confidence,
	parsed_at, created_at, updated_at`

// Create inserts a new resume version. The id is assigned by the caller
// because the storage key embeds it before the row exists.
func (r *ResumeRepository) Create(ctx context.Context, resume *entity.ResumeVersion) (*entity.ResumeVersion, error) {
	query := `
		INSERT INTO resume_versions (id, user_id, file_name, mime_type, size_bytes,
		                             content_sha256, file_uri, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + resumeColumns

	var created entity.ResumeVersion
	err := r.DB.GetContext(ctx, &created, query,
		resume.ID, resume.UserID, resume.FileName, resume.MimeType, resume.SizeBytes,
		resume.ContentSHA256, resume.FileURI, resume.Status)
	if err != nil {
		if !database.IsUniqueViolation(err) {
			logger.Error("ResumeRepository:Create", err)
		}
		return nil, err
	}
	return &created, nil
}

func (r *ResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ResumeVersion, error) {
	query := `SELECT ` + resumeColumns + ` FROM resume_versions WHERE id = $1`

	var resume entity.ResumeVersion
	err := r.DB.GetContext(ctx, &resume, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ResumeRepository:GetByID", err)
		return nil, err
	}
	return &resume, nil
}

func (r *ResumeRepository) GetByUserAndHash(ctx context.Context, userID uuid.UUID, sha256 string) (*entity.ResumeVersion, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resume_versions
		WHERE user_id = $1 AND content_sha256 = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var resume entity.ResumeVersion
	err := r.DB.GetContext(ctx, &resume, query, userID, sha256)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ResumeRepository:GetByUserAndHash", err)
		return nil, err
	}
	return &resume, nil
}

func (r *ResumeRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entity.ResumeVersion, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resume_versions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var resume entity.ResumeVersion
	err := r.DB.GetContext(ctx, &resume, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ResumeRepository:GetLatestByUser", err)
		return nil, err
	}
	return &resume, nil
}

func (r *ResumeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.ResumeVersion, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resume_versions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var resumes []entity.ResumeVersion
	err := r.DB.SelectContext(ctx, &resumes, query, userID)
	if err != nil {
		logger.Error("ResumeRepository:ListByUser", err)
		return nil, err
	}
	return resumes, nil
}

// SetStatus advances the pipeline status and clears any stale failure
// bookkeeping from a previous run.
func (r *ResumeRepository) SetStatus(ctx context.Context, id uuid.UUID, status entity.ResumeStatus) error {
	query := `
		UPDATE resume_versions
		SET status = $2, error_code = NULL, error_message = NULL, parsed_at = NULL,
		    updated_at = NOW()
		WHERE id = $1`

	if err := r.DB.ExecContext(ctx, query, id, status); err != nil {
		logger.Error("ResumeRepository:SetStatus", err)
		return err
	}
	return nil
}

func (r *ResumeRepository) UpdateFileURI(ctx context.Context, id uuid.UUID, uri string) error {
	query := `UPDATE resume_versions SET file_uri = $2, updated_at = NOW() WHERE id = $1`

	if err := r.DB.ExecContext(ctx, query, id, uri); err != nil {
		logger.Error("ResumeRepository:UpdateFileURI", err)
		return err
	}
	return nil
}

func (r *ResumeRepository) SetExtractedTextURI(ctx context.Context, id uuid.UUID, uri string) error {
	query := `UPDATE resume_versions SET extracted_text_uri = $2, updated_at = NOW() WHERE id = $1`

	if err := r.DB.ExecContext(ctx, query, id, uri); err != nil {
		logger.Error("ResumeRepository:SetExtractedTextURI", err)
		return err
	}
	return nil
}

func (r *ResumeRepository) MarkParsed(ctx context.Context, id uuid.UUID, confidence float64, parsedAt time.Time) error {
	query := `
		UPDATE resume_versions
		SET status = $2, parse_confidence = $3, parsed_at = $4,
		    error_code = NULL, error_message = NULL, updated_at = NOW()
		WHERE id = $1`

	if err := r.DB.ExecContext(ctx, query, id, entity.ResumeStatusParsed, confidence, parsedAt); err != nil {
		logger.Error("ResumeRepository:MarkParsed", err)
		return err
	}
	return nil
}

func (r *ResumeRepository) MarkFailed(ctx context.Context, id uuid.UUID, code, message string) error {
	if len(message) > 2000 {
		message = message[:2000]
	}
	query := `
		UPDATE resume_versions
		SET status = $2, error_code = $3, error_message = $4,
		    parsed_at = NULL, parse_confidence = NULL, updated_at = NOW()
		WHERE id = $1`

	if err := r.DB.ExecContext(ctx, query, id, entity.ResumeStatusFailed, code, message); err != nil {
		logger.Error("ResumeRepository:MarkFailed", err)
		return err
	}
	return nil
}
