package repository

import (
	"context"
	"database/sql"

	"eventhub-api/core/database"
	"eventhub-api/core/logger"
	"eventhub-api/modules/profile/entity"

	"github.com/google/uuid"
)

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	DB database.IDatabase
}

func NewProfileRepository(db database.IDatabase) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

type ProfileRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Upsert(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
}

const profileColumns = `
	id, user_id, headline, summary, skills, titles, industries, keywords,
	education_json, experience_json, confidence_json, source_resume_id,
	created_at, updated_at`

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	var profile entity.Profile
	err := r.DB.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ProfileRepository:GetByUserID", err)
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the whole profile row keyed by user_id; there is exactly one
// profile per user.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, headline, summary, skills, titles, industries,
		                      keywords, education_json, experience_json, confidence_json,
		                      source_resume_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			headline = EXCLUDED.headline,
			summary = EXCLUDED.summary,
			skills = EXCLUDED.skills,
			titles = EXCLUDED.titles,
			industries = EXCLUDED.industries,
			keywords = EXCLUDED.keywords,
			education_json = EXCLUDED.education_json,
			experience_json = EXCLUDED.experience_json,
			confidence_json = EXCLUDED.confidence_json,
			source_resume_id = EXCLUDED.source_resume_id,
			updated_at = NOW()
		RETURNING ` + profileColumns

	var saved entity.Profile
	err := r.DB.GetContext(ctx, &saved, query,
		profile.UserID, profile.Headline, profile.Summary, profile.Skills,
		profile.Titles, profile.Industries, profile.Keywords,
		profile.EducationJSON, profile.ExperienceJSON, profile.ConfidenceJSON,
		profile.SourceResumeID)
	if err != nil {
		logger.Error("ProfileRepository:Upsert", err)
		return nil, err
	}
	return &saved, nil
}
