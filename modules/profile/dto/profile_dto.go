package dto

import (
	"time"

	"eventhub-api/modules/profile/entity"

	"github.com/google/uuid"
)

// UpdateProfileRequest carries the user-editable fields; nil means the field
// was not sent. Every field that is sent becomes a manual override the
// ingestion pipeline will no longer touch.
type UpdateProfileRequest struct {
	Headline   *string   `json:"headline"`
	Summary    *string   `json:"summary"`
	Skills     *[]string `json:"skills"`
	Titles     *[]string `json:"titles"`
	Industries *[]string `json:"industries"`
}

type ProfileResponse struct {
	UserID         uuid.UUID      `json:"user_id"`
	Headline       *string        `json:"headline,omitempty"`
	Summary        *string        `json:"summary,omitempty"`
	Skills         []string       `json:"skills"`
	Titles         []string       `json:"titles"`
	Industries     []string       `json:"industries"`
	Keywords       []string       `json:"keywords"`
	EducationJSON  map[string]any `json:"education_json"`
	ExperienceJSON map[string]any `json:"experience_json"`
	ConfidenceJSON map[string]any `json:"confidence_json"`
	SourceResumeID *uuid.UUID     `json:"source_resume_id,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func ToProfileResponse(profile *entity.Profile) *ProfileResponse {
	return &ProfileResponse{
		UserID:         profile.UserID,
		Headline:       profile.Headline,
		Summary:        profile.Summary,
		Skills:         orEmpty(profile.Skills),
		Titles:         orEmpty(profile.Titles),
		Industries:     orEmpty(profile.Industries),
		Keywords:       orEmpty(profile.Keywords),
		EducationJSON:  orEmptyMap(profile.EducationJSON),
		ExperienceJSON: orEmptyMap(profile.ExperienceJSON),
		ConfidenceJSON: orEmptyMap(profile.ConfidenceJSON),
		SourceResumeID: profile.SourceResumeID,
		UpdatedAt:      profile.UpdatedAt,
	}
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
