package service

import (
	"context"
	"sort"
	"strings"

	"eventhub-api/core/errors"
	"eventhub-api/modules/profile/dto"
	"eventhub-api/modules/profile/entity"
	"eventhub-api/modules/profile/repository"
	"eventhub-api/modules/resume/parser"

	"github.com/google/uuid"
)

type ProfileService struct {
	repo repository.ProfileRepositoryInterface
}

type ProfileServiceInterface interface {
	GetMyProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError)
	UpdateMyProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, *errors.AppError)

	// ApplyParsed merges structured resume output into the user's profile,
	// leaving manually confirmed fields untouched. Called by the ingestion
	// worker, not from HTTP.
	ApplyParsed(ctx context.Context, userID, resumeID uuid.UUID, structured *parser.StructuredResume) error
}

func NewProfileService(repo repository.ProfileRepositoryInterface) ProfileServiceInterface {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) GetMyProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError) {
	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load profile", err)
	}
	return dto.ToProfileResponse(profile), nil
}

func (s *ProfileService) UpdateMyProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, *errors.AppError) {
	if req.Headline == nil && req.Summary == nil && req.Skills == nil &&
		req.Titles == nil && req.Industries == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "at least one editable field must be provided", nil)
	}

	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load profile", err)
	}

	overrides := existingOverrides(profile.ConfidenceJSON)
	if req.Headline != nil {
		profile.Headline = normalizeText(*req.Headline)
		overrides[entity.FieldHeadline] = true
	}
	if req.Summary != nil {
		profile.Summary = normalizeText(*req.Summary)
		overrides[entity.FieldSummary] = true
	}
	if req.Skills != nil {
		profile.Skills = normalizeItems(*req.Skills)
		overrides[entity.FieldSkills] = true
	}
	if req.Titles != nil {
		profile.Titles = normalizeItems(*req.Titles)
		overrides[entity.FieldTitles] = true
	}
	if req.Industries != nil {
		profile.Industries = normalizeItems(*req.Industries)
		overrides[entity.FieldIndustries] = true
	}

	profile.ConfidenceJSON = withOverrideMarkers(profile.ConfidenceJSON, overrides)

	saved, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update profile", err)
	}
	return dto.ToProfileResponse(saved), nil
}

func (s *ProfileService) ApplyParsed(ctx context.Context, userID, resumeID uuid.UUID, structured *parser.StructuredResume) error {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &entity.Profile{UserID: userID}
	}
	manual := profile.ManualOverrideFields()

	if !manual[entity.FieldHeadline] {
		profile.Headline = structured.Headline
	}
	if !manual[entity.FieldSummary] {
		profile.Summary = structured.Summary
	}
	if !manual[entity.FieldSkills] {
		profile.Skills = structured.Skills
	}
	if !manual[entity.FieldTitles] {
		profile.Titles = structured.Titles
	}
	if !manual[entity.FieldIndustries] {
		profile.Industries = structured.Industries
	}
	profile.EducationJSON = structured.Education
	profile.ExperienceJSON = structured.Experience
	profile.Keywords = structured.Keywords
	profile.ConfidenceJSON = mergeConfidence(structured.Confidence, profile.ConfidenceJSON, manual)
	profile.SourceResumeID = &resumeID

	_, err = s.repo.Upsert(ctx, profile)
	return err
}

func (s *ProfileService) getOrCreate(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	return s.repo.Upsert(ctx, &entity.Profile{UserID: userID})
}

func normalizeText(value string) *string {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return nil
	}
	return &normalized
}

func normalizeItems(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		item := strings.TrimSpace(value)
		if item == "" {
			continue
		}
		lower := strings.ToLower(item)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, item)
	}
	return out
}

func existingOverrides(confidence entity.JSONB) map[string]bool {
	overrides := make(map[string]bool)
	if confidence == nil {
		return overrides
	}
	editable := make(map[string]bool, len(entity.ManuallyEditableFields))
	for _, field := range entity.ManuallyEditableFields {
		editable[field] = true
	}
	if raw, ok := confidence[entity.ManualOverridesKey].([]interface{}); ok {
		for _, v := range raw {
			if name, ok := v.(string); ok && editable[name] {
				overrides[name] = true
			}
		}
	}
	return overrides
}

// withOverrideMarkers rewrites the confidence map after a user edit: the
// override list is kept sorted and each overridden field gets a
// USER_CONFIRMED marker with full confidence.
func withOverrideMarkers(confidence entity.JSONB, overrides map[string]bool) entity.JSONB {
	merged := entity.JSONB{}
	for k, v := range confidence {
		merged[k] = v
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	merged[entity.ManualOverridesKey] = names
	for _, name := range names {
		merged[name] = map[string]interface{}{
			"value":  1.0,
			"source": entity.SourceUserConfirmed,
		}
	}
	return merged
}

// mergeConfidence combines parser confidences with what was already stored:
// parsed values win for parsed fields, non-editable keys from the old map are
// carried over, and override markers are re-applied last so they survive.
func mergeConfidence(parsed map[string]float64, existing entity.JSONB, manual map[string]bool) entity.JSONB {
	merged := entity.JSONB{}
	for k, v := range parsed {
		merged[k] = v
	}

	editable := make(map[string]bool, len(entity.ManuallyEditableFields))
	for _, field := range entity.ManuallyEditableFields {
		editable[field] = true
	}
	for k, v := range existing {
		if editable[k] || k == entity.ManualOverridesKey {
			continue
		}
		merged[k] = v
	}

	if len(manual) > 0 {
		names := make([]string, 0, len(manual))
		for name := range manual {
			names = append(names, name)
		}
		sort.Strings(names)
		merged[entity.ManualOverridesKey] = names
		for _, name := range names {
			merged[name] = map[string]interface{}{
				"value":  1.0,
				"source": entity.SourceUserConfirmed,
			}
		}
	}
	return merged
}
