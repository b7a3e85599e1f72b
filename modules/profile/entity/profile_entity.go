package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"eventhub-api/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Field names a user may pin against pipeline overwrites.
const (
	FieldHeadline   = "headline"
	FieldSummary    = "summary"
	FieldSkills     = "skills"
	FieldTitles     = "titles"
	FieldIndustries = "industries"
)

// ManuallyEditableFields are the profile fields a user can confirm; confirmed
// fields are skipped when parsed resume data is merged in.
var ManuallyEditableFields = []string{
	FieldHeadline, FieldSummary, FieldSkills, FieldTitles, FieldIndustries,
}

const (
	SourceUserConfirmed = "USER_CONFIRMED"
	ManualOverridesKey  = "manual_overrides"
)

type Profile struct {
	UserID         uuid.UUID      `db:"user_id" json:"user_id"`
	Headline       *string        `db:"headline" json:"headline,omitempty"`
	Summary        *string        `db:"summary" json:"summary,omitempty"`
	Skills         pq.StringArray `db:"skills" json:"skills"`
	Titles         pq.StringArray `db:"titles" json:"titles"`
	Industries     pq.StringArray `db:"industries" json:"industries"`
	Keywords       pq.StringArray `db:"keywords" json:"keywords"`
	EducationJSON  JSONB          `db:"education_json" json:"education_json"`
	ExperienceJSON JSONB          `db:"experience_json" json:"experience_json"`
	ConfidenceJSON JSONB          `db:"confidence_json" json:"confidence_json"`
	SourceResumeID *uuid.UUID     `db:"source_resume_id" json:"source_resume_id,omitempty"`

	entity.BaseEntity
}

type JSONB map[string]interface{}

func (a JSONB) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *JSONB) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &a)
}

// ManualOverrideFields returns the fields the user has confirmed, reading
// both encodings: the manual_overrides list and any per-field entry whose
// source is USER_CONFIRMED.
func (p *Profile) ManualOverrideFields() map[string]bool {
	overrides := make(map[string]bool)
	if p == nil || p.ConfidenceJSON == nil {
		return overrides
	}

	editable := make(map[string]bool, len(ManuallyEditableFields))
	for _, field := range ManuallyEditableFields {
		editable[field] = true
	}

	if raw, ok := p.ConfidenceJSON[ManualOverridesKey].([]interface{}); ok {
		for _, v := range raw {
			if name, ok := v.(string); ok && editable[name] {
				overrides[name] = true
			}
		}
	}

	for _, field := range ManuallyEditableFields {
		entry, ok := p.ConfidenceJSON[field].(map[string]interface{})
		if !ok {
			continue
		}
		if source, ok := entry["source"].(string); ok && strings.EqualFold(source, SourceUserConfirmed) {
			overrides[field] = true
		}
	}
	return overrides
}
