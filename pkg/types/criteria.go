package types

import "time"

// MaxScoringPoints is the ceiling for the sum of all scoring category
// maxPoints on a single criteria.
const MaxScoringPoints = 100

type HeaderFieldType string

const (
	HeaderFieldText     HeaderFieldType = "TEXT"
	HeaderFieldNumber   HeaderFieldType = "NUMBER"
	HeaderFieldDate     HeaderFieldType = "DATE"
	HeaderFieldDropdown HeaderFieldType = "DROPDOWN"
)

func (t HeaderFieldType) Valid() bool {
	switch t {
	case HeaderFieldText, HeaderFieldNumber, HeaderFieldDate, HeaderFieldDropdown:
		return true
	}
	return false
}

// HeaderField is one entry of a criteria's header form. System fields are
// created once with the criteria and keep their key, type and required
// flag for the life of the criteria.
type HeaderField struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Type        HeaderFieldType `json:"type"`
	Placeholder string          `json:"placeholder,omitempty"`
	Options     []string        `json:"options,omitempty"` // dropdown only
	Required    bool            `json:"required"`
	IsSystem    bool            `json:"isSystem"`
	Order       int             `json:"order"`
}

type ScoringCategory struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	MaxPoints   int    `json:"maxPoints"`
	IsSystem    bool   `json:"isSystem"`
	Order       int    `json:"order"`
}

type MediaField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Accept   []string `json:"accept,omitempty"` // mime types
	MaxFiles int      `json:"maxFiles"`
	IsSystem bool     `json:"isSystem"`
	Order    int      `json:"order"`
}

type AdditionalNotesConfig struct {
	Enabled   bool   `json:"enabled"`
	Label     string `json:"label"`
	MaxLength int    `json:"maxLength"`
}

// RepairPlanningConfig carries the statuses an inspector can assign to a
// planned repair. It is deliberately its own shape, not a reuse of the
// notes config.
type RepairPlanningConfig struct {
	Statuses []string `json:"statuses"`
}

type HealthThresholdTier struct {
	MinScore              int `json:"minScore"`
	MaxScore              int `json:"maxScore"`
	RemainingLifeMinYears int `json:"remainingLifeMinYears"`
	RemainingLifeMaxYears int `json:"remainingLifeMaxYears"`
}

type HealthThresholdConfig struct {
	Good HealthThresholdTier `json:"good"`
	Fair HealthThresholdTier `json:"fair"`
	Poor HealthThresholdTier `json:"poor"`
}

type InspectionCriteria struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	IsActive    bool   `db:"is_active" json:"isActive"`

	// jsonb columns
	HeaderFields          []HeaderField          `db:"header_fields" json:"headerFields"`
	ScoringCategories     []ScoringCategory      `db:"scoring_categories" json:"scoringCategories"`
	MediaFields           []MediaField           `db:"media_fields" json:"mediaFields"`
	AdditionalNotesConfig *AdditionalNotesConfig `db:"additional_notes_config" json:"additionalNotesConfig"`
	RepairPlanningConfig  *RepairPlanningConfig  `db:"repair_planning_config" json:"repairPlanningConfig"`
	HealthThresholdConfig *HealthThresholdConfig `db:"health_threshold_config" json:"healthThresholdConfig"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TotalScoringPoints sums maxPoints across all scoring categories.
func (c *InspectionCriteria) TotalScoringPoints() int {
	total := 0
	for _, cat := range c.ScoringCategories {
		total += cat.MaxPoints
	}
	return total
}
