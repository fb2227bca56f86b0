package types

import "time"

type TemplateStatus string

const (
	TemplateStatusActive   TemplateStatus = "ACTIVE"
	TemplateStatusInactive TemplateStatus = "INACTIVE"
)

type SectionKind string

const (
	SectionRepairPlanning SectionKind = "REPAIR_PLANNING"
	SectionDocuments      SectionKind = "DOCUMENTS"
	SectionAdditionalInfo SectionKind = "ADDITIONAL_INFO"
	SectionTextField      SectionKind = "TEXT_FIELD"
	SectionMediaField     SectionKind = "MEDIA_FIELD"
)

// Orders reserved for the three fixed sections. Dynamic sections count up
// from 1 and never reach this range.
const (
	OrderRepairPlanning = 100
	OrderDocuments      = 101
	OrderAdditionalInfo = 102
)

// TemplateSection is one entry of a dashboard's layout. Type doubles as
// the section's identity and must be unique within a template; fixed
// sections use their kind as the type, dynamic sections get a generated
// one.
type TemplateSection struct {
	Type      string         `json:"type"`
	Kind      SectionKind    `json:"kind"`
	Title     string         `json:"title"`
	IsDynamic bool           `json:"isDynamic"`
	Order     int            `json:"order"`
	Style     map[string]any `json:"style,omitempty"`
}

type DashboardTemplate struct {
	ID         string            `db:"id" json:"id"`
	Name       string            `db:"name" json:"name"`
	CriteriaID string            `db:"criteria_id" json:"criteriaId"`
	Status     TemplateStatus    `db:"status" json:"status"`
	Sections   []TemplateSection `db:"sections" json:"sections"` // jsonb
	CreatedAt  time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updatedAt"`
}

// FixedSectionDefaults returns the three sections every dashboard carries,
// at their reserved orders.
func FixedSectionDefaults() []TemplateSection {
	return []TemplateSection{
		{Type: string(SectionRepairPlanning), Kind: SectionRepairPlanning, Title: "Repair Planning", Order: OrderRepairPlanning},
		{Type: string(SectionDocuments), Kind: SectionDocuments, Title: "Documents", Order: OrderDocuments},
		{Type: string(SectionAdditionalInfo), Kind: SectionAdditionalInfo, Title: "Additional Info", Order: OrderAdditionalInfo},
	}
}

// MergeStyles deep-merges patch onto base, recursing into nested maps so
// unspecified nested keys survive. Neither input is mutated.
func MergeStyles(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		patchMap, patchOK := v.(map[string]any)
		baseMap, baseOK := out[k].(map[string]any)
		if patchOK && baseOK {
			out[k] = MergeStyles(baseMap, patchMap)
			continue
		}
		out[k] = v
	}
	return out
}
