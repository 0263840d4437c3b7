// Package caserecord aggregates per-category document records for one case
// subject into a single client record with a chronological timeline.
package caserecord

// Notification is a summarized child-welfare notification.
type Notification struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	Summary         string   `json:"summary"`
	ReporterSummary string   `json:"reporter_summary,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	Urgency         string   `json:"urgency,omitempty"`
	Highlights      []string `json:"highlights,omitempty"`
}

// CaseNote is a free-form case note with an author-written summary.
type CaseNote struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords,omitempty"`
}

// Decision is a summarized decision document.
type Decision struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Summary      string   `json:"summary"`
	DecisionType string   `json:"decision_type,omitempty"`
	LegalBasis   string   `json:"legal_basis,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// PTARecord is a summarized service-need assessment entry.
type PTARecord struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Summary   string `json:"summary"`
	EventType string `json:"event_type,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ServicePlan is a summarized client service plan. Date is the plan's start
// date and places the plan on the timeline.
type ServicePlan struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Summary   string `json:"summary"`
	PlanType  string `json:"plan_type,omitempty"`
	ValidFrom string `json:"valid_from,omitempty"`
	ValidTo   string `json:"valid_to,omitempty"`
}

// EntryType identifies the source category of a timeline entry.
type EntryType string

// Timeline entry types, in source-category declaration order.
const (
	EntryNotification EntryType = "notification"
	EntryCaseNote     EntryType = "case_note"
	EntryDecision     EntryType = "decision"
	EntryPTARecord    EntryType = "pta_record"
	EntryServicePlan  EntryType = "service_plan"
)

// TimelineEntry is one generated timeline row. Entries are never persisted:
// the timeline is recomputed from the five source lists on every build.
type TimelineEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Type      EntryType `json:"type"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	RelatedID string    `json:"related_id"`
}

// CaseRecord is the aggregate view of one case subject.
type CaseRecord struct {
	Notifications []Notification  `json:"notifications"`
	CaseNotes     []CaseNote      `json:"case_notes"`
	Decisions     []Decision      `json:"decisions"`
	PTARecords    []PTARecord     `json:"pta_records"`
	ServicePlans  []ServicePlan   `json:"service_plans"`
	Timeline      []TimelineEntry `json:"timeline"`
}
