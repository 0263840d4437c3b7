// Package docstore provides the persistent case-document store backed by
// NATS JetStream KV, one bucket per document category.
package docstore

import (
	"fmt"
	"time"

	"github.com/socialwise/caseflow/category"
)

// Document is the stored representation of one case document. Fields beyond
// the base set are category-specific and populated best-effort from the
// generation pipeline's structured output; all of them are optional.
type Document struct {
	ID          string            `json:"id"`
	ClientID    string            `json:"client_id"`
	Category    category.Category `json:"category"`
	DocumentKey string            `json:"document_key"`

	// Date is the document's own date in YYYY-MM-DD form (not the storage
	// timestamp).
	Date string `json:"date,omitempty"`

	// FullText is the complete markdown document as entered or converted.
	FullText string `json:"full_markdown_text,omitempty"`

	// Summary is the short summary shown in lists and on the timeline.
	Summary string `json:"summary,omitempty"`

	// Notification fields.
	Urgency         string   `json:"urgency,omitempty"`
	ReporterSummary string   `json:"reporter_summary,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	Highlights      []string `json:"highlights,omitempty"`

	// Decision fields.
	DecisionType string `json:"decision_type,omitempty"`
	LegalBasis   string `json:"legal_basis,omitempty"`

	// Service-need assessment fields.
	EventType string `json:"event_type,omitempty"`
	Status    string `json:"status,omitempty"`

	// Service plan fields.
	PlanType  string `json:"plan_type,omitempty"`
	ValidFrom string `json:"valid_from,omitempty"`
	ValidTo   string `json:"valid_to,omitempty"`

	// Case note fields.
	ManualSummary string   `json:"manual_summary,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`

	// Audit trail.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// NewDocumentKey generates the human-readable document key used alongside the
// store id, in the form "{clientId}_{unix-millis}".
func NewDocumentKey(clientID string) string {
	return fmt.Sprintf("%s_%d", clientID, time.Now().UnixMilli())
}

// ListOptions filters a per-client document listing.
type ListOptions struct {
	// Limit caps the number of documents returned after sorting. 0 means no
	// limit.
	Limit int

	// DateFrom and DateTo bound the document date (inclusive, YYYY-MM-DD).
	// Empty means unbounded.
	DateFrom string
	DateTo   string
}
