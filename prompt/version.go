// Package prompt manages versioned system prompts per document category and
// resolves the effective prompt configuration for generation.
//
// Versions are append-only: editing a prompt always appends a new version and
// reverting re-appends an old version's content as the new latest, so the
// full history stays auditable.
package prompt

import (
	"time"

	"github.com/socialwise/caseflow/category"
)

// Mode selects where the effective prompt text comes from.
type Mode string

const (
	// ModeProduction takes the prompt text from the latest stored version.
	ModeProduction Mode = "production"
	// ModeTest takes the prompt text from the category's fixed reference
	// artifact; model and temperature still come from the stored version.
	ModeTest Mode = "test"
)

// Version is one immutable entry in a category's prompt log.
type Version struct {
	ID             string            `json:"id"`
	Category       category.Category `json:"category"`
	Content        string            `json:"content"`
	Model          string            `json:"model"`
	Temperature    float64           `json:"temperature"`
	Mode           Mode              `json:"mode"`
	CreatedAt      time.Time         `json:"created_at"`
	CreatedBy      string            `json:"created_by"`
	CreatedByLabel string            `json:"created_by_label,omitempty"`
	Description    string            `json:"description,omitempty"`
}

// Config is the effective prompt configuration for one generation call.
// Derived, never stored: callers pass it explicitly into the pipeline instead
// of reading ambient state.
type Config struct {
	Prompt      string
	Model       string
	Temperature float64
}
