// Package category defines the document categories handled by caseflow and
// the per-category generation policy table. A category is the unit of prompt
// versioning: each one owns its own store collection, prompt log, reference
// artifact and generation defaults.
package category

import "fmt"

// Category identifies a document kind.
type Category string

// The five document categories.
const (
	// Notification is a child-welfare notification (lastensuojeluilmoitus).
	Notification Category = "ls-ilmoitus"
	// Assessment is a service-need assessment record (palveluntarpeen arviointi).
	Assessment Category = "pta-record"
	// Decision is a formal decision document (päätös).
	Decision Category = "paatos"
	// ServicePlan is a client service plan (asiakassuunnitelma).
	ServicePlan Category = "asiakassuunnitelma"
	// CaseNote is a free-form case note (asiakaskirjaus). Case notes carry a
	// manually written summary and are never sent to the completion service.
	CaseNote Category = "asiakaskirjaus"
)

// All returns every category in declaration order. The order is load-bearing:
// the case aggregator uses it to break timeline ties.
func All() []Category {
	return []Category{Notification, CaseNote, Decision, Assessment, ServicePlan}
}

// Parse validates a category string.
func Parse(s string) (Category, error) {
	switch Category(s) {
	case Notification, Assessment, Decision, ServicePlan, CaseNote:
		return Category(s), nil
	default:
		return "", fmt.Errorf("unknown category: %q", s)
	}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
