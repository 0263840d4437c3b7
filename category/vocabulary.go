package category

import "strings"

// Vocabulary is a closed label set for single-label classification. Normalize
// never fails: anything outside the set maps to the default label.
type Vocabulary struct {
	Labels  []string
	Default string
}

// Normalize validates a raw model answer against the vocabulary. Matching is
// case-insensitive over the trimmed token. The second return reports whether
// the raw answer was a valid member.
func (v Vocabulary) Normalize(raw string) (string, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	for _, label := range v.Labels {
		if token == label {
			return label, true
		}
	}
	return v.Default, false
}

// Contains reports whether label is a member of the vocabulary.
func (v Vocabulary) Contains(label string) bool {
	for _, l := range v.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Urgencies is the urgency vocabulary for child-welfare notifications.
var Urgencies = Vocabulary{
	Labels:  []string{"kriittinen", "kiireellinen", "normaali", "ei_kiireellinen"},
	Default: "normaali",
}

// DecisionTypes is the decision-type vocabulary for decision documents.
var DecisionTypes = Vocabulary{
	Labels: []string{
		"asiakkuuden_avaaminen",
		"asiakkuuden_paattyminen",
		"selvitys_aloitetaan",
		"kiireellinen_sijoitus",
		"avohuollon_tukitoimi",
		"muu",
	},
	Default: "muu",
}
