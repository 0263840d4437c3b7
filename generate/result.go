package generate

import (
	"fmt"
	"strings"
)

// Outcome tags how a generation call ended. The three cases are deliberately
// explicit so callers and tests can tell a parsed object, a plain-text
// fallback and a failure apart without inspecting strings.
type Outcome string

const (
	// OutcomeStructured means the model returned a parseable JSON object;
	// Fields carries it.
	OutcomeStructured Outcome = "structured"
	// OutcomePlainText means the model returned text that is not valid JSON;
	// the raw text becomes the summary. Model output is never discarded on a
	// parse failure.
	OutcomePlainText Outcome = "plain_text"
	// OutcomeFailure means the call itself failed; Summary holds the
	// user-visible sentinel.
	OutcomeFailure Outcome = "failure"
)

// User-visible failure sentinels, shown in the summary field so the case
// worker sees that generation failed without the save flow breaking.
const (
	SentinelMissingKey  = "API-avain puuttuu"
	SentinelRateLimited = "API rajapinta ylikuormitettu"
	SentinelFailed      = "Yhteenvedon generointi epäonnistui"
	SentinelEmpty       = "Ei yhteenvetoa"
)

// SentinelAuth formats the authentication failure sentinel with the HTTP
// status that caused it, e.g. "API-virhe (401)". A 403 is reported as a 403,
// not folded into 401.
func SentinelAuth(status int) string {
	if status <= 0 {
		return "API-virhe"
	}
	return fmt.Sprintf("API-virhe (%d)", status)
}

// Result is the best-effort outcome of one generation call. Summarize never
// returns an error: a Result is always usable, and Summary is always set
// except for the case-note short circuit.
type Result struct {
	// Outcome tags which of the three paths produced this result.
	Outcome Outcome

	// Summary is the short summary text (or a failure sentinel).
	Summary string

	// Fields holds the parsed structured payload when Outcome is
	// OutcomeStructured. Field presence is best-effort.
	Fields map[string]any

	// Raw is the unmodified model output, when any was received.
	Raw string
}

// StringField returns a trimmed string field from the structured payload, or
// "" when absent or not a string.
func (r Result) StringField(key string) string {
	if r.Fields == nil {
		return ""
	}
	s, _ := r.Fields[key].(string)
	return strings.TrimSpace(s)
}

// StringsField returns a []string field from the structured payload, dropping
// non-string elements.
func (r Result) StringsField(key string) []string {
	if r.Fields == nil {
		return nil
	}
	raw, ok := r.Fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func failure(sentinel string) Result {
	return Result{Outcome: OutcomeFailure, Summary: sentinel}
}
