package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/socialwise/caseflow/category"
	"github.com/socialwise/caseflow/llm"
)

// Classifier temperature: near-deterministic single-label extraction.
const classifierTemperature = 0.1

const urgencyPrompt = `Analysoi seuraava lastensuojeluilmoitus ja määritä kiireellisyystaso.

Vastaa VAIN yhdellä sanalla:
- kriittinen (välitön vaara)
- kiireellinen (nopea toiminta tarvitaan)
- normaali (tavallinen käsittely)
- ei_kiireellinen (ei kiireellistä)

Dokumentti:
%s

Kiireellisyystaso:`

const decisionTypePrompt = `Analysoi seuraava lastensuojelun päätös ja määritä päätöstyyppi.

Vastaa VAIN yhdellä näistä:
- asiakkuuden_avaaminen
- asiakkuuden_paattyminen
- selvitys_aloitetaan
- kiireellinen_sijoitus
- avohuollon_tukitoimi
- muu

Dokumentti:
%s

Päätöstyyppi:`

// ExtractUrgency classifies a notification's urgency level. The result is
// always a member of category.Urgencies: any call failure or out-of-vocabulary
// answer yields the default label, never an error, so classification can
// never block saving.
func (g *Generator) ExtractUrgency(ctx context.Context, docText string) string {
	return g.classify(ctx, "urgency", category.Urgencies, urgencyPrompt, docText, 10)
}

// ExtractDecisionType classifies a decision document's type. Same totality
// guarantee as ExtractUrgency, over category.DecisionTypes.
func (g *Generator) ExtractDecisionType(ctx context.Context, docText string) string {
	return g.classify(ctx, "decision_type", category.DecisionTypes, decisionTypePrompt, docText, 20)
}

func (g *Generator) classify(ctx context.Context, kind string, vocab category.Vocabulary, promptTemplate, docText string, maxTokens int) string {
	temperature := classifierTemperature
	resp, err := g.completer.Complete(ctx, llm.Request{
		Model: g.classifierModel,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, docText)},
		},
		Temperature: &temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		g.logger.Warn("Classification call failed, using default label",
			"kind", kind,
			"default", vocab.Default,
			"error", err)
		g.metrics.RecordClassification(kind, "failed")
		return vocab.Default
	}

	label, valid := vocab.Normalize(resp.Content)
	if !valid {
		g.logger.Warn("Classifier answer outside vocabulary, using default label",
			"kind", kind,
			"answer", strings.TrimSpace(resp.Content),
			"default", vocab.Default)
		g.metrics.RecordClassification(kind, "defaulted")
		return vocab.Default
	}

	g.metrics.RecordClassification(kind, "valid")
	return label
}
