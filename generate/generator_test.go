package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialwise/caseflow/category"
	"github.com/socialwise/caseflow/llm"
	"github.com/socialwise/caseflow/llm/testutil"
	"github.com/socialwise/caseflow/prompt"
)

// staticResolver returns the same config for every category.
type staticResolver struct {
	cfg prompt.Config
}

func (r staticResolver) Resolve(_ context.Context, _ category.Category) prompt.Config {
	return r.cfg
}

func testResolver() staticResolver {
	return staticResolver{cfg: prompt.Config{
		Prompt:      "Olet lastensuojelutyön asiantuntija.",
		Model:       "google/gemini-2.5-flash-lite",
		Temperature: 0.3,
	}}
}

func TestSummarizeStructured(t *testing.T) {
	mock := &testutil.MockCompleter{Steps: []testutil.Step{
		{Response: &llm.Response{Content: `{"summary": "Lapsi tarvitsee tukea.", "date": "2024-03-01", "highlights": ["havainto"]}`}},
	}}
	g := New(mock, testResolver())

	res := g.Summarize(context.Background(), "Ilmoitus koskee lasta.", category.Notification)

	assert.Equal(t, OutcomeStructured, res.Outcome)
	assert.Equal(t, "Lapsi tarvitsee tukea.", res.Summary)
	assert.Equal(t, "2024-03-01", res.StringField("date"))
	assert.Equal(t, []string{"havainto"}, res.StringsField("highlights"))

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "google/gemini-2.5-flash-lite", reqs[0].Model)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, "system", reqs[0].Messages[0].Role)
	assert.Equal(t, "Olet lastensuojelutyön asiantuntija.", reqs[0].Messages[0].Content)
	assert.Equal(t, category.InstructionPrefix+"Ilmoitus koskee lasta.", reqs[0].Messages[1].Content)
	require.NotNil(t, reqs[0].Temperature)
	assert.InDelta(t, 0.3, *reqs[0].Temperature, 0.001)
	assert.Equal(t, 200, reqs[0].MaxTokens)
}

func TestSummarizeFencedJSON(t *testing.T) {
	mock := &testutil.MockCompleter{Steps: []testutil.Step{
		{Response: &llm.Response{Content: "```json\n{\"summary\": \"Tiivis.\"}\n```"}},
	}}
	g := New(mock, testResolver())

	res := g.Summarize(context.Background(), "teksti", category.Decision)
	assert.Equal(t, OutcomeStructured, res.Outcome)
	assert.Equal(t, "Tiivis.", res.Summary)
}

func TestSummarizePlainTextFallback(t *testing.T) {
	mock := &testutil.MockCompleter{Steps: []testutil.Step{
		{Response: &llm.Response{Content: "Lapsen tilanne vaatii seurantaa lähiviikkoina."}},
	}}
	g := New(mock, testResolver())

	res := g.Summarize(context.Background(), "teksti", category.Notification)

	assert.Equal(t, OutcomePlainText, res.Outcome)
	assert.Equal(t, "Lapsen tilanne vaatii seurantaa lähiviikkoina.", res.Summary)
	assert.Nil(t, res.Fields)
}

func TestSummarizeStructuredWithoutSummaryField(t *testing.T) {
	mock := &testutil.MockCompleter{Steps: []testutil.Step{
		{Response: &llm.Response{Content: `{"date": "2024-01-15"}`}},
	}}
	g := New(mock, testResolver())

	res := g.Summarize(context.Background(), "teksti", category.Notification)

	// A parsed object with no summary keeps the raw output as the summary.
	assert.Equal(t, OutcomeStructured, res.Outcome)
	assert.Equal(t, `{"date": "2024-01-15"}`, res.Summary)
	assert.Equal(t, "2024-01-15", res.StringField("date"))
}

func TestSummarizeEmptyOutput(t *testing.T) {
	mock := &testutil.MockCompleter{Steps: []testutil.Step{
		{Response: &llm.Response{Content: "   \n"}},
	}}
	g := New(mock, testResolver())

	res := g.Summarize(context.Background(), "teksti", category.Notification)

	assert.Equal(t, OutcomeFailure, res.Outcome)
	assert.Equal(t, SentinelEmpty, res.Summary)
}

func TestSummarizeFailureSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing api key",
			err:  llm.NewAuthError(0, llm.ErrMissingAPIKey),
			want: SentinelMissingKey,
		},
		{
			name: "auth failure",
			err:  llm.NewAuthError(401, errors.New("invalid key")),
			want: "API-virhe (401)",
		},
		{
			name: "forbidden reports its own status",
			err:  llm.NewAuthError(403, errors.New("forbidden")),
			want: "API-virhe (403)",
		},
		{
			name: "rate limited",
			err:  llm.NewRateLimitError(errors.New("429")),
			want: SentinelRateLimited,
		},
		{
			name: "transient failure",
			err:  llm.NewTransientError(errors.New("connection reset")),
			want: SentinelFailed,
		},
		{
			name: "fatal failure",
			err:  llm.NewFatalError(errors.New("bad request")),
			want: SentinelFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockCompleter{Steps: []testutil.Step{{Err: tt.err}}}
			g := New(mock, testResolver())

			res := g.Summarize(context.Background(), "teksti", category.Notification)
			assert.Equal(t, OutcomeFailure, res.Outcome)
			assert.Equal(t, tt.want, res.Summary)
		})
	}
}

func TestSummarizeCaseNoteShortCircuit(t *testing.T) {
	mock := &testutil.MockCompleter{}
	g := New(mock, testResolver())

	res := g.Summarize(context.Background(), "Pitkä kirjaus tekstiä.", category.CaseNote)

	assert.Equal(t, OutcomePlainText, res.Outcome)
	assert.Empty(t, res.Summary)
	assert.Equal(t, 0, mock.CallCount(), "case notes must never reach the completion service")
}

func TestSummarizeDoubleStringifiedPayload(t *testing.T) {
	mock := &testutil.MockCompleter{Steps: []testutil.Step{
		{Response: &llm.Response{Content: `"{\"summary\": \"Kaksinkertainen.\"}"`}},
	}}
	g := New(mock, testResolver())

	res := g.Summarize(context.Background(), "teksti", category.Notification)
	assert.Equal(t, OutcomeStructured, res.Outcome)
	assert.Equal(t, "Kaksinkertainen.", res.Summary)
}
