package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialwise/caseflow/category"
)

// fakeVersionLog is an in-memory VersionLog keeping only the latest version
// per category.
type fakeVersionLog struct {
	latest    map[category.Category]*Version
	appended  []*Version
	latestErr error
	appendErr error
}

func newFakeVersionLog() *fakeVersionLog {
	return &fakeVersionLog{latest: make(map[category.Category]*Version)}
}

func (f *fakeVersionLog) Append(_ context.Context, v *Version) (string, error) {
	if f.appendErr != nil {
		return "", f.appendErr
	}
	v.ID = "v1"
	if v.Mode == "" {
		v.Mode = ModeProduction
	}
	f.latest[v.Category] = v
	f.appended = append(f.appended, v)
	return v.ID, nil
}

func (f *fakeVersionLog) Latest(_ context.Context, cat category.Category) (*Version, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest[cat], nil
}

// fakeArtifacts serves fixed artifact text, or an error.
type fakeArtifacts struct {
	text string
	err  error
}

func (f fakeArtifacts) Fetch(_ context.Context, _ category.Category) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestResolveProductionMode(t *testing.T) {
	log := newFakeVersionLog()
	log.latest[category.Notification] = &Version{
		Content:     "Tallennettu kehote",
		Model:       "custom-model",
		Temperature: 0.7,
		Mode:        ModeProduction,
	}

	r := NewResolver(log, fakeArtifacts{text: "Artefakti"})
	cfg := r.Resolve(context.Background(), category.Notification)

	assert.Equal(t, "Tallennettu kehote", cfg.Prompt)
	assert.Equal(t, "custom-model", cfg.Model)
	assert.InDelta(t, 0.7, cfg.Temperature, 0.001)
}

func TestResolveTestModeUsesArtifact(t *testing.T) {
	log := newFakeVersionLog()
	log.latest[category.Notification] = &Version{
		Content:     "Tallennettu kehote",
		Model:       "custom-model",
		Temperature: 0.5,
		Mode:        ModeTest,
	}

	r := NewResolver(log, fakeArtifacts{text: "Artefaktin kehote"})
	cfg := r.Resolve(context.Background(), category.Notification)

	// Prompt from the artifact, model and temperature from the stored version.
	assert.Equal(t, "Artefaktin kehote", cfg.Prompt)
	assert.Equal(t, "custom-model", cfg.Model)
	assert.InDelta(t, 0.5, cfg.Temperature, 0.001)
}

func TestResolveTestModeArtifactFailureFallsBack(t *testing.T) {
	log := newFakeVersionLog()
	log.latest[category.Notification] = &Version{
		Content: "Tallennettu kehote",
		Model:   "custom-model",
		Mode:    ModeTest,
	}

	r := NewResolver(log, fakeArtifacts{err: errors.New("unreachable")})
	cfg := r.Resolve(context.Background(), category.Notification)

	assert.Equal(t, "Tallennettu kehote", cfg.Prompt)
}

func TestResolveTestModeWithoutArtifactSource(t *testing.T) {
	log := newFakeVersionLog()
	log.latest[category.Notification] = &Version{
		Content: "Tallennettu kehote",
		Mode:    ModeTest,
	}

	r := NewResolver(log, nil)
	cfg := r.Resolve(context.Background(), category.Notification)

	assert.Equal(t, "Tallennettu kehote", cfg.Prompt)
}

func TestResolveEmptyLogBootstraps(t *testing.T) {
	log := newFakeVersionLog()
	policy := category.PolicyFor(category.Decision)

	r := NewResolver(log, nil)
	cfg := r.Resolve(context.Background(), category.Decision)

	assert.Equal(t, policy.DefaultPrompt, cfg.Prompt)
	assert.Equal(t, policy.Model, cfg.Model)
	assert.InDelta(t, policy.Temperature, cfg.Temperature, 0.001)

	require.Len(t, log.appended, 1)
	v := log.appended[0]
	assert.Equal(t, category.Decision, v.Category)
	assert.Equal(t, policy.DefaultPrompt, v.Content)
	assert.Equal(t, ModeProduction, v.Mode)
	assert.Equal(t, "system", v.CreatedBy)
}

func TestResolveLogErrorUsesDefault(t *testing.T) {
	log := newFakeVersionLog()
	log.latestErr = errors.New("store down")
	policy := category.PolicyFor(category.Notification)

	r := NewResolver(log, nil)
	cfg := r.Resolve(context.Background(), category.Notification)

	assert.Equal(t, policy.DefaultPrompt, cfg.Prompt)
	assert.Empty(t, log.appended, "no bootstrap on a failing log")
}

func TestResolveBootstrapFailureStillReturnsDefault(t *testing.T) {
	log := newFakeVersionLog()
	log.appendErr = errors.New("write failed")
	policy := category.PolicyFor(category.Notification)

	r := NewResolver(log, nil)
	cfg := r.Resolve(context.Background(), category.Notification)

	assert.Equal(t, policy.DefaultPrompt, cfg.Prompt)
}

func TestResolveStoredVersionWithoutModel(t *testing.T) {
	log := newFakeVersionLog()
	log.latest[category.Notification] = &Version{
		Content: "Kehote ilman mallia",
		Mode:    ModeProduction,
	}

	r := NewResolver(log, nil)
	cfg := r.Resolve(context.Background(), category.Notification)

	assert.Equal(t, "Kehote ilman mallia", cfg.Prompt)
	assert.Equal(t, category.PolicyFor(category.Notification).Model, cfg.Model)
}

func TestBootstrapIdempotent(t *testing.T) {
	log := newFakeVersionLog()
	r := NewResolver(log, nil)

	require.NoError(t, r.Bootstrap(context.Background(), category.Notification, "admin"))
	require.NoError(t, r.Bootstrap(context.Background(), category.Notification, "admin"))

	assert.Len(t, log.appended, 1, "second bootstrap must be a no-op")
	assert.Equal(t, "admin", log.appended[0].CreatedBy)
}
