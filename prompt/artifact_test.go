package prompt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialwise/caseflow/category"
)

func TestHTTPArtifactSourceFetch(t *testing.T) {
	artifactPath := category.PolicyFor(category.Notification).ArtifactPath

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/"+artifactPath {
			w.Write([]byte("Artefaktin kehote"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	src := NewHTTPArtifactSource(server.URL + "/")

	got, err := src.Fetch(context.Background(), category.Notification)
	require.NoError(t, err)
	assert.Equal(t, "Artefaktin kehote", got)
}

func TestHTTPArtifactSourceNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	src := NewHTTPArtifactSource(server.URL)

	_, err := src.Fetch(context.Background(), category.Notification)
	assert.Error(t, err)
}

func TestHTTPArtifactSourceUnknownCategory(t *testing.T) {
	src := NewHTTPArtifactSource("http://unused")

	_, err := src.Fetch(context.Background(), category.Category("tuntematon"))
	assert.Error(t, err)
}

func TestFileArtifactSourceFetch(t *testing.T) {
	dir := t.TempDir()
	artifactPath := category.PolicyFor(category.Decision).ArtifactPath
	require.NoError(t, os.WriteFile(filepath.Join(dir, artifactPath), []byte("Tiedostokehote"), 0o644))

	src := NewFileArtifactSource(dir, nil)
	defer src.Close()

	got, err := src.Fetch(context.Background(), category.Decision)
	require.NoError(t, err)
	assert.Equal(t, "Tiedostokehote", got)
}

func TestFileArtifactSourceMissingFile(t *testing.T) {
	src := NewFileArtifactSource(t.TempDir(), nil)
	defer src.Close()

	_, err := src.Fetch(context.Background(), category.Decision)
	assert.Error(t, err)
}

func TestFileArtifactSourceCacheInvalidation(t *testing.T) {
	dir := t.TempDir()
	artifactPath := category.PolicyFor(category.Notification).ArtifactPath
	path := filepath.Join(dir, artifactPath)
	require.NoError(t, os.WriteFile(path, []byte("versio 1"), 0o644))

	src := NewFileArtifactSource(dir, nil)
	defer src.Close()

	got, err := src.Fetch(context.Background(), category.Notification)
	require.NoError(t, err)
	assert.Equal(t, "versio 1", got)

	require.NoError(t, os.WriteFile(path, []byte("versio 2"), 0o644))

	// The watcher invalidates asynchronously.
	require.Eventually(t, func() bool {
		got, err := src.Fetch(context.Background(), category.Notification)
		return err == nil && got == "versio 2"
	}, 2*time.Second, 10*time.Millisecond)
}
