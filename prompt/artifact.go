package prompt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/socialwise/caseflow/category"
)

// maxArtifactSize bounds a reference prompt file.
const maxArtifactSize = 1 * 1024 * 1024 // 1MB

// ArtifactSource fetches the fixed reference prompt used when a category is
// in test mode.
type ArtifactSource interface {
	Fetch(ctx context.Context, cat category.Category) (string, error)
}

// HTTPArtifactSource fetches reference prompts from a well-known base URL,
// e.g. the portal's static asset host serving /ILMOITUS_YHTEENVETO_PROMPT.md.
type HTTPArtifactSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPArtifactSource creates an artifact source over HTTP.
func NewHTTPArtifactSource(baseURL string) *HTTPArtifactSource {
	return &HTTPArtifactSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch retrieves the reference prompt for a category.
func (s *HTTPArtifactSource) Fetch(ctx context.Context, cat category.Category) (string, error) {
	policy := category.PolicyFor(cat)
	if policy.ArtifactPath == "" {
		return "", fmt.Errorf("no reference artifact for category %s", cat)
	}

	url := s.baseURL + "/" + policy.ArtifactPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create artifact request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch artifact %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch artifact %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize))
	if err != nil {
		return "", fmt.Errorf("read artifact %s: %w", url, err)
	}

	return string(body), nil
}

// FileArtifactSource serves reference prompts from a local directory, caching
// file contents and invalidating the cache on file change events.
type FileArtifactSource struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileArtifactSource creates an artifact source over a local directory.
// The directory is watched so prompt file edits take effect without restart;
// if the watcher cannot be created the source still works, uncached.
func NewFileArtifactSource(dir string, logger *slog.Logger) *FileArtifactSource {
	if logger == nil {
		logger = slog.Default()
	}

	s := &FileArtifactSource{
		dir:    dir,
		logger: logger,
		cache:  make(map[string]string),
		done:   make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("Artifact watcher unavailable, caching disabled", "error", err)
		return s
	}
	if err := watcher.Add(dir); err != nil {
		logger.Warn("Cannot watch artifact directory, caching disabled",
			"dir", dir,
			"error", err)
		watcher.Close()
		return s
	}

	s.watcher = watcher
	go s.watch()

	return s
}

// Fetch reads the reference prompt for a category from disk, serving cached
// content until the file changes.
func (s *FileArtifactSource) Fetch(_ context.Context, cat category.Category) (string, error) {
	policy := category.PolicyFor(cat)
	if policy.ArtifactPath == "" {
		return "", fmt.Errorf("no reference artifact for category %s", cat)
	}

	if s.watcher != nil {
		s.mu.RLock()
		cached, ok := s.cache[policy.ArtifactPath]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	path := filepath.Join(s.dir, policy.ArtifactPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read artifact %s: %w", path, err)
	}

	content := string(data)
	if s.watcher != nil {
		s.mu.Lock()
		s.cache[policy.ArtifactPath] = content
		s.mu.Unlock()
	}

	return content, nil
}

// watch drops cached entries when their files change.
func (s *FileArtifactSource) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			s.mu.Lock()
			delete(s.cache, name)
			s.mu.Unlock()
			s.logger.Debug("Artifact cache invalidated", "file", name, "op", event.Op.String())
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Artifact watcher error", "error", err)
		}
	}
}

// Close stops the file watcher.
func (s *FileArtifactSource) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.done)
	return s.watcher.Close()
}
