package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/socialwise/caseflow/category"
	"github.com/socialwise/caseflow/docstore"
)

// bucketPrefix namespaces the prompt-log KV buckets.
const bucketPrefix = "CASEFLOW_PROMPT_"

// VersionLog is the append-only prompt log interface the resolver depends on.
// *Store is the NATS-backed implementation.
type VersionLog interface {
	Append(ctx context.Context, v *Version) (string, error)
	Latest(ctx context.Context, cat category.Category) (*Version, error)
}

// Store holds one append-only prompt version log per category, backed by
// NATS JetStream KV.
type Store struct {
	buckets map[category.Category]jetstream.KeyValue
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a prompt store, creating the per-category buckets if they
// don't exist.
func NewStore(ctx context.Context, js jetstream.JetStream, opts ...StoreOption) (*Store, error) {
	s := &Store{
		buckets: make(map[category.Category]jetstream.KeyValue),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, cat := range category.All() {
		name := bucketPrefix + category.PolicyFor(cat).PromptLog
		kv, err := getOrCreateBucket(ctx, js, name)
		if err != nil {
			return nil, fmt.Errorf("create %s prompt bucket: %w", cat, err)
		}
		s.buckets[cat] = kv
	}

	return s, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Caseflow %s prompt versions", strings.ToLower(name)),
	})
}

func (s *Store) bucket(cat category.Category) (jetstream.KeyValue, error) {
	kv, ok := s.buckets[cat]
	if !ok {
		return nil, fmt.Errorf("no prompt bucket for category %s", cat)
	}
	return kv, nil
}

// Append stores a new prompt version and returns its id. Content, model and
// temperature are free-form: validation is the admin UI's concern, losing a
// write is not.
func (s *Store) Append(ctx context.Context, v *Version) (string, error) {
	kv, err := s.bucket(v.Category)
	if err != nil {
		return "", err
	}

	v.ID = uuid.New().String()
	v.CreatedAt = time.Now()
	if v.Mode == "" {
		v.Mode = ModeProduction
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal prompt version: %w", err)
	}

	if _, err := kv.Create(ctx, v.ID, data); err != nil {
		return "", fmt.Errorf("%w: store prompt version: %w", docstore.ErrUnavailable, err)
	}

	s.logger.Debug("Prompt version appended",
		"category", v.Category,
		"version_id", v.ID,
		"mode", v.Mode,
		"model", v.Model)

	return v.ID, nil
}

// Latest returns the newest version for a category by CreatedAt, or nil when
// the category has no versions yet.
func (s *Store) Latest(ctx context.Context, cat category.Category) (*Version, error) {
	versions, err := s.History(ctx, cat, 1)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}
	return versions[0], nil
}

// History returns up to limit versions for a category, newest first. A limit
// of 0 returns the whole log. Malformed stored records are skipped, not fatal.
func (s *Store) History(ctx context.Context, cat category.Category, limit int) ([]*Version, error) {
	kv, err := s.bucket(cat)
	if err != nil {
		return nil, err
	}

	keys, err := kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list prompt versions: %w", docstore.ErrUnavailable, err)
	}

	versions := make([]*Version, 0, len(keys))
	for _, key := range keys {
		entry, err := kv.Get(ctx, key)
		if err != nil {
			continue
		}
		var v Version
		if err := json.Unmarshal(entry.Value(), &v); err != nil {
			s.logger.Warn("Skipping malformed prompt version",
				"category", cat,
				"key", key,
				"error", err)
			continue
		}
		versions = append(versions, &v)
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].CreatedAt.After(versions[j].CreatedAt)
	})

	if limit > 0 && len(versions) > limit {
		versions = versions[:limit]
	}

	return versions, nil
}

// Get retrieves one version by id.
func (s *Store) Get(ctx context.Context, cat category.Category, id string) (*Version, error) {
	kv, err := s.bucket(cat)
	if err != nil {
		return nil, err
	}

	entry, err := kv.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get prompt version: %w", docstore.ErrUnavailable, err)
	}

	var v Version
	if err := json.Unmarshal(entry.Value(), &v); err != nil {
		return nil, fmt.Errorf("unmarshal prompt version: %w", err)
	}

	return &v, nil
}

// Revert re-appends an old version's content as the new latest version. The
// history is never mutated.
func (s *Store) Revert(ctx context.Context, cat category.Category, versionID, author string) (string, error) {
	old, err := s.Get(ctx, cat, versionID)
	if err != nil {
		return "", err
	}

	return s.Append(ctx, &Version{
		Category:    cat,
		Content:     old.Content,
		Model:       old.Model,
		Temperature: old.Temperature,
		Mode:        old.Mode,
		CreatedBy:   author,
		Description: fmt.Sprintf("Revert to version %s", versionID),
	})
}
