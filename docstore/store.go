package docstore

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
)

// bucketPrefix namespaces the KV buckets owned by this store.
const bucketPrefix = "CASEFLOW_"

// Store provides document storage operations backed by NATS KV, one bucket
// per category.
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

// NewStore creates a Store with the given JetStream context, creating the
// per-category buckets if they don't exist.
func NewStore(ctx context.Context, js jetstream.JetStream, opts ...StoreOption) (*Store, error) {
	s := &Store{
		buckets: make(map[category.Category]jetstream.KeyValue),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, cat := range category.All() {
		bucket := bucketPrefix + category.PolicyFor(cat).Collection
		kv, err := getOrCreateBucket(ctx, js, bucket)
		if err != nil {
			return nil, fmt.Errorf("create %s bucket: %w", cat, err)
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
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Caseflow %s documents", strings.ToLower(name)),
	})
}

func (s *Store) bucket(cat category.Category) (jetstream.KeyValue, error) {
	kv, ok := s.buckets[cat]
	if !ok {
		return nil, fmt.Errorf("no bucket for category %s", cat)
	}
	return kv, nil
}

// Insert stores a new document under a generated id and returns the id.
func (s *Store) Insert(ctx context.Context, doc *Document) (string, error) {
	kv, err := s.bucket(doc.Category)
	if err != nil {
		return "", err
	}

	doc.ID = uuid.New().String()
	if doc.DocumentKey == "" {
		doc.DocumentKey = NewDocumentKey(doc.ClientID)
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	if _, err := kv.Create(ctx, doc.ID, data); err != nil {
		return "", fmt.Errorf("%w: store document: %w", ErrUnavailable, err)
	}

	return doc.ID, nil
}

// Get retrieves a document by id.
func (s *Store) Get(ctx context.Context, cat category.Category, id string) (*Document, error) {
	kv, err := s.bucket(cat)
	if err != nil {
		return nil, err
	}

	entry, err := kv.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get document: %w", ErrUnavailable, err)
	}

	var doc Document
	if err := json.Unmarshal(entry.Value(), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}

	return &doc, nil
}

// Put overwrites the whole document under its existing id. Used for metadata
// merge after summary generation.
func (s *Store) Put(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}

	kv, err := s.bucket(doc.Category)
	if err != nil {
		return err
	}

	doc.UpdatedAt = time.Now()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if _, err := kv.Put(ctx, doc.ID, data); err != nil {
		return fmt.Errorf("%w: update document: %w", ErrUnavailable, err)
	}

	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, cat category.Category, id string) error {
	kv, err := s.bucket(cat)
	if err != nil {
		return err
	}

	if err := kv.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete document: %w", ErrUnavailable, err)
	}

	return nil
}

// ListByClient returns the client's documents in one category, newest date
// first. Equality filtering and ordering happen in memory; malformed stored
// records are skipped, not fatal.
func (s *Store) ListByClient(ctx context.Context, cat category.Category, clientID string, opts ListOptions) ([]*Document, error) {
	kv, err := s.bucket(cat)
	if err != nil {
		return nil, err
	}

	keys, err := kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list document keys: %w", ErrUnavailable, err)
	}

	documents := make([]*Document, 0, len(keys))
	for _, key := range keys {
		entry, err := kv.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		var doc Document
		if err := json.Unmarshal(entry.Value(), &doc); err != nil {
			s.logger.Warn("Skipping malformed document record",
				"category", cat,
				"key", key,
				"error", err)
			continue
		}
		if doc.ClientID != clientID {
			continue
		}
		if opts.DateFrom != "" && doc.Date < opts.DateFrom {
			continue
		}
		if opts.DateTo != "" && doc.Date > opts.DateTo {
			continue
		}
		documents = append(documents, &doc)
	}

	sort.SliceStable(documents, func(i, j int) bool {
		return documents[i].Date > documents[j].Date
	})

	if opts.Limit > 0 && len(documents) > opts.Limit {
		documents = documents[:opts.Limit]
	}

	return documents, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted)
}
