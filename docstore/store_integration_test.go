//go:build integration

package docstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialwise/caseflow/category"
)

// newTestStore connects to the NATS server named by NATS_URL (default
// localhost) and skips the test when none is reachable.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := nats.Connect(url)
	if err != nil {
		t.Skipf("NATS not available at %s: %v", url, err)
	}
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	store, err := NewStore(context.Background(), js)
	require.NoError(t, err)
	return store
}

func TestStoreInsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	clientID := "it-" + uuid.New().String()

	doc := &Document{
		ClientID: clientID,
		Category: category.Notification,
		Date:     "2024-03-01",
		FullText: "Ilmoituksen teksti.",
		Summary:  "Tiivis yhteenveto.",
		Urgency:  "kiireellinen",
	}

	id, err := store.Insert(ctx, doc)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.NotEmpty(t, doc.DocumentKey)
	assert.False(t, doc.CreatedAt.IsZero())
	t.Cleanup(func() { store.Delete(ctx, category.Notification, id) })

	got, err := store.Get(ctx, category.Notification, id)
	require.NoError(t, err)
	assert.Equal(t, clientID, got.ClientID)
	assert.Equal(t, "Tiivis yhteenveto.", got.Summary)
	assert.Equal(t, "kiireellinen", got.Urgency)
}

func TestStoreGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), category.Notification, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorePutOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	clientID := "it-" + uuid.New().String()

	doc := &Document{ClientID: clientID, Category: category.Decision, Summary: "eka"}
	id, err := store.Insert(ctx, doc)
	require.NoError(t, err)
	t.Cleanup(func() { store.Delete(ctx, category.Decision, id) })

	doc.Summary = "toka"
	doc.DecisionType = "muu"
	require.NoError(t, store.Put(ctx, doc))

	got, err := store.Get(ctx, category.Decision, id)
	require.NoError(t, err)
	assert.Equal(t, "toka", got.Summary)
	assert.Equal(t, "muu", got.DecisionType)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &Document{ClientID: "it-" + uuid.New().String(), Category: category.CaseNote}
	id, err := store.Insert(ctx, doc)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, category.CaseNote, id))

	_, err = store.Get(ctx, category.CaseNote, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListByClient(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	clientID := "it-" + uuid.New().String()

	dates := []string{"2024-01-10", "2024-03-05", "2024-02-20"}
	for _, date := range dates {
		doc := &Document{ClientID: clientID, Category: category.Assessment, Date: date}
		id, err := store.Insert(ctx, doc)
		require.NoError(t, err)
		t.Cleanup(func() { store.Delete(ctx, category.Assessment, id) })
	}

	// Another client's document must not leak into the listing.
	other := &Document{ClientID: "it-other-" + uuid.New().String(), Category: category.Assessment, Date: "2024-02-01"}
	otherID, err := store.Insert(ctx, other)
	require.NoError(t, err)
	t.Cleanup(func() { store.Delete(ctx, category.Assessment, otherID) })

	docs, err := store.ListByClient(ctx, category.Assessment, clientID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "2024-03-05", docs[0].Date)
	assert.Equal(t, "2024-02-20", docs[1].Date)
	assert.Equal(t, "2024-01-10", docs[2].Date)

	limited, err := store.ListByClient(ctx, category.Assessment, clientID, ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	ranged, err := store.ListByClient(ctx, category.Assessment, clientID, ListOptions{
		DateFrom: "2024-02-01",
		DateTo:   "2024-02-28",
	})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "2024-02-20", ranged[0].Date)
}
