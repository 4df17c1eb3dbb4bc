package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorePutGet(t *testing.T) {
	store := NewInMemoryStore()

	doc := &Document{
		ID:           "order.process",
		Filename:     "order.process",
		OriginalName: "order.process",
		Content:      []byte("<ProcessDefinition/>"),
		SizeBytes:    20,
	}
	require.NoError(t, store.Put(doc))
	assert.False(t, doc.UploadedAt.IsZero())
	assert.False(t, doc.UpdatedAt.IsZero())

	got, err := store.Get("order.process")
	require.NoError(t, err)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, "order.process", got.OriginalName)
}

func TestInMemoryStoreGetMissing(t *testing.T) {
	store := NewInMemoryStore()

	got, err := store.Get("nope.xml")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStorePutReplaces(t *testing.T) {
	store := NewInMemoryStore()

	first := &Document{ID: "p.xml", Content: []byte("v1")}
	require.NoError(t, store.Put(first))
	uploadedAt := first.UploadedAt

	time.Sleep(5 * time.Millisecond)

	second := &Document{ID: "p.xml", Content: []byte("v2")}
	require.NoError(t, store.Put(second))

	got, err := store.Get("p.xml")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got.Content)
	assert.Equal(t, uploadedAt, got.UploadedAt, "upload time survives replacement")
	assert.True(t, got.UpdatedAt.After(uploadedAt))
}

func TestInMemoryStoreListOrdered(t *testing.T) {
	store := NewInMemoryStore()

	for _, id := range []string{"a.xml", "b.xml", "c.xml"} {
		require.NoError(t, store.Put(&Document{ID: id}))
		time.Sleep(2 * time.Millisecond)
	}

	docs, err := store.List()
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a.xml", docs[0].ID)
	assert.Equal(t, "c.xml", docs[2].ID)
}

func TestInMemoryStoreDelete(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Put(&Document{ID: "p.xml"}))
	require.NoError(t, store.Delete("p.xml"))

	_, err := store.Get("p.xml")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete("p.xml"), ErrNotFound)
}
