package cachestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

func TestFileStore_GetPutRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	result := domain.ComparisonResult{Winner: domain.RelativeA, Reasoning: "a is stronger"}
	require.NoError(t, store.Put(ctx, "abc123", result))

	got, ok, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.Winner, got.Winner)
	assert.Equal(t, result.Reasoning, got.Reasoning)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Put(context.Background(), "k", domain.ComparisonResult{Winner: domain.RelativeB}))

	store2, err := NewFileStore(dir)
	require.NoError(t, err)
	got, ok, err := store2.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.RelativeB, got.Winner)
}
