package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreComputeThenHit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	computes := 0
	compute := func() (interface{}, error) {
		computes++
		return []string{"a", "b"}, nil
	}

	var got []string
	hit, err := store.GetOrCompute(ctx, "k", time.Minute, &got, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"a", "b"}, got)

	var again []string
	hit, err = store.GetOrCompute(ctx, "k", time.Minute, &again, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, again)
	assert.Equal(t, 1, computes)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	computes := 0
	compute := func() (interface{}, error) {
		computes++
		return computes, nil
	}

	var v int
	_, err := store.GetOrCompute(ctx, "k", time.Millisecond, &v, compute)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	hit, err := store.GetOrCompute(ctx, "k", time.Minute, &v, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, v)
}

func TestMemoryStoreComputeErrorNotCached(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var v int
	_, err := store.GetOrCompute(ctx, "k", time.Minute, &v, func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)

	hit, err := store.GetOrCompute(ctx, "k", time.Minute, &v, func() (interface{}, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)
}

func TestMemoryStoreInvalidate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var v int
	_, err := store.GetOrCompute(ctx, "k", time.Minute, &v, func() (interface{}, error) { return 1, nil })
	require.NoError(t, err)

	require.NoError(t, store.Invalidate(ctx, "k"))

	hit, err := store.GetOrCompute(ctx, "k", time.Minute, &v, func() (interface{}, error) { return 2, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, v)
}
