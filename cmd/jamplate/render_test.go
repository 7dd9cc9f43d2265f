package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cufyorg/jamplate-processor/internal/cache"
	"github.com/cufyorg/jamplate-processor/internal/ref"
)

func TestFingerprintSortsRegardlessOfInputOrder(t *testing.T) {
	require.Equal(t, fingerprint([]string{"b", "a"}), fingerprint([]string{"a", "b"}))
	require.NotEqual(t, fingerprint([]string{"a"}), fingerprint([]string{"a", "b"}))
}

func TestBuildSpecWithNoEnabledListKeepsEverySub(t *testing.T) {
	root := buildSpec(nil)
	require.NotEmpty(t, root.Subs)
}

func TestBuildSpecFiltersToEnabledNames(t *testing.T) {
	full := buildSpec(nil)
	var total int
	for _, sub := range full.Subs {
		if sub.Name == "text" || sub.Name == "literal:number" {
			total++
		}
	}
	require.Equal(t, 2, total)

	filtered := buildSpec([]string{"text", "literal:number"})
	require.Len(t, filtered.Subs, 2)
	for _, sub := range filtered.Subs {
		require.Contains(t, []string{"text", "literal:number"}, sub.Name)
	}
}

func TestRunRenderPlainTextPassesThroughVerbatim(t *testing.T) {
	doc := ref.NewPseudoDocument("doc", "hello world")
	result, err := runRender(context.Background(), doc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hello world", result.Console)
	require.False(t, result.HasErrors)
	require.Empty(t, result.Diagnostics)
}

func TestRunRenderPopulatesAndHitsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.New(dir)
	require.NoError(t, err)

	doc := ref.NewPseudoDocument("doc", "cached text")
	first, err := runRender(context.Background(), doc, nil, store)
	require.NoError(t, err)
	require.Equal(t, "cached text", first.Console)

	key := cache.Key("cached text", fingerprint(nil))
	entry, ok, err := store.Load(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "cached text", entry.Console)

	second, err := runRender(context.Background(), doc, nil, store)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestNewCacheStoreReturnsNilForEmptyDir(t *testing.T) {
	store, err := newCacheStore("")
	require.NoError(t, err)
	require.Nil(t, store)
}

func TestNewCacheStoreCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested"
	store, err := newCacheStore(dir)
	require.NoError(t, err)
	require.NotNil(t, store)
}
