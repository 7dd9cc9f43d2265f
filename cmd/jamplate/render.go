package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cufyorg/jamplate-processor/internal/builtin"
	"github.com/cufyorg/jamplate-processor/internal/cache"
	"github.com/cufyorg/jamplate-processor/internal/diagnostic"
	"github.com/cufyorg/jamplate-processor/internal/ref"
	"github.com/cufyorg/jamplate-processor/internal/spec"
)

// renderResult is what runRender hands back to main: the text to print to
// stdout, the diagnostic lines to print to stderr, and whether any of them
// was error-severity (main's exit-code signal).
type renderResult struct {
	Console     string
	Diagnostics []string
	HasErrors   bool
}

// buildSpec assembles the default root Spec, trimmed to enabled (by Name)
// when non-empty — the --config "enabled-directives" toggle.
func buildSpec(enabled []string) *spec.Spec {
	root := builtin.Spec()
	if len(enabled) == 0 {
		return root
	}
	want := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		want[name] = true
	}
	var kept []*spec.Spec
	for _, sub := range root.Subs {
		if want[sub.Name] {
			kept = append(kept, sub)
		}
	}
	root.Subs = kept
	return root
}

// fingerprint is the cache.Key input distinguishing one enabled-directives
// set from another over identical document content.
func fingerprint(enabled []string) string {
	sorted := append([]string{}, enabled...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// runRender drives the five-action pipeline once against doc, consulting
// store first (if non-nil) and populating it afterward on a miss.
func runRender(ctx context.Context, doc ref.Document, enabled []string, store *cache.Store) (renderResult, error) {
	content, err := doc.Read(ref.New(0, doc.Len()))
	if err != nil {
		return renderResult{}, err
	}
	key := cache.Key(content, fingerprint(enabled))

	if store != nil {
		if entry, ok, err := store.Load(key); err == nil && ok {
			return renderResult{Console: entry.Console, Diagnostics: entry.Diagnostics, HasErrors: entry.HasErrors}, nil
		}
	}

	env := spec.NewEnvironment()
	root := buildSpec(enabled)
	unit := spec.NewUnit(env, root)
	comp := env.NewCompilation(doc)

	if err := unit.Run(ctx, comp); err != nil {
		return renderResult{}, err
	}

	result := renderResult{
		Console:     comp.Memory().Root().Console.String(),
		Diagnostics: diagnostic.FormatAll(env.Sink()),
		HasErrors:   env.Sink().HasErrors(),
	}

	if store != nil {
		_ = store.Store(key, cache.Entry{
			Console:     result.Console,
			Diagnostics: result.Diagnostics,
			HasErrors:   result.HasErrors,
		})
	}

	return result, nil
}

func newCacheStore(dir string) (*cache.Store, error) {
	if dir == "" {
		return nil, nil
	}
	return cache.New(dir)
}

var errRenderFailed = fmt.Errorf("render failed")
