package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cufyorg/jamplate-processor/internal/diagnostic"
	"github.com/cufyorg/jamplate-processor/internal/ref"
)

func TestSinkHasErrorsOnlyOnErrorSeverity(t *testing.T) {
	sink := diagnostic.NewSink()
	require.False(t, sink.HasErrors())

	sink.Report(diagnostic.Warning, "careful")
	require.False(t, sink.HasErrors())

	sink.Report(diagnostic.Error, "boom")
	require.True(t, sink.HasErrors())
}

func TestSinkItemsIsASnapshot(t *testing.T) {
	sink := diagnostic.NewSink()
	sink.Report(diagnostic.Info, "one")
	items := sink.Items()
	require.Len(t, items, 1)

	sink.Report(diagnostic.Info, "two")
	require.Len(t, items, 1, "earlier snapshot must not observe later reports")
	require.Len(t, sink.Items(), 2)
}

func TestFormatWithoutLocation(t *testing.T) {
	d := diagnostic.Diagnostic{Severity: diagnostic.Error, Message: "bad"}
	require.Equal(t, "error: bad", diagnostic.Format(d))
}

func TestFormatWithLocation(t *testing.T) {
	doc := ref.NewPseudoDocument("doc", "line one\nline two")
	r := ref.Reference{Position: 9, Length: 0}
	d := diagnostic.Diagnostic{
		Severity: diagnostic.Warning, Message: "watch out",
		Document: doc, Reference: r, HasLoc: true,
	}
	require.Equal(t, "doc:2:1: warning: watch out", diagnostic.Format(d))
}

func TestFormatAllOrdersMostSevereFirst(t *testing.T) {
	sink := diagnostic.NewSink()
	sink.Report(diagnostic.Info, "info msg")
	sink.Report(diagnostic.Error, "error msg")
	sink.Report(diagnostic.Warning, "warn msg")

	out := diagnostic.FormatAll(sink)
	require.Equal(t, []string{
		"error: error msg",
		"warning: warn msg",
		"info: info msg",
	}, out)
}

func TestSuggestFindsCloseMatch(t *testing.T) {
	got, ok := diagnostic.Suggest("lenght", []string{"length", "width", "height"})
	require.True(t, ok)
	require.Equal(t, "length", got)
}

func TestSuggestRejectsTooFarCandidates(t *testing.T) {
	_, ok := diagnostic.Suggest("xyz", []string{"completely", "unrelated", "words"})
	require.False(t, ok)
}

func TestSuggestNoCandidates(t *testing.T) {
	_, ok := diagnostic.Suggest("anything", nil)
	require.False(t, ok)
}
