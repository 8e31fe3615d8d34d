package retrieval_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ward-lab/domain"
	"ward-lab/retrieval"
)

func Test_Clamp_keeps_configured_budgets_inside_bounds(t *testing.T) {
	tiny := retrieval.ContextBudget{PerItemChars: 10, TotalChars: 100}.Clamp()
	huge := retrieval.ContextBudget{PerItemChars: 5000, TotalChars: 50000}.Clamp()

	assert.Equal(t, retrieval.ContextBudget{PerItemChars: 160, TotalChars: 800}, tiny)
	assert.Equal(t, retrieval.ContextBudget{PerItemChars: 1200, TotalChars: 6000}, huge)
}

func Test_BuildContext_renders_source_prefixed_lines(t *testing.T) {
	// Arrange
	items := []domain.EvidenceItem{
		{Text: "first chunk", SourceFile: "guide.pdf"},
		{Text: "second\nchunk", SourcePath: "/kb/textbook.pdf"},
	}

	// Act
	ctx := retrieval.BuildContext(items, retrieval.DefaultBudget)

	// Assert: newlines inside a chunk are flattened.
	lines := strings.Split(ctx, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "- (guide.pdf) first chunk", lines[0])
	assert.Equal(t, "- (/kb/textbook.pdf) second chunk", lines[1])
}

func Test_BuildContext_trims_each_item_to_the_per_item_budget(t *testing.T) {
	items := []domain.EvidenceItem{
		{Text: strings.Repeat("a", 900), SourceFile: "guide.pdf"},
	}

	ctx := retrieval.BuildContext(items, retrieval.ContextBudget{PerItemChars: 200, TotalChars: 2200})

	assert.True(t, strings.HasSuffix(ctx, "..."))
	assert.LessOrEqual(t, len(ctx), len("- (guide.pdf) ")+200)
}

func Test_BuildContext_stops_at_the_total_budget(t *testing.T) {
	// Arrange: each line is ~174 chars, the total budget allows only four.
	var items []domain.EvidenceItem
	for i := 0; i < 10; i++ {
		items = append(items, domain.EvidenceItem{
			Text:       strings.Repeat("b", 160),
			SourceFile: "guide.pdf",
		})
	}

	// Act
	ctx := retrieval.BuildContext(items, retrieval.ContextBudget{PerItemChars: 500, TotalChars: 800})

	// Assert
	assert.Len(t, strings.Split(ctx, "\n"), 4)
}

func Test_BuildContext_skips_empty_chunks(t *testing.T) {
	items := []domain.EvidenceItem{
		{Text: "   ", SourceFile: "guide.pdf"},
		{Text: "usable", SourceFile: "guide.pdf"},
	}

	ctx := retrieval.BuildContext(items, retrieval.DefaultBudget)

	assert.Equal(t, "- (guide.pdf) usable", ctx)
}

func Test_Snippets_trims_long_texts_and_keeps_metadata(t *testing.T) {
	// Arrange
	items := []domain.EvidenceItem{
		{Text: strings.Repeat("c", 400), SourceFile: "guide.pdf", Category: "clinical_guideline"},
		{Text: "short", SourcePath: "/kb/t.pdf"},
	}

	// Act
	out := retrieval.Snippets(items)

	// Assert
	require.Len(t, out, 2)
	assert.Len(t, out[0].Text, retrieval.SnippetChars+len("..."))
	assert.Equal(t, "clinical_guideline", out[0].Category)
	assert.Equal(t, "short", out[1].Text)
	assert.Equal(t, "/kb/t.pdf", out[1].Source())
}
