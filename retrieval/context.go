package retrieval

import (
	"strings"

	"ward-lab/domain"
)

// SnippetChars caps the text of evidence items embedded in the result.
const SnippetChars = 300

// ContextBudget bounds how much evidence text reaches a prompt.
// Ranking happens before these budgets are applied.
type ContextBudget struct {
	PerItemChars int
	TotalChars   int
}

// DefaultBudget mirrors the tuning the assessment prompts were written for.
var DefaultBudget = ContextBudget{PerItemChars: 500, TotalChars: 2200}

// Clamp keeps configured budgets inside sane bounds.
func (b ContextBudget) Clamp() ContextBudget {
	return ContextBudget{
		PerItemChars: clampInt(b.PerItemChars, 160, 1200),
		TotalChars:   clampInt(b.TotalChars, 800, 6000),
	}
}

// BuildContext renders ranked evidence as "- (source) text" lines for
// prompt embedding, trimming each item and then the whole block.
func BuildContext(items []domain.EvidenceItem, budget ContextBudget) string {
	budget = budget.Clamp()
	var lines []string
	total := 0
	for _, item := range items {
		text := strings.TrimSpace(strings.ReplaceAll(item.Text, "\n", " "))
		if text == "" {
			continue
		}
		if len([]rune(text)) > budget.PerItemChars {
			text = strings.TrimRight(string([]rune(text)[:budget.PerItemChars-3]), " ") + "..."
		}
		line := "- (" + item.Source() + ") " + text
		if total+len(line) > budget.TotalChars {
			break
		}
		lines = append(lines, line)
		total += len(line)
	}
	return strings.Join(lines, "\n")
}

// Snippets trims ranked items for the caller-facing evidence list.
func Snippets(items []domain.EvidenceItem) []domain.EvidenceItem {
	out := make([]domain.EvidenceItem, len(items))
	for i, item := range items {
		trimmed := item
		runes := []rune(strings.TrimSpace(strings.ReplaceAll(item.Text, "\n", " ")))
		if len(runes) > SnippetChars {
			trimmed.Text = string(runes[:SnippetChars]) + "..."
		} else {
			trimmed.Text = string(runes)
		}
		out[i] = trimmed
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
