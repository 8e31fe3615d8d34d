// Package retrieval re-ranks raw search hits into the evidence list a
// run embeds in its prompts and result. Index build and maintenance
// live elsewhere; this package is query-time only.
package retrieval

import (
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"

	"ward-lab/domain"
)

const (
	// RetrievalFloor widens recall before re-ranking: the engine is
	// always asked for at least this many candidates.
	RetrievalFloor = 18

	// MaxEvidenceChars caps each candidate's text before ranking.
	MaxEvidenceChars = 1200

	tierGuideline = 1
	tierDefault   = 2
	tierOffTopic  = 3
)

// fungalTriggers gate the testing-algorithm tier override: such chunks
// are only relevant when the query itself mentions fungal disease.
var fungalTriggers = []string{"fungal", "fungus", "mycos", "aspergill", "candida"}

// noisePatterns mark bibliographic boilerplate: citations, journal
// names, tables of contents, numbered question headers, copyright.
var noisePatterns = []string{
	"et al", "doi:", "n engl j med", "clin infect dis", "respirology", "jama",
	"table of contents", "clinical questions",
	"question 1", "question 2", "question 3", "question 4", "question 5",
	"question 6", "question 7", "question 8", "question 9", "question 10",
	"all rights reserved", "downloaded from", "permissions",
}

var guidelineMarkers = []string{
	"pneumoniaclinical_guidelines",
	"clinical_guideline", "clinicalguideline",
	"clinicalpracticeguideline", "clinical_practice_guideline",
	"clinical_pathway", "clinicalpathway",
	"decision_pathway", "decisionpathway",
}

// Ranker is a pure transformation of raw hits; it holds only the
// compiled noise automaton.
type Ranker struct {
	noise *goahocorasick.Machine
}

func NewRanker() (*Ranker, error) {
	patterns := make([][]rune, len(noisePatterns))
	for i, p := range noisePatterns {
		patterns[i] = []rune(p)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Ranker{noise: m}, nil
}

type rankedHit struct {
	item domain.EvidenceItem
	tier int
}

// Rank filters, tiers, sorts and caps raw candidates. Clean candidates
// always win: the noise bucket is returned only when no clean candidate
// survived, and the buckets are never mixed.
func (r *Ranker) Rank(query string, topK int, hits []domain.RawEvidence) []domain.EvidenceItem {
	if topK <= 0 {
		return nil
	}
	queryLower := strings.ToLower(query)
	fungalQuery := containsAny(queryLower, fungalTriggers)

	var clean, noisy []rankedHit
	for _, hit := range hits {
		text := truncateRunes(hit.Text, MaxEvidenceChars)

		tier := computeTier(hit.Category, hit.SourcePath)
		combined := normalizeForTier(hit.Category, hit.SourcePath)
		if isFungalTestingAlgorithm(combined) {
			if fungalQuery {
				tier = min(tier, tierDefault)
			} else {
				tier = max(tier, tierOffTopic)
			}
		}

		ranked := rankedHit{
			item: domain.EvidenceItem{
				Text:       text,
				SourceFile: hit.SourceFile,
				SourcePath: hit.SourcePath,
				Category:   hit.Category,
				Score:      hit.Score,
			},
			tier: tier,
		}
		if r.isNoise(strings.ToLower(text)) {
			noisy = append(noisy, ranked)
		} else {
			clean = append(clean, ranked)
		}
	}

	sortBucket(clean)
	sortBucket(noisy)

	bucket := clean
	if len(bucket) == 0 {
		bucket = noisy
	}
	if len(bucket) > topK {
		bucket = bucket[:topK]
	}

	out := make([]domain.EvidenceItem, 0, len(bucket))
	for _, h := range bucket {
		out = append(out, h.item)
	}
	return out
}

// sortBucket orders by tier ascending, then similarity descending.
// A missing score sorts below any real one.
func sortBucket(bucket []rankedHit) {
	sort.SliceStable(bucket, func(i, j int) bool {
		if bucket[i].tier != bucket[j].tier {
			return bucket[i].tier < bucket[j].tier
		}
		return scoreKey(bucket[i].item.Score) > scoreKey(bucket[j].item.Score)
	})
}

func scoreKey(score *float64) float64 {
	if score == nil {
		return -1.0
	}
	return *score
}

func computeTier(category, sourcePath string) int {
	if containsAny(normalizeForTier(category, sourcePath), guidelineMarkers) {
		return tierGuideline
	}
	return tierDefault
}

func normalizeForTier(category, sourcePath string) string {
	combined := strings.ToLower(category + " " + sourcePath)
	return strings.ReplaceAll(combined, "-", "_")
}

func isFungalTestingAlgorithm(combined string) bool {
	if !strings.Contains(combined, "testingalgorithm") &&
		!strings.Contains(combined, "testing_algorithm") {
		return false
	}
	return containsAny(combined, fungalTriggers)
}

func (r *Ranker) isNoise(textLower string) bool {
	return len(r.noise.MultiPatternSearch([]rune(textLower), true)) > 0
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
