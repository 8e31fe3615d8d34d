// Package quality turns raw modality outputs into trust scores.
// Scores are deterministic heuristics, clamped to [0,1] and rounded to
// three decimals, plus the issue tags that produced them.
package quality

import (
	"math"
	"regexp"
	"strings"

	"ward-lab/domain"
)

const (
	noiseRatioMax     = 0.2
	minAlphaWords     = 8
	uniqueRatioMin    = 0.45
	shortPenalty      = 0.35
	noisePenalty      = 0.45
	repeatPenalty     = 0.35
	uninterpretable   = 0.2
	interpretBase     = 0.4
	interpretScale    = 0.6
	lowStrengthCut    = 0.15
	mediumStrengthCut = 0.05
)

var alphaWord = regexp.MustCompile(`[A-Za-z']+`)

// AssessAudio scores a transcript. Rules are ordered: an empty
// transcript short-circuits, then noise, then repetition or shortness,
// and every applicable penalty stacks.
func AssessAudio(transcript string) domain.QualityScore {
	t := strings.TrimSpace(transcript)
	if t == "" {
		return domain.QualityScore{Score: 0.0, Issues: []string{"empty_transcript"}}
	}

	var issues []string

	epsCount := strings.Count(t, "<epsilon>") + strings.Count(strings.ToLower(t), "epsilon")
	tokenCount := len(strings.Fields(t))
	if tokenCount < 1 {
		tokenCount = 1
	}
	if float64(epsCount)/float64(tokenCount) > noiseRatioMax {
		issues = append(issues, "epsilon_noise_high")
	}

	words := alphaWord.FindAllString(strings.ToLower(t), -1)
	if len(words) >= minAlphaWords {
		distinct := map[string]struct{}{}
		for _, w := range words {
			distinct[w] = struct{}{}
		}
		if float64(len(distinct))/float64(len(words)) < uniqueRatioMin {
			issues = append(issues, "repetition_high")
		}
	} else {
		issues = append(issues, "very_short_transcript")
	}

	score := 1.0
	for _, issue := range issues {
		switch issue {
		case "very_short_transcript":
			score -= shortPenalty
		case "epsilon_noise_high":
			score -= noisePenalty
		case "repetition_high":
			score -= repeatPenalty
		}
	}

	return domain.QualityScore{Score: round3(clamp01(score)), Issues: issues}
}

// AssessImage scores the analyzer's findings. The findings' own issue
// tags are carried through, with interpretability appended when relevant.
func AssessImage(findings *domain.ImageFindings) domain.QualityScore {
	if findings == nil {
		return domain.QualityScore{Score: 0.0, Issues: []string{"no_image_findings"}}
	}

	issues := append([]string{}, findings.Issues...)

	score := uninterpretable
	if findings.Interpretable {
		score = interpretBase + interpretScale*findings.Confidence
	} else {
		issues = append(issues, "image_not_interpretable")
	}

	// Analyzers that report no strength are treated as low.
	switch findings.EvidenceStrength {
	case domain.StrengthLow, "":
		score -= lowStrengthCut
	case domain.StrengthMedium:
		score -= mediumStrengthCut
	}

	return domain.QualityScore{Score: round3(clamp01(score)), Issues: issues}
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
