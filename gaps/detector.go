package gaps

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"ward-lab/domain"
)

const (
	minChiefLen   = 10
	lowQualityCut = 0.35
)

// historyKeywords are the facts a usable history should touch on:
// chronic lung disease, immunosuppression, transplant, steroids,
// chemotherapy, recent antibiotics — localized terms included.
var historyKeywords = []string{
	"copd", "asthma", "肺",
	"immun", "transplant", "steroid", "chemo",
	"antibiotic", "抗生素", "免疫",
}

var (
	spo2Patterns = compileAll(`\bspo2\b`, `o2\s*sat`, `血氧`, `氧饱和`)
	tempPatterns = compileAll(`\btemp\b`, `temperature`, `体温`, `℃`, `°c`)
	rrPatterns   = compileAll(`\brr\b`, `respiratory rate`, `呼吸频率`, `呼吸率`)
	hrPatterns   = compileAll(`\bhr\b`, `heart rate`, `心率`, `脉搏`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	return lo.Map(patterns, func(p string, _ int) *regexp.Regexp {
		return regexp.MustCompile(p)
	})
}

// Input is everything the rule list inspects.
type Input struct {
	Request      domain.AssessmentRequest
	Transcript   string
	Availability domain.ModalityAvailability
	AudioQuality domain.QualityScore
	ImageQuality domain.QualityScore
}

// Evaluate runs the rule list once, in order, against the registry.
// Stage-failure gaps (asr_failed, diagnosis_failed, ...) are registered
// inline by the orchestrator, not here.
func Evaluate(reg *Registry, in Input) {
	req := in.Request

	if len(strings.TrimSpace(req.Chief)) < minChiefLen {
		reg.Add("chief_too_short")
	}

	history := strings.ToLower(req.History)
	if !lo.SomeBy(historyKeywords, func(k string) bool {
		return strings.Contains(history, k)
	}) {
		reg.Add("history_missing_key")
	}

	combined := strings.ToLower(strings.Join([]string{
		req.Chief, req.History, req.InternPlan, in.Transcript,
	}, " "))

	if !matchesAny(spo2Patterns, combined) {
		reg.Add("missing_spo2")
	}
	if !matchesAny(tempPatterns, combined) {
		reg.Add("missing_temp")
	}
	if !matchesAny(rrPatterns, combined) {
		reg.Add("missing_rr")
	}
	if !matchesAny(hrPatterns, combined) {
		reg.Add("missing_hr")
	}

	if in.Availability.HasAudio && in.AudioQuality.Score < lowQualityCut {
		reg.Add("audio_quality_low")
	}
	if in.Availability.HasImage && in.ImageQuality.Score < lowQualityCut {
		reg.Add("image_quality_low")
	}
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	return lo.SomeBy(patterns, func(p *regexp.Regexp) bool {
		return p.MatchString(text)
	})
}
