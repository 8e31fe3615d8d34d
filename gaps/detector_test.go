package gaps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ward-lab/domain"
	"ward-lab/gaps"
)

func gapIDs(reg *gaps.Registry) []string {
	var ids []string
	for _, g := range reg.Gaps() {
		ids = append(ids, g.ID)
	}
	return ids
}

func Test_Evaluate_flags_a_too_short_chief_complaint(t *testing.T) {
	// Arrange
	reg := gaps.NewRegistry(domain.ViewModeDoctor, gaps.LocaleEN)

	// Act
	gaps.Evaluate(reg, gaps.Input{
		Request: domain.AssessmentRequest{Chief: "cough", History: "copd for years"},
	})

	// Assert
	require.True(t, reg.Has("chief_too_short"))
	assert.Equal(t, domain.SeverityMedium, reg.Gaps()[0].Severity)
	assert.False(t, reg.Has("history_missing_key"))
}

func Test_Evaluate_accepts_history_with_a_key_clinical_fact(t *testing.T) {
	reg := gaps.NewRegistry(domain.ViewModeDoctor, gaps.LocaleEN)

	gaps.Evaluate(reg, gaps.Input{
		Request: domain.AssessmentRequest{
			Chief:   "fever and productive cough for three days",
			History: "recent antibiotic course for bronchitis",
		},
	})

	assert.False(t, reg.Has("chief_too_short"))
	assert.False(t, reg.Has("history_missing_key"))
}

func Test_Evaluate_detects_vitals_anywhere_in_the_combined_narrative(t *testing.T) {
	// Arrange: SpO2 in the transcript, temperature in the plan, the rest missing.
	reg := gaps.NewRegistry(domain.ViewModeDoctor, gaps.LocaleEN)

	// Act
	gaps.Evaluate(reg, gaps.Input{
		Request: domain.AssessmentRequest{
			Chief:      "fever and productive cough for three days",
			History:    "known COPD",
			InternPlan: "recheck temperature tonight",
		},
		Transcript: "nurse measured SpO2 at 92 percent",
	})

	// Assert
	assert.False(t, reg.Has("missing_spo2"))
	assert.False(t, reg.Has("missing_temp"))
	assert.True(t, reg.Has("missing_rr"))
	assert.True(t, reg.Has("missing_hr"))
}

func Test_Evaluate_matches_chinese_vital_wording(t *testing.T) {
	reg := gaps.NewRegistry(domain.ViewModeDoctor, gaps.LocaleZH)

	gaps.Evaluate(reg, gaps.Input{
		Request: domain.AssessmentRequest{
			Chief:   "咳嗽发烧三天，痰为黄绿色",
			History: "有肺气肿病史，血氧 92%，体温 38.5℃，心率 96",
		},
	})

	assert.False(t, reg.Has("missing_spo2"))
	assert.False(t, reg.Has("missing_temp"))
	assert.False(t, reg.Has("missing_hr"))
	assert.True(t, reg.Has("missing_rr"))
}

func Test_Evaluate_flags_low_quality_only_for_provided_modalities(t *testing.T) {
	// Arrange
	reg := gaps.NewRegistry(domain.ViewModeDoctor, gaps.LocaleEN)

	// Act: audio provided and poor, image absent with a zero score.
	gaps.Evaluate(reg, gaps.Input{
		Request: domain.AssessmentRequest{
			Chief:   "fever and productive cough for three days",
			History: "copd",
		},
		Availability: domain.ModalityAvailability{HasAudio: true},
		AudioQuality: domain.QualityScore{Score: 0.2},
		ImageQuality: domain.QualityScore{Score: 0.0},
	})

	// Assert
	assert.True(t, reg.Has("audio_quality_low"))
	assert.False(t, reg.Has("image_quality_low"))
}

func Test_Registry_keeps_first_registration_and_insertion_order(t *testing.T) {
	// Arrange
	reg := gaps.NewRegistry(domain.ViewModeDoctor, gaps.LocaleEN)

	// Act
	reg.Add("asr_failed")
	reg.Add("missing_temp")
	reg.Add("asr_failed")
	reg.Add("not_a_known_gap")

	// Assert
	assert.Equal(t, []string{"asr_failed", "missing_temp"}, gapIDs(reg))
}

func Test_Registry_lowers_vital_gaps_and_appends_a_note_in_patient_mode(t *testing.T) {
	// Arrange
	reg := gaps.NewRegistry(domain.ViewModePatient, gaps.LocaleEN)

	// Act
	reg.Add("missing_spo2")
	reg.Add("asr_failed")

	// Assert
	require.Len(t, reg.Gaps(), 2)
	spo2 := reg.Gaps()[0]
	assert.Equal(t, domain.SeverityLow, spo2.Severity)
	assert.Contains(t, spo2.Message, "a nurse or doctor can measure this at the bedside")

	// Non-vital gaps keep their severity even in patient mode.
	assert.Equal(t, domain.SeverityHigh, reg.Gaps()[1].Severity)
}

func Test_Registry_localizes_messages_in_chinese(t *testing.T) {
	reg := gaps.NewRegistry(domain.ViewModePatient, gaps.LocaleZH)

	reg.Add("missing_spo2")

	require.Len(t, reg.Gaps(), 1)
	assert.Equal(t, "缺少血氧（SpO₂），建议补充或测量。（患者端可请护士/医生测量）",
		reg.Gaps()[0].Message)
}

func Test_DetectLocale_picks_chinese_for_chinese_dominant_text(t *testing.T) {
	assert.Equal(t, gaps.LocaleZH, gaps.DetectLocale("咳嗽发烧三天，胸口疼痛"))
	assert.Equal(t, gaps.LocaleEN, gaps.DetectLocale("coughing and fever for three days"))
	assert.Equal(t, gaps.LocaleEN, gaps.DetectLocale(""))
}
