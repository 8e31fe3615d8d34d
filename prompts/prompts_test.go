package prompts_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ward-lab/domain"
	"ward-lab/prompts"
)

func diagnosisInput(mode domain.ViewMode) prompts.DiagnosisInput {
	return prompts.DiagnosisInput{
		Request: domain.AssessmentRequest{
			ViewMode: mode,
			Age:      67,
			Sex:      "male",
			Chief:    "fever and productive cough",
			History:  "known COPD",
		},
		Availability: domain.ModalityAvailability{HasAudio: true},
		Transcript:   "green sputum since monday",
		FusedSummary: "FUSED INPUT SUMMARY:\n- route_tag: audio_only",
		EvidenceText: "- (guide.pdf) start antibiotics within four hours",
	}
}

func Test_BuildDiagnosisPrompt_doctor_mode_asks_for_a_structured_assessment(t *testing.T) {
	prompt := prompts.BuildDiagnosisPrompt(diagnosisInput(domain.ViewModeDoctor))

	assert.Contains(t, prompt, "- age: 67")
	assert.Contains(t, prompt, "TRANSCRIPT:\ngreen sputum since monday")
	assert.Contains(t, prompt, "REFERENCE EVIDENCE:")
	assert.Contains(t, prompt, "likely_diagnoses")
	assert.NotContains(t, prompt, "gentle_summary")
}

func Test_BuildDiagnosisPrompt_patient_mode_asks_for_gentle_wording_and_a_quiz(t *testing.T) {
	prompt := prompts.BuildDiagnosisPrompt(diagnosisInput(domain.ViewModePatient))

	assert.Contains(t, prompt, "gentle_summary")
	assert.Contains(t, prompt, "quiz")
	assert.NotContains(t, prompt, "likely_diagnoses")
}

func Test_BuildDiagnosisPrompt_omits_sections_for_absent_inputs(t *testing.T) {
	// Arrange: no audio, no findings, no evidence.
	in := prompts.DiagnosisInput{
		Request: domain.AssessmentRequest{
			ViewMode: domain.ViewModeDoctor,
			Chief:    "chest pain",
			History:  "none",
		},
	}

	// Act
	prompt := prompts.BuildDiagnosisPrompt(in)

	// Assert
	assert.NotContains(t, prompt, "TRANSCRIPT:")
	assert.NotContains(t, prompt, "IMAGE FINDINGS:")
	assert.NotContains(t, prompt, "REFERENCE EVIDENCE:")
	assert.NotContains(t, prompt, "- age:")
}

func Test_BuildAuditPrompt_embeds_the_diagnosis_under_review(t *testing.T) {
	req := domain.AssessmentRequest{Chief: "fever", History: "copd"}

	prompt := prompts.BuildAuditPrompt(req, map[string]any{"assessment": "likely CAP"})

	assert.Contains(t, prompt, `{"assessment":"likely CAP"}`)
	assert.Contains(t, prompt, "verdict (pass|revise)")
	assert.True(t, strings.Index(prompt, "CHIEF COMPLAINT: fever") <
		strings.Index(prompt, "ASSESSMENT UNDER REVIEW:"))
}

func Test_BuildReversePrompt_asks_for_differentials_and_red_flags(t *testing.T) {
	req := domain.AssessmentRequest{Chief: "fever", History: "copd"}

	prompt := prompts.BuildReversePrompt(req, map[string]any{"assessment": "likely CAP"})

	assert.Contains(t, prompt, "differentials")
	assert.Contains(t, prompt, "red_flags")
	assert.Contains(t, prompt, "INITIAL ASSESSMENT:")
}
