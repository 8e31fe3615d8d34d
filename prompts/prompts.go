// Package prompts builds the three reasoning-stage prompts. The
// reasoning engine itself is an external collaborator; only the prompt
// text and its expected JSON shape are owned here.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"ward-lab/domain"
)

// DiagnosisInput gathers everything the first reasoning call sees.
type DiagnosisInput struct {
	Request      domain.AssessmentRequest
	Availability domain.ModalityAvailability
	Transcript   string
	FusedSummary string
	Findings     *domain.ImageFindings
	EvidenceText string
}

// BuildDiagnosisPrompt renders the initial assessment prompt. Doctor
// mode asks for a structured assessment; patient mode asks for gentle
// wording plus a short comprehension quiz.
func BuildDiagnosisPrompt(in DiagnosisInput) string {
	var b strings.Builder

	b.WriteString("You are a clinical assessment assistant for a respiratory ward.\n")
	b.WriteString("Use only the supplied information and reference evidence.\n\n")

	b.WriteString("PATIENT:\n")
	if in.Request.Age > 0 {
		fmt.Fprintf(&b, "- age: %d\n", in.Request.Age)
	}
	if in.Request.Sex != "" {
		fmt.Fprintf(&b, "- sex: %s\n", in.Request.Sex)
	}
	fmt.Fprintf(&b, "- chief complaint: %s\n", in.Request.Chief)
	fmt.Fprintf(&b, "- history: %s\n", in.Request.History)
	if in.Request.InternPlan != "" {
		fmt.Fprintf(&b, "- intern plan: %s\n", in.Request.InternPlan)
	}

	if in.Availability.HasAudio {
		fmt.Fprintf(&b, "\nTRANSCRIPT:\n%s\n", in.Transcript)
	}
	if in.Findings != nil {
		fmt.Fprintf(&b, "\nIMAGE FINDINGS:\n- primary: %s (confidence %.2f, strength %s)\n",
			in.Findings.PrimaryFinding, in.Findings.Confidence, in.Findings.EvidenceStrength)
	}
	if in.FusedSummary != "" {
		b.WriteString("\n" + in.FusedSummary + "\n")
	}
	if in.EvidenceText != "" {
		b.WriteString("\nREFERENCE EVIDENCE:\n" + in.EvidenceText + "\n")
	}

	if in.Request.ViewMode == domain.ViewModePatient {
		b.WriteString("\nRespond as JSON with keys: gentle_summary, what_to_do_now, " +
			"when_to_seek_help, quiz (list of {question, options, answer}).\n")
		b.WriteString("Use plain, reassuring language. Do not speculate beyond the inputs.\n")
	} else {
		b.WriteString("\nRespond as JSON with keys: assessment, likely_diagnoses " +
			"(ranked list with rationale), severity, recommended_actions, uncertainties.\n")
		b.WriteString("State which modality or evidence each conclusion rests on.\n")
	}
	return b.String()
}

// BuildAuditPrompt asks the engine to review its own diagnosis for
// unsupported claims and unsafe advice.
func BuildAuditPrompt(req domain.AssessmentRequest, diagnosis map[string]any) string {
	var b strings.Builder
	b.WriteString("You are auditing a clinical assessment for safety and grounding.\n")
	b.WriteString("Identify claims not supported by the inputs, unsafe advice, and missing caveats.\n\n")
	fmt.Fprintf(&b, "CHIEF COMPLAINT: %s\nHISTORY: %s\n\n", req.Chief, req.History)
	b.WriteString("ASSESSMENT UNDER REVIEW:\n" + compactJSON(diagnosis) + "\n\n")
	b.WriteString("Respond as JSON with keys: verdict (pass|revise), unsupported_claims, " +
		"safety_concerns, suggested_revisions.\n")
	return b.String()
}

// BuildReversePrompt asks for a differential: what else could explain
// the same picture, and what would discriminate between options.
func BuildReversePrompt(req domain.AssessmentRequest, diagnosis map[string]any) string {
	var b strings.Builder
	b.WriteString("You are running a differential diagnosis pass.\n")
	b.WriteString("Given the assessment below, list alternative explanations and the " +
		"findings or tests that would discriminate between them.\n\n")
	fmt.Fprintf(&b, "CHIEF COMPLAINT: %s\nHISTORY: %s\n\n", req.Chief, req.History)
	b.WriteString("INITIAL ASSESSMENT:\n" + compactJSON(diagnosis) + "\n\n")
	b.WriteString("Respond as JSON with keys: differentials (ranked list with " +
		"{condition, rationale, discriminators}), red_flags.\n")
	return b.String()
}

func compactJSON(m map[string]any) string {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprintf("%v", m)
	}
	return string(data)
}
