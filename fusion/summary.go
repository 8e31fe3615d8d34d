package fusion

import (
	"fmt"
	"strings"

	"ward-lab/domain"
)

// SummaryInput carries everything the fused summary reports on.
type SummaryInput struct {
	Availability domain.ModalityAvailability
	Transcript   string
	Findings     *domain.ImageFindings
	AudioQuality domain.QualityScore
	ImageQuality domain.QualityScore
	RagUsed      bool
	Basis        domain.Basis
}

// BuildSummary emits the fixed-order cross-modal summary. Line order is
// part of the contract: downstream prompts and tests rely on it.
func BuildSummary(in SummaryInput) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("- route_tag: %s", in.Availability.RouteTag))
	lines = append(lines, fmt.Sprintf("- primary_basis_hint: %s", in.Basis))
	lines = append(lines, fmt.Sprintf("- rag_used: %t", in.RagUsed))

	if in.Availability.HasAudio {
		t := strings.TrimSpace(in.Transcript)
		lines = append(lines, fmt.Sprintf("- audio_transcript_len: %d", len(t)))
		lines = append(lines, fmt.Sprintf("- audio_quality_score: %v", in.AudioQuality.Score))
		if len(in.AudioQuality.Issues) > 0 {
			lines = append(lines, fmt.Sprintf("- audio_issues: %v", in.AudioQuality.Issues))
		}
	}

	if in.Availability.HasImage {
		if in.Findings != nil {
			lines = append(lines, fmt.Sprintf("- vision_primary: %s", in.Findings.PrimaryFinding))
			lines = append(lines, fmt.Sprintf("- vision_confidence: %v", in.Findings.Confidence))
			lines = append(lines, fmt.Sprintf("- vision_interpretable: %t", in.Findings.Interpretable))
			lines = append(lines, fmt.Sprintf("- vision_strength: %s", in.Findings.EvidenceStrength))
			lines = append(lines, fmt.Sprintf("- image_quality_score: %v", in.ImageQuality.Score))
			if len(in.ImageQuality.Issues) > 0 {
				lines = append(lines, fmt.Sprintf("- image_issues: %v", in.ImageQuality.Issues))
			}
		} else {
			lines = append(lines, "- image provided but vision analyzer returned no findings.")
		}
	}

	if conflicts := DetectConflicts(in.Transcript, in.Findings); len(conflicts) > 0 {
		lines = append(lines, fmt.Sprintf("- potential_conflicts: %v", conflicts))
	}

	return "FUSED INPUT SUMMARY:\n" + strings.Join(lines, "\n")
}

// DetectConflicts flags simple semantic disagreements between what the
// patient said and what the scan shows.
func DetectConflicts(transcript string, findings *domain.ImageFindings) []string {
	var flags []string
	at := strings.ToLower(transcript)
	if strings.Contains(at, "pneumonia") && findings != nil {
		top := strings.ToLower(findings.PrimaryFinding)
		if strings.Contains(top, "normal") ||
			(strings.Contains(top, "no pneumothorax") && !findings.SuggestsPneumonia) {
			flags = append(flags, "audio_mentions_pneumonia_but_vision_top_not_pneumonia")
		}
	}
	return flags
}
