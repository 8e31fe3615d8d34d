package domain

// EvidenceStrength categorizes how much weight an image finding carries.
type EvidenceStrength string

const (
	StrengthLow    EvidenceStrength = "low"
	StrengthMedium EvidenceStrength = "medium"
	StrengthHigh   EvidenceStrength = "high"
)

// ImageFindings is what the image analyzer returns for one scan.
type ImageFindings struct {
	Model             string           `json:"model,omitempty"`
	Mode              string           `json:"mode,omitempty"`
	PrimaryFinding    string           `json:"primary_finding"`
	Confidence        float64          `json:"confidence"`
	TopCandidates     []Candidate      `json:"top_candidates,omitempty"`
	Interpretable     bool             `json:"interpretable"`
	SuggestsPneumonia bool             `json:"suggests_pneumonia"`
	EvidenceStrength  EvidenceStrength `json:"evidence_strength"`
	Issues            []string         `json:"issues,omitempty"`
}

// Candidate is one labeled hypothesis from the image classifier.
type Candidate struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// FailedFindings is the placeholder recorded when the analyzer raised.
func FailedFindings(errText string) *ImageFindings {
	return &ImageFindings{
		Mode:             "failed",
		PrimaryFinding:   "Unknown",
		Interpretable:    false,
		EvidenceStrength: StrengthLow,
		Issues:           []string{"vision_failed: " + errText},
	}
}
