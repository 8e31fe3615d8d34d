package domain

// Basis names which evidence source most influenced the final diagnosis.
type Basis string

const (
	BasisMixed    Basis = "mixed"
	BasisAudio    Basis = "audio"
	BasisImage    Basis = "image"
	BasisRAG      Basis = "rag"
	BasisClinical Basis = "clinical"
)

// Meta summarizes modality availability and trust for the UI layer.
type Meta struct {
	RouteTag          RouteTag `json:"route_tag"`
	HasAudio          bool     `json:"has_audio"`
	HasImage          bool     `json:"has_image"`
	AudioQualityScore float64  `json:"audio_quality_score"`
	AudioIssues       []string `json:"audio_issues"`
	ImageQualityScore float64  `json:"image_quality_score"`
	ImageIssues       []string `json:"image_issues"`
	RagUsed           bool     `json:"rag_used"`
	PrimaryBasis      Basis    `json:"primary_basis"`
}

// AssessmentResult is the full output of one orchestrator run.
// Audit and Reverse are only populated in doctor mode.
type AssessmentResult struct {
	Mode            ViewMode       `json:"mode"`
	Meta            Meta           `json:"meta"`
	Diagnosis       map[string]any `json:"diagnosis"`
	Audit           map[string]any `json:"audit,omitempty"`
	Reverse         map[string]any `json:"reverse,omitempty"`
	ImageFindings   *ImageFindings `json:"image_findings,omitempty"`
	AudioTranscript string         `json:"audio_transcript"`
	FusedSummary    string         `json:"multimodal_summary"`
	Evidence        []EvidenceItem `json:"evidence"`
	Trace           []TraceRecord  `json:"trace"`
	Gaps            []Gap          `json:"gaps"`
	AssessmentID    string         `json:"assessment_id"`
	PatientID       string         `json:"patient_id,omitempty"`
	ErrorSummary    []string       `json:"error_summary"`
}
