package domain

// Severity grades how much a missing piece of information degrades
// the assessment.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Gap is a structured notice that expected clinical information is
// missing or of low quality. IDs are unique within a run.
type Gap struct {
	ID              string   `json:"id"`
	Severity        Severity `json:"severity"`
	Message         string   `json:"message"`
	SuggestedFields []string `json:"suggested_fields"`
}
