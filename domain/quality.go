package domain

// QualityScore is the trust score for one modality, in [0,1] rounded to
// three decimals, plus the ordered issue tags that produced it.
type QualityScore struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}
