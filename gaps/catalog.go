// Package gaps detects and registers missing clinical information.
// Rules run once per run in a fixed order; each gap id is registered at
// most once, first write wins.
package gaps

import "ward-lab/domain"

// Locale selects the language of human-readable gap messages.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleZH Locale = "zh"
)

type entry struct {
	severity domain.Severity
	en       string
	zh       string
	fields   []string
	vital    bool
}

// catalog holds every gap the pipeline can register. Severity here is
// the default; patient mode lowers vital-sign gaps at registration time.
var catalog = map[string]entry{
	"asr_failed": {
		severity: domain.SeverityHigh,
		en:       "Audio transcription failed; please retype or re-record.",
		zh:       "音频转写失败，请改用文字或重新录音。",
		fields:   []string{"audio"},
	},
	"asr_unavailable": {
		severity: domain.SeverityMedium,
		en:       "Audio transcription component is unavailable; please use text input.",
		zh:       "音频转写组件不可用，请改用文字输入。",
		fields:   []string{"audio"},
	},
	"vision_failed": {
		severity: domain.SeverityMedium,
		en:       "Image analysis failed; please re-upload a clear image.",
		zh:       "影像分析失败，请重新上传清晰图像。",
		fields:   []string{"image"},
	},
	"vision_unavailable": {
		severity: domain.SeverityMedium,
		en:       "Image analysis component is unavailable.",
		zh:       "影像分析组件不可用。",
		fields:   []string{"image"},
	},
	"rag_unavailable": {
		severity: domain.SeverityLow,
		en:       "Knowledge base is not loaded or has no relevant documents.",
		zh:       "知识库未加载或无相关文档。",
		fields:   []string{"knowledge_base"},
	},
	"diagnosis_failed": {
		severity: domain.SeverityHigh,
		en:       "Diagnosis generation failed; add details or retry later.",
		zh:       "诊断生成失败，请补充信息或稍后重试。",
		fields:   []string{"chief", "history"},
	},
	"gpu_oom": {
		severity: domain.SeverityHigh,
		en:       "GPU memory is insufficient for current assessment context. Try shorter note or retry.",
		zh:       "GPU memory is insufficient for current assessment context. Try shorter note or retry.",
		fields:   []string{"history", "image", "audio"},
	},
	"audit_failed": {
		severity: domain.SeverityLow,
		en:       "Audit generation failed; the result may lack a safety review.",
		zh:       "审计生成失败，结果可能缺少安全复核。",
	},
	"reverse_failed": {
		severity: domain.SeverityLow,
		en:       "Differential diagnosis generation failed.",
		zh:       "鉴别诊断生成失败。",
	},
	"chief_too_short": {
		severity: domain.SeverityMedium,
		en:       "Chief complaint is too short; add onset, cough/sputum color, chest pain, dyspnea.",
		zh:       "主诉过短，建议补充起病时间、咳嗽/痰色、胸痛、气促等。",
		fields:   []string{"chief"},
	},
	"history_missing_key": {
		severity: domain.SeverityLow,
		en:       "History lacks chronic lung disease, immunosuppression or recent antibiotic details.",
		zh:       "病史缺少既往肺病/免疫抑制/近期抗生素等关键信息。",
		fields:   []string{"history"},
	},
	"missing_spo2": {
		severity: domain.SeverityHigh,
		en:       "Oxygen saturation (SpO2) is missing; please provide or measure it.",
		zh:       "缺少血氧（SpO₂），建议补充或测量。",
		fields:   []string{"spo2"},
		vital:    true,
	},
	"missing_temp": {
		severity: domain.SeverityHigh,
		en:       "Body temperature is missing; please provide or measure it.",
		zh:       "缺少体温信息，建议补充或测量。",
		fields:   []string{"temperature"},
		vital:    true,
	},
	"missing_rr": {
		severity: domain.SeverityMedium,
		en:       "Respiratory rate is missing; please provide it.",
		zh:       "缺少呼吸频率，建议补充。",
		fields:   []string{"resp_rate"},
		vital:    true,
	},
	"missing_hr": {
		severity: domain.SeverityMedium,
		en:       "Heart rate is missing; please provide it.",
		zh:       "缺少心率，建议补充。",
		fields:   []string{"heart_rate"},
		vital:    true,
	},
	"audio_quality_low": {
		severity: domain.SeverityMedium,
		en:       "Audio quality is poor; re-record or switch to text input.",
		zh:       "音频质量较差，建议重录或改用文字输入。",
		fields:   []string{"audio"},
	},
	"image_quality_low": {
		severity: domain.SeverityMedium,
		en:       "Image quality is poor; retake the photo avoiding occlusion or blur.",
		zh:       "图像质量较差，建议重新拍摄避免遮挡或模糊。",
		fields:   []string{"image"},
	},
}

// Patient-mode note appended to vital-sign gaps.
const (
	vitalNoteEN = " (a nurse or doctor can measure this at the bedside)"
	vitalNoteZH = "（患者端可请护士/医生测量）"
)
