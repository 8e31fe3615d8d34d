// Package domain contains the core concepts of one assessment run.
// Everything here is created and discarded within a single run; nothing
// is shared across runs and nothing mutates after the run returns.
package domain

// ViewMode decides which fields the assembled result exposes.
type ViewMode string

const (
	ViewModeDoctor  ViewMode = "doctor"
	ViewModePatient ViewMode = "patient"
)

// RouteTag labels which modalities were supplied for a run.
type RouteTag string

const (
	RouteNone       RouteTag = "none"
	RouteAudioOnly  RouteTag = "audio_only"
	RouteImageOnly  RouteTag = "image_only"
	RouteAudioImage RouteTag = "audio_image"
)

// AssessmentRequest is the immutable input to a run.
// AudioRef and ImageRef are opaque references (paths, URIs) handed to the
// configured collaborators; the pipeline itself never opens them.
type AssessmentRequest struct {
	ViewMode   ViewMode `json:"view_mode" validate:"required,oneof=doctor patient"`
	PatientID  string   `json:"patient_id,omitempty"`
	Age        int      `json:"age,omitempty" validate:"omitempty,min=0,max=130"`
	Sex        string   `json:"sex,omitempty"`
	Chief      string   `json:"chief"`
	History    string   `json:"history"`
	InternPlan string   `json:"intern_plan,omitempty"`
	AudioRef   string   `json:"audio_ref,omitempty"`
	ImageRef   string   `json:"image_ref,omitempty"`
}

// ModalityAvailability is computed once from the request and read-only after.
type ModalityAvailability struct {
	HasAudio bool     `json:"has_audio"`
	HasImage bool     `json:"has_image"`
	RouteTag RouteTag `json:"route_tag"`
}

func Availability(req AssessmentRequest) ModalityAvailability {
	hasAudio := req.AudioRef != ""
	hasImage := req.ImageRef != ""
	return ModalityAvailability{
		HasAudio: hasAudio,
		HasImage: hasImage,
		RouteTag: routeTag(hasAudio, hasImage),
	}
}

func routeTag(hasAudio, hasImage bool) RouteTag {
	switch {
	case hasAudio && hasImage:
		return RouteAudioImage
	case hasAudio:
		return RouteAudioOnly
	case hasImage:
		return RouteImageOnly
	default:
		return RouteNone
	}
}
