// Package fusion combines per-modality signals into a single view:
// which evidence source to lean on, and a fixed-format cross-modal
// summary handed to the reasoning prompts.
package fusion

import "ward-lab/domain"

const (
	mixedThreshold  = 0.6
	usableThreshold = 0.35
)

// PickPrimaryBasis resolves the evidentiary basis from modality
// availability, quality scores and retrieval usage. The table is
// deterministic; ties between equal audio and image quality go to audio.
func PickPrimaryBasis(hasAudio, hasImage bool, audioQ, imageQ float64, ragUsed bool) domain.Basis {
	if hasAudio && hasImage {
		if audioQ >= mixedThreshold && imageQ >= mixedThreshold {
			return domain.BasisMixed
		}
		if audioQ >= imageQ {
			return domain.BasisAudio
		}
		return domain.BasisImage
	}

	if hasAudio {
		if audioQ >= usableThreshold {
			return domain.BasisAudio
		}
		return fallbackBasis(ragUsed)
	}
	if hasImage {
		if imageQ >= usableThreshold {
			return domain.BasisImage
		}
		return fallbackBasis(ragUsed)
	}
	return fallbackBasis(ragUsed)
}

func fallbackBasis(ragUsed bool) domain.Basis {
	if ragUsed {
		return domain.BasisRAG
	}
	return domain.BasisClinical
}
