package fusion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ward-lab/domain"
	"ward-lab/fusion"
)

func Test_PickPrimaryBasis_picks_mixed_when_both_modalities_are_strong(t *testing.T) {
	basis := fusion.PickPrimaryBasis(true, true, 0.8, 0.7, false)

	assert.Equal(t, domain.BasisMixed, basis)
}

func Test_PickPrimaryBasis_prefers_the_better_modality_when_one_is_weak(t *testing.T) {
	assert.Equal(t, domain.BasisImage, fusion.PickPrimaryBasis(true, true, 0.3, 0.9, false))
	assert.Equal(t, domain.BasisAudio, fusion.PickPrimaryBasis(true, true, 0.9, 0.3, false))
}

func Test_PickPrimaryBasis_breaks_quality_ties_toward_audio(t *testing.T) {
	basis := fusion.PickPrimaryBasis(true, true, 0.5, 0.5, false)

	assert.Equal(t, domain.BasisAudio, basis)
}

func Test_PickPrimaryBasis_keeps_a_single_usable_modality(t *testing.T) {
	assert.Equal(t, domain.BasisAudio, fusion.PickPrimaryBasis(true, false, 0.35, 0, false))
	assert.Equal(t, domain.BasisImage, fusion.PickPrimaryBasis(false, true, 0, 0.5, false))
}

func Test_PickPrimaryBasis_falls_back_when_the_only_modality_is_unusable(t *testing.T) {
	assert.Equal(t, domain.BasisRAG, fusion.PickPrimaryBasis(true, false, 0.1, 0, true))
	assert.Equal(t, domain.BasisClinical, fusion.PickPrimaryBasis(true, false, 0.1, 0, false))
	assert.Equal(t, domain.BasisRAG, fusion.PickPrimaryBasis(false, true, 0, 0.2, true))
}

func Test_PickPrimaryBasis_without_any_modality_uses_rag_then_clinical(t *testing.T) {
	assert.Equal(t, domain.BasisRAG, fusion.PickPrimaryBasis(false, false, 0, 0, true))
	assert.Equal(t, domain.BasisClinical, fusion.PickPrimaryBasis(false, false, 0, 0, false))
}
