package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeAgreementConfident(t *testing.T) {
	// Three populated groups with means 80, 82, 78: stddev ~1.6.
	normalized := map[MetricName]float64{
		MetricPerplexity:            80,
		MetricEmotionalVariance:     82,
		MetricVocabularyNaturalness: 78,
	}

	result := AnalyzeAgreement(normalized)

	assert.Equal(t, AgreementConfident, result.Status)
	assert.Len(t, result.GroupScores, 3)
	assert.InDelta(t, 80, result.GroupScores[GroupModelBased], 1e-9)
	assert.InDelta(t, 82, result.GroupScores[GroupEmotional], 1e-9)
	assert.InDelta(t, 78, result.GroupScores[GroupAIEstimated], 1e-9)
	assert.Empty(t, result.OutlierGroups)
}

func TestAnalyzeAgreementUncertain(t *testing.T) {
	// Group means 10, 50, 90: stddev ~32.7, well past the uncertainty bar.
	// With three groups no single mean can deviate by more than 1.5 sigma,
	// so the outlier list stays empty.
	normalized := map[MetricName]float64{
		MetricPerplexity:            10,
		MetricEmotionalVariance:     50,
		MetricVocabularyNaturalness: 90,
	}

	result := AnalyzeAgreement(normalized)

	assert.Equal(t, AgreementUncertain, result.Status)
	assert.Contains(t, result.Message, "manual review")
	assert.Empty(t, result.OutlierGroups)
}

func TestAnalyzeAgreementFlagsOutlierGroup(t *testing.T) {
	// Model-based at 90 against four groups clustered near 30: the lone
	// dissenter deviates past 1.5 sigma and gets flagged.
	normalized := map[MetricName]float64{
		MetricPerplexity:            90,
		MetricBurstiness:            30,
		MetricLexicalDiversity:      28,
		MetricEmotionalVariance:     32,
		MetricVocabularyNaturalness: 30,
	}

	result := AnalyzeAgreement(normalized)

	assert.Equal(t, AgreementUncertain, result.Status)
	assert.Equal(t, []MetricGroup{GroupModelBased}, result.OutlierGroups)
}

func TestAnalyzeAgreementModerate(t *testing.T) {
	// Means 40, 60, 55: stddev ~8.5 is confident; push to 35, 65, 50 for
	// stddev ~12.2, just over the moderate bar.
	normalized := map[MetricName]float64{
		MetricPerplexity:            35,
		MetricEmotionalVariance:     65,
		MetricVocabularyNaturalness: 50,
	}

	result := AnalyzeAgreement(normalized)

	assert.Equal(t, AgreementModerateDisagreement, result.Status)
	assert.Empty(t, result.OutlierGroups)
}

func TestAnalyzeAgreementGroupMeansOverPresentMembersOnly(t *testing.T) {
	// Two of five statistical metrics present: the group mean averages the
	// two, the absent three contribute nothing.
	normalized := map[MetricName]float64{
		MetricBurstiness:   80,
		MetricNgramEntropy: 60,
		MetricPerplexity:   70,
	}

	result := AnalyzeAgreement(normalized)

	assert.InDelta(t, 70, result.GroupScores[GroupStatistical], 1e-9)
	_, present := result.GroupScores[GroupLinguistic]
	assert.False(t, present, "empty groups are omitted, not zero-filled")
}

func TestAnalyzeAgreementInsufficientData(t *testing.T) {
	tests := []struct {
		name       string
		normalized map[MetricName]float64
		groups     int
	}{
		{
			name:       "no metrics at all",
			normalized: map[MetricName]float64{},
			groups:     0,
		},
		{
			name: "single populated group",
			normalized: map[MetricName]float64{
				MetricBurstiness:   80,
				MetricNgramEntropy: 90,
			},
			groups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeAgreement(tt.normalized)

			assert.Equal(t, AgreementInsufficientData, result.Status)
			assert.Len(t, result.GroupScores, tt.groups)
		})
	}
}
