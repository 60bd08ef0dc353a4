package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		metric   MetricName
		raw      float64
		expected float64
	}{
		{
			name:     "perplexity passes through on its native scale",
			metric:   MetricPerplexity,
			raw:      90,
			expected: 90,
		},
		{
			name:     "lexical diversity inverts - high diversity reads human",
			metric:   MetricLexicalDiversity,
			raw:      20,
			expected: 80,
		},
		{
			name:     "sentence starter diversity inverts",
			metric:   MetricSentenceStarterDiversity,
			raw:      100,
			expected: 0,
		},
		{
			name:     "transition density maps percent-of-words range",
			metric:   MetricTransitionDensity,
			raw:      2.0,
			expected: 50,
		},
		{
			name:     "pronoun usage inverts - absent pronouns read AI",
			metric:   MetricPronounUsage,
			raw:      0,
			expected: 100,
		},
		{
			name:     "emotional variance inverts over its tiny native range",
			metric:   MetricEmotionalVariance,
			raw:      0.0001,
			expected: 95,
		},
		{
			name:     "flesch reading ease scores deviation from the human norm",
			metric:   MetricFleschReadingEase,
			raw:      80,
			expected: 60,
		},
		{
			name:     "flesch at the human norm is neutral-low",
			metric:   MetricFleschReadingEase,
			raw:      50,
			expected: 0,
		},
		{
			name:     "out-of-range raw input clamps high",
			metric:   MetricBurstiness,
			raw:      250,
			expected: 100,
		},
		{
			name:     "out-of-range raw input clamps low",
			metric:   MetricNgramEntropy,
			raw:      -40,
			expected: 0,
		},
		{
			name:     "inverted metric clamps after inversion",
			metric:   MetricEmotionalVariance,
			raw:      0.05,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.metric, tt.raw)
			assert.True(t, ok)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestNormalizeUnknownMetric(t *testing.T) {
	_, ok := Normalize(MetricName("word_count"), 123)
	assert.False(t, ok, "metrics outside the rule table should be rejected, not scored")
}

func TestNormalizeBag(t *testing.T) {
	raw := RawMetrics{
		MetricPerplexity:       90,
		MetricLexicalDiversity: 20,
		MetricName("unknown"):  42,
	}

	normalized := NormalizeBag(raw)

	assert.Len(t, normalized, 2, "unknown metrics are dropped silently")
	assert.InDelta(t, 90, normalized[MetricPerplexity], 1e-9)
	assert.InDelta(t, 80, normalized[MetricLexicalDiversity], 1e-9)
	_, present := normalized[MetricBurstiness]
	assert.False(t, present, "absence must propagate, never default to a value")
}

func TestNormalizeBagRange(t *testing.T) {
	// Every rule must land in [0,100] across its whole input space,
	// including values far outside the native range.
	for name := range normRules {
		for _, raw := range []float64{-1e6, -1, 0, 0.001, 0.5, 1, 9, 50, 99, 100, 1e6} {
			score, ok := Normalize(name, raw)
			assert.True(t, ok)
			assert.GreaterOrEqual(t, score, 0.0, "metric %s raw %f", name, raw)
			assert.LessOrEqual(t, score, 100.0, "metric %s raw %f", name, raw)
		}
	}
}

func TestRuleTableCoversWeightTable(t *testing.T) {
	for name := range baseWeights {
		_, ok := normRules[name]
		assert.True(t, ok, "weighted metric %s has no normalization rule", name)
		_, ok = metricGroups[name]
		assert.True(t, ok, "weighted metric %s belongs to no group", name)
		_, ok = displayNames[name]
		assert.True(t, ok, "weighted metric %s has no display name", name)
	}
}
