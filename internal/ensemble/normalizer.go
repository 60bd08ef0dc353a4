package ensemble

import "math"

type ruleKind int

const (
	// ruleLinear maps [min,max] linearly onto [0,100].
	ruleLinear ruleKind = iota
	// ruleDeviation scores the absolute deviation from a center value,
	// scaled; used for readability metrics where both extremes are AI-like.
	ruleDeviation
)

// normRule describes how one metric's native scale maps onto the common
// 0-100 AI-likelihood scale. invert flips the direction for metrics where
// a low raw value is the AI-like signal.
type normRule struct {
	kind     ruleKind
	min, max float64
	center   float64
	scale    float64
	invert   bool
}

// Per-metric normalization rules. This table is fixed; it is part of the
// detection model, not configuration.
var normRules = map[MetricName]normRule{
	MetricPerplexity:              {kind: ruleLinear, min: 0, max: 100},
	MetricBurstiness:              {kind: ruleLinear, min: 0, max: 100},
	MetricNgramEntropy:            {kind: ruleLinear, min: 0, max: 100},
	MetricSentenceLengthVariance:  {kind: ruleLinear, min: 0, max: 100},
	MetricPunctuationUniformity:   {kind: ruleLinear, min: 0, max: 100},
	MetricCharacterIrregularities: {kind: ruleLinear, min: 0, max: 100},

	// High diversity reads human; both are percentages.
	MetricLexicalDiversity:         {kind: ruleLinear, min: 0, max: 100, invert: true},
	MetricSentenceStarterDiversity: {kind: ruleLinear, min: 0, max: 100, invert: true},

	// Native scale is percent of words; 4%+ transitional phrases is saturated AI.
	MetricTransitionDensity: {kind: ruleLinear, min: 0, max: 4},
	// First-person pronouns and contractions read human; 2%+ saturates.
	MetricPronounUsage:     {kind: ruleLinear, min: 0, max: 2, invert: true},
	MetricContractionUsage: {kind: ruleLinear, min: 0, max: 2, invert: true},

	// Readability scores are AI-like at either extreme: distance from the
	// human norm is the signal.
	MetricFleschReadingEase:  {kind: ruleDeviation, center: 50, scale: 2},
	MetricFleschKincaidGrade: {kind: ruleDeviation, center: 9, scale: 12.5},
	MetricGunningFog:         {kind: ruleDeviation, center: 10, scale: 10},

	// Flat emotional texture is the AI signal; human text sits well above
	// 0.002 variance.
	MetricEmotionalVariance: {kind: ruleLinear, min: 0, max: 0.002, invert: true},

	MetricVocabularyNaturalness: {kind: ruleLinear, min: 0, max: 100},
	MetricSentenceFlow:          {kind: ruleLinear, min: 0, max: 100},
	MetricOriginality:           {kind: ruleLinear, min: 0, max: 100},
}

// Normalize maps a raw metric value onto the common 0-100 AI-likelihood
// scale, where 100 always means strongly AI-generated. The second return is
// false for metric names outside the fixed rule table.
func Normalize(name MetricName, raw float64) (float64, bool) {
	rule, ok := normRules[name]
	if !ok {
		return 0, false
	}

	var score float64
	switch rule.kind {
	case ruleDeviation:
		score = math.Abs(raw-rule.center) * rule.scale
	default:
		span := rule.max - rule.min
		if span <= 0 {
			return 0, false
		}
		score = (raw - rule.min) / span * 100
	}

	if rule.invert {
		score = 100 - score
	}
	return clamp(score, 0, 100), true
}

// NormalizeBag normalizes every available metric in the raw bag. Metrics
// missing from the bag stay missing in the output; unknown names are
// dropped. The result never contains values outside [0,100].
func NormalizeBag(raw RawMetrics) map[MetricName]float64 {
	normalized := make(map[MetricName]float64, len(raw))
	for name, value := range raw {
		if score, ok := Normalize(name, value); ok {
			normalized[name] = score
		}
	}
	return normalized
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
