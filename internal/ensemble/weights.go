package ensemble

// Base weights per metric, summing to 1.00 across the fixed metric set.
// The distribution follows five confidence tiers: the model-backed and
// core statistical signals (perplexity, burstiness, n-gram entropy) carry
// the most weight, followed by the remaining statistical signals, the
// linguistic markers, the readability suite, and the estimated markers.
var baseWeights = map[MetricName]float64{
	// high-confidence tier
	MetricPerplexity:   0.14,
	MetricBurstiness:   0.10,
	MetricNgramEntropy: 0.08,

	// statistical tier
	MetricSentenceLengthVariance:  0.06,
	MetricPunctuationUniformity:   0.05,
	MetricCharacterIrregularities: 0.04,

	// linguistic tier
	MetricLexicalDiversity:         0.07,
	MetricSentenceStarterDiversity: 0.05,
	MetricTransitionDensity:        0.05,
	MetricPronounUsage:             0.04,
	MetricContractionUsage:         0.03,

	// readability tier
	MetricFleschReadingEase:  0.05,
	MetricFleschKincaidGrade: 0.03,
	MetricGunningFog:         0.03,

	// emotional / estimated tier
	MetricEmotionalVariance:     0.06,
	MetricVocabularyNaturalness: 0.04,
	MetricSentenceFlow:          0.04,
	MetricOriginality:           0.04,
}

// Sparse per-length multipliers merged multiplicatively over the base
// weights at lookup time. Metrics not listed keep their base weight
// unchanged (implicit 1.0). Short texts carry too few sentences for
// variance-style signals to be reliable, so vocabulary signals take over;
// long texts are where uniformity patterns become most telling.
var lengthMultipliers = map[LengthCategory]map[MetricName]float64{
	LengthShort: {
		MetricLexicalDiversity:       1.5,
		MetricBurstiness:             0.7,
		MetricSentenceLengthVariance: 0.7,
		MetricNgramEntropy:           0.8,
	},
	LengthMedium: {},
	LengthLong: {
		MetricBurstiness:             1.3,
		MetricNgramEntropy:           1.2,
		MetricSentenceLengthVariance: 1.1,
		MetricPerplexity:             1.1,
	},
}

// metricGroups partitions the fixed metric set into six semantic families.
var metricGroups = map[MetricName]MetricGroup{
	MetricBurstiness:              GroupStatistical,
	MetricNgramEntropy:            GroupStatistical,
	MetricSentenceLengthVariance:  GroupStatistical,
	MetricPunctuationUniformity:   GroupStatistical,
	MetricCharacterIrregularities: GroupStatistical,

	MetricLexicalDiversity:         GroupLinguistic,
	MetricSentenceStarterDiversity: GroupLinguistic,
	MetricTransitionDensity:        GroupLinguistic,
	MetricPronounUsage:             GroupLinguistic,
	MetricContractionUsage:         GroupLinguistic,

	MetricFleschReadingEase:  GroupReadability,
	MetricFleschKincaidGrade: GroupReadability,
	MetricGunningFog:         GroupReadability,

	MetricPerplexity: GroupModelBased,

	MetricEmotionalVariance: GroupEmotional,

	MetricVocabularyNaturalness: GroupAIEstimated,
	MetricSentenceFlow:          GroupAIEstimated,
	MetricOriginality:           GroupAIEstimated,
}

// displayNames are the human-readable labels used in key indicators.
var displayNames = map[MetricName]string{
	MetricPerplexity:               "Perplexity",
	MetricBurstiness:               "Burstiness",
	MetricNgramEntropy:             "N-gram Entropy",
	MetricSentenceLengthVariance:   "Sentence Length Variance",
	MetricPunctuationUniformity:    "Punctuation Uniformity",
	MetricCharacterIrregularities:  "Character Irregularities",
	MetricLexicalDiversity:         "Lexical Diversity",
	MetricSentenceStarterDiversity: "Sentence Starter Diversity",
	MetricTransitionDensity:        "Transition Density",
	MetricPronounUsage:             "Pronoun Usage",
	MetricContractionUsage:         "Contraction Usage",
	MetricFleschReadingEase:        "Flesch Reading Ease",
	MetricFleschKincaidGrade:       "Flesch-Kincaid Grade",
	MetricGunningFog:               "Gunning Fog",
	MetricEmotionalVariance:        "Emotional Variance",
	MetricVocabularyNaturalness:    "Vocabulary Naturalness",
	MetricSentenceFlow:             "Sentence Flow",
	MetricOriginality:              "Originality",
}

// effectiveWeight returns the base weight adjusted for the length category.
// Metrics outside the fixed weight table have no effective weight.
func effectiveWeight(name MetricName, length LengthCategory) (float64, bool) {
	base, ok := baseWeights[name]
	if !ok {
		return 0, false
	}
	if mult, ok := lengthMultipliers[length][name]; ok {
		return base * mult, true
	}
	return base, true
}
