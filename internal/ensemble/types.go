package ensemble

// MetricName identifies one detection signal in the fixed metric set.
type MetricName string

const (
	MetricPerplexity               MetricName = "perplexity"
	MetricBurstiness               MetricName = "burstiness"
	MetricNgramEntropy             MetricName = "ngram_entropy"
	MetricSentenceLengthVariance   MetricName = "sentence_length_variance"
	MetricPunctuationUniformity    MetricName = "punctuation_uniformity"
	MetricCharacterIrregularities  MetricName = "character_irregularities"
	MetricLexicalDiversity         MetricName = "lexical_diversity"
	MetricSentenceStarterDiversity MetricName = "sentence_starter_diversity"
	MetricTransitionDensity        MetricName = "transition_density"
	MetricPronounUsage             MetricName = "pronoun_usage"
	MetricContractionUsage         MetricName = "contraction_usage"
	MetricFleschReadingEase        MetricName = "flesch_reading_ease"
	MetricFleschKincaidGrade       MetricName = "flesch_kincaid_grade"
	MetricGunningFog               MetricName = "gunning_fog"
	MetricEmotionalVariance        MetricName = "emotional_variance"
	MetricVocabularyNaturalness    MetricName = "vocabulary_naturalness"
	MetricSentenceFlow             MetricName = "sentence_flow"
	MetricOriginality              MetricName = "originality"
)

// MetricGroup is a semantic family of metrics used by the disagreement analyzer.
type MetricGroup string

const (
	GroupStatistical MetricGroup = "statistical"
	GroupLinguistic  MetricGroup = "linguistic"
	GroupReadability MetricGroup = "readability"
	GroupModelBased  MetricGroup = "model_based"
	GroupEmotional   MetricGroup = "emotional"
	GroupAIEstimated MetricGroup = "ai_estimated"
)

// RawMetrics maps metric names to raw values in each metric's native scale.
// A missing key means the signal was unavailable for this input; absence is
// never encoded as a sentinel value.
type RawMetrics map[MetricName]float64

// LengthCategory buckets the analyzed text by word count for adaptive weighting.
type LengthCategory string

const (
	LengthShort  LengthCategory = "short"
	LengthMedium LengthCategory = "medium"
	LengthLong   LengthCategory = "long"
)

// AgreementStatus classifies how well the metric groups agree with each other.
type AgreementStatus string

const (
	AgreementConfident            AgreementStatus = "confident"
	AgreementModerateDisagreement AgreementStatus = "moderate_disagreement"
	AgreementUncertain            AgreementStatus = "uncertain"
	AgreementInsufficientData     AgreementStatus = "insufficient_data"
)

// ContributingMetric records one metric's influence on the overall score.
// Only metrics deviating from the neutral 50 by more than the impact
// threshold qualify.
type ContributingMetric struct {
	Name            MetricName `json:"name"`
	NormalizedScore float64    `json:"normalized_score"`
	EffectiveWeight float64    `json:"effective_weight"`
	Impact          string     `json:"impact"` // "AI-like" or "Human-like"
}

// Disagreement is the output of the cross-group agreement analysis.
type Disagreement struct {
	GroupScores   map[MetricGroup]float64 `json:"group_scores"`
	Status        AgreementStatus         `json:"status"`
	Message       string                  `json:"message"`
	OutlierGroups []MetricGroup           `json:"outlier_groups"`
}

// Result is the full ensemble verdict. It is fully derived from its inputs,
// carries no identity, and is never mutated after construction.
type Result struct {
	OverallScore        int                     `json:"overall_score"`
	Confidence          int                     `json:"confidence"`
	Interpretation      string                  `json:"interpretation"`
	KeyIndicators       []string                `json:"key_indicators"`
	MetricsUsed         int                     `json:"metrics_used"`
	MetricsMissing      int                     `json:"metrics_missing"`
	LengthCategory      LengthCategory          `json:"length_category"`
	ContributingMetrics []ContributingMetric    `json:"contributing_metrics"`
	GroupScores         map[MetricGroup]float64 `json:"group_scores"`
	AgreementStatus     AgreementStatus         `json:"agreement_status"`
	AgreementMessage    string                  `json:"agreement_message"`
	OutlierGroups       []MetricGroup           `json:"outlier_groups"`
}
