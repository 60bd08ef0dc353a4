// Package ensemble combines heterogeneous AI-detection signals into a
// single confidence-annotated verdict. The pipeline is: normalize each raw
// metric onto a common 0-100 AI-likelihood scale, combine the present
// metrics with length-adaptive weighting, and cross-check agreement between
// semantic metric families.
//
// Everything here is a pure computation over the input bag: no I/O, no
// shared state, safe for concurrent use. The weight and threshold tables
// are package-level constants fixed at build time.
package ensemble

// Evaluate runs the full ensemble over a raw metric bag. Missing metrics
// degrade the result gracefully rather than failing it; with an empty bag
// the verdict is a neutral 50 at confidence 0.
func Evaluate(raw RawMetrics, wordCount int) Result {
	normalized := NormalizeBag(raw)
	length := ClassifyLength(wordCount)

	comb := Combine(normalized, length)
	dis := AnalyzeAgreement(normalized)

	return Result{
		OverallScore:        comb.OverallScore,
		Confidence:          comb.Confidence,
		Interpretation:      comb.Interpretation,
		KeyIndicators:       comb.KeyIndicators,
		MetricsUsed:         comb.MetricsUsed,
		MetricsMissing:      comb.MetricsMissing,
		LengthCategory:      length,
		ContributingMetrics: comb.ContributingMetrics,
		GroupScores:         dis.GroupScores,
		AgreementStatus:     dis.Status,
		AgreementMessage:    dis.Message,
		OutlierGroups:       dis.OutlierGroups,
	}
}
