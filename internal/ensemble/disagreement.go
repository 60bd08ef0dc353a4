package ensemble

import (
	"math"
	"sort"
)

const (
	stdDevUncertain = 20.0
	stdDevModerate  = 12.0
	outlierFactor   = 1.5
)

// AnalyzeAgreement measures whether the semantic metric families reach the
// same verdict. A single overall score can mask, say, statistical metrics
// screaming AI while linguistic metrics read human; surfacing that guards
// against false confidence on adversarial or edge-case text.
func AnalyzeAgreement(normalized map[MetricName]float64) Disagreement {
	sums := make(map[MetricGroup]float64)
	counts := make(map[MetricGroup]int)
	for name, score := range normalized {
		group, ok := metricGroups[name]
		if !ok {
			continue
		}
		sums[group] += score
		counts[group]++
	}

	// Groups with no present members are omitted entirely, never zero-filled.
	groupScores := make(map[MetricGroup]float64, len(sums))
	for group, sum := range sums {
		groupScores[group] = sum / float64(counts[group])
	}

	if len(groupScores) < 2 {
		return Disagreement{
			GroupScores:   groupScores,
			Status:        AgreementInsufficientData,
			Message:       "Too few metric groups available to assess agreement",
			OutlierGroups: []MetricGroup{},
		}
	}

	var mean float64
	for _, score := range groupScores {
		mean += score
	}
	mean /= float64(len(groupScores))

	var variance float64
	for _, score := range groupScores {
		d := score - mean
		variance += d * d
	}
	variance /= float64(len(groupScores))
	stdDev := math.Sqrt(variance)

	switch {
	case stdDev > stdDevUncertain:
		outliers := make([]MetricGroup, 0, len(groupScores))
		for group, score := range groupScores {
			if math.Abs(score-mean) > outlierFactor*stdDev {
				outliers = append(outliers, group)
			}
		}
		sort.Slice(outliers, func(i, j int) bool { return outliers[i] < outliers[j] })
		return Disagreement{
			GroupScores:   groupScores,
			Status:        AgreementUncertain,
			Message:       "Metric groups disagree strongly - manual review recommended",
			OutlierGroups: outliers,
		}
	case stdDev > stdDevModerate:
		return Disagreement{
			GroupScores:   groupScores,
			Status:        AgreementModerateDisagreement,
			Message:       "Some disagreement between metric groups",
			OutlierGroups: []MetricGroup{},
		}
	default:
		return Disagreement{
			GroupScores:   groupScores,
			Status:        AgreementConfident,
			Message:       "Metric groups are in agreement",
			OutlierGroups: []MetricGroup{},
		}
	}
}
