package ensemble

import (
	"fmt"
	"math"
	"sort"
)

const (
	// voteThreshold splits AI-like from human-like votes. Scores at exactly
	// the threshold vote human (strict greater-than).
	voteThreshold = 50.0
	// impactThreshold is the minimum deviation from neutral for a metric to
	// count as a contributing indicator.
	impactThreshold = 15.0

	shortWordLimit = 200
	longWordLimit  = 1000

	maxKeyIndicators = 3
	maxContributing  = 10
	neutralScore     = 50
)

// ClassifyLength buckets a word count into the adaptive-weighting category.
func ClassifyLength(wordCount int) LengthCategory {
	switch {
	case wordCount < shortWordLimit:
		return LengthShort
	case wordCount <= longWordLimit:
		return LengthMedium
	default:
		return LengthLong
	}
}

// Combination is the combiner's share of the ensemble result.
type Combination struct {
	OverallScore        int
	Confidence          int
	Interpretation      string
	KeyIndicators       []string
	MetricsUsed         int
	MetricsMissing      int
	ContributingMetrics []ContributingMetric
}

// Combine produces the headline score, the vote-agreement confidence, and
// the ranked explainability list from a normalized metric bag. Metrics
// absent from the bag contribute nothing to score or weight; an empty bag
// yields the maximally uncertain score of 50 at confidence 0.
func Combine(normalized map[MetricName]float64, length LengthCategory) Combination {
	var (
		totalScore  float64
		totalWeight float64
		aiVotes     int
		totalVotes  int
		missing     int
	)
	contributing := make([]ContributingMetric, 0, 8)

	// Fixed iteration order keeps the float summation, and therefore the
	// rounded score, identical across calls with the same bag.
	names := make([]MetricName, 0, len(baseWeights))
	for name := range baseWeights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, name := range names {
		score, present := normalized[name]
		if !present {
			missing++
			continue
		}

		weight, _ := effectiveWeight(name, length)
		totalScore += score * weight
		totalWeight += weight

		totalVotes++
		if score > voteThreshold {
			aiVotes++
		}

		if math.Abs(score-voteThreshold) > impactThreshold {
			impact := "Human-like"
			if score > voteThreshold {
				impact = "AI-like"
			}
			contributing = append(contributing, ContributingMetric{
				Name:            name,
				NormalizedScore: score,
				EffectiveWeight: weight,
				Impact:          impact,
			})
		}
	}

	overall := float64(neutralScore)
	if totalWeight > 0 {
		overall = totalScore / totalWeight
	}
	overallScore := int(math.Round(overall))

	confidence := 0
	if totalVotes > 0 {
		agreeing := totalVotes - aiVotes
		if overallScore > neutralScore {
			agreeing = aiVotes
		}
		confidence = int(math.Round(100 * float64(agreeing) / float64(totalVotes)))
	}

	// Rank by deviation magnitude; name as tie-break keeps output stable
	// across runs.
	sort.Slice(contributing, func(i, j int) bool {
		di := math.Abs(contributing[i].NormalizedScore - voteThreshold)
		dj := math.Abs(contributing[j].NormalizedScore - voteThreshold)
		if di != dj {
			return di > dj
		}
		return contributing[i].Name < contributing[j].Name
	})

	indicators := make([]string, 0, maxKeyIndicators)
	for _, cm := range contributing {
		if len(indicators) == maxKeyIndicators {
			break
		}
		direction := "low"
		if cm.NormalizedScore > voteThreshold {
			direction = "high"
		}
		indicators = append(indicators, fmt.Sprintf("%s: %s (%d/100)",
			displayNames[cm.Name], direction, int(math.Round(cm.NormalizedScore))))
	}

	if len(contributing) > maxContributing {
		contributing = contributing[:maxContributing]
	}

	return Combination{
		OverallScore:        overallScore,
		Confidence:          confidence,
		Interpretation:      interpret(overallScore, confidence),
		KeyIndicators:       indicators,
		MetricsUsed:         totalVotes,
		MetricsMissing:      missing,
		ContributingMetrics: contributing,
	}
}

// interpret renders the verdict from two independent threshold ladders.
func interpret(score, confidence int) string {
	var verdict string
	switch {
	case score >= 80:
		verdict = "Very likely AI-generated"
	case score >= 65:
		verdict = "Likely AI-generated"
	case score >= 45:
		verdict = "Uncertain - mixed signals"
	case score >= 30:
		verdict = "Likely human-written"
	default:
		verdict = "Very likely human-written"
	}

	var level string
	switch {
	case confidence >= 85:
		level = "very high"
	case confidence >= 70:
		level = "high"
	case confidence >= 55:
		level = "moderate"
	default:
		level = "low"
	}

	return fmt.Sprintf("%s (%s confidence)", verdict, level)
}
