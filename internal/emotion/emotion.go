// Package emotion scores the emotional texture of text against an
// NRC-style word-emotion association lexicon. Flat emotional texture is a
// strong indicator of generated text.
package emotion

import (
	_ "embed"
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

//go:embed lexicon.json
var lexiconJSON []byte

// lexicon maps a lowercased word to its emotion and sentiment labels.
var lexicon map[string][]string

func init() {
	if err := json.Unmarshal(lexiconJSON, &lexicon); err != nil {
		panic("emotion: corrupt embedded lexicon: " + err.Error())
	}
}

// The eight base emotions of the NRC model.
var baseEmotions = []string{
	"anger", "anticipation", "disgust", "fear",
	"joy", "sadness", "surprise", "trust",
}

// negationWords flip the sentiment of a lexicon hit within the following
// two words.
var negationWords = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nobody": {},
	"nothing": {}, "nowhere": {}, "hardly": {}, "barely": {}, "scarcely": {},
}

var wordRe = regexp.MustCompile(`\w+`)

// minWords is the minimum token count for a meaningful analysis.
const minWords = 5

// Analysis is the emotional profile of one text.
type Analysis struct {
	Emotions           map[string]float64 `json:"emotions"`
	Sentiment          map[string]float64 `json:"sentiment"`
	Variance           float64            `json:"emotionalVariance"`
	EmotionalWordRatio float64            `json:"emotionalWordRatio"`
	DominantEmotion    string             `json:"dominantEmotion"`
	AIIndicatorScore   float64            `json:"aiIndicatorScore"`
	Indicators         []string           `json:"indicators"`
	EmotionalWords     int                `json:"emotionalWords"`
	WordCount          int                `json:"wordCount"`
}

// Analyze profiles the text's emotional content. The second return is
// false when the text is too short to profile.
func Analyze(text string) (Analysis, bool) {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) < minWords {
		return Analysis{}, false
	}

	emotionCounts := make(map[string]int, len(baseEmotions))
	for _, e := range baseEmotions {
		emotionCounts[e] = 0
	}
	sentimentCounts := map[string]int{"positive": 0, "negative": 0}
	emotionalWords := 0

	for i, word := range words {
		labels, ok := lexicon[word]
		if !ok {
			continue
		}

		negated := false
		for j := max(0, i-2); j < i; j++ {
			if _, isNeg := negationWords[words[j]]; isNeg {
				negated = true
				break
			}
		}

		for _, label := range labels {
			switch {
			case label == "positive" && negated:
				sentimentCounts["negative"]++
			case label == "negative" && negated:
				sentimentCounts["positive"]++
			case label == "positive" || label == "negative":
				sentimentCounts[label]++
			case !negated:
				emotionCounts[label]++
			}
		}
		emotionalWords++
	}

	wordCount := len(words)
	emotions := make(map[string]float64, len(baseEmotions))
	for _, e := range baseEmotions {
		emotions[e] = float64(emotionCounts[e]) / float64(wordCount)
	}
	sentiment := map[string]float64{
		"positive": float64(sentimentCounts["positive"]) / float64(wordCount),
		"negative": float64(sentimentCounts["negative"]) / float64(wordCount),
	}

	analysis := Analysis{
		Emotions:           emotions,
		Sentiment:          sentiment,
		Variance:           emotionVariance(emotions),
		EmotionalWordRatio: float64(emotionalWords) / float64(wordCount),
		DominantEmotion:    dominantEmotion(emotionCounts),
		EmotionalWords:     emotionalWords,
		WordCount:          wordCount,
	}
	analysis.AIIndicatorScore, analysis.Indicators = flatnessScore(analysis, emotionCounts)

	return analysis, true
}

// emotionVariance is the population variance over the eight normalized
// emotion frequencies, 0 when no emotion fired at all.
func emotionVariance(emotions map[string]float64) float64 {
	peak := 0.0
	sum := 0.0
	for _, e := range baseEmotions {
		v := emotions[e]
		sum += v
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return 0
	}

	mean := sum / float64(len(baseEmotions))
	var variance float64
	for _, e := range baseEmotions {
		d := emotions[e] - mean
		variance += d * d
	}
	return variance / float64(len(baseEmotions))
}

func dominantEmotion(counts map[string]int) string {
	best := "neutral"
	bestCount := 0
	for _, e := range baseEmotions {
		if counts[e] > bestCount {
			best = e
			bestCount = counts[e]
		}
	}
	return best
}

// flatnessScore turns emotional flatness into an additive 0-100 AI
// indicator with the matching human-readable reasons.
func flatnessScore(a Analysis, emotionCounts map[string]int) (float64, []string) {
	var score float64
	indicators := make([]string, 0, 4)

	switch {
	case a.Variance < 0.0003:
		score += 35
		indicators = append(indicators, "Very low emotional variance")
	case a.Variance < 0.001:
		score += 20
		indicators = append(indicators, "Low emotional variance")
	}

	switch {
	case a.EmotionalWordRatio < 0.03:
		score += 30
		indicators = append(indicators, "Minimal emotional language")
	case a.EmotionalWordRatio < 0.05:
		score += 15
		indicators = append(indicators, "Low emotional language")
	}

	pos, neg := a.Sentiment["positive"], a.Sentiment["negative"]
	if math.Abs(pos-neg) < 0.01 && (pos > 0 || neg > 0) {
		score += 20
		indicators = append(indicators, "Perfectly balanced sentiment")
	}

	fired := false
	for _, e := range baseEmotions {
		if emotionCounts[e] > 0 {
			fired = true
			break
		}
	}
	if !fired {
		score += 15
		indicators = append(indicators, "No emotional content detected")
	}

	if score > 100 {
		score = 100
	}
	return score, indicators
}
