package textstats

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

var (
	runWhitespaceRe = regexp.MustCompile(`\s{3,}`)
	punctMarkRe     = regexp.MustCompile(`[,.!?;:]`)
)

// Burstiness scores the coefficient of variation of sentence lengths.
// Uniform sentence lengths are the AI signal, so lower variation maps to a
// higher score. Returns 0-100; false with fewer than two sentences.
func (d *Document) Burstiness() (float64, bool) {
	if len(d.Sentences) < 2 {
		return 0, false
	}

	lengths := d.sentenceWordLengths()
	mean, stdDev := meanAndSampleStdDev(lengths)
	if mean == 0 {
		return 0, false
	}

	cv := stdDev / mean
	// Human writing typically lands at CV 0.4-0.8, AI at 0.2-0.4.
	switch {
	case cv > 0.6:
		return 20, true
	case cv > 0.4:
		return 40, true
	case cv > 0.2:
		return 60, true
	default:
		return 80, true
	}
}

// NgramEntropy scores the Shannon entropy of word n-grams, inverted so that
// repetitive word combinations score high. Returns 0-100; false when the
// text has fewer than n words.
func (d *Document) NgramEntropy(n int) (float64, bool) {
	if len(d.Words) < n {
		return 0, false
	}

	freq := make(map[string]int)
	total := len(d.Words) - n + 1
	for i := 0; i < total; i++ {
		freq[strings.Join(d.Words[i:i+n], " ")]++
	}

	var entropy float64
	for _, count := range freq {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}

	maxEntropy := 1.0
	if total > 1 {
		maxEntropy = math.Log2(float64(total))
	}

	normalized := 50.0
	if maxEntropy > 0 {
		normalized = entropy / maxEntropy * 100
	}

	return clampScore(100 - normalized), true
}

// SentenceLengthVariance scores the mean-relative variance of sentence
// lengths. Low relative variance reads AI-like. Returns 0-100; false with
// fewer than three sentences.
func (d *Document) SentenceLengthVariance() (float64, bool) {
	if len(d.Sentences) < 3 {
		return 0, false
	}

	lengths := d.sentenceWordLengths()
	mean, stdDev := meanAndSampleStdDev(lengths)
	if mean == 0 {
		return 0, false
	}

	relative := stdDev * stdDev / (mean * mean)
	// Human text sits around 0.1-0.4 relative variance, AI around 0.02-0.15.
	switch {
	case relative > 0.3:
		return 20, true
	case relative > 0.15:
		return 40, true
	case relative > 0.08:
		return 60, true
	default:
		return 80, true
	}
}

// PunctuationUniformity scores how uniformly the text leans on its
// punctuation marks, via the entropy of the mark distribution. Returns
// 0-100; false with fewer than ten marks.
func (d *Document) PunctuationUniformity() (float64, bool) {
	marks := punctMarkRe.FindAllString(d.Text, -1)
	if len(marks) < 10 {
		return 0, false
	}

	freq := make(map[string]int)
	for _, m := range marks {
		freq[m]++
	}

	total := float64(len(marks))
	var entropy float64
	for _, count := range freq {
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}

	ratio := 50.0
	if maxEntropy := math.Log2(float64(len(freq))); maxEntropy > 0 {
		ratio = entropy / maxEntropy * 100
	}

	return clampScore(100 - ratio), true
}

// CharacterIrregularities scores encoding artifacts and unusual character
// patterns additively. Returns 0-100; always available.
func (d *Document) CharacterIrregularities() (float64, bool) {
	var score float64

	if runWhitespaceRe.MatchString(d.Text) {
		score += 20
	}
	if hasRunOfLength(d.Text, 5) {
		score += 20
	}

	runes := []rune(d.Text)
	if len(runes) > 0 {
		nonASCII := 0
		punct := 0
		for _, r := range runes {
			if r > unicode.MaxASCII {
				nonASCII++
			}
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '_' {
				punct++
			}
		}
		if float64(nonASCII)/float64(len(runes)) > 0.1 {
			score += 15
		}
		ratio := float64(punct) / float64(len(runes))
		if ratio > 0.15 || ratio < 0.02 {
			score += 15
		}
	}

	return clampScore(score), true
}

// hasRunOfLength reports whether any rune repeats n or more times in a row.
func hasRunOfLength(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func (d *Document) sentenceWordLengths() []float64 {
	lengths := make([]float64, len(d.Sentences))
	for i, s := range d.Sentences {
		lengths[i] = float64(len(strings.Fields(s)))
	}
	return lengths
}

func meanAndSampleStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	if len(values) < 2 {
		return mean, 0
	}

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)-1))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
