// Package textstats computes local statistical, linguistic, and readability
// metrics over raw text. All extractors work from a shared tokenized
// Document so the text is only split once per analysis.
package textstats

import (
	"regexp"
	"strings"

	"github.com/originlytics/originlytics/internal/ensemble"
)

// MinWords is the minimum word count required before any metric is
// emitted. Shorter inputs produce an empty bag and the ensemble reports
// them as insufficient data.
const MinWords = 50

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Document is a tokenized view of one input text.
type Document struct {
	Text      string
	Words     []string // lowercased word tokens
	Sentences []string // trimmed, non-empty sentences
}

// NewDocument tokenizes text into words and sentences.
func NewDocument(text string) *Document {
	text = strings.TrimSpace(text)

	words := strings.Fields(strings.ToLower(text))

	raw := sentenceSplitRe.Split(text, -1)
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	return &Document{Text: text, Words: words, Sentences: sentences}
}

// WordCount returns the number of word tokens in the document.
func (d *Document) WordCount() int {
	return len(d.Words)
}

// Extract runs every local extractor and returns the metrics it could
// compute on their native scales. Inputs under MinWords words yield an
// empty bag; individual extractors may also decline when their own data
// requirements are not met.
func Extract(text string) ensemble.RawMetrics {
	doc := NewDocument(text)
	raw := make(ensemble.RawMetrics)

	if doc.WordCount() < MinWords {
		return raw
	}

	put := func(name ensemble.MetricName, value float64, ok bool) {
		if ok {
			raw[name] = value
		}
	}

	v, ok := doc.Burstiness()
	put(ensemble.MetricBurstiness, v, ok)
	v, ok = doc.NgramEntropy(2)
	put(ensemble.MetricNgramEntropy, v, ok)
	v, ok = doc.SentenceLengthVariance()
	put(ensemble.MetricSentenceLengthVariance, v, ok)
	v, ok = doc.PunctuationUniformity()
	put(ensemble.MetricPunctuationUniformity, v, ok)
	v, ok = doc.CharacterIrregularities()
	put(ensemble.MetricCharacterIrregularities, v, ok)

	v, ok = doc.LexicalDiversity()
	put(ensemble.MetricLexicalDiversity, v, ok)
	v, ok = doc.SentenceStarterDiversity()
	put(ensemble.MetricSentenceStarterDiversity, v, ok)
	v, ok = doc.TransitionDensity()
	put(ensemble.MetricTransitionDensity, v, ok)
	v, ok = doc.PronounUsage()
	put(ensemble.MetricPronounUsage, v, ok)
	v, ok = doc.ContractionUsage()
	put(ensemble.MetricContractionUsage, v, ok)

	v, ok = doc.FleschReadingEase()
	put(ensemble.MetricFleschReadingEase, v, ok)
	v, ok = doc.FleschKincaidGrade()
	put(ensemble.MetricFleschKincaidGrade, v, ok)
	v, ok = doc.GunningFog()
	put(ensemble.MetricGunningFog, v, ok)

	return raw
}
