package textstats

import "strings"

var personalPronouns = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "mine": {}, "myself": {},
	"we": {}, "us": {}, "our": {}, "ours": {}, "ourselves": {},
}

var transitionWords = map[string]struct{}{
	"furthermore": {}, "moreover": {}, "additionally": {}, "consequently": {},
	"therefore": {}, "thus": {}, "hence": {}, "accordingly": {}, "nonetheless": {},
	"nevertheless": {}, "subsequently": {}, "specifically": {}, "particularly": {},
	"essentially": {}, "fundamentally": {}, "significantly": {}, "notably": {},
}

var contractionSuffixes = []string{"n't", "'ll", "'ve", "'re", "'m", "'d"}

const wordTrimCutset = ".,!?;:\"'()[]"

// LexicalDiversity returns the type-token ratio as a percentage. Repetitive
// vocabulary, common in generated text, drives the ratio down.
func (d *Document) LexicalDiversity() (float64, bool) {
	if len(d.Words) == 0 {
		return 0, false
	}

	unique := make(map[string]struct{}, len(d.Words))
	for _, w := range d.Words {
		unique[strings.Trim(w, wordTrimCutset)] = struct{}{}
	}
	delete(unique, "")

	return float64(len(unique)) / float64(len(d.Words)) * 100, true
}

// SentenceStarterDiversity returns the share of distinct first words across
// sentences as a percentage. Generated text tends to reopen sentences the
// same way. Requires more than three sentences.
func (d *Document) SentenceStarterDiversity() (float64, bool) {
	if len(d.Sentences) <= 3 {
		return 0, false
	}

	starters := make(map[string]struct{}, len(d.Sentences))
	counted := 0
	for _, s := range d.Sentences {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			continue
		}
		starters[strings.Trim(strings.ToLower(fields[0]), wordTrimCutset)] = struct{}{}
		counted++
	}
	if counted == 0 {
		return 0, false
	}

	return float64(len(starters)) / float64(counted) * 100, true
}

// TransitionDensity returns the percentage of words drawn from a fixed set
// of formal transitional phrases. Above roughly 2% reads AI-like; the scale
// saturates at 4%.
func (d *Document) TransitionDensity() (float64, bool) {
	return d.wordSetPercent(transitionWords)
}

// PronounUsage returns the percentage of first-person pronouns. Their
// absence is the AI signal.
func (d *Document) PronounUsage() (float64, bool) {
	return d.wordSetPercent(personalPronouns)
}

// ContractionUsage returns contraction occurrences per hundred words.
// Generated text rarely contracts.
func (d *Document) ContractionUsage() (float64, bool) {
	if len(d.Words) == 0 {
		return 0, false
	}

	count := 0
	for _, w := range d.Words {
		for _, suffix := range contractionSuffixes {
			if strings.Contains(w, suffix) {
				count++
				break
			}
		}
	}

	return float64(count) / float64(len(d.Words)) * 100, true
}

func (d *Document) wordSetPercent(set map[string]struct{}) (float64, bool) {
	if len(d.Words) == 0 {
		return 0, false
	}

	count := 0
	for _, w := range d.Words {
		if _, ok := set[strings.Trim(w, wordTrimCutset)]; ok {
			count++
		}
	}

	return float64(count) / float64(len(d.Words)) * 100, true
}
