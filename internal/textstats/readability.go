package textstats

import "strings"

// FleschReadingEase returns the Flesch reading-ease score on its native
// scale, roughly 0-100 with higher meaning easier to read. Requires at
// least one sentence.
func (d *Document) FleschReadingEase() (float64, bool) {
	words, sentences, syllables, ok := d.readabilityCounts()
	if !ok {
		return 0, false
	}
	return 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words), true
}

// FleschKincaidGrade returns the Flesch-Kincaid US grade level.
func (d *Document) FleschKincaidGrade() (float64, bool) {
	words, sentences, syllables, ok := d.readabilityCounts()
	if !ok {
		return 0, false
	}
	return 0.39*(words/sentences) + 11.8*(syllables/words) - 15.59, true
}

// GunningFog returns the Gunning fog index. Words of three or more
// syllables count as complex.
func (d *Document) GunningFog() (float64, bool) {
	words, sentences, _, ok := d.readabilityCounts()
	if !ok {
		return 0, false
	}

	complexWords := 0
	for _, w := range d.Words {
		if countSyllables(strings.Trim(w, wordTrimCutset)) >= 3 {
			complexWords++
		}
	}

	return 0.4 * (words/sentences + 100*float64(complexWords)/words), true
}

func (d *Document) readabilityCounts() (words, sentences, syllables float64, ok bool) {
	if len(d.Words) == 0 || len(d.Sentences) == 0 {
		return 0, 0, 0, false
	}

	total := 0
	for _, w := range d.Words {
		total += countSyllables(strings.Trim(w, wordTrimCutset))
	}

	return float64(len(d.Words)), float64(len(d.Sentences)), float64(total), true
}

// countSyllables estimates syllables by counting vowel groups, discounting
// a trailing silent e. Every word counts as at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	if word == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := isVowel(r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	if count > 1 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") {
		count--
	}

	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
