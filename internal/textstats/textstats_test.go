package textstats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/originlytics/originlytics/internal/ensemble"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("The cat sat. The dog ran! Did it rain?")

	assert.Equal(t, 9, doc.WordCount())
	assert.Equal(t, "the", doc.Words[0])
	require.Len(t, doc.Sentences, 3)
	assert.Equal(t, "The cat sat", doc.Sentences[0])
	assert.Equal(t, "Did it rain", doc.Sentences[2])
}

func TestExtractShortTextYieldsNothing(t *testing.T) {
	raw := Extract("Too short to say anything useful about.")

	assert.Empty(t, raw)
}

func TestExtractLongText(t *testing.T) {
	text := strings.Repeat("The analysis shows a clear result, and we weren't surprised by it at all. ", 10)

	raw := Extract(text)

	for _, name := range []ensemble.MetricName{
		ensemble.MetricBurstiness,
		ensemble.MetricNgramEntropy,
		ensemble.MetricSentenceLengthVariance,
		ensemble.MetricLexicalDiversity,
		ensemble.MetricSentenceStarterDiversity,
		ensemble.MetricTransitionDensity,
		ensemble.MetricPronounUsage,
		ensemble.MetricContractionUsage,
		ensemble.MetricCharacterIrregularities,
		ensemble.MetricFleschReadingEase,
		ensemble.MetricFleschKincaidGrade,
		ensemble.MetricGunningFog,
	} {
		_, ok := raw[name]
		assert.True(t, ok, "expected %s in extracted bag", name)
	}
}

func TestBurstiness(t *testing.T) {
	uniform := NewDocument("One two three four five. Six seven eight nine ten. More words fill this one. Last line has five words.")
	score, ok := uniform.Burstiness()
	require.True(t, ok)
	assert.Equal(t, 80.0, score)

	varied := NewDocument("Short one. This sentence runs quite a bit longer than the first one did. Tiny again. And now another very long rambling sentence with many extra words tacked on the end.")
	score, ok = varied.Burstiness()
	require.True(t, ok)
	assert.Equal(t, 20.0, score)

	_, ok = NewDocument("Only one sentence here").Burstiness()
	assert.False(t, ok)
}

func TestNgramEntropy(t *testing.T) {
	// Every bigram distinct: maximum entropy, minimum score.
	diverse := NewDocument("one two three four five six seven eight")
	score, ok := diverse.NgramEntropy(2)
	require.True(t, ok)
	assert.InDelta(t, 0, score, 1e-9)

	// Heavy repetition scores high.
	repetitive := NewDocument(strings.Repeat("the cat ", 20))
	score, ok = repetitive.NgramEntropy(2)
	require.True(t, ok)
	assert.Greater(t, score, 50.0)

	_, ok = NewDocument("word").NgramEntropy(2)
	assert.False(t, ok)
}

func TestSentenceLengthVariance(t *testing.T) {
	uniform := NewDocument("Alpha beta gamma delta one. Alpha beta gamma delta two. Alpha beta gamma delta three.")
	score, ok := uniform.SentenceLengthVariance()
	require.True(t, ok)
	assert.Equal(t, 80.0, score)

	_, ok = NewDocument("First one. Second one.").SentenceLengthVariance()
	assert.False(t, ok)
}

func TestPunctuationUniformity(t *testing.T) {
	// Twelve marks spread evenly over six kinds: maximum entropy, no
	// uniformity signal.
	mixed := NewDocument("a, b, c. d. e! f! g? h? i; j; k: l:")
	score, ok := mixed.PunctuationUniformity()
	require.True(t, ok)
	assert.InDelta(t, 0, score, 1e-9)

	_, ok = NewDocument("barely, any. marks").PunctuationUniformity()
	assert.False(t, ok)
}

func TestCharacterIrregularities(t *testing.T) {
	clean := NewDocument("This is a perfectly ordinary sentence, with nothing odd about it.")
	score, ok := clean.CharacterIrregularities()
	require.True(t, ok)
	assert.Equal(t, 0.0, score)

	messy := NewDocument("Heyyyyy   this has a long   run and stretched    whitespace everywhere aaaaa")
	score, ok = messy.CharacterIrregularities()
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, 40.0)
}

func TestLexicalDiversity(t *testing.T) {
	doc := NewDocument("the cat sat on the mat")
	score, ok := doc.LexicalDiversity()
	require.True(t, ok)
	assert.InDelta(t, 83.33, score, 0.01)
}

func TestSentenceStarterDiversity(t *testing.T) {
	repetitive := NewDocument("The result is clear. The data is strong. The trend is up. The outcome is good.")
	score, ok := repetitive.SentenceStarterDiversity()
	require.True(t, ok)
	assert.InDelta(t, 25, score, 1e-9)

	_, ok = NewDocument("One sentence. Two sentences. Three sentences.").SentenceStarterDiversity()
	assert.False(t, ok)
}

func TestTransitionDensity(t *testing.T) {
	words := make([]string, 0, 50)
	words = append(words, "furthermore,")
	for len(words) < 50 {
		words = append(words, "plain")
	}

	doc := NewDocument(strings.Join(words, " "))
	score, ok := doc.TransitionDensity()
	require.True(t, ok)
	assert.InDelta(t, 2.0, score, 1e-9)
}

func TestPronounUsage(t *testing.T) {
	doc := NewDocument("I think we should go because my gut says so and our time is short now")
	score, ok := doc.PronounUsage()
	require.True(t, ok)
	// 4 of 16 words are first-person pronouns.
	assert.InDelta(t, 25.0, score, 1e-9)
}

func TestContractionUsage(t *testing.T) {
	doc := NewDocument("We didn't stop and we won't slow down because they're behind us all day long")
	score, ok := doc.ContractionUsage()
	require.True(t, ok)
	assert.InDelta(t, 20.0, score, 1e-9)

	none := NewDocument("There are no short forms in this sentence at all")
	score, ok = none.ContractionUsage()
	require.True(t, ok)
	assert.Equal(t, 0.0, score)
}

func TestReadabilitySimpleText(t *testing.T) {
	doc := NewDocument("The cat sat on the mat. The dog ran to the park. We had a good day.")

	fre, ok := doc.FleschReadingEase()
	require.True(t, ok)
	assert.Greater(t, fre, 80.0, "short plain sentences read easy")

	grade, ok := doc.FleschKincaidGrade()
	require.True(t, ok)
	assert.Less(t, grade, 4.0)

	fog, ok := doc.GunningFog()
	require.True(t, ok)
	assert.Less(t, fog, 6.0)
}

func TestReadabilityDenseText(t *testing.T) {
	doc := NewDocument("Organizational transformation initiatives necessitate comprehensive stakeholder alignment methodologies alongside quantitative performance evaluation frameworks throughout implementation.")

	fre, ok := doc.FleschReadingEase()
	require.True(t, ok)
	assert.Less(t, fre, 10.0)

	grade, ok := doc.FleschKincaidGrade()
	require.True(t, ok)
	assert.Greater(t, grade, 15.0)
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"the", 1},
		{"hello", 2},
		{"make", 1},
		{"apple", 2},
		{"beautiful", 3},
		{"rhythm", 1},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, countSyllables(tt.word), "word %q", tt.word)
	}
}
