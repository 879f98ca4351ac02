package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

var (
	whitespaceRe = regexp.MustCompile(`[\s\x{00A0}]+`)
	punctGapRe   = regexp.MustCompile(`([,;:.!?]) ?`)
)

// Normalize collapses whitespace runs (including non-breaking space) to a
// single ASCII space, enforces exactly one space after sentence punctuation,
// and trims both ends.
func Normalize(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = punctGapRe.ReplaceAllString(text, "$1 ")
	return strings.TrimSpace(text)
}

// Segment splits raw text into sentences and detects discourse markers for
// each. The two returned slices are parallel. The linguistic segmenter is
// tried first; any failure falls back to the rule-based splitter without
// surfacing an error.
func Segment(text string) ([]string, [][]string) {
	text = Normalize(text)

	sentences := proseSentences(text)
	if len(sentences) == 0 {
		sentences = ruleSentences(text)
	}

	markers := make([][]string, len(sentences))
	for i, s := range sentences {
		markers[i] = DetectMarkers(s)
	}

	return sentences, markers
}

func proseSentences(text string) []string {
	if text == "" {
		return nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithTagging(false))
	if err != nil {
		return nil
	}

	var sentences []string
	for _, sent := range doc.Sentences() {
		s := strings.TrimSpace(sent.Text)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// ruleSentences splits at `.!?` followed by whitespace and an uppercase
// letter, or at end of string.
func ruleSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Look past whitespace for an uppercase letter or end of string.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < len(runes) && !unicode.IsUpper(runes[j]) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = j
	}

	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}
