package segment

import (
	"regexp"
	"strings"
)

// discourseMarkers is the closed vocabulary of English connectives that
// signal a rhetorical relation between sentences.
var discourseMarkers = map[string]struct{}{
	"however": {}, "therefore": {}, "thus": {}, "hence": {}, "meanwhile": {},
	"although": {}, "though": {}, "consequently": {}, "furthermore": {},
	"moreover": {}, "additionally": {}, "nevertheless": {}, "nonetheless": {},
	"accordingly": {}, "besides": {}, "indeed": {}, "instead": {},
	"likewise": {}, "otherwise": {}, "similarly": {}, "specifically": {},
	"ultimately": {}, "afterward": {}, "afterwards": {}, "conversely": {},
	"elsewhere": {}, "hereafter": {}, "hitherto": {}, "notwithstanding": {},
	"previously": {}, "subsequently": {},
}

var wordRe = regexp.MustCompile(`[a-z]+`)

// DetectMarkers returns the discourse markers present in a sentence,
// matched whole-word and case-insensitive, in order of first appearance.
func DetectMarkers(sentence string) []string {
	var found []string
	seen := make(map[string]struct{})

	for _, word := range wordRe.FindAllString(strings.ToLower(sentence), -1) {
		if _, ok := discourseMarkers[word]; !ok {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		found = append(found, word)
	}

	return found
}

// LeadingWord returns the first word of a sentence, lowercased with
// surrounding punctuation stripped. Empty string for an empty sentence.
func LeadingWord(sentence string) string {
	fields := strings.Fields(sentence)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(strings.ToLower(fields[0]), `,;:.!?"'()`)
}
