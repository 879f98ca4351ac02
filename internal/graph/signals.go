package graph

import (
	"github.com/cohergraph/cohergraph/internal/segment"
)

var contrastiveOpeners = map[string]struct{}{
	"however": {}, "nevertheless": {}, "nonetheless": {}, "conversely": {},
}

var causalOpeners = map[string]struct{}{
	"therefore": {}, "thus": {}, "hence": {}, "accordingly": {},
}

// continuitySignal rates how smoothly each sentence continues from the
// previous one. The first sentence has nothing to continue from and gets 1.0.
// A contrastive opener signals a deliberate break (0.4), a causal opener a
// guided transition (0.7), anything else a neutral continuation (0.8).
func continuitySignal(sentences []string) []float64 {
	continuity := make([]float64, len(sentences))
	for i, sentence := range sentences {
		if i == 0 {
			continuity[i] = 1.0
			continue
		}

		opener := segment.LeadingWord(sentence)
		if _, ok := contrastiveOpeners[opener]; ok {
			continuity[i] = 0.4
		} else if _, ok := causalOpeners[opener]; ok {
			continuity[i] = 0.7
		} else {
			continuity[i] = 0.8
		}
	}
	return continuity
}
