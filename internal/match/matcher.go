// Package match wraps the approximate string-matching capability used
// to resolve inbound questions against the knowledge base's trigger
// phrases. The scoring itself is delegated to go-fuzzywuzzy (a port of
// the fuzzy-matching library the knowledge base was originally curated
// against); this package only fixes the contract: given a query and a
// set of candidates, return the single best candidate and an integer
// similarity score in [0,100]. Acceptance thresholds are the caller's
// concern.
package match

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/cases"
)

// Matcher scores a query against candidate strings.
//
// Implementations must be safe for concurrent use. BestMatch returns
// the best-scoring candidate and its score; with no candidates it
// returns ("", 0).
type Matcher interface {
	BestMatch(query string, candidates []string) (best string, score int)
}

// TokenSetMatcher scores with the token-set ratio, which is insensitive
// to word order and duplicated words. This is the behavior the trigger
// phrases were written for ("qual o horario de atendimento" must land
// on "horário de atendimento").
type TokenSetMatcher struct{}

// BestMatch implements Matcher. Ties keep the earlier candidate so the
// result is deterministic for a stable candidate order.
func (TokenSetMatcher) BestMatch(query string, candidates []string) (string, int) {
	best, bestScore := "", 0
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if s := fuzzy.TokenSetRatio(query, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore
}

// foldCaser performs Unicode case folding; shared because Caser values
// are not safe for concurrent use only when stateful; Fold is stateless.
var foldCaser = cases.Fold()

// Normalize applies the canonical normalization used on both sides of a
// match: surrounding whitespace is trimmed and the text is case-folded.
// Trigger phrases are normalized once at write time, inbound messages
// at read time.
func Normalize(s string) string {
	return foldCaser.String(strings.TrimSpace(s))
}
