package agents

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords are common English words excluded from cache keys. Words of
// three characters or fewer are dropped by the length rule, so only longer
// ones need listing.
var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "because": {}, "been": {},
	"before": {}, "being": {}, "between": {}, "does": {}, "doing": {},
	"each": {}, "from": {}, "have": {}, "here": {}, "into": {},
	"more": {}, "most": {}, "only": {}, "other": {}, "over": {},
	"should": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "those": {}, "through": {}, "under": {},
	"very": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "will": {}, "with": {}, "would": {}, "your": {},
}

// CacheKey derives the Writer's grounding-cache key from a topic: lowercase,
// punctuation stripped, stop words and words of three characters or fewer
// dropped, first five significant words joined with "-". Returns "" when the
// topic has no significant words; callers skip the cache in that case.
func CacheKey(topic string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(topic) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	var words []string
	for _, w := range strings.Fields(b.String()) {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		words = append(words, w)
		if len(words) == 5 {
			break
		}
	}

	return strings.Join(words, "-")
}
