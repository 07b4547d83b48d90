package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"copydesk/pkg/config"
)

// ValidationError rejects a topic before any pipeline state changes.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid topic: " + e.Reason
}

var (
	scriptElementRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	scriptTagRe     = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	javascriptRe    = regexp.MustCompile(`(?i)javascript:`)
)

// SanitizeTopic normalizes raw user input into a topic the pipeline will
// accept: trims, strips script elements and javascript: URIs (repeated until
// a fixed point, so split-tag evasion collapses too), collapses whitespace,
// and caps the length. Topics shorter than the configured minimum after
// cleaning fail with a *ValidationError.
func SanitizeTopic(topic string, cfg config.TopicConfig) (string, error) {
	s := strings.TrimSpace(topic)

	for {
		prev := s
		s = scriptElementRe.ReplaceAllString(s, "")
		s = scriptTagRe.ReplaceAllString(s, "")
		s = javascriptRe.ReplaceAllString(s, "")
		if s == prev {
			break
		}
	}

	s = strings.Join(strings.Fields(s), " ")

	if cfg.MaxLength > 0 && utf8.RuneCountInString(s) > cfg.MaxLength {
		runes := []rune(s)
		s = strings.TrimSpace(string(runes[:cfg.MaxLength]))
	}

	if utf8.RuneCountInString(s) < cfg.MinLength {
		return "", &ValidationError{
			Reason: fmt.Sprintf("topic must be at least %d characters after cleaning, got %d", cfg.MinLength, utf8.RuneCountInString(s)),
		}
	}
	return s, nil
}
