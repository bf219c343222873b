package signals

import (
	"regexp"
	"strings"
	"sync"
)

// PhraseMatcher matches a fixed phrase dictionary against free text,
// case-insensitively. Single-word phrases require a word-boundary match so
// that "founder" does not fire inside "co-founders-to-be" fragments of
// unrelated words; multi-word phrases match as plain substrings.
type PhraseMatcher struct {
	phrases  []string
	patterns []*regexp.Regexp // nil for substring-matched phrases
	lowered  []string
}

// NewPhraseMatcher compiles a matcher for the given phrases. Compilation
// happens once; matchers are safe for concurrent use.
func NewPhraseMatcher(phrases []string) *PhraseMatcher {
	m := &PhraseMatcher{
		phrases:  phrases,
		patterns: make([]*regexp.Regexp, len(phrases)),
		lowered:  make([]string, len(phrases)),
	}
	for i, phrase := range phrases {
		m.lowered[i] = strings.ToLower(phrase)
		if !strings.Contains(phrase, " ") {
			m.patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
		}
	}
	return m
}

// FindFirst returns the first dictionary phrase present in text.
func (m *PhraseMatcher) FindFirst(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for i, phrase := range m.phrases {
		if m.matchAt(i, text, lower) {
			return phrase, true
		}
	}
	return "", false
}

// FindAll returns every dictionary phrase present in text, in dictionary
// order, without duplicates.
func (m *PhraseMatcher) FindAll(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for i, phrase := range m.phrases {
		if m.matchAt(i, text, lower) {
			found = append(found, phrase)
		}
	}
	return found
}

func (m *PhraseMatcher) matchAt(i int, text, lower string) bool {
	if p := m.patterns[i]; p != nil {
		return p.MatchString(text)
	}
	return strings.Contains(lower, m.lowered[i])
}

// ContainsAny reports whether text contains any of the terms,
// case-insensitively. This is the plain substring check used for company
// and keyword lists.
func ContainsAny(text string, terms []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// FirstMatch returns the first term contained in text, case-insensitively.
func FirstMatch(text string, terms []string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

// CountMatches returns how many of the terms appear in text.
func CountMatches(text string, terms []string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	n := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}

var (
	classifierMatcherOnce sync.Once
	classifierMatcher     *PhraseMatcher

	orchestratorMatcherOnce sync.Once
	orchestratorMatcher     *PhraseMatcher
)

// ClassifierMatcher returns the shared matcher over
// ClassifierBuildingPhrases.
func ClassifierMatcher() *PhraseMatcher {
	classifierMatcherOnce.Do(func() {
		classifierMatcher = NewPhraseMatcher(ClassifierBuildingPhrases)
	})
	return classifierMatcher
}

// OrchestratorMatcher returns the shared matcher over
// OrchestratorBuildingPhrases.
func OrchestratorMatcher() *PhraseMatcher {
	orchestratorMatcherOnce.Do(func() {
		orchestratorMatcher = NewPhraseMatcher(OrchestratorBuildingPhrases)
	})
	return orchestratorMatcher
}
