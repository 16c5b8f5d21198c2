package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// rule is one way of finding a field: a pattern and an extractor over its submatches.
// An extractor returning ok=false lets the next rule in the list try.
type rule[T any] struct {
	pattern *regexp.Regexp
	extract func(m []string) (T, bool)
}

// firstOf runs rules in order against text and returns the first extracted value.
func firstOf[T any](text string, rules []rule[T]) *T {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := r.extract(m); ok {
			return &v
		}
	}
	return nil
}

func group1Trimmed(m []string) (string, bool) {
	s := strings.TrimSpace(m[1])
	return s, s != ""
}

func group1Raw(m []string) (string, bool) {
	return m[1], m[1] != ""
}

func group1Int(m []string) (int, bool) {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
