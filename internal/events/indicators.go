package events

import (
	"regexp"
	"strings"
	"sync"
)

// IndicatorSet maps one canonical label to the surface-form patterns that
// detect it inside free text. Sets are matched in declaration order and the
// first hit wins, so order is load-bearing: "Clinical Skills" must be listed
// before "Clinical".
type IndicatorSet struct {
	Label    string   `yaml:"label"`
	Patterns []string `yaml:"patterns"`
}

var (
	indicatorCacheMu sync.Mutex
	indicatorCache   = make(map[string]*regexp.Regexp)
)

// indicatorRegexp compiles a pattern for case-insensitive search, caching
// the result. A pattern that fails to compile matches nothing.
func indicatorRegexp(pattern string) *regexp.Regexp {
	indicatorCacheMu.Lock()
	defer indicatorCacheMu.Unlock()
	if re, ok := indicatorCache[pattern]; ok {
		return re
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		re = nil
	}
	indicatorCache[pattern] = re
	return re
}

// findIndicator searches content for the first indicator set with a matching
// pattern and returns its label. Patterns are regular expressions, searched
// case-insensitively against the trimmed content.
func findIndicator(sets []IndicatorSet, content string) (string, bool) {
	content = strings.TrimSpace(content)
	for _, set := range sets {
		for _, pattern := range set.Patterns {
			re := indicatorRegexp(pattern)
			if re != nil && re.MatchString(content) {
				return set.Label, true
			}
		}
	}
	return "", false
}

// standardizeFromIndicator canonicalizes an already-extracted symbol: the
// first set with a pattern contained in the symbol (case-insensitive
// substring) supplies the canonical label.
func standardizeFromIndicator(sets []IndicatorSet, symbol string) (string, bool) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	for _, set := range sets {
		for _, pattern := range set.Patterns {
			if strings.Contains(symbol, strings.ToLower(pattern)) {
				return set.Label, true
			}
		}
	}
	return "", false
}
