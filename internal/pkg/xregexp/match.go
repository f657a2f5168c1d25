package xregexp

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/hodei-artifacts/hodei/internal/pkg/xmap"
)

type patternCache struct {
	regex      *regexp2.Regexp
	exactMatch bool
	compileErr bool
}

var globalCache = xmap.New[string, *patternCache]()

// MatchString reports whether str matches the pattern. Patterns without
// regex metacharacters compare exactly; everything else is compiled as an
// anchored regular expression. Patterns that fail to compile match nothing.
func MatchString(pattern string, str string) bool {
	cached := getOrCreatePattern(pattern)

	if cached.compileErr {
		return false
	}

	if cached.exactMatch {
		return pattern == str
	}

	match, _ := cached.regex.MatchString(str)

	return match
}

func getOrCreatePattern(pattern string) *patternCache {
	if cached, ok := globalCache.Load(pattern); ok {
		return cached
	}

	cached := &patternCache{}

	if !containsRegexChars(pattern) {
		cached.exactMatch = true
		globalCache.Store(pattern, cached)

		return cached
	}

	compiled, err := regexp2.Compile(ensureAnchored(pattern), regexp2.None)
	if err != nil {
		cached.compileErr = true
	} else {
		cached.regex = compiled
	}

	globalCache.Store(pattern, cached)

	return cached
}

func ensureAnchored(pattern string) string {
	trimmed := pattern

	// Skip inline modifiers like (?i) when looking for a start anchor.
	if strings.HasPrefix(trimmed, "(?") {
		if end := strings.Index(trimmed, ")"); end > 0 {
			trimmed = trimmed[end+1:]
		}
	}

	if !strings.HasPrefix(trimmed, "^") {
		pattern = "^" + pattern
	}

	if !strings.HasSuffix(pattern, "$") {
		pattern += "$"
	}

	return pattern
}

func containsRegexChars(pattern string) bool {
	return strings.ContainsAny(pattern, "*?+[]{}()^$.|\\")
}
