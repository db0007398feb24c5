package intent

import "strings"

// PatternSet maps an intent to the lowercase keywords that vote for it.
type PatternSet map[Intent][]string

// DefaultPatterns returns the built-in keyword sets for the reachable intents.
func DefaultPatterns() PatternSet {
	return PatternSet{
		Simple: {
			"git", "status", "list", "show", "what is", "where is", "version",
			"rename", "format", "lint", "help", "install", "run the",
		},
		CodeGen: {
			"create", "write", "generate", "implement", "function", "class",
			"component", "endpoint", "script", "boilerplate", "scaffold", "add a",
		},
		Debug: {
			"why", "error", "fail", "bug", "fix", "crash", "exception", "broken",
			"not working", "debug", "stack trace", "panic", "undefined",
		},
		Architecture: {
			"architecture", "design", "scalab", "refactor", "microservice",
			"trade-off", "tradeoff", "pattern", "structure", "best approach",
			"migrate", "system",
		},
	}
}

// normalize lowercases and trims every keyword, dropping empty ones and any
// set attached to an intent the classifier cannot reach.
func (p PatternSet) normalize() PatternSet {
	out := make(PatternSet, len(Reachable))
	for _, i := range Reachable {
		keywords := make([]string, 0, len(p[i]))
		for _, k := range p[i] {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				keywords = append(keywords, k)
			}
		}
		out[i] = keywords
	}
	return out
}
