// Package intent maps free-text developer queries to intent categories using
// literal substring matching over a lowercased query.
package intent

import "strings"

// RuleConfidence is reported for every rule-based match.
const RuleConfidence = 0.7

// Scores holds the per-intent keyword match counts for one query.
type Scores map[Intent]int

// ByName keys the scores by intent name.
func (s Scores) ByName() map[string]int {
	out := make(map[string]int, len(s))
	for i, n := range s {
		out[i.String()] = n
	}
	return out
}

// Classifier is safe for concurrent use; its patterns are never mutated after
// construction.
type Classifier struct {
	patterns PatternSet
}

// NewClassifier builds a classifier over a private copy of patterns. Keywords
// given for reserved intents are ignored.
func NewClassifier(patterns PatternSet) *Classifier {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Classifier{patterns: patterns.normalize()}
}

// Patterns returns a copy of the active keyword sets.
func (c *Classifier) Patterns() PatternSet {
	out := make(PatternSet, len(c.patterns))
	for i, keywords := range c.patterns {
		out[i] = append([]string(nil), keywords...)
	}
	return out
}

// Score counts, for each reachable intent, how many of its keywords occur in
// the query. A keyword contributes at most 1 however often it appears.
// Reserved intents are always present with a score of 0.
func (c *Classifier) Score(query string) Scores {
	q := strings.ToLower(strings.TrimSpace(query))

	scores := make(Scores, len(Order))
	for _, i := range Order {
		scores[i] = 0
	}
	if q == "" {
		return scores
	}

	for _, i := range Reachable {
		for _, keyword := range c.patterns[i] {
			if strings.Contains(q, keyword) {
				scores[i]++
			}
		}
	}
	return scores
}

// Classify returns the intent with the strictly highest score, breaking ties
// by Order. Empty queries and queries matching nothing are Simple.
func (c *Classifier) Classify(query string) Intent {
	if strings.TrimSpace(query) == "" {
		return Simple
	}

	scores := c.Score(query)

	best, bestScore := Simple, 0
	for _, i := range Order {
		if scores[i] > bestScore {
			best, bestScore = i, scores[i]
		}
	}
	if bestScore == 0 {
		return Simple
	}
	return best
}

// Confidence is the fixed confidence of a rule-based classification.
func (c *Classifier) Confidence() float64 {
	return RuleConfidence
}
