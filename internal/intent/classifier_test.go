package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Examples(t *testing.T) {
	c := NewClassifier(DefaultPatterns())

	tests := []struct {
		name     string
		query    string
		expected Intent
	}{
		{name: "git status", query: "git status", expected: Simple},
		{name: "code generation", query: "create a function to parse JSON", expected: CodeGen},
		{name: "debugging", query: "why is this failing with an error", expected: Debug},
		{name: "empty", query: "", expected: Simple},
		{name: "no keyword", query: "xyz123", expected: Simple},
		{name: "uppercase is normalized", query: "  WHY DOES IT CRASH  ", expected: Debug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.query))
		})
	}
}

func TestClassify_WhitespaceIsSimple(t *testing.T) {
	c := NewClassifier(DefaultPatterns())

	for _, q := range []string{" ", "\t", "\n\n", "   \t  \r\n"} {
		assert.Equal(t, Simple, c.Classify(q), "query %q", q)
	}
}

func TestClassify_UniqueKeyword(t *testing.T) {
	c := NewClassifier(DefaultPatterns())

	tests := map[string]Intent{
		"list branches":                       Simple,
		"scaffold a new project":              CodeGen,
		"the app crashes on startup":          Debug,
		"how should we structure the modules": Architecture,
	}

	for query, expected := range tests {
		t.Run(query, func(t *testing.T) {
			assert.Equal(t, expected, c.Classify(query))
		})
	}
}

func TestClassify_TieBreakFollowsOrder(t *testing.T) {
	c := NewClassifier(DefaultPatterns())

	// one keyword from each of two intents
	assert.Equal(t, Simple, c.Classify("git error"))
	assert.Equal(t, CodeGen, c.Classify("create a bug"))
	assert.Equal(t, Debug, c.Classify("fix the design"))
}

func TestScore_PresenceBased(t *testing.T) {
	c := NewClassifier(PatternSet{
		Debug:  {"error"},
		Simple: {"git"},
	})

	scores := c.Score("error error error git")
	assert.Equal(t, 1, scores[Debug])
	assert.Equal(t, 1, scores[Simple])

	// first in order wins the tie even though "error" occurs three times
	assert.Equal(t, Simple, c.Classify("error error error git"))
}

func TestScore_ReservedIntentsStayZero(t *testing.T) {
	c := NewClassifier(PatternSet{
		Simple:                {"status"},
		ArchitecturePremium:   {"premium"},
		ArchitectureScreening: {"screen"},
	})

	scores := c.Score("premium screen review")
	require.Len(t, scores, len(Order))
	assert.Equal(t, 0, scores[ArchitecturePremium])
	assert.Equal(t, 0, scores[ArchitectureScreening])
	assert.Equal(t, 0, scores[ArchitectureScreeningAlt])
	assert.Equal(t, Simple, c.Classify("premium screen review"))

	_, kept := c.Patterns()[ArchitecturePremium]
	assert.False(t, kept)
}

func TestNewClassifier_NormalizesPatterns(t *testing.T) {
	c := NewClassifier(PatternSet{
		CodeGen: {"  Generate ", "", "CLASS"},
	})

	assert.Equal(t, []string{"generate", "class"}, c.Patterns()[CodeGen])
	assert.Equal(t, CodeGen, c.Classify("please generate it"))
}

func TestNewClassifier_NilUsesDefaults(t *testing.T) {
	c := NewClassifier(nil)
	assert.Equal(t, CodeGen, c.Classify("implement a parser"))
	assert.Equal(t, RuleConfidence, c.Confidence())
}

func TestParseIntent(t *testing.T) {
	i, err := ParseIntent(" Code_Gen ")
	require.NoError(t, err)
	assert.Equal(t, CodeGen, i)

	i, err = ParseIntent("architecture_premium")
	require.NoError(t, err)
	assert.False(t, i.Reachable())
	assert.True(t, i.Valid())

	_, err = ParseIntent("poetry")
	assert.Error(t, err)
}
