package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRuleList(t *testing.T) {
	// yaml.v3 decodes untyped sequences as []any
	rule, err := ParseRule(RuleKindList, []any{"T4_BAG", "T5_BAG"})
	require.NoError(t, err)
	assert.Equal(t, ListRule{Ids: []string{"T4_BAG", "T5_BAG"}}, rule)

	rule, err = ParseRule(RuleKindList, []string{"T4_BAG"})
	require.NoError(t, err)
	assert.Equal(t, ListRule{Ids: []string{"T4_BAG"}}, rule)
}

func TestParseRuleListBadPayload(t *testing.T) {
	_, err := ParseRule(RuleKindList, "T4_BAG")
	assert.Error(t, err)

	_, err = ParseRule(RuleKindList, []any{"T4_BAG", 42})
	assert.Error(t, err)
}

func TestParseRuleRegexMatchesFromStart(t *testing.T) {
	rule, err := ParseRule(RuleKindRegex, `^(?:T\d+_)?WOOD.*$`)
	require.NoError(t, err)
	re, ok := rule.(RegexRule)
	require.True(t, ok)

	assert.True(t, re.MatchId("T4_WOOD_LOG"))
	assert.True(t, re.MatchId("WOOD_LOG"))
	assert.False(t, re.MatchId("X_WOOD_LOG"))
}

func TestParseRuleRegexUnanchoredStillMatchesFromStart(t *testing.T) {
	rule, err := ParseRule(RuleKindRegex, `WOOD`)
	require.NoError(t, err)
	re := rule.(RegexRule)

	assert.True(t, re.MatchId("WOOD_LOG"))
	assert.False(t, re.MatchId("T4_WOOD_LOG"))
}

func TestParseRuleInvalidRegex(t *testing.T) {
	_, err := ParseRule(RuleKindRegex, `[unbalanced`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadPattern)
}

func TestParseRuleNameContains(t *testing.T) {
	rule, err := ParseRule(RuleKindNameContains, " Bag")
	require.NoError(t, err)
	assert.Equal(t, NameContainsRule{Substring: " Bag"}, rule)

	_, err = ParseRule(RuleKindNameContains, []any{"Bag"})
	assert.Error(t, err)
}

func TestParseRuleUnknownKind(t *testing.T) {
	_, err := ParseRule("prefix", "T4_")
	assert.Error(t, err)

	_, err = ParseRule("", "T4_")
	assert.Error(t, err)
}
