package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSet_FirstMatchWins(t *testing.T) {
	rs := RuleSet{
		Hard("first", `alpha`),
		Hard("second", `alpha beta`),
	}

	r, ok := rs.Match("alpha beta")
	require.True(t, ok)
	assert.Equal(t, "first", r.Name)
}

func TestRuleSet_OverrideRescues(t *testing.T) {
	rs := RuleSet{
		Soft("physio", `physio`, `rehab`),
	}

	_, ok := rs.Match("city physiotherapy clinic")
	assert.True(t, ok, "plain physio name should match")

	_, ok = rs.Match("neuro physio rehab centre")
	assert.False(t, ok, "override term should suppress the match")
}

func TestRuleSet_EmptyOverrideBehavesLikeHard(t *testing.T) {
	rs := RuleSet{Soft("luxury_rehab", `luxury.*rehab`, "")}

	_, ok := rs.Match("luxury rehab retreat")
	assert.True(t, ok)
}

func TestRuleSet_NoMatch(t *testing.T) {
	rs := RuleSet{Hard("hospital", `hospital`)}

	r, ok := rs.Match("sunrise care home")
	assert.False(t, ok)
	assert.Empty(t, r.Name)
}
