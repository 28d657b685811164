// Package rules implements the pipeline's pattern-rule stages: the stage 1
// exclusion matcher and the post-classification correction reviewer. Both
// are thin interpreters over declarative, ordered rule tables so the tables
// themselves can be unit-tested independent of the evaluation engine.
package rules

import "regexp"

// Rule is one entry in an ordered rule table. Pattern is the trigger; an
// optional Override pattern rescues text that would otherwise match (the
// override represents in-scope qualifiers that save an excluded name).
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Override *regexp.Regexp
}

// Hard builds a rule with no override: any match fires unconditionally.
func Hard(name, pattern string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern)}
}

// Soft builds a rule whose match is suppressed when the override pattern
// also matches. An empty override behaves like Hard.
func Soft(name, pattern, override string) Rule {
	r := Rule{Name: name, Pattern: regexp.MustCompile(pattern)}
	if override != "" {
		r.Override = regexp.MustCompile(override)
	}
	return r
}

// RuleSet is an ordered list of rules evaluated first-match-wins.
type RuleSet []Rule

// Match evaluates the set against text in declared order. A rule fires when
// its pattern matches and its override (if any) does not; the first firing
// rule wins. Returns the zero Rule and false when nothing fires.
func (rs RuleSet) Match(text string) (Rule, bool) {
	for _, r := range rs {
		if !r.Pattern.MatchString(text) {
			continue
		}
		if r.Override != nil && r.Override.MatchString(text) {
			continue
		}
		return r, true
	}
	return Rule{}, false
}
