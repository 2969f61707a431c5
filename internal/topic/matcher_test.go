package topic

import (
	"math/rand"
	"testing"
)

func newMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewMatcher err: %v", err)
	}
	return m
}

func TestScoreSubstringAndBoundary(t *testing.T) {
	// "story" as a whole word: len(5) + boundary bonus(5).
	if got := Score("tell me a story", []string{"story"}); got != 10 {
		t.Fatalf("whole-word score: got %d want 10", got)
	}
	// Embedded only: "art" inside "party" scores length without bonus.
	if got := Score("party", []string{"art"}); got != 3 {
		t.Fatalf("substring score: got %d want 3", got)
	}
	if got := Score("nothing here", []string{"story"}); got != 0 {
		t.Fatalf("no-match score: got %d want 0", got)
	}
}

func TestScoreAccumulatesAcrossKeywords(t *testing.T) {
	got := Score("tell me a story", []string{"story", "tell me a story"})
	// story: 5+5, full phrase: 15+5.
	if got != 30 {
		t.Fatalf("accumulated score: got %d want 30", got)
	}
}

func TestMatchPrefersDoctrineTier(t *testing.T) {
	m := newMatcher(t)

	// "creation story" hits both the doctrine creation category and the
	// general story category; the doctrine tier must win outright.
	match := m.Match("tell me the creation story")
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Tier != "doctrine" || match.Category != "creation" {
		t.Fatalf("unexpected winner: %s/%s", match.Tier, match.Category)
	}
}

func TestMatchGeneralTier(t *testing.T) {
	m := newMatcher(t)

	match := m.Match("tell me a joke please")
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Category != "joke" {
		t.Fatalf("unexpected category: %s", match.Category)
	}
	if match.Emotion != "happy" {
		t.Fatalf("unexpected emotion: %s", match.Emotion)
	}
}

func TestMatchZeroScoreReturnsNil(t *testing.T) {
	m := newMatcher(t)
	if match := m.Match("zzz qqq xyzzy"); match != nil {
		t.Fatalf("expected no match, got %s/%s", match.Tier, match.Category)
	}
}

func TestMatchTiersRestrictsSearch(t *testing.T) {
	m := newMatcher(t)

	if match := m.MatchTiers("tell me a joke", []string{"doctrine", "curriculum"}); match != nil {
		t.Fatalf("joke should not match restricted tiers, got %s", match.Category)
	}
	match := m.MatchTiers("how was the world created", []string{"doctrine", "curriculum"})
	if match == nil || match.Category != "creation" {
		t.Fatalf("expected creation match, got %+v", match)
	}
}

func TestRespondRotatesStories(t *testing.T) {
	m := newMatcher(t)

	match := m.Match("tell me a story")
	if match == nil || !match.entry.Rotate {
		t.Fatal("expected rotating story category")
	}

	first, advance := m.Respond(match, 0)
	if !advance {
		t.Fatal("story response should advance the index")
	}
	second, _ := m.Respond(match, 1)
	if first == second {
		t.Fatal("consecutive story indexes should rotate responses")
	}
	wrapped, _ := m.Respond(match, len(match.entry.Responses))
	if wrapped != first {
		t.Fatal("rotation should wrap around the corpus")
	}
}
