// Package topic maps free text onto pre-authored content categories
// with deterministic keyword scoring. Tiers are consulted in a fixed
// precedence order so doctrinal topics always outrank general chatter.
package topic

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultLibrary []byte

// Category is one topic entry: a keyword table plus its responder data.
type Category struct {
	Name      string   `yaml:"name"`
	Keywords  []string `yaml:"keywords"`
	Emotion   string   `yaml:"emotion"`
	Responses []string `yaml:"responses"`
	// Rotate selects responses round-robin by the session's story
	// index instead of at random.
	Rotate bool `yaml:"rotate"`
}

// Tier groups categories that compete against each other.
type Tier struct {
	Name       string     `yaml:"name"`
	Categories []Category `yaml:"categories"`
}

type library struct {
	Tiers []Tier `yaml:"tiers"`
}

// Match is a winning category with its tier and score.
type Match struct {
	Tier     string
	Category string
	Emotion  string
	Score    int

	entry *Category
}

// Matcher scores text against the loaded tiers.
type Matcher struct {
	tiers []Tier
	rng   *rand.Rand
}

// NewMatcher loads the embedded default library.
func NewMatcher(rng *rand.Rand) (*Matcher, error) {
	return NewMatcherFromLibrary(defaultLibrary, rng)
}

// NewMatcherFromLibrary parses a YAML topic library document.
func NewMatcherFromLibrary(doc []byte, rng *rand.Rand) (*Matcher, error) {
	var lib library
	if err := yaml.Unmarshal(doc, &lib); err != nil {
		return nil, fmt.Errorf("parse topic library: %w", err)
	}
	if len(lib.Tiers) == 0 {
		return nil, fmt.Errorf("topic library has no tiers")
	}
	for _, tier := range lib.Tiers {
		for _, cat := range tier.Categories {
			if len(cat.Keywords) == 0 || len(cat.Responses) == 0 {
				return nil, fmt.Errorf("tier %s category %s is missing keywords or responses", tier.Name, cat.Name)
			}
		}
	}
	return &Matcher{tiers: lib.Tiers, rng: rng}, nil
}

// Match returns the first tier's winning category, or nil when no
// category scores above zero anywhere.
func (m *Matcher) Match(text string) *Match {
	return m.matchTiers(text, nil)
}

// MatchTiers restricts matching to the named tiers, preserving tier
// order. Used by the domain-priority stage's allow-list.
func (m *Matcher) MatchTiers(text string, tiers []string) *Match {
	allowed := make(map[string]bool, len(tiers))
	for _, name := range tiers {
		allowed[name] = true
	}
	return m.matchTiers(text, allowed)
}

func (m *Matcher) matchTiers(text string, allowed map[string]bool) *Match {
	lowered := strings.ToLower(text)
	for ti := range m.tiers {
		tier := &m.tiers[ti]
		if allowed != nil && !allowed[tier.Name] {
			continue
		}
		best := -1
		bestScore := 0
		for ci := range tier.Categories {
			// Strictly greater keeps the first-registered category on ties.
			if s := Score(lowered, tier.Categories[ci].Keywords); s > bestScore {
				bestScore = s
				best = ci
			}
		}
		if best >= 0 {
			cat := &tier.Categories[best]
			return &Match{
				Tier:     tier.Name,
				Category: cat.Name,
				Emotion:  cat.Emotion,
				Score:    bestScore,
				entry:    cat,
			}
		}
	}
	return nil
}

// Respond renders the matched category. Rotating categories walk their
// responses via storyIndex and report whether the index should advance.
func (m *Matcher) Respond(match *Match, storyIndex int) (message string, advance bool) {
	responses := match.entry.Responses
	if match.entry.Rotate {
		return responses[storyIndex%len(responses)], true
	}
	if m.rng == nil {
		return responses[0], false
	}
	return responses[m.rng.Intn(len(responses))], false
}
