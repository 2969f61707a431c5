// Package safety screens raw user input against a curated corpus of
// unsafe words and danger patterns before any other component sees it.
package safety

import (
	_ "embed"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultCorpus []byte

// Rule matches one unsafe category by substring keywords.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

type patternSpec struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
}

type corpus struct {
	Overrides []string      `yaml:"overrides"`
	Rules     []Rule        `yaml:"rules"`
	Patterns  []patternSpec `yaml:"patterns"`
	Redirects []string      `yaml:"redirects"`
}

type dangerPattern struct {
	re       *regexp.Regexp
	category string
}

// Result is the outcome of a gate check. When Allowed is false the
// caller must use Response verbatim and stop processing the turn.
type Result struct {
	Allowed  bool
	Category string
	Response string
}

// Gate is the content safety gate. It runs before every other stage on
// every turn and never passes unsafe text through silently.
type Gate struct {
	overrides []string
	rules     []Rule
	patterns  []dangerPattern
	redirects []string
	rng       *rand.Rand
}

// New builds a gate from the embedded default corpus.
func New(rng *rand.Rand) (*Gate, error) {
	return NewFromCorpus(defaultCorpus, rng)
}

// NewFromCorpus builds a gate from a YAML corpus document.
func NewFromCorpus(doc []byte, rng *rand.Rand) (*Gate, error) {
	var c corpus
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("parse safety corpus: %w", err)
	}
	if len(c.Redirects) == 0 {
		return nil, fmt.Errorf("safety corpus has no redirect responses")
	}

	g := &Gate{
		overrides: lowerAll(c.Overrides),
		rules:     c.Rules,
		redirects: c.Redirects,
		rng:       rng,
	}
	for _, p := range c.Patterns {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile danger pattern %q: %w", p.Pattern, err)
		}
		g.patterns = append(g.patterns, dangerPattern{re: re, category: p.Category})
	}
	return g, nil
}

// Check screens text. Positive-override words force an allow; otherwise
// the first matching unsafe keyword or danger pattern wins and yields a
// canned de-escalation response, falling back to a generic redirect.
func (g *Gate) Check(text string) Result {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return Result{Allowed: true}
	}

	for _, word := range g.overrides {
		if strings.Contains(lowered, word) {
			return Result{Allowed: true}
		}
	}

	for _, rule := range g.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				resp := rule.Response
				if resp == "" {
					resp = g.redirect()
				}
				return Result{Allowed: false, Category: rule.Category, Response: resp}
			}
		}
	}

	for _, p := range g.patterns {
		if p.re.MatchString(lowered) {
			return Result{Allowed: false, Category: p.category, Response: g.redirect()}
		}
	}

	return Result{Allowed: true}
}

func (g *Gate) redirect() string {
	if g.rng == nil {
		return g.redirects[0]
	}
	return g.redirects[g.rng.Intn(len(g.redirects))]
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
