// Package namedetect extracts a probable user name from free text.
// Detection is a one-shot heuristic: the resolver only consults it
// while no name is known and no game is running.
package namedetect

import (
	"math/rand"
	"regexp"
	"strings"
)

// Result is a successful detection: the title-cased name, the welcome
// message to show, and the session fields to patch.
type Result struct {
	Name    string
	Message string
	Emotion string
}

var gameCommands = []string{
	"fetch", "catch", "throw", "ball", "hide", "seek", "found",
	"pull", "harder", "tug", "guess", "number", "higher", "lower",
}

var greetingWords = []string{
	"hello", "hi", "hey", "greetings", "howdy", "sup", "yo",
}

var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true,
	"into": true, "through": true, "before": true, "after": true,
	"between": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "yes": true, "no": true,
	"okay": true, "ok": true, "please": true, "thank": true,
	"thanks": true, "sorry": true, "what": true, "when": true,
	"where": true, "why": true, "how": true, "who": true, "which": true,
	"that": true, "this": true, "these": true, "those": true,
	"my": true, "your": true, "his": true, "her": true, "its": true,
	"our": true, "their": true, "me": true, "you": true, "him": true,
	"us": true, "them": true, "i": true, "we": true, "they": true,
	"it": true, "he": true, "she": true,
}

var notNames = map[string]bool{
	"yeah": true, "nope": true, "sure": true, "maybe": true,
	"never": true, "always": true, "really": true, "very": true,
	"quite": true, "just": true, "only": true, "also": true, "even": true,
}

var questionStarts = []string{
	"what", "when", "where", "why", "how", "who", "which",
	"is ", "are ", "can ", "do ", "does ",
}

var alphaOnly = regexp.MustCompile(`^[a-zA-Z]+$`)
var nonWord = regexp.MustCompile(`[^\w\s]`)

var welcomes = []string{
	"*wags tail enthusiastically* Nice to meet you, %s! I'm Daisy! I love to play games, tell stories, and do tricks! What would you like to do together? 🐕✨",
	"*bounces excitedly* Hi %s! I'm so happy to meet you! I'm Daisy, your friendly companion! Want to play or chat? 🎾💕",
	"*tilts head with a big smile* %s! What a lovely name! I'm Daisy! I can play games, tell stories, do tricks, and chat about anything! What sounds fun? 🐾🌟",
}

// Detector applies the name heuristics.
type Detector struct {
	rng *rand.Rand
}

// New returns a detector; rng picks among the welcome messages.
func New(rng *rand.Rand) *Detector {
	return &Detector{rng: rng}
}

// Detect attempts to pull a name out of text. It returns nil whenever
// the text looks like anything other than an introduction.
func (d *Detector) Detect(text string) *Result {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 || len(trimmed) > 25 {
		return nil
	}

	lowered := strings.ToLower(trimmed)
	if containsAny(lowered, gameCommands) || containsAny(lowered, greetingWords) {
		return nil
	}
	if isQuestion(trimmed, lowered) || mostlyStopWords(lowered) {
		return nil
	}

	name := extractName(trimmed)
	if name == "" {
		return nil
	}

	tmpl := welcomes[0]
	if d.rng != nil {
		tmpl = welcomes[d.rng.Intn(len(welcomes))]
	}
	return &Result{
		Name:    name,
		Message: strings.Replace(tmpl, "%s", name, 1),
		Emotion: "excited",
	}
}

func containsAny(lowered string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}

func isQuestion(trimmed, lowered string) bool {
	if strings.HasSuffix(trimmed, "?") {
		return true
	}
	for _, start := range questionStarts {
		if strings.HasPrefix(lowered, start) {
			return true
		}
	}
	return false
}

// mostlyStopWords rejects sentences: over 60% stop-word tokens means
// the text is conversation, not an introduction.
func mostlyStopWords(lowered string) bool {
	words := strings.Fields(lowered)
	if len(words) == 0 {
		return true
	}
	count := 0
	for _, w := range words {
		if stopWords[nonWord.ReplaceAllString(w, "")] {
			count++
		}
	}
	return float64(count)/float64(len(words)) > 0.6
}

func extractName(trimmed string) string {
	cleaned := strings.TrimSpace(nonWord.ReplaceAllString(trimmed, ""))
	words := strings.Fields(cleaned)

	switch len(words) {
	case 0:
		return ""
	case 1:
		if !looksLikeName(words[0]) {
			return ""
		}
		return title(words[0])
	case 2:
		if !looksLikeName(words[0]) || !looksLikeName(words[1]) {
			return ""
		}
		return title(words[0]) + " " + title(words[1])
	default:
		// Longer input only yields a name when the leading token is
		// itself name-like.
		if looksLikeName(words[0]) {
			return title(words[0])
		}
		return ""
	}
}

func looksLikeName(word string) bool {
	lowered := strings.ToLower(word)
	if stopWords[lowered] || notNames[lowered] {
		return false
	}
	if len(word) < 2 || len(word) > 15 {
		return false
	}
	return alphaOnly.MatchString(word)
}

func title(word string) string {
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
