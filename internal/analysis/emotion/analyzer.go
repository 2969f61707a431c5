// Package emotion infers which avatar pose fits a generated reply.
// Scripted stages carry their own emotions; this heuristic covers AI
// fallback text, which arrives unlabeled.
package emotion

import (
	"strings"

	"github.com/brianference/daisydog-sub000/internal/model/chat"
)

var keywordBuckets = map[string][]string{
	chat.EmotionExcited: {
		"amazing", "awesome", "yay", "hooray", "wow", "can't wait",
		"so much fun", "incredible", "best day", "let's go",
	},
	chat.EmotionHappy: {
		"happy", "glad", "love", "great", "wonderful", "smile",
		"wags tail", "thank you", "friend",
	},
	chat.EmotionThinking: {
		"hmm", "wonder", "think", "curious", "maybe", "question",
		"tilts head",
	},
	chat.EmotionPlayfetch: {
		"ball", "fetch", "chase", "catch",
	},
	chat.EmotionNervous: {
		"scary", "scared", "careful", "worried", "whimpers",
	},
	chat.EmotionPatient: {
		"take your time", "no rush", "whenever you're ready", "it's okay",
	},
	chat.EmotionDancing: {
		"dance", "music", "sing", "boogie",
	},
}

const exclamationBoost = 2

// Infer scores reply text against the emotion buckets; exclamation
// marks boost the excited bucket. A hungry session overrides a neutral
// result so the avatar matches the hunger meter.
func Infer(text string, hungerLevel int) string {
	lowered := strings.ToLower(text)

	best := ""
	bestScore := 0
	scores := map[string]int{}
	for label, keywords := range keywordBuckets {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				scores[label] += 3
			}
		}
	}
	if n := strings.Count(text, "!"); n > 0 {
		scores[chat.EmotionExcited] += n * exclamationBoost
	}
	for _, label := range bucketOrder {
		if s := scores[label]; s > bestScore {
			bestScore = s
			best = label
		}
	}

	if best == "" {
		if hungerLevel <= chat.HungerWarnLevel {
			return chat.EmotionHungry
		}
		return chat.EmotionHappy
	}
	return best
}

// bucketOrder makes tie-breaks deterministic.
var bucketOrder = []string{
	chat.EmotionExcited,
	chat.EmotionHappy,
	chat.EmotionThinking,
	chat.EmotionPlayfetch,
	chat.EmotionNervous,
	chat.EmotionPatient,
	chat.EmotionDancing,
}
