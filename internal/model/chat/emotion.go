package chat

// Emotion labels drive which avatar pose the presentation layer shows.
const (
	EmotionHappy         = "happy"
	EmotionExcited       = "excited"
	EmotionPlayfetch     = "playfetch"
	EmotionThinking      = "thinking"
	EmotionNervous       = "nervous"
	EmotionEager         = "eager"
	EmotionPatient       = "patient"
	EmotionHungry        = "hungry"
	EmotionDancing       = "dancing"
	EmotionCrouching     = "crouchingdown"
	EmotionLookingBehind = "lookingbehind"
)

var validEmotions = map[string]bool{
	EmotionHappy:         true,
	EmotionExcited:       true,
	EmotionPlayfetch:     true,
	EmotionThinking:      true,
	EmotionNervous:       true,
	EmotionEager:         true,
	EmotionPatient:       true,
	EmotionHungry:        true,
	EmotionDancing:       true,
	EmotionCrouching:     true,
	EmotionLookingBehind: true,
}

// ValidEmotion reports whether label is one of the known emotion poses.
func ValidEmotion(label string) bool {
	return validEmotions[label]
}
