package mood

import "strings"

// Tag is the single-label emotional classification of a user message.
type Tag string

const (
	Lonely   Tag = "lonely"
	Stressed Tag = "stressed"
	Sad      Tag = "sad"
	Anxious  Tag = "anxious"
	Neutral  Tag = "neutral"
	Hopeful  Tag = "hopeful"
	Angry    Tag = "angry"
)

// tagOrder fixes the scoring iteration so tie-breaks are deterministic:
// the first tag in declaration order reaching the max score wins.
var tagOrder = []Tag{Lonely, Stressed, Sad, Anxious, Neutral, Hopeful, Angry}

var keywordBuckets = map[Tag][]string{
	Lonely: {
		"lonely", "alone", "no one", "nobody cares",
	},
	Stressed: {
		"stressed", "overwhelmed", "burnt out", "pressure", "tension",
	},
	Sad: {
		"sad", "down", "depressed", "heartbroken", "crying", "cry",
	},
	Anxious: {
		"anxious", "anxiety", "nervous", "worried", "panic",
	},
	Neutral: {},
	Hopeful: {
		"hopeful", "optimistic", "excited", "looking forward",
	},
	Angry: {
		"angry", "furious", "mad", "pissed", "rage",
	},
}

var crisisPhrases = []string{
	"kill myself",
	"killing myself",
	"end my life",
	"ending my life",
	"suicide",
	"suicidal",
	"self harm",
	"self-harm",
	"cut myself",
	"cutting myself",
	"i don't want to live",
	"dont want to live",
	"don't want to live",
	"no reason to live",
}

// CrisisResult reports whether text matched any self-harm phrase.
type CrisisResult struct {
	IsCrisis       bool     `json:"isCrisis"`
	MatchedPhrases []string `json:"matchedPhrases"`
}

// DetectCrisis scans the fixed self-harm phrase list, case-insensitively.
// It is a safety signal only and never fails.
func DetectCrisis(text string) CrisisResult {
	lower := strings.ToLower(text)

	var matched []string
	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			matched = append(matched, phrase)
		}
	}

	return CrisisResult{
		IsCrisis:       len(matched) > 0,
		MatchedPhrases: matched,
	}
}

// InferMoodTag maps free text to a mood tag by counting keyword hits.
// Crisis text is always classified as sad regardless of keyword scores.
// Safe to call with empty or very long strings.
func InferMoodTag(text string) Tag {
	lower := strings.ToLower(text)

	if DetectCrisis(lower).IsCrisis {
		return Sad
	}

	bestTag := Neutral
	bestScore := 0
	for _, tag := range tagOrder {
		score := 0
		for _, keyword := range keywordBuckets[tag] {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestTag = tag
		}
	}

	if bestScore == 0 {
		return Neutral
	}
	return bestTag
}
