package avatar

import "github.com/roshanis/bandhubol/internal/model/chat"

// Persona is the immutable voice applied to the model via system instructions.
// Defined by configuration at startup, never created per turn.
type Persona struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	ShortDescription string                  `json:"shortDescription"`
	SpeakingStyle    string                  `json:"speakingStyle"`
	DefaultLanguage  chat.LanguagePreference `json:"defaultLanguage"`
	VoiceID          string                  `json:"voiceId,omitempty"`
}

// Seed provides the default companion avatars. This is the single
// authoritative registry; every component receives its personas from here.
func Seed() []Persona {
	return []Persona{
		{
			ID:               "riya",
			Name:             "Riya",
			ShortDescription: "Warm, caring, helps you process feelings and feel heard.",
			SpeakingStyle:    "Soft & empathetic",
			DefaultLanguage:  chat.LanguageHinglish,
			VoiceID:          "21m00Tcm4TlvDq8ikWAM",
		},
		{
			ID:               "arjun",
			Name:             "Arjun",
			ShortDescription: "Calm, logical, helps you think through decisions.",
			SpeakingStyle:    "Grounded & practical",
			DefaultLanguage:  chat.LanguageHinglish,
			VoiceID:          "ErXwobaYiN019PkySvjV",
		},
		{
			ID:               "meera",
			Name:             "Meera",
			ShortDescription: "Playful, friendly, helps you lighten the mood.",
			SpeakingStyle:    "Playful & supportive",
			DefaultLanguage:  chat.LanguageHinglish,
			VoiceID:          "EXAVITQu4vr4xnSDxMaL",
		},
		{
			ID:               "kabir",
			Name:             "Kabir",
			ShortDescription: "Direct but kind, helps you see things clearly.",
			SpeakingStyle:    "Honest & thoughtful",
			DefaultLanguage:  chat.LanguageHinglish,
			VoiceID:          "VR6AewLTigWG4xSOukaG",
		},
	}
}
