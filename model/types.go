package model

// AudioChunk represents a chunk of audio data.
type AudioChunk []byte

// Analysis is the structured output of the text-generation call.
type Analysis struct {
	Summary       string   `json:"summary"`
	FollowUpItems []string `json:"followUpItems"`
}

// Note is a persisted record pairing a transcript with its analysis.
// Notes are never mutated after creation.
type Note struct {
	ID            string   `json:"id" validate:"required,numeric"`
	Title         string   `json:"title,omitempty"`
	ClientName    string   `json:"clientName,omitempty"`
	Transcript    string   `json:"transcript"`
	Summary       string   `json:"summary"`
	FollowUpItems []string `json:"followUpItems"`
	CreatedAt     string   `json:"createdAt" validate:"required,datetime=2006-01-02T15:04:05.000Z07:00"`
	AudioURL      string   `json:"audioUrl,omitempty"`
}
