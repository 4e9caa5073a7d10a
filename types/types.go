package types

// TranscribeResponse is the success body of POST /api/transcribe.
type TranscribeResponse struct {
	Transcript    string   `json:"transcript"`
	Summary       string   `json:"summary"`
	FollowUpItems []string `json:"followUpItems"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Stream event names sent by the recording client.
const (
	EventStart = "start"
	EventMedia = "media"
	EventStop  = "stop"
)

// Stream reply event names sent back by the server.
const (
	EventResult = "result"
	EventError  = "error"
)

// StreamEvent is one client frame on the recording websocket.
type StreamEvent struct {
	Event string `json:"event"` // "start", "media", "stop"
	Start struct {
		Title      string `json:"title,omitempty"`
		ClientName string `json:"clientName,omitempty"`
		Filename   string `json:"filename,omitempty"`
	} `json:"start"`
	Media struct {
		Payload string `json:"payload"` // base64 audio
	} `json:"media"`
}

// StreamReply is the single frame the server writes before closing.
type StreamReply struct {
	Event         string   `json:"event"` // "result", "error"
	Transcript    string   `json:"transcript,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	FollowUpItems []string `json:"followUpItems,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Response converts a result reply back into the HTTP response shape.
func (r StreamReply) Response() TranscribeResponse {
	items := r.FollowUpItems
	if items == nil {
		items = []string{}
	}
	return TranscribeResponse{
		Transcript:    r.Transcript,
		Summary:       r.Summary,
		FollowUpItems: items,
	}
}
