package stt

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/mrsingh-rishi/voice-notes/logging"
)

// defaultFilename matches what the recorder names its captures.
const defaultFilename = "recording.wav"

// ErrEmptyAudio is returned for a zero-length payload.
var ErrEmptyAudio = errors.New("audio payload is empty")

// OpenAIClient transcribes audio with OpenAI's Whisper API in a single
// request. No chunking, no streaming.
type OpenAIClient struct {
	Client *openai.Client
	Model  string
	logger zerolog.Logger
}

// NewOpenAIClient creates a Whisper transcriber. An empty model selects whisper-1.
func NewOpenAIClient(client *openai.Client, model string) (*OpenAIClient, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIClient{
		Client: client,
		Model:  model,
		logger: logging.Component("stt"),
	}, nil
}

// Transcribe sends the raw audio bytes to Whisper and returns the text.
func (o *OpenAIClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	name := AudioFilename(audio, filename)
	o.logger.Debug().Str("file", name).Int("bytes", len(audio)).Msg("transcribing")

	resp, err := o.Client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.Model,
		FilePath: name,
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", errors.Wrap(err, "whisper transcription")
	}

	o.logger.Debug().Int("length", len(resp.Text)).Msg("transcription complete")
	return resp.Text, nil
}

// Name returns the provider name.
func (o *OpenAIClient) Name() string {
	return "openai"
}

// AudioFilename returns a filename whose extension tells Whisper the
// container format. A name without an extension gets one sniffed from the
// content; unknown content falls back to .wav.
func AudioFilename(audio []byte, filename string) string {
	base := ""
	if name := strings.TrimSpace(filename); name != "" {
		base = filepath.Base(name)
	}
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	if base != "" && filepath.Ext(base) != "" {
		return base
	}

	ext := filepath.Ext(defaultFilename)
	if mt := mimetype.Detect(audio); IsAudio(mt) && mt.Extension() != "" {
		ext = mt.Extension()
	}
	if base == "" {
		base = strings.TrimSuffix(defaultFilename, filepath.Ext(defaultFilename))
	}
	return base + ext
}

// IsAudio reports whether a sniffed type is an audio container. Browser
// recorders emit webm and ogg, which sniff as video/* or application/ogg.
func IsAudio(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		s := m.String()
		if strings.HasPrefix(s, "audio/") || m.Is("video/webm") || m.Is("application/ogg") || m.Is("video/mp4") {
			return true
		}
	}
	return false
}
