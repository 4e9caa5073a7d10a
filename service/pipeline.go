// Package service runs the transcription+analysis round trip behind the
// HTTP and websocket endpoints.
package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mrsingh-rishi/voice-notes/llm"
	"github.com/mrsingh-rishi/voice-notes/logging"
	"github.com/mrsingh-rishi/voice-notes/model"
	"github.com/mrsingh-rishi/voice-notes/stt"
	"github.com/mrsingh-rishi/voice-notes/types"
)

var (
	// ErrMissingInput means no audio payload was supplied.
	ErrMissingInput = errors.New("no audio file provided")
	// ErrProcessing covers every other failure of the round trip.
	ErrProcessing = errors.New("failed to process audio file")
)

// Fallback values substituted when the model output cannot be parsed.
const FallbackSummary = "Parsing did not work"

// FallbackFollowUpItems returns a fresh copy of the fallback items.
func FallbackFollowUpItems() []string {
	return []string{"Review transcript manually", "Follow up with client"}
}

// Pipeline transcribes audio, then asks the model for a summary and
// follow-up items. The two calls are sequential; the pipeline keeps no
// state between requests.
type Pipeline struct {
	transcriber stt.Transcriber
	analyzer    llm.Analyzer
	logger      zerolog.Logger
}

// NewPipeline wires the speech-to-text and text-generation collaborators.
func NewPipeline(transcriber stt.Transcriber, analyzer llm.Analyzer) (*Pipeline, error) {
	if transcriber == nil {
		return nil, errors.New("transcriber is required")
	}
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	return &Pipeline{
		transcriber: transcriber,
		analyzer:    analyzer,
		logger:      logging.Component("pipeline"),
	}, nil
}

// Process runs one round trip. It returns ErrMissingInput for an empty
// payload and ErrProcessing, wrapping the cause, when either external call
// fails. Unparseable model output is not an error: the fallback analysis is
// returned with the transcript intact.
func (p *Pipeline) Process(ctx context.Context, audio []byte, filename string) (types.TranscribeResponse, error) {
	if len(audio) == 0 {
		return types.TranscribeResponse{}, ErrMissingInput
	}

	transcript, err := p.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return types.TranscribeResponse{}, wrapProcessing(err, "transcribe")
	}

	raw, err := p.analyzer.Analyze(ctx, transcript)
	if err != nil {
		return types.TranscribeResponse{}, wrapProcessing(err, "analyze")
	}

	analysis, err := llm.Normalize(raw)
	if err != nil {
		p.logger.Warn().Err(err).Int("response_len", len(raw)).Msg("JSON parse error, using fallback analysis")
		analysis = model.Analysis{
			Summary:       FallbackSummary,
			FollowUpItems: FallbackFollowUpItems(),
		}
	}

	return types.TranscribeResponse{
		Transcript:    transcript,
		Summary:       analysis.Summary,
		FollowUpItems: analysis.FollowUpItems,
	}, nil
}

// ProcessingError is a failed external call. It matches ErrProcessing
// and unwraps to the cause.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return ErrProcessing.Error() + ": " + e.Err.Error()
}

func (e *ProcessingError) Unwrap() error { return e.Err }

func (e *ProcessingError) Is(target error) bool { return target == ErrProcessing }

func wrapProcessing(err error, op string) error {
	return &ProcessingError{Op: op, Err: errors.Wrap(err, op)}
}
