// Package stt provides speech-to-text transcription for audio payloads.
package stt

import "context"

// Transcriber converts one complete audio payload to text.
type Transcriber interface {
	// Transcribe returns the plain-text transcript of audio. filename is a
	// hint for the container format and may be empty.
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}
