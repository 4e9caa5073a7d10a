package stt

import (
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wavHeader returns a minimal RIFF/WAVE header followed by silence.
func wavHeader() []byte {
	buf := make([]byte, 44+16)
	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(buf)-8))
	copy(buf[8:], "WAVE")
	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1)
	binary.LittleEndian.PutUint16(buf[22:], 1)
	binary.LittleEndian.PutUint32(buf[24:], 16000)
	binary.LittleEndian.PutUint32(buf[28:], 32000)
	binary.LittleEndian.PutUint16(buf[32:], 2)
	binary.LittleEndian.PutUint16(buf[34:], 16)
	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], 16)
	return buf
}

func TestOpenAIClient_Transcribe(t *testing.T) {
	audio := wavHeader()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "call.wav", hdr.Filename)
		body, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, audio, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Hello, this is Dana from Acme."}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	c, err := NewOpenAIClient(openai.NewClientWithConfig(cfg), "")
	require.NoError(t, err)

	text, err := c.Transcribe(context.Background(), audio, "call.wav")
	require.NoError(t, err)
	assert.Equal(t, "Hello, this is Dana from Acme.", text)
	assert.Equal(t, "openai", c.Name())
}

func TestOpenAIClient_TranscribeEmpty(t *testing.T) {
	c, err := NewOpenAIClient(openai.NewClient("sk-test"), "whisper-1")
	require.NoError(t, err)

	_, err = c.Transcribe(context.Background(), nil, "call.wav")
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestOpenAIClient_TranscribeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid file format.","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	c, err := NewOpenAIClient(openai.NewClientWithConfig(cfg), "whisper-1")
	require.NoError(t, err)

	_, err = c.Transcribe(context.Background(), []byte("not audio"), "notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whisper transcription")
}

func TestAudioFilename(t *testing.T) {
	wav := wavHeader()

	tests := []struct {
		name     string
		audio    []byte
		filename string
		want     string
	}{
		{"keeps name with extension", wav, "meeting.m4a", "meeting.m4a"},
		{"strips directories", wav, "/tmp/uploads/meeting.mp3", "meeting.mp3"},
		{"sniffs missing extension", wav, "blob", "blob.wav"},
		{"defaults empty name", wav, "", "recording.wav"},
		{"unknown content falls back to wav", []byte("plain text"), "", "recording.wav"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AudioFilename(tt.audio, tt.filename))
		})
	}
}

func TestIsAudio(t *testing.T) {
	assert.True(t, IsAudio(mimetype.Detect(wavHeader())))
	assert.False(t, IsAudio(mimetype.Detect([]byte("just some text"))))
	assert.False(t, IsAudio(mimetype.Detect([]byte("%PDF-1.7\n"))))
}
