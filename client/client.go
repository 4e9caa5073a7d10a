// Package client talks to the voicenotes server the way the recording page
// does: a multipart upload, or a live websocket stream.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-notes/types"
)

// ServerError is a non-2xx reply from the server.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Status == 0 {
		return "server: " + e.Message
	}
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client calls the transcription endpoints of one server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client for baseURL, e.g. "http://localhost:3000".
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse server url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("server url must be http or https, got %q", baseURL)
	}
	return &Client{BaseURL: u.String(), HTTPClient: http.DefaultClient}, nil
}

// Upload describes one audio file to transcribe.
type Upload struct {
	Audio      io.Reader
	Filename   string
	Title      string
	ClientName string
}

// Transcribe posts the audio as multipart form data and returns the result.
// There is no timeout beyond ctx and no retry.
func (c *Client) Transcribe(ctx context.Context, up Upload) (types.TranscribeResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := up.Filename
	if filename == "" {
		filename = "recording.wav"
	}
	part, err := w.CreateFormFile("audio", filename)
	if err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, up.Audio); err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "copy audio")
	}
	if err := w.WriteField("title", up.Title); err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "write title")
	}
	if err := w.WriteField("clientName", up.ClientName); err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "write clientName")
	}
	if err := w.Close(); err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/transcribe", &buf)
	if err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp types.ErrorResponse
		_ = json.Unmarshal(body, &errResp)
		return types.TranscribeResponse{}, &ServerError{Status: resp.StatusCode, Message: errResp.Error}
	}

	var out types.TranscribeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "decode response")
	}
	if out.FollowUpItems == nil {
		out.FollowUpItems = []string{}
	}
	return out, nil
}
