package client

import (
	"context"
	"encoding/base64"
	"io"
	"net/url"
	"strings"

	gws "github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-notes/types"
)

// DefaultChunkSize is the number of audio bytes per media frame.
const DefaultChunkSize = 16 * 1024

// StreamOptions describes a live recording.
type StreamOptions struct {
	Filename   string
	Title      string
	ClientName string
	ChunkSize  int
}

// Stream sends audio from r as media frames until EOF, then stops and
// waits for the single reply frame.
func (c *Client) Stream(ctx context.Context, r io.Reader, opts StreamOptions) (types.TranscribeResponse, error) {
	wsURL, err := c.streamURL()
	if err != nil {
		return types.TranscribeResponse{}, err
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	conn, _, err := gws.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "dial stream")
	}
	defer conn.Close()

	// Unblock reads and writes when ctx ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	start := types.StreamEvent{Event: types.EventStart}
	start.Start.Filename = opts.Filename
	start.Start.Title = opts.Title
	start.Start.ClientName = opts.ClientName
	if err := conn.WriteJSON(start); err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "send start")
	}

	buf := make([]byte, opts.ChunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			media := types.StreamEvent{Event: types.EventMedia}
			media.Media.Payload = base64.StdEncoding.EncodeToString(buf[:n])
			if err := conn.WriteJSON(media); err != nil {
				return types.TranscribeResponse{}, errors.Wrap(err, "send media")
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return types.TranscribeResponse{}, errors.Wrap(readErr, "read audio")
		}
	}

	if err := conn.WriteJSON(types.StreamEvent{Event: types.EventStop}); err != nil {
		return types.TranscribeResponse{}, errors.Wrap(err, "send stop")
	}

	var reply types.StreamReply
	if err := conn.ReadJSON(&reply); err != nil {
		if ctx.Err() != nil {
			return types.TranscribeResponse{}, ctx.Err()
		}
		return types.TranscribeResponse{}, errors.Wrap(err, "read reply")
	}
	_ = conn.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, "Closing connection"))

	if reply.Event != types.EventResult {
		return types.TranscribeResponse{}, &ServerError{Message: reply.Error}
	}
	return reply.Response(), nil
}

func (c *Client) streamURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse server url")
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/transcribe/stream"
	return u.String(), nil
}
