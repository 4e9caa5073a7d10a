package server

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrsingh-rishi/voice-notes/model"
	"github.com/mrsingh-rishi/voice-notes/queue"
	"github.com/mrsingh-rishi/voice-notes/types"
)

// Conn is the part of a websocket connection a stream session needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
}

// StreamSession collects one recording sent as start/media/stop events and
// runs it through the pipeline once the client stops.
type StreamSession struct {
	id         string
	conn       Conn
	processor  Processor
	chunks     *queue.Queue[model.AudioChunk]
	received   int
	limit      int
	filename   string
	title      string
	clientName string
	logger     zerolog.Logger
}

// NewStreamSession creates a session over conn. limit caps the total
// decoded audio size in bytes.
func NewStreamSession(conn Conn, processor Processor, limit int, logger zerolog.Logger) *StreamSession {
	id := uuid.NewString()
	return &StreamSession{
		id:        id,
		conn:      conn,
		processor: processor,
		chunks:    queue.New[model.AudioChunk](),
		limit:     limit,
		logger:    logger.With().Str("session", id).Logger(),
	}
}

// Run reads events until stop, a read error, or the size limit. At most
// one reply frame is written.
func (s *StreamSession) Run(ctx context.Context) {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info().Msg("WebSocket closed before stop")
			} else {
				s.logger.Warn().Err(err).Msg("WebSocket read error")
			}
			return
		}

		var ev types.StreamEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			s.logger.Warn().Err(err).Msg("JSON unmarshal error")
			continue
		}

		switch ev.Event {
		case types.EventStart:
			s.filename = ev.Start.Filename
			s.title = ev.Start.Title
			s.clientName = ev.Start.ClientName
			s.logger.Info().Str("file", s.filename).Str("title", s.title).Str("client_name", s.clientName).Msg("Stream started")

		case types.EventMedia:
			chunk, err := base64.StdEncoding.DecodeString(ev.Media.Payload)
			if err != nil {
				s.logger.Warn().Err(err).Msg("Base64 decode error")
				continue
			}
			s.received += len(chunk)
			if s.limit > 0 && s.received > s.limit {
				s.logger.Warn().Int("bytes", s.received).Int("limit", s.limit).Msg("recording exceeds body limit")
				s.reply(types.StreamReply{Event: types.EventError, Error: MsgProcessingFailure})
				return
			}
			s.chunks.Enqueue(chunk)

		case types.EventStop:
			s.logger.Info().Int("bytes", s.received).Int("chunks", s.chunks.Len()).Msg("Stream stopped")
			s.finish(ctx)
			return

		default:
			s.logger.Warn().Str("event", ev.Event).Msg("Unknown event")
		}
	}
}

func (s *StreamSession) finish(ctx context.Context) {
	audio := make([]byte, 0, s.received)
	for _, chunk := range s.chunks.Drain() {
		audio = append(audio, chunk...)
	}

	resp, err := s.processor.Process(ctx, audio, s.filename)
	if err != nil {
		status, msg := classify(err)
		if status >= 500 {
			s.logger.Error().Err(err).Msg("Error processing audio")
		}
		s.reply(types.StreamReply{Event: types.EventError, Error: msg})
		return
	}
	s.reply(types.StreamReply{
		Event:         types.EventResult,
		Transcript:    resp.Transcript,
		Summary:       resp.Summary,
		FollowUpItems: resp.FollowUpItems,
	})
}

func (s *StreamSession) reply(r types.StreamReply) {
	if err := s.conn.WriteJSON(r); err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket write error")
	}
}

// GET /api/transcribe/stream
func (s *Server) handleStream(c *websocket.Conn) {
	defer c.Close()
	NewStreamSession(c, s.processor, s.bodyLimit, s.logger).Run(context.Background())
}
