// Package server exposes the transcription pipeline over HTTP and websocket.
package server

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mrsingh-rishi/voice-notes/logging"
	"github.com/mrsingh-rishi/voice-notes/service"
	"github.com/mrsingh-rishi/voice-notes/types"
)

// User-facing error messages.
const (
	MsgMissingAudio      = "No audio file provided"
	MsgProcessingFailure = "Failed to process audio file"
)

const (
	TranscribePath       = "/api/transcribe"
	TranscribeStreamPath = "/api/transcribe/stream"
	HealthPath           = "/healthz"

	audioField = "audio"
)

// Processor runs one transcription+analysis round trip.
type Processor interface {
	Process(ctx context.Context, audio []byte, filename string) (types.TranscribeResponse, error)
}

// Config holds server settings.
type Config struct {
	// BodyLimit caps uploads and streamed recordings, in bytes.
	BodyLimit int
}

type Server struct {
	app       *fiber.App
	processor Processor
	bodyLimit int
	logger    zerolog.Logger
}

// New builds the Fiber app and registers every route.
func New(processor Processor, cfg Config) (*Server, error) {
	if processor == nil {
		return nil, errors.New("processor is required")
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = fiber.DefaultBodyLimit
	}

	s := &Server{
		processor: processor,
		bodyLimit: cfg.BodyLimit,
		logger:    logging.Component("server"),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "voicenotes",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(requestLogger(s.logger))

	s.app.Get(HealthPath, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Post(TranscribePath, s.handleTranscribe)

	// Middleware to require WebSocket upgrade on the stream route
	s.app.Use(TranscribeStreamPath, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get(TranscribeStreamPath, websocket.New(s.handleStream))

	return s, nil
}

// App returns the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called or the listener fails.
func (s *Server) Listen(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// POST /api/transcribe: multipart body with an "audio" file and optional
// "title" and "clientName" fields.
func (s *Server) handleTranscribe(c *fiber.Ctx) error {
	log := s.logger.With().Str(logging.FieldRequestID, requestID(c)).Logger()

	form, err := c.MultipartForm()
	if err != nil {
		log.Error().Err(err).Msg("Error processing audio: unreadable form")
		return fail(c, fiber.StatusInternalServerError, MsgProcessingFailure)
	}

	files := form.File[audioField]
	if len(files) == 0 {
		return fail(c, fiber.StatusBadRequest, MsgMissingAudio)
	}
	header := files[0]

	log.Info().
		Str("file", header.Filename).
		Int64("size", header.Size).
		Str("title", c.FormValue("title")).
		Str("client_name", c.FormValue("clientName")).
		Msg("transcription requested")

	f, err := header.Open()
	if err != nil {
		log.Error().Err(err).Msg("Error processing audio: open upload")
		return fail(c, fiber.StatusInternalServerError, MsgProcessingFailure)
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		log.Error().Err(err).Msg("Error processing audio: read upload")
		return fail(c, fiber.StatusInternalServerError, MsgProcessingFailure)
	}

	resp, err := s.processor.Process(c.UserContext(), audio, header.Filename)
	if err != nil {
		status, msg := classify(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Msg("Error processing audio")
		}
		return fail(c, status, msg)
	}
	if resp.FollowUpItems == nil {
		resp.FollowUpItems = []string{}
	}
	return c.JSON(resp)
}

// classify maps a pipeline error onto the status and message the caller sees.
func classify(err error) (int, string) {
	if errors.Is(err, service.ErrMissingInput) {
		return fiber.StatusBadRequest, MsgMissingAudio
	}
	return fiber.StatusInternalServerError, MsgProcessingFailure
}

// handleError renders errors that escape a handler, including oversized
// bodies rejected before routing and recovered panics, as JSON. Oversized
// uploads and unexpected errors report the processing failure; routing
// errors keep their status.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code != fiber.StatusRequestEntityTooLarge && fe.Code < fiber.StatusInternalServerError {
		return fail(c, fe.Code, fe.Message)
	}
	s.logger.Error().Err(err).Str(logging.FieldRequestID, requestID(c)).Str("path", c.Path()).Msg("Error processing audio")
	return fail(c, fiber.StatusInternalServerError, MsgProcessingFailure)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(types.ErrorResponse{Error: msg})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}
