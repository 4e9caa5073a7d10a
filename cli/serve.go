package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrsingh-rishi/voice-notes/llm"
	"github.com/mrsingh-rishi/voice-notes/server"
	"github.com/mrsingh-rishi/voice-notes/service"
	"github.com/mrsingh-rishi/voice-notes/stt"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the transcription server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}

			client := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
			transcriber, err := stt.NewOpenAIClient(client, cfg.STTModel)
			if err != nil {
				return err
			}
			analyzer, err := llm.NewOpenAIClient(client, cfg.LLMModel, cfg.LLMTemperature)
			if err != nil {
				return err
			}
			pipeline, err := service.NewPipeline(transcriber, analyzer)
			if err != nil {
				return err
			}
			srv, err := server.New(pipeline, server.Config{BodyLimit: cfg.BodyLimit()})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info().Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from LISTEN_ADDR)")
	return cmd
}
