// Package cli wires the voicenotes commands.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrsingh-rishi/voice-notes/config"
	"github.com/mrsingh-rishi/voice-notes/logging"
	"github.com/mrsingh-rishi/voice-notes/notes"
)

// app carries state shared by every command.
type app struct {
	configFile string
	cfg        *config.Config
	confirm    notes.ConfirmFunc
	logOutput  io.Writer
}

// NewRootCmd builds the voicenotes command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{confirm: confirmDelete})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "voicenotes",
		Short:         "Transcribe conversations and keep AI summaries with follow-up items",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			out := a.logOutput
			if out == nil {
				out = cmd.ErrOrStderr()
			}
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: out})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(a),
		newUploadCmd(a),
		newRecordCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func (a *app) openBook() (*notes.Book, error) {
	return notes.Open(notes.NewFileStorage(a.cfg.NotesFile))
}
