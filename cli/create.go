package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrsingh-rishi/voice-notes/client"
	"github.com/mrsingh-rishi/voice-notes/model"
	"github.com/mrsingh-rishi/voice-notes/notes"
	"github.com/mrsingh-rishi/voice-notes/output"
	"github.com/mrsingh-rishi/voice-notes/stt"
	"github.com/mrsingh-rishi/voice-notes/types"
)

// ErrNotAudio is returned by upload for files that do not sniff as audio.
var ErrNotAudio = errors.New("not an audio file")

type noteFlags struct {
	title      string
	clientName string
}

func (f *noteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "note title (derived from the summary when empty)")
	cmd.Flags().StringVar(&f.clientName, "client", "", "client name")
}

func newUploadCmd(a *app) *cobra.Command {
	var flags noteFlags
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Transcribe and analyze an audio file, then save it as a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			mt, err := mimetype.DetectFile(path)
			if err != nil {
				return errors.Wrap(err, "read audio file")
			}
			if !stt.IsAudio(mt) {
				return errors.Wrapf(ErrNotAudio, "%s is %s", filepath.Base(path), mt.String())
			}

			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(err, "open audio file")
			}
			defer f.Close()

			c, err := client.New(a.cfg.ServerURL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Processing...")
			resp, err := c.Transcribe(cmd.Context(), client.Upload{
				Audio:      f,
				Filename:   filepath.Base(path),
				Title:      flags.title,
				ClientName: flags.clientName,
			})
			if err != nil {
				return errors.Wrap(err, "error processing file, please try again")
			}

			return a.saveNote(cmd.OutOrStdout(), flags, resp, "")
		},
	}
	flags.register(cmd)
	return cmd
}

func newRecordCmd(a *app) *cobra.Command {
	var (
		flags     noteFlags
		filename  string
		chunkSize int
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Stream audio from stdin to the server while it is captured, then save it as a note",
		Long: "Reads raw audio from stdin until EOF, for example:\n" +
			"  ffmpeg -f pulse -i default -f webm - | voicenotes record --client Acme",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			capture, err := os.CreateTemp("", "voicenotes-*"+filepath.Ext(filename))
			if err != nil {
				return errors.Wrap(err, "create capture file")
			}
			defer capture.Close()

			c, err := client.New(a.cfg.ServerURL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Recording... (end input to stop)")
			resp, err := c.Stream(cmd.Context(), io.TeeReader(cmd.InOrStdin(), capture), client.StreamOptions{
				Filename:   filename,
				Title:      flags.title,
				ClientName: flags.clientName,
				ChunkSize:  chunkSize,
			})
			if err != nil {
				log.Warn().Str("capture", capture.Name()).Msg("recording kept for a manual retry with upload")
				return errors.Wrap(err, "error processing audio, please try again")
			}

			return a.saveNote(cmd.OutOrStdout(), flags, resp, "file://"+filepath.ToSlash(capture.Name()))
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&filename, "filename", "recording.wav", "name sent to the server; its extension names the container")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", client.DefaultChunkSize, "bytes per streamed frame")
	return cmd
}

func (a *app) saveNote(out io.Writer, flags noteFlags, resp types.TranscribeResponse, audioURL string) error {
	book, err := a.openBook()
	if err != nil {
		return err
	}
	note, err := book.Create(notes.Draft{
		Title:         flags.title,
		ClientName:    flags.clientName,
		Transcript:    resp.Transcript,
		Summary:       resp.Summary,
		FollowUpItems: resp.FollowUpItems,
		AudioURL:      audioURL,
	})
	if err != nil {
		return err
	}
	return printExpanded(out, note)
}

func printExpanded(out io.Writer, note model.Note) error {
	r := output.NewRenderer(out)
	r.Toggle(note.ID)
	_, err := fmt.Fprintln(out, r.Card(note))
	return err
}
