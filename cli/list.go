package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mrsingh-rishi/voice-notes/model"
	"github.com/mrsingh-rishi/voice-notes/output"
)

func newListCmd(a *app) *cobra.Command {
	var expand bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.openBook()
			if err != nil {
				return err
			}
			items := book.List()
			r := output.NewRenderer(cmd.OutOrStdout())
			if expand {
				r.ExpandAll(items)
			}
			return r.List(items)
		},
	}
	cmd.Flags().BoolVarP(&expand, "expand", "e", false, "show summary, follow-up items and transcript")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one note expanded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.openBook()
			if err != nil {
				return err
			}
			note, err := book.Get(args[0])
			if err != nil {
				return errors.Wrap(err, args[0])
			}
			return printExpanded(cmd.OutOrStdout(), note)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a note after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.openBook()
			if err != nil {
				return err
			}
			confirm := a.confirm
			if yes {
				confirm = nil
			}
			deleted, err := book.Delete(args[0], confirm)
			if err != nil {
				return err
			}
			if deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing deleted\n")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirmDelete asks on the terminal before a note is removed.
func confirmDelete(note model.Note) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title("Are you sure you want to delete this note?").
		Description(fmt.Sprintf("%s (%s)", note.Title, note.ID)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
