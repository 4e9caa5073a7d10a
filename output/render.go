// Package output renders the note collection for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsingh-rishi/voice-notes/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("7")).
			Padding(0, 1)
)

// Renderer writes notes to an io.Writer. Expanded holds the ids shown
// with summary, follow-up items and transcript.
type Renderer struct {
	Out      io.Writer
	Expanded map[string]bool
	Width    int
}

// NewRenderer returns a Renderer with every note collapsed.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{Out: out, Expanded: map[string]bool{}, Width: 80}
}

// Toggle flips the expansion state of id.
func (r *Renderer) Toggle(id string) {
	if r.Expanded[id] {
		delete(r.Expanded, id)
		return
	}
	r.Expanded[id] = true
}

// ExpandAll marks every note expanded.
func (r *Renderer) ExpandAll(items []model.Note) {
	for _, n := range items {
		r.Expanded[n.ID] = true
	}
}

// List renders the whole collection, newest first.
func (r *Renderer) List(items []model.Note) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(r.Out, metaStyle.Render("No notes yet. Upload or record a conversation to create one."))
		return err
	}
	header := titleStyle.Render("All Notes") + "\n" + metaStyle.Render("Your conversation transcripts and analysis")
	if _, err := fmt.Fprintln(r.Out, header); err != nil {
		return err
	}
	for _, n := range items {
		if _, err := fmt.Fprintln(r.Out, r.Card(n)); err != nil {
			return err
		}
	}
	return nil
}

// Card renders one note, collapsed or expanded.
func (r *Renderer) Card(n model.Note) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(displayTitle(n)))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(meta(n)))

	if r.Expanded[n.ID] {
		b.WriteString("\n\n")
		b.WriteString(headingStyle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(n.Summary)

		if len(n.FollowUpItems) > 0 {
			b.WriteString("\n\n")
			b.WriteString(headingStyle.Render("Follow-up Items"))
			for _, item := range n.FollowUpItems {
				b.WriteString("\n  [ ] ")
				b.WriteString(item)
			}
		}

		b.WriteString("\n\n")
		b.WriteString(headingStyle.Render("Full Transcript"))
		b.WriteString("\n")
		b.WriteString(n.Transcript)

		if n.AudioURL != "" {
			b.WriteString("\n\n")
			b.WriteString(metaStyle.Render("Audio: " + n.AudioURL))
		}
	}

	style := cardStyle
	if r.Width > 0 {
		style = style.Width(r.Width)
	}
	return style.Render(b.String())
}

func displayTitle(n model.Note) string {
	if n.Title == "" {
		return "Untitled Note"
	}
	return n.Title
}

func meta(n model.Note) string {
	parts := []string{"#" + n.ID, formatDate(n.CreatedAt)}
	if n.ClientName != "" {
		parts = append(parts, n.ClientName)
	}
	parts = append(parts, fmt.Sprintf("%d follow-up items", len(n.FollowUpItems)))
	return strings.Join(parts, "  ·  ")
}

func formatDate(createdAt string) string {
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Local().Format("Jan 2, 2006")
}
