// Package overlay renders streamed summary output as a floating-panel
// style block on the terminal, the counterpart of the in-page overlay the
// summarize flow targets.
package overlay

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/luochenhu/gh-issuelens/internal/bus"
)

const defaultWidth = 72

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// clearScreen homes the cursor and wipes the previous frame, so each
// update replaces the panel rather than appending below it.
const clearScreen = "\033[H\033[2J"

// Presenter consumes bus messages and re-renders its entire content
// region on every received fragment. It relies on receiving the full
// cumulative text each time, not deltas.
type Presenter struct {
	out   io.Writer
	width int
	reply *bus.Bus
}

// New creates a presenter writing to out. A width of 0 uses the default
// panel width. reply, when non-nil, carries readiness notifications back
// to the coordinator.
func New(out io.Writer, width int, reply *bus.Bus) *Presenter {
	if width <= 0 {
		width = defaultWidth
	}
	return &Presenter{out: out, width: width, reply: reply}
}

// Run consumes messages until the channel closes. Call from its own
// goroutine.
func (p *Presenter) Run(messages <-chan bus.Message) {
	p.announceReady()

	for msg := range messages {
		switch m := msg.(type) {
		case bus.Ping:
			p.announceReady()
		case bus.ShowSummary:
			fmt.Fprint(p.out, clearScreen+p.Render(m.Summary, false)+"\n")
		case bus.ShowError:
			fmt.Fprint(p.out, clearScreen+p.Render(m.Message, true)+"\n")
		}
	}
}

func (p *Presenter) announceReady() {
	if p.reply != nil {
		p.reply.Publish(bus.ContentReady{})
	}
}

// Render produces one full panel frame for the given cumulative text.
func (p *Presenter) Render(text string, isError bool) string {
	body := wordwrap.String(text, p.width-4)
	if isError {
		body = errorStyle.Render(body)
	}

	content := titleStyle.Render("AI Summary") + "\n\n" + body
	return panelStyle.Width(p.width).Render(content)
}
