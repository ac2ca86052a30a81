package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-isatty"

	"github.com/dimfu/clacktap/internal/metronome"
	"github.com/dimfu/clacktap/internal/scheduler"
)

// renderDelay coalesces bursts of state changes (a beat and its flash land
// together) into one redraw.
const renderDelay = 5 * time.Millisecond

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	beatStyle   = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = beatStyle.Reverse(true)
	accentStyle = activeStyle.Bold(true).Foreground(lipgloss.Color("9"))
	flashStyle  = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("9")).Foreground(lipgloss.Color("15")).Padding(0, 2)
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer draws metronome state. On a terminal it redraws a live block in
// place; otherwise it prints one line whenever the summary changes.
type Renderer struct {
	live     *uilive.Writer
	out      io.Writer
	help     string
	debounce func(func())

	mu    sync.Mutex
	state metronome.State
	last  string
}

func NewRenderer(out io.Writer, interactive bool, help string) *Renderer {
	r := &Renderer{
		out:      out,
		help:     help,
		debounce: debounce.New(renderDelay),
	}
	if interactive {
		r.live = uilive.New()
		r.live.Out = out
	}
	return r
}

// Update records s and schedules a redraw. It is safe to call from the event
// loop; drawing happens on the debounce timer.
func (r *Renderer) Update(s metronome.State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
	r.debounce(r.Flush)
}

// Flush draws the latest state immediately.
func (r *Renderer) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.live != nil {
		fmt.Fprint(r.live, View(r.state, r.help))
		r.live.Flush()
		return
	}

	line := Line(r.state)
	if line == r.last {
		return
	}
	r.last = line
	fmt.Fprintln(r.out, line)
}

// View is the multi-line interactive display.
func View(s metronome.State, help string) string {
	var b strings.Builder

	title := titleStyle.Render(fmt.Sprintf("BPM: %d", s.Tempo))
	b.WriteString(title + "  " + s.Measure.String())
	if s.Muted {
		b.WriteString("  [muted]")
	}
	if s.VisualAid {
		b.WriteString("  [visual]")
	}
	if s.Flash {
		b.WriteString("  " + flashStyle.Render("●"))
	}
	b.WriteString("\n\n")

	cells := make([]string, 0, int(s.Measure))
	for i := 0; i < int(s.Measure); i++ {
		label := fmt.Sprint(i + 1)
		switch {
		case i == s.Beat && i == 0:
			cells = append(cells, accentStyle.Render(label))
		case i == s.Beat:
			cells = append(cells, activeStyle.Render(label))
		default:
			cells = append(cells, beatStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	status := "stopped"
	if s.Playing {
		status = "playing"
	}
	b.WriteString("\n\n" + status + "\n")
	if help != "" {
		b.WriteString(hintStyle.Render(help) + "\n")
	}
	return b.String()
}

// Line is the one-line summary used when output is not a terminal.
func Line(s metronome.State) string {
	beat := "-"
	if s.Beat != scheduler.NotStarted {
		beat = fmt.Sprint(s.Beat + 1)
		if s.Accented {
			beat += "!"
		}
	}
	status := "stopped"
	if s.Playing {
		status = "playing"
	}
	return fmt.Sprintf("bpm=%d measure=%s beat=%s %s", s.Tempo, s.Measure, beat, status)
}
