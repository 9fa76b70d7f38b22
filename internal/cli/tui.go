package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fractile/fractile/pkg/fractal"
	"github.com/fractile/fractile/pkg/io"
)

// Editor tuning.
const (
	channelStep   = 0.05            // per-keypress channel/decay increment
	previewDepth  = 5               // preview renders at 2^5 = 32×32
	statusTimeout = 3 * time.Second // how long status messages linger
)

// channelNames indexes the editable color channels.
var channelNames = [4]string{"R", "G", "B", "A"}

// symmetryCycle is the order the s key steps through.
var symmetryCycle = []fractal.Symmetry{
	fractal.Identity(),
	fractal.Rotate90(),
	fractal.Rotate270(),
	fractal.FlipH(),
	fractal.FlipV(),
}

// Editor styles.
var (
	styleCellBorder   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorDim).Padding(0, 1)
	styleCellSelected = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(colorCyan).Padding(0, 1)
	styleChannelSel   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleStatus       = lipgloss.NewStyle().Foreground(colorGreen)
)

// statusExpiredMsg clears a timed status message. The sequence number keeps a
// stale timer from wiping a newer message.
type statusExpiredMsg struct {
	seq int
}

// editorModel is the bubbletea model for the pattern editor.
type editorModel struct {
	path    string
	pattern fractal.Pattern

	iterations int
	decay      float64

	cursor  int // selected cell, row-major 0..3
	channel int // selected color channel 0..3

	status    string
	statusSeq int
	dirty     bool
}

// newEditorModel creates an editor over the given pattern file.
func newEditorModel(path string, p fractal.Pattern, iterations int, decay float64) editorModel {
	return editorModel{
		path:       path,
		pattern:    p,
		iterations: iterations,
		decay:      decay,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "left", "h":
			m.cursor = m.cursor/2*2 + 0
		case "right", "l":
			m.cursor = m.cursor/2*2 + 1
		case "up", "k":
			m.cursor = m.cursor % 2
		case "down", "j":
			m.cursor = m.cursor%2 + 2

		case "tab":
			m.channel = (m.channel + 1) % 4
		case "shift+tab":
			m.channel = (m.channel + 3) % 4

		case "+", "=":
			m.adjustChannel(channelStep)
		case "-", "_":
			m.adjustChannel(-channelStep)

		case "s":
			m.cycleSymmetry()

		case "]":
			m.decay = clamp01(m.decay + channelStep)
		case "[":
			m.decay = clamp01(m.decay - channelStep)

		case "}":
			if m.iterations < 11 {
				m.iterations++
			}
		case "{":
			if m.iterations > 1 {
				m.iterations--
			}

		case "w":
			return m.save()
		}
	}
	return m, nil
}

// adjustChannel nudges the selected channel of the selected cell, clamped to
// the validator's [0,1] domain so the editor can never produce an invalid
// color.
func (m *editorModel) adjustChannel(delta float64) {
	px := &m.pattern[m.cursor/2][m.cursor%2]
	switch m.channel {
	case 0:
		px.Color.R = clamp01(px.Color.R + delta)
	case 1:
		px.Color.G = clamp01(px.Color.G + delta)
	case 2:
		px.Color.B = clamp01(px.Color.B + delta)
	case 3:
		px.Color.A = clamp01(px.Color.A + delta)
	}
	m.dirty = true
}

// cycleSymmetry steps the selected cell to the next named symmetry.
func (m *editorModel) cycleSymmetry() {
	px := &m.pattern[m.cursor/2][m.cursor%2]
	next := 0
	for i, s := range symmetryCycle {
		if s == px.Sym {
			next = (i + 1) % len(symmetryCycle)
			break
		}
	}
	px.Sym = symmetryCycle[next]
	m.dirty = true
}

// save writes the pattern and arms a timed status message.
func (m editorModel) save() (tea.Model, tea.Cmd) {
	if err := io.ExportJSON(m.pattern, m.path); err != nil {
		m.status = "save failed: " + err.Error()
	} else {
		m.status = "saved " + m.path
		m.dirty = false
	}
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

func (m editorModel) View() string {
	var b strings.Builder

	title := "Pattern Editor — " + m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑↓←→ cell  ⇥ channel  +/- adjust  s symmetry  [/] decay  {/} depth  w save  q quit"))
	b.WriteString("\n\n")

	grid := m.renderGrid()
	preview := m.renderPreview()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, "   ", preview))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s %s (%d×%d)   %s %s\n",
		styleLabel.Render("iterations:"), StyleHighlight.Render(fmt.Sprintf("%d", m.iterations)),
		1<<m.iterations, 1<<m.iterations,
		styleLabel.Render("decay:"), StyleHighlight.Render(fmt.Sprintf("%.2f", m.decay))))

	if m.status != "" {
		b.WriteString(styleStatus.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

// renderGrid draws the 2×2 cell editor with per-channel readouts.
func (m editorModel) renderGrid() string {
	cells := make([]string, 4)
	for i := 0; i < 4; i++ {
		px := m.pattern[i/2][i%2]
		q := px.Color.NRGBA()
		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", q.R, q.G, q.B))).
			Render(strings.Repeat(" ", 10))

		var channels [4]string
		values := [4]float64{px.Color.R, px.Color.G, px.Color.B, px.Color.A}
		for ch := 0; ch < 4; ch++ {
			s := fmt.Sprintf("%s %.2f", channelNames[ch], values[ch])
			if i == m.cursor && ch == m.channel {
				s = styleChannelSel.Render(s)
			}
			channels[ch] = s
		}

		body := swatch + "\n" + strings.Join(channels[:], "  ") + "\n" + StyleDim.Render(px.Sym.String())
		if i == m.cursor {
			cells[i] = styleCellSelected.Render(body)
		} else {
			cells[i] = styleCellBorder.Render(body)
		}
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, cells[0], cells[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cells[2], cells[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// renderPreview draws a live half-block render of the current pattern. Each
// character covers two vertical pixels: foreground paints the top row,
// background the bottom.
func (m editorModel) renderPreview() string {
	if err := fractal.Validate(m.pattern); err != nil {
		return StyleWarning.Render("invalid pattern")
	}
	grid := fractal.Generate(m.pattern, previewDepth, m.decay)
	side := grid.Side()

	var b strings.Builder
	for y := 0; y < side; y += 2 {
		for x := 0; x < side; x++ {
			top := grid.At(y, x).NRGBA()
			bot := grid.At(y+1, x).NRGBA()
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bot.R, bot.G, bot.B))).
				Render("▀"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
