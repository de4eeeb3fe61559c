// Package ui implements the terminal orrery: a bubbletea program that
// renders computed ephemeris frames as a top-down solar system canvas
// with a per-body detail view.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-ephemeris/internal/state"
	"github.com/litescript/ls-ephemeris/internal/timescale"
	"github.com/litescript/ls-ephemeris/internal/version"
)

// ViewMode identifies the active view.
type ViewMode int

const (
	ViewOrrery ViewMode = iota
	ViewDetail
)

// Messages passed between the program and the models.
type (
	// TickMsg drives the compute loop.
	TickMsg time.Time

	// AnimTickMsg drives spinner and shimmer animations.
	AnimTickMsg time.Time

	// DataUpdateMsg carries a fresh state snapshot.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg carries an error into the status line.
	ErrorMsg struct {
		Error error
	}
)

// timeRates are the simulation clock multipliers stepped with , and .
// Index 0 is real time; the top entry runs a month per wall second.
var timeRates = []float64{1, 60, 600, 3600, 21600, 86400, 604800, 2592000}

// headerReserve is the vertical space the header and footer take away
// from the content views.
const headerReserve = 15

// Model is the root bubbletea model. It owns the simulation clock,
// runs the compute loop on ticks, and delegates input to the active
// view.
type Model struct {
	tracker *Tracker
	mgr     *state.Manager

	width  int
	height int
	ready  bool

	viewMode  ViewMode
	animTick  int
	statusMsg string

	// Simulation clock. simTime advances by wall time scaled with
	// timeRates[rateIdx], negated when reversed.
	simTime  timescale.Time
	lastWall time.Time
	rateIdx  int
	reversed bool
	paused   bool

	snapshot state.Snapshot

	orrery OrreryModel
	detail DetailModel
}

// New creates the root model around a prepared tracker and manager.
func New(tracker *Tracker, mgr *state.Manager) Model {
	return Model{
		tracker:  tracker,
		mgr:      mgr,
		viewMode: ViewOrrery,
		simTime:  timescale.Now(),
		orrery:   NewOrreryModel(),
		detail:   NewDetailModel(),
	}
}

// Init implements tea.Model. The immediate tick computes the first
// frame without waiting out a full interval.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return TickMsg(time.Now()) },
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.viewMode = ViewOrrery
		case "2":
			m.viewMode = ViewDetail
			m.syncDetailToFocus()
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2
			if m.viewMode == ViewDetail {
				m.syncDetailToFocus()
			}
		case " ":
			m.paused = !m.paused
		case ".":
			if m.rateIdx < len(timeRates)-1 {
				m.rateIdx++
			}
		case ",":
			if m.rateIdx > 0 {
				m.rateIdx--
			}
		case "x":
			m.reversed = !m.reversed
		case "n":
			m.simTime = timescale.Now()
			m.rateIdx = 0
			m.reversed = false
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.orrery = m.orrery.SetSize(msg.Width, msg.Height-headerReserve)
		m.detail = m.detail.SetSize(msg.Width, msg.Height-headerReserve)

	case TickMsg:
		m.advanceClock(time.Time(msg))
		cmds = append(cmds,
			m.computeCmd(m.simTime),
			tickCmd(m.mgr.RefreshInterval()),
		)

	case AnimTickMsg:
		m.animTick++
		m.detail = m.detail.SetAnimTick(m.animTick)
		cmds = append(cmds, animTickCmd())

	case DataUpdateMsg:
		m.statusMsg = ""
		m.fanOut(msg.Snapshot)

	case BodyChangedMsg:
		m.orrery.SetFocusByName(msg.Name)
		m.detail = m.detail.SetHistory(m.mgr.GetBodyHistory(msg.Name))

	case ErrorMsg:
		m.statusMsg = "error: " + msg.Error.Error()
	}

	return m, tea.Batch(cmds...)
}

// advanceClock moves the simulation clock by the scaled wall time since
// the previous tick.
func (m *Model) advanceClock(now time.Time) {
	if !m.lastWall.IsZero() && !m.paused {
		elapsed := now.Sub(m.lastWall).Seconds()
		rate := timeRates[m.rateIdx]
		if m.reversed {
			rate = -rate
		}
		m.simTime = m.simTime.AddDays(elapsed * rate / 86400)
	}
	m.lastWall = now
}

// fanOut distributes a fresh snapshot to the sub-models.
func (m *Model) fanOut(snap state.Snapshot) {
	m.snapshot = snap
	m.orrery = m.orrery.UpdateData(snap)
	m.detail = m.detail.UpdateData(snap)
	m.detail = m.detail.SetHistory(m.mgr.GetBodyHistory(m.detail.SelectedBody()))
}

// computeCmd evaluates the frame for the given instant off the update
// loop so keystrokes stay responsive during slow chain evaluations.
// The result arrives as a DataUpdateMsg, or as an ErrorMsg when no
// frame could be built at all.
func (m Model) computeCmd(at timescale.Time) tea.Cmd {
	tracker, mgr := m.tracker, m.mgr
	return func() tea.Msg {
		start := time.Now()
		frame, err := tracker.Frame(at)
		mgr.Update(frame, time.Since(start), err)
		if frame == nil && err != nil {
			return ErrorMsg{Error: err}
		}
		return DataUpdateMsg{Snapshot: mgr.Snapshot()}
	}
}

// syncDetailToFocus lands the detail view on the body focused in the
// orrery, so switching tabs keeps both views on the same body.
func (m *Model) syncDetailToFocus() {
	if b := m.orrery.FocusedBody(); b != nil {
		m.detail.SetSelectedBody(b.Name)
		m.detail = m.detail.SetHistory(m.mgr.GetBodyHistory(b.Name))
	}
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewOrrery:
		m.orrery, cmd = m.orrery.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewOrrery:
		content = m.orrery.View()
	case ViewDetail:
		content = m.detail.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	// ASCII art with a smooth truecolor gradient
	logo := []string{
		`  ███████╗██████╗ ██╗  ██╗███████╗███╗   ███╗███████╗██████╗ ██╗███████╗`,
		`  ██╔════╝██╔══██╗██║  ██║██╔════╝████╗ ████║██╔════╝██╔══██╗██║██╔════╝`,
		`  █████╗  ██████╔╝███████║█████╗  ██╔████╔██║█████╗  ██████╔╝██║███████╗`,
		`  ██╔══╝  ██╔═══╝ ██╔══██║██╔══╝  ██║╚██╔╝██║██╔══╝  ██╔══██╗██║╚════██║`,
		`  ███████╗██║     ██║  ██║███████╗██║ ╚═╝ ██║███████╗██║  ██║██║███████║`,
		`  ╚══════╝╚═╝     ╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝╚══════╝╚═╝  ╚═╝╚═╝╚══════╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Solar system ephemerides · Terminal orrery"))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  (c) 2026 litescript.net | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo.
// Horizontal sweep indigo -> blue -> cyan -> teal, fading toward the
// bottom rows.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Indigo (#312E81) -> Blue (#2563EB) -> Cyan (#06B6D4) -> Teal (#2DD4BF)
	var r, g, b float64

	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 49 + t*(37-49)
		g = 46 + t*(99-46)
		b = 129 + t*(235-129)
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 37 + t*(6-37)
		g = 99 + t*(182-99)
		b = 235 + t*(212-235)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 6 + t*(45-6)
		g = 182 + t*(212-182)
		b = 212 + t*(191-212)
	}

	brightness := 1.0 - (yRatio * 0.5)
	r *= brightness
	g *= brightness
	b *= brightness

	ri := int(r)
	gi := int(g)
	bi := int(b)
	if ri > 255 {
		ri = 255
	}
	if gi > 255 {
		gi = 255
	}
	if bi > 255 {
		bi = 255
	}
	if ri < 0 {
		ri = 0
	}
	if gi < 0 {
		gi = 0
	}
	if bi < 0 {
		bi = 0
	}

	return fmt.Sprintf("#%02X%02X%02X", ri, gi, bi)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Orrery", "[2] Body Detail"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#0E7490"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	if m.snapshot.LastError != nil {
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	} else if m.snapshot.Frame != nil {
		status = accentStyle.Render(spinner) + " " + m.renderClock()
		if m.snapshot.ComputeDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.ComputeDuration.Round(time.Microsecond).String() + ")")
		}
	} else {
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Computing ephemerides...")
	}

	var help string
	switch m.viewMode {
	case ViewDetail:
		help = dimStyle.Render("←/→: body | ↑↓: scroll | h: events | space: pause | ,/.: rate | x: reverse | n: now")
	default:
		help = dimStyle.Render("j/k: focus | +/-: zoom | arrows: pan | f: center | l: labels | z: mode | t: stars | space: pause | ,/.: rate")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}

	return footer
}

// renderClock formats the simulation clock and its rate for the footer.
func (m Model) renderClock() string {
	clockStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	utc := m.simTime.UTC().Format("2006-01-02 15:04:05")

	rate := fmt.Sprintf("×%g", timeRates[m.rateIdx])
	if m.reversed {
		rate = "−" + rate
	}
	if m.paused {
		rate = "paused"
	}

	return clockStyle.Render(utc+" UTC") + dimStyle.Render("  "+rate)
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	// A little padding lets the sweep enter and leave smoothly.
	pos := m.animTick % (textLen + 8)

	var result strings.Builder

	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		// Dim cyan base with a brighter crest.
		var r8, g8, b8 int
		if dist <= 1 {
			r8, g8, b8 = 160, 215, 230
		} else if dist <= 3 {
			r8, g8, b8 = 110, 170, 190
		} else if dist <= 5 {
			r8, g8, b8 = 80, 135, 155
		} else {
			r8, g8, b8 = 60, 100, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
