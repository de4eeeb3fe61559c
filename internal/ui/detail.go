package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/report"
	"github.com/litescript/ls-ephemeris/internal/state"
)

// DetailModel shows full observer-relative readouts for one body, with
// recent-history sparklines and the event feed.
type DetailModel struct {
	width      int
	height     int
	selected   string // body name, empty until the first frame arrives
	snapshot   state.Snapshot
	hist       *state.BodyHistory
	scrollY    int
	showEvents bool
	animTick   int // Animation tick for shimmer effects
}

// BodyChangedMsg signals the selected body changed.
type BodyChangedMsg struct {
	Name string
}

// NewDetailModel creates a new body detail model.
func NewDetailModel() DetailModel {
	return DetailModel{
		showEvents: true,
	}
}

// SetSize updates the viewport size.
func (m DetailModel) SetSize(width, height int) DetailModel {
	m.width = width
	m.height = height
	return m
}

// SetAnimTick updates the animation tick for shimmer effects.
func (m DetailModel) SetAnimTick(tick int) DetailModel {
	m.animTick = tick
	return m
}

// UpdateData updates with a new data snapshot.
func (m DetailModel) UpdateData(snapshot state.Snapshot) DetailModel {
	m.snapshot = snapshot

	// Auto-select the first body once frames start arriving
	if m.selected == "" && snapshot.Frame != nil && len(snapshot.Frame.Bodies) > 0 {
		m.selected = snapshot.Frame.Bodies[0].Name
	}

	return m
}

// SetHistory replaces the history series backing the sparklines.
func (m DetailModel) SetHistory(hist *state.BodyHistory) DetailModel {
	m.hist = hist
	return m
}

// SelectedBody returns the currently selected body name.
func (m DetailModel) SelectedBody() string {
	return m.selected
}

// SetSelectedBody selects a body by name and resets the scroll.
func (m *DetailModel) SetSelectedBody(name string) {
	m.selected = name
	m.scrollY = 0
}

// ShowEvents returns whether the event panel is visible.
func (m DetailModel) ShowEvents() bool {
	return m.showEvents
}

// Update handles messages.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.scrollY--
			if m.scrollY < 0 {
				m.scrollY = 0
			}
		case "down", "j":
			m.scrollY++
		case "left", "[":
			old := m.selected
			m.selectPrev()
			if m.selected != old {
				name := m.selected // Capture value explicitly for closure
				cmd = func() tea.Msg {
					return BodyChangedMsg{Name: name}
				}
			}
		case "right", "]":
			old := m.selected
			m.selectNext()
			if m.selected != old {
				name := m.selected // Capture value explicitly for closure
				cmd = func() tea.Msg {
					return BodyChangedMsg{Name: name}
				}
			}
		case "h":
			m.showEvents = !m.showEvents
		}
	}
	return m, cmd
}

// selectedIdx returns the index of the selected body in the current
// frame, or -1.
func (m DetailModel) selectedIdx() int {
	if m.snapshot.Frame == nil {
		return -1
	}
	for i, b := range m.snapshot.Frame.Bodies {
		if b.Name == m.selected {
			return i
		}
	}
	return -1
}

func (m *DetailModel) selectNext() {
	if m.snapshot.Frame == nil || len(m.snapshot.Frame.Bodies) == 0 {
		return
	}
	bodies := m.snapshot.Frame.Bodies
	idx := m.selectedIdx()
	idx++
	if idx >= len(bodies) {
		idx = 0
	}
	m.selected = bodies[idx].Name
	m.scrollY = 0
}

func (m *DetailModel) selectPrev() {
	if m.snapshot.Frame == nil || len(m.snapshot.Frame.Bodies) == 0 {
		return
	}
	bodies := m.snapshot.Frame.Bodies
	idx := m.selectedIdx()
	idx--
	if idx < 0 {
		idx = len(bodies) - 1
	}
	m.selected = bodies[idx].Name
	m.scrollY = 0
}

// View renders the body detail view.
func (m DetailModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderBodySelector())
	b.WriteString("\n\n")

	var selected *state.BodyFrame
	if m.snapshot.Frame != nil {
		selected = m.snapshot.Frame.Body(m.selected)
	}

	if selected == nil {
		b.WriteString("  Computing ephemerides...\n")
		return b.String()
	}

	b.WriteString(m.renderBodyDetails(selected))

	if m.showEvents {
		b.WriteString("\n")
		b.WriteString(m.renderEventsPanel())
	}

	return m.applyScroll(b.String())
}

// applyScroll drops leading content lines past the selector so long
// views stay reachable on short terminals.
func (m DetailModel) applyScroll(content string) string {
	if m.scrollY <= 0 {
		return content
	}

	lines := strings.Split(content, "\n")

	// Keep the selector (first line) pinned while the rest scrolls.
	if len(lines) <= 1 {
		return content
	}
	body := lines[1:]

	offset := m.scrollY
	if offset > len(body)-1 {
		offset = len(body) - 1
	}

	return lines[0] + "\n" + strings.Join(body[offset:], "\n")
}

func (m DetailModel) renderBodySelector() string {
	var b strings.Builder

	selectorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	unselectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Padding(0, 1)

	b.WriteString(selectorStyle.Render("Body: "))
	b.WriteString("← ")

	if m.snapshot.Frame != nil {
		for _, body := range m.snapshot.Frame.Bodies {
			if body.Name == m.selected {
				b.WriteString(selectedStyle.Render(body.Name))
			} else {
				b.WriteString(unselectedStyle.Render(body.Name))
			}
			b.WriteString(" ")
		}
	}

	b.WriteString("→")

	return b.String()
}

func (m DetailModel) renderBodyDetails(body *state.BodyFrame) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Width(16)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	b.WriteString(headerStyle.Render(body.Name))
	b.WriteString(dimStyle.Render("  (" + body.Kind.String() + ")"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", len(body.Name)+4))
	b.WriteString("\n\n")

	if body.DistanceAU <= 0 {
		b.WriteString(dimStyle.Render("This body is the observer location."))
		b.WriteString("\n")
		return b.String()
	}

	// Apparent place
	b.WriteString(labelStyle.Render("RA:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s  (%.4f°)", report.FormatRA(body.RADeg), body.RADeg)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Dec:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s  (%+.4f°)", report.FormatDec(body.DecDeg), body.DecDeg)))
	b.WriteString("\n\n")

	// Range
	b.WriteString(labelStyle.Render("Distance:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.6f AU  (%s)", body.DistanceAU, report.FormatDistance(astro.AUToKm(body.DistanceAU)))))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Light Time:"))
	b.WriteString(valueStyle.Render(astro.FormatLightTime(body.LightTimeSec)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Range Rate:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%+.3f km/s", body.RangeRateKmS)))
	b.WriteString("\n")

	// Local horizon, present only for surface-site frames
	if body.HasHorizon {
		b.WriteString(labelStyle.Render("Azimuth:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f°", body.AzDeg)))
		b.WriteString("\n")
		elStyle := lipgloss.NewStyle().Foreground(elevationTierColor(astro.GetElevationTier(body.ElDeg)))
		b.WriteString(labelStyle.Render("Elevation:"))
		b.WriteString(elStyle.Render(fmt.Sprintf("%+.2f°", body.ElDeg)))
		b.WriteString("\n")
	}

	// History sparklines
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Distance Trend"))
	b.WriteString("\n")
	b.WriteString(m.renderDistanceSparkline(body))
	b.WriteString("\n")

	if body.HasHorizon {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Elevation"))
		b.WriteString("\n")
		b.WriteString(m.renderElevationSparkline(body))
		b.WriteString("\n")
	}

	return b.String()
}

// SparklineWidth is the fixed width of the history sparklines.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkColorLow is the color for the bottom of a sparkline (dark blue).
var sparkColorLow = [3]uint8{0x1b, 0x2b, 0x4b}

// sparkColorMid is the mid-range color (blue).
var sparkColorMid = [3]uint8{0x34, 0x78, 0xc0}

// sparkColorHigh is the color for the top of a sparkline (cyan).
var sparkColorHigh = [3]uint8{0x8b, 0xe9, 0xff}

// renderDistanceSparkline renders the recent distance history, scaled
// to the min/max of the retained window.
func (m DetailModel) renderDistanceSparkline(body *state.BodyFrame) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if m.hist == nil || len(m.hist.DistanceAU) == 0 {
		return m.renderShimmerSparkline("Collecting history...")
	}

	samples := resampleSeries(m.hist.DistanceAU, SparklineWidth)
	if len(samples) == 0 {
		return dimStyle.Render("No history yet")
	}

	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo

	var sb strings.Builder
	for _, v := range samples {
		t := 0.5
		if span > 0 {
			t = (v - lo) / span
		}
		sb.WriteString(renderSparkCell(t))
	}

	nowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	sb.WriteString(nowStyle.Render(fmt.Sprintf(" now: %.4f AU", body.DistanceAU)))

	return sb.String()
}

// renderElevationSparkline renders the elevation history scaled over
// the 0-90 degree range.
func (m DetailModel) renderElevationSparkline(body *state.BodyFrame) string {
	if m.hist == nil || len(m.hist.ElevationDeg) == 0 {
		return m.renderShimmerSparkline("Collecting history...")
	}

	samples := resampleSeries(m.hist.ElevationDeg, SparklineWidth)
	if len(samples) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		return dimStyle.Render("No horizon data")
	}

	var sb strings.Builder
	for _, elev := range samples {
		// Clamp to valid range
		if elev < 0 {
			elev = 0
		}
		if elev > 90 {
			elev = 90
		}

		// 0° is the lowest block, 90° the highest
		sb.WriteString(renderSparkCell(elev / 90.0))
	}

	nowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	sb.WriteString(nowStyle.Render(fmt.Sprintf(" now: %.0f°", body.ElDeg)))

	return sb.String()
}

// elevationTierColor maps an elevation tier to the detail palette.
func elevationTierColor(tier astro.ElevationTier) lipgloss.Color {
	switch tier {
	case astro.ElevationHigh:
		return lipgloss.Color("46")
	case astro.ElevationMedium:
		return lipgloss.Color("252")
	case astro.ElevationLow:
		return lipgloss.Color("208")
	default:
		return lipgloss.Color("240")
	}
}

// renderSparkCell renders one sparkline cell for a normalized value.
func renderSparkCell(t float64) string {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	blockIdx := int(t * 7.0)
	if blockIdx > 7 {
		blockIdx = 7
	}
	blockChar := sparklineBlocks[blockIdx]

	r, g, b := interpolateSparkColor(t)
	color := fmt.Sprintf("#%02x%02x%02x", r, g, b)

	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(blockChar))
}

// renderShimmerSparkline renders a loading animation sparkline.
func (m DetailModel) renderShimmerSparkline(msg string) string {
	var sb strings.Builder

	// Shimmer wave driven by animTick
	offset := m.animTick % SparklineWidth
	for i := 0; i < SparklineWidth; i++ {
		dist := (i - offset + SparklineWidth) % SparklineWidth
		var gray int
		if dist < 8 {
			gray = 60 + dist*8
		} else {
			gray = 60
		}
		color := fmt.Sprintf("#%02x%02x%02x", gray, gray, gray)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("▄"))
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sb.WriteString(" ")
	sb.WriteString(dimStyle.Render(msg))

	return sb.String()
}

// interpolateSparkColor returns RGB color for a normalized value t in [0, 1].
// Gradient: low (dark blue) → mid (blue) → high (cyan).
func interpolateSparkColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	var r, g, b uint8
	if t < 0.5 {
		s := t * 2 // Scale to 0-1
		r = uint8(float64(sparkColorLow[0])*(1-s) + float64(sparkColorMid[0])*s)
		g = uint8(float64(sparkColorLow[1])*(1-s) + float64(sparkColorMid[1])*s)
		b = uint8(float64(sparkColorLow[2])*(1-s) + float64(sparkColorMid[2])*s)
	} else {
		s := (t - 0.5) * 2 // Scale to 0-1
		r = uint8(float64(sparkColorMid[0])*(1-s) + float64(sparkColorHigh[0])*s)
		g = uint8(float64(sparkColorMid[1])*(1-s) + float64(sparkColorHigh[1])*s)
		b = uint8(float64(sparkColorMid[2])*(1-s) + float64(sparkColorHigh[2])*s)
	}

	return r, g, b
}

// resampleSeries averages a time series down to a fixed number of buckets.
func resampleSeries(points []state.TimePoint, width int) []float64 {
	if len(points) == 0 || width <= 0 {
		return nil
	}

	if len(points) < width {
		width = len(points)
	}

	result := make([]float64, width)
	perBucket := float64(len(points)) / float64(width)

	for i := 0; i < width; i++ {
		startIdx := int(float64(i) * perBucket)
		endIdx := int(float64(i+1) * perBucket)
		if endIdx > len(points) {
			endIdx = len(points)
		}
		if startIdx >= endIdx {
			startIdx = endIdx - 1
		}
		if startIdx < 0 {
			startIdx = 0
		}

		sum := 0.0
		count := 0
		for j := startIdx; j < endIdx; j++ {
			sum += points[j].Value
			count++
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}

	return result
}

// renderEventsPanel renders the recent event feed.
func (m DetailModel) renderEventsPanel() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	riseStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	setStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	plainStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	b.WriteString(headerStyle.Render("Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) > 8 {
		events = events[len(events)-8:]
	}

	if len(events) == 0 {
		b.WriteString(dimStyle.Render("  No events yet"))
		b.WriteString("\n")
		return b.String()
	}

	for _, ev := range events {
		var typeStyle lipgloss.Style
		switch ev.Type {
		case state.EventRise:
			typeStyle = riseStyle
		case state.EventSet:
			typeStyle = setStyle
		case state.EventComputeError:
			typeStyle = errStyle
		default:
			typeStyle = plainStyle
		}

		b.WriteString("  ")
		b.WriteString(timeStyle.Render(ev.Timestamp.Format("15:04:05")))
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(fmt.Sprintf("%-13s", ev.Type)))

		var parts []string
		if ev.Body != "" {
			parts = append(parts, ev.Body)
		}
		if ev.Detail != "" {
			parts = append(parts, ev.Detail)
		}
		if ev.Site != "" {
			parts = append(parts, "("+ev.Site+")")
		}
		b.WriteString(plainStyle.Render(strings.Join(parts, " ")))
		b.WriteString("\n")
	}

	return b.String()
}
