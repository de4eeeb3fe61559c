package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/report"
	"github.com/litescript/ls-ephemeris/internal/state"
)

// LabelMode controls how body labels are displayed on the canvas.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Label only the focused body
	LabelAll                      // Label everything
)

// OrreryModel renders a top-down view of the solar system.
type OrreryModel struct {
	width    int
	height   int
	snapshot state.Snapshot

	// View state
	focusIdx   int     // Index into the frame's body list (0 = Sun)
	zoomLevel  int     // Index into zoomLevels
	panX       float64 // Pan offset in display units
	panY       float64
	scaleMode  astro.ScaleMode
	labelMode  LabelMode
	userPanned bool // True if user has manually panned (disables auto-center on zoom)
	showStars  bool // Whether to show background starfield
}

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

// NewOrreryModel creates a new orrery view model.
func NewOrreryModel() OrreryModel {
	return OrreryModel{
		focusIdx:  0, // Start focused on the Sun
		zoomLevel: 3, // Index of 1.0 in zoomLevels
		scaleMode: astro.DefaultProjectionConfig().Mode,
		labelMode: LabelFocused,
		showStars: true,
	}
}

// scale returns the current zoom scale.
func (m OrreryModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// bodies returns the current frame's body list, or nil before the
// first frame arrives.
func (m OrreryModel) bodies() []state.BodyFrame {
	if m.snapshot.Frame == nil {
		return nil
	}
	return m.snapshot.Frame.Bodies
}

// SetSize updates the viewport size.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new snapshot.
func (m OrreryModel) UpdateData(snapshot state.Snapshot) OrreryModel {
	m.snapshot = snapshot
	return m
}

// Update handles input messages.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Focus navigation (j/k, or [/])
		case "j", "[":
			m.focusPrev()
		case "k", "]":
			m.focusNext()

		// Viewport panning (arrow keys - no conflict with global keys)
		case "up":
			m.panY -= 0.1 / m.scale()
			m.userPanned = true
		case "down":
			m.panY += 0.1 / m.scale()
			m.userPanned = true
		case "left":
			m.panX -= 0.1 / m.scale()
			m.userPanned = true
		case "right":
			m.panX += 0.1 / m.scale()
			m.userPanned = true
		case "c":
			m.panX, m.panY = 0, 0 // Center on Sun
			m.userPanned = false

		// Find/focus - center on selected body
		case "f":
			m.centerOnFocused()
			m.userPanned = false

		// Zoom (discrete levels) - only auto-center if user hasn't panned
		case "+", "=":
			if m.zoomLevel < len(zoomLevels)-1 {
				m.zoomLevel++
				if !m.userPanned {
					m.centerOnFocused()
				}
			}
		case "-":
			if m.zoomLevel > 0 {
				m.zoomLevel--
				if !m.userPanned {
					m.centerOnFocused()
				}
			}
		case "0":
			// Reset to 1.0x zoom
			m.zoomLevel = 3
			if !m.userPanned {
				m.centerOnFocused()
			}

		// Scale mode toggle (z for "zoom mode" - no conflict)
		case "z":
			m.scaleMode = (m.scaleMode + 1) % 3
			if !m.userPanned {
				m.centerOnFocused()
			}

		// Label mode toggle
		case "l":
			m.labelMode = (m.labelMode + 1) % 3

		// Starfield toggle
		case "t":
			m.showStars = !m.showStars

		// Reset everything
		case "r":
			m.panX, m.panY = 0, 0
			m.zoomLevel = 3
			m.userPanned = false
		}
	}
	return m, nil
}

func (m *OrreryModel) focusNext() {
	bodies := m.bodies()
	if len(bodies) == 0 {
		return
	}
	m.focusIdx++
	if m.focusIdx >= len(bodies) {
		m.focusIdx = 0
	}
	m.centerOnFocused()
	m.userPanned = false
}

func (m *OrreryModel) focusPrev() {
	bodies := m.bodies()
	if len(bodies) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(bodies) - 1
	}
	m.centerOnFocused()
	m.userPanned = false
}

// centerOnFocused pans the view to center on the currently focused body.
func (m *OrreryModel) centerOnFocused() {
	bodies := m.bodies()
	if m.focusIdx <= 0 || m.focusIdx >= len(bodies) {
		// Sun sits at the origin, just reset pan
		m.panX, m.panY = 0, 0
		return
	}

	body := bodies[m.focusIdx]
	cfg := astro.ProjectionConfig{
		Scale: m.scale(),
		Mode:  m.scaleMode,
	}

	// panX = -proj.X and panY = -proj.Y centers the body on screen
	proj := astro.ProjectEclipticTopDown(body.Helio, cfg)
	m.panX = -proj.X
	m.panY = -proj.Y
}

// View renders the orrery view.
func (m OrreryModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orrery view"
	}
	if m.snapshot.Frame == nil {
		return "\n  Computing ephemerides..."
	}

	canvas := m.buildCanvas()
	hud := m.renderHUD()

	return lipgloss.JoinVertical(lipgloss.Left, canvas, hud)
}

// bodyPos tracks a body's screen position for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	kind      state.BodyKind
	isFocused bool
}

// buildCanvas renders the solar system to a string canvas.
func (m OrreryModel) buildCanvas() string {
	// Reserve space for the HUD
	canvasH := m.height - 5
	if canvasH < 5 {
		canvasH = 5
	}
	canvasW := m.width

	// Character grid
	grid := make([][]rune, canvasH)
	for y := range grid {
		grid[y] = make([]rune, canvasW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	// Screen center
	screenCenterX := canvasW / 2
	screenCenterY := canvasH / 2

	scale := m.scale()
	cfg := astro.ProjectionConfig{
		Scale: scale,
		Mode:  m.scaleMode,
	}

	// Compute display scaling factor
	// Map log(30 AU + 1) ~ 1.5 to fit in half the canvas
	maxDisplayR := float64(min(screenCenterX, screenCenterY*2)) * 0.9
	displayScale := maxDisplayR / 1.5 * scale

	// Pan offset moves the heliocentric origin on screen
	// Positive panX moves origin right, positive panY moves origin up (screen Y is inverted)
	originX := screenCenterX + int(m.panX*displayScale)
	originY := screenCenterY - int(m.panY*displayScale)

	// Starfield background goes in before everything else
	if m.showStars {
		m.drawStarfield(grid, originX, originY, displayScale, cfg)
	}

	// Orbit rings centered on the panned origin
	m.drawOrbitRings(grid, originX, originY, displayScale, cfg)

	// Track body positions for labels
	var positions []bodyPos

	// Focused glyph is re-stamped after everything else so a close
	// neighbor (the moon over the earth at low zoom) cannot hide it.
	focusX, focusY := -1, -1
	var focusGlyph rune

	// Draw bodies (except the sun - drawn last at the origin)
	sunName := "sun"
	for i, body := range m.bodies() {
		if body.Kind == state.KindSun {
			sunName = body.Name
			continue
		}

		proj := astro.ProjectEclipticTopDown(body.Helio, cfg)

		// Convert to screen coordinates relative to panned origin
		sx := originX + int(proj.X*displayScale)
		sy := originY - int(proj.Y*displayScale) // Y flipped for screen

		if sx < 0 || sx >= canvasW || sy < 0 || sy >= canvasH {
			continue
		}

		glyph := m.getBodyGlyph(body, i == m.focusIdx)
		grid[sy][sx] = glyph
		if i == m.focusIdx {
			focusX, focusY = sx, sy
			focusGlyph = glyph
		}

		positions = append(positions, bodyPos{
			x:         sx,
			y:         sy,
			name:      body.Name,
			kind:      body.Kind,
			isFocused: i == m.focusIdx,
		})
	}

	// Draw the sun at the panned origin LAST so it's always visible
	if originX >= 0 && originX < canvasW && originY >= 0 && originY < canvasH {
		grid[originY][originX] = '☉'
		positions = append(positions, bodyPos{
			x:         originX,
			y:         originY,
			name:      sunName,
			kind:      state.KindSun,
			isFocused: m.focusIdx == 0,
		})
	}

	if focusX >= 0 {
		grid[focusY][focusX] = focusGlyph
	}

	// Labels per label mode
	m.renderLabels(grid, canvasW, canvasH, positions)

	return m.renderGrid(grid)
}

func (m OrreryModel) drawOrbitRings(grid [][]rune, cx, cy int, scale float64, cfg astro.ProjectionConfig) {
	// Reference orbit circles for key distances
	orbitAUs := []float64{1, 5, 10, 20, 30} // Earth, Jupiter, Saturn, Uranus, Neptune regions

	for _, au := range orbitAUs {
		proj := astro.ProjectEclipticTopDown(astro.Vec3{X: au, Y: 0, Z: 0}, cfg)
		r := proj.X * scale

		m.drawCircle(grid, cx, cy, r)
	}
}

func (m OrreryModel) drawCircle(grid [][]rune, cx, cy int, r float64) {
	if r < 1 {
		return
	}

	h := len(grid)
	w := len(grid[0])

	// Parametric circle
	steps := int(2 * math.Pi * r)
	if steps < 8 {
		steps = 8
	}
	if steps > 360 {
		steps = 360
	}

	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(r*math.Cos(theta))
		y := cy - int(r*math.Sin(theta)*0.5) // Aspect ratio correction

		if x >= 0 && x < w && y >= 0 && y < h && grid[y][x] == ' ' {
			grid[y][x] = '·'
		}
	}
}

// drawStarfield renders background stars from the bright star catalog.
// Stars are projected to the same ecliptic top-down view as planets.
// The shell radius adapts to zoom level so stars remain a stable
// background at all zoom levels.
func (m OrreryModel) drawStarfield(grid [][]rune, cx, cy int, displayScale float64, cfg astro.ProjectionConfig) {
	h := len(grid)
	w := len(grid[0])

	// Stars dimmer than the faintest glyph tier never render, so cull
	// them before projecting.
	stars := astro.DefaultStarCatalog().Brighter(3.5)

	// Adaptive shell radius: scale inversely with zoom so stars stay
	// at the edge of the viewport regardless of zoom level.
	shellRadius := astro.DefaultStarShellRadiusAU / cfg.Scale

	starCfg := astro.ProjectionConfig{
		Scale:             cfg.Scale,
		Mode:              cfg.Mode,
		StarShellRadiusAU: shellRadius,
	}

	for _, star := range stars {
		proj := astro.ProjectStarEclipticTopDown(star.RAdeg, star.DecDeg, starCfg)

		sx := cx + int(proj.X*displayScale)
		sy := cy - int(proj.Y*displayScale*0.5) // Aspect ratio correction

		if sx < 0 || sx >= w || sy < 0 || sy >= h {
			continue
		}

		// Only draw on empty cells
		if grid[sy][sx] != ' ' {
			continue
		}

		glyph := m.starGlyph(star.Mag)
		if glyph != ' ' {
			grid[sy][sx] = glyph
		}
	}
}

// starGlyph returns a subtle glyph based on star magnitude.
// Brighter stars (lower magnitude) get slightly more prominent glyphs.
func (m OrreryModel) starGlyph(mag float64) rune {
	switch {
	case mag <= 1.0:
		return '∗' // Bright stars: slightly more visible
	case mag <= 2.5:
		return '·' // Medium stars: standard dot
	case mag <= 3.5:
		return '˙' // Dim stars: small dot
	default:
		return ' ' // Very dim: skip to avoid clutter
	}
}

// renderLabels draws body labels on the canvas based on label mode.
func (m OrreryModel) renderLabels(grid [][]rune, width, height int, positions []bodyPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	for _, pos := range positions {
		showLabel := false
		switch m.labelMode {
		case LabelFocused:
			showLabel = pos.isFocused
		case LabelAll:
			showLabel = true
		}

		if !showLabel {
			continue
		}

		// Label sits to the right of the glyph with a 1 space gap
		labelX := pos.x + 2
		labelY := pos.y

		if labelY < 0 || labelY >= height || labelX >= width {
			continue
		}

		labelText := pos.name
		if pos.isFocused {
			labelText = "◄ " + pos.name
		}

		for i, r := range labelText {
			x := labelX + i
			if x >= width {
				break
			}
			// Only write over empty cells or orbit rings
			if grid[labelY][x] == ' ' || grid[labelY][x] == '·' {
				grid[labelY][x] = r
			}
		}
	}
}

func (m OrreryModel) getBodyGlyph(body state.BodyFrame, focused bool) rune {
	switch body.Kind {
	case state.KindGiant:
		if focused {
			return '◉'
		}
		return '○'
	case state.KindMoon:
		if focused {
			return '◆'
		}
		return '◇'
	default:
		if focused {
			return '●'
		}
		return '•'
	}
}

func (m OrreryModel) renderGrid(grid [][]rune) string {
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("236")) // Very dim for stars
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	planetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	giantStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	moonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))

	for _, row := range grid {
		for _, ch := range row {
			var style lipgloss.Style

			switch ch {
			case ' ':
				b.WriteRune(ch)
				continue
			case '·':
				style = dimStyle
			case '∗', '˙': // Star glyphs
				style = starStyle
			case '☉':
				style = sunStyle
			case '•':
				style = planetStyle
			case '○':
				style = giantStyle
			case '◇':
				style = moonStyle
			case '●', '◉', '◆':
				style = focusStyle
			case '◄':
				// Focus indicator arrow
				style = focusStyle
			default:
				// Label text characters
				style = labelStyle
			}

			b.WriteString(style.Render(string(ch)))
		}
		b.WriteRune('\n')
	}

	return b.String()
}

func (m OrreryModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	focused := m.FocusedBody()

	// Header line: name plus observer-relative range
	if focused != nil && focused.Kind != state.KindSun {
		b.WriteString(headerStyle.Render(fmt.Sprintf("◆ %s", focused.Name)))
		b.WriteString("  ")
		if focused.DistanceAU > 0 {
			b.WriteString(labelStyle.Render("Distance:"))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.3f AU", focused.DistanceAU)))
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("Light Time:"))
			b.WriteString(valueStyle.Render(astro.FormatLightTime(focused.LightTimeSec)))
		} else {
			b.WriteString(dimStyle.Render("(observer location)"))
		}
	} else if focused != nil {
		b.WriteString(headerStyle.Render(fmt.Sprintf("☉ %s", focused.Name)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Distance:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.3f AU", focused.DistanceAU)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Light Time:"))
		b.WriteString(valueStyle.Render(astro.FormatLightTime(focused.LightTimeSec)))
	} else {
		b.WriteString(headerStyle.Render("☉ Sun"))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("(center of solar system)"))
	}
	b.WriteString("\n")

	// Second line: observer-relative coordinates
	if focused != nil && focused.DistanceAU > 0 {
		b.WriteString(labelStyle.Render("RA:"))
		b.WriteString(valueStyle.Render(report.FormatRA(focused.RADeg)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Dec:"))
		b.WriteString(valueStyle.Render(report.FormatDec(focused.DecDeg)))
		b.WriteString("  ")
		if focused.HasHorizon {
			b.WriteString(labelStyle.Render("Az/El:"))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f° / %.1f°", focused.AzDeg, focused.ElDeg)))
		} else {
			b.WriteString(labelStyle.Render("Ecl Lon:"))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", astro.EclipticLongitude(focused.Helio))))
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("Ecl Lat:"))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", astro.EclipticLatitude(focused.Helio))))
		}
	}
	b.WriteString("\n")

	// Third line: view mode indicators
	modeName := ""
	switch m.scaleMode {
	case astro.ScaleLogR:
		modeName = "Log"
	case astro.ScaleInner:
		modeName = "Inner"
	case astro.ScaleOuter:
		modeName = "Outer"
	}

	labelName := ""
	switch m.labelMode {
	case LabelNone:
		labelName = "off"
	case LabelFocused:
		labelName = "focus"
	case LabelAll:
		labelName = "all"
	}

	starsName := "off"
	if m.showStars {
		starsName = "on"
	}

	b.WriteString(dimStyle.Render("Mode:"))
	b.WriteString(valueStyle.Render(modeName))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(labelName))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Stars:"))
	b.WriteString(valueStyle.Render(starsName))
	if m.snapshot.Frame != nil {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("Site:"))
		if m.snapshot.Frame.Site != "" {
			b.WriteString(valueStyle.Render(m.snapshot.Frame.Site))
		} else {
			b.WriteString(valueStyle.Render("geocentric"))
		}
	}

	return b.String()
}

// FocusedBody returns the currently focused body, or nil before the
// first frame arrives.
func (m OrreryModel) FocusedBody() *state.BodyFrame {
	bodies := m.bodies()
	if m.focusIdx >= 0 && m.focusIdx < len(bodies) {
		return &bodies[m.focusIdx]
	}
	return nil
}

// ShowStars returns whether the starfield is visible.
func (m OrreryModel) ShowStars() bool {
	return m.showStars
}

// SetFocusByName sets focus to a body by its display name.
func (m *OrreryModel) SetFocusByName(name string) {
	for i, body := range m.bodies() {
		if strings.EqualFold(body.Name, name) {
			m.focusIdx = i
			return
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
