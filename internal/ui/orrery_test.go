package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/state"
)

func orreryTestSnapshot() state.Snapshot {
	return state.Snapshot{
		Frame: &state.Frame{
			Bodies: []state.BodyFrame{
				{Name: "sun", ID: 10, Kind: state.KindSun, DistanceAU: 1.0, LightTimeSec: 499},
				{Name: "earth", ID: 399, Kind: state.KindInner, Helio: astro.Vec3{X: 1}},
				{Name: "moon", ID: 301, Kind: state.KindMoon, Helio: astro.Vec3{X: 1.002}, DistanceAU: 0.0026, LightTimeSec: 1.28},
				{Name: "mars", ID: 499, Kind: state.KindInner, Helio: astro.Vec3{X: 1.5}, DistanceAU: 0.52, LightTimeSec: 260},
				{Name: "jupiter", ID: 599, Kind: state.KindGiant, Helio: astro.Vec3{X: 5.2}, DistanceAU: 4.2, LightTimeSec: 2100},
			},
		},
	}
}

func TestOrreryModelInit(t *testing.T) {
	m := NewOrreryModel()

	if m.focusIdx != 0 {
		t.Errorf("expected focusIdx 0 (sun), got %d", m.focusIdx)
	}
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0, got %f", m.scale())
	}
	if m.scaleMode != astro.ScaleLogR {
		t.Errorf("expected ScaleLogR, got %d", m.scaleMode)
	}
	if m.labelMode != LabelFocused {
		t.Errorf("expected LabelFocused, got %d", m.labelMode)
	}
}

func TestOrreryModelSetSize(t *testing.T) {
	m := NewOrreryModel()
	m = m.SetSize(120, 40)

	if m.width != 120 {
		t.Errorf("expected width 120, got %d", m.width)
	}
	if m.height != 40 {
		t.Errorf("expected height 40, got %d", m.height)
	}
}

func TestOrreryModelFocusNavigation(t *testing.T) {
	m := NewOrreryModel()
	m = m.UpdateData(orreryTestSnapshot())

	// Focus starts on the sun (index 0)
	if m.focusIdx != 0 {
		t.Errorf("expected focusIdx 0, got %d", m.focusIdx)
	}

	// Navigate next (k)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if m.focusIdx != 1 {
		t.Errorf("after next, expected focusIdx 1, got %d", m.focusIdx)
	}

	// Navigate next again
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if m.focusIdx != 2 {
		t.Errorf("after next again, expected focusIdx 2, got %d", m.focusIdx)
	}

	// Navigate prev (j)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.focusIdx != 1 {
		t.Errorf("after prev, expected focusIdx 1, got %d", m.focusIdx)
	}

	// Prev from the sun wraps to the last body
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.focusIdx != 4 {
		t.Errorf("after wrap, expected focusIdx 4, got %d", m.focusIdx)
	}
}

func TestOrreryModelZoom(t *testing.T) {
	m := NewOrreryModel()

	if m.scale() != 1.0 {
		t.Errorf("expected initial scale 1.0, got %f", m.scale())
	}

	// Zoom in
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if m.scale() != 1.5 {
		t.Errorf("expected scale 1.5 after zoom in, got %f", m.scale())
	}

	// Zoom out back to 1.0
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0 after zoom out, got %f", m.scale())
	}

	// Reset with 0
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	if m.scale() != 1.0 {
		t.Errorf("expected scale 1.0 after reset, got %f", m.scale())
	}
}

func TestOrreryModelPan(t *testing.T) {
	m := NewOrreryModel()

	// Pan right (arrow key)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.panX <= 0 {
		t.Errorf("expected panX > 0 after pan right, got %f", m.panX)
	}

	// Pan up (arrow key)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.panY >= 0 {
		t.Errorf("expected panY < 0 after pan up, got %f", m.panY)
	}

	// Center
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if m.panX != 0 || m.panY != 0 {
		t.Errorf("expected pan (0, 0) after center, got (%f, %f)", m.panX, m.panY)
	}

	// Reset with 'r' also centers
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.panX != 0 || m.panY != 0 {
		t.Errorf("expected pan (0, 0) after reset, got (%f, %f)", m.panX, m.panY)
	}
}

func TestOrreryModelScaleMode(t *testing.T) {
	m := NewOrreryModel()

	if m.scaleMode != astro.ScaleLogR {
		t.Errorf("expected initial mode ScaleLogR, got %d", m.scaleMode)
	}

	// Toggle mode (z key)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	if m.scaleMode != astro.ScaleInner {
		t.Errorf("expected ScaleInner after toggle, got %d", m.scaleMode)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	if m.scaleMode != astro.ScaleOuter {
		t.Errorf("expected ScaleOuter after second toggle, got %d", m.scaleMode)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	if m.scaleMode != astro.ScaleLogR {
		t.Errorf("expected ScaleLogR after third toggle, got %d", m.scaleMode)
	}
}

func TestOrreryModelView(t *testing.T) {
	m := NewOrreryModel()
	m = m.SetSize(80, 24)
	m = m.UpdateData(orreryTestSnapshot())

	view := m.View()
	if len(view) == 0 {
		t.Error("expected non-empty view")
	}

	if !containsRune(view, '☉') {
		t.Error("view should contain sun glyph ☉")
	}
}

func TestOrreryModelViewBeforeFirstFrame(t *testing.T) {
	m := NewOrreryModel()
	m = m.SetSize(80, 24)

	view := m.View()
	if !strings.Contains(view, "Computing") {
		t.Errorf("expected placeholder before first frame, got %q", view)
	}
}

func TestOrreryModelFocusedBody(t *testing.T) {
	m := NewOrreryModel()

	// No frame yet
	if m.FocusedBody() != nil {
		t.Error("expected nil focused body before first frame")
	}

	m = m.UpdateData(orreryTestSnapshot())

	focused := m.FocusedBody()
	if focused == nil || focused.Name != "sun" {
		t.Errorf("expected sun at index 0, got %v", focused)
	}

	// Focus next (k key)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	focused = m.FocusedBody()
	if focused == nil || focused.Name != "earth" {
		t.Errorf("expected earth, got %v", focused)
	}
}

func TestOrreryModelSetFocusByName(t *testing.T) {
	m := NewOrreryModel()
	m = m.UpdateData(orreryTestSnapshot())

	m.SetFocusByName("mars")
	focused := m.FocusedBody()
	if focused == nil || focused.Name != "mars" {
		t.Errorf("expected mars after SetFocusByName, got %v", focused)
	}

	// Lookup is case-insensitive
	m.SetFocusByName("Jupiter")
	focused = m.FocusedBody()
	if focused == nil || focused.Name != "jupiter" {
		t.Errorf("expected jupiter after SetFocusByName, got %v", focused)
	}
}

func TestOrreryModelLabelMode(t *testing.T) {
	m := NewOrreryModel()

	if m.labelMode != LabelFocused {
		t.Errorf("initial labelMode = %d, want %d (LabelFocused)", m.labelMode, LabelFocused)
	}

	// Toggle with 'l' key
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.labelMode != LabelAll {
		t.Errorf("after first toggle, labelMode = %d, want %d (LabelAll)", m.labelMode, LabelAll)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.labelMode != LabelNone {
		t.Errorf("after second toggle, labelMode = %d, want %d (LabelNone)", m.labelMode, LabelNone)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.labelMode != LabelFocused {
		t.Errorf("after third toggle, labelMode = %d, want %d (LabelFocused)", m.labelMode, LabelFocused)
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func TestOrreryModelStarfieldToggle(t *testing.T) {
	m := NewOrreryModel()

	if !m.ShowStars() {
		t.Error("expected showStars true by default")
	}

	// Toggle off with 't' key
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.ShowStars() {
		t.Error("expected showStars false after first toggle")
	}

	// Toggle back on
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if !m.ShowStars() {
		t.Error("expected showStars true after second toggle")
	}
}

func TestOrreryModelStarfieldRenderNoPanic(t *testing.T) {
	m := NewOrreryModel()
	m = m.SetSize(80, 24)
	m = m.UpdateData(orreryTestSnapshot())

	// Should not panic with stars on
	m.showStars = true
	view := m.View()
	if len(view) == 0 {
		t.Error("expected non-empty view with stars on")
	}

	// Toggle stars off
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})

	// Should also not panic with stars off
	view = m.View()
	if len(view) == 0 {
		t.Error("expected non-empty view with stars off")
	}
}

func TestOrreryModelHUD(t *testing.T) {
	m := NewOrreryModel()
	m = m.SetSize(120, 30)
	m = m.UpdateData(orreryTestSnapshot())

	view := m.View()
	if !strings.Contains(view, "Stars:") {
		t.Error("HUD should contain 'Stars:' indicator")
	}
	if !strings.Contains(view, "Zoom:") {
		t.Error("HUD should contain 'Zoom:' indicator")
	}

	// Focus the moon and check the range readouts appear
	m.SetFocusByName("moon")
	view = m.View()
	if !strings.Contains(view, "Distance:") {
		t.Error("HUD should contain 'Distance:' for a focused body")
	}
	if !strings.Contains(view, "Light Time:") {
		t.Error("HUD should contain 'Light Time:' for a focused body")
	}
}

func TestOrreryModelHUDObserverRow(t *testing.T) {
	m := NewOrreryModel()
	m = m.SetSize(120, 30)
	m = m.UpdateData(orreryTestSnapshot())

	// The earth row carries no observer-relative readouts in a
	// geocentric frame.
	m.SetFocusByName("earth")
	view := m.View()
	if !strings.Contains(view, "observer location") {
		t.Error("HUD should mark the observer's own body")
	}
}

func TestOrreryModelStarGlyph(t *testing.T) {
	m := NewOrreryModel()

	tests := []struct {
		mag       float64
		wantGlyph rune
	}{
		{-1.0, '∗'}, // Very bright (Sirius)
		{0.5, '∗'},  // Bright
		{1.0, '∗'},  // Threshold
		{1.5, '·'},  // Medium
		{2.5, '·'},  // Medium threshold
		{3.0, '˙'},  // Dim
		{3.5, '˙'},  // Dim threshold
		{4.0, ' '},  // Too dim
		{5.0, ' '},  // Very dim
	}

	for _, tt := range tests {
		got := m.starGlyph(tt.mag)
		if got != tt.wantGlyph {
			t.Errorf("starGlyph(%.1f) = %q, want %q", tt.mag, string(got), string(tt.wantGlyph))
		}
	}
}
