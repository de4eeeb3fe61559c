// Package state keeps the shared bookkeeping between the compute loop
// and the TUI: the most recent frame, bounded per-body history, and an
// event ring derived from consecutive frames.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

// BodyKind selects the glyph family a body renders with.
type BodyKind int

const (
	KindSun BodyKind = iota
	KindInner
	KindGiant
	KindMoon
)

// String returns the body kind name.
func (k BodyKind) String() string {
	switch k {
	case KindSun:
		return "sun"
	case KindInner:
		return "inner planet"
	case KindGiant:
		return "giant planet"
	case KindMoon:
		return "moon"
	default:
		return "unknown"
	}
}

// BodyFrame is one body's readouts within a Frame. Helio feeds the
// top-down canvas; the remaining fields are relative to the frame's
// observer.
type BodyFrame struct {
	Name string
	ID   ephem.BodyID
	Kind BodyKind

	// Heliocentric ecliptic position in AU.
	Helio astro.Vec3

	RADeg        float64
	DecDeg       float64
	DistanceAU   float64
	LightTimeSec float64
	RangeRateKmS float64

	// Horizon readouts, present only when the frame's observer sits on
	// a surface site.
	AzDeg      float64
	ElDeg      float64
	HasHorizon bool
}

// Frame is the product of one compute pass: every tracked body observed
// at a single instant.
type Frame struct {
	Time   timescale.Time
	Site   string // observing site name, empty for a geocentric observer
	Bodies []BodyFrame
}

// Body returns the named body's entry, or nil if the frame does not
// carry it.
func (f *Frame) Body(name string) *BodyFrame {
	for i := range f.Bodies {
		if f.Bodies[i].Name == name {
			return &f.Bodies[i]
		}
	}
	return nil
}

// EventType represents the type of tracked event.
type EventType string

const (
	EventRise         EventType = "RISE"          // body crossed above the horizon
	EventSet          EventType = "SET"           // body crossed below the horizon
	EventSourceReady  EventType = "SOURCE_READY"  // an ephemeris source finished loading
	EventComputeError EventType = "COMPUTE_ERROR" // a compute pass failed
)

// Event records a change worth surfacing in the event feed.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	Site      string    `json:"site,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// TimePoint is a single sample in a per-body series.
type TimePoint struct {
	Timestamp time.Time
	Value     float64
}

// BodyHistory holds bounded per-body series for trend displays.
type BodyHistory struct {
	Body         string
	DistanceAU   []TimePoint
	ElevationDeg []TimePoint
}

// Config holds manager configuration.
type Config struct {
	MaxEvents       int           // event ring capacity
	MaxHistory      int           // retained frames
	MaxBodyHistory  int           // retained samples per body series
	RefreshInterval time.Duration // target cadence of the compute loop
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       50,
		MaxHistory:      120,
		MaxBodyHistory:  256,
		RefreshInterval: time.Second,
	}
}

// Snapshot is a point-in-time copy of everything the UI renders from.
// Frame is shared, not copied; frames are immutable once published.
type Snapshot struct {
	Frame           *Frame
	LastCompute     time.Time
	LastError       error
	ComputeDuration time.Duration
	NextRefresh     time.Time
	Events          []Event // oldest first
}

// Manager owns the mutable state shared between the compute loop and
// the renderer. All methods are safe for concurrent use.
type Manager struct {
	mu sync.RWMutex

	current         *Frame
	lastCompute     time.Time
	lastError       error
	computeDuration time.Duration

	// Elevation per body from the previous horizon frame, for
	// crossing detection.
	prevElevation map[string]float64

	history    []*Frame
	maxHistory int

	bodyHist       map[string]*BodyHistory
	maxBodyHistory int

	// Fixed-size event ring. Grows by append until full, then
	// overwrites at eventWriteAt.
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// NewManager creates a state manager with the given configuration.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = def.MaxEvents
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = def.MaxHistory
	}
	if cfg.MaxBodyHistory <= 0 {
		cfg.MaxBodyHistory = def.MaxBodyHistory
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = def.RefreshInterval
	}
	return &Manager{
		prevElevation:   make(map[string]float64),
		maxHistory:      cfg.MaxHistory,
		bodyHist:        make(map[string]*BodyHistory),
		maxBodyHistory:  cfg.MaxBodyHistory,
		events:          make([]Event, 0, cfg.MaxEvents),
		maxEvents:       cfg.MaxEvents,
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update records the result of one compute pass. A nil frame keeps the
// previous one current; the error is retained either way so the UI can
// show it next to the last good frame.
func (m *Manager) Update(frame *Frame, computeDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if err != nil && (m.lastError == nil || m.lastError.Error() != err.Error()) {
		m.addEvent(Event{
			Type:      EventComputeError,
			Timestamp: now.UTC(),
			Detail:    err.Error(),
		})
	}
	m.lastCompute = now
	m.computeDuration = computeDuration
	m.lastError = err

	if frame == nil {
		return
	}

	// Detect crossings against the previous frame before it is
	// replaced.
	m.detectCrossings(frame)

	m.current = frame
	m.history = append(m.history, frame)
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}

	m.recordSeries(frame)

	for _, b := range frame.Bodies {
		if b.HasHorizon {
			m.prevElevation[b.Name] = b.ElDeg
		}
	}
}

// NoteSourceReady records that an ephemeris source finished loading.
func (m *Manager) NoteSourceReady(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(Event{
		Type:      EventSourceReady,
		Timestamp: time.Now().UTC(),
		Detail:    name,
	})
}

// detectCrossings emits RISE/SET events for bodies whose elevation
// changed sign since the previous horizon frame. Caller holds the lock.
func (m *Manager) detectCrossings(frame *Frame) {
	for _, b := range frame.Bodies {
		if !b.HasHorizon {
			continue
		}
		prev, seen := m.prevElevation[b.Name]
		if !seen {
			continue
		}
		var typ EventType
		switch {
		case prev < 0 && b.ElDeg >= 0:
			typ = EventRise
		case prev >= 0 && b.ElDeg < 0:
			typ = EventSet
		default:
			continue
		}
		m.addEvent(Event{
			Type:      typ,
			Timestamp: frame.Time.UTC(),
			Body:      b.Name,
			Site:      frame.Site,
			Detail:    fmt.Sprintf("az %.0f°", b.AzDeg),
		})
	}
}

// addEvent appends to the ring, overwriting the oldest entry once the
// ring is full. Caller holds the lock.
func (m *Manager) addEvent(ev Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, ev)
		return
	}
	m.events[m.eventWriteAt] = ev
	m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
}

// eventsOrdered unwinds the ring oldest first. Caller holds the lock.
func (m *Manager) eventsOrdered() []Event {
	if len(m.events) < m.maxEvents {
		out := make([]Event, len(m.events))
		copy(out, m.events)
		return out
	}
	out := make([]Event, 0, len(m.events))
	out = append(out, m.events[m.eventWriteAt:]...)
	out = append(out, m.events[:m.eventWriteAt]...)
	return out
}

// RecentEvents returns up to n events, oldest first.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ordered := m.eventsOrdered()
	if n <= 0 || n >= len(ordered) {
		return ordered
	}
	return ordered[len(ordered)-n:]
}

// recordSeries appends the frame's readouts to the per-body series.
// Caller holds the lock.
func (m *Manager) recordSeries(frame *Frame) {
	at := frame.Time.UTC()
	for _, b := range frame.Bodies {
		h := m.bodyHist[b.Name]
		if h == nil {
			h = &BodyHistory{Body: b.Name}
			m.bodyHist[b.Name] = h
		}
		h.DistanceAU = appendBounded(h.DistanceAU, TimePoint{Timestamp: at, Value: b.DistanceAU}, m.maxBodyHistory)
		if b.HasHorizon {
			h.ElevationDeg = appendBounded(h.ElevationDeg, TimePoint{Timestamp: at, Value: b.ElDeg}, m.maxBodyHistory)
		}
	}
}

func appendBounded(s []TimePoint, p TimePoint, max int) []TimePoint {
	s = append(s, p)
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}

// Snapshot returns a copy of the current state for rendering.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Frame:           m.current,
		LastCompute:     m.lastCompute,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		NextRefresh:     m.lastCompute.Add(m.refreshInterval),
		Events:          m.eventsOrdered(),
	}
}

// GetBodyHistory returns a copy of the named body's series, or nil if
// the body has never appeared in a frame.
func (m *Manager) GetBodyHistory(name string) *BodyHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h := m.bodyHist[name]
	if h == nil {
		return nil
	}
	return &BodyHistory{
		Body:         h.Body,
		DistanceAU:   append([]TimePoint(nil), h.DistanceAU...),
		ElevationDeg: append([]TimePoint(nil), h.ElevationDeg...),
	}
}

// History returns the retained frames, oldest first.
func (m *Manager) History() []*Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Frame, len(m.history))
	copy(out, m.history)
	return out
}

// HasData reports whether at least one frame has been recorded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// RefreshInterval returns the compute loop cadence.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval changes the compute loop cadence.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}
