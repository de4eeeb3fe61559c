// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Interactive orrery TUI, rise/set event feed, body detail overlay
// 0.3.0 - JPL Horizons backed kernels with on-disk arc cache, visibility windows
// 0.2.0 - Surface observers, alt/az frames, elevation traces, Doppler readouts
// 0.1.0 - Initial release: segment-chain resolver, light-time solver, analytic theory
