package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/state"
	"github.com/litescript/ls-ephemeris/internal/timescale"
	"github.com/litescript/ls-ephemeris/internal/topos"
	"github.com/litescript/ls-ephemeris/internal/ui"
)

var (
	orrerySite    string
	orreryRefresh time.Duration
)

var orreryCmd = &cobra.Command{
	Use:   "orrery",
	Short: "Open the interactive terminal orrery",
	Long: `Orrery opens a live top-down view of the solar system with a
steerable simulation clock. Bodies are recomputed every refresh
interval; focus a body for RA/Dec, distance, and light-time readouts,
or switch to the detail view for trends and rise/set events.

The observer site comes from --site, falling back to the configured
observer; horizon readouts need a surface site.

Keys: j/k focus, +/- zoom, arrows pan, tab switch view, space pause,
,/. time rate, x reverse, n now, q quit.`,
	Args: cobra.NoArgs,
	RunE: runOrrery,
}

func init() {
	rootCmd.AddCommand(orreryCmd)
	orreryCmd.Flags().StringVar(&orrerySite, "site", "", "surface site: name or lat,lon[,elev]")
	orreryCmd.Flags().DurationVar(&orreryRefresh, "refresh", 0, "recompute interval (default 1s)")
}

func runOrrery(cmd *cobra.Command, args []string) error {
	kern, err := openKernel(cmd.Context(), timescale.Now())
	if err != nil {
		return err
	}
	defer kern.Close()

	observer, siteName, err := orreryObserver(kern.Catalog)
	if err != nil {
		return err
	}
	tracker, err := ui.NewTracker(kern.Catalog, observer, siteName)
	if err != nil {
		return err
	}

	stateCfg := state.DefaultConfig()
	if orreryRefresh > 0 {
		stateCfg.RefreshInterval = orreryRefresh
	}
	mgr := state.NewManager(stateCfg)
	mgr.NoteSourceReady(kern.Source.String())

	p := tea.NewProgram(ui.New(tracker, mgr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running orrery: %w", err)
	}
	return nil
}

// orreryObserver picks the observer: the --site flag, then the
// configured site, then configured coordinates, then the Earth's
// center.
func orreryObserver(cat *ephem.Catalog) (*ephem.Body, string, error) {
	spec := orrerySite
	if spec == "" {
		spec = cfg.Observer.Site
	}
	if spec != "" {
		body, site, err := siteObserver(cat, spec)
		if err != nil {
			return nil, "", err
		}
		return body, site.Name, nil
	}
	if cfg.Observer.LatDeg != 0 || cfg.Observer.LonDeg != 0 {
		name := fmt.Sprintf("%.4f,%.4f", cfg.Observer.LatDeg, cfg.Observer.LonDeg)
		tp := topos.New(name, cfg.Observer.LatDeg, cfg.Observer.LonDeg, cfg.Observer.ElevM)
		body, err := cat.SurfaceBody(tp.Segment(), tp)
		if err != nil {
			return nil, "", fmt.Errorf("placing configured observer: %w", err)
		}
		return body, tp.Name, nil
	}
	return cat.BodyByID(ephem.Earth), "", nil
}
