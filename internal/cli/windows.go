package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/report"
	"github.com/litescript/ls-ephemeris/internal/topos"
)

var (
	windowsTime    string
	windowsSite    string
	windowsHours   int
	windowsMinElev float64
	windowsFirst   bool
	windowsJSON    bool
)

var windowsCmd = &cobra.Command{
	Use:   "windows <target>",
	Short: "Find visibility windows from a surface site",
	Long: `Windows traces a target's elevation above a site's horizon over a
span of hours and reports when it rises, transits, and sets relative
to a minimum elevation. Rise and set instants are refined by linear
interpolation between samples; the transit by a parabola through the
peak. Windows whose transit falls in daylight are flagged.

Examples:
  ls-ephemeris windows moon --site goldstone
  ls-ephemeris windows mars --site canberra --hours 48 --min-elev 10
  ls-ephemeris windows venus --site madrid --first`,
	Args: cobra.ExactArgs(1),
	RunE: runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().StringVar(&windowsSite, "site", "", "surface site: name or lat,lon[,elev]")
	windowsCmd.Flags().StringVar(&windowsTime, "time", "", "span start: RFC3339, UTC date, or Julian date (default now)")
	windowsCmd.Flags().IntVar(&windowsHours, "hours", 24, "span length in hours")
	windowsCmd.Flags().Float64Var(&windowsMinElev, "min-elev", astro.DefaultMinElevation, "minimum elevation in degrees")
	windowsCmd.Flags().BoolVar(&windowsFirst, "first", false, "report only the first window in the span")
	windowsCmd.Flags().BoolVar(&windowsJSON, "json", false, "emit JSON")
	windowsCmd.MarkFlagRequired("site")
}

func runWindows(cmd *cobra.Command, args []string) error {
	start, err := parseTimeFlag(windowsTime)
	if err != nil {
		return err
	}
	kern, err := openKernel(cmd.Context(), start)
	if err != nil {
		return err
	}
	defer kern.Close()
	cat := kern.Catalog

	target, err := cat.Body(args[0])
	if err != nil {
		return err
	}
	observer, site, err := siteObserver(cat, windowsSite)
	if err != nil {
		return err
	}
	sol, err := observer.Observe(target)
	if err != nil {
		return err
	}

	span := time.Duration(windowsHours) * time.Hour
	samples, err := topos.ElevationTrace(sol, start, span, topos.DefaultTraceStep)
	if err != nil {
		return err
	}
	var wins []astro.VisibilityWindow
	if windowsFirst {
		win, err := astro.FindWindow(samples, windowsMinElev)
		if err != nil {
			return err
		}
		wins = []astro.VisibilityWindow{win}
	} else {
		wins, err = astro.FindWindows(samples, windowsMinElev)
		if err != nil {
			return err
		}
	}

	exports := make([]report.WindowExport, 0, len(wins))
	for _, w := range wins {
		we := report.NewWindowExport(w)
		if !w.Transit.IsZero() {
			we.Daylight = site.SunUp(w.Transit)
		}
		exports = append(exports, we)
	}
	if windowsJSON {
		return report.WriteJSON(os.Stdout, struct {
			Target  string                `json:"target"`
			Site    string                `json:"site"`
			Windows []report.WindowExport `json:"windows"`
		}{displayName(target), site.Name, exports})
	}
	report.WriteWindows(os.Stdout, displayName(target), site.Name, exports)
	return nil
}
