package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/report"
)

var (
	observeTime string
	observeFrom string
	observeSite string
	observeJSON bool
)

var observeCmd = &cobra.Command{
	Use:   "observe <target>",
	Short: "Observe a body with light-time correction",
	Long: `Observe solves for the light travel time between an observer and a
target and prints the astrometric position: where the target appeared
when its light left, not where it is now. The readout includes RA/Dec,
distance, light time, radial velocity, and Doppler shifts on the deep
space bands. A surface site observer adds azimuth and elevation.

The observer defaults to the Earth's center; --from picks another
body, --site mounts a surface site (a built-in name or raw
lat,lon[,elev] coordinates).

Examples:
  ls-ephemeris observe mars
  ls-ephemeris observe moon --site goldstone
  ls-ephemeris observe jupiter --site 35.43,-116.89,1036 --json
  ls-ephemeris observe earth --from mars --time 2460000.5`,
	Args: cobra.ExactArgs(1),
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	observeCmd.Flags().StringVar(&observeTime, "time", "", "epoch: RFC3339, UTC date, or Julian date (default now)")
	observeCmd.Flags().StringVar(&observeFrom, "from", "", "observing body (default earth)")
	observeCmd.Flags().StringVar(&observeSite, "site", "", "surface site: name or lat,lon[,elev]")
	observeCmd.Flags().BoolVar(&observeJSON, "json", false, "emit JSON")
}

func runObserve(cmd *cobra.Command, args []string) error {
	t, err := parseTimeFlag(observeTime)
	if err != nil {
		return err
	}
	kern, err := openKernel(cmd.Context(), t)
	if err != nil {
		return err
	}
	defer kern.Close()
	cat := kern.Catalog

	target, err := cat.Body(args[0])
	if err != nil {
		return err
	}

	var (
		observer *ephem.Body
		obsName  string
	)
	switch {
	case observeSite != "":
		body, site, err := siteObserver(cat, observeSite)
		if err != nil {
			return err
		}
		observer, obsName = body, site.Name
	case observeFrom != "":
		observer, err = cat.Body(observeFrom)
		if err != nil {
			return err
		}
		obsName = displayName(observer)
	default:
		observer = cat.BodyByID(ephem.Earth)
		obsName = displayName(observer)
	}

	sol, err := observer.Observe(target)
	if err != nil {
		return err
	}
	obs, err := sol.At(t)
	if err != nil {
		return err
	}

	e := report.NewObservationExport(displayName(target), obsName, obs)
	if observeJSON {
		return report.WriteJSON(os.Stdout, e)
	}
	report.WriteObservation(os.Stdout, e)
	return nil
}
