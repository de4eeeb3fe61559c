package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/report"
)

var (
	positionTime   string
	positionCenter string
	positionJSON   bool
)

var positionCmd = &cobra.Command{
	Use:   "position <body>",
	Short: "Print a body's state vector",
	Long: `Position prints a body's position and velocity relative to the solar
system barycenter, or relative to another body with --center. The
state is instantaneous geometry; no light-time correction is applied.

Examples:
  ls-ephemeris position mars
  ls-ephemeris position moon --center earth
  ls-ephemeris position jupiter --time 2026-08-22T12:00:00Z --json`,
	Args: cobra.ExactArgs(1),
	RunE: runPosition,
}

func init() {
	rootCmd.AddCommand(positionCmd)
	positionCmd.Flags().StringVar(&positionTime, "time", "", "epoch: RFC3339, UTC date, or Julian date (default now)")
	positionCmd.Flags().StringVar(&positionCenter, "center", "", "report relative to this body instead of the barycenter")
	positionCmd.Flags().BoolVar(&positionJSON, "json", false, "emit JSON")
}

func runPosition(cmd *cobra.Command, args []string) error {
	t, err := parseTimeFlag(positionTime)
	if err != nil {
		return err
	}
	kern, err := openKernel(cmd.Context(), t)
	if err != nil {
		return err
	}
	defer kern.Close()

	body, err := kern.Catalog.Body(args[0])
	if err != nil {
		return err
	}

	var (
		st     ephem.State
		center string
	)
	if positionCenter != "" {
		cb, err := kern.Catalog.Body(positionCenter)
		if err != nil {
			return err
		}
		geom, err := cb.GeometryOf(body)
		if err != nil {
			return err
		}
		st = geom.At(t)
		center = displayName(cb)
	} else {
		st, err = body.At(t)
		if err != nil {
			return err
		}
	}

	e := report.NewStateExport(displayName(body), center, st)
	if positionJSON {
		return report.WriteJSON(os.Stdout, e)
	}
	report.WriteStateTable(os.Stdout, e)
	return nil
}
