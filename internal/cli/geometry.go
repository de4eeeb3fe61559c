package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/report"
)

var (
	geometryTime string
	geometryJSON bool
)

var geometryCmd = &cobra.Command{
	Use:   "geometry <center> <target>",
	Short: "Print the instantaneous vector between two bodies",
	Long: `Geometry prints the target's state relative to the center at a single
instant. Both chains are resolved to their shared root and differenced
in one pass; light travel time is not solved, so this is where the
target is, not where it appears.

Examples:
  ls-ephemeris geometry earth moon
  ls-ephemeris geometry sun jupiter --time 2026-12-01`,
	Args: cobra.ExactArgs(2),
	RunE: runGeometry,
}

func init() {
	rootCmd.AddCommand(geometryCmd)
	geometryCmd.Flags().StringVar(&geometryTime, "time", "", "epoch: RFC3339, UTC date, or Julian date (default now)")
	geometryCmd.Flags().BoolVar(&geometryJSON, "json", false, "emit JSON")
}

func runGeometry(cmd *cobra.Command, args []string) error {
	t, err := parseTimeFlag(geometryTime)
	if err != nil {
		return err
	}
	kern, err := openKernel(cmd.Context(), t)
	if err != nil {
		return err
	}
	defer kern.Close()

	center, err := kern.Catalog.Body(args[0])
	if err != nil {
		return err
	}
	target, err := kern.Catalog.Body(args[1])
	if err != nil {
		return err
	}
	geom, err := center.GeometryOf(target)
	if err != nil {
		return err
	}

	e := report.NewStateExport(displayName(target), displayName(center), geom.At(t))
	if geometryJSON {
		return report.WriteJSON(os.Stdout, e)
	}
	report.WriteStateTable(os.Stdout, e)
	return nil
}
