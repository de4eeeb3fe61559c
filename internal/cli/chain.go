package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/kernel"
	"github.com/litescript/ls-ephemeris/internal/report"
	"github.com/litescript/ls-ephemeris/internal/timescale"
)

var chainJSON bool

var chainCmd = &cobra.Command{
	Use:   "chain <body>",
	Short: "Show how a body chains to the root",
	Long: `Chain resolves a body against the segment registry and prints the
path of center→target segments from the root down to the body. This
is the walk every position query repeats, made visible.

Examples:
  ls-ephemeris chain moon
  ls-ephemeris chain 301 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runChain,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVar(&chainJSON, "json", false, "emit JSON")
}

func runChain(cmd *cobra.Command, args []string) error {
	kern, err := openKernel(cmd.Context(), timescale.Now())
	if err != nil {
		return err
	}
	defer kern.Close()

	body, err := kern.Catalog.Body(args[0])
	if err != nil {
		return err
	}
	chain, root, err := kern.Catalog.Registry().ChainTo(body.ID())
	if err != nil {
		return err
	}

	e := report.NewChainExport(displayName(body), root, chain, kernel.Name)
	if chainJSON {
		return report.WriteJSON(os.Stdout, e)
	}
	report.WriteChain(os.Stdout, e)
	return nil
}
