package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/kernel"
	"github.com/litescript/ls-ephemeris/internal/report"
)

var bodiesJSON bool

var bodiesCmd = &cobra.Command{
	Use:   "bodies",
	Short: "List the bodies the kernels know",
	Long: `Bodies lists every body in the catalog with its NAIF id, short code,
and the aliases the name resolver accepts.`,
	Args: cobra.NoArgs,
	RunE: runBodies,
}

func init() {
	rootCmd.AddCommand(bodiesCmd)
	bodiesCmd.Flags().BoolVar(&bodiesJSON, "json", false, "emit JSON")
}

func runBodies(cmd *cobra.Command, args []string) error {
	rows := make([]report.BodyExport, 0, len(kernel.Bodies))
	for _, b := range kernel.Bodies {
		rows = append(rows, report.BodyExport{
			ID:      int(b.ID),
			Code:    b.Code,
			Name:    b.Name,
			Aliases: b.Aliases,
		})
	}
	if bodiesJSON {
		return report.WriteJSON(os.Stdout, rows)
	}
	report.WriteBodies(os.Stdout, rows)
	return nil
}
