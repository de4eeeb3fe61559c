package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/kernel"
)

var cacheWarmTime string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Horizons span cache",
	Long: `Cache manages the on-disk store of fetched Horizons spans. Warm
prefetches every body over a window so later queries run offline;
info shows what the store holds; clear drops it.`,
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Prefetch every body's span into the cache",
	Long: `Warm fetches state vectors for every catalog body over a window
around the given epoch and stores them, so queries inside the window
never touch the network. Always uses the Horizons source.

Examples:
  ls-ephemeris cache warm
  ls-ephemeris cache warm --time 2026-12-01`,
	Args: cobra.NoArgs,
	RunE: runCacheWarm,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cached spans",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached span",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheWarmCmd, cacheInfoCmd, cacheClearCmd)
	cacheWarmCmd.Flags().StringVar(&cacheWarmTime, "time", "", "window center: RFC3339, UTC date, or Julian date (default now)")
}

func runCacheWarm(cmd *cobra.Command, args []string) error {
	at, err := parseTimeFlag(cacheWarmTime)
	if err != nil {
		return err
	}
	span := cfg.Source.SpanDays
	if span <= 0 {
		span = kernel.DefaultSpanDays
	}

	var bar *progressbar.ProgressBar
	kern, err := kernel.Open(cmd.Context(), kernel.Options{
		Source:         kernel.SourceHorizons,
		HorizonsURL:    cfg.Source.HorizonsURL,
		Timeout:        cfg.Source.Timeout(),
		StartJD:        at.TDB() - span/2,
		StopJD:         at.TDB() + span/2,
		SamplesPerBody: cfg.Source.SamplesPerBody,
		CachePath:      cfg.CachePath(),
		CacheTTL:       cfg.Cache.TTL(),
		Log:            log,
		Progress: func(done, total int) {
			if bar == nil {
				bar = newWarmBar(total)
			}
			bar.Add(1)
		},
	})
	if err != nil {
		return err
	}
	defer kern.Close()

	fmt.Printf("Cache warm over JD [%.2f, %.2f] at %s\n", kern.StartJD, kern.StopJD, cfg.CachePath())
	return nil
}

func newWarmBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Fetching spans...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	store, err := kernel.OpenStore(cfg.CachePath(), cfg.Cache.TTL())
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.Info()
	if err != nil {
		return err
	}
	fmt.Printf("Cache %s\n", store.Path())
	if len(infos) == 0 {
		fmt.Println("No cached spans")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%6s %-22s %-24s %8s %s\n", "ID", "Body", "Window (JD TDB)", "Samples", "Age")
	for _, in := range infos {
		age := time.Since(in.FetchedAt).Round(time.Minute)
		fmt.Fprintf(os.Stdout, "%6d %-22s [%.2f, %.2f] %8d %s\n",
			in.Body, kernel.Name(in.Body), in.StartJD, in.StopJD, in.Samples, age)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := kernel.OpenStore(cfg.CachePath(), cfg.Cache.TTL())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Printf("Cache cleared at %s\n", store.Path())
	return nil
}
