package main

import (
	"fmt"
	"time"

	"github.com/midwicket/crickstack/internal/app"
	"github.com/midwicket/crickstack/internal/config"
	"github.com/midwicket/crickstack/internal/enrichment"
	"github.com/midwicket/crickstack/internal/platform/logging"
	"github.com/spf13/cobra"
)

func newEnrichCmd() *cobra.Command {
	var (
		season     string
		allSeasons bool
		limit      int
		dryRun     bool
		delay      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Scrape ESPN scorecards for ingested matches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("delay") {
				cfg.ESPNProbeDelay = delay
			}

			logger := logging.NewJSON(cfg.LogLevel)
			logging.SetDefault(logger)
			defer logger.Sync()

			handle, err := app.OpenDatabase(cfg)
			if err != nil {
				return err
			}
			defer handle.Close()

			ctx := cmd.Context()
			service, client := app.NewEnrichmentService(ctx, cfg, handle, logger)
			defer client.Close()

			report, err := service.Run(ctx, enrichment.RunOptions{
				Season:     season,
				AllSeasons: allSeasons,
				Limit:      limit,
				DryRun:     dryRun,
			})
			if err != nil {
				return err
			}

			for _, plan := range report.Plan {
				fmt.Printf("%-10s total=%d scraped=%d pending=%d\n",
					plan.Season, plan.TotalMatches, plan.AlreadyScraped, plan.ToScrape)
			}
			if dryRun {
				fmt.Printf("dry run: %d match(es) pending\n", report.Pending)
				return nil
			}
			fmt.Printf("scraped=%d loaded=%d failed=%d\n", report.Scraped, report.Loaded, len(report.Failed))

			return nil
		},
	}

	cmd.Flags().StringVar(&season, "season", "", "season to enrich, e.g. 2024 or 2007/08")
	cmd.Flags().BoolVar(&allSeasons, "all", false, "enrich every ingested season")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of matches scraped this run")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan only, do not scrape")
	cmd.Flags().DurationVar(&delay, "delay", 4*time.Second, "pause between ESPN requests")

	return cmd
}
