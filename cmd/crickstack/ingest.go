package main

import (
	"fmt"

	"github.com/midwicket/crickstack/internal/app"
	"github.com/midwicket/crickstack/internal/config"
	"github.com/midwicket/crickstack/internal/ingestion"
	"github.com/midwicket/crickstack/internal/platform/logging"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var (
		dataset     string
		recent      bool
		fullRefresh bool
		skipPeople  bool
		list        bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Download a Cricsheet dataset and load it into bronze",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				for _, ds := range ingestion.Datasets() {
					fmt.Printf("%-10s %s\n", ds.Key, ds.Name)
				}
				return nil
			}

			if recent {
				dataset = "recent_7"
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := logging.NewJSON(cfg.LogLevel)
			logging.SetDefault(logger)
			defer logger.Sync()

			handle, err := app.OpenDatabase(cfg)
			if err != nil {
				return err
			}
			defer handle.Close()

			set := app.NewIngestionSet(cfg, handle, logger)
			ctx := cmd.Context()

			matchesDir, err := set.Downloader.DownloadDataset(ctx, dataset)
			if err != nil {
				return err
			}

			result, err := set.Loader.LoadMatches(ctx, matchesDir, fullRefresh)
			if err != nil {
				return err
			}
			logger.Info("matches loaded",
				"dataset", dataset,
				"new_matches", result.NewMatches,
				"failed_files", len(result.FailedFiles),
			)

			if skipPeople {
				return nil
			}

			peoplePath, err := set.Downloader.DownloadPeople(ctx)
			if err != nil {
				return err
			}
			count, err := set.PeopleLoader.Load(ctx, peoplePath)
			if err != nil {
				return err
			}
			logger.Info("people registry loaded", "rows", count)

			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "ipl", "dataset key to ingest (see --list)")
	cmd.Flags().BoolVar(&recent, "recent", false, "shortcut for --dataset recent_7")
	cmd.Flags().BoolVar(&fullRefresh, "full-refresh", false, "drop bronze match tables and reload from scratch")
	cmd.Flags().BoolVar(&skipPeople, "skip-people", false, "skip refreshing the people registry")
	cmd.Flags().BoolVar(&list, "list", false, "list available datasets and exit")

	return cmd
}
