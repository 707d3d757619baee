package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slide-gallery/internal/check"
	"github.com/ziadkadry99/slide-gallery/internal/progress"
)

var checkConcurrency int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch every slide's fragment and report failures",
	Long: `Loads the slide index and fetches each slide's detail fragment, the same
requests the gallery makes when a panel opens. Exits non-zero when any
fragment cannot be loaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, c, err := setup()
		if err != nil {
			return err
		}

		concurrency := cfg.Check.Concurrency
		if cmd.Flags().Changed("concurrency") {
			concurrency = checkConcurrency
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		checker := &check.Checker{
			Index:       c.index,
			Fragments:   c.fragments,
			Concurrency: concurrency,
			Reporter:    progress.NewReporter(os.Stderr, "Checking fragments"),
			Logger:      logger,
		}
		report, err := checker.Run(ctx)
		if err != nil {
			return err
		}

		failed := report.Failed()
		for _, res := range report.Results {
			switch {
			case !res.OK():
				fmt.Printf("FAIL  %-40s %v\n", res.Path, res.Err)
			case res.Empty:
				fmt.Printf("EMPTY %-40s\n", res.Path)
			case verbose:
				fmt.Printf("ok    %-40s %s\n", res.Path, res.Duration.Round(time.Millisecond))
			}
		}
		fmt.Printf("\n%d slides, %d failed\n", len(report.Results), len(failed))

		if len(failed) > 0 {
			return fmt.Errorf("%d of %d fragments could not be loaded", len(failed), len(report.Results))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().IntVarP(&checkConcurrency, "concurrency", "c", 4, "parallel fragment fetches (overrides check.concurrency)")
	rootCmd.AddCommand(checkCmd)
}
