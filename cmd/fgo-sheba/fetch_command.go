package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quinnjr/fgo-sheba/internal/atlas"
	"github.com/quinnjr/fgo-sheba/internal/fetch"
	"github.com/quinnjr/fgo-sheba/internal/progress"
)

func newFetchCommand(app *appState) *cobra.Command {
	var (
		region      string
		limit       int
		concurrency int
		skipDetails bool
		enemies     bool
		equips      bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download categorized game assets from Atlas Academy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if !cmd.Flags().Changed("region") {
				region = cfg.Region
			}
			reg, err := atlas.ParseRegion(region)
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.Limit
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = cfg.Workers
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			unlock, err := runLock(cfg.Output)
			if err != nil {
				return err
			}
			defer unlock()

			bucket, err := openCorpus(ctx, cfg.Output, "assets")
			if err != nil {
				return err
			}
			defer bucket.Close()

			opts := atlas.DefaultOptions()
			opts.Timeout = cfg.TaskTimeout
			opts.RetryAttempts = cfg.Retry.Attempts
			opts.RetryBackoff = cfg.Retry.Backoff
			opts.RetryMaxBackoff = cfg.Retry.MaxBackoff

			collector := fetch.New(atlas.NewClient(opts), bucket, reg, fetch.Options{
				Limit:        limit,
				Enemies:      enemies,
				Equips:       equips,
				SkipDetails:  skipDetails,
				Concurrency:  concurrency,
				TaskTimeout:  cfg.TaskTimeout,
				ShowProgress: cfg.Progress && isTTY(os.Stderr),
			})

			report, err := collector.Run(ctx)
			if err != nil {
				return err
			}
			printFetchReport(cmd, report)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&region, "region", "", "game region: na or jp (defaults to the configured region)")
	fl.IntVar(&limit, "limit", 0, "cap on servants processed, 0 = all (defaults to the configured limit)")
	fl.IntVar(&concurrency, "concurrency", 0, "parallel downloads (defaults to the configured workers)")
	fl.BoolVar(&skipDetails, "skip-details", false, "skip per-servant detail fetches and command cards")
	fl.BoolVar(&enemies, "enemies", false, "also collect faces of enemy rows under enemies/")
	fl.BoolVar(&equips, "equips", false, "also collect craft essence faces under equips/")

	return cmd
}

func printFetchReport(cmd *cobra.Command, report *fetch.Report) {
	out := cmd.OutOrStdout()

	rows := make([]table.Row, 0, len(report.Phases))
	for _, p := range report.Phases {
		rows = append(rows, table.Row{p.Name, p.Tasks, p.OK, p.Failed})
	}
	fmt.Fprintln(out, renderTable(table.Row{"Phase", "Tasks", "OK", "Failed"}, rows, 2, 3, 4))

	fmt.Fprintln(out, renderTable(table.Row{"Category", "Objects"},
		categoryRows(report.Stats.Categories, report.Stats.Total), 2))
	fmt.Fprintf(out, "Wrote %s to the corpus\n", progress.FormatBytes(report.Bytes))
}
