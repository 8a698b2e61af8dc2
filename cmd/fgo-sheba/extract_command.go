package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quinnjr/fgo-sheba/internal/extract"
)

func newExtractCommand(app *appState) *cobra.Command {
	var (
		apkPath      string
		keepUnpacked string
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract and categorize image assets from an application package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if apkPath == "" {
				return fmt.Errorf("%w: --apk is required", errUsage)
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

			bucket, err := openCorpus(ctx, cfg.Output, "extracted")
			if err != nil {
				return err
			}
			defer bucket.Close()

			extractor := extract.New(bucket, extract.Options{
				Concurrency:  concurrency,
				TaskTimeout:  cfg.TaskTimeout,
				KeepUnpacked: keepUnpacked,
				ShowProgress: cfg.Progress && isTTY(os.Stderr),
			})

			report, err := extractor.RunArchive(ctx, apkPath)
			if err != nil {
				return err
			}
			printExtractReport(cmd, report)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&apkPath, "apk", "", "path to the application package (zip archive)")
	fl.StringVar(&keepUnpacked, "keep-unpacked", "", "unpack into this directory and keep it after the run")
	fl.IntVar(&concurrency, "concurrency", 0, "parallel extractions (defaults to the configured workers)")

	return cmd
}

func printExtractReport(cmd *cobra.Command, report *extract.Report) {
	out := cmd.OutOrStdout()

	if u := report.Unpack; u != nil {
		fmt.Fprintf(out, "Unpacked %d of %d archive entries (%d skipped)\n",
			u.Unpacked, u.Entries, u.Skipped)
	}
	fmt.Fprintln(out, renderTable(table.Row{"Files", "OK", "Failed", "Images"},
		[]table.Row{{report.TotalFiles, report.OK, report.Failed, report.Extracted}}, 1, 2, 3, 4))

	fmt.Fprintln(out, renderTable(table.Row{"Category", "Objects"},
		categoryRows(report.Stats.Categories, report.Stats.Total), 2))
}
