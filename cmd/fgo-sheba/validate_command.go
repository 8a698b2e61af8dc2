package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quinnjr/fgo-sheba/internal/extract"
	"github.com/quinnjr/fgo-sheba/internal/fetch"
	"github.com/quinnjr/fgo-sheba/pkg/corpus"
)

func newValidateCommand(app *appState) *cobra.Command {
	var summary string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a corpus against the counts its run summary recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var sub string
			switch summary {
			case fetch.MetadataName:
				sub = "assets"
			case extract.StatsName:
				sub = "extracted"
			default:
				return fmt.Errorf("%w: unknown summary %q (want %s or %s)",
					errUsage, summary, fetch.MetadataName, extract.StatsName)
			}

			bucket, err := openCorpus(ctx, cfg.Output, sub)
			if err != nil {
				return err
			}
			defer bucket.Close()

			var expected map[corpus.Category]int64
			if summary == fetch.MetadataName {
				meta, err := fetch.ReadMetadata(ctx, bucket)
				if err != nil {
					return err
				}
				expected = meta.Categories
			} else {
				stats, err := extract.ReadStats(ctx, bucket)
				if err != nil {
					return err
				}
				expected = stats.Categories
			}

			result, err := corpus.Validate(ctx, bucket, expected)
			if err != nil {
				return err
			}
			printValidationResult(cmd, result)
			if !result.Valid {
				return fmt.Errorf("corpus does not match its summary: %d categories disagree",
					len(result.Mismatches))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&summary, "summary", fetch.MetadataName,
		"run summary to check against: "+fetch.MetadataName+" or "+extract.StatsName)

	return cmd
}

func printValidationResult(cmd *cobra.Command, result *corpus.ValidationResult) {
	out := cmd.OutOrStdout()

	if result.Valid {
		fmt.Fprintf(out, "OK: %d objects match the summary\n", result.Counted)
		return
	}

	rows := make([]table.Row, 0, len(result.Mismatches))
	for _, m := range result.Mismatches {
		rows = append(rows, table.Row{m.Category, m.Expected, m.Actual})
	}
	fmt.Fprintln(out, renderTable(table.Row{"Category", "Expected", "Actual"}, rows, 2, 3))
	fmt.Fprintf(out, "counted %d objects, summary claims %d\n", result.Counted, result.Expected)
}
