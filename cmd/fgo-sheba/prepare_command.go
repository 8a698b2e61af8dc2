package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gocloud.dev/blob"

	"github.com/quinnjr/fgo-sheba/pkg/corpus"
)

func newPrepareCommand(app *appState) *cobra.Command {
	var (
		assets   string
		datasets []string
		fromAPK  bool
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Build training datasets from a collected corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			unlock, err := runLock(cfg.Output)
			if err != nil {
				return err
			}
			defer unlock()

			var src *blob.Bucket
			if assets != "" {
				src, err = openBucket(ctx, assets)
			} else {
				sub := "assets"
				if fromAPK {
					sub = "extracted"
				}
				src, err = openCorpus(ctx, cfg.Output, sub)
			}
			if err != nil {
				return err
			}
			defer src.Close()

			out := cmd.OutOrStdout()
			for _, name := range datasets {
				switch name {
				case "cards":
					dst, err := openCorpus(ctx, cfg.Output, "datasets/cards")
					if err != nil {
						return err
					}
					opts := corpus.FetchedCardDataset()
					if fromAPK {
						opts = corpus.ExtractedCardDataset()
					}
					info, err := corpus.BuildCards(ctx, src, dst, opts)
					dst.Close()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "cards dataset: %d images\n", info.Total)
					fmt.Fprintln(out, renderTable(table.Row{"Class", "Images"},
						categoryRows(info.Classes, info.Total), 2))
				case "servants":
					dst, err := openCorpus(ctx, cfg.Output, "datasets/servants")
					if err != nil {
						return err
					}
					n, err := corpus.BuildServants(ctx, src, dst)
					dst.Close()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "servants dataset: %d images\n", n)
				case "class-icons":
					dst, err := openCorpus(ctx, cfg.Output, "datasets/class_icons")
					if err != nil {
						return err
					}
					n, err := corpus.BuildClassIcons(ctx, src, dst)
					dst.Close()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "class icon dataset: %d images\n", n)
				default:
					return fmt.Errorf("%w: unknown dataset %q (want cards, servants, or class-icons)",
						errUsage, name)
				}
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&assets, "assets", "", "corpus to read from (defaults to the output's assets/ corpus)")
	fl.StringSliceVar(&datasets, "datasets", []string{"cards"},
		"datasets to build: "+strings.Join([]string{"cards", "servants", "class-icons"}, ", "))
	fl.BoolVar(&fromAPK, "extracted", false, "prepare from the extracted/ corpus with its card classes and threshold")

	return cmd
}
