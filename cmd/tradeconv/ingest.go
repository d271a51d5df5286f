package main

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tradedoc/internal/core"
	"github.com/JonMunkholm/tradedoc/internal/ingest"
	"github.com/JonMunkholm/tradedoc/internal/store"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		inputDir string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion pass over the inbound directory",
		Long: `Processes every file in INGEST_INPUT_DIR oldest first, exactly like one
scheduled pass of the server: converted documents go to INGEST_OUTBOX_DIR,
error reports to INGEST_ERROR_OUTBOX_DIR and sources are moved to the
processed or failed directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ic := a.cfg.Ingest
			if inputDir != "" {
				ic.InputDir = inputDir
			}

			countries, units, err := a.catalogs("", "")
			if err != nil {
				return err
			}
			converter := core.NewConverter(a.registry(), countries, units, core.ConverterConfig{
				OutputDir:              ic.WorkDir,
				ErrorDir:               ic.WorkDir,
				AllowEmptyMandatory:    a.cfg.Convert.AllowEmptyMandatory,
				WriteOnValidationError: true,
				StrictUOM:              a.cfg.Convert.StrictUOM,
				Logger:                 a.logger,
			})

			jobs := store.NewMemoryStore()
			ing := ingest.New(ingest.Config{
				InputDir:                ic.InputDir,
				ProcessedDir:            ic.ProcessedDir,
				FailedDir:               ic.FailedDir,
				OutboxDir:               ic.OutboxDir,
				ErrorOutboxDir:          ic.ErrorOutboxDir,
				UploadOnValidationError: ic.UploadOnValidationError,
			}, converter, jobs, ingest.DirUploader{}, a.logger)

			if err := ing.EnsureDirs(); err != nil {
				return err
			}
			sum, err := ing.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			done, err := jobs.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			// oldest first, matching processing order
			slices.Reverse(done)

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Summary ingest.Summary `json:"summary"`
					Jobs    []store.Job    `json:"jobs"`
				}{sum, done})
			}

			for _, j := range done {
				label := okStyle.Render("OK  ")
				switch j.Status {
				case store.StatusCompletedWithErrors:
					label = warnStyle.Render("WARN")
				case store.StatusFailed:
					label = failStyle.Render("FAIL")
				}
				fmt.Fprintf(out, "%s %s", label, j.FileName)
				if j.DocumentType != "" {
					fmt.Fprintf(out, ": %s, %d records, %d errors", j.DocumentType, j.Records, j.ErrorCount)
				}
				fmt.Fprintln(out)
				if j.Error != "" {
					fmt.Fprintf(out, "     %s\n", dimStyle.Render(j.Error))
				}
			}
			fmt.Fprintf(out, "processed %d, failed %d, skipped %d\n", sum.Processed, sum.Failed, sum.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "inbound directory (default INGEST_INPUT_DIR)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the summary and jobs as JSON")
	return cmd
}
