package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

func newDetectCmd(a *app) *cobra.Command {
	var jsonOut, all bool

	cmd := &cobra.Command{
		Use:   "detect FILE...",
		Short: "Report the detected document type of each file",
		Long: `Scores every registered document type against the file's headers and
reports the winner. With --all the full candidate table is printed.

Files whose content is inconclusive, fixed-width .txt included, fall back
to the file name prefix.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detector := core.NewDetector(a.registry(), a.logger)
			out := cmd.OutOrStdout()

			results := make(map[string]*core.Detection, len(args))
			for _, path := range args {
				name := filepath.Base(path)
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				det, err := detector.Analyze(data, name)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if det.DocType == "" {
					if def, ok := a.registry().ByFileName(name); ok {
						det.DocType = def.DocType
					}
				}
				results[name] = det

				if jsonOut {
					continue
				}
				docType := det.DocType
				if docType == "" {
					docType = failStyle.Render("undetermined")
				}
				fmt.Fprintf(out, "%s: %s\n", name, docType)
				if all && len(det.Candidates) > 0 {
					fmt.Fprintln(out, candidateTable(det.Candidates))
				}
			}

			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print detections as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "print every candidate's scores")
	return cmd
}

func candidateTable(cands []core.Candidate) string {
	t := table.New().Headers("TYPE", "BASE", "SIGNATURE", "HINT", "FINAL")
	for _, c := range cands {
		t.Row(c.DocType,
			fmt.Sprintf("%.2f", c.BaseScore),
			fmt.Sprintf("%.2f (%d)", c.Signature, c.SignatureSize),
			fmt.Sprintf("%.2f", c.HintBonus),
			fmt.Sprintf("%.2f", c.FinalScore),
		)
	}
	return t.String()
}
