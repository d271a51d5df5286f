package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type convertOptions struct {
	docType string
	format  string
	outDir  string
	errDir  string

	allowEmpty   bool
	writeOnError bool
	strictUOM    bool

	countryPath string
	uomPath     string
	jsonOut     bool
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Convert documents to the customs layout",
		Long: `Converts each file independently. The document type is detected from
the content unless --type is given; fixed-width .txt input needs --type or
a recognized file name prefix (FG, RM, BM, PI, PE).

Exits non-zero when any file fails. Validation problems are not failures:
they are written to <errors-dir>/<name>-errors.json.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.docType, "type", "t", "", "document type or prefix (skips detection)")
	f.StringVarP(&opts.format, "format", "f", "", "output format: txt or csv (default: the type's default)")
	f.StringVarP(&opts.outDir, "out", "o", "", "output directory (default CONVERT_OUTPUT_DIR)")
	f.StringVar(&opts.errDir, "errors-dir", "", "error report directory (default CONVERT_ERROR_DIR)")
	f.BoolVar(&opts.allowEmpty, "allow-empty-mandatory", false, "accept blank mandatory fields")
	f.BoolVar(&opts.writeOnError, "write-on-error", false, "write output even when validation fails")
	f.BoolVar(&opts.strictUOM, "strict-uom", false, "require catalog unit-of-measure codes")
	f.StringVar(&opts.countryPath, "countries", "", "country catalog overlay (.yaml or .xlsx)")
	f.StringVar(&opts.uomPath, "units", "", "unit catalog overlay (.yaml or .xlsx)")
	f.BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, opts *convertOptions, files []string) error {
	countries, units, err := a.catalogs(opts.countryPath, opts.uomPath)
	if err != nil {
		return err
	}

	cc := a.cfg.Convert
	if opts.outDir != "" {
		cc.OutputDir = opts.outDir
	}
	if opts.errDir != "" {
		cc.ErrorDir = opts.errDir
	}
	flags := cmd.Flags()
	if flags.Changed("allow-empty-mandatory") {
		cc.AllowEmptyMandatory = opts.allowEmpty
	}
	if flags.Changed("write-on-error") {
		cc.WriteOnValidationError = opts.writeOnError
	}
	if flags.Changed("strict-uom") {
		cc.StrictUOM = opts.strictUOM
	}

	converter := core.NewConverter(a.registry(), countries, units, core.ConverterConfig{
		OutputDir:              cc.OutputDir,
		ErrorDir:               cc.ErrorDir,
		AllowEmptyMandatory:    cc.AllowEmptyMandatory,
		WriteOnValidationError: cc.WriteOnValidationError,
		StrictUOM:              cc.StrictUOM,
		Logger:                 a.logger,
	})

	out := cmd.OutOrStdout()
	results := make([]*core.ConversionResult, 0, len(files))
	failed := 0

	for _, path := range files {
		res, err := convertFile(cmd, converter, opts, path, cc.MaxFileSize)
		if err != nil {
			failed++
		}
		results = append(results, res)
		if !opts.jsonOut {
			printResult(out, res, err)
		}
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(files))
	}
	return nil
}

func convertFile(cmd *cobra.Command, converter *core.Converter, opts *convertOptions, path string, maxSize int64) (*core.ConversionResult, error) {
	name := filepath.Base(path)
	failed := func(err error) (*core.ConversionResult, error) {
		return &core.ConversionResult{FileName: name, Status: core.StatusFailed, Error: err.Error()}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return failed(err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return failed(fmt.Errorf("file too large: %s is %s, limit is %s", name,
			humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(maxSize))))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return failed(err)
	}

	return converter.Convert(cmd.Context(), core.Request{
		Data:         data,
		FileName:     name,
		DocumentType: opts.docType,
		Format:       core.OutputFormat(opts.format),
	})
}

func printResult(w io.Writer, res *core.ConversionResult, err error) {
	if err != nil {
		msg := core.MapError(err)
		fmt.Fprintf(w, "%s %s: %s (%s)\n", failStyle.Render("FAIL"), res.FileName, msg.Message, msg.Code)
		fmt.Fprintf(w, "     %s\n", dimStyle.Render(err.Error()))
		return
	}

	label := okStyle.Render("OK  ")
	if res.Status == core.StatusCompletedWithErrors {
		label = warnStyle.Render("WARN")
	}
	fmt.Fprintf(w, "%s %s: %s, %d records, %d errors\n",
		label, res.FileName, res.DocumentType, res.Records, len(res.Errors))
	if res.OutputPath != "" {
		fmt.Fprintf(w, "     output: %s\n", res.OutputPath)
	}
	if res.ErrorReportPath != "" {
		fmt.Fprintf(w, "     errors: %s\n", res.ErrorReportPath)
	}
	for i, e := range res.Errors {
		if i == 5 {
			fmt.Fprintf(w, "     %s\n", dimStyle.Render(fmt.Sprintf("... %d more", len(res.Errors)-i)))
			break
		}
		fmt.Fprintf(w, "     %s\n", dimStyle.Render(e.Message))
	}
}
