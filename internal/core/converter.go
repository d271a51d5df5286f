package core

// converter.go runs the conversion pipeline for one file:
//
//	detect (if no type given) -> parse -> transform -> validate -> serialize
//
// Stages run strictly in order with no internal parallelism. Independent
// files may be converted concurrently on the same Converter.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ConverterConfig holds the pipeline settings.
type ConverterConfig struct {
	OutputDir string // Converted documents
	ErrorDir  string // JSON error reports

	AllowEmptyMandatory    bool
	WriteOnValidationError bool // Emit best-effort output alongside errors
	StrictUOM              bool

	Now    func() time.Time // Clock for output names; defaults to time.Now
	Logger *slog.Logger
}

// Request describes one conversion.
type Request struct {
	Data         []byte
	FileName     string
	DocumentType string       // Optional; detected when empty
	Format       OutputFormat // Optional; the type's default when empty
}

// Converter wires the registry, catalogs and pipeline stages together.
type Converter struct {
	registry    *Registry
	detector    *Detector
	transformer *Transformer
	validator   *Validator
	cfg         ConverterConfig
	logger      *slog.Logger
}

// NewConverter creates a converter. The registry and catalogs are shared
// read-only.
func NewConverter(registry *Registry, countries CountryLookup, units UnitLookup, cfg ConverterConfig) *Converter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.ErrorDir == "" {
		cfg.ErrorDir = cfg.OutputDir
	}

	return &Converter{
		registry:    registry,
		detector:    NewDetector(registry, logger),
		transformer: NewTransformer(countries, units, logger),
		validator: NewValidator(countries, units, ValidationOptions{
			AllowEmptyMandatory: cfg.AllowEmptyMandatory,
			StrictUOM:           cfg.StrictUOM,
		}),
		cfg:    cfg,
		logger: logger,
	}
}

// Registry returns the registry the converter was built with.
func (c *Converter) Registry() *Registry { return c.registry }

// Detector returns the converter's detector.
func (c *Converter) Detector() *Detector { return c.detector }

// Convert runs the pipeline and writes the output and error report.
//
// Fatal problems (unsupported format, unknown or undetectable type, unreadable
// file, I/O failure) return a failed result together with the error.
// Validation problems are reported in the result with status
// completed_with_errors; the output is then written only when
// WriteOnValidationError is set.
func (c *Converter) Convert(ctx context.Context, req Request) (*ConversionResult, error) {
	start := time.Now()
	result := &ConversionResult{FileName: req.FileName}
	logger := c.logger.With("file", req.FileName)

	fail := func(err error) (*ConversionResult, error) {
		result.Status = StatusFailed
		result.Error = err.Error()
		result.Duration = time.Since(start)
		logger.Error("conversion failed", "error", err)
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if len(req.Data) == 0 {
		return fail(fmt.Errorf("%s: %w", req.FileName, ErrEmptyFile))
	}

	parser, err := ParserFor(req.FileName)
	if err != nil {
		return fail(err)
	}

	def, err := c.resolve(req)
	if err != nil {
		return fail(err)
	}
	result.DocumentType = def.DocType
	logger = logger.With("doc_type", def.DocType)

	format := req.Format
	if format == "" {
		format = def.DefaultFormat
	}
	if !def.AllowsFormat(format) {
		return fail(fmt.Errorf("%w: %s does not allow %q", ErrFormatNotAllowed, def.DocType, format))
	}
	result.Format = format

	parsed, err := parser.Parse(req.Data, def)
	if err != nil {
		return fail(err)
	}
	if len(parsed.Mapping) > 0 {
		logger.Debug("headers mapped", "mapping", parsed.Mapping)
	}

	records := c.transformer.Transform(parsed.Records, def)
	errs := c.validator.Validate(records, def)
	result.Records = len(records)
	result.Errors = errs

	output, err := Serialize(records, def, format)
	if err != nil {
		return fail(err)
	}

	base := BaseName(req.FileName)

	if len(errs) > 0 {
		path, err := c.writeErrorReport(base, errs)
		if err != nil {
			return fail(err)
		}
		result.ErrorReportPath = path
	}

	if len(errs) == 0 || c.cfg.WriteOnValidationError {
		name := ""
		if def.OutputName != nil {
			name = def.OutputName(records, base, c.cfg.Now())
		}
		if name == "" {
			name = base + "." + string(format)
		}
		path := filepath.Join(c.cfg.OutputDir, name)
		if err := writeFile(path, output); err != nil {
			return fail(err)
		}
		result.OutputPath = path
	}

	result.Status = StatusCompleted
	if len(errs) > 0 {
		result.Status = StatusCompletedWithErrors
	}
	result.Duration = time.Since(start)

	logger.Info("conversion finished",
		"status", result.Status,
		"records", result.Records,
		"errors", len(errs),
		"output", result.OutputPath,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (c *Converter) resolve(req Request) (*Definition, error) {
	if req.DocumentType != "" {
		return c.registry.Get(req.DocumentType)
	}
	docType, ok := c.detector.Detect(req.Data, req.FileName)
	if !ok {
		return nil, fmt.Errorf("%s: %w", req.FileName, ErrAmbiguousDocumentType)
	}
	return c.registry.Get(docType)
}

func (c *Converter) writeErrorReport(base string, errs []ValidationError) (string, error) {
	data, err := json.MarshalIndent(errs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode error report: %w", err)
	}
	path := filepath.Join(c.cfg.ErrorDir, base+"-errors.json")
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// BaseName returns the file name without directory or extension.
func BaseName(fileName string) string {
	name := filepath.Base(fileName)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
