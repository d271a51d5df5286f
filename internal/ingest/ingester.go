// Package ingest converts files dropped into an inbound directory without a
// user in the loop. Files are processed one at a time in arrival order; each
// one ends up in the processed or failed directory and its artifacts are
// handed to an Uploader.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/tradedoc/internal/core"
	"github.com/JonMunkholm/tradedoc/internal/store"
)

// Config holds the ingestion directories and policy.
type Config struct {
	InputDir       string
	ProcessedDir   string
	FailedDir      string
	OutboxDir      string // Converted documents
	ErrorOutboxDir string // Error reports

	// UploadOnValidationError hands off the converted document even when the
	// conversion completed with errors.
	UploadOnValidationError bool
}

// Summary counts the outcomes of one pass.
type Summary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Ingester runs ingestion passes. Passes never overlap.
type Ingester struct {
	cfg       Config
	converter *core.Converter
	jobs      store.JobStore
	uploader  Uploader
	logger    *slog.Logger

	mu sync.Mutex
}

// New creates an Ingester. The converter should write into a private work
// directory since local artifacts are deleted after hand-off.
func New(cfg Config, converter *core.Converter, jobs store.JobStore, uploader Uploader, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	if uploader == nil {
		uploader = DirUploader{}
	}
	return &Ingester{
		cfg:       cfg,
		converter: converter,
		jobs:      jobs,
		uploader:  uploader,
		logger:    logger.With("component", "ingest"),
	}
}

// EnsureDirs creates the input, processed and failed directories.
func (i *Ingester) EnsureDirs() error {
	for _, dir := range []string{i.cfg.InputDir, i.cfg.ProcessedDir, i.cfg.FailedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// RunOnce processes every eligible file currently in the input directory.
// Per-file problems are logged and counted, never returned.
func (i *Ingester) RunOnce(ctx context.Context) (Summary, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var sum Summary
	files, skipped, err := i.pending()
	if err != nil {
		return sum, err
	}
	sum.Skipped = skipped
	if len(files) == 0 {
		i.logger.Debug("no new files", "dir", i.cfg.InputDir)
		return sum, nil
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if i.processFile(ctx, name) {
			sum.Processed++
		} else {
			sum.Failed++
		}
	}

	i.logger.Info("ingestion pass finished",
		"processed", sum.Processed,
		"failed", sum.Failed,
		"skipped", sum.Skipped,
	)
	return sum, nil
}

// Skip reports whether a file name is a hidden or in-flight upload.
func Skip(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, ".tmp") ||
		strings.HasSuffix(name, ".partial")
}

// pending lists eligible files oldest first.
func (i *Ingester) pending() ([]string, int, error) {
	entries, err := os.ReadDir(i.cfg.InputDir)
	if err != nil {
		return nil, 0, fmt.Errorf("read input dir: %w", err)
	}

	type candidate struct {
		name    string
		modTime time.Time
	}
	var (
		files   []candidate
		skipped int
	)
	for _, e := range entries {
		if !e.Type().IsRegular() || Skip(e.Name()) {
			skipped++
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between listing and stat.
			continue
		}
		files = append(files, candidate{name: e.Name(), modTime: info.ModTime()})
	}

	sort.Slice(files, func(a, b int) bool {
		if !files[a].modTime.Equal(files[b].modTime) {
			return files[a].modTime.Before(files[b].modTime)
		}
		return files[a].name < files[b].name
	})

	names := make([]string, len(files))
	for k, f := range files {
		names[k] = f.name
	}
	return names, skipped, nil
}

// processFile converts one file and reports whether it completed cleanly.
func (i *Ingester) processFile(ctx context.Context, name string) bool {
	path := filepath.Join(i.cfg.InputDir, name)
	logger := i.logger.With("file", name)

	job := store.NewJob(name, true)
	if err := i.jobs.Create(ctx, job); err != nil {
		logger.Error("failed to record job", "error", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		i.fail(ctx, job, path, nil, err)
		return false
	}

	def, err := i.resolve(data, name)
	if err != nil {
		i.fail(ctx, job, path, nil, err)
		return false
	}
	job.DocumentType = def.DocType
	job.Format = string(def.DefaultFormat)
	job.Status = store.StatusProcessing
	i.updateJob(ctx, job)

	res, err := i.converter.Convert(ctx, core.Request{
		Data:         data,
		FileName:     name,
		DocumentType: def.DocType,
		Format:       def.DefaultFormat,
	})
	if err != nil {
		i.fail(ctx, job, path, res, err)
		return false
	}

	transfers, err := i.handOff(ctx, res)
	if err != nil {
		i.fail(ctx, job, path, res, err)
		return false
	}
	removeArtifacts(res)

	// Local artifacts are gone; the job points at the delivered copies.
	job.Finish(res, nil)
	job.OutputPath, job.ErrorPath = "", ""
	for _, t := range transfers {
		if t.Local == res.OutputPath {
			job.OutputPath = t.Remote
		} else {
			job.ErrorPath = t.Remote
		}
	}
	i.updateJob(ctx, job)

	target := i.cfg.FailedDir
	if res.Status == core.StatusCompleted {
		target = i.cfg.ProcessedDir
	}
	if err := os.Rename(path, filepath.Join(target, name)); err != nil {
		logger.Error("failed to move source file", "target", target, "error", err)
	}

	logger.Info("file ingested",
		"doc_type", res.DocumentType,
		"status", res.Status,
		"records", res.Records,
		"errors", len(res.Errors),
	)
	return res.Status == core.StatusCompleted
}

// resolve detects the type from content, falling back to the file name
// prefix.
func (i *Ingester) resolve(data []byte, name string) (*core.Definition, error) {
	reg := i.converter.Registry()
	if docType, ok := i.converter.Detector().Detect(data, name); ok {
		return reg.Get(docType)
	}
	if def, ok := reg.ByFileName(name); ok {
		i.logger.Debug("document type from file name prefix", "file", name, "doc_type", def.DocType)
		return def, nil
	}
	return nil, fmt.Errorf("%s: %w", name, core.ErrAmbiguousDocumentType)
}

// handOff uploads the converted document (when allowed) and the error
// report. The converted document's remote name drops a .txt extension.
func (i *Ingester) handOff(ctx context.Context, res *core.ConversionResult) ([]Transfer, error) {
	var transfers []Transfer

	clean := res.Status == core.StatusCompleted
	if res.OutputPath != "" && (clean || i.cfg.UploadOnValidationError) {
		remote := filepath.Base(res.OutputPath)
		if strings.EqualFold(filepath.Ext(remote), ".txt") {
			remote = strings.TrimSuffix(remote, filepath.Ext(remote))
		}
		transfers = append(transfers, Transfer{
			Local:  res.OutputPath,
			Remote: filepath.Join(i.cfg.OutboxDir, remote),
		})
	}
	if res.ErrorReportPath != "" {
		transfers = append(transfers, Transfer{
			Local:  res.ErrorReportPath,
			Remote: filepath.Join(i.cfg.ErrorOutboxDir, filepath.Base(res.ErrorReportPath)),
		})
	}

	if len(transfers) == 0 {
		i.logger.Debug("nothing to upload", "file", res.FileName)
		return nil, nil
	}
	return transfers, i.uploader.Upload(ctx, transfers)
}

// fail moves the source to the failed directory, records the error and
// removes any partial artifacts.
func (i *Ingester) fail(ctx context.Context, job *store.Job, path string, res *core.ConversionResult, err error) {
	i.logger.Error("ingestion failed", "file", filepath.Base(path), "error", err)

	if res != nil {
		removeArtifacts(res)
		res.OutputPath, res.ErrorReportPath = "", ""
		res.Status = core.StatusFailed
		res.Error = err.Error()
	}
	job.Finish(res, err)
	i.updateJob(ctx, job)

	if moveErr := os.Rename(path, filepath.Join(i.cfg.FailedDir, filepath.Base(path))); moveErr != nil &&
		!errors.Is(moveErr, os.ErrNotExist) {
		i.logger.Error("failed to move source file", "file", filepath.Base(path), "error", moveErr)
	}
}

func (i *Ingester) updateJob(ctx context.Context, job *store.Job) {
	if err := i.jobs.Update(ctx, job); err != nil {
		i.logger.Error("failed to update job", "job_id", job.ID, "error", err)
	}
}

func removeArtifacts(res *core.ConversionResult) {
	for _, p := range []string{res.OutputPath, res.ErrorReportPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove local artifact", "path", p, "error", err)
		}
	}
}
