package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/tradedoc/internal/core"
	"github.com/JonMunkholm/tradedoc/internal/logging"
	"github.com/JonMunkholm/tradedoc/internal/store"
)

var (
	errNoFile       = errors.New("no file provided")
	errFileTooLarge = errors.New("file too large")
)

// multipartOverhead allows for form boundaries and headers around the file.
const multipartOverhead = 1 << 20

// DocumentTypeSummary describes a registered type in listings.
type DocumentTypeSummary struct {
	DocType       string              `json:"docType"`
	Label         string              `json:"label"`
	Prefixes      []string            `json:"prefixes"`
	Formats       []core.OutputFormat `json:"formats"`
	DefaultFormat core.OutputFormat   `json:"defaultFormat"`
	LineLength    int                 `json:"lineLength"`
	Mandatory     []string            `json:"mandatory"`
}

// FieldInfo is the wire form of a core.FieldSpec.
type FieldInfo struct {
	Item           int      `json:"item"`
	Name           string   `json:"name"`
	Aliases        []string `json:"aliases,omitempty"`
	Type           string   `json:"type"`
	Length         int      `json:"length"`
	Start          int      `json:"start"`
	End            int      `json:"end"`
	Decimals       int      `json:"decimals,omitempty"`
	Requirement    string   `json:"requirement"`
	PossibleValues []string `json:"possibleValues,omitempty"`
	Filler         bool     `json:"filler,omitempty"`
}

// DocumentTypeDetail adds the field layout to the summary.
type DocumentTypeDetail struct {
	DocumentTypeSummary
	Signature []string    `json:"signature"`
	Fields    []FieldInfo `json:"fields"`
}

// ConvertResponse is returned by POST /api/convert.
type ConvertResponse struct {
	Job    *store.Job             `json:"job"`
	Result *core.ConversionResult `json:"result"`
}

func summarize(d *core.Definition) DocumentTypeSummary {
	return DocumentTypeSummary{
		DocType:       d.DocType,
		Label:         d.Label,
		Prefixes:      d.Prefixes,
		Formats:       d.Formats,
		DefaultFormat: d.DefaultFormat,
		LineLength:    d.LineLength(),
		Mandatory:     d.MandatoryFields(),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := IndexPage(s.converter.Registry().All()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"document_types": s.converter.Registry().Len(),
	})
}

func (s *Server) handleListDocumentTypes(w http.ResponseWriter, r *http.Request) {
	defs := s.converter.Registry().All()
	out := make([]DocumentTypeSummary, len(defs))
	for i, d := range defs {
		out[i] = summarize(d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDocumentType(w http.ResponseWriter, r *http.Request) {
	def, err := s.converter.Registry().Get(chi.URLParam(r, "docType"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	detail := DocumentTypeDetail{
		DocumentTypeSummary: summarize(def),
		Signature:           def.Signature,
		Fields:              make([]FieldInfo, len(def.Fields)),
	}
	for i, f := range def.Fields {
		detail.Fields[i] = FieldInfo{
			Item:           f.Item,
			Name:           f.Name,
			Aliases:        f.Aliases,
			Type:           f.Type.String(),
			Length:         f.Length,
			Start:          f.Start,
			End:            f.End,
			Decimals:       f.Decimals,
			Requirement:    f.Requirement.String(),
			PossibleValues: f.PossibleValues,
			Filler:         f.Filler,
		}
	}
	writeJSON(w, http.StatusOK, detail)
}

// readUpload reads the "file" form part, bounded by the configured maximum.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Convert.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", fmt.Errorf("%w: %w", errFileTooLarge, maxErr)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, "", errNoFile
		}
		return nil, "", fmt.Errorf("read upload: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errNoFile
	}
	defer file.Close()

	if header.Size > s.cfg.Convert.MaxFileSize {
		return nil, "", fmt.Errorf("%w: %d bytes exceeds %d", errFileTooLarge, header.Size, s.cfg.Convert.MaxFileSize)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	name := filepath.Base(header.Filename)
	if len(data) == 0 {
		return nil, name, fmt.Errorf("%s: %w", name, core.ErrEmptyFile)
	}
	return data, name, nil
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	det, err := s.converter.Detector().Analyze(data, name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, det)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, name, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logger := logging.WithFields(ctx, "file", name)

	if err := s.limiter.Acquire(ctx); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.limiter.Release()

	job := store.NewJob(name, false)
	if err := s.jobs.Create(ctx, job); err != nil {
		s.respondError(w, r, fmt.Errorf("create job: %w", err))
		return
	}
	w.Header().Set("X-Job-ID", job.ID.String())

	job.Status = store.StatusProcessing
	s.updateJob(r, job)

	res, convErr := s.converter.Convert(ctx, core.Request{
		Data:         data,
		FileName:     name,
		DocumentType: r.FormValue("documentType"),
		Format:       core.OutputFormat(r.FormValue("format")),
	})
	job.Finish(res, convErr)
	s.updateJob(r, job)

	if convErr != nil {
		s.respondError(w, r, convErr)
		return
	}

	logger.Info("conversion completed via api",
		"job_id", job.ID,
		"doc_type", res.DocumentType,
		"status", res.Status,
		"errors", len(res.Errors),
	)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := JobSummary(job, res.Errors).Render(ctx, w); err != nil {
			logger.Error("render job summary", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, ConvertResponse{Job: job, Result: res})
}

func (s *Server) updateJob(r *http.Request, job *store.Job) {
	// Detached so a client disconnect still records the outcome.
	if err := s.jobs.Update(context.WithoutCancel(r.Context()), job); err != nil {
		logging.FromContext(r.Context()).Error("failed to update job", "job_id", job.ID, "error", err)
	}
}

func (s *Server) handleConversionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.limiter.Status())
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, 500)
	}
	jobs, err := s.jobs.List(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []store.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) jobFromPath(r *http.Request) (*store.Job, error) {
	id, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", store.ErrJobNotFound, chi.URLParam(r, "jobID"))
	}
	return s.jobs.Get(r.Context(), id)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleJobOutput(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.serveArtifact(w, r, job.OutputPath, "text/plain; charset=utf-8")
}

func (s *Server) handleJobErrors(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.serveArtifact(w, r, job.ErrorPath, "application/json")
}

// serveArtifact streams a job file as an attachment.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, path, contentType string) {
	if path == "" {
		s.respondError(w, r, fmt.Errorf("%w: no such artifact", store.ErrJobNotFound))
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: artifact removed", store.ErrJobNotFound)
		}
		s.respondError(w, r, err)
		return
	}
	defer f.Close()

	modTime := time.Time{}
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}

	name := filepath.Base(path)
	if filepath.Ext(name) == ".csv" {
		contentType = "text/csv; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, modTime, f)
}
