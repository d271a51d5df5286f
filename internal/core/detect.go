package core

// detect.go chooses a document type for a file whose type was not declared.
//
// Detection runs in two stages:
//  1. Structural: templates with a StructuralHint are recognized from label
//     cells and an anchor header row. A match short-circuits scoring.
//  2. Scoring: for every registered type,
//     base      = mandatory fields mapped / mandatory fields * 100
//     signature = signature fields mapped / signature size * 100
//     final     = 0.7*base + 0.3*signature + hint bonus
//     The hint bonus goes to the single type the registry derives from the
//     file name.
//     Candidates rank by final, signature, signature size, base, then unique
//     fields found. The top candidate is accepted only when its base score
//     reaches MinBaseScore.

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MinBaseScore is the mandatory-field coverage a winner must reach.
	MinBaseScore = 75.0

	// FilenameHintBonus is added when the file name suggests the type.
	FilenameHintBonus = 15.0

	baseWeight      = 0.7
	signatureWeight = 0.3

	// detectHeaderRows bounds the header-row search during detection.
	detectHeaderRows = 40
)

// Candidate is one document type's detection score.
type Candidate struct {
	DocType       string  `json:"docType"`
	BaseScore     float64 `json:"baseScore"`
	Signature     float64 `json:"signatureCoverage"`
	SignatureSize int     `json:"signatureSize"`
	HintBonus     float64 `json:"hintBonus"`
	UniqueFound   int     `json:"uniqueFound"`
	FinalScore    float64 `json:"finalScore"`
}

// Detection is the full outcome of a detection attempt.
type Detection struct {
	DocType    string      `json:"docType,omitempty"` // "" when ambiguous
	Structural bool        `json:"structural"`
	Headers    []string    `json:"headers,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Detector scores registered document types against file content.
type Detector struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDetector creates a detector over the registry.
func NewDetector(registry *Registry, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{registry: registry, logger: logger}
}

// Detect returns the best matching document type, or false when the content
// is ambiguous, unreadable or has no headers (fixed-width text).
func (d *Detector) Detect(data []byte, fileName string) (string, bool) {
	det, err := d.Analyze(data, fileName)
	if err != nil {
		d.logger.Debug("detection failed", "file", fileName, "error", err)
		return "", false
	}
	return det.DocType, det.DocType != ""
}

// Analyze runs detection and reports every candidate's score. Errors are
// returned only for unsupported or unreadable files.
func (d *Detector) Analyze(data []byte, fileName string) (*Detection, error) {
	det := &Detection{}

	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".xlsx", ".xlsm":
		_, rows, err := readSheet(data)
		if err != nil {
			return nil, err
		}
		if docType, ok := d.structural(rows); ok {
			det.DocType = docType
			det.Structural = true
			d.logger.Debug("document detected structurally", "file", fileName, "doc_type", docType)
			return det, nil
		}
		if idx := bestHeaderRow(rows, detectHeaderRows); idx >= 0 {
			det.Headers = cleanRow(rows[idx])
		}
	case ".csv", ".tsv":
		det.Headers = sniffHeaders(decodeText(data))
	case ".txt":
		return det, nil
	default:
		if _, err := ParserFor(fileName); err != nil {
			return nil, err
		}
	}

	if len(det.Headers) == 0 {
		return det, nil
	}

	det.Candidates = d.score(det.Headers, fileName)
	if len(det.Candidates) > 0 && det.Candidates[0].BaseScore >= MinBaseScore {
		det.DocType = det.Candidates[0].DocType
	}

	d.logger.Debug("document detection",
		"file", fileName,
		"doc_type", det.DocType,
		"candidates", det.Candidates,
	)
	return det, nil
}

// structural checks templates that declare a StructuralHint.
func (d *Detector) structural(rows [][]string) (string, bool) {
	for _, def := range d.registry.All() {
		h := def.Structural
		if h == nil {
			continue
		}
		if hasLabel(rows, h.Labels, h.LabelRows) && hasAnchorRow(rows, h.Anchors, h.AnchorRows, h.MinPopulated) {
			return def.DocType, true
		}
	}
	return "", false
}

func hasLabel(rows [][]string, labels []string, limit int) bool {
	for i := 0; i < len(rows) && i < limit; i++ {
		for _, c := range rows[i] {
			c = strings.ToLower(CleanCell(c))
			if c == "" {
				continue
			}
			for _, l := range labels {
				if strings.Contains(c, strings.ToLower(l)) {
					return true
				}
			}
		}
	}
	return false
}

func hasAnchorRow(rows [][]string, anchors []string, limit, minPopulated int) bool {
	for i := 0; i < len(rows) && i < limit; i++ {
		populated := 0
		found := make(map[string]bool, len(anchors))
		for _, c := range rows[i] {
			c = strings.ToLower(CleanCell(c))
			if c == "" {
				continue
			}
			populated++
			for _, a := range anchors {
				if strings.Contains(c, strings.ToLower(a)) {
					found[a] = true
				}
			}
		}
		if populated >= minPopulated && len(found) == len(anchors) {
			return true
		}
	}
	return false
}

// sniffHeaders splits the first non-blank line on its most frequent
// separator.
func sniffHeaders(text string) []string {
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		best, bestCount := ',', 0
		for _, d := range delimiterCandidates {
			if n := strings.Count(line, string(d)); n > bestCount {
				best, bestCount = d, n
			}
		}
		rows, err := readDelimited(line, best, 1)
		if err != nil || len(rows) == 0 {
			return nil
		}
		return cleanRow(rows[0])
	}
	return nil
}

func (d *Detector) score(headers []string, fileName string) []Candidate {
	hinted := d.registry.HintedType(fileName)
	uniqueness := d.registry.Uniqueness()

	var out []Candidate
	for _, def := range d.registry.All() {
		mapping := MapHeaders(headers, def.Fields)
		mapped := make(map[string]bool, len(mapping))
		for _, name := range mapping {
			mapped[name] = true
		}

		c := Candidate{DocType: def.DocType, SignatureSize: len(def.Signature)}

		mandatory := def.MandatoryFields()
		if len(mandatory) > 0 {
			found := 0
			for _, m := range mandatory {
				if mapped[m] {
					found++
				}
			}
			c.BaseScore = float64(found) / float64(len(mandatory)) * 100
		}

		if len(def.Signature) > 0 {
			found := 0
			for _, s := range def.Signature {
				if mapped[s] {
					found++
				}
			}
			c.Signature = float64(found) / float64(len(def.Signature)) * 100
		}

		if def.DocType == hinted {
			c.HintBonus = FilenameHintBonus
		}

		for _, u := range uniqueness[def.DocType] {
			if mapped[u] {
				c.UniqueFound++
			}
		}

		c.FinalScore = baseWeight*c.BaseScore + signatureWeight*c.Signature + c.HintBonus
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.FinalScore != b.FinalScore:
			return a.FinalScore > b.FinalScore
		case a.Signature != b.Signature:
			return a.Signature > b.Signature
		case a.SignatureSize != b.SignatureSize:
			return a.SignatureSize > b.SignatureSize
		case a.BaseScore != b.BaseScore:
			return a.BaseScore > b.BaseScore
		case a.UniqueFound != b.UniqueFound:
			return a.UniqueFound > b.UniqueFound
		default:
			return a.DocType < b.DocType
		}
	})
	return out
}
