package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Registry holds the document type definitions. It is built once and is
// read-only afterwards, so it is safe for concurrent use without locking.
type Registry struct {
	defs       []*Definition
	byType     map[string]*Definition
	byPrefix   map[string]*Definition
	uniqueness map[string][]string
	hints      []registeredHint
}

type registeredHint struct {
	FilenameHint
	docType string
}

// NewRegistry validates the definitions, assigns fixed-width positions and
// computes the cross-schema uniqueness map.
//
// Field positions are computed sequentially from Length unless a field sets
// End explicitly, in which case Start/End must continue the layout with no gap
// or overlap.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		byType:   make(map[string]*Definition, len(defs)),
		byPrefix: make(map[string]*Definition),
	}

	for i := range defs {
		def := defs[i]
		if def.DocType == "" {
			return nil, fmt.Errorf("registry: definition %d has no document type", i)
		}
		if _, exists := r.byType[def.DocType]; exists {
			return nil, fmt.Errorf("registry: document type already registered: %s", def.DocType)
		}
		if err := prepareDefinition(&def); err != nil {
			return nil, fmt.Errorf("registry: %s: %w", def.DocType, err)
		}

		d := &def
		r.defs = append(r.defs, d)
		r.byType[d.DocType] = d

		for _, h := range d.FilenameHints {
			if h.Pattern == nil {
				return nil, fmt.Errorf("registry: %s: filename hint has no pattern", d.DocType)
			}
			r.hints = append(r.hints, registeredHint{FilenameHint: h, docType: d.DocType})
		}

		for _, p := range d.Prefixes {
			key := strings.ToUpper(strings.TrimSpace(p))
			if other, exists := r.byPrefix[key]; exists {
				return nil, fmt.Errorf("registry: prefix %q claimed by %s and %s", key, other.DocType, d.DocType)
			}
			r.byPrefix[key] = d
		}
	}

	sort.SliceStable(r.hints, func(i, j int) bool {
		return r.hints[i].Priority < r.hints[j].Priority
	})
	r.uniqueness = computeUniqueness(r.defs)
	return r, nil
}

func prepareDefinition(d *Definition) error {
	fields := make([]FieldSpec, len(d.Fields))
	copy(fields, d.Fields)
	d.Fields = fields
	d.index = make(map[string]int, len(fields))

	pos := 0
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return fmt.Errorf("field %d has no name", i+1)
		}
		if _, dup := d.index[f.Name]; dup {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		if f.Length <= 0 {
			return fmt.Errorf("field %q: length must be positive", f.Name)
		}
		if f.Item == 0 {
			f.Item = i + 1
		}

		if f.End == 0 && f.Start == 0 {
			f.Start = pos
			f.End = pos + f.Length - 1
		} else if f.Start != pos || f.End-f.Start+1 != f.Length {
			return fmt.Errorf("field %q: positions %d-%d do not continue layout at %d with length %d",
				f.Name, f.Start, f.End, pos, f.Length)
		}
		pos = f.End + 1

		d.index[f.Name] = i
	}

	if len(d.Formats) == 0 {
		return fmt.Errorf("no output formats")
	}
	if d.DefaultFormat == "" {
		d.DefaultFormat = d.Formats[0]
	}
	if !d.AllowsFormat(d.DefaultFormat) {
		return fmt.Errorf("default format %q not among allowed formats", d.DefaultFormat)
	}

	for _, name := range d.Signature {
		if _, ok := d.index[name]; !ok {
			return fmt.Errorf("signature field %q not in schema", name)
		}
	}
	for _, col := range d.CSVColumns {
		for _, name := range col.Fields {
			if _, ok := d.index[name]; !ok {
				return fmt.Errorf("csv column %q references unknown field %q", col.Header, name)
			}
		}
	}
	for _, m := range d.Metadata {
		if _, ok := d.index[m.Field]; !ok {
			return fmt.Errorf("metadata label %q references unknown field %q", m.Label, m.Field)
		}
	}
	if d.Indicator != nil {
		if _, ok := d.index[d.Indicator.Field]; !ok {
			return fmt.Errorf("indicator field %q not in schema", d.Indicator.Field)
		}
	}
	return nil
}

// computeUniqueness returns, per document type, the field names that appear
// in no other schema. Names are compared exactly.
func computeUniqueness(defs []*Definition) map[string][]string {
	owners := make(map[string]int)
	for _, d := range defs {
		for _, f := range d.Fields {
			owners[f.Name]++
		}
	}

	out := make(map[string][]string, len(defs))
	for _, d := range defs {
		unique := []string{}
		for _, f := range d.Fields {
			if owners[f.Name] == 1 {
				unique = append(unique, f.Name)
			}
		}
		out[d.DocType] = unique
	}
	return out
}

// Get resolves a document type key or a filename prefix. Keys match
// case-insensitively; prefixes are upper-cased before lookup.
func (r *Registry) Get(identifier string) (*Definition, error) {
	id := strings.TrimSpace(identifier)
	if d, ok := r.byType[id]; ok {
		return d, nil
	}
	for _, d := range r.defs {
		if strings.EqualFold(d.DocType, id) {
			return d, nil
		}
	}
	if d, ok := r.byPrefix[strings.ToUpper(id)]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, identifier)
}

// ByFileName classifies a file by the first two characters of its name.
func (r *Registry) ByFileName(fileName string) (*Definition, bool) {
	name := strings.TrimSpace(fileName)
	if len(name) < 2 {
		return nil, false
	}
	d, ok := r.byPrefix[strings.ToUpper(name[:2])]
	return d, ok
}

// HintedType returns the document type suggested by the file name, or "".
// At most one type is ever suggested.
func (r *Registry) HintedType(fileName string) string {
	name := strings.ToLower(filepath.Base(fileName))
	for _, h := range r.hints {
		if h.Pattern.MatchString(name) {
			return h.docType
		}
	}
	return ""
}

// Uniqueness returns a copy of the cross-schema uniqueness map.
func (r *Registry) Uniqueness() map[string][]string {
	out := make(map[string][]string, len(r.uniqueness))
	for k, v := range r.uniqueness {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// All returns every definition sorted by document type.
func (r *Registry) All() []*Definition {
	out := append([]*Definition(nil), r.defs...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].DocType < out[j].DocType
	})
	return out
}

// Len returns the number of registered document types.
func (r *Registry) Len() int {
	return len(r.defs)
}
