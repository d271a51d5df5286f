package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnrecognizedColumns is returned when a spreadsheet overlay has no
// recognizable code or name column.
var ErrUnrecognizedColumns = errors.New("catalog overlay: no recognizable code/name columns")

var (
	countryCodeKeys = []string{"CVE_PAIS", "CLAVE", "CODE", "ISO2", "ISO_2", "ISO ALPHA-2", "ALPHA2", "PAIS_COD", "CODIGO"}
	countryNameKeys = []string{"DESCRIP", "PAIS", "COUNTRY", "DESCRIPTION", "NAME", "NOMBRE", "DESCRIPCION"}
	unitCodeKeys    = []string{"CODE", "CLAVE", "UOM", "UNIT"}
	unitNameKeys    = []string{"DESCRIPTION", "DESCRIP", "NAME", "DESCRIPCION"}
	unitDecimalKeys = []string{"DECIMALS", "DECIMALES"}
)

// overlayFile is the YAML overlay layout. Either section may be omitted.
type overlayFile struct {
	Countries []Country `yaml:"countries"`
	Units     []Unit    `yaml:"units"`
}

// LoadCountries builds the country catalog, applying the overlay at path when
// path is non-empty.
func LoadCountries(path string) (*Countries, error) {
	if path == "" {
		return NewCountries(), nil
	}
	overlay, err := ReadCountryOverlay(path)
	if err != nil {
		return nil, err
	}
	return NewCountries(overlay...), nil
}

// LoadUnits builds the unit catalog, applying the overlay at path when path is
// non-empty.
func LoadUnits(path string) (*Units, error) {
	if path == "" {
		return NewUnits(), nil
	}
	overlay, err := ReadUnitOverlay(path)
	if err != nil {
		return nil, err
	}
	return NewUnits(overlay...), nil
}

// ReadCountryOverlay reads country entries from a .yaml/.yml or .xlsx file.
func ReadCountryOverlay(path string) ([]Country, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := readYAML(path)
		if err != nil {
			return nil, err
		}
		return f.Countries, nil
	case ".xlsx":
		rows, err := readFirstSheet(path)
		if err != nil {
			return nil, err
		}
		return countriesFromRows(rows)
	default:
		return nil, fmt.Errorf("catalog overlay %s: unsupported extension", path)
	}
}

// ReadUnitOverlay reads unit entries from a .yaml/.yml or .xlsx file.
func ReadUnitOverlay(path string) ([]Unit, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := readYAML(path)
		if err != nil {
			return nil, err
		}
		return f.Units, nil
	case ".xlsx":
		rows, err := readFirstSheet(path)
		if err != nil {
			return nil, err
		}
		return unitsFromRows(rows)
	default:
		return nil, fmt.Errorf("catalog overlay %s: unsupported extension", path)
	}
}

func readYAML(path string) (*overlayFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog overlay: %w", err)
	}
	var f overlayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog overlay %s: %w", path, err)
	}
	return &f, nil
}

func readFirstSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog overlay: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read catalog overlay sheet: %w", err)
	}
	return rows, nil
}

func countriesFromRows(rows [][]string) ([]Country, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	codeCol := pickColumn(rows[0], countryCodeKeys)
	nameCol := pickColumn(rows[0], countryNameKeys)
	if codeCol < 0 || nameCol < 0 {
		return nil, ErrUnrecognizedColumns
	}

	var out []Country
	for _, row := range rows[1:] {
		code := cell(row, codeCol)
		if code == "" {
			continue
		}
		out = append(out, Country{Code: code, Name: cell(row, nameCol)})
	}
	return out, nil
}

func unitsFromRows(rows [][]string) ([]Unit, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	codeCol := pickColumn(rows[0], unitCodeKeys)
	nameCol := pickColumn(rows[0], unitNameKeys)
	decCol := pickColumn(rows[0], unitDecimalKeys)
	if codeCol < 0 {
		return nil, ErrUnrecognizedColumns
	}

	var out []Unit
	for _, row := range rows[1:] {
		code := cell(row, codeCol)
		if code == "" {
			continue
		}
		out = append(out, Unit{
			Code:        code,
			Description: cell(row, nameCol),
			Decimals:    parseDecimals(cell(row, decCol)),
		})
	}
	return out, nil
}

// parseDecimals accepts a digit count or "yes", which overlay sheets use to
// mean the unit is fractional (three decimals).
func parseDecimals(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && n >= 0 {
		return int(n)
	}
	if strings.EqualFold(s, "yes") {
		return 3
	}
	return 0
}

// pickColumn returns the index of the first header matching any candidate key.
func pickColumn(header []string, candidates []string) int {
	for i, h := range header {
		h = strings.ToUpper(strings.TrimSpace(h))
		for _, c := range candidates {
			if h == c {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
