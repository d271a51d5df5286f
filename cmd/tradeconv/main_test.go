package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

const (
	rmHeader = "Part Number,Description,Unit Weight Lb.,Unit Cost (USD),UOM,COO,Importation HTS Code,Exportation HTS Code,ECCN\n"
	rmValid  = rmHeader + "p-1,Widget,1.5,2.25,EA,US,8471600000,8471.60.0000,EAR99\n"
	rmBadCOO = rmHeader + "p-1,Widget,1.5,2.25,EA,ZZ,8471600000,8471.60.0000,EAR99\n"
)

// run executes the CLI with a clean environment and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")
	t.Setenv("INGEST_ENABLED", "false")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ---- Schema Tests ----

func TestSchema_List(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)

	for _, docType := range []string{"finishedProduct", "rawMaterial", "billOfMaterials", "splScrap"} {
		assert.Contains(t, out, docType)
	}
	assert.Contains(t, out, "txt*")
}

func TestSchema_Type(t *testing.T) {
	out, err := run(t, "schema", "RM")
	require.NoError(t, err)

	assert.Contains(t, out, "Raw Materials (RM) (rawMaterial), 251-byte records")
	assert.Contains(t, out, "Part Number")
	assert.Contains(t, out, "Country of origin")
}

func TestSchema_Unknown(t *testing.T) {
	_, err := run(t, "schema", "invoice")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownDocumentType)
}

// ---- Convert Tests ----

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	errDir := filepath.Join(dir, "errors")

	tests := []struct {
		name       string
		file       string
		content    string
		extra      []string
		wantErr    bool
		wantOut    []string
		wantOutput string
		wantReport string
	}{
		{
			name:       "clean file",
			file:       "items.csv",
			content:    rmValid,
			wantOut:    []string{"items.csv: rawMaterial, 1 records, 0 errors"},
			wantOutput: "items.txt",
		},
		{
			name:       "validation errors withhold output",
			file:       "coo.csv",
			content:    rmBadCOO,
			wantOut:    []string{"coo.csv: rawMaterial, 1 records, 1 errors", "errors: "},
			wantReport: "coo-errors.json",
		},
		{
			name:       "write on error",
			file:       "forced.csv",
			content:    rmBadCOO,
			extra:      []string{"--write-on-error"},
			wantOutput: "forced.txt",
			wantReport: "forced-errors.json",
		},
		{
			name:    "ambiguous type",
			file:    "notes.csv",
			content: "Colour,Size\nred,L\n",
			wantErr: true,
			wantOut: []string{"notes.csv", "DOC002"},
		},
		{
			name:    "unsupported extension",
			file:    "scan.pdf",
			content: "%PDF-1.4",
			wantErr: true,
			wantOut: []string{"FILE002"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			args := append([]string{"convert", "--out", outDir, "--errors-dir", errDir}, tt.extra...)
			out, err := run(t, append(args, path)...)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "1 of 1 conversions failed")
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			if tt.wantOutput != "" {
				data, err := os.ReadFile(filepath.Join(outDir, tt.wantOutput))
				require.NoError(t, err)
				assert.Len(t, data, 251)
			}
			if tt.wantReport != "" {
				assert.FileExists(t, filepath.Join(errDir, tt.wantReport))
			}
		})
	}
}

func TestConvert_JSON(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", rmValid)
	b := writeFile(t, dir, "b.csv", rmBadCOO)

	out, err := run(t, "convert", "--json", "--out", dir, "--errors-dir", dir, a, b)
	require.NoError(t, err)

	var results []core.ConversionResult
	require.NoError(t, json.Unmarshal([]byte(out), &results), out)
	require.Len(t, results, 2)
	assert.Equal(t, core.StatusCompleted, results[0].Status)
	assert.Equal(t, core.StatusCompletedWithErrors, results[1].Status)
	assert.Len(t, results[1].Errors, 1)
}

func TestConvert_MissingFile(t *testing.T) {
	out, err := run(t, "convert", "--out", t.TempDir(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, out, "missing.csv")
}

func TestConvert_RequiresFile(t *testing.T) {
	_, err := run(t, "convert")
	require.Error(t, err)
}

// ---- Detect Tests ----

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "items.csv", rmValid)
	txt := writeFile(t, dir, "RM0001.txt", "x")

	out, err := run(t, "detect", "--json", csv, txt)
	require.NoError(t, err)

	var got map[string]core.Detection
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, "rawMaterial", got["items.csv"].DocType)
	assert.NotEmpty(t, got["items.csv"].Candidates)
	assert.Equal(t, "rawMaterial", got["RM0001.txt"].DocType, "prefix fallback")
}

func TestDetect_Text(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.csv", "Colour,Size\nred,L\n")

	out, err := run(t, "detect", "--all", path)
	require.NoError(t, err)
	assert.Contains(t, out, "notes.csv: undetermined")
	assert.Contains(t, out, "FINAL")
}

// ---- Ingest Tests ----

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	for key, sub := range map[string]string{
		"INGEST_INPUT_DIR":        "inbound",
		"INGEST_PROCESSED_DIR":    "processed",
		"INGEST_FAILED_DIR":       "failed",
		"INGEST_WORK_DIR":         "work",
		"INGEST_OUTBOX_DIR":       "outbox",
		"INGEST_ERROR_OUTBOX_DIR": "outbox-errors",
	} {
		t.Setenv(key, filepath.Join(dir, sub))
	}
	inbound := filepath.Join(dir, "inbound")
	require.NoError(t, os.MkdirAll(inbound, 0o755))
	writeFile(t, inbound, "RM0001.csv", rmValid)
	writeFile(t, inbound, "notes.csv", "Colour,Size\nred,L\n")
	writeFile(t, inbound, ".hidden", "x")

	out, err := run(t, "ingest")
	require.NoError(t, err)

	assert.Contains(t, out, "RM0001.csv: rawMaterial, 1 records, 0 errors")
	assert.Contains(t, out, "notes.csv")
	assert.Contains(t, out, "processed 1, failed 1, skipped 1")
	assert.FileExists(t, filepath.Join(dir, "outbox", "RM0001"))
	assert.FileExists(t, filepath.Join(dir, "processed", "RM0001.csv"))
	assert.FileExists(t, filepath.Join(dir, "failed", "notes.csv"))
}
