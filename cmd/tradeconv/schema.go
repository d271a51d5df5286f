package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [TYPE]",
		Short: "List document types or print one type's field layout",
		Long: `Without arguments, lists every registered document type. With a type
name or file prefix, prints its fields with fixed-width positions
(0-indexed, inclusive), data type (A, N, D) and requirement
(M mandatory, A if applies, O optional).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.registry()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintln(out, typeTable(reg.All()))
				return nil
			}

			def, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%s), %d-byte records\n", def.Label, def.DocType, def.LineLength())
			fmt.Fprintln(out, fieldTable(def))
			return nil
		},
	}
}

func typeTable(defs []*core.Definition) string {
	t := table.New().Headers("TYPE", "LABEL", "PREFIXES", "FORMATS", "FIELDS", "LINE")
	for _, d := range defs {
		formats := make([]string, len(d.Formats))
		for i, f := range d.Formats {
			formats[i] = string(f)
			if f == d.DefaultFormat {
				formats[i] += "*"
			}
		}
		t.Row(d.DocType, d.Label,
			strings.Join(d.Prefixes, ","),
			strings.Join(formats, ","),
			strconv.Itoa(len(d.Fields)),
			strconv.Itoa(d.LineLength()),
		)
	}
	return t.String()
}

func fieldTable(def *core.Definition) string {
	t := table.New().Headers("#", "FIELD", "TYPE", "LEN", "START", "END", "REQ", "VALUES")
	for i, f := range def.Fields {
		name := f.Name
		if f.Filler {
			name = dimStyle.Render(name)
		}
		typ := f.Type.String()
		if f.Type == core.Numeric && f.Decimals > 0 {
			typ = fmt.Sprintf("N(%d)", f.Decimals)
		}
		t.Row(
			strconv.Itoa(i+1),
			name,
			typ,
			strconv.Itoa(f.Length),
			strconv.Itoa(f.Start),
			strconv.Itoa(f.End),
			f.Requirement.String(),
			strings.Join(f.Codes(), ","),
		)
	}
	return t.String()
}
