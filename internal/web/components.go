package web

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tradedoc/internal/core"
	"github.com/JonMunkholm/tradedoc/internal/store"
)

// ErrorAlert renders a user message as an HTMX-swappable alert.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-error" role="alert">`)
		fmt.Fprintf(&b, `<p class="alert-message">%s</p>`, templ.EscapeString(msg.Message))
		if msg.Action != "" {
			fmt.Fprintf(&b, `<p class="alert-action">%s</p>`, templ.EscapeString(msg.Action))
		}
		fmt.Fprintf(&b, `<p class="alert-code">Error code: %s</p></div>`, templ.EscapeString(msg.Code))
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// JobSummary renders the outcome of a conversion with artifact links.
func JobSummary(job *store.Job, errs []core.ValidationError) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div class="job job-%s" id="job-%s">`, templ.EscapeString(string(job.Status)), job.ID)
		fmt.Fprintf(&b, `<h3>%s</h3>`, templ.EscapeString(job.FileName))
		fmt.Fprintf(&b, `<p>%s &middot; %s &middot; %d records</p>`,
			templ.EscapeString(job.DocumentType), templ.EscapeString(string(job.Status)), job.Records)

		if job.OutputPath != "" {
			fmt.Fprintf(&b, `<a href="/api/jobs/%s/output">Download output</a> `, job.ID)
		}
		if job.ErrorPath != "" {
			fmt.Fprintf(&b, `<a href="/api/jobs/%s/errors">Download error report</a>`, job.ID)
		}
		if len(errs) > 0 {
			b.WriteString(`<ul class="validation-errors">`)
			for _, e := range errs {
				fmt.Fprintf(&b, `<li>%s</li>`, templ.EscapeString(e.Message))
			}
			b.WriteString(`</ul>`)
		}
		if job.Error != "" {
			fmt.Fprintf(&b, `<p class="job-error">%s</p>`, templ.EscapeString(job.Error))
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// IndexPage lists the document types next to an upload form.
func IndexPage(defs []*core.Definition) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Trade document converter</title></head><body>`)
		b.WriteString(`<h1>Trade document converter</h1>`)
		b.WriteString(`<form method="post" action="/api/convert" enctype="multipart/form-data">`)
		b.WriteString(`<input type="file" name="file" accept=".xlsx,.xlsm,.csv,.txt" required>`)
		b.WriteString(`<select name="documentType"><option value="">Detect automatically</option>`)
		for _, d := range defs {
			fmt.Fprintf(&b, `<option value="%s">%s</option>`, templ.EscapeString(d.DocType), templ.EscapeString(d.Label))
		}
		b.WriteString(`</select><button type="submit">Convert</button></form>`)

		b.WriteString(`<table><thead><tr><th>Type</th><th>Prefixes</th><th>Formats</th><th>Fields</th></tr></thead><tbody>`)
		for _, d := range defs {
			formats := make([]string, len(d.Formats))
			for i, f := range d.Formats {
				formats[i] = string(f)
			}
			fmt.Fprintf(&b, `<tr><td><a href="/api/document-types/%s">%s</a></td><td>%s</td><td>%s</td><td>%d</td></tr>`,
				templ.EscapeString(d.DocType), templ.EscapeString(d.Label),
				templ.EscapeString(strings.Join(d.Prefixes, ", ")),
				templ.EscapeString(strings.Join(formats, ", ")), len(d.Fields))
		}
		b.WriteString(`</tbody></table></body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
