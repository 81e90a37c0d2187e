// Package report renders calculations, history, matches and ditrunes as
// plain text, markdown, JSON or a user-supplied template.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/kamea"
	"github.com/f3rmion/gematria/internal/lexicon"
	"github.com/f3rmion/gematria/internal/store"
)

// Format selects an output encoding.
type Format string

const (
	Plain    Format = "plain"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// ParseFormat resolves a format name; empty means plain.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "text", "txt":
		return Plain, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	}
	return "", errors.InvalidArgumentf("unknown output format %q", s)
}

// Calculation is one text evaluated under several methods.
type Calculation struct {
	Text     string            `json:"text"`
	Language gematria.Language `json:"language,omitempty"`
	Results  []Row             `json:"results"`
}

// Row is one method's value.
type Row struct {
	Method string `json:"method"`
	Name   string `json:"name"`
	Value  int    `json:"value"`
}

// History is a list of saved calculations with tag names resolved.
type History struct {
	Items    []*store.CalculationResult `json:"items"`
	TagNames map[string]string          `json:"-"`
}

// Matches lists words sharing a value.
type Matches struct {
	Method  string                     `json:"method"`
	Value   int                        `json:"value"`
	Words   []*lexicon.Entry           `json:"words"`
	History []*store.CalculationResult `json:"history,omitempty"`
}

// Renderer writes reports in one format.
type Renderer struct {
	format Format
	custom *template.Template
}

// New returns a renderer for format.
func New(format Format) *Renderer {
	return &Renderer{format: format}
}

// SetTemplate replaces the built-in layout with a user template. The
// template receives the report value (Calculation, History, Matches or
// kamea.Summary) as dot.
func (r *Renderer) SetTemplate(text string) error {
	t, err := template.New("custom").Funcs(funcs).Parse(text)
	if err != nil {
		return errors.WithHint(
			errors.InvalidArgumentf("parsing template: %v", err),
			"templates use Go text/template syntax",
		)
	}
	r.custom = t
	return nil
}

// Calculation renders a calculation report.
func (r *Renderer) Calculation(w io.Writer, c Calculation) error {
	return r.render(w, "calculation", c)
}

// History renders saved calculations.
func (r *Renderer) History(w io.Writer, h History) error {
	return r.render(w, "history", h)
}

// Matches renders an equivalence search.
func (r *Renderer) Matches(w io.Writer, m Matches) error {
	return r.render(w, "matches", m)
}

// Ditrune renders a kamea ditrune summary.
func (r *Renderer) Ditrune(w io.Writer, s kamea.Summary) error {
	return r.render(w, "ditrune", s)
}

func (r *Renderer) render(w io.Writer, kind string, data any) error {
	if r.custom != nil {
		return execute(w, r.custom, data)
	}
	if r.format == JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return errors.Wrap(enc.Encode(data), "encoding json")
	}
	format := r.format
	if format == "" {
		format = Plain
	}
	t := builtin.Lookup(kind + "." + string(format))
	if t == nil {
		return errors.InvalidArgumentf("no %s layout for %s", format, kind)
	}
	return execute(w, t, data)
}

func execute(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return errors.Wrap(err, "executing template")
	}
	out := strings.TrimRight(buf.String(), "\n") + "\n"
	_, err := io.WriteString(w, out)
	return err
}

var funcs = template.FuncMap{
	// pad left-aligns s in a column of n terminal cells.
	"pad": func(n int, s string) string {
		return runewidth.FillRight(s, n)
	},
	"rpad": func(n int, v any) string {
		return runewidth.FillLeft(fmt.Sprint(v), n)
	},
	"date": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
	"short": func(id string) string {
		if len(id) > 8 {
			return id[:8]
		}
		return id
	},
	"tags": func(names map[string]string, ids []string) string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if n, ok := names[id]; ok {
				out = append(out, n)
			}
		}
		return strings.Join(out, ", ")
	},
	"mdEscape": func(s string) string {
		return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
	},
	"title": func(l gematria.Language) string { return l.Title() },
}

var builtin = template.Must(template.New("report").Funcs(funcs).Parse(layouts))

const layouts = `
{{- define "calculation.plain" -}}
{{ .Text }}{{ if .Language }} ({{ title .Language }}){{ end }}
{{ range .Results }}  {{ pad 44 .Name }} {{ rpad 8 .Value }}
{{ end }}
{{- end }}

{{- define "calculation.markdown" -}}
## {{ mdEscape .Text }}
{{ if .Language }}
Language: {{ title .Language }}
{{ end }}
| Method | Value |
|---|---:|
{{ range .Results }}| {{ mdEscape .Name }} | {{ .Value }} |
{{ end }}
{{- end }}

{{- define "history.plain" -}}
{{ if not .Items }}No saved calculations.
{{ end }}
{{- $names := .TagNames -}}
{{ range .Items }}{{ short .ID }}  {{ if .Favorite }}*{{ else }} {{ end }} {{ rpad 7 .Result }}  {{ pad 24 .Text }} {{ pad 26 .Method }} {{ date .CreatedAt }}{{ with tags $names .Tags }}  [{{ . }}]{{ end }}{{ with .Notes }}
          {{ . }}{{ end }}
{{ end }}
{{- end }}

{{- define "history.markdown" -}}
| ID | Text | Method | Value | Favorite | Tags | Notes |
|---|---|---|---:|:-:|---|---|
{{ $names := .TagNames -}}
{{ range .Items }}| {{ short .ID }} | {{ mdEscape .Text }} | {{ .Method }} | {{ .Result }} | {{ if .Favorite }}★{{ end }} | {{ mdEscape (tags $names .Tags) }} | {{ mdEscape .Notes }} |
{{ end }}
{{- end }}

{{- define "matches.plain" -}}
{{ .Method }} = {{ .Value }}
{{ if and (not .Words) (not .History) }}  no matches
{{ end }}
{{- range .Words }}  {{ pad 24 .Word }}{{ with .Meaning }} {{ . }}{{ end }}
{{ end }}
{{- if .History }}From history:
{{ range .History }}  {{ pad 24 .Text }} {{ short .ID }}
{{ end }}
{{- end }}
{{- end }}

{{- define "matches.markdown" -}}
## {{ .Method }} = {{ .Value }}

| Word | Meaning |
|---|---|
{{ range .Words }}| {{ mdEscape .Word }} | {{ mdEscape .Meaning }} |
{{ end }}
{{- range .History }}| {{ mdEscape .Text }} | (history) |
{{ end }}
{{- end }}

{{- define "ditrune.plain" -}}
Ditrune      {{ .Ternary }}  ({{ .Decimal }})
Conrune      {{ .ConruneTern }}  ({{ .Conrune }})
Reversal     {{ .Reversal }}
Differential {{ .Differential }}
{{- end }}

{{- define "ditrune.markdown" -}}
| | Ternary | Decimal |
|---|---|---:|
| Ditrune | {{ .Ternary }} | {{ .Decimal }} |
| Conrune | {{ .ConruneTern }} | {{ .Conrune }} |

Reversal: {{ .Reversal }}, differential: {{ .Differential }}
{{- end }}
`
