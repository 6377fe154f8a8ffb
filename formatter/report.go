package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/ppl/dist"
	"github.com/gnolang/ppl/runner"
)

const barWidth = 30

var (
	modelStyle   = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	valueStyle   = color.New(color.FgWhite, color.Bold)
	barStyle     = color.New(color.FgGreen)
	trueStyle    = color.New(color.FgGreen, color.Bold)
	falseStyle   = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
	messageStyle = color.New(color.FgWhite)
)

const reportTemplate = `{{header .Model .File .Strategy .Samples}}
{{lineStyle "  |"}}
{{- if .Posterior}}
{{posterior .Query .Posterior}}
{{- lineStyle "  |"}}
{{- end}}
{{estimate .Estimate}}
{{- if .Decision}}
{{decision .Decision}}
{{- end}}
{{- if not .Posterior}}
{{note .Distinct}}
{{- end}}
`

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"header":    header,
	"lineStyle": func(s string) string { return lineStyle.Sprint(s) },
	"posterior": posterior,
	"estimate":  estimate,
	"decision":  decision,
	"note":      note,
}).Parse(reportTemplate))

// GenerateFormattedReports renders reports one after another.
func GenerateFormattedReports(reports []runner.Report) string {
	var builder strings.Builder
	for _, rep := range reports {
		builder.WriteString(GenerateFormattedReport(rep))
		builder.WriteString("\n")
	}
	return builder.String()
}

// GenerateFormattedReport renders one model's posterior table, moments and
// decision.
func GenerateFormattedReport(rep runner.Report) string {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, rep); err != nil {
		return fmt.Sprintf("Error formatting report: %v", err)
	}
	return buf.String()
}

func header(model, file, strategy string, samples int) string {
	out := modelStyle.Sprintf("model: %s\n", model)
	out += lineStyle.Sprint(" --> ")
	out += fileStyle.Sprint(file)
	if samples > 0 {
		out += messageStyle.Sprintf(" (%s, %d samples)", strategy, samples)
	} else {
		out += messageStyle.Sprintf(" (%s)", strategy)
	}
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func posterior(query string, outcomes []runner.Outcome) string {
	width := 0
	top := 0.0
	for _, o := range outcomes {
		width = max(width, len(formatValue(o.Value)))
		top = max(top, o.Probability)
	}

	out := lineStyle.Sprint("  | ") + valueStyle.Sprintf("%s\n", query)
	for _, o := range outcomes {
		n := 0
		if top > 0 {
			n = int(o.Probability/top*barWidth + 0.5)
		}
		out += lineStyle.Sprint("  | ")
		out += valueStyle.Sprintf("%*s", width, formatValue(o.Value))
		out += messageStyle.Sprintf("  %.4f  ", o.Probability)
		out += barStyle.Sprintf("%s\n", strings.Repeat("#", n))
	}
	return out
}

func estimate(e dist.Estimate) string {
	out := lineStyle.Sprint("  = ")
	if e.Samples > 0 {
		return out + messageStyle.Sprintf("mean %s ± %s, sd %s",
			formatValue(e.Mean), formatValue(e.Confidence), formatValue(e.StdDev))
	}
	return out + messageStyle.Sprintf("mean %s, sd %s", formatValue(e.Mean), formatValue(e.StdDev))
}

func decision(d *runner.Decision) string {
	out := lineStyle.Sprint("  = ")
	out += messageStyle.Sprintf("P(%s != 0) > %s: ", d.Query, formatValue(d.Threshold))
	if d.Result {
		out += trueStyle.Sprint("true")
	} else {
		out += falseStyle.Sprint("false")
	}
	if d.Exact {
		out += messageStyle.Sprint(" (exact)")
	}
	return out
}

// GenerateFormattedDecision renders the answer to a standalone pr query.
func GenerateFormattedDecision(file string, d runner.Decision) string {
	return lineStyle.Sprint(" --> ") + fileStyle.Sprint(file) + "\n" + decision(&d) + "\n"
}

func note(distinct int) string {
	return noteStyle.Sprint("Note: ") + messageStyle.Sprintf("%d distinct outcomes, table omitted", distinct)
}
