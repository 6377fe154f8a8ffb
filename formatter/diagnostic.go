package formatter

import (
	"strings"

	"github.com/fatih/color"

	"github.com/gnolang/ppl/internal/vet"
)

var (
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
)

// GenerateFormattedDiagnostics renders static check findings.
func GenerateFormattedDiagnostics(diags []vet.Diagnostic) string {
	var builder strings.Builder
	for _, d := range diags {
		builder.WriteString(warningStyle.Sprint("warning: "))
		builder.WriteString(ruleStyle.Sprintf("%s(%s)\n", d.Rule, d.Category))
		builder.WriteString(lineStyle.Sprint(" --> "))
		builder.WriteString(fileStyle.Sprintf("%s:%d:%d\n", d.Position.Filename, d.Position.Line, d.Position.Column))
		builder.WriteString(lineStyle.Sprint("  = "))
		builder.WriteString(messageStyle.Sprintf("%s\n\n", d.Message))
	}
	return builder.String()
}
