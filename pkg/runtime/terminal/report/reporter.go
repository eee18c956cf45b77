package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/fatih/color"
)

type TableConfig struct {
	KeyWidth        int
	SeverityWidth   int
	TitleWidth      int
	StatementsWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		KeyWidth:        36,
		SeverityWidth:   8,
		TitleWidth:      44,
		StatementsWidth: 12,
	}
}

// Reporter renders analysis results as severity-colored tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type reportData struct {
	Summary  domain.SecuritySummary
	Analyses []domain.PolicyAnalysis
}

func (c *Reporter) Handle(summary domain.SecuritySummary, analyses []domain.PolicyAnalysis) error {
	funcMap := template.FuncMap{
		"formatRow": func(key, severity, title, statements string) string {
			return fmt.Sprintf("| %-*s | %s | %-*s | %-*s |",
				c.config.KeyWidth, key,
				severityCell(severity, c.config.SeverityWidth),
				c.config.TitleWidth, title,
				c.config.StatementsWidth, statements)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.KeyWidth+2),
				strings.Repeat("-", c.config.SeverityWidth+2),
				strings.Repeat("-", c.config.TitleWidth+2),
				strings.Repeat("-", c.config.StatementsWidth+2))
		},
		"statements": func(indices []int) string {
			parts := make([]string, 0, len(indices))
			for _, i := range indices {
				parts = append(parts, fmt.Sprintf("%d", i))
			}
			return strings.Join(parts, ", ")
		},
		"riskLabel": func(highRisk bool) string {
			if highRisk {
				return " " + color.New(color.FgRed, color.Bold).Sprint("[HIGH RISK]")
			}
			return ""
		},
	}

	tmpl := `
IAM Policy Risk Report

Policies analyzed: {{.Summary.TotalPolicies}}
High risk policies: {{.Summary.HighRiskPolicies}}
Security flags: {{.Summary.TotalFindings}} ({{.Summary.HighSeverityFindings}} high severity)

{{range .Analyses}}
=== {{.PolicyName}} ({{.PolicyID}}){{riskLabel .HighRisk}} ===
{{if .Findings}}{{separator}}
{{formatRow "Flag" "Severity" "Title" "Statements"}}
{{separator}}
{{range .Findings}}{{formatRow .Key (printf "%s" .Severity) .Title (statements .Statements)}}
{{end}}{{separator}}
{{else}}No security flags.
{{end}}{{end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, reportData{Summary: summary, Analyses: analyses})
}

// severityCell pads first so the color escape codes do not skew the column
// width computed by fmt.
func severityCell(severity string, width int) string {
	padded := fmt.Sprintf("%-*s", width, severity)
	switch domain.Severity(severity) {
	case domain.SeverityHigh:
		return color.New(color.FgRed).Sprint(padded)
	case domain.SeverityMedium:
		return color.New(color.FgYellow).Sprint(padded)
	case domain.SeverityLow:
		return color.New(color.FgGreen).Sprint(padded)
	default:
		return padded
	}
}
