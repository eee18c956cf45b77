package report

import (
	"bytes"
	"testing"

	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Handle(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	summary := domain.SecuritySummary{
		TotalPolicies:        2,
		HighRiskPolicies:     1,
		TotalFindings:        2,
		HighSeverityFindings: 2,
	}
	analyses := []domain.PolicyAnalysis{
		{
			PolicyID:   "ANPAEXAMPLE001",
			PolicyName: "deploy-access",
			HighRisk:   true,
			Findings: []domain.Finding{
				{
					Key:        "passrole-any",
					Severity:   domain.SeverityHigh,
					Title:      "Unrestricted PassRole",
					Statements: []int{0},
				},
				{
					Key:        "wildcard-resource",
					Severity:   domain.SeverityHigh,
					Title:      "Wildcard resource",
					Statements: []int{0, 2},
				},
			},
		},
		{
			PolicyID:   "ANPAEXAMPLE002",
			PolicyName: "readonly-access",
		},
	}

	require.NoError(t, reporter.Handle(summary, analyses))

	out := buf.String()
	assert.Contains(t, out, "Policies analyzed: 2")
	assert.Contains(t, out, "High risk policies: 1")
	assert.Contains(t, out, "Security flags: 2 (2 high severity)")
	assert.Contains(t, out, "=== deploy-access (ANPAEXAMPLE001) [HIGH RISK] ===")
	assert.Contains(t, out, "passrole-any")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "0, 2")
	assert.Contains(t, out, "=== readonly-access (ANPAEXAMPLE002) ===")
	assert.Contains(t, out, "No security flags.")
}

func TestReporter_NilWriterDefaultsToStdout(t *testing.T) {
	reporter := NewReporter(nil)
	assert.NotNil(t, reporter.writer)
}
