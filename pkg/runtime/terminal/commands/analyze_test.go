package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/iam-atlas/pkg/runtime/terminal/report"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `{
	"UserDetailList": [],
	"GroupDetailList": [],
	"RoleDetailList": [],
	"Policies": [
		{
			"PolicyId": "ANPAEXAMPLE001",
			"PolicyName": "deploy-access",
			"Arn": "arn:aws:iam::123456789012:policy/deploy-access",
			"DefaultVersionId": "v1",
			"PolicyVersionList": [
				{
					"VersionId": "v1",
					"IsDefaultVersion": true,
					"Document": {
						"Version": "2012-10-17",
						"Statement": [
							{"Effect": "Allow", "Action": ["iam:PassRole", "ec2:RunInstances"], "Resource": "*"}
						]
					}
				}
			]
		},
		{
			"PolicyId": "ANPAEXAMPLE002",
			"PolicyName": "readonly-access",
			"Arn": "arn:aws:iam::123456789012:policy/readonly-access",
			"DefaultVersionId": "v1",
			"PolicyVersionList": [
				{
					"VersionId": "v1",
					"IsDefaultVersion": true,
					"Document": {
						"Version": "2012-10-17",
						"Statement": [
							{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "arn:aws:s3:::app-data/*"}
						]
					}
				}
			]
		}
	]
}`

func writeExportFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0o644))
	return path
}

func TestAnalyzeCmd_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewAnalyzeCmd(report.NewReporter(&buf), &buf)
	cmd.SetArgs([]string{writeExportFile(t), "--json"})

	require.NoError(t, cmd.Execute())

	var result analyzeOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

	assert.Equal(t, 2, result.Summary.TotalPolicies)
	assert.Equal(t, 1, result.Summary.HighRiskPolicies)
	require.Len(t, result.Policies, 2)
	assert.Equal(t, "ANPAEXAMPLE001", result.Policies[0].PolicyID)
	assert.True(t, result.Policies[0].IsHighRisk)
	assert.False(t, result.Policies[1].IsHighRisk)
	assert.Empty(t, result.Policies[1].Flags)
}

func TestAnalyzeCmd_TableOutput(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	cmd := NewAnalyzeCmd(report.NewReporter(&buf), &buf)
	cmd.SetArgs([]string{writeExportFile(t)})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "IAM Policy Risk Report")
	assert.Contains(t, out, "deploy-access")
	assert.Contains(t, out, "passrole-ec2")
	assert.Contains(t, out, "No security flags.")
}

func TestAnalyzeCmd_HighRiskOnly(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	cmd := NewAnalyzeCmd(report.NewReporter(&buf), &buf)
	cmd.SetArgs([]string{writeExportFile(t), "--high-risk-only"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "deploy-access")
	assert.NotContains(t, out, "readonly-access")
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewAnalyzeCmd(report.NewReporter(&buf), &buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent.json")})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read export file")
}

func TestAnalyzeCmd_MalformedExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var buf bytes.Buffer
	cmd := NewAnalyzeCmd(report.NewReporter(&buf), &buf)
	cmd.SetArgs([]string{path})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse export file")
}
