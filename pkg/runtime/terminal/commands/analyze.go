package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/de-tools/iam-atlas/pkg/adapters"
	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/de-tools/iam-atlas/pkg/runtime/terminal/report"
	"github.com/de-tools/iam-atlas/pkg/services/analysis"
	"github.com/de-tools/iam-atlas/pkg/services/ingest"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	jsonOutput   bool
	highRiskOnly bool
	reporter     *report.Reporter
	output       io.Writer
}

type analyzeOutput struct {
	Summary  api.SecuritySummary  `json:"summary"`
	Policies []api.PolicyAnalysis `json:"policies"`
}

func NewAnalyzeCmd(reporter *report.Reporter, output io.Writer) *cobra.Command {
	ac := &AnalyzeCmd{reporter: reporter, output: output}
	cmd := &cobra.Command{
		Use:   "analyze <export-file>",
		Short: "Analyze the policies of an account authorization details export",
		Args:  cobra.ExactArgs(1),
		RunE:  ac.run,
	}

	cmd.Flags().BoolVar(&ac.jsonOutput, "json", false, "Emit results as JSON instead of a table")
	cmd.Flags().BoolVar(&ac.highRiskOnly, "high-risk-only", false, "Only report policies with high severity flags")

	return cmd
}

func (ac *AnalyzeCmd) run(_ *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read export file: %w", err)
	}

	account, err := ingest.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse export file: %w", err)
	}

	policies := sortedPolicies(account)
	summary := analysis.Summarize(policies)
	analyses := analysis.AnalyzeAll(policies)

	if ac.highRiskOnly {
		filtered := analyses[:0]
		for _, a := range analyses {
			if a.HighRisk {
				filtered = append(filtered, a)
			}
		}
		analyses = filtered
	}

	if ac.jsonOutput {
		result := analyzeOutput{
			Summary:  adapters.MapSummaryDomainToApi(summary),
			Policies: make([]api.PolicyAnalysis, 0, len(analyses)),
		}
		for _, a := range analyses {
			result.Policies = append(result.Policies, adapters.MapPolicyAnalysisDomainToApi(a))
		}

		encoder := json.NewEncoder(ac.output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	return ac.reporter.Handle(summary, analyses)
}

func sortedPolicies(account domain.Account) []domain.Policy {
	policies := make([]domain.Policy, 0, len(account.Policies))
	for _, p := range account.Policies {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].PolicyID < policies[j].PolicyID
	})
	return policies
}
