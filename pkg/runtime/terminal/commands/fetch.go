package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/de-tools/iam-atlas/pkg/adapters"
	"github.com/de-tools/iam-atlas/pkg/services/awsiam"
	"github.com/spf13/cobra"
)

type FetchCmd struct {
	outputPath string
	timeout    int
	output     io.Writer
	newFetcher func(ctx context.Context) (awsiam.Fetcher, error)
}

// NewFetchCmd pulls account authorization details from AWS using the ambient
// credential chain and writes them as an upload-ready dataset file.
func NewFetchCmd(output io.Writer) *cobra.Command {
	fc := &FetchCmd{output: output, newFetcher: awsiam.NewFetcherFromEnv}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch IAM account authorization details from AWS",
		RunE:  fc.run,
	}

	cmd.Flags().StringVarP(&fc.outputPath, "output", "o", "account-export.json", "File to write the dataset to")
	cmd.Flags().IntVar(&fc.timeout, "timeout", 120, "Fetch timeout in seconds")

	return cmd
}

func (fc *FetchCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(fc.timeout)*time.Second)
	defer cancel()

	fetcher, err := fc.newFetcher(ctx)
	if err != nil {
		return fmt.Errorf("failed to configure AWS client: %w", err)
	}

	account, err := fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch authorization details: %w", err)
	}

	data, err := json.MarshalIndent(adapters.MapAccountDomainToApi(account), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	if err := os.WriteFile(fc.outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}

	fmt.Fprintf(fc.output, "Wrote %d users, %d roles, %d policies, %d groups to %s\n",
		len(account.Users), len(account.Roles), len(account.Policies), len(account.Groups), fc.outputPath)
	return nil
}
