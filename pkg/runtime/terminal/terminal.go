package terminal

import (
	"io"
	"os"

	"github.com/de-tools/iam-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/iam-atlas/pkg/runtime/terminal/report"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *report.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: report.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd(output io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iam-atlas",
		Short: "IAM policy risk analysis tool",
	}

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.reporter, output))
	cmd.AddCommand(commands.NewFetchCmd(output))

	return cmd
}
