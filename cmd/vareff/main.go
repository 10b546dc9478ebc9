// Package main provides the vareff command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// usageError marks errors caused by bad invocation rather than a failed run.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra argument validator so its errors exit with ExitUsage.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		opts    runOptions
	)

	cmd := &cobra.Command{
		Use:   "vareff",
		Short: "Count intron, synonymous and missense variants per gene",
		Long: `vareff resolves gene symbols with the Ensembl REST API, fetches the
variants overlapping each gene and counts them by consequence type.

Run without a command to process the configured gene batch once and print
the table to stdout.`,
		Example: `  vareff                                   # default gene batch, tab output
  vareff run --genes BRAF,BRCA2 -f html -o report.html
  vareff serve --addr :8080`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.vareff.yaml)")
	pf.BoolP("verbose", "v", false, "Log requests and pipeline progress")
	pf.String("base-url", "", "Ensembl REST base URL")
	pf.String("species", "", "Species used for symbol lookups")
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("ensembl.base_url", pf.Lookup("base-url"))
	viper.BindPFlag("ensembl.species", pf.Lookup("species"))

	opts.format = "tab"

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{err}
	})

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
