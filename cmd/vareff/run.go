package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vareff/internal/duckdb"
	"github.com/inodb/vareff/internal/genelist"
	"github.com/inodb/vareff/internal/output"
	"github.com/inodb/vareff/internal/report"
	"github.com/inodb/vareff/internal/variant"
)

type runOptions struct {
	genes     string
	genesFile string
	format    string
	output    string
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Count variant effects for a batch of genes",
		Long: `Resolve every gene symbol to an Ensembl gene id, then fetch and count the
variants overlapping each gene. All requests of a round run concurrently;
any failed request aborts the run and nothing is written.

Output formats:
  tab     tab-delimited table (default, stdout unless -o is given)
  html    report page with the stacked bar chart
  xlsx    Excel workbook (requires -o)
  duckdb  append the rows as a new run to a DuckDB database (requires -o)`,
		Example: `  vareff run
  vareff run --genes BRAF,BRCA2,ICAM2
  vareff run --genes-file cancerGeneList.tsv -f xlsx -o counts.xlsx
  vareff run -f duckdb -o runs.duckdb`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.genes, "genes", "", "Comma-separated gene symbols (default: configured batch)")
	f.StringVar(&opts.genesFile, "genes-file", "", "File with one symbol per line, or a TSV with a 'Hugo Symbol' column")
	f.StringVarP(&opts.format, "format", "f", "tab", "Output format: tab, html, xlsx, duckdb")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	f.Int("workers", 0, "Maximum concurrent requests per round (0: one per gene)")
	viper.BindPFlag("pipeline.workers", f.Lookup("workers"))

	return cmd
}

// symbolsFor picks the gene batch: --genes, then --genes-file, then config.
func symbolsFor(s Settings, opts runOptions) ([]string, error) {
	switch {
	case opts.genes != "" && opts.genesFile != "":
		return nil, usageError{fmt.Errorf("--genes and --genes-file are mutually exclusive")}
	case opts.genes != "":
		return genelist.Parse(opts.genes), nil
	case opts.genesFile != "":
		return genelist.Load(opts.genesFile)
	default:
		return s.Genes, nil
	}
}

func checkOutput(opts runOptions) error {
	switch opts.format {
	case "tab", "html":
		return nil
	case "xlsx", "duckdb":
		if opts.output == "" {
			return usageError{fmt.Errorf("format %s requires --output", opts.format)}
		}
		return nil
	default:
		return usageError{fmt.Errorf("unknown output format %q", opts.format)}
	}
}

func runPipeline(ctx context.Context, opts runOptions) error {
	if err := checkOutput(opts); err != nil {
		return err
	}

	s := loadSettings()
	symbols, err := symbolsFor(s, opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(s.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	driver := newDriver(s, newClient(s, logger), logger)
	rows, err := driver.Run(ctx, symbols, s.ContentType)
	if err != nil {
		return err
	}

	return writeRows(rows, opts, s)
}

// writeRows hands the finished rows to the selected presentation.
func writeRows(rows []variant.Row, opts runOptions, s Settings) error {
	if opts.format == "duckdb" {
		store, err := duckdb.Open(opts.output)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := store.SaveRun(rows)
		if err != nil {
			return err
		}
		symbols := make([]string, len(rows))
		for i, r := range rows {
			symbols[i] = r.Symbol
		}
		if err := store.SetRunMeta(runID, map[string]string{
			duckdb.MetaBaseURL:     s.BaseURL,
			duckdb.MetaSpecies:     s.Species,
			duckdb.MetaContentType: s.ContentType,
			duckdb.MetaGenes:       strings.Join(symbols, ","),
		}); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d rows to %s (run %s)\n", len(rows), opts.output, runID)
		return nil
	}

	var out io.Writer = os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch opts.format {
	case "html":
		return report.Render(out, report.Build(rows, s.Caption))
	case "xlsx":
		w, err := output.NewXLSXWriter(out)
		if err != nil {
			return err
		}
		return output.WriteAll(w, rows)
	default:
		return output.WriteAll(output.NewTabWriter(out), rows)
	}
}
