package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vareff/internal/duckdb"
	"github.com/inodb/vareff/internal/pipeline"
	"github.com/inodb/vareff/internal/server"
	"github.com/inodb/vareff/internal/variant"
)

func newServeCmd() *cobra.Command {
	var from, runID string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the variant effect report page",
		Long: `Serve the report page. Each page load runs the pipeline for the configured
genes, or for ?genes=A,B when given. With --from, rows are read from a run
previously saved with "vareff run -f duckdb" instead.`,
		Example: `  vareff serve
  vareff serve --addr 127.0.0.1:9000
  vareff serve --from runs.duckdb`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings()
			logger, err := newLogger(s.Verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			cfg := server.Config{Symbols: s.Genes, Caption: s.Caption}

			var source server.RowSource
			if from != "" {
				store, err := duckdb.Open(from)
				if err != nil {
					return err
				}
				defer store.Close()

				if runID == "" {
					if runID, err = store.LatestRun(); err != nil {
						return err
					}
				}
				meta, err := store.RunMeta(runID)
				if err != nil {
					return err
				}
				logger.Warn("serving stored run",
					zap.String("run", runID),
					zap.String("base_url", meta[duckdb.MetaBaseURL]),
					zap.String("species", meta[duckdb.MetaSpecies]))
				source = storedSource{store: store, runID: runID}
				cfg.Symbols = nil
			} else {
				source = pipelineSource{
					driver:      newDriver(s, newClient(s, logger), logger),
					contentType: s.ContentType,
				}
			}

			return serve(cmd.Context(), s.ServeAddr, server.New(source, cfg, logger.Named("http")), logger)
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&from, "from", "", "Serve rows from a DuckDB export instead of running the pipeline")
	cmd.Flags().StringVar(&runID, "run", "", "Run id to serve with --from (default: latest)")
	viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func serve(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	logger.Warn("serving report", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// pipelineSource runs the pipeline for every request.
type pipelineSource struct {
	driver      *pipeline.Driver
	contentType string
}

func (p pipelineSource) Rows(ctx context.Context, symbols []string) ([]variant.Row, error) {
	return p.driver.Run(ctx, symbols, p.contentType)
}

// storedSource serves a saved run, optionally narrowed to the requested symbols.
type storedSource struct {
	store *duckdb.Store
	runID string
}

func (s storedSource) Rows(_ context.Context, symbols []string) ([]variant.Row, error) {
	rows, err := s.store.Rows(s.runID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("run %s has no rows", s.runID)
	}
	return selectSymbols(rows, symbols)
}

// selectSymbols returns the rows for symbols in the given order, or all rows
// when symbols is empty.
func selectSymbols(rows []variant.Row, symbols []string) ([]variant.Row, error) {
	if len(symbols) == 0 {
		return rows, nil
	}
	bySymbol := make(map[string]variant.Row, len(rows))
	for _, r := range rows {
		bySymbol[r.Symbol] = r
	}
	out := make([]variant.Row, len(symbols))
	for i, sym := range symbols {
		r, ok := bySymbol[sym]
		if !ok {
			return nil, fmt.Errorf("gene %s is not in the saved run", sym)
		}
		out[i] = r
	}
	return out, nil
}
