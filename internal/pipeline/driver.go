// Package pipeline runs the two-stage gene → variant fetch pipeline.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/vareff/internal/gene"
	"github.com/inodb/vareff/internal/variant"
)

// GeneResolver maps a gene symbol to a gene record.
type GeneResolver interface {
	Resolve(ctx context.Context, symbol, contentType string) (gene.Record, error)
}

// VariantAggregator produces the result row for a resolved gene.
type VariantAggregator interface {
	Aggregate(ctx context.Context, rec gene.Record, contentType string) (variant.Row, error)
}

// Driver resolves a batch of gene symbols and aggregates their variants.
type Driver struct {
	resolver   GeneResolver
	aggregator VariantAggregator
	workers    int
	logger     *zap.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithWorkers bounds the number of concurrent requests per round.
// Zero, the default, starts one goroutine per gene.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		d.workers = n
	}
}

// WithLogger sets the logger for round progress messages.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// NewDriver creates a pipeline driver.
func NewDriver(r GeneResolver, a VariantAggregator, opts ...Option) *Driver {
	d := &Driver{
		resolver:   r,
		aggregator: a,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run resolves all symbols, then aggregates all resolved genes.
// Each round completes fully before the next starts. rows[i] corresponds to
// symbols[i]. Any failure aborts the run and no rows are returned.
func (d *Driver) Run(ctx context.Context, symbols []string, contentType string) ([]variant.Row, error) {
	if len(symbols) == 0 {
		return []variant.Row{}, nil
	}

	start := time.Now()
	records, err := Gather(ctx, symbols, d.workers, func(ctx context.Context, symbol string) (gene.Record, error) {
		return d.resolver.Resolve(ctx, symbol, contentType)
	})
	if err != nil {
		return nil, fmt.Errorf("resolve genes: %w", err)
	}
	d.logger.Info("resolved genes",
		zap.Int("genes", len(records)),
		zap.Duration("elapsed", time.Since(start)))

	start = time.Now()
	rows, err := Gather(ctx, records, d.workers, func(ctx context.Context, rec gene.Record) (variant.Row, error) {
		return d.aggregator.Aggregate(ctx, rec, contentType)
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate variants: %w", err)
	}
	d.logger.Info("aggregated variants",
		zap.Int("genes", len(rows)),
		zap.Duration("elapsed", time.Since(start)))

	return rows, nil
}
