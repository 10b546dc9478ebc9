package variant

import (
	"context"
	"fmt"

	"github.com/inodb/vareff/internal/ensembl"
	"github.com/inodb/vareff/internal/gene"
)

// Fetcher performs a single GET against the REST API.
type Fetcher interface {
	Fetch(ctx context.Context, path, contentType string) (*ensembl.Body, error)
}

// Aggregator fetches the variants overlapping a gene and tallies them.
type Aggregator struct {
	fetcher Fetcher
}

// NewAggregator creates an aggregator using f for requests.
func NewAggregator(f Fetcher) *Aggregator {
	return &Aggregator{fetcher: f}
}

// OverlapPath returns the variation overlap path for a gene identifier.
func OverlapPath(geneID string) string {
	return fmt.Sprintf("/overlap/id/%s?feature=variation", geneID)
}

// Variants fetches the variants overlapping the gene identified by geneID.
func (a *Aggregator) Variants(ctx context.Context, geneID, contentType string) ([]Variant, error) {
	body, err := a.fetcher.Fetch(ctx, OverlapPath(geneID), contentType)
	if err != nil {
		return nil, fmt.Errorf("overlap %s: %w", geneID, err)
	}

	var variants []Variant
	if err := body.Decode(&variants); err != nil {
		return nil, fmt.Errorf("overlap %s: %w", geneID, err)
	}
	return variants, nil
}

// Aggregate fetches and tallies the variants of rec and returns its result row.
func (a *Aggregator) Aggregate(ctx context.Context, rec gene.Record, contentType string) (Row, error) {
	variants, err := a.Variants(ctx, rec.ID, contentType)
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", rec.Symbol, err)
	}
	return NewRow(rec, Count(variants)), nil
}
