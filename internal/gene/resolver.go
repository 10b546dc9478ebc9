// Package gene resolves gene symbols to Ensembl gene identifiers.
package gene

import (
	"context"
	"errors"
	"fmt"

	"github.com/inodb/vareff/internal/ensembl"
)

// DefaultSpecies is the organism used in symbol lookups.
const DefaultSpecies = "homo_sapiens"

// ErrMissingField is returned when a lookup response lacks an expected key.
var ErrMissingField = errors.New("missing field")

// Record pairs a gene symbol with its resolved identifier.
type Record struct {
	Symbol string
	ID     string
}

// Fetcher performs a single GET against the REST API.
type Fetcher interface {
	Fetch(ctx context.Context, path, contentType string) (*ensembl.Body, error)
}

// Resolver maps gene symbols to stable gene identifiers.
type Resolver struct {
	fetcher Fetcher
	species string
}

// NewResolver creates a resolver for the given species.
// An empty species means DefaultSpecies.
func NewResolver(f Fetcher, species string) *Resolver {
	if species == "" {
		species = DefaultSpecies
	}
	return &Resolver{fetcher: f, species: species}
}

// LookupPath returns the symbol lookup path for symbol.
func (r *Resolver) LookupPath(symbol string) string {
	return fmt.Sprintf("lookup/symbol/%s/%s?", r.species, symbol)
}

// Resolve looks up symbol and returns it paired with its gene identifier.
func (r *Resolver) Resolve(ctx context.Context, symbol, contentType string) (Record, error) {
	body, err := r.fetcher.Fetch(ctx, r.LookupPath(symbol), contentType)
	if err != nil {
		return Record{}, fmt.Errorf("lookup %s: %w", symbol, err)
	}

	obj, err := body.Object()
	if err != nil {
		return Record{}, fmt.Errorf("lookup %s: %w: id (%v)", symbol, ErrMissingField, err)
	}

	id, ok := obj["id"]
	if !ok || id == nil {
		return Record{}, fmt.Errorf("lookup %s: %w: id", symbol, ErrMissingField)
	}

	s, ok := id.(string)
	if !ok {
		s = fmt.Sprint(id)
	}
	return Record{Symbol: symbol, ID: s}, nil
}
