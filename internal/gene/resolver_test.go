package gene

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vareff/internal/ensembl"
)

// stubFetcher answers every request with a fixed body or error and records paths.
type stubFetcher struct {
	value any
	err   error
	paths []string
}

func (s *stubFetcher) Fetch(_ context.Context, path, contentType string) (*ensembl.Body, error) {
	s.paths = append(s.paths, path)
	if s.err != nil {
		return nil, s.err
	}
	return &ensembl.Body{ContentType: contentType, Value: s.value}, nil
}

func TestResolve(t *testing.T) {
	f := &stubFetcher{value: map[string]any{"id": "ENSG00000157764", "display_name": "BRAF"}}
	r := NewResolver(f, "")

	rec, err := r.Resolve(context.Background(), "BRAF", ensembl.ContentTypeJSON)
	require.NoError(t, err)
	assert.Equal(t, Record{Symbol: "BRAF", ID: "ENSG00000157764"}, rec)
	assert.Equal(t, []string{"lookup/symbol/homo_sapiens/BRAF?"}, f.paths)
}

func TestResolve_Species(t *testing.T) {
	f := &stubFetcher{value: map[string]any{"id": "ENSMUSG00000002413"}}
	r := NewResolver(f, "mus_musculus")

	_, err := r.Resolve(context.Background(), "Braf", ensembl.ContentTypeJSON)
	require.NoError(t, err)
	assert.Equal(t, "lookup/symbol/mus_musculus/Braf?", f.paths[0])
}

func TestResolve_NonStringID(t *testing.T) {
	f := &stubFetcher{value: map[string]any{"id": float64(42)}}
	rec, err := NewResolver(f, "").Resolve(context.Background(), "X", ensembl.ContentTypeJSON)
	require.NoError(t, err)
	assert.Equal(t, "42", rec.ID)
}

func TestResolve_MissingID(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"no id key", map[string]any{"display_name": "BRAF"}},
		{"null id", map[string]any{"id": nil}},
		{"array body", []any{"ENSG001"}},
		{"raw text body", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{value: tt.value}
			_, err := NewResolver(f, "").Resolve(context.Background(), "BRAF", ensembl.ContentTypeJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingField))
			assert.Contains(t, err.Error(), "BRAF")
		})
	}
}

func TestResolve_FetchError(t *testing.T) {
	fetchErr := &ensembl.StatusError{Method: "GET", URL: "u", StatusCode: 400, Status: "400 Bad Request"}
	f := &stubFetcher{err: fetchErr}

	_, err := NewResolver(f, "").Resolve(context.Background(), "NOPE", ensembl.ContentTypeJSON)
	var se *ensembl.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 400, se.StatusCode)
	assert.False(t, errors.Is(err, ErrMissingField))
}
