package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vareff/internal/gene"
	"github.com/inodb/vareff/internal/variant"
)

type fakeSource struct {
	err  error
	seen [][]string
}

func (f *fakeSource) Rows(_ context.Context, symbols []string) ([]variant.Row, error) {
	f.seen = append(f.seen, symbols)
	if f.err != nil {
		return nil, f.err
	}
	rows := make([]variant.Row, len(symbols))
	for i, s := range symbols {
		rows[i] = variant.NewRow(gene.Record{Symbol: s, ID: "ID-" + s}, variant.Tally{Intron: 2, Missense: i})
	}
	return rows, nil
}

func get(t *testing.T, h http.Handler, target string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec.Result()
}

func TestIndex(t *testing.T) {
	src := &fakeSource{}
	s := New(src, Config{Symbols: []string{"ESPN", "BRAF"}}, nil)

	resp := get(t, s, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Human Dosage-Sensitive Genes Variant Effect")
	assert.Contains(t, string(body), ">BRAF</text>")
	assert.Equal(t, [][]string{{"ESPN", "BRAF"}}, src.seen)
}

func TestIndex_GenesOverride(t *testing.T) {
	src := &fakeSource{}
	s := New(src, Config{Symbols: []string{"ESPN"}, Caption: "# Custom"}, nil)

	resp := get(t, s, "/?genes=TP53,KRAS")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "<h1>Custom</h1>")
	assert.Equal(t, [][]string{{"TP53", "KRAS"}}, src.seen)
}

func TestRowsAPI(t *testing.T) {
	s := New(&fakeSource{}, Config{Symbols: []string{"A", "B"}}, nil)

	resp := get(t, s, "/api/rows")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0]["gene_name"])
	assert.Equal(t, "ID-B", rows[1]["gene_id"])
	assert.Equal(t, 0.5, rows[1]["missense_to_intron"])
}

func TestRunFailure(t *testing.T) {
	s := New(&fakeSource{err: errors.New("resolve genes: lookup NOPE: 400 Bad Request")}, Config{Symbols: []string{"NOPE"}}, nil)

	for _, path := range []string{"/", "/api/rows"} {
		resp := get(t, s, path)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode, path)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "NOPE")
		assert.NotContains(t, string(body), "<svg")
	}
}

func TestHealthz(t *testing.T) {
	resp := get(t, New(&fakeSource{}, Config{}, nil), "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
