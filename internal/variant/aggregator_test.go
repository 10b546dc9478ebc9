package variant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vareff/internal/ensembl"
	"github.com/inodb/vareff/internal/gene"
)

type stubFetcher struct {
	bodies map[string]string
	paths  []string
}

func (s *stubFetcher) Fetch(_ context.Context, path, contentType string) (*ensembl.Body, error) {
	s.paths = append(s.paths, path)
	text, ok := s.bodies[path]
	if !ok {
		return nil, &ensembl.StatusError{Method: "GET", URL: path, StatusCode: 400, Status: "400 Bad Request"}
	}
	return &ensembl.Body{ContentType: contentType, Text: text}, nil
}

const overlapG1 = `[
  {"id":"rs1","consequence_type":"intron_variant","seq_region_name":"7","start":140719400,"end":140719400,"strand":1,"alleles":["A","G"],"source":"dbSNP","feature_type":"variation"},
  {"id":"rs2","consequence_type":"intron_variant","seq_region_name":"7","start":140719500,"end":140719500,"strand":1,"alleles":["C","T"]},
  {"id":"rs3","consequence_type":"synonymous_variant","clinical_significance":["benign"]},
  {"id":"rs4","consequence_type":"5_prime_UTR_variant"}
]`

func TestAggregate(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{
		"/overlap/id/G1?feature=variation": overlapG1,
	}}
	a := NewAggregator(f)

	row, err := a.Aggregate(context.Background(), gene.Record{Symbol: "A", ID: "G1"}, ensembl.ContentTypeJSON)
	require.NoError(t, err)
	assert.Equal(t, "A", row.Symbol)
	assert.Equal(t, "G1", row.GeneID)
	assert.Equal(t, 2, row.IntronCount)
	assert.Equal(t, 1, row.SynonymousCount)
	assert.Equal(t, 0, row.MissenseCount)
	assert.Equal(t, NewRatio(1, 2), row.SynonymousRatio)
	assert.Equal(t, NewRatio(0, 2), row.MissenseRatio)
	assert.Equal(t, []string{"/overlap/id/G1?feature=variation"}, f.paths)
}

func TestVariants_DecodesFields(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{OverlapPath("G1"): overlapG1}}

	vs, err := NewAggregator(f).Variants(context.Background(), "G1", ensembl.ContentTypeJSON)
	require.NoError(t, err)
	require.Len(t, vs, 4)
	assert.Equal(t, "rs1", vs[0].ID)
	assert.Equal(t, "7", vs[0].SeqRegionName)
	assert.Equal(t, int64(140719400), vs[0].Start)
	assert.Equal(t, []string{"A", "G"}, vs[0].Alleles)
	assert.Equal(t, []string{"benign"}, vs[2].ClinicalSignificance)
}

func TestAggregate_ZeroIntron(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{
		OverlapPath("G2"): `[{"consequence_type":"missense_variant"},{"consequence_type":"missense_variant"},{"consequence_type":"missense_variant"}]`,
	}}

	row, err := NewAggregator(f).Aggregate(context.Background(), gene.Record{Symbol: "B", ID: "G2"}, ensembl.ContentTypeJSON)
	require.NoError(t, err)
	assert.Equal(t, 3, row.MissenseCount)
	assert.False(t, row.SynonymousRatio.Valid)
	assert.False(t, row.MissenseRatio.Valid)
}

func TestAggregate_FetchError(t *testing.T) {
	f := &stubFetcher{}

	row, err := NewAggregator(f).Aggregate(context.Background(), gene.Record{Symbol: "A", ID: "G1"}, ensembl.ContentTypeJSON)
	require.Error(t, err)
	assert.Equal(t, Row{}, row)

	var se *ensembl.StatusError
	assert.True(t, errors.As(err, &se))
}

func TestAggregate_NotAList(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{OverlapPath("G1"): `{"error":"not a list"}`}}

	_, err := NewAggregator(f).Aggregate(context.Background(), gene.Record{Symbol: "A", ID: "G1"}, ensembl.ContentTypeJSON)
	assert.Error(t, err)
}
