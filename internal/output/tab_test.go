package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vareff/internal/gene"
	"github.com/inodb/vareff/internal/variant"
)

func sampleRows() []variant.Row {
	return []variant.Row{
		variant.NewRow(gene.Record{Symbol: "A", ID: "G1"}, variant.Tally{Intron: 2, Synonymous: 1}),
		variant.NewRow(gene.Record{Symbol: "B", ID: "G2"}, variant.Tally{Missense: 3}),
	}
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "gene_name\tgene_id\tintron_count\tsynonymous_count\tmissense_count\tsynonymous_to_intron\tmissense_to_intron\n", buf.String())
}

func TestTabWriter_WriteAll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAll(NewTabWriter(&buf), sampleRows()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "A\tG1\t2\t1\t0\t0.5000\t0.0000", lines[1])
	assert.Equal(t, "B\tG2\t0\t0\t3\tNA\tNA", lines[2])
}

func TestTabWriter_NoOutputBeforeFlush(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)
	require.NoError(t, w.WriteHeader())
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) WriteHeader() error      { return errors.New("header") }
func (failingWriter) Write(variant.Row) error { return nil }
func (failingWriter) Flush() error            { return nil }

func TestWriteAll_StopsOnError(t *testing.T) {
	assert.EqualError(t, WriteAll(failingWriter{}, sampleRows()), "header")
}
