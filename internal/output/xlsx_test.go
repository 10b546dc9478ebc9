package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewXLSXWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, WriteAll(w, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "gene_name", rows[0][0])
	assert.Equal(t, "missense_to_intron", rows[0][6])
	assert.Equal(t, []string{"A", "G1", "2", "1", "0", "0.5", "0"}, rows[1])

	// Undefined ratios are blank cells; GetRows trims trailing empties.
	assert.Equal(t, []string{"B", "G2", "0", "0", "3"}, rows[2])
}
