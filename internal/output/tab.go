// Package output provides result row writers.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vareff/internal/variant"
)

// RowWriter writes result rows.
type RowWriter interface {
	WriteHeader() error
	Write(row variant.Row) error
	Flush() error
}

// WriteAll writes a header followed by every row, then flushes.
func WriteAll(w RowWriter, rows []variant.Row) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Flush()
}

// TabWriter writes result rows in tab-delimited format.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(variant.Columns, "\t") + "\n")
	return err
}

// Write writes a single row. Undefined ratios are written as NA.
func (tw *TabWriter) Write(row variant.Row) error {
	values := []string{
		row.Symbol,
		row.GeneID,
		strconv.Itoa(row.IntronCount),
		strconv.Itoa(row.SynonymousCount),
		strconv.Itoa(row.MissenseCount),
		row.SynonymousRatio.String(),
		row.MissenseRatio.String(),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
