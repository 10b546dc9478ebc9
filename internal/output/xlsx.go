package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/inodb/vareff/internal/variant"
)

// SheetName is the worksheet result rows are written to.
const SheetName = "variant_effect"

// XLSXWriter writes result rows to an Excel workbook.
// Nothing reaches the underlying writer until Flush.
type XLSXWriter struct {
	out  io.Writer
	f    *excelize.File
	next int
}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter(w io.Writer) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	return &XLSXWriter{out: w, f: f, next: 1}, nil
}

// WriteHeader writes the column names to the first row.
func (xw *XLSXWriter) WriteHeader() error {
	header := make([]any, len(variant.Columns))
	for i, c := range variant.Columns {
		header[i] = c
	}
	return xw.writeRow(header)
}

// Write appends a row. Undefined ratios are left as empty cells.
func (xw *XLSXWriter) Write(row variant.Row) error {
	return xw.writeRow([]any{
		row.Symbol,
		row.GeneID,
		row.IntronCount,
		row.SynonymousCount,
		row.MissenseCount,
		ratioCell(row.SynonymousRatio),
		ratioCell(row.MissenseRatio),
	})
}

// Flush writes the workbook and releases it.
func (xw *XLSXWriter) Flush() error {
	defer xw.f.Close()
	if _, err := xw.f.WriteTo(xw.out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (xw *XLSXWriter) writeRow(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, xw.next)
	if err != nil {
		return err
	}
	if err := xw.f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", xw.next, err)
	}
	xw.next++
	return nil
}

func ratioCell(r variant.Ratio) any {
	if !r.Valid {
		return nil
	}
	return r.Float64
}
