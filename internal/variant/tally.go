package variant

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/inodb/vareff/internal/gene"
)

// Tally holds per-gene consequence counts.
type Tally struct {
	Intron       int
	Synonymous   int
	Missense     int
	Unclassified int
}

// Count classifies each variant by its consequence type.
// Unrecognised consequence types only increment Unclassified.
func Count(variants []Variant) Tally {
	var t Tally
	for _, v := range variants {
		switch v.ConsequenceType {
		case ConsequenceMissenseVariant:
			t.Missense++
		case ConsequenceSynonymousVariant:
			t.Synonymous++
		case ConsequenceIntronVariant:
			t.Intron++
		default:
			t.Unclassified++
		}
	}
	return t
}

// Total returns the number of variants counted, classified or not.
func (t Tally) Total() int {
	return t.Intron + t.Synonymous + t.Missense + t.Unclassified
}

// SynonymousRatio returns synonymous/intron, undefined when there are no introns.
func (t Tally) SynonymousRatio() Ratio {
	return NewRatio(t.Synonymous, t.Intron)
}

// MissenseRatio returns missense/intron, undefined when there are no introns.
func (t Tally) MissenseRatio() Ratio {
	return NewRatio(t.Missense, t.Intron)
}

// Ratio is a quotient that is undefined (Valid false) for a zero denominator.
type Ratio struct {
	Float64 float64
	Valid   bool
}

// NewRatio returns num/den, or an undefined Ratio when den is zero.
func NewRatio(num, den int) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Float64: float64(num) / float64(den), Valid: true}
}

// String formats the ratio with four decimals, or "NA" when undefined.
func (r Ratio) String() string {
	if !r.Valid {
		return "NA"
	}
	return strconv.FormatFloat(r.Float64, 'f', 4, 64)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Float64)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	if err := json.Unmarshal(data, &r.Float64); err != nil {
		return err
	}
	r.Valid = true
	return nil
}

// Value implements driver.Valuer; undefined ratios are stored as NULL.
func (r Ratio) Value() (driver.Value, error) {
	if !r.Valid {
		return nil, nil
	}
	return r.Float64, nil
}

// Scan implements sql.Scanner.
func (r *Ratio) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = Ratio{}
	case float64:
		*r = Ratio{Float64: v, Valid: true}
	case float32:
		*r = Ratio{Float64: float64(v), Valid: true}
	default:
		return fmt.Errorf("scan ratio: unsupported type %T", src)
	}
	return nil
}

// Columns are the result row column names, in output order.
var Columns = []string{
	"gene_name",
	"gene_id",
	"intron_count",
	"synonymous_count",
	"missense_count",
	"synonymous_to_intron",
	"missense_to_intron",
}

// Row is the per-gene result handed to presentation.
type Row struct {
	Symbol          string `json:"gene_name"`
	GeneID          string `json:"gene_id"`
	IntronCount     int    `json:"intron_count"`
	SynonymousCount int    `json:"synonymous_count"`
	MissenseCount   int    `json:"missense_count"`
	SynonymousRatio Ratio  `json:"synonymous_to_intron"`
	MissenseRatio   Ratio  `json:"missense_to_intron"`
}

// NewRow builds a result row for a resolved gene from its tally.
func NewRow(rec gene.Record, t Tally) Row {
	return Row{
		Symbol:          rec.Symbol,
		GeneID:          rec.ID,
		IntronCount:     t.Intron,
		SynonymousCount: t.Synonymous,
		MissenseCount:   t.Missense,
		SynonymousRatio: t.SynonymousRatio(),
		MissenseRatio:   t.MissenseRatio(),
	}
}

// Total returns the number of classified variants in the row.
func (r Row) Total() int {
	return r.IntronCount + r.SynonymousCount + r.MissenseCount
}
