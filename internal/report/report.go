// Package report builds the stacked bar chart report for a batch of result rows.
package report

import (
	"github.com/montanaflynn/stats"

	"github.com/inodb/vareff/internal/variant"
)

// DefaultCaption is the markdown shown above the chart.
const DefaultCaption = `# Human Dosage-Sensitive Genes Variant Effect
How many variants are there in human dosage-sensitive genes?`

// Chart geometry, in SVG user units.
const (
	labelWidth = 110
	plotWidth  = 520
	barHeight  = 22
	barGap     = 10
	topPad     = 10
	axisHeight = 46
	legendW    = 120
)

// Segment colours follow the usual intron/synonymous/missense palette.
var categories = []struct {
	Name  string
	Color string
}{
	{"intron", "#1f77b4"},
	{"synonymous", "#ff7f0e"},
	{"missense", "#2ca02c"},
}

// Summary holds batch-level statistics.
type Summary struct {
	Genes                 int
	TotalVariants         int
	UndefinedRatios       int // genes with no intron variants
	MeanMissenseRatio     variant.Ratio
	MedianMissenseRatio   variant.Ratio
	MeanSynonymousRatio   variant.Ratio
	MedianSynonymousRatio variant.Ratio
}

// Segment is one coloured part of a stacked bar.
type Segment struct {
	Category string
	Color    string
	Count    int
	X        float64
	Width    float64
}

// Bar is the stacked bar for a single gene.
type Bar struct {
	Label    string
	GeneID   string
	Y        float64
	Total    int
	Segments []Segment
}

// LegendItem is one entry of the chart legend.
type LegendItem struct {
	Category string
	Color    string
	X        float64
	Y        float64
}

// Tick is an x axis tick.
type Tick struct {
	X     float64
	Label int
}

// Report is everything needed to render the page.
type Report struct {
	Caption    string
	Rows       []variant.Row
	Summary    Summary
	Bars       []Bar
	Ticks      []Tick
	Legend     []LegendItem
	Width      float64
	Height     float64
	LabelWidth float64
	PlotWidth  float64
	AxisY      float64
}

// Build computes the summary and chart layout for rows, keeping row order
// from top to bottom.
func Build(rows []variant.Row, caption string) Report {
	r := Report{
		Caption:    caption,
		Rows:       rows,
		Summary:    Summarize(rows),
		LabelWidth: labelWidth,
		PlotWidth:  plotWidth,
		Width:      labelWidth + plotWidth + legendW,
	}

	maxTotal := 0
	for _, row := range rows {
		maxTotal = max(maxTotal, row.Total())
	}
	step := niceStep(maxTotal)
	axisMax := step * ceilDiv(maxTotal, step)
	if axisMax == 0 {
		axisMax = step
	}
	scale := float64(plotWidth) / float64(axisMax)

	for i, row := range rows {
		counts := []int{row.IntronCount, row.SynonymousCount, row.MissenseCount}
		bar := Bar{
			Label:  row.Symbol,
			GeneID: row.GeneID,
			Y:      float64(topPad + i*(barHeight+barGap)),
			Total:  row.Total(),
		}
		x := float64(labelWidth)
		for j, c := range categories {
			w := float64(counts[j]) * scale
			bar.Segments = append(bar.Segments, Segment{
				Category: c.Name,
				Color:    c.Color,
				Count:    counts[j],
				X:        x,
				Width:    w,
			})
			x += w
		}
		r.Bars = append(r.Bars, bar)
	}

	for v := 0; v <= axisMax; v += step {
		r.Ticks = append(r.Ticks, Tick{X: float64(labelWidth) + float64(v)*scale, Label: v})
	}
	for i, c := range categories {
		r.Legend = append(r.Legend, LegendItem{
			Category: c.Name,
			Color:    c.Color,
			X:        float64(labelWidth + plotWidth + 16),
			Y:        float64(topPad + i*20),
		})
	}

	r.AxisY = float64(topPad + len(rows)*(barHeight+barGap))
	r.Height = r.AxisY + axisHeight
	return r
}

// Summarize computes batch statistics. Ratio statistics only consider genes
// whose ratios are defined and are undefined when no gene qualifies.
func Summarize(rows []variant.Row) Summary {
	s := Summary{Genes: len(rows)}

	var missense, synonymous stats.Float64Data
	for _, row := range rows {
		s.TotalVariants += row.Total()
		if !row.MissenseRatio.Valid {
			s.UndefinedRatios++
			continue
		}
		missense = append(missense, row.MissenseRatio.Float64)
		synonymous = append(synonymous, row.SynonymousRatio.Float64)
	}

	s.MeanMissenseRatio = statRatio(missense.Mean)
	s.MedianMissenseRatio = statRatio(missense.Median)
	s.MeanSynonymousRatio = statRatio(synonymous.Mean)
	s.MedianSynonymousRatio = statRatio(synonymous.Median)
	return s
}

func statRatio(fn func() (float64, error)) variant.Ratio {
	v, err := fn()
	if err != nil {
		return variant.Ratio{}
	}
	return variant.Ratio{Float64: v, Valid: true}
}

// niceStep returns a 1/2/5×10^k tick step giving at most about six ticks.
func niceStep(maxVal int) int {
	if maxVal <= 5 {
		return 1
	}
	raw := float64(maxVal) / 5
	mag := 1
	for float64(mag*10) <= raw {
		mag *= 10
	}
	for _, m := range []int{1, 2, 5, 10} {
		if float64(m*mag) >= raw {
			return m * mag
		}
	}
	return 10 * mag
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
