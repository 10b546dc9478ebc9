// Package variant classifies and tallies variant consequences per gene.
package variant

// Consequence types (Sequence Ontology terms) recognised by the tally.
const (
	ConsequenceMissenseVariant   = "missense_variant"
	ConsequenceSynonymousVariant = "synonymous_variant"
	ConsequenceIntronVariant     = "intron_variant"
)

// Variant is a record from the overlap endpoint with feature=variation.
type Variant struct {
	ID                   string   `json:"id"`
	ConsequenceType      string   `json:"consequence_type"`
	SeqRegionName        string   `json:"seq_region_name"`
	Start                int64    `json:"start"`
	End                  int64    `json:"end"`
	Strand               int      `json:"strand"`
	Alleles              []string `json:"alleles"`
	ClinicalSignificance []string `json:"clinical_significance"`
	Source               string   `json:"source"`
	AssemblyName         string   `json:"assembly_name"`
	FeatureType          string   `json:"feature_type"`
}
