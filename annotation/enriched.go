package annotation

// Enriched is an annotation after the pipeline has attached its depth
// measurement. It is a fresh value built from the original annotation,
// so lookups that hand out shared or cached annotations are never
// written to. A nil Depth means no valid depth estimate could be
// computed for the box; it serializes as JSON null, explicitly distinct
// from a measured zero.
type Enriched struct {
	Box      Box      `json:"rectangle"`
	Severity Severity `json:"severity"`
	Depth    *float64 `json:"depth"`
}

// NewEnriched builds the enriched value for a. ok follows the depth
// aggregator's convention: false means unavailable.
func NewEnriched(a Annotation, depth float64, ok bool) Enriched {
	e := Enriched{Box: a.Box, Severity: a.Severity}
	if ok {
		d := depth
		e.Depth = &d
	}
	return e
}

// Record is the ordered annotation sequence persisted for one frame. A
// frame with no annotations still gets a record, just an empty one.
type Record []Enriched
