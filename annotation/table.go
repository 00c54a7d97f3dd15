package annotation

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Lookup resolves a frame index to its candidate annotations, in the
// order they should be drawn and persisted. A frame with no entry yields
// an empty sequence, not an error. Implementations must be read-only
// from the pipeline's point of view.
type Lookup interface {
	At(frameIndex int) []Annotation
}

// Table is the static, pre-loaded lookup: the whole annotation set keyed
// by frame index, supplied to the pipeline as an explicit dependency.
type Table map[int][]Annotation

// At returns the annotations for idx, or nil when the frame has none.
func (t Table) At(frameIndex int) []Annotation {
	return t[frameIndex]
}

// LoadTable reads a table from a JSON file shaped as an object keyed by
// the decimal frame index:
//
//	{"0": [{"rectangle": [100,150,200,250], "severity": "D"}], "2": [...]}
//
// Every annotation is validated on load so a bad table fails before the
// run starts rather than mid-stream.
func LoadTable(path string) (Table, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read annotation table %q", path)
	}

	var raw map[string][]Annotation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "cannot parse annotation table %q", path)
	}

	table := make(Table, len(raw))
	for key, anns := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, errors.Errorf("annotation table key %q is not a frame index", key)
		}
		for i, a := range anns {
			if err := a.Validate(); err != nil {
				return nil, errors.Wrapf(err, "annotation table frame %d entry %d", idx, i)
			}
		}
		table[idx] = anns
	}
	return table, nil
}
