// Package annotation models the damage annotations attached to a recorded
// road inspection stream: the bounding box, the severity grade, and the
// depth-enriched record the review pipeline persists.
package annotation

import (
	"encoding/json"
	"image"

	"github.com/pkg/errors"
)

// Severity is a damage grade code from a fixed, closed set. Unknown codes
// are an input error, never a silent default.
type Severity string

// The closed severity set, ordered least to most severe.
const (
	SeverityMinor    = Severity("A")
	SeverityModerate = Severity("B")
	SeveritySevere   = Severity("C")
	SeverityCritical = Severity("D")
)

// Label resolves the code to the human-readable text drawn on overlays.
// The switch is exhaustive over the enumerated severities so a new grade
// is a compile-time-visible change here.
func (s Severity) Label() (string, error) {
	switch s {
	case SeverityMinor:
		return "Minor", nil
	case SeverityModerate:
		return "Moderate", nil
	case SeveritySevere:
		return "Severe", nil
	case SeverityCritical:
		return "Critical", nil
	default:
		return "", errors.Errorf("unknown severity code %q", string(s))
	}
}

// Validate rejects codes outside the closed set.
func (s Severity) Validate() error {
	_, err := s.Label()
	return err
}

// Box is an axis-aligned rectangle in pixel coordinates of the color
// frame: (X0, Y0) the top-left corner, (X1, Y1) the bottom-right. The
// coordinates are kept exactly as supplied; a box violating X0 <= X1 or
// Y0 <= Y1 is malformed and is rejected by Validate, never silently
// reordered.
type Box struct {
	X0, Y0, X1, Y1 int
}

// Validate enforces the corner ordering invariant. Degenerate boxes
// (zero width or height) are legal.
func (b Box) Validate() error {
	if b.X0 > b.X1 || b.Y0 > b.Y1 {
		return errors.Errorf("malformed box (%d,%d)-(%d,%d): min corner must not exceed max corner",
			b.X0, b.Y0, b.X1, b.Y1)
	}
	return nil
}

// Rect converts to the stdlib rectangle without canonicalizing, so a
// malformed box stays malformed (and empty) rather than being fixed.
func (b Box) Rect() image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: b.X0, Y: b.Y0},
		Max: image.Point{X: b.X1, Y: b.Y1},
	}
}

// Center is the integer midpoint of the two corners, the floor of the
// mean on each axis, so the marker position is reproducible for odd
// spans. The arithmetic shift keeps flooring correct when an off-frame
// box puts a coordinate sum below zero; plain integer division would
// truncate toward zero there.
func (b Box) Center() image.Point {
	return image.Point{X: (b.X0 + b.X1) >> 1, Y: (b.Y0 + b.Y1) >> 1}
}

// MarshalJSON encodes the box as the four-integer array used in records.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X0, b.Y0, b.X1, b.Y1})
}

// UnmarshalJSON decodes the four-integer array form.
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords [4]int
	if err := json.Unmarshal(data, &coords); err != nil {
		return errors.Wrap(err, "box must be [x_min, y_min, x_max, y_max]")
	}
	b.X0, b.Y0, b.X1, b.Y1 = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// Annotation is one proposed damage region for one frame, as supplied by
// the lookup: a box and a severity grade. Depth is not part of it; the
// pipeline derives an Enriched value instead of mutating the original.
type Annotation struct {
	Box      Box      `json:"rectangle"`
	Severity Severity `json:"severity"`
}

// Validate checks both the box invariant and the severity code.
func (a Annotation) Validate() error {
	if err := a.Box.Validate(); err != nil {
		return err
	}
	return a.Severity.Validate()
}
