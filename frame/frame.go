// Package frame holds the frame-pair model for a recorded stereo-depth
// stream: the color channel, the co-registered depth channel, depth
// statistics, and the sources that replay recorded streams.
package frame

import (
	"image"

	"github.com/pkg/errors"
)

// DepthUnit is the physical unit depth samples are expressed in. It is
// fixed when a stream is opened and never changes for the life of the
// handle.
type DepthUnit string

// The units a recorded stream can carry.
const (
	UnitMeters      = DepthUnit("m")
	UnitMillimeters = DepthUnit("mm")
)

func (u DepthUnit) String() string {
	return string(u)
}

// Validate rejects units outside the closed set.
func (u DepthUnit) Validate() error {
	switch u {
	case UnitMeters, UnitMillimeters:
		return nil
	default:
		return errors.Errorf("unknown depth unit %q", string(u))
	}
}

// QualityMode selects the capture quality profile the stream was recorded
// with. Like the unit, it is fixed per handle.
type QualityMode string

// Supported quality profiles.
const (
	QualityDefault = QualityMode("default")
	QualityHigh    = QualityMode("high")
)

// Validate rejects quality modes outside the closed set.
func (q QualityMode) Validate() error {
	switch q {
	case QualityDefault, QualityHigh:
		return nil
	default:
		return errors.Errorf("unknown quality mode %q", string(q))
	}
}

// StreamConfig carries the per-handle stream parameters.
type StreamConfig struct {
	Unit    DepthUnit
	Quality QualityMode
}

// Validate checks both fields against their closed sets.
func (c StreamConfig) Validate() error {
	if err := c.Unit.Validate(); err != nil {
		return err
	}
	return c.Quality.Validate()
}

// Pair is one co-registered color+depth frame. Pixel (x, y) of the color
// image corresponds to pixel (x, y) of the depth map. A Pair is owned by
// the pipeline iteration that retrieved it and must not be retained after
// its release function is called.
type Pair struct {
	Color image.Image
	Depth *DepthMap
}

// NewPair builds a pair, enforcing that both channels cover the same
// pixel grid.
func NewPair(color image.Image, depth *DepthMap) (*Pair, error) {
	if color == nil || depth == nil {
		return nil, errors.New("frame pair needs both a color and a depth channel")
	}
	b := color.Bounds()
	if b.Dx() != depth.Width() || b.Dy() != depth.Height() {
		return nil, errors.Errorf("color (%dx%d) and depth (%dx%d) dimensions don't match",
			b.Dx(), b.Dy(), depth.Width(), depth.Height())
	}
	return &Pair{Color: color, Depth: depth}, nil
}
