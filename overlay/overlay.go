// Package overlay renders review images: the color frame with each
// annotation's box, severity label, and center marker burned in.
package overlay

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/roadsight/roadsight/annotation"
)

var (
	boxColor    = color.NRGBA{R: 255, A: 255}
	labelColor  = color.NRGBA{R: 255, A: 255}
	markerColor = color.NRGBA{R: 255, A: 255}
)

const (
	boxLineWidth = 2.0
	labelOffset  = 5
	labelSize    = 16.0
	markerRadius = 4.0
)

// Render returns a new image: src with every annotation drawn over it, in
// input order, so later annotations draw on top of earlier ones when they
// overlap. That ordering is deliberate and order-significant. src is
// never written to.
//
// All annotations are checked before the first draw call. A malformed box
// or an unresolvable severity fails the whole rendering; a partially
// labeled overlay would be misleading to the reviewer.
func Render(src image.Image, anns []annotation.Enriched) (image.Image, error) {
	if src == nil {
		return nil, errors.New("cannot render an overlay without a frame")
	}

	var bad error
	labels := make([]string, len(anns))
	for i, a := range anns {
		if err := a.Box.Validate(); err != nil {
			bad = multierr.Append(bad, errors.Wrapf(err, "annotation %d", i))
			continue
		}
		label, err := a.Severity.Label()
		if err != nil {
			bad = multierr.Append(bad, errors.Wrapf(err, "annotation %d with box (%d,%d)-(%d,%d)",
				i, a.Box.X0, a.Box.Y0, a.Box.X1, a.Box.Y1))
			continue
		}
		labels[i] = label
	}
	if bad != nil {
		return nil, bad
	}

	dc := gg.NewContextForImage(imaging.Clone(src))
	for i, a := range anns {
		drawBoxOutline(dc, a.Box.Rect(), boxColor, boxLineWidth)
		drawLabel(dc, labels[i], image.Point{X: a.Box.X0, Y: a.Box.Y0 - labelOffset}, labelColor, labelSize)
		drawMarker(dc, a.Box.Center(), markerColor, markerRadius)
	}
	return dc.Image(), nil
}

func drawMarker(dc *gg.Context, p image.Point, c color.Color, radius float64) {
	dc.SetColor(c)
	dc.DrawCircle(float64(p.X), float64(p.Y), radius)
	dc.Fill()
}
