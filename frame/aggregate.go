package frame

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// AverageInRegion reduces the sub-region r of the depth map to a single
// representative value: the arithmetic mean of the valid samples inside r
// after clipping r to the map bounds. The boolean is false when nothing
// remains to average: r lies outside the map, is degenerate, or covers
// only no-reading samples. A false result is never conflated with a
// measured depth of zero.
func (dm *DepthMap) AverageInRegion(r image.Rectangle) (float64, bool) {
	clipped := r.Intersect(dm.Bounds())
	if clipped.Empty() {
		return 0, false
	}

	samples := make([]float64, 0, clipped.Dx()*clipped.Dy())
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		for x := clipped.Min.X; x < clipped.Max.X; x++ {
			if z := dm.GetDepth(x, y); ValidDepth(z) {
				samples = append(samples, z)
			}
		}
	}
	if len(samples) == 0 {
		return 0, false
	}

	return stat.Mean(samples, nil), true
}
