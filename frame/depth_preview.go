package frame

import (
	"image"
	"image/color"
)

// ToPrettyPicture renders the depth channel as a grayscale image for
// reviewer context: near samples dark, far samples bright, no-reading
// pixels black. hardMin/hardMax clamp the dynamic range so a single
// outlier cannot flatten the rest of the scene; pass 0, 0 to use the
// map's own range.
func (dm *DepthMap) ToPrettyPicture(hardMin, hardMax float64) image.Image {
	min, max := dm.MinMax()
	if hardMin > 0 && min < hardMin {
		min = hardMin
	}
	if hardMax > 0 && max > hardMax {
		max = hardMax
	}

	img := image.NewGray(image.Rect(0, 0, dm.Width(), dm.Height()))
	span := max - min
	if span <= 0 {
		return img
	}

	for y := 0; y < dm.Height(); y++ {
		for x := 0; x < dm.Width(); x++ {
			z := dm.GetDepth(x, y)
			if !ValidDepth(z) {
				continue
			}
			if z < min {
				z = min
			}
			if z > max {
				z = max
			}
			img.SetGray(x, y, color.Gray{Y: uint8(255 * (z - min) / span)})
		}
	}
	return img
}
