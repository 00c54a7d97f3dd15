package overlay_test

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"

	"github.com/roadsight/roadsight/annotation"
	"github.com/roadsight/roadsight/overlay"
)

func testFrame(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 20, G: 90, B: 20, A: 255})
		}
	}
	return img
}

func enriched(b annotation.Box, sev annotation.Severity) annotation.Enriched {
	return annotation.NewEnriched(annotation.Annotation{Box: b, Severity: sev}, 1.0, true)
}

// rgba returns the pixel as channel values so images with different
// underlying color models can be compared.
func rgba(img image.Image, x, y int) [4]uint32 {
	r, g, b, a := img.At(x, y).RGBA()
	return [4]uint32{r, g, b, a}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	img := testFrame(120, 100)
	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)

	out, err := overlay.Render(img, []annotation.Enriched{
		enriched(annotation.Box{X0: 10, Y0: 20, X1: 60, Y1: 80}, annotation.SeverityModerate),
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldNotBeNil)
	test.That(t, img.Pix, test.ShouldResemble, before)
}

func TestRenderDrawsBoxAndMarker(t *testing.T) {
	img := testFrame(120, 100)
	b := annotation.Box{X0: 10, Y0: 20, X1: 60, Y1: 80}

	out, err := overlay.Render(img, []annotation.Enriched{enriched(b, annotation.SeverityCritical)})
	test.That(t, err, test.ShouldBeNil)

	// the center marker is a filled disk, its middle pixel must be pure
	// box color
	c := b.Center()
	r, g, _, _ := out.At(c.X, c.Y).RGBA()
	test.That(t, r>>8, test.ShouldBeGreaterThan, 200)
	test.That(t, g>>8, test.ShouldBeLessThan, 90)

	// the outline touches the corners
	test.That(t, rgba(out, b.X0, b.Y0), test.ShouldNotResemble, rgba(img, b.X0, b.Y0))
	test.That(t, rgba(out, b.X1, b.Y1), test.ShouldNotResemble, rgba(img, b.X1, b.Y1))

	// pixels well away from box, label and marker are untouched
	test.That(t, rgba(out, 110, 95), test.ShouldResemble, rgba(img, 110, 95))
}

func TestRenderEmptyAnnotationList(t *testing.T) {
	img := testFrame(16, 16)
	out, err := overlay.Render(img, nil)
	test.That(t, err, test.ShouldBeNil)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			test.That(t, rgba(out, x, y), test.ShouldResemble, rgba(img, x, y))
		}
	}
}

func TestRenderUnknownSeverityFailsWholeFrame(t *testing.T) {
	img := testFrame(64, 64)
	out, err := overlay.Render(img, []annotation.Enriched{
		enriched(annotation.Box{X0: 1, Y0: 1, X1: 10, Y1: 10}, annotation.SeverityMinor),
		enriched(annotation.Box{X0: 5, Y0: 5, X1: 20, Y1: 20}, annotation.Severity("Z")),
	})
	test.That(t, out, test.ShouldBeNil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown severity code "Z"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "(5,5)-(20,20)")
}

func TestRenderMalformedBoxRejected(t *testing.T) {
	img := testFrame(64, 64)
	out, err := overlay.Render(img, []annotation.Enriched{
		enriched(annotation.Box{X0: 30, Y0: 1, X1: 10, Y1: 10}, annotation.SeverityMinor),
	})
	test.That(t, out, test.ShouldBeNil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "malformed box")
}

func TestRenderReportsEveryBadAnnotation(t *testing.T) {
	img := testFrame(64, 64)
	_, err := overlay.Render(img, []annotation.Enriched{
		enriched(annotation.Box{X0: 30, Y0: 1, X1: 10, Y1: 10}, annotation.SeverityMinor),
		enriched(annotation.Box{X0: 1, Y0: 1, X1: 10, Y1: 10}, annotation.Severity("Q")),
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "annotation 0")
	test.That(t, err.Error(), test.ShouldContainSubstring, "annotation 1")
}

func TestRenderNilFrame(t *testing.T) {
	_, err := overlay.Render(nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
}
