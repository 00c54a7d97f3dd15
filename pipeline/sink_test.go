package pipeline_test

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/roadsight/roadsight/annotation"
	"github.com/roadsight/roadsight/pipeline"
)

func TestArtifactNamesSortInStreamOrder(t *testing.T) {
	test.That(t, pipeline.ImageName(0), test.ShouldEqual, "frame_000000.png")
	test.That(t, pipeline.ImageName(42), test.ShouldEqual, "frame_000042.png")
	test.That(t, pipeline.RecordName(42), test.ShouldEqual, "frame_000042.json")
	test.That(t, pipeline.DepthPreviewName(7), test.ShouldEqual, "frame_000007_depth.png")
	test.That(t, pipeline.ImageName(9) < pipeline.ImageName(10), test.ShouldBeTrue)
}

func TestDirSinkWritesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink, err := pipeline.NewDirSink(dir)
	test.That(t, err, test.ShouldBeNil)

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	err = sink.WriteImage(pipeline.ImageName(0), img)
	test.That(t, err, test.ShouldBeNil)

	depth := 3.42
	rec := annotation.Record{{
		Box:      annotation.Box{X0: 100, Y0: 150, X1: 200, Y1: 250},
		Severity: annotation.SeverityCritical,
		Depth:    &depth,
	}}
	err = sink.WriteRecord(pipeline.RecordName(0), rec)
	test.That(t, err, test.ShouldBeNil)

	data, err := os.ReadFile(filepath.Join(dir, "frame_000000.json"))
	test.That(t, err, test.ShouldBeNil)
	blob := string(data)
	test.That(t, blob, test.ShouldContainSubstring, `"severity": "D"`)
	test.That(t, blob, test.ShouldContainSubstring, `"depth": 3.42`)
	test.That(t, strings.ReplaceAll(strings.ReplaceAll(blob, "\n", ""), " ", ""),
		test.ShouldContainSubstring, `"rectangle":[100,150,200,250]`)

	_, err = os.Stat(filepath.Join(dir, "frame_000000.png"))
	test.That(t, err, test.ShouldBeNil)
}

func TestDirSinkEmptyRecordStillWritten(t *testing.T) {
	dir := t.TempDir()
	sink, err := pipeline.NewDirSink(dir)
	test.That(t, err, test.ShouldBeNil)

	err = sink.WriteRecord(pipeline.RecordName(1), nil)
	test.That(t, err, test.ShouldBeNil)

	data, err := os.ReadFile(filepath.Join(dir, "frame_000001.json"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.TrimSpace(string(data)), test.ShouldEqual, "[]")
}
