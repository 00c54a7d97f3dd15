package pipeline

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/roadsight/roadsight/annotation"
	"github.com/roadsight/roadsight/frame"
)

// Sink persists the two artifacts of one frame. Paths are relative names
// produced by ImageName/RecordName; where they land is the sink's
// business.
type Sink interface {
	WriteImage(name string, img image.Image) error
	WriteRecord(name string, rec annotation.Record) error
}

// ImageName is the overlay filename for a frame index. The index is
// zero-padded so files sort in stream order.
func ImageName(frameIndex int) string {
	return fmt.Sprintf("frame_%06d.png", frameIndex)
}

// RecordName is the enriched-record filename for a frame index.
func RecordName(frameIndex int) string {
	return fmt.Sprintf("frame_%06d.json", frameIndex)
}

// DepthPreviewName is the optional depth-visualization filename for a
// frame index.
func DepthPreviewName(frameIndex int) string {
	return fmt.Sprintf("frame_%06d_depth.png", frameIndex)
}

// DirSink writes artifacts into a single output directory.
type DirSink struct {
	dir string
}

// NewDirSink creates the output directory if needed and returns a sink
// writing into it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "cannot create output directory %q", dir)
	}
	return &DirSink{dir: dir}, nil
}

// WriteImage encodes img under the sink directory.
func (s *DirSink) WriteImage(name string, img image.Image) error {
	return frame.WriteImageToFile(filepath.Join(s.dir, name), img)
}

// WriteRecord serializes rec as an ordered JSON array. An empty record is
// written as [], not omitted, so every consumed frame leaves a record
// file.
func (s *DirSink) WriteRecord(name string, rec annotation.Record) error {
	if rec == nil {
		rec = annotation.Record{}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), append(data, '\n'), 0o644)
}
