package frame

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Source yields the frame pairs of a recorded stream, strictly in stream
// order. Next returns io.EOF once the stream is exhausted; that is the
// normal end of a run, not a failure. Any other error means the source's
// cursor is no longer trustworthy and the caller must stop. The release
// function must be called when the caller is done with the pair.
type Source interface {
	Next(ctx context.Context) (*Pair, func(), error)
	Close() error
}

var colorExtensions = []string{".png", ".jpg", ".jpeg", ".ppm"}

var depthExtensions = []string{".dat.gz", ".dat"}

// FileSource replays a recorded stream from two directories: one frame
// image per index in the color directory and one serialized depth map per
// index in the depth directory. Filenames are the bare frame index plus
// extension, optionally zero-padded to six digits.
type FileSource struct {
	colorDir string
	depthDir string
	conf     StreamConfig
	next     int
}

// NewFileSource opens a replayed recording. Both directories must exist
// and the stream config must be valid; anything wrong here is a
// configuration error and fails before any frame is consumed.
func NewFileSource(colorDir, depthDir string, conf StreamConfig) (*FileSource, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	for _, dir := range []string{colorDir, depthDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open recording directory %q", dir)
		}
		if !info.IsDir() {
			return nil, errors.Errorf("recording path %q is not a directory", dir)
		}
	}
	return &FileSource{colorDir: colorDir, depthDir: depthDir, conf: conf}, nil
}

// Config returns the stream parameters fixed at open.
func (fs *FileSource) Config() StreamConfig {
	return fs.conf
}

func findFrameFile(dir string, idx int, extensions []string) string {
	for _, name := range []string{fmt.Sprintf("%d", idx), fmt.Sprintf("%06d", idx)} {
		for _, ext := range extensions {
			p := filepath.Join(dir, name+ext)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// Next returns the pair at the cursor and advances it. A missing color
// file for the next index is end of stream; a color file without its
// depth counterpart, or one that fails to decode, is a retrieval error.
func (fs *FileSource) Next(ctx context.Context) (*Pair, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	idx := fs.next
	colorPath := findFrameFile(fs.colorDir, idx, colorExtensions)
	if colorPath == "" {
		return nil, nil, io.EOF
	}
	depthPath := findFrameFile(fs.depthDir, idx, depthExtensions)
	if depthPath == "" {
		return nil, nil, errors.Errorf("frame %d has a color channel but no depth channel", idx)
	}

	color, err := ReadImageFromFile(colorPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "frame %d", idx)
	}
	depth, err := ParseDepthMap(depthPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "frame %d", idx)
	}
	pair, err := NewPair(color, depth)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "frame %d", idx)
	}

	fs.next++
	return pair, func() {}, nil
}

// Close releases the source. File sources hold no open handles between
// frames, so this only invalidates the cursor.
func (fs *FileSource) Close() error {
	fs.next = -1
	return nil
}

// SliceSource replays an in-memory list of pairs. Useful for tests and
// demos.
type SliceSource struct {
	Pairs []*Pair
	next  int
}

// Next pops the pair at the cursor, or io.EOF once the slice is spent.
func (ss *SliceSource) Next(ctx context.Context) (*Pair, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if ss.next >= len(ss.Pairs) {
		return nil, nil, io.EOF
	}
	p := ss.Pairs[ss.next]
	ss.next++
	return p, func() {}, nil
}

// Close is a no-op for in-memory sources.
func (ss *SliceSource) Close() error {
	return nil
}
