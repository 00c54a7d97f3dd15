// Package pipeline drives one pass over a recorded stereo-depth stream:
// per frame it resolves the candidate annotations, attaches a depth
// measurement to each, renders the review overlay, and persists both
// artifacts. Frames are processed strictly in stream order, one at a
// time, because the source is a single mutable cursor whose buffers may
// be reused once the next frame is retrieved.
package pipeline

import (
	"context"
	"io"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/roadsight/roadsight/annotation"
	"github.com/roadsight/roadsight/frame"
	"github.com/roadsight/roadsight/overlay"
)

// Pipeline enriches and persists every frame of one stream.
type Pipeline struct {
	src    frame.Source
	lookup annotation.Lookup
	sink   Sink
	logger golog.Logger

	depthPreview bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDepthPreview also persists a grayscale rendering of each frame's
// depth channel next to the overlay, for reviewer context.
func WithDepthPreview() Option {
	return func(p *Pipeline) {
		p.depthPreview = true
	}
}

// New wires a pipeline from its collaborators. All of them are required.
func New(src frame.Source, lookup annotation.Lookup, sink Sink, logger golog.Logger, opts ...Option) (*Pipeline, error) {
	if src == nil {
		return nil, errors.New("pipeline must include a frame source to pull from")
	}
	if lookup == nil {
		return nil, errors.New("pipeline must include an annotation lookup")
	}
	if sink == nil {
		return nil, errors.New("pipeline must include a persistence sink")
	}
	if logger == nil {
		return nil, errors.New("pipeline must include a logger")
	}
	p := &Pipeline{src: src, lookup: lookup, sink: sink, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run consumes the stream until exhaustion and returns the number of
// frames consumed. End of stream is normal termination. A retrieval
// failure or a persistence failure stops the run with the error carrying
// the frame index; frames persisted before the failure stay on disk. A
// frame whose rendering fails is logged and skipped (nothing is written
// for it) and the run continues.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	consumed := 0
	lastPersisted := -1
	for {
		pair, release, err := p.src.Next(ctx)
		if errors.Is(err, io.EOF) {
			p.logger.Infof("stream exhausted, %d frames processed", consumed)
			return consumed, nil
		}
		if err != nil {
			if lastPersisted < 0 {
				return consumed, errors.Wrapf(err, "retrieving frame %d (no frames persisted)", consumed)
			}
			return consumed, errors.Wrapf(err, "retrieving frame %d (last persisted frame %d)",
				consumed, lastPersisted)
		}

		persisted, err := p.processFrame(consumed, pair)
		release()
		if err != nil {
			return consumed, err
		}
		if persisted {
			lastPersisted = consumed
		}
		consumed++
	}
}

// processFrame runs steps 2-4 of the per-frame sequence and reports
// whether the frame's artifacts landed. The returned error is always
// fatal for the run; recoverable conditions are absorbed here
// (unavailable depth into the record, rendering failures into a logged
// skip with persisted=false).
func (p *Pipeline) processFrame(idx int, pair *frame.Pair) (bool, error) {
	anns := p.lookup.At(idx)

	enriched := make(annotation.Record, 0, len(anns))
	for _, a := range anns {
		z, ok := pair.Depth.AverageInRegion(a.Box.Rect())
		if !ok {
			p.logger.Debugf("frame %d box (%d,%d)-(%d,%d): no valid depth samples",
				idx, a.Box.X0, a.Box.Y0, a.Box.X1, a.Box.Y1)
		}
		enriched = append(enriched, annotation.NewEnriched(a, z, ok))
	}

	img, err := overlay.Render(pair.Color, enriched)
	if err != nil {
		p.logger.Errorw("skipping frame, rendering failed", "frame", idx, "error", err)
		return false, nil
	}

	if err := p.sink.WriteImage(ImageName(idx), img); err != nil {
		return false, errors.Wrapf(err, "frame %d: writing overlay image", idx)
	}
	if err := p.sink.WriteRecord(RecordName(idx), enriched); err != nil {
		return false, errors.Wrapf(err,
			"frame %d: record write failed after overlay %q was already written, frame is persisted inconsistently",
			idx, ImageName(idx))
	}

	if p.depthPreview {
		if err := p.sink.WriteImage(DepthPreviewName(idx), pair.Depth.ToPrettyPicture(0, 0)); err != nil {
			return false, errors.Wrapf(err, "frame %d: writing depth preview", idx)
		}
	}
	return true, nil
}
