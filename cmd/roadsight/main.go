// The roadsight command replays a recorded road-inspection stream,
// enriches the supplied damage annotations with depth, and writes review
// overlays plus annotation records to an output directory.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/edaniels/golog"

	"github.com/roadsight/roadsight/annotation"
	"github.com/roadsight/roadsight/frame"
	"github.com/roadsight/roadsight/pipeline"
)

func main() {
	colorDirPtr := flag.String("color-dir", "", "directory with the recorded color frames")
	depthDirPtr := flag.String("depth-dir", "", "directory with the recorded depth maps")
	annotationsPtr := flag.String("annotations", "", "path to the JSON annotation table")
	outPtr := flag.String("out", "out", "output directory for overlays and records")
	unitPtr := flag.String("unit", "m", "depth unit of the recording (m or mm)")
	qualityPtr := flag.String("quality", "default", "capture quality profile of the recording")
	depthPreviewPtr := flag.Bool("depth-preview", false, "also write a grayscale depth rendering per frame")
	flag.Parse()

	logger := golog.NewLogger("roadsight")
	if *colorDirPtr == "" || *depthDirPtr == "" || *annotationsPtr == "" {
		logger.Fatal("-color-dir, -depth-dir and -annotations are required")
	}

	n, err := run(*colorDirPtr, *depthDirPtr, *annotationsPtr, *outPtr,
		frame.StreamConfig{Unit: frame.DepthUnit(*unitPtr), Quality: frame.QualityMode(*qualityPtr)},
		*depthPreviewPtr, logger)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("done, %d frames reviewed", n)
	os.Exit(0)
}

func run(colorDir, depthDir, annotationsPath, outDir string,
	conf frame.StreamConfig, depthPreview bool, logger golog.Logger,
) (int, error) {
	src, err := frame.NewFileSource(colorDir, depthDir, conf)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Errorw("closing frame source", "error", err)
		}
	}()

	table, err := annotation.LoadTable(annotationsPath)
	if err != nil {
		return 0, err
	}

	sink, err := pipeline.NewDirSink(outDir)
	if err != nil {
		return 0, err
	}

	var opts []pipeline.Option
	if depthPreview {
		opts = append(opts, pipeline.WithDepthPreview())
	}
	p, err := pipeline.New(src, table, sink, logger, opts...)
	if err != nil {
		return 0, err
	}
	return p.Run(context.Background())
}
