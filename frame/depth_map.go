package frame

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// depthMagic is the first header line of the serialized depth format.
const depthMagic = "ROADSIGHTDEPTH"

// DepthMap holds one depth channel of a frame pair. Samples are stored in
// the unit fixed when the stream was opened. A sample of 0, or any
// non-finite value, is the sensor's "no reading" convention and is excluded
// from all statistics.
type DepthMap struct {
	width  int
	height int

	data []float64
}

// NewEmptyDepthMap returns a zeroed depth map of the given dimensions.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{
		width:  width,
		height: height,
		data:   make([]float64, width*height),
	}
}

func (dm *DepthMap) kxy(x, y int) int {
	return (y * dm.width) + x
}

// Width returns the width in pixels.
func (dm *DepthMap) Width() int {
	return dm.width
}

// Height returns the height in pixels.
func (dm *DepthMap) Height() int {
	return dm.height
}

// Bounds returns the pixel rectangle covered by the map.
func (dm *DepthMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, dm.width, dm.height)
}

// Get returns the sample at p.
func (dm *DepthMap) Get(p image.Point) float64 {
	return dm.data[dm.kxy(p.X, p.Y)]
}

// GetDepth returns the sample at (x, y).
func (dm *DepthMap) GetDepth(x, y int) float64 {
	return dm.data[dm.kxy(x, y)]
}

// Set overwrites the sample at (x, y).
func (dm *DepthMap) Set(x, y int, val float64) {
	dm.data[dm.kxy(x, y)] = val
}

// ValidDepth reports whether z is an actual measurement rather than the
// sensor's no-reading sentinel.
func ValidDepth(z float64) bool {
	return z > 0 && !math.IsInf(z, 0) && !math.IsNaN(z)
}

// MinMax returns the smallest and largest valid samples. Returns (0, 0)
// when the map holds no valid sample at all.
func (dm *DepthMap) MinMax() (float64, float64) {
	min := math.Inf(1)
	max := 0.0
	for _, z := range dm.data {
		if !ValidDepth(z) {
			continue
		}
		if z < min {
			min = z
		}
		if z > max {
			max = z
		}
	}
	if math.IsInf(min, 1) {
		return 0, 0
	}
	return min, max
}

// ParseDepthMap reads a depth map from a file, gunzipping if the filename
// ends in .gz.
func ParseDepthMap(fn string) (*DepthMap, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if filepath.Ext(fn) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		in = gz
	}

	return ReadDepthMap(bufio.NewReader(in))
}

func readHeaderLine(r *bufio.Reader) (string, error) {
	s, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// ReadDepthMap decodes the roadsight depth format: a text header (magic,
// unit name, width, height), then width*height little-endian float64
// samples in row-major order.
func ReadDepthMap(r *bufio.Reader) (*DepthMap, error) {
	magic, err := readHeaderLine(r)
	if err != nil {
		return nil, err
	}
	if magic != depthMagic {
		return nil, errors.Errorf("not a depth map, header starts with %q", magic)
	}

	// unit line is carried for the reviewer, the samples are already scaled
	if _, err := readHeaderLine(r); err != nil {
		return nil, err
	}

	widthString, err := readHeaderLine(r)
	if err != nil {
		return nil, err
	}
	width, err := strconv.Atoi(widthString)
	if err != nil {
		return nil, errors.Wrap(err, "bad depth map width")
	}

	heightString, err := readHeaderLine(r)
	if err != nil {
		return nil, err
	}
	height, err := strconv.Atoi(heightString)
	if err != nil {
		return nil, errors.Wrap(err, "bad depth map height")
	}

	if width <= 0 || width >= 100000 || height <= 0 || height >= 100000 {
		return nil, errors.Errorf("bad width or height for depth map %v %v", width, height)
	}

	dm := NewEmptyDepthMap(width, height)
	buf := make([]byte, 8)
	for i := range dm.data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrapf(err, "short depth map, read %d of %d samples", i, len(dm.data))
		}
		dm.data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}

	return dm, nil
}

// WriteToFile writes the map to a file, gzipping if the filename ends
// in .gz.
func (dm *DepthMap) WriteToFile(fn string, unit DepthUnit) error {
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	var out io.Writer = f
	var gout *gzip.Writer
	if filepath.Ext(fn) == ".gz" {
		gout = gzip.NewWriter(f)
		out = gout
	}

	if err := dm.WriteTo(out, unit); err != nil {
		return err
	}

	if gout != nil {
		if err := gout.Close(); err != nil {
			return err
		}
	}
	return f.Sync()
}

// WriteTo encodes the map in the roadsight depth format.
func (dm *DepthMap) WriteTo(out io.Writer, unit DepthUnit) error {
	header := strings.Join(
		[]string{depthMagic, unit.String(), strconv.Itoa(dm.width), strconv.Itoa(dm.height)}, "\n") + "\n"
	if _, err := out.Write([]byte(header)); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for _, z := range dm.data {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(z))
		if _, err := out.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
