package frame

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
)

// ReadImageFromFile decodes the color channel of a frame from disk. PNG,
// JPEG and PPM are understood, chosen by the decoder registry rather than
// the extension.
func ReadImageFromFile(path string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode image %q", path)
	}
	return img, nil
}

// WriteImageToFile encodes img to path, picking the encoder from the file
// extension.
func WriteImageToFile(path string, img image.Image) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, nil)
	case ".ppm":
		err = ppm.Encode(f, img)
	default:
		return errors.Errorf("do not know how to encode %q", path)
	}
	if err != nil {
		return err
	}
	return f.Sync()
}
