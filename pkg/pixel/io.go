package pixel

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
)

// Open loads an image from disk. The format is detected from the file
// contents; the result is converted to NRGBA layout.
func Open(path string) (*Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return From(img), nil
}

// Save writes the image to disk. The encoding is chosen by the file
// extension (.png, .jpg, .gif, .tif, .bmp). Saving an absent image is an
// error.
func (m *Image) Save(path string) error {
	if m.Empty() {
		return fmt.Errorf("save image %s: image is empty", path)
	}
	if err := imaging.Save(m.px, path); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	return nil
}

// EncodePNG encodes the image as PNG bytes, the interchange format used by
// the HTTP API and the artifact cache.
func (m *Image) EncodePNG() ([]byte, error) {
	if m.Empty() {
		return nil, fmt.Errorf("encode png: image is empty")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m.px); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG decodes PNG bytes produced by [Image.EncodePNG].
func DecodePNG(data []byte) (*Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return From(img), nil
}
