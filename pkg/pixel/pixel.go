// Package pixel provides the image artifact type flowing between processing
// nodes.
//
// An [Image] wraps a *image.NRGBA in a fixed 8-bit RGBA layout so node
// variants can manipulate pixels without per-format special cases. A nil
// *Image is the explicit "absent" artifact: a node that has never processed
// publishes nil, and consumers are expected to check [Image.Empty] rather
// than receive a fabricated placeholder.
package pixel

import (
	"image"

	"github.com/disintegration/imaging"
)

// Image is an 8-bit RGBA raster artifact.
type Image struct {
	px *image.NRGBA
}

// New creates a blank (transparent) image with the given dimensions.
func New(width, height int) *Image {
	return &Image{px: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// From converts any image.Image into an Image, copying the pixel data into
// NRGBA layout. Returns nil for a nil input.
func From(img image.Image) *Image {
	if img == nil {
		return nil
	}
	return &Image{px: imaging.Clone(img)}
}

// NRGBA exposes the underlying raster. Returns nil for an absent image.
// Mutating the returned buffer mutates the artifact; use [Image.Clone] first
// when the original must stay intact.
func (m *Image) NRGBA() *image.NRGBA {
	if m == nil {
		return nil
	}
	return m.px
}

// Width returns the width in pixels, or 0 for an absent image.
func (m *Image) Width() int {
	if m.Empty() {
		return 0
	}
	return m.px.Rect.Dx()
}

// Height returns the height in pixels, or 0 for an absent image.
func (m *Image) Height() int {
	if m.Empty() {
		return 0
	}
	return m.px.Rect.Dy()
}

// Empty reports whether the image is absent or has no pixels. It is safe to
// call on a nil receiver.
func (m *Image) Empty() bool {
	return m == nil || m.px == nil || m.px.Rect.Dx() == 0 || m.px.Rect.Dy() == 0
}

// Clone returns a deep copy, or nil when the image is absent.
func (m *Image) Clone() *Image {
	if m.Empty() {
		return nil
	}
	return &Image{px: imaging.Clone(m.px)}
}

// Grayscale returns a desaturated copy.
func (m *Image) Grayscale() *Image {
	if m.Empty() {
		return nil
	}
	return &Image{px: imaging.Grayscale(m.px)}
}

// Resize returns a copy scaled to the given dimensions using Lanczos
// resampling.
func (m *Image) Resize(width, height int) *Image {
	if m.Empty() {
		return nil
	}
	return &Image{px: imaging.Resize(m.px, width, height, imaging.Lanczos)}
}

// SplitChannels decomposes the image into four single-channel images
// (R, G, B, A), each encoded as a grayscale raster carrying the channel in
// all three color components with full opacity.
func (m *Image) SplitChannels() []*Image {
	if m.Empty() {
		return nil
	}

	bounds := m.px.Rect
	channels := make([]*Image, 4)
	for c := range channels {
		channels[c] = New(bounds.Dx(), bounds.Dy())
	}

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			off := m.px.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			for c := range channels {
				v := m.px.Pix[off+c]
				dst := channels[c].px
				i := dst.PixOffset(x, y)
				dst.Pix[i+0] = v
				dst.Pix[i+1] = v
				dst.Pix[i+2] = v
				dst.Pix[i+3] = 0xff
			}
		}
	}
	return channels
}

// MergeChannels recombines up to four single-channel images (as produced by
// [Image.SplitChannels]) into one image. Missing or absent channels default
// to zero, except alpha which defaults to opaque. The output takes the
// dimensions of the first present channel; returns nil if none is present.
func MergeChannels(channels []*Image) *Image {
	var ref *Image
	for _, ch := range channels {
		if !ch.Empty() {
			ref = ch
			break
		}
	}
	if ref == nil {
		return nil
	}

	w, h := ref.Width(), ref.Height()
	out := New(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := out.px.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				v := uint8(0)
				if c == 3 {
					v = 0xff
				}
				if c < len(channels) && !channels[c].Empty() &&
					x < channels[c].Width() && y < channels[c].Height() {
					src := channels[c].px
					v = src.Pix[src.PixOffset(x, y)]
				}
				out.px.Pix[i+c] = v
			}
		}
	}
	return out
}
