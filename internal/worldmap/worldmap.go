// Package worldmap loads and generates traversability masks.
package worldmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/Garsondee/zombie-patrol/internal/game"
)

// ErrFormat reports a mask file extension that is not .bin, .png or .bmp.
var ErrFormat = errors.New("unsupported mask format")

// Load reads a mask file. Raw .bin files hold bit-packed rows and need the
// declared width and height; image files carry their own dimensions and mark
// light pixels walkable.
//
// A .bin whose size disagrees with width×height still yields a usable mask
// together with an error wrapping game.ErrMaskDimensions; callers decide
// whether that is fatal.
func Load(path string, width, height int, bounds game.WorldBounds) (*game.TraversabilityMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bin":
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read mask %s: %w", path, err)
		}
		return game.NewTraversabilityMask(width, height, bounds, data)
	case ".png":
		img, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode mask %s: %w", path, err)
		}
		return FromImage(img, bounds)
	case ".bmp":
		img, err := bmp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode mask %s: %w", path, err)
		}
		return FromImage(img, bounds)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}

// FromImage packs img into a mask: a pixel is walkable when its luminance is
// above half. The first image row covers the maximum Z of bounds.
func FromImage(img image.Image, bounds game.WorldBounds) (*game.TraversabilityMask, error) {
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()
	if w%8 != 0 {
		return nil, fmt.Errorf("%w: image is %d pixels wide", game.ErrMaskWidth, w)
	}
	b := game.NewMaskBuilder(w, h, bounds)
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			g := color.GrayModel.Convert(img.At(r.Min.X+u, r.Min.Y+v)).(color.Gray)
			if g.Y > 127 {
				b.Pixel(u, v, true)
			}
		}
	}
	return b.Build(), nil
}

// ToImage renders m as black (blocked) and white (walkable).
func ToImage(m *game.TraversabilityMask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for v := 0; v < m.Height; v++ {
		for u := 0; u < m.Width; u++ {
			if m.PixelSet(u, v) {
				img.Pix[v*img.Stride+u] = 0xff
			}
		}
	}
	return img
}

// Thumbnail samples m down to a w×h image for display.
func Thumbnail(m *game.TraversabilityMask, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := y * m.Height / h
		for x := 0; x < w; x++ {
			if m.PixelSet(x*m.Width/w, v) {
				img.Pix[y*img.Stride+x] = 0xff
			}
		}
	}
	return img
}

// Save writes m to path in the format chosen by its extension.
func Save(path string, m *game.TraversabilityMask) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mask: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bin":
		_, err = f.Write(m.Data())
	case ".png":
		err = png.Encode(f, ToImage(m))
	case ".bmp":
		err = bmp.Encode(f, ToImage(m))
	default:
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("write mask %s: %w", path, err)
	}
	return f.Close()
}
