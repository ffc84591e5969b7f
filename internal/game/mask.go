package game

import (
	"errors"
	"fmt"
)

var (
	// ErrMaskDimensions reports packed data whose length disagrees with the
	// declared pixel dimensions.
	ErrMaskDimensions = errors.New("mask data length does not match dimensions")
	// ErrMaskWidth reports a pixel width that is not a multiple of 8.
	ErrMaskWidth = errors.New("mask width must be a multiple of 8")
)

// WorldBounds is the rectangle of the ground plane covered by a mask.
// (X0, Z0) is the minimum corner and (X1, Z1) the maximum.
type WorldBounds struct {
	X0, Z0 float64
	X1, Z1 float64
}

// Contains reports whether (x, z) lies inside the bounds.
func (b WorldBounds) Contains(x, z float64) bool {
	return x >= b.X0 && x <= b.X1 && z >= b.Z0 && z <= b.Z1
}

// TraversabilityMask is a bit-packed walkability grid. Each row holds Width
// bits, least significant bit first; the first row covers the world's
// maximum Z, matching image row order.
type TraversabilityMask struct {
	Width  int
	Height int
	Bounds WorldBounds
	stride int
	data   []byte
}

// NewTraversabilityMask wraps packed mask data. Dimension problems are
// returned as errors but the mask is always usable: lookups that fall outside
// the supplied data report "not walkable".
func NewTraversabilityMask(width, height int, bounds WorldBounds, data []byte) (*TraversabilityMask, error) {
	m := &TraversabilityMask{
		Width:  width,
		Height: height,
		Bounds: bounds,
		stride: width / 8,
		data:   data,
	}
	if width%8 != 0 {
		return m, fmt.Errorf("%w: width=%d", ErrMaskWidth, width)
	}
	if width*height != len(data)*8 {
		return m, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrMaskDimensions, width, height, width*height/8, len(data))
	}
	return m, nil
}

// MapCoords converts a ground-plane point to pixel coordinates, truncating
// toward zero. The results are not range-checked.
func (m *TraversabilityMask) MapCoords(x, z float64) (u, v int) {
	fu := float64(m.Width) * (x - m.Bounds.X0) / (m.Bounds.X1 - m.Bounds.X0)
	fv := float64(m.Height) * (z - m.Bounds.Z1) / (m.Bounds.Z0 - m.Bounds.Z1)
	return int(fu), int(fv)
}

// IsWalkable reports whether (x, z) is on walkable ground. Points outside
// the mask are never walkable.
func (m *TraversabilityMask) IsWalkable(x, z float64) bool {
	if !m.Bounds.Contains(x, z) {
		return false
	}
	u, v := m.MapCoords(x, z)
	return m.PixelSet(u, v)
}

// PixelSet reports the bit at pixel (u, v), false when out of range.
func (m *TraversabilityMask) PixelSet(u, v int) bool {
	if u < 0 || u >= m.Width || v < 0 || v >= m.Height {
		return false
	}
	idx := v*m.stride + (u >> 3)
	if idx >= len(m.data) {
		return false
	}
	return m.data[idx]&(1<<(u&7)) != 0
}

// Data returns the packed bytes backing the mask.
func (m *TraversabilityMask) Data() []byte { return m.data }

// MaskBuilder paints walkable regions in world coordinates and packs them.
// Cells start blocked.
type MaskBuilder struct {
	width, height int
	bounds        WorldBounds
	data          []byte
}

// NewMaskBuilder creates an all-blocked builder. width must be a multiple of 8.
func NewMaskBuilder(width, height int, bounds WorldBounds) *MaskBuilder {
	return &MaskBuilder{
		width:  width,
		height: height,
		bounds: bounds,
		data:   make([]byte, width*height/8),
	}
}

func (b *MaskBuilder) set(u, v int, walkable bool) {
	if u < 0 || u >= b.width || v < 0 || v >= b.height {
		return
	}
	idx := v*(b.width/8) + (u >> 3)
	if walkable {
		b.data[idx] |= 1 << (u & 7)
	} else {
		b.data[idx] &^= 1 << (u & 7)
	}
}

// pixelRect converts a world rectangle to an inclusive pixel range.
func (b *MaskBuilder) pixelRect(x0, z0, x1, z1 float64) (u0, v0, u1, v1 int) {
	m := TraversabilityMask{Width: b.width, Height: b.height, Bounds: b.bounds}
	u0, v1 = m.MapCoords(x0, z0)
	u1, v0 = m.MapCoords(x1, z1)
	return u0, v0, u1, v1
}

// Rect marks the world rectangle [x0,x1]×[z0,z1] walkable or blocked.
func (b *MaskBuilder) Rect(x0, z0, x1, z1 float64, walkable bool) *MaskBuilder {
	u0, v0, u1, v1 := b.pixelRect(x0, z0, x1, z1)
	u0, v0 = max(u0, 0), max(v0, 0)
	u1, v1 = min(u1, b.width-1), min(v1, b.height-1)
	for v := v0; v <= v1; v++ {
		for u := u0; u <= u1; u++ {
			b.set(u, v, walkable)
		}
	}
	return b
}

// Pixel marks a single pixel.
func (b *MaskBuilder) Pixel(u, v int, walkable bool) *MaskBuilder {
	b.set(u, v, walkable)
	return b
}

// Build returns the finished mask.
func (b *MaskBuilder) Build() *TraversabilityMask {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	m, _ := NewTraversabilityMask(b.width, b.height, b.bounds, data)
	return m
}
