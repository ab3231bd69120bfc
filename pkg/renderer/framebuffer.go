package renderer

import (
	"fmt"
	"image"
)

// PixelFormat describes how an RGB triple is packed into a uint32
type PixelFormat int

const (
	ARGB8888 PixelFormat = iota // 0xFFRRGGBB
	ABGR8888                    // 0xFFBBGGRR
	RGBX8888                    // 0xRRGGBBFF
)

// String returns the configuration name of the format
func (f PixelFormat) String() string {
	switch f {
	case ABGR8888:
		return "abgr8888"
	case RGBX8888:
		return "rgbx8888"
	default:
		return "argb8888"
	}
}

// ParsePixelFormat converts a configuration name into a PixelFormat
func ParsePixelFormat(name string) (PixelFormat, error) {
	switch name {
	case "", "argb8888":
		return ARGB8888, nil
	case "abgr8888":
		return ABGR8888, nil
	case "rgbx8888":
		return RGBX8888, nil
	default:
		return ARGB8888, fmt.Errorf("unknown pixel format %q", name)
	}
}

// Map packs an opaque color
func (f PixelFormat) Map(r, g, b uint8) uint32 {
	switch f {
	case ABGR8888:
		return 0xFF<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
	case RGBX8888:
		return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xFF
	default:
		return 0xFF<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}
}

// Unmap extracts the color channels from a packed pixel
func (f PixelFormat) Unmap(p uint32) (r, g, b uint8) {
	switch f {
	case ABGR8888:
		return uint8(p), uint8(p >> 8), uint8(p >> 16)
	case RGBX8888:
		return uint8(p >> 24), uint8(p >> 16), uint8(p >> 8)
	default:
		return uint8(p >> 16), uint8(p >> 8), uint8(p)
	}
}

// FrameBuffer is a row-major array of packed pixels, index = x + y*Width
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint32
	Format PixelFormat
}

// NewFrameBuffer allocates a black buffer
func NewFrameBuffer(width, height int, format PixelFormat) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
		Format: format,
	}
}

// Set writes the pixel at (x, y)
func (fb *FrameBuffer) Set(x, y int, r, g, b uint8) {
	fb.Pix[x+y*fb.Width] = fb.Format.Map(r, g, b)
}

// At reads the pixel at (x, y)
func (fb *FrameBuffer) At(x, y int) (r, g, b uint8) {
	return fb.Format.Unmap(fb.Pix[x+y*fb.Width])
}

// Clear resets every pixel to black
func (fb *FrameBuffer) Clear() {
	black := fb.Format.Map(0, 0, 0)
	for i := range fb.Pix {
		fb.Pix[i] = black
	}
}

// Image converts the buffer to an RGBA image
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pix {
		r, g, b := fb.Format.Unmap(p)
		offset := i * 4
		img.Pix[offset] = r
		img.Pix[offset+1] = g
		img.Pix[offset+2] = b
		img.Pix[offset+3] = 255
	}
	return img
}
