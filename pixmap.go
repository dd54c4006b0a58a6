package engine

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pixmap represents a rectangular pixel buffer. Storage is premultiplied
// RGBA8, matching image.RGBA's contract, so ToImage can copy the backing
// array directly without a conversion pass.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // premultiplied RGBA, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel, straight alpha in, stored
// premultiplied.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	pm := c.Premultiply()
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(pm.R * 255))
	p.data[i+1] = uint8(clamp255(pm.G * 255))
	p.data[i+2] = uint8(clamp255(pm.B * 255))
	p.data[i+3] = uint8(clamp255(pm.A * 255))
}

// SetPixelPremul sets a pixel directly from already-premultiplied 8-bit
// components, bypassing the float round trip for callers that already
// have premultiplied bytes (e.g. copying from another Pixmap or a decoded
// image.RGBA).
func (p *Pixmap) SetPixelPremul(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// GetPixel returns the straight-alpha color of a single pixel, un-
// premultiplying the backing storage.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	pm := RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
	return pm.Unpremultiply()
}

// BlendPixel composites c (straight alpha) over the existing pixel at
// (x,y) with source-over blending (§4.5 "Offscreen points buffer"). Used
// by the reference renderer to draw antialiased circle edges and the
// Poincaré backdrop without clobbering what a previous draw call already
// placed there. Because storage is premultiplied, source-over reduces to
// out = src + dst*(1-srcA) componentwise, no un-premultiply round trip
// needed.
func (p *Pixmap) BlendPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	if c.A <= 0 {
		return
	}
	src := c.Premultiply()
	if c.A >= 1 {
		p.data[(y*p.width+x)*4+0] = uint8(clamp255(src.R * 255))
		p.data[(y*p.width+x)*4+1] = uint8(clamp255(src.G * 255))
		p.data[(y*p.width+x)*4+2] = uint8(clamp255(src.B * 255))
		p.data[(y*p.width+x)*4+3] = uint8(clamp255(src.A * 255))
		return
	}
	i := (y*p.width + x) * 4
	inv := 1 - c.A
	p.data[i+0] = uint8(clamp255((src.R + float64(p.data[i+0])/255*inv) * 255))
	p.data[i+1] = uint8(clamp255((src.G + float64(p.data[i+1])/255*inv) * 255))
	p.data[i+2] = uint8(clamp255((src.B + float64(p.data[i+2])/255*inv) * 255))
	p.data[i+3] = uint8(clamp255((src.A + float64(p.data[i+3])/255*inv) * 255))
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	pm := c.Premultiply()
	r := uint8(clamp255(pm.R * 255))
	g := uint8(clamp255(pm.G * 255))
	b := uint8(clamp255(pm.B * 255))
	a := uint8(clamp255(pm.A * 255))

	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// FillSpan sets every pixel in the half-open horizontal range [x1,x2) on
// row y to c, clipping to the pixmap bounds. Used by the reference
// renderer's scanline circle fill.
func (p *Pixmap) FillSpan(x1, x2, y int, c RGBA) {
	if y < 0 || y >= p.height || x1 >= x2 {
		return
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 > p.width {
		x2 = p.width
	}
	if x1 >= x2 {
		return
	}
	pm := c.Premultiply()
	r := uint8(clamp255(pm.R * 255))
	g := uint8(clamp255(pm.G * 255))
	b := uint8(clamp255(pm.B * 255))
	a := uint8(clamp255(pm.A * 255))
	rowStart := (y*p.width + x1) * 4
	rowEnd := (y*p.width + x2) * 4
	for i := rowStart; i < rowEnd; i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// FillSpanBlend source-over blends c across [x1,x2) on row y, clipping to
// bounds. Used for antialiased scanline edges where the span's color
// carries partial coverage alpha.
func (p *Pixmap) FillSpanBlend(x1, x2, y int, c RGBA) {
	if y < 0 || y >= p.height || x1 >= x2 {
		return
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 > p.width {
		x2 = p.width
	}
	for x := x1; x < x2; x++ {
		p.BlendPixel(x, y, c)
	}
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pm := NewPixmap(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			pm.SetPixel(x, y, FromColor(c))
		}
	}

	return pm
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	img := p.ToImage()
	return png.Encode(f, img)
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
