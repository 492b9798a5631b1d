package warpgrid

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// RasterFrame is the CPU image the content is rasterized into each frame.
// Image covers Viewport scaled by Scale. The backing buffer may be reused
// between frames; its contents are not.
type RasterFrame struct {
	Image    *image.RGBA
	Scale    float64
	Viewport Size
}

// DeviceSize returns the frame size in supersampled pixels.
func (f *RasterFrame) DeviceSize() Size {
	return f.Viewport.Scaled(f.Scale)
}

// ensure sizes the backing image, reallocating only when the size changed.
func (f *RasterFrame) ensure() {
	dev := f.DeviceSize()
	if f.Image != nil {
		b := f.Image.Bounds()
		if b.Dx() == dev.W && b.Dy() == dev.H {
			return
		}
	}
	f.Image = image.NewRGBA(image.Rect(0, 0, max(dev.W, 0), max(dev.H, 0)))
}

// FrameSource produces the frame the shader samples.
type FrameSource interface {
	// Capture redraws frame at frame.Viewport * frame.Scale.
	Capture(frame *RasterFrame)
}

// RasterStats counts what the last Capture did.
type RasterStats struct {
	Drawn   int // cells composited
	Culled  int // loaded cells outside the frame
	Pending int // cells whose image has not loaded
	Tiles   int // cached tiles after the capture
}

// tileMaxAge is how many captures a cached tile survives unused.
const tileMaxAge = 120

type tileKey struct {
	img  image.Image
	w, h int
}

type tile struct {
	img  *image.RGBA
	used uint64
}

// GridRasterizer rasterizes a content container on the CPU: an opaque white
// background with every loaded image cell composited at its panned position.
// Each source image is resampled once per device size and cached.
type GridRasterizer struct {
	root   *Node
	interp draw.Interpolator
	tiles  map[tileKey]*tile
	gen    uint64

	Stats RasterStats
}

// NewGridRasterizer creates a rasterizer for root using interp to build
// tiles. A nil interp selects Catmull-Rom.
func NewGridRasterizer(root *Node, interp draw.Interpolator) *GridRasterizer {
	if interp == nil {
		interp = draw.CatmullRom
	}
	return &GridRasterizer{
		root:   root,
		interp: interp,
		tiles:  make(map[tileKey]*tile),
	}
}

// Capture implements FrameSource.
func (r *GridRasterizer) Capture(frame *RasterFrame) {
	r.gen++
	r.Stats = RasterStats{}
	frame.ensure()
	dst := frame.Image
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)
	view := Rect{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}

	m := multiplyAffine(scaleTransform(frame.Scale), r.root.WorldTransform())
	for _, c := range r.root.Children() {
		if c.Type != NodeTypeImage || !c.Visible {
			continue
		}
		if !c.Loaded() {
			r.Stats.Pending++
			continue
		}
		cell := c.Layout
		cell.X += c.X
		cell.Y += c.Y
		rect := deviceRect(transformRect(m, cell))
		if rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		if !rect.Intersects(view) {
			r.Stats.Culled++
			continue
		}
		x0, y0 := int(rect.X), int(rect.Y)
		w, h := int(rect.Width), int(rect.Height)
		draw.Draw(dst, image.Rect(x0, y0, x0+w, y0+h), r.tile(c.Image(), w, h), image.Point{}, draw.Over)
		r.Stats.Drawn++
	}

	if r.gen%tileMaxAge == 0 {
		r.evict()
	}
	r.Stats.Tiles = len(r.tiles)
}

// deviceRect snaps r to whole device pixels by rounding its edges, so cells
// that share an edge in layout space share it on the pixel grid too.
func deviceRect(r Rect) Rect {
	x0, y0 := math.Round(r.X), math.Round(r.Y)
	x1, y1 := math.Round(r.X+r.Width), math.Round(r.Y+r.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// tile returns src resampled to w x h, building it on first use.
func (r *GridRasterizer) tile(src image.Image, w, h int) *image.RGBA {
	key := tileKey{img: src, w: w, h: h}
	t, ok := r.tiles[key]
	if !ok {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		r.interp.Scale(img, img.Bounds(), src, src.Bounds(), draw.Src, nil)
		t = &tile{img: img}
		r.tiles[key] = t
	}
	t.used = r.gen
	return t.img
}

func (r *GridRasterizer) evict() {
	for k, t := range r.tiles {
		if r.gen-t.used >= tileMaxAge {
			delete(r.tiles, k)
		}
	}
}

// Reset drops every cached tile.
func (r *GridRasterizer) Reset() {
	clear(r.tiles)
}

// interpolatorByName maps a config name to an x/image/draw interpolator.
func interpolatorByName(name string) (draw.Interpolator, error) {
	switch name {
	case "catmullrom", "":
		return draw.CatmullRom, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "approxbilinear":
		return draw.ApproxBiLinear, nil
	case "nearest":
		return draw.NearestNeighbor, nil
	default:
		return nil, fmt.Errorf("interpolation %q: want catmullrom, bilinear, approxbilinear or nearest", name)
	}
}
