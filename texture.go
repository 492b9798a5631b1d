package warpgrid

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// GraphicsContext allocates GPU images. The game acquires one from the
// screen on its first Draw; tests use ebiten.NewImage directly.
type GraphicsContext interface {
	NewImage(w, h int) *ebiten.Image
}

// screenContext allocates unmanaged images alongside the screen. Unmanaged
// images skip Ebitengine's atlas, which suits a texture rewritten whole every
// frame.
type screenContext struct{}

func (screenContext) NewImage(w, h int) *ebiten.Image {
	return ebiten.NewImageWithOptions(image.Rect(0, 0, w, h), &ebiten.NewImageOptions{Unmanaged: true})
}

// graphicsFrom returns the context tied to screen, or nil when there is no
// screen yet.
func graphicsFrom(screen *ebiten.Image) GraphicsContext {
	if screen == nil {
		return nil
	}
	return screenContext{}
}

// SamplerState is how the shader samples the uploaded frame.
type SamplerState struct {
	Linear bool // bilinear filtering; nearest when false
	Clamp  bool // clamp to edge texels; transparent outside when false
}

// Uniform returns the state packed for the Sampler vec2 uniform.
func (s SamplerState) Uniform() (x, y float64) {
	if s.Linear {
		x = 1
	}
	if s.Clamp {
		y = 1
	}
	return x, y
}

// parseSampler maps the config names to a SamplerState.
func parseSampler(filter, wrap string) (SamplerState, error) {
	var s SamplerState
	switch filter {
	case "linear", "":
		s.Linear = true
	case "nearest":
	default:
		return s, fmt.Errorf("sampler.filter %q: want linear or nearest", filter)
	}
	switch wrap {
	case "clamp", "":
		s.Clamp = true
	case "zero":
	default:
		return s, fmt.Errorf("sampler.wrap %q: want clamp or zero", wrap)
	}
	return s, nil
}

// TexturePipeline owns the single GPU texture the raster frame is uploaded
// into. The texture is reallocated only when the frame size changes.
type TexturePipeline struct {
	gc      GraphicsContext
	tex     *ebiten.Image
	size    Size
	sampler SamplerState
	uploads int
	allocs  int
}

// NewTexturePipeline creates a pipeline on gc with linear, clamp-to-edge
// sampling. It fails with ErrNoGraphicsContext if gc is nil.
func NewTexturePipeline(gc GraphicsContext) (*TexturePipeline, error) {
	if gc == nil {
		return nil, ErrNoGraphicsContext
	}
	return &TexturePipeline{
		gc:      gc,
		sampler: SamplerState{Linear: true, Clamp: true},
	}, nil
}

// SetSampler replaces the sampler state applied on upload.
func (p *TexturePipeline) SetSampler(s SamplerState) {
	p.sampler = s
}

// Sampler returns the active sampler state.
func (p *TexturePipeline) Sampler() SamplerState {
	return p.sampler
}

// Texture returns the current texture, nil before the first upload.
func (p *TexturePipeline) Texture() *ebiten.Image {
	return p.tex
}

// Size returns the texture size in device pixels.
func (p *TexturePipeline) Size() Size {
	return p.size
}

// Upload replaces the texture's contents with frame. An empty frame is
// ignored.
func (p *TexturePipeline) Upload(frame *RasterFrame) {
	if frame == nil || frame.Image == nil {
		return
	}
	b := frame.Image.Bounds()
	size := Size{W: b.Dx(), H: b.Dy()}
	if size.Empty() {
		return
	}
	if p.tex == nil || size != p.size {
		if p.tex != nil {
			p.tex.Deallocate()
		}
		p.tex = p.gc.NewImage(size.W, size.H)
		p.size = size
		p.allocs++
		Logger().Debug("texture allocated", zap.Int("w", size.W), zap.Int("h", size.H))
	}
	// image.RGBA stores premultiplied alpha, which is what WritePixels takes.
	pix := frame.Image.Pix
	if frame.Image.Stride != 4*size.W {
		pix = packRows(frame.Image)
	}
	p.tex.WritePixels(pix)
	p.uploads++
}

// packRows copies a sub-image into a tightly packed pixel slice.
func packRows(img *image.RGBA) []byte {
	b := img.Bounds()
	row := 4 * b.Dx()
	out := make([]byte, row*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*row:], img.Pix[off:off+row])
	}
	return out
}

// Dispose releases the texture.
func (p *TexturePipeline) Dispose() {
	if p.tex != nil {
		p.tex.Deallocate()
		p.tex = nil
	}
	p.size = Size{}
}
