package warpgrid

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// RenderContext is the state shared by the pan and render loops. The game
// owns one and hands it to each component; both loops run on the game
// goroutine, so no locking is needed.
type RenderContext struct {
	// Viewport is the window size in logical pixels.
	Viewport Size
	// Canvas is the size of the surface the last frame was drawn on. Layout
	// sizes the screen to Viewport, so the two agree once a frame is drawn.
	Canvas Size

	Content *Node
	Pan     *PanController
	Pointer EasedPoint
	Frame   RasterFrame
}

// NewRenderContext creates the shared state for viewport with the pointer
// resting at its centre.
func NewRenderContext(viewport Size, content *Node, pan *PanController, pointerEase, scale float64) *RenderContext {
	return &RenderContext{
		Viewport: viewport,
		Canvas:   viewport,
		Content:  content,
		Pan:      pan,
		Pointer:  NewEasedPoint(viewport.Center(), pointerEase),
		Frame:    RasterFrame{Scale: scale, Viewport: viewport},
	}
}

// PointerMoved records a pointer position in viewport coordinates.
func (rc *RenderContext) PointerMoved(p Vec2) {
	rc.Pointer.Target = p
	if rc.Pan != nil && rc.Content != nil {
		rc.Pan.PointerMoved(p, rc.Viewport, rc.Content.Extent())
	}
}

// Resize adopts a new viewport size. The pan offset snaps to zero and the
// pointer to the new centre. It reports whether the size changed.
func (rc *RenderContext) Resize(viewport Size) bool {
	if viewport == rc.Viewport || viewport.Empty() {
		return false
	}
	rc.Viewport = viewport
	if rc.Pan != nil {
		rc.Pan.Reset()
	}
	rc.Pointer.Snap(viewport.Center())
	Logger().Info("viewport resized", zap.Int("w", viewport.W), zap.Int("h", viewport.H))
	return true
}

// quadIndices draws the full-screen quad as two triangles.
var quadIndices = []uint16{0, 1, 2, 1, 2, 3}

// RenderLoop performs one frame of the distortion pass per Tick: ease the
// pointer, follow viewport changes, rasterize, upload, update uniforms and
// draw one full-screen quad.
type RenderLoop struct {
	rc       *RenderContext
	source   FrameSource
	textures *TexturePipeline
	program  *ShaderProgram
	strength *ScalarTween

	quad     [4]ebiten.Vertex
	resolved bool
	u        renderUniforms

	warned bool
	frames uint64
	last   time.Time
	now    func() time.Time
	stats  frameStats
	debug  bool
}

// NewRenderLoop creates a render loop. strength may be nil for a constant
// full-strength effect.
func NewRenderLoop(rc *RenderContext, source FrameSource, textures *TexturePipeline, program *ShaderProgram, strength *ScalarTween) *RenderLoop {
	l := &RenderLoop{
		rc:       rc,
		source:   source,
		textures: textures,
		program:  program,
		strength: strength,
		now:      time.Now,
	}
	l.buildQuad()
	return l
}

// SetDebug enables periodic frame timing logs.
func (l *RenderLoop) SetDebug(on bool) {
	l.debug = on
}

// Frames returns the number of frames drawn.
func (l *RenderLoop) Frames() uint64 {
	return l.frames
}

// Tick renders one frame into dst. The canvas follows dst's size before
// anything is rasterized, so the quad, the frame and Resolution always
// describe the surface being drawn on. While the program is not active the
// frame is skipped and a warning is logged once.
func (l *RenderLoop) Tick(dst Surface) error {
	rc := l.rc
	pointer := rc.Pointer.Advance()

	b := dst.Bounds()
	canvas := Size{W: b.Dx(), H: b.Dy()}
	if canvas.Empty() {
		return nil
	}
	if canvas != rc.Canvas {
		rc.Canvas = canvas
		l.buildQuad()
	}

	if l.program.State() != ProgramActive {
		if !l.warned {
			l.warned = true
			Logger().Warn("shader program not active, skipping frames",
				zap.Stringer("state", l.program.State()), zap.Error(l.program.Err()))
		}
		return nil
	}
	if !l.resolved {
		if err := l.resolveUniforms(); err != nil {
			return err
		}
	}

	start := l.now()
	rc.Frame.Viewport = rc.Canvas
	l.source.Capture(&rc.Frame)
	captured := l.now()
	l.textures.Upload(&rc.Frame)
	uploaded := l.now()

	p := l.program
	p.SetVec2(l.u.resolution, float64(rc.Canvas.W), float64(rc.Canvas.H))
	p.SetVec2(l.u.pointer, pointer.X, float64(rc.Canvas.H)-pointer.Y)
	if l.u.strength != nil {
		p.SetFloat(*l.u.strength, l.strengthValue(start))
	}
	if l.u.sampler != nil {
		x, y := l.textures.Sampler().Uniform()
		p.SetVec2(*l.u.sampler, x, y)
	}
	p.BindTexture(l.u.scene, l.textures.Texture())
	if err := p.Draw(dst, l.quad[:], quadIndices); err != nil {
		return err
	}
	l.frames++

	if l.debug {
		l.stats.add(captured.Sub(start), uploaded.Sub(captured), l.now().Sub(uploaded))
		if r, ok := l.source.(*GridRasterizer); ok {
			l.stats.raster = r.Stats
		}
		if l.frames%debugLogEvery == 0 {
			l.stats.log(l.frames)
			l.stats = frameStats{}
		}
	}
	return nil
}

// strengthValue advances the intro tween by the wall time since the last
// frame.
func (l *RenderLoop) strengthValue(now time.Time) float64 {
	if l.strength == nil {
		return 1
	}
	var dt float32
	if !l.last.IsZero() {
		dt = float32(now.Sub(l.last).Seconds())
	}
	l.last = now
	return l.strength.Update(dt)
}

// renderUniforms are the handles the render loop writes every frame.
type renderUniforms struct {
	resolution, pointer, scene Uniform
	strength, sampler          *Uniform
}

// lookupRenderUniforms resolves and type-checks the handles. Resolution,
// Pointer and the scene texture are required; Strength and Sampler are used
// when declared.
func lookupRenderUniforms(p *ShaderProgram) (renderUniforms, error) {
	var u renderUniforms
	required := []struct {
		name, typ string
		dst       *Uniform
	}{
		{"Resolution", "vec2", &u.resolution},
		{"Pointer", "vec2", &u.pointer},
		{"imageSrc0", textureType, &u.scene},
	}
	for _, r := range required {
		h, err := p.Uniform(r.name)
		if err != nil {
			return u, err
		}
		if err := checkUniformType(h, r.typ); err != nil {
			return u, err
		}
		*r.dst = h
	}

	optional := []struct {
		name, typ string
		dst       **Uniform
	}{
		{"Strength", "float", &u.strength},
		{"Sampler", "vec2", &u.sampler},
	}
	for _, o := range optional {
		h, err := p.Uniform(o.name)
		if errors.Is(err, ErrUniformNotFound) {
			continue
		}
		if err != nil {
			return u, err
		}
		if err := checkUniformType(h, o.typ); err != nil {
			return u, err
		}
		*o.dst = &h
	}
	return u, nil
}

func checkUniformType(u Uniform, want string) error {
	if u.Type != want {
		return fmt.Errorf("uniform %q is %s, want %s: %w", u.Name, u.Type, want, ErrUniformType)
	}
	return nil
}

// resolveUniforms looks up the handles once.
func (l *RenderLoop) resolveUniforms() error {
	u, err := lookupRenderUniforms(l.program)
	if err != nil {
		return err
	}
	l.u = u
	l.resolved = true
	return nil
}

// buildQuad lays out the full-screen quad for the canvas size, sampling
// the whole device-resolution texture.
func (l *RenderLoop) buildQuad() {
	w, h := float32(l.rc.Canvas.W), float32(l.rc.Canvas.H)
	dev := l.rc.Canvas.Scaled(l.rc.Frame.Scale)
	sw, sh := float32(dev.W), float32(dev.H)
	corners := [4][4]float32{
		{0, 0, 0, 0},
		{w, 0, sw, 0},
		{0, h, 0, sh},
		{w, h, sw, sh},
	}
	for i, c := range corners {
		l.quad[i] = ebiten.Vertex{
			DstX: c[0], DstY: c[1],
			SrcX: c[2], SrcY: c[3],
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
}
