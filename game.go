package warpgrid

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// Game hosts the pipeline in Ebitengine. Update drains decoded assets,
// applies pointer input and runs the pan schedule; Draw runs the render
// schedule. Layout reports window resizes.
type Game struct {
	cfg     Config
	rc      *RenderContext
	assets  *AssetLoader
	program *ShaderProgram
	source  FrameSource
	intro   *ScalarTween
	loop    *RenderLoop

	ctx    context.Context
	cancel context.CancelFunc
	update *Schedule
	draw   *Schedule
	screen *ebiten.Image

	inject      injectQueue
	runner      *ScriptRunner
	screenshots []string
	fps         *fpsOverlay

	cursor     image.Point
	cursorSeen bool
	err        error
}

// NewGame performs startup: it builds the grid, starts decoding assets and
// waits for the first image, fetches both shader stages concurrently and
// compiles them. Any failure aborts before a game exists. Assets and
// relative shader paths are read from fsys.
func NewGame(ctx context.Context, cfg Config, fsys fs.FS) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	interp, _ := interpolatorByName(cfg.Interpolation)

	sources := AssetSources(cfg.Assets.Dir, cfg.Assets.Pattern, cfg.Assets.Count)
	grid := NewGrid(cfg.Grid, sources)
	assets := NewAssetLoader(fsys, cfg.Assets.Workers)
	assets.Start(ctx, grid)
	if err := assets.WaitFirst(ctx); err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	src, err := FetchShaderSources(ctx, fsys, cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	if err != nil {
		return nil, err
	}
	program := NewShaderProgram()
	if err := program.Compile(src.Vertex, src.Fragment); err != nil {
		return nil, err
	}
	if err := program.Use(); err != nil {
		return nil, err
	}
	if _, err := lookupRenderUniforms(program); err != nil {
		return nil, err
	}

	g, err := newGame(ctx, cfg, grid, NewGridRasterizer(grid, interp), program)
	if err != nil {
		return nil, err
	}
	g.assets = assets

	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		if g.runner, err = LoadScript(data); err != nil {
			return nil, err
		}
	}
	Logger().Info("startup complete",
		zap.Int("cells", grid.NumChildren()),
		zap.Strings("uniforms", program.Uniforms()))
	return g, nil
}

// newGame wires the loops around already prepared components.
func newGame(ctx context.Context, cfg Config, grid *Node, source FrameSource, program *ShaderProgram) (*Game, error) {
	fn, err := EaseFunc(cfg.Intro.Ease)
	if err != nil {
		return nil, err
	}
	viewport := Size{W: cfg.Width, H: cfg.Height}
	pan := NewPanController(grid, cfg.Pan.Damping, cfg.Pan.Ease)

	g := &Game{
		cfg:     cfg,
		rc:      NewRenderContext(viewport, grid, pan, cfg.Pointer.Ease, cfg.Supersample),
		program: program,
		source:  source,
		intro:   NewScalarTween(0, 1, cfg.Intro.Duration, fn),
		update:  NewSchedule("update"),
		draw:    NewSchedule("draw"),
	}
	g.ctx, g.cancel = context.WithCancel(ctx)
	if cfg.Debug {
		g.fps = &fpsOverlay{}
	}

	g.update.Every(g.ctx, "pan", pan.Tick)
	if g.fps != nil {
		g.update.Every(g.ctx, "fps", func() { g.fps.update(1 / float64(ebiten.TPS())) })
	}
	g.draw.Every(g.ctx, "render", g.renderTick)
	return g, nil
}

// Shutdown stops both loops. The next Update ends the game.
func (g *Game) Shutdown() {
	g.cancel()
}

// Context returns the context both loops are bound to.
func (g *Game) Context() context.Context {
	return g.ctx
}

// RenderContext exposes the shared state, mainly for tests and tooling.
func (g *Game) RenderContext() *RenderContext {
	return g.rc
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if g.assets != nil {
		g.assets.Drain()
	}
	if g.runner != nil {
		g.runner.step(g)
	}
	g.processInput()
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot("f12")
	}
	g.update.Run()
	return nil
}

// processInput feeds one injected move, or the real cursor when it moved.
func (g *Game) processInput() {
	if g.processInjectedInput() {
		return
	}
	x, y := ebiten.CursorPosition()
	p := image.Pt(x, y)
	if !g.cursorSeen {
		g.cursor, g.cursorSeen = p, true
		return
	}
	if p != g.cursor {
		g.cursor = p
		g.rc.PointerMoved(Vec2{X: float64(x), Y: float64(y)})
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.loop == nil && g.err == nil {
		if err := g.startRender(graphicsFrom(screen)); err != nil {
			g.err = err
			return
		}
	}
	g.screen = screen
	g.draw.Run()
	g.screen = nil
	g.flushScreenshots(g.rc.Frame.Image)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// startRender creates the texture pipeline once a graphics context exists.
func (g *Game) startRender(gc GraphicsContext) error {
	textures, err := NewTexturePipeline(gc)
	if err != nil {
		return err
	}
	sampler, err := parseSampler(g.cfg.Sampler.Filter, g.cfg.Sampler.Wrap)
	if err != nil {
		return err
	}
	textures.SetSampler(sampler)
	g.loop = NewRenderLoop(g.rc, g.source, textures, g.program, g.intro)
	g.loop.SetDebug(g.cfg.Debug)
	return nil
}

func (g *Game) renderTick() {
	if g.loop == nil || g.screen == nil {
		return
	}
	if err := g.loop.Tick(g.screen); err != nil {
		Logger().Error("render failed", zap.Error(err))
		g.err = err
		g.cancel()
	}
}

// Layout implements ebiten.Game. The outside size becomes the viewport and
// the screen is laid out at that size, so the Draw that follows renders at
// the new size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.rc.Resize(Size{W: outsideWidth, H: outsideHeight})
	return g.rc.Viewport.W, g.rc.Viewport.H
}

// Run starts the game described by cfg and blocks until the window closes,
// ctx is cancelled, or a frame fails.
func Run(ctx context.Context, cfg Config, fsys fs.FS) error {
	g, err := NewGame(ctx, cfg, fsys)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	err = ebiten.RunGame(g)
	g.release()
	Logger().Info("shutdown", zap.Error(err))
	return err
}

// release stops both loops and frees the GPU texture and the tile cache
// once Ebitengine has stopped calling the game.
func (g *Game) release() {
	g.Shutdown()
	g.update.StopAll()
	g.draw.StopAll()
	if g.loop != nil {
		g.loop.textures.Dispose()
	}
	if r, ok := g.source.(*GridRasterizer); ok {
		r.Reset()
	}
}
