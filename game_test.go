package warpgrid

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 800, 600
	cfg.Grid = GridConfig{Count: 40, Columns: 10, CellWidth: 180, CellHeight: 240, Seed: 7}
	cfg.Intro.Duration = 0
	cfg.Supersample = 1
	return cfg
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := testConfig()
	grid := NewGrid(cfg.Grid, AssetSources("assets", "%d.jpg", 4))
	g, err := newGame(context.Background(), cfg, grid, NewGridRasterizer(grid, nil), activeProgram(t))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGameUpdateRunsPanLoop(t *testing.T) {
	g := newTestGame(t)
	g.InjectMove(800, 600)
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	rc := g.RenderContext()
	if rc.Pointer.Target != (Vec2{800, 600}) {
		t.Errorf("pointer target = %v", rc.Pointer.Target)
	}
	// One pan tick from zero: 3.5% of the way to the target.
	want := rc.Pan.Target().X * 0.035
	if !approxEqual(rc.Content.X, want, 1e-9) {
		t.Errorf("container X = %v, want %v", rc.Content.X, want)
	}
	// The render loop eases the pointer, not Update.
	if rc.Pointer.Current != (Vec2{400, 300}) {
		t.Errorf("pointer current = %v, want centre", rc.Pointer.Current)
	}
}

func TestGameShutdown(t *testing.T) {
	g := newTestGame(t)
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}
	g.Shutdown()
	if err := g.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update after Shutdown = %v, want ebiten.Termination", err)
	}
	if g.Context().Err() == nil {
		t.Error("context should be cancelled")
	}
	if g.update.Run() != 0 || g.draw.Run() != 0 {
		t.Error("loops should not run after shutdown")
	}
}

func TestGameParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := testConfig()
	grid := NewGrid(cfg.Grid, []string{"a.png"})
	g, err := newGame(ctx, cfg, grid, NewGridRasterizer(grid, nil), activeProgram(t))
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := g.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
}

func TestGameLayoutFollowsViewport(t *testing.T) {
	g := newTestGame(t)
	if w, h := g.Layout(800, 600); w != 800 || h != 600 {
		t.Fatalf("Layout = %dx%d", w, h)
	}
	g.InjectMove(800, 600)
	for range 10 {
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}

	if w, h := g.Layout(1024, 768); w != 1024 || h != 768 {
		t.Errorf("Layout after resize = %dx%d, want 1024x768", w, h)
	}
	rc := g.RenderContext()
	if rc.Pan.Offset() != (Vec2{}) || rc.Content.X != 0 {
		t.Error("resize should reset the pan")
	}

	if err := g.startRender(&testGraphics{}); err != nil {
		t.Fatal(err)
	}
	dst := newRecordSurface(1024, 768)
	if err := g.loop.Tick(dst); err != nil {
		t.Fatal(err)
	}
	if rc.Canvas != (Size{1024, 768}) {
		t.Errorf("canvas = %v, want 1024x768", rc.Canvas)
	}
	if x, y := vec2Uniform(t, dst.calls[0], "Resolution"); x != 1024 || y != 768 {
		t.Errorf("Resolution = (%v, %v) in the resize frame", x, y)
	}
}

func TestGameReleaseFreesResources(t *testing.T) {
	g := newTestGame(t)
	for _, c := range g.rc.Content.Children() {
		c.SetImage(solid(red, 2, 2))
	}
	if err := g.startRender(&testGraphics{}); err != nil {
		t.Fatal(err)
	}
	if err := g.loop.Tick(newRecordSurface(800, 600)); err != nil {
		t.Fatal(err)
	}
	r := g.source.(*GridRasterizer)
	if g.loop.textures.Texture() == nil || len(r.tiles) == 0 {
		t.Fatal("setup: frame should have uploaded a texture and cached tiles")
	}

	g.release()
	if g.loop.textures.Texture() != nil {
		t.Error("texture should be released")
	}
	if len(r.tiles) != 0 {
		t.Error("tile cache should be empty")
	}
	if g.update.Len() != 0 || g.draw.Len() != 0 {
		t.Error("schedules should be empty")
	}
	if !errors.Is(g.Update(), ebiten.Termination) {
		t.Error("Update after release should end the game")
	}
}

func TestGameStartRenderNeedsContext(t *testing.T) {
	g := newTestGame(t)
	if err := g.startRender(nil); !errors.Is(err, ErrNoGraphicsContext) {
		t.Errorf("startRender(nil) = %v", err)
	}
}

func TestGameScriptQuits(t *testing.T) {
	g := newTestGame(t)
	runner, err := LoadScript([]byte(`{"steps": [{"action": "move", "x": 10, "y": 20}, {"action": "quit"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.runner = runner
	for range 5 {
		if err := g.Update(); err != nil {
			if !errors.Is(err, ebiten.Termination) {
				t.Fatal(err)
			}
			break
		}
	}
	if g.RenderContext().Pointer.Target != (Vec2{10, 20}) {
		t.Errorf("pointer target = %v", g.RenderContext().Pointer.Target)
	}
	if !runner.Done() || g.Context().Err() == nil {
		t.Error("quit step should shut the game down")
	}
}

func TestNewGameStartupErrors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Supersample = 0
		if _, err := NewGame(context.Background(), cfg, fstest.MapFS{}); err == nil {
			t.Error("expected validation error")
		}
	})
	t.Run("first image missing", func(t *testing.T) {
		cfg := testConfig()
		if _, err := NewGame(context.Background(), cfg, fstest.MapFS{}); err == nil {
			t.Error("expected asset error")
		}
	})
	t.Run("shader source missing", func(t *testing.T) {
		cfg := testConfig()
		cfg.Assets.Count = 1
		cfg.Shaders.Fragment = "missing.kage"
		fsys := fstest.MapFS{"assets/1.jpg": {Data: pngBytes(t, 2, 2, red)}}
		if _, err := NewGame(context.Background(), cfg, fsys); err == nil {
			t.Error("expected shader fetch error")
		}
	})
	t.Run("shader compile failure", func(t *testing.T) {
		cfg := testConfig()
		cfg.Assets.Count = 1
		cfg.Shaders.Fragment = "bad.kage"
		fsys := fstest.MapFS{
			"assets/1.jpg": {Data: pngBytes(t, 2, 2, red)},
			"bad.kage":     {Data: []byte("package main\n")},
		}
		_, err := NewGame(context.Background(), cfg, fsys)
		var ce *CompileError
		if !errors.As(err, &ce) || ce.Stage != StageFragment {
			t.Errorf("err = %v, want fragment *CompileError", err)
		}
	})
}
