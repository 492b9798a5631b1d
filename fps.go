package warpgrid

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows the current FPS and TPS in the top-left corner. The text
// is refreshed every ~0.5 seconds.
type fpsOverlay struct {
	img  *ebiten.Image
	acc  float64
	text string
}

// update accumulates dt seconds and re-reads the counters when due.
func (o *fpsOverlay) update(dt float64) {
	o.acc += dt
	if o.text != "" && o.acc < 0.5 {
		return
	}
	o.acc = 0
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	if o.img != nil {
		o.redraw()
	}
}

func (o *fpsOverlay) redraw() {
	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

// draw composites the overlay onto screen.
func (o *fpsOverlay) draw(screen *ebiten.Image) {
	if o.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		o.img = ebiten.NewImage(100, 32)
		o.redraw()
	}
	screen.DrawImage(o.img, nil)
}
