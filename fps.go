package skelwidget

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay displays the current FPS and TPS. The text is redrawn about
// every half second.
type fpsOverlay struct {
	img       *ebiten.Image
	sinceDraw float64
	needsDraw bool
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32), needsDraw: true}
}

// update accumulates one tick of time.
func (f *fpsOverlay) update() {
	f.sinceDraw += 1 / float64(ebiten.TPS())
	if f.sinceDraw >= 0.5 {
		f.sinceDraw = 0
		f.needsDraw = true
	}
}

func (f *fpsOverlay) draw(screen *ebiten.Image) {
	if f.needsDraw {
		f.needsDraw = false
		f.img.Clear()
		// Semi-transparent background for readability
		f.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(f.img, nil)
}

func (f *fpsOverlay) dispose() {
	f.img.Deallocate()
}
