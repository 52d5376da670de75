// Package ebiten provides Ebiten-specific drawing for the voice monitor.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/emswp/ui"
)

// Meters draws voice meter snapshots scaled to the window.
type Meters struct {
	pixels    []byte                  // RGBA scratch painted by ui.PaintMeters
	offscreen *ebiten.Image           // Offscreen buffer at native meter resolution
	drawOpts  ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewMeters creates a meter view.
func NewMeters() *Meters {
	return &Meters{
		pixels: make([]byte, ui.MeterPixelsSize),
	}
}

// Layout implements ebiten.Game.
func (m *Meters) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Draw paints the snapshot and renders it centered on screen, preserving
// the aspect ratio.
func (m *Meters) Draw(screen *ebiten.Image, s *ui.MeterSnapshot) {
	if m.offscreen == nil {
		m.offscreen = ebiten.NewImage(ui.MeterWidth, ui.MeterHeight)
	}
	ui.PaintMeters(m.pixels, s)
	m.offscreen.WritePixels(m.pixels)

	// Calculate scaling to fit window while preserving aspect ratio
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(ui.MeterWidth)
	nativeH := float64(ui.MeterHeight)

	scale := min(float64(screenW)/nativeW, float64(screenH)/nativeH)

	scaledW := nativeW * scale
	scaledH := nativeH * scale
	offsetX := (float64(screenW) - scaledW) / 2
	offsetY := (float64(screenH) - scaledH) / 2

	m.drawOpts = ebiten.DrawImageOptions{}
	m.drawOpts.GeoM.Scale(scale, scale)
	m.drawOpts.GeoM.Translate(offsetX, offsetY)
	m.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(m.offscreen, &m.drawOpts)
}

// Close releases the offscreen image.
func (m *Meters) Close() {
	if m.offscreen != nil {
		m.offscreen.Deallocate()
		m.offscreen = nil
	}
}
