package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EbitenSurface draws flat shapes onto an ebiten image through a
// translate/rotate stack.
type EbitenSurface struct {
	dst   *ebiten.Image
	pixel *ebiten.Image
	geom  ebiten.GeoM
	stack []ebiten.GeoM
}

var whitePixel *ebiten.Image

func NewEbitenSurface(dst *ebiten.Image) *EbitenSurface {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return &EbitenSurface{dst: dst, pixel: whitePixel}
}

func (s *EbitenSurface) Size() (float64, float64) {
	if s == nil || s.dst == nil {
		return 0, 0
	}
	b := s.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *EbitenSurface) Clear(c color.Color) {
	if s == nil || s.dst == nil {
		return
	}
	s.dst.Fill(c)
}

// FillRect scales the white pixel to w x h, so rotated rects stay exact.
func (s *EbitenSurface) FillRect(x, y, w, h float64, c color.Color) {
	if s == nil || s.dst == nil || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.geom)
	op.ColorScale.ScaleWithColor(c)
	s.dst.DrawImage(s.pixel, op)
}

func (s *EbitenSurface) FillCircle(cx, cy, r float64, c color.Color) {
	if s == nil || s.dst == nil || r <= 0 {
		return
	}
	x, y := s.geom.Apply(cx, cy)
	vector.DrawFilledCircle(s.dst, float32(x), float32(y), float32(r), c, true)
}

func (s *EbitenSurface) Translate(dx, dy float64) {
	var local ebiten.GeoM
	local.Translate(dx, dy)
	s.push(local)
}

func (s *EbitenSurface) Rotate(theta float64) {
	var local ebiten.GeoM
	local.Rotate(theta)
	s.push(local)
}

// push applies local before the current transform, like a canvas.
func (s *EbitenSurface) push(local ebiten.GeoM) {
	local.Concat(s.geom)
	s.geom = local
}

func (s *EbitenSurface) Save() {
	s.stack = append(s.stack, s.geom)
}

func (s *EbitenSurface) Restore() {
	n := len(s.stack)
	if n == 0 {
		s.geom.Reset()
		return
	}
	s.geom = s.stack[n-1]
	s.stack = s.stack[:n-1]
}
