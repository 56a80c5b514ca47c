package card

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so that four curves approximate a circle.
const kappa = 0.5522847498

// canvas draws in CSS pixels onto a device-pixel surface.
type canvas struct {
	img    *image.RGBA
	scale  float64
	raster *vector.Rasterizer
}

func newCanvas(width, height int, scale float64) (*canvas, error) {
	w, h, err := surfaceSize(width, height, scale)
	if err != nil {
		return nil, err
	}

	return &canvas{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		scale:  scale,
		raster: vector.NewRasterizer(0, 0),
	}, nil
}

func (c *canvas) verticalGradient(stops [3]color.NRGBA) {
	b := c.img.Bounds()
	span := max(b.Dy()-1, 1)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		col := gradientAt(stops, float64(y)/float64(span))
		draw.Draw(c.img, image.Rect(b.Min.X, y, b.Max.X, y+1), image.NewUniform(col), image.Point{}, draw.Over)
	}
}

func (c *canvas) horizontalGradient(height float64, stops [3]color.NRGBA) {
	b := c.img.Bounds()
	bottom := min(c.device(height), b.Max.Y)
	span := max(b.Dx()-1, 1)

	for x := b.Min.X; x < b.Max.X; x++ {
		col := gradientAt(stops, float64(x)/float64(span))
		draw.Draw(c.img, image.Rect(x, 0, x+1, bottom), image.NewUniform(col), image.Point{}, draw.Over)
	}
}

func (c *canvas) fillRect(x0, y0, x1, y1 float64, col color.NRGBA) {
	r := image.Rect(c.device(x0), c.device(y0), c.device(x1), c.device(y1))
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// strokeCircle draws a one-pixel ring as the difference of two filled discs.
func (c *canvas) strokeCircle(cx, cy, radius float64, col color.NRGBA) {
	outer := (radius + 0.5) * c.scale
	inner := (radius - 0.5) * c.scale
	x, y := cx*c.scale, cy*c.scale

	box := image.Rect(
		int(math.Floor(x-outer)), int(math.Floor(y-outer)),
		int(math.Ceil(x+outer))+1, int(math.Ceil(y+outer))+1,
	).Intersect(c.img.Bounds())
	if box.Empty() {
		return
	}

	// The rasterizer mask starts at box.Min; parts of the ring outside it are clipped.
	ox, oy := x-float64(box.Min.X), y-float64(box.Min.Y)

	c.raster.Reset(box.Dx(), box.Dy())
	circlePath(c.raster, ox, oy, outer, 1)

	if inner > 0 {
		circlePath(c.raster, ox, oy, inner, -1)
	}

	c.raster.Draw(c.img, box, image.NewUniform(col), image.Point{})
}

// text draws s horizontally centered on cx with its vertical middle at cy.
func (c *canvas) text(face font.Face, s string, cx, cy float64, col color.NRGBA) {
	m := face.Metrics()
	width := font.MeasureString(face, s)

	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: toFixed(cx*c.scale) - width/2,
			Y: toFixed(cy*c.scale) + (m.Ascent-m.Descent)/2,
		},
	}

	d.DrawString(s)
}

func (c *canvas) device(v float64) int {
	return int(math.Round(v * c.scale))
}

// circlePath appends a closed circle. dir 1 winds clockwise on screen, -1 the
// other way, so an inner circle with dir -1 cuts a hole.
func circlePath(z *vector.Rasterizer, cx, cy, radius float64, dir float64) {
	point := func(a float64) (float64, float64) {
		return cx + radius*math.Cos(a), cy + radius*math.Sin(a)
	}

	x0, y0 := point(0)
	z.MoveTo(float32(x0), float32(y0))

	k := kappa * radius

	for i := range 4 {
		a0 := dir * float64(i) * math.Pi / 2
		a1 := dir * float64(i+1) * math.Pi / 2

		px, py := point(a0)
		qx, qy := point(a1)

		c1x := px - dir*k*math.Sin(a0)
		c1y := py + dir*k*math.Cos(a0)
		c2x := qx + dir*k*math.Sin(a1)
		c2y := qy - dir*k*math.Cos(a1)

		z.CubeTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(qx), float32(qy))
	}

	z.ClosePath()
}

// gradientAt interpolates three stops placed at 0, 0.5 and 1.
func gradientAt(stops [3]color.NRGBA, t float64) color.NRGBA {
	t = math.Max(0, math.Min(1, t))
	if t <= 0.5 {
		return lerp(stops[0], stops[1], t*2)
	}

	return lerp(stops[1], stops[2], (t-0.5)*2)
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}

	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// randFloat places decorations; the pattern differs on every render.
var randFloat = rand.Float64
