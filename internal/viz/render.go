package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	PlatformY   = 4.8
	GroundY     = -0.1
	GroundMinX  = -5.0
	GroundHalfZ = 5.0
	SphereSize  = 0.05
)

// TextureColor is the sphere texture (255, 0, 0, 255).
var TextureColor = colorful.Color{R: 1, G: 0, B: 0}

// Quad is a horizontal rectangle in world space.
type Quad struct {
	MinX, MaxX, MinZ, MaxZ, Y float64
}

func (q Quad) corners() [4]Vec3 {
	return [4]Vec3{
		{X: q.MinX, Y: q.Y, Z: q.MinZ},
		{X: q.MaxX, Y: q.Y, Z: q.MinZ},
		{X: q.MaxX, Y: q.Y, Z: q.MaxZ},
		{X: q.MinX, Y: q.Y, Z: q.MaxZ},
	}
}

var (
	Platform = Quad{
		MinX: -particle.PlatformRadius, MaxX: particle.PlatformRadius,
		MinZ: -particle.PlatformRadius, MaxZ: particle.PlatformRadius,
		Y: PlatformY,
	}
	Ground = Quad{MinX: GroundMinX, MaxX: particle.Edge, MinZ: -GroundHalfZ, MaxZ: GroundHalfZ, Y: GroundY}
)

// Renderer draws one frame of the fountain onto a canvas.
type Renderer struct {
	Camera *Camera
	Theme  Theme

	samples []particle.Sample
}

func NewRenderer(cam *Camera, theme Theme) *Renderer {
	return &Renderer{Camera: cam, Theme: theme}
}

// Draw clears the canvas and renders the scene and every active particle.
func (r *Renderer) Draw(cv *Canvas, c *sim.Controller) {
	r.samples = c.Snapshot(r.samples)
	r.DrawSamples(cv, r.samples, c.Params())
}

// DrawSamples renders an explicit particle set.
func (r *Renderer) DrawSamples(cv *Canvas, samples []particle.Sample, p sim.Params) {
	cv.Clear()
	view := r.Camera.View(cv.DotWidth(), cv.DotHeight())
	r.drawQuad(cv, view, Ground, r.Theme.Ground, 4)
	r.drawQuad(cv, view, Platform, r.Theme.Platform, 0)

	bg := r.Theme.BackgroundColor()
	for _, s := range samples {
		x, y, depth, ok := view.Project(s.Position)
		if !ok {
			continue
		}
		col := particleColor(bg, s.Color)
		switch p.Style {
		case sim.StyleSprite:
			h := int(math.Round(view.Scale(p.SpriteSize, depth)))
			cv.FillRect(x-h, y-h, x+h, y+h, col, depth)
		case sim.StyleSphere:
			if p.Texture {
				col = TextureColor
			}
			drawRing(cv, x, y, view.Scale(SphereSize, depth), p.SphereSlices, col, depth)
		default:
			h := p.PointSize / 4
			cv.FillRect(x-h, y-h, x+h, y+h, col, depth)
		}
	}
}

// particleColor composites an RGBA particle over the background.
func particleColor(bg colorful.Color, c particle.Color) colorful.Color {
	return bg.BlendRgb(colorful.Color{R: c.R, G: c.G, B: c.B}, c.A).Clamped()
}

// drawQuad outlines q and strokes interior lines every `grid` world units.
func (r *Renderer) drawQuad(cv *Canvas, view View, q Quad, col colorful.Color, grid float64) {
	c := q.corners()
	for i := range c {
		line3(cv, view, c[i], c[(i+1)%4], col)
	}
	if grid <= 0 {
		return
	}
	for x := q.MinX + grid; x < q.MaxX; x += grid {
		line3(cv, view, Vec3{X: x, Y: q.Y, Z: q.MinZ}, Vec3{X: x, Y: q.Y, Z: q.MaxZ}, col)
	}
	for z := q.MinZ + grid; z < q.MaxZ; z += grid {
		line3(cv, view, Vec3{X: q.MinX, Y: q.Y, Z: z}, Vec3{X: q.MaxX, Y: q.Y, Z: z}, col)
	}
}

// line3 draws a world-space segment. Segments with an endpoint behind the
// camera or far off screen are skipped.
func line3(cv *Canvas, view View, a, b Vec3, col colorful.Color) {
	x0, y0, d0, ok0 := view.Project(a)
	x1, y1, d1, ok1 := view.Project(b)
	if !ok0 || !ok1 {
		return
	}
	w, h := cv.DotWidth(), cv.DotHeight()
	if offscreen(x0, y0, w, h) || offscreen(x1, y1, w, h) {
		return
	}
	cv.DrawLine(x0, y0, x1, y1, col, math.Max(d0, d1))
}

func offscreen(x, y, w, h int) bool {
	return x < -2*w || x > 3*w || y < -2*h || y > 3*h
}

// drawRing draws a closed polygon with `slices` vertices around (cx, cy).
func drawRing(cv *Canvas, cx, cy int, radius float64, slices int, col colorful.Color, depth float64) {
	if radius < 1 || slices < 2 {
		cv.Plot(cx, cy, col, depth)
		return
	}
	px := cx + int(math.Round(radius))
	py := cy
	for i := 1; i <= slices; i++ {
		a := 2 * math.Pi * float64(i) / float64(slices)
		x := cx + int(math.Round(radius*math.Cos(a)))
		y := cy - int(math.Round(radius*math.Sin(a)))
		cv.DrawLine(px, py, x, y, col, depth)
		px, py = x, y
	}
}
