package viz

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/sim"
)

var (
	red  = colorful.Color{R: 1}
	blue = colorful.Color{B: 1}
)

func TestCanvasPlot(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Plot(3, 5, red, 1)

	if !c.Lit(3, 5) {
		t.Fatal("dot not lit")
	}
	if c.Lit(2, 5) || c.Lit(3, 4) {
		t.Error("neighbour lit")
	}
	// (3,5) is column 1, row 1, dot (1,1): bit 0x10
	if got := c.Grid[1][1]; got != brailleBlank+0x10 {
		t.Errorf("cell = %U, want %U", got, brailleBlank+0x10)
	}
}

func TestCanvasNearestColorWins(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Plot(0, 0, red, 5)
	c.Plot(1, 1, blue, 2)
	c.Plot(0, 1, red, 9)

	col, ok := c.ColorAt(0, 0)
	if !ok || col != blue {
		t.Errorf("color = %v, want blue", col)
	}
	if _, ok := c.ColorAt(3, 7); ok {
		t.Error("empty cell should have no color")
	}
}

func TestCanvasOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Plot(-1, 0, red, 0)
	c.Plot(4, 0, red, 0)
	c.Plot(0, 8, red, 0)
	c.FillRect(-10, -10, 100, 100, red, 0)
	if !c.Lit(3, 7) {
		t.Error("clipped fill should still cover the canvas")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.DrawLine(0, 0, 5, 11, red, 1)
	c.Clear()
	for y := 0; y < c.DotHeight(); y++ {
		for x := 0; x < c.DotWidth(); x++ {
			if c.Lit(x, y) {
				t.Fatalf("(%d,%d) lit after clear", x, y)
			}
		}
	}
	if _, ok := c.ColorAt(0, 0); ok {
		t.Error("color survived clear")
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	tests := []struct{ x0, y0, x1, y1 int }{
		{0, 0, 7, 0},
		{0, 0, 0, 7},
		{7, 7, 0, 0},
		{1, 6, 6, 2},
	}
	for _, tt := range tests {
		c := NewCanvas(4, 2)
		c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1, red, 1)
		if !c.Lit(tt.x0, tt.y0) || !c.Lit(tt.x1, tt.y1) {
			t.Errorf("line %v missing an endpoint", tt)
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(5, 3)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	for _, l := range lines {
		if l != strings.Repeat(string(rune(brailleBlank)), 5) {
			t.Errorf("line %q not blank", l)
		}
	}
	if n := strings.Count(c.Render(red), "\n"); n != 3 {
		t.Errorf("Render produced %d lines", n)
	}
}

func TestParticleColorBlend(t *testing.T) {
	bg := colorful.Color{}
	fg := particle.Color{R: 1, G: 0.5, B: 0.2, A: 1}
	if got := particleColor(bg, fg); !got.AlmostEqualRgb(colorful.Color{R: 1, G: 0.5, B: 0.2}) {
		t.Errorf("opaque particle = %v", got)
	}
	fg.A = 0
	if got := particleColor(bg, fg); !got.AlmostEqualRgb(bg) {
		t.Errorf("transparent particle = %v", got)
	}
}

func TestDrawSamplesStyles(t *testing.T) {
	cam := NewCamera(60)
	target := Vec3{X: 5, Y: 8, Z: 0}
	sample := particle.Sample{Position: target, Color: particle.Color{R: 0.5, G: 0.5, B: 1, A: 1}}

	for _, style := range []sim.Style{sim.StylePoint, sim.StyleSprite, sim.StyleSphere} {
		t.Run(style.String(), func(t *testing.T) {
			cv := NewCanvas(40, 24)
			r := NewRenderer(cam, ThemeMinimal)
			p := sim.DefaultParams()
			p.Style = style
			p.PointSize = 8
			r.DrawSamples(cv, []particle.Sample{sample}, p)

			x, y, _, ok := cam.View(cv.DotWidth(), cv.DotHeight()).Project(target)
			if !ok {
				t.Fatal("sample not visible")
			}
			if !cv.Lit(x, y) {
				t.Errorf("sample at (%d,%d) not drawn", x, y)
			}
		})
	}
}

func TestDrawSamplesPointSize(t *testing.T) {
	cam := NewCamera(60)
	target := Vec3{X: 5, Y: 8, Z: 0}
	cv := NewCanvas(40, 24)
	p := sim.DefaultParams()
	p.PointSize = 8
	NewRenderer(cam, ThemeMinimal).DrawSamples(cv, []particle.Sample{{Position: target}}, p)

	x, y, _, _ := cam.View(cv.DotWidth(), cv.DotHeight()).Project(target)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if !cv.Lit(x+dx, y+dy) {
				t.Errorf("(%d,%d) not covered by size 8 point", x+dx, y+dy)
			}
		}
	}
}

func TestDrawRingSlices(t *testing.T) {
	cv := NewCanvas(20, 10)
	drawRing(cv, 20, 20, 8, 4, red, 1)
	for _, pt := range [][2]int{{28, 20}, {20, 12}, {12, 20}, {20, 28}} {
		if !cv.Lit(pt[0], pt[1]) {
			t.Errorf("vertex %v not drawn", pt)
		}
	}
	if cv.Lit(20, 20) {
		t.Error("ring should be hollow")
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("ocean theme not found")
	}
	if GetTheme("nope").Name != ThemeCyberpunk.Name {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}
