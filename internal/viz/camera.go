package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/partsim/internal/particle"
)

type Vec3 = particle.Vec3

type ViewMode int

const (
	ViewOriginal ViewMode = iota
	ViewFly
)

func (m ViewMode) String() string {
	if m == ViewFly {
		return "fly"
	}
	return "original"
}

// ParseView maps a config view name to a mode.
func ParseView(name string) (ViewMode, bool) {
	switch name {
	case "", "original", "fixed":
		return ViewOriginal, true
	case "fly":
		return ViewFly, true
	}
	return ViewOriginal, false
}

const (
	FOV         = 40.0
	Near        = 0.5
	Far         = 40.0
	RunSpeed    = 0.5
	DragDegrees = 3.0
)

var (
	OriginalEye    = Vec3{X: 0, Y: 12, Z: 20}
	OriginalCenter = Vec3{X: 5, Y: 3, Z: 0}
	up             = Vec3{X: 0, Y: 1, Z: 0}
)

// Camera is a look-at perspective camera. The scene is rotated about the Y
// axis by Angle before the view transform. In fly mode the eye and center
// follow their targets on critically damped springs.
type Camera struct {
	Mode  ViewMode
	Angle float64

	Eye, Center             Vec3
	eyeTarget, centerTarget Vec3
	eyeVel, centerVel       Vec3
	spring                  harmonica.Spring

	dragging bool
	dragX    int
}

func NewCamera(fps int) *Camera {
	if fps <= 0 {
		fps = 60
	}
	c := &Camera{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
	c.Original()
	return c
}

// Original restores the fixed view and snaps the camera to it.
func (c *Camera) Original() {
	c.Mode = ViewOriginal
	c.Eye, c.Center = OriginalEye, OriginalCenter
	c.eyeTarget, c.centerTarget = OriginalEye, OriginalCenter
	c.eyeVel, c.centerVel = Vec3{}, Vec3{}
}

// Fly switches to fly-around mode from the current position.
func (c *Camera) Fly() {
	c.Mode = ViewFly
}

// Move shifts the fly targets. It is a no-op in the original view.
func (c *Camera) Move(dCenterX, dCenterY, dEyeZ float64) {
	if c.Mode != ViewFly {
		return
	}
	c.centerTarget.X += dCenterX
	c.centerTarget.Y += dCenterY
	c.eyeTarget.Z += dEyeZ
}

func (c *Camera) Left()  { c.Move(-RunSpeed, 0, 0) }
func (c *Camera) Right() { c.Move(RunSpeed, 0, 0) }
func (c *Camera) Up()    { c.Move(0, 0, -RunSpeed) }
func (c *Camera) Down()  { c.Move(0, 0, RunSpeed) }
func (c *Camera) Raise() { c.Move(0, RunSpeed, 0) }
func (c *Camera) Lower() { c.Move(0, -RunSpeed, 0) }

// Targets returns where the fly camera is heading.
func (c *Camera) Targets() (eye, center Vec3) { return c.eyeTarget, c.centerTarget }

func (c *Camera) BeginDrag(x int) {
	if c.Mode == ViewFly {
		return
	}
	c.dragging = true
	c.dragX = x
}

func (c *Camera) DragTo(x int) {
	if !c.dragging {
		return
	}
	c.Angle = math.Mod(c.Angle+float64(x-c.dragX)*DragDegrees, 360)
	c.dragX = x
}

func (c *Camera) EndDrag()       { c.dragging = false }
func (c *Camera) Dragging() bool { return c.dragging }

// Update advances the springs by one frame.
func (c *Camera) Update() {
	if c.Mode != ViewFly {
		return
	}
	c.Eye, c.eyeVel = c.follow(c.Eye, c.eyeVel, c.eyeTarget)
	c.Center, c.centerVel = c.follow(c.Center, c.centerVel, c.centerTarget)
}

func (c *Camera) follow(pos, vel, target Vec3) (Vec3, Vec3) {
	pos.X, vel.X = c.spring.Update(pos.X, vel.X, target.X)
	pos.Y, vel.Y = c.spring.Update(pos.Y, vel.Y, target.Y)
	pos.Z, vel.Z = c.spring.Update(pos.Z, vel.Z, target.Z)
	return pos, vel
}

// View is a frozen projection for one frame.
type View struct {
	eye      Vec3
	s, u, f  Vec3
	sin, cos float64
	focal    float64
	w, h     float64
}

// View builds the projection for a w x h dot viewport.
func (c *Camera) View(w, h int) View {
	f := c.Center.Sub(c.Eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	rad := c.Angle * math.Pi / 180
	return View{
		eye: c.Eye, s: s, u: u, f: f,
		sin: math.Sin(rad), cos: math.Cos(rad),
		focal: 1 / math.Tan(FOV*math.Pi/360),
		w:     float64(w), h: float64(h),
	}
}

// Project maps a world point to dot coordinates. ok is false outside the
// near and far planes.
func (v View) Project(p Vec3) (x, y int, depth float64, ok bool) {
	r := Vec3{X: p.X*v.cos + p.Z*v.sin, Y: p.Y, Z: -p.X*v.sin + p.Z*v.cos}
	d := r.Sub(v.eye)
	depth = d.Dot(v.f)
	if depth < Near || depth > Far {
		return 0, 0, depth, false
	}
	aspect := v.w / v.h
	nx := d.Dot(v.s) * v.focal / (depth * aspect)
	ny := d.Dot(v.u) * v.focal / depth
	x = int(math.Round((nx + 1) / 2 * (v.w - 1)))
	y = int(math.Round((1 - ny) / 2 * (v.h - 1)))
	return x, y, depth, true
}

// Scale returns how many dots a world length at depth covers vertically.
func (v View) Scale(length, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return length * v.focal / depth * (v.h - 1) / 2
}
