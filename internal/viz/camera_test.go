package viz

import (
	"math"
	"testing"
)

func TestOriginalViewCentersTarget(t *testing.T) {
	cam := NewCamera(60)
	v := cam.View(80, 96)

	x, y, depth, ok := v.Project(OriginalCenter)
	if !ok {
		t.Fatal("center not visible")
	}
	if absInt(x-40) > 1 || absInt(y-48) > 1 {
		t.Errorf("center projected to (%d,%d), want near (40,48)", x, y)
	}
	want := OriginalCenter.Sub(OriginalEye).Length()
	if math.Abs(depth-want) > 1e-9 {
		t.Errorf("depth = %f, want %f", depth, want)
	}
}

func TestProjectClipsPlanes(t *testing.T) {
	v := NewCamera(60).View(80, 96)

	tests := []struct {
		name string
		p    Vec3
	}{
		{"behind eye", Vec3{X: 0, Y: 12, Z: 30}},
		{"inside near plane", OriginalEye.Add(OriginalCenter.Sub(OriginalEye).Normalize().Scale(Near / 2))},
		{"beyond far plane", OriginalEye.Add(OriginalCenter.Sub(OriginalEye).Normalize().Scale(Far + 1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, ok := v.Project(tt.p); ok {
				t.Errorf("%v should be clipped", tt.p)
			}
		})
	}
}

func TestHigherPointsProjectHigher(t *testing.T) {
	v := NewCamera(60).View(80, 96)
	_, yLow, _, _ := v.Project(Vec3{Y: 5})
	_, yHigh, _, _ := v.Project(Vec3{Y: 9})
	if yHigh >= yLow {
		t.Errorf("y=9 at row %d, y=5 at row %d", yHigh, yLow)
	}
}

func TestDragRotates(t *testing.T) {
	cam := NewCamera(60)
	cam.BeginDrag(10)
	cam.DragTo(15)
	cam.DragTo(13)
	if cam.Angle != 9 {
		t.Errorf("angle = %f, want 9", cam.Angle)
	}
	cam.EndDrag()
	cam.DragTo(40)
	if cam.Angle != 9 {
		t.Errorf("angle changed after release: %f", cam.Angle)
	}
}

func TestDragIgnoredWhenFlying(t *testing.T) {
	cam := NewCamera(60)
	cam.Fly()
	cam.BeginDrag(0)
	cam.DragTo(10)
	if cam.Angle != 0 || cam.Dragging() {
		t.Errorf("fly mode should not rotate, angle = %f", cam.Angle)
	}
}

func TestMoveOnlyWhenFlying(t *testing.T) {
	cam := NewCamera(60)
	cam.Right()
	if _, c := cam.Targets(); c != OriginalCenter {
		t.Errorf("original view moved to %v", c)
	}

	cam.Fly()
	cam.Right()
	cam.Raise()
	cam.Up()
	eye, center := cam.Targets()
	if center.X != OriginalCenter.X+RunSpeed || center.Y != OriginalCenter.Y+RunSpeed {
		t.Errorf("center target = %v", center)
	}
	if eye.Z != OriginalEye.Z-RunSpeed {
		t.Errorf("eye target = %v", eye)
	}
}

func TestFlySpringConverges(t *testing.T) {
	cam := NewCamera(60)
	cam.Fly()
	cam.Right()
	cam.Update()
	if cam.Center.X == OriginalCenter.X || cam.Center.X >= OriginalCenter.X+RunSpeed {
		t.Errorf("first frame should move part way, got %f", cam.Center.X)
	}
	for i := 0; i < 180; i++ {
		cam.Update()
	}
	if math.Abs(cam.Center.X-(OriginalCenter.X+RunSpeed)) > 1e-3 {
		t.Errorf("center.x = %f, want %f", cam.Center.X, OriginalCenter.X+RunSpeed)
	}
}

func TestOriginalResetsFlight(t *testing.T) {
	cam := NewCamera(60)
	cam.Fly()
	cam.Down()
	for i := 0; i < 30; i++ {
		cam.Update()
	}
	cam.Original()
	if cam.Eye != OriginalEye || cam.Center != OriginalCenter || cam.Mode != ViewOriginal {
		t.Errorf("original view not restored: eye %v center %v", cam.Eye, cam.Center)
	}
}

func TestParseView(t *testing.T) {
	for name, want := range map[string]ViewMode{"original": ViewOriginal, "": ViewOriginal, "fly": ViewFly} {
		got, ok := ParseView(name)
		if !ok || got != want {
			t.Errorf("ParseView(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseView("orbit"); ok {
		t.Error("unknown view accepted")
	}
}
