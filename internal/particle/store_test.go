package particle

import (
	"errors"
	"testing"
)

func TestNewStorePanicsOnBadCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{"zero", 0},
		{"negative", -1},
		{"above max", MaxParticles + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			NewStore(tt.capacity)
		})
	}
}

func TestStoreResizeGrowInitializes(t *testing.T) {
	em := NewEmitter(1)
	s := NewStore(1000)
	if err := s.Resize(100, em, 3.0); err != nil {
		t.Fatalf("resize failed: %v", err)
	}

	if err := s.Resize(1000, em, 3.0); err != nil {
		t.Fatalf("grow failed: %v", err)
	}
	if s.Len() != 1000 {
		t.Fatalf("expected 1000 active, got %d", s.Len())
	}

	for i := 100; i < 1000; i++ {
		p := s.At(i)
		if p.Age != 0 {
			t.Fatalf("slot %d: expected age 0, got %f", i, p.Age)
		}
		if p.Color.A < AlphaMin || p.Color.A > 1 {
			t.Fatalf("slot %d: alpha %f out of range", i, p.Color.A)
		}
		if !p.Descending {
			t.Fatalf("slot %d: expected descending", i)
		}
	}
}

func TestStoreShrinkKeepsPrefix(t *testing.T) {
	em := NewEmitter(2)
	s := NewStore(1000)
	if err := s.Resize(100, em, 3.0); err != nil {
		t.Fatal(err)
	}

	before := make([]Particle, 100)
	for i := range before {
		before[i] = s.At(i)
	}

	if err := s.Resize(1000, em, 3.0); err != nil {
		t.Fatal(err)
	}
	if err := s.Resize(100, em, 3.0); err != nil {
		t.Fatal(err)
	}

	if s.Len() != 100 {
		t.Fatalf("expected 100 active, got %d", s.Len())
	}
	for i := range before {
		if s.At(i) != before[i] {
			t.Fatalf("slot %d changed across grow/shrink", i)
		}
	}
}

func TestStoreRegrowReinitializes(t *testing.T) {
	em := NewEmitter(3)
	s := NewStore(10)
	if err := s.Resize(10, em, 3.0); err != nil {
		t.Fatal(err)
	}
	s.Ref(9).Age = 5

	if err := s.Resize(1, em, 3.0); err != nil {
		t.Fatal(err)
	}
	if err := s.Resize(10, em, 3.0); err != nil {
		t.Fatal(err)
	}
	if got := s.At(9).Age; got != 0 {
		t.Errorf("regrown slot not re-emitted: age %f", got)
	}
}

func TestStoreResizeErrors(t *testing.T) {
	em := NewEmitter(4)
	s := NewStore(100)
	if err := s.Resize(10, em, 3.0); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		n    int
		want error
	}{
		{"zero", 0, ErrInvalidCount},
		{"negative", -5, ErrInvalidCount},
		{"over capacity", 101, ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Resize(tt.n, em, 3.0)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if s.Len() != 10 {
				t.Errorf("count changed to %d on rejected resize", s.Len())
			}
		})
	}
}

func TestStoreAtOutOfRange(t *testing.T) {
	em := NewEmitter(5)
	s := NewStore(10)
	if err := s.Resize(5, em, 3.0); err != nil {
		t.Fatal(err)
	}

	for _, i := range []int{-1, 5, 9} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("At(%d): expected panic", i)
				}
			}()
			s.At(i)
		}()
	}
}

func TestStoreReset(t *testing.T) {
	em := NewEmitter(6)
	s := NewStore(50)
	if err := s.Resize(50, em, 3.0); err != nil {
		t.Fatal(err)
	}
	integ := Integrator{}
	for i := 0; i < 20; i++ {
		integ.Step(s, em, DefaultParams())
	}

	s.Reset(em, 3.0)
	if s.Len() != 50 {
		t.Fatalf("reset changed count to %d", s.Len())
	}
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		if p.Age != 0 || p.Position.X != 0 || p.Position.Z != 0 {
			t.Fatalf("slot %d not re-emitted: %+v", i, p)
		}
	}
}

func TestStoreSnapshot(t *testing.T) {
	em := NewEmitter(7)
	s := NewStore(20)
	if err := s.Resize(20, em, 3.0); err != nil {
		t.Fatal(err)
	}

	buf := make([]Sample, 0, 4)
	buf = s.Snapshot(buf)
	if len(buf) != 20 {
		t.Fatalf("expected 20 samples, got %d", len(buf))
	}
	for i, smp := range buf {
		p := s.At(i)
		if smp.Position != p.Position || smp.Color != p.Color {
			t.Fatalf("sample %d does not match slot", i)
		}
	}

	buf[0].Position.Y = -100
	if s.At(0).Position.Y == -100 {
		t.Error("snapshot aliases store memory")
	}
}
