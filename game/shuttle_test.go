package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestIntegrateAppliesFrictionOncePerCall(t *testing.T) {
	p := DefaultConfig().Physics
	for _, dt := range []float64{0, 1.0 / 60, 0.5, 2} {
		s := NewShuttle(10, Vec2{100, 100})
		s.Vel = Vec2{100, 0}
		s.Integrate(dt, p)

		if math.Abs(s.Vel.X-99.5) > 1e-9 {
			t.Errorf("dt=%v: expected vx 99.5 after one decay, got %v", dt, s.Vel.X)
		}
		if want := 100 + 99.5*dt; math.Abs(s.Pos.X-want) > 1e-9 {
			t.Errorf("dt=%v: expected x %v, got %v", dt, want, s.Pos.X)
		}
	}
}

func TestIntegrateHasNoGravity(t *testing.T) {
	s := NewShuttle(10, Vec2{50, 50})
	for i := 0; i < 120; i++ {
		s.Integrate(1.0/60, DefaultConfig().Physics)
	}
	if s.Pos != (Vec2{50, 50}) || s.Vel != (Vec2{}) {
		t.Errorf("resting shuttle moved: pos=%v vel=%v", s.Pos, s.Vel)
	}
}

func TestIntegrateClampsSpeed(t *testing.T) {
	p := DefaultConfig().Physics
	cases := []struct {
		name string
		vel  Vec2
		dt   float64
	}{
		{"below max", Vec2{100, -200}, 1.0 / 60},
		{"just above", Vec2{0, 523}, 1.0 / 60},
		{"diagonal smash", Vec2{360, -600}, 1.0 / 60},
		{"huge", Vec2{-1e6, 1e6}, 0.1},
		{"zero dt", Vec2{900, 900}, 0},
		{"long frame", Vec2{3000, 10}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewShuttle(10, Vec2{})
			s.Vel = tc.vel
			dir := tc.vel.Norm()
			s.Integrate(tc.dt, p)

			if sp := s.Speed(); sp > p.MaxShuttleSpeed {
				t.Errorf("speed %v exceeds max %v", sp, p.MaxShuttleSpeed)
			}
			got := s.Vel.Norm()
			if math.Abs(got.X-dir.X) > 1e-9 || math.Abs(got.Y-dir.Y) > 1e-9 {
				t.Errorf("direction changed: %v -> %v", dir, got)
			}
			if tc.vel.Len()*p.Friction > p.MaxShuttleSpeed && math.Abs(s.Speed()-p.MaxShuttleSpeed) > 1e-9 {
				t.Errorf("clamped speed should equal max, got %v", s.Speed())
			}
		})
	}
}

func TestIntegrateNeverExceedsMaxSpeed(t *testing.T) {
	p := DefaultConfig().Physics
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50000; i++ {
		s := NewShuttle(10, Vec2{})
		s.Vel = Vec2{(rng.Float64()*2 - 1) * 5000, (rng.Float64()*2 - 1) * 5000}
		s.Integrate(1.0/60, p)
		if sp := s.Speed(); sp > p.MaxShuttleSpeed {
			t.Fatalf("case %d: speed %v exceeds max %v by %g", i, sp, p.MaxShuttleSpeed, sp-p.MaxShuttleSpeed)
		}
	}
}

func TestShuttleReset(t *testing.T) {
	s := NewShuttle(10, Vec2{})
	s.Vel = Vec2{3, 4}
	s.Reset(Vec2{7, 8})
	if s.Pos != (Vec2{7, 8}) || s.Speed() != 0 {
		t.Errorf("reset failed: %+v", s)
	}
}
