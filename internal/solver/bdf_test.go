package solver

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// decay is the scalar ODE ydot = -lambda*y in residual form.
type decay struct {
	lambda float64
}

func (d *decay) Dim() int { return 1 }

func (d *decay) Residual(t float64, y, ydot, f []float64) bool {
	f[0] = ydot[0] + d.lambda*y[0]
	return true
}

func (d *decay) Jacobian(t float64, y, ydot []float64, cj float64, dst *mat.Dense) {
	dst.Set(0, 0, d.lambda+cj)
}

// chain is the two-species system A -> B: conserves total mass exactly.
type chain struct {
	k float64
}

func (c *chain) Dim() int { return 2 }

func (c *chain) Residual(t float64, y, ydot, f []float64) bool {
	f[0] = ydot[0] + c.k*y[0]
	f[1] = ydot[1] - c.k*y[0]
	return true
}

func (c *chain) Jacobian(t float64, y, ydot []float64, cj float64, dst *mat.Dense) {
	dst.Set(0, 0, c.k+cj)
	dst.Set(0, 1, 0)
	dst.Set(1, 0, -c.k)
	dst.Set(1, 1, cj)
}

// constrained couples the decay ODE with the algebraic row y0 + y1 = 1.
type constrained struct{}

func (constrained) Dim() int { return 2 }

func (constrained) Residual(t float64, y, ydot, f []float64) bool {
	f[0] = ydot[0] + y[0]
	f[1] = y[0] + y[1] - 1
	return true
}

func (constrained) Jacobian(t float64, y, ydot []float64, cj float64, dst *mat.Dense) {
	dst.Set(0, 0, 1+cj)
	dst.Set(0, 1, 0)
	dst.Set(1, 0, 1)
	dst.Set(1, 1, 1)
}

func TestStepper_ExponentialDecay(t *testing.T) {
	sys := &decay{lambda: 10}
	s := New(sys, DefaultConfig())
	if err := s.Init(0, []float64{1}, []float64{-10}); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := s.Advance(1); err != nil {
		t.Fatalf("advance: %v", err)
	}

	expected := math.Exp(-10)
	got := s.Solution()[0]
	if math.Abs(got-expected)/expected > 1e-3 {
		t.Errorf("y(1): got %v, expected %v", got, expected)
	}
	if s.Time() != 1 {
		t.Errorf("time: got %v, expected 1", s.Time())
	}
}

func TestStepper_StiffDecay(t *testing.T) {
	// lambda*T = 1e4: an explicit method at the accepted step sizes would
	// blow up; the implicit stepper must stay bounded and accurate.
	sys := &decay{lambda: 1e4}
	s := New(sys, DefaultConfig())
	if err := s.Init(0, []float64{1}, []float64{-1e4}); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := s.Advance(1); err != nil {
		t.Fatalf("advance: %v", err)
	}

	got := s.Solution()[0]
	if math.Abs(got) > 1e-8 {
		t.Errorf("y(1): got %v, expected ~0", got)
	}
}

func TestStepper_MassConservation(t *testing.T) {
	sys := &chain{k: 100}
	s := New(sys, DefaultConfig())
	if err := s.Init(0, []float64{1, 0}, []float64{-100, 100}); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := s.Advance(0.1); err != nil {
		t.Fatalf("advance: %v", err)
	}

	y := s.Solution()
	expected := math.Exp(-100 * 0.1)
	if math.Abs(y[0]-expected)/expected > 1e-3 {
		t.Errorf("y0(0.1): got %v, expected %v", y[0], expected)
	}
	if total := y[0] + y[1]; math.Abs(total-1) > 1e-6 {
		t.Errorf("total mass: got %v, expected 1", total)
	}
}

func TestStepper_AlgebraicConstraint(t *testing.T) {
	s := New(constrained{}, DefaultConfig())
	// Consistent initialization: y1 = 1 - y0, derivative of the algebraic
	// variable is ignored by the residual.
	if err := s.Init(0, []float64{1, 0}, []float64{-1, 1}); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := s.Advance(1); err != nil {
		t.Fatalf("advance: %v", err)
	}

	y := s.Solution()
	expected := math.Exp(-1)
	if math.Abs(y[0]-expected)/expected > 1e-3 {
		t.Errorf("y0(1): got %v, expected %v", y[0], expected)
	}
	// The constraint must hold exactly at every accepted step.
	if math.Abs(y[0]+y[1]-1) > 1e-9 {
		t.Errorf("constraint violated: y0+y1 = %v", y[0]+y[1])
	}
}

func TestStepper_RepeatedAdvance(t *testing.T) {
	// Driving through intermediate targets must agree with one long span.
	sysA := &decay{lambda: 5}
	a := New(sysA, DefaultConfig())
	a.Init(0, []float64{1}, []float64{-5})
	for _, target := range []float64{0.1, 0.25, 0.5, 1} {
		if err := a.Advance(target); err != nil {
			t.Fatalf("advance to %v: %v", target, err)
		}
	}

	sysB := &decay{lambda: 5}
	b := New(sysB, DefaultConfig())
	b.Init(0, []float64{1}, []float64{-5})
	if err := b.Advance(1); err != nil {
		t.Fatalf("advance: %v", err)
	}

	ya, yb := a.Solution()[0], b.Solution()[0]
	if math.Abs(ya-yb)/yb > 1e-4 {
		t.Errorf("path dependence: %v vs %v", ya, yb)
	}
}

func TestStepper_AdvanceBackwardIsNoop(t *testing.T) {
	sys := &decay{lambda: 1}
	s := New(sys, DefaultConfig())
	s.Init(0, []float64{1}, []float64{-1})
	if err := s.Advance(1); err != nil {
		t.Fatalf("advance: %v", err)
	}
	y1 := s.Solution()[0]
	if err := s.Advance(0.5); err != nil {
		t.Fatalf("backward advance: %v", err)
	}
	if s.Solution()[0] != y1 || s.Time() != 1 {
		t.Error("backward target modified state")
	}
}

func TestStepper_Errors(t *testing.T) {
	sys := &decay{lambda: 1}
	s := New(sys, DefaultConfig())
	if err := s.Advance(1); err != ErrNotStarted {
		t.Errorf("got %v, expected ErrNotStarted", err)
	}
	if err := s.Init(0, []float64{1, 2}, []float64{0, 0}); err != ErrDimension {
		t.Errorf("got %v, expected ErrDimension", err)
	}
}

func TestStepper_NonNegative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NonNegative = true
	sys := &decay{lambda: 1e3}
	s := New(sys, cfg)
	s.Init(0, []float64{1e-10}, []float64{-1e-7})

	if err := s.Advance(1); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if y := s.Solution()[0]; y < 0 {
		t.Errorf("negative solution: %v", y)
	}
}

func TestStepper_Statistics(t *testing.T) {
	sys := &decay{lambda: 10}
	s := New(sys, DefaultConfig())
	s.Init(0, []float64{1}, []float64{-10})
	if err := s.Advance(1); err != nil {
		t.Fatalf("advance: %v", err)
	}

	stats := s.Stats()
	if stats.Steps == 0 {
		t.Error("no steps counted")
	}
	if stats.ResEvals == 0 || stats.JacEvals == 0 {
		t.Errorf("work counters empty: %+v", stats)
	}
}
