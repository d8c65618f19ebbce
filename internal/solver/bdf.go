package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// System is a differential-algebraic system integrated by the Stepper.
type System interface {
	// Dim is the length of the state vector.
	Dim() int

	// Residual evaluates F(t, y, ydot) into f. A false return marks the
	// evaluation as unusable (non-physical or non-finite state); the
	// stepper shrinks its step and retries.
	Residual(t float64, y, ydot, f []float64) bool

	// Jacobian writes dF/dy + cj*dF/dydot into dst.
	Jacobian(t float64, y, ydot []float64, cj float64, dst *mat.Dense)
}

// Solver errors. ErrStepTooSmall and ErrMaxSteps are the unrecoverable
// outcomes a driver maps to its failed state.
var (
	ErrStepTooSmall = errors.New("solver: step size underflow after repeated convergence failures")
	ErrMaxSteps     = errors.New("solver: step limit exceeded before reaching target time")
	ErrDimension    = errors.New("solver: dimension mismatch")
	ErrNotStarted   = errors.New("solver: Init must be called before Advance")
)

// Config tunes the stepper.
type Config struct {
	InitialStep float64 // first step size; 0 picks 1e-3 of the first span
	MinStep     float64 // step underflow threshold
	MaxStep     float64 // 0 means unlimited
	RelTol      float64
	AbsTol      float64
	MaxSteps    int // per Advance call
	MaxNewton   int // Newton iterations per step attempt
	MaxOrder    int // 1 or 2

	// NonNegative clamps roundoff-negative solution entries to zero after
	// each accepted step.
	NonNegative bool
}

func DefaultConfig() Config {
	return Config{
		MinStep:   1e-20,
		RelTol:    1e-8,
		AbsTol:    1e-16,
		MaxSteps:  50000,
		MaxNewton: 6,
		MaxOrder:  2,
	}
}

// Statistics counts work done across the stepper's lifetime.
type Statistics struct {
	Steps        int
	Rejected     int
	ConvFailures int
	ResEvals     int
	JacEvals     int
}

// Stepper integrates one System. Created by New, primed by Init, then
// driven forward monotonically with Advance.
type Stepper struct {
	sys System
	cfg Config
	n   int

	t     float64
	h     float64 // next step size to attempt
	hPrev float64 // last accepted step size
	nHist int     // history points available (1 after Init, 2 once stepping)

	y     []float64 // current solution
	yPrev []float64 // solution one step back
	ydot  []float64

	// scratch
	ycor, dcor, ypred, f, delta, w []float64
	jac                            *mat.Dense
	lu                             mat.LU

	stats   Statistics
	started bool
}

func New(sys System, cfg Config) *Stepper {
	n := sys.Dim()
	if cfg.MaxOrder < 1 || cfg.MaxOrder > 2 {
		cfg.MaxOrder = 2
	}
	if cfg.MaxNewton <= 0 {
		cfg.MaxNewton = 6
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 50000
	}
	return &Stepper{
		sys:   sys,
		cfg:   cfg,
		n:     n,
		y:     make([]float64, n),
		yPrev: make([]float64, n),
		ydot:  make([]float64, n),
		ycor:  make([]float64, n),
		dcor:  make([]float64, n),
		ypred: make([]float64, n),
		f:     make([]float64, n),
		delta: make([]float64, n),
		w:     make([]float64, n),
		jac:   mat.NewDense(n, n, nil),
	}
}

// Init sets the initial time, state and a consistent initial derivative.
// For algebraic rows the derivative entry is ignored by the residual and
// may be zero.
func (s *Stepper) Init(t0 float64, y0, ydot0 []float64) error {
	if len(y0) != s.n || len(ydot0) != s.n {
		return ErrDimension
	}
	s.t = t0
	copy(s.y, y0)
	copy(s.yPrev, y0)
	copy(s.ydot, ydot0)
	s.h = 0
	s.nHist = 1
	s.started = true
	return nil
}

// Time returns the current integration time.
func (s *Stepper) Time() float64 { return s.t }

// Solution returns the stepper's live solution slice, overwritten on every
// accepted step.
func (s *Stepper) Solution() []float64 { return s.y }

// Derivative returns the live derivative estimate at the current time.
func (s *Stepper) Derivative() []float64 { return s.ydot }

// Stats returns cumulative work counters.
func (s *Stepper) Stats() Statistics { return s.stats }

// Advance integrates forward until the internal time reaches target; the
// final step is clamped to land on it exactly. Repeated calls with
// increasing targets continue from the retained state.
func (s *Stepper) Advance(target float64) error {
	if !s.started {
		return ErrNotStarted
	}
	if target <= s.t {
		return nil
	}
	if s.h == 0 {
		s.h = s.cfg.InitialStep
		if s.h <= 0 {
			s.h = 1e-3 * (target - s.t)
		}
	}
	steps := 0
	for s.t < target {
		if steps >= s.cfg.MaxSteps {
			return ErrMaxSteps
		}
		steps++

		if s.cfg.MaxStep > 0 && s.h > s.cfg.MaxStep {
			s.h = s.cfg.MaxStep
		}
		final := false
		h := s.h
		if s.t+h >= target {
			h = target - s.t
			final = true
		}

		accepted, hNext, err := s.step(h)
		if err != nil {
			return err
		}
		if accepted {
			if final {
				s.t = target
			}
			if !final || hNext > s.h {
				s.h = hNext
			}
		} else {
			s.h = hNext
			if s.h < s.cfg.MinStep {
				return ErrStepTooSmall
			}
		}
	}
	return nil
}

// step attempts one BDF step of size h from the current state. It returns
// whether the step was accepted and the suggested next step size.
func (s *Stepper) step(h float64) (bool, float64, error) {
	order := s.nHist
	if order > s.cfg.MaxOrder {
		order = s.cfg.MaxOrder
	}

	// BDF derivative ydot_{n+1} = cj*y_{n+1} + beta (beta collects history).
	var cj float64
	switch order {
	case 1:
		cj = 1 / h
	default:
		h1 := s.hPrev
		cj = (2*h + h1) / (h * (h + h1))
	}

	// Predictor: explicit extrapolation along the current derivative.
	for i := 0; i < s.n; i++ {
		s.ypred[i] = s.y[i] + h*s.ydot[i]
		s.ycor[i] = s.ypred[i]
	}
	s.bdfDerivative(order, h, s.ycor, s.dcor)

	// Error weights from the pre-step state.
	for i := 0; i < s.n; i++ {
		s.w[i] = s.cfg.RelTol*math.Abs(s.y[i]) + s.cfg.AbsTol
	}

	tNew := s.t + h
	s.sys.Jacobian(tNew, s.ycor, s.dcor, cj, s.jac)
	s.stats.JacEvals++
	s.lu.Factorize(s.jac)

	converged := false
	for it := 0; it < s.cfg.MaxNewton; it++ {
		if !s.sys.Residual(tNew, s.ycor, s.dcor, s.f) {
			break
		}
		s.stats.ResEvals++
		fv := mat.NewVecDense(s.n, s.f)
		dv := mat.NewVecDense(s.n, s.delta)
		if err := s.lu.SolveVecTo(dv, false, fv); err != nil {
			// An ill-conditioned but usable factorization is reported as
			// mat.Condition; anything else means a singular iteration matrix.
			if _, ok := err.(mat.Condition); !ok {
				break
			}
		}
		norm := 0.0
		for i := 0; i < s.n; i++ {
			s.ycor[i] -= s.delta[i]
			r := s.delta[i] / s.w[i]
			norm += r * r
		}
		norm = math.Sqrt(norm / float64(s.n))
		s.bdfDerivative(order, h, s.ycor, s.dcor)
		if norm < 0.33 {
			converged = true
			break
		}
	}

	if !converged {
		s.stats.ConvFailures++
		return false, h * 0.25, nil
	}

	// Local error estimate from the predictor-corrector difference.
	est := 0.0
	for i := 0; i < s.n; i++ {
		r := (s.ycor[i] - s.ypred[i]) / s.w[i]
		est += r * r
	}
	est = math.Sqrt(est/float64(s.n)) / float64(order+1)

	if est > 1 {
		s.stats.Rejected++
		scale := math.Max(0.2, 0.9*math.Pow(est, -1/float64(order+1)))
		return false, h * scale, nil
	}

	// Accept.
	copy(s.yPrev, s.y)
	copy(s.y, s.ycor)
	copy(s.ydot, s.dcor)
	if s.cfg.NonNegative {
		for i := 0; i < s.n; i++ {
			if s.y[i] < 0 {
				s.y[i] = 0
			}
		}
	}
	s.t += h
	s.hPrev = h
	if s.nHist < 2 {
		s.nHist = 2
	}
	s.stats.Steps++

	scale := 10.0
	if est > 0 {
		scale = math.Min(10, 0.9*math.Pow(est, -1/float64(order+1)))
	}
	if scale < 0.2 {
		scale = 0.2
	}
	return true, h * scale, nil
}

// bdfDerivative fills dydt with the BDF approximation of the derivative at
// the trial solution ytrial for a step of size h.
func (s *Stepper) bdfDerivative(order int, h float64, ytrial, dydt []float64) {
	switch order {
	case 1:
		for i := 0; i < s.n; i++ {
			dydt[i] = (ytrial[i] - s.y[i]) / h
		}
	default:
		h1 := s.hPrev
		a0 := (2*h + h1) / (h * (h + h1))
		a1 := -(h + h1) / (h * h1)
		a2 := h / (h1 * (h + h1))
		for i := 0; i < s.n; i++ {
			dydt[i] = a0*ytrial[i] + a1*s.y[i] + a2*s.yPrev[i]
		}
	}
}
