package reactor

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/surfkin/internal/chem"
	"github.com/san-kum/surfkin/internal/solver"
)

// Status is the reactor driver's lifecycle state.
type Status int

const (
	StatusUninitialized Status = iota
	StatusInitialized
	StatusAdvancing
	StatusTerminated
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitialized:
		return "initialized"
	case StatusAdvancing:
		return "advancing"
	case StatusTerminated:
		return "terminated"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Reactor owns one integration: the species/reaction indices, the state
// vector, the stepper handle, and the rate caches refreshed after each
// successful advance. One reactor per state vector; nothing is shared
// across instances.
type Reactor struct {
	conditions  Conditions
	termination []TerminationCriterion

	status Status

	speciesIndex  *SpeciesIndex
	reactionIndex *ReactionIndex

	// SI scalars fixed at initialization.
	T, P0, svRatio, siteDensity float64
	V, area, totalSites         float64

	negTol  float64
	siteRow int // algebraic row index, -1 when disabled
	numCore int

	t  float64
	y  State
	y0 State

	terms []reactionTerm
	dCdy  []float64 // dC_i/dy_i: 1/V for gas, 1/area for adsorbates
	conc  []float64
	// scratch rates over all indexed reactions/species
	rxnRates []float64
	spcRates []float64

	coreReactionRates []float64
	coreSpeciesRates  []float64
	edgeReactionRates []float64
	edgeSpeciesRates  []float64

	stepper   *solver.Stepper
	solverCfg solver.Config
}

// New creates a reactor in the Uninitialized state. Conditions are fixed
// for the reactor's lifetime once InitializeModel succeeds.
func New(conditions Conditions, termination []TerminationCriterion) *Reactor {
	cfg := solver.DefaultConfig()
	cfg.NonNegative = true
	return &Reactor{
		conditions:  conditions,
		termination: termination,
		siteRow:     -1,
		solverCfg:   cfg,
	}
}

// SetSolverConfig replaces the stepper configuration. Must be called
// before InitializeModel.
func (r *Reactor) SetSolverConfig(cfg solver.Config) { r.solverCfg = cfg }

// AddTermination appends a termination criterion. Criteria may be added
// after initialization, before or between Simulate calls.
func (r *Reactor) AddTermination(c TerminationCriterion) {
	r.termination = append(r.termination, c)
}

// InitializeModel validates the conditions, builds the indices, populates
// the initial state vector and primes the stepper with the residual and
// Jacobian callbacks. Uninitialized -> Initialized.
func (r *Reactor) InitializeModel(coreSpecies []*chem.Species, coreReactions []*chem.Reaction, edgeSpecies []*chem.Species, edgeReactions []*chem.Reaction) error {
	if r.status != StatusUninitialized {
		return ErrAlreadyInitialized
	}
	if err := r.conditions.Validate(); err != nil {
		return err
	}
	spix, err := BuildSpeciesIndex(coreSpecies, edgeSpecies)
	if err != nil {
		return err
	}
	rxix, err := BuildReactionIndex(coreReactions, edgeReactions, spix)
	if err != nil {
		return err
	}
	// Core reactions must close over core species; only edge reactions may
	// touch edge species.
	for j := 0; j < rxix.NumCore(); j++ {
		rxn := rxix.At(j)
		for _, sp := range append(append([]*chem.Species{}, rxn.Reactants...), rxn.Products...) {
			if i, _ := spix.Lookup(sp); !spix.IsCore(i) {
				return fmt.Errorf("%w: core reaction %s references edge species %s", ErrUnknownSpecies, rxn, sp.Label)
			}
		}
	}
	r.speciesIndex = spix
	r.reactionIndex = rxix
	r.numCore = spix.NumCore()

	r.T = r.conditions.T.Value()
	r.P0 = r.conditions.P0.Value()
	if r.conditions.HasSurface() {
		r.svRatio = r.conditions.SurfaceVolumeRatio.Value()
		r.siteDensity = r.conditions.SiteDensity.Value()
	} else {
		for i := 0; i < spix.Len(); i++ {
			if spix.At(i).Adsorbate {
				return fmt.Errorf("%w: surface species %s requires a surface/volume ratio and site density", ErrConditions, spix.At(i).Label)
			}
		}
	}

	// The initial gas mole fractions are taken as molar amounts directly
	// (one mole of gas total), which fixes the constant reactor volume.
	r.V = chem.GasConstant * r.T / r.P0
	r.area = r.V * r.svRatio
	r.totalSites = r.siteDensity * r.area

	r.y = make(State, r.numCore)
	if err := r.populateInitialState(); err != nil {
		return err
	}
	r.y0 = r.y.Clone()
	r.negTol = 1e-6 * math.Max(1, r.y.Total())

	total := spix.Len()
	r.dCdy = make([]float64, total)
	for i := 0; i < total; i++ {
		if spix.At(i).Adsorbate {
			r.dCdy[i] = 1 / r.area
		} else {
			r.dCdy[i] = 1 / r.V
		}
	}
	r.conc = make([]float64, total)
	r.terms = make([]reactionTerm, rxix.Len())
	for j := 0; j < rxix.Len(); j++ {
		r.terms[j] = r.buildTerm(rxix.At(j))
	}
	r.rxnRates = make([]float64, rxix.Len())
	r.spcRates = make([]float64, total)
	r.coreReactionRates = make([]float64, rxix.NumCore())
	r.coreSpeciesRates = make([]float64, r.numCore)
	r.edgeReactionRates = make([]float64, rxix.Len()-rxix.NumCore())
	r.edgeSpeciesRates = make([]float64, total-r.numCore)

	if r.conditions.SiteBalance {
		for i := r.numCore - 1; i >= 0; i-- {
			if spix.At(i).Adsorbate {
				r.siteRow = i
				break
			}
		}
		if r.siteRow < 0 {
			return fmt.Errorf("%w: site balance requires at least one core surface species", ErrConditions)
		}
	}

	// Consistent initial derivative: ydot = speciesRate*V on differential
	// rows; the algebraic row's entry is unused.
	r.computeRates(r.y)
	ydot0 := make([]float64, r.numCore)
	for i := 0; i < r.numCore; i++ {
		ydot0[i] = r.spcRates[i] * r.V
	}
	if r.siteRow >= 0 {
		ydot0[r.siteRow] = 0
	}

	r.stepper = solver.New(r, r.solverCfg)
	if err := r.stepper.Init(0, r.y, ydot0); err != nil {
		return err
	}
	// Track the stepper's live solution so advances mutate in place.
	r.y = State(r.stepper.Solution())
	r.t = 0
	r.refreshRates()
	r.status = StatusInitialized
	return nil
}

func (r *Reactor) populateInitialState() error {
	for label, frac := range r.conditions.InitialGasMoleFractions {
		i, ok := r.speciesIndex.LookupLabel(label)
		if !ok || !r.speciesIndex.IsCore(i) {
			return fmt.Errorf("%w: gas mole fraction for %s", ErrUnknownSpecies, label)
		}
		sp := r.speciesIndex.At(i)
		if sp.Adsorbate {
			return fmt.Errorf("%w: %s is a surface species but has a gas mole fraction", ErrConditions, label)
		}
		r.y[i] = frac
	}
	for label, frac := range r.conditions.InitialSurfaceCoverages {
		i, ok := r.speciesIndex.LookupLabel(label)
		if !ok || !r.speciesIndex.IsCore(i) {
			return fmt.Errorf("%w: surface coverage for %s", ErrUnknownSpecies, label)
		}
		sp := r.speciesIndex.At(i)
		if !sp.Adsorbate {
			return fmt.Errorf("%w: %s is a gas species but has a surface coverage", ErrConditions, label)
		}
		r.y[i] = frac * r.totalSites / float64(sp.Occupancy())
	}
	return nil
}

// Dim implements solver.System.
func (r *Reactor) Dim() int { return r.numCore }

// Advance drives the stepper until the reactor time reaches target,
// overwriting the state vector in place and refreshing the cached reaction
// and species rates. Unrecoverable stepper errors move the reactor to
// Failed.
func (r *Reactor) Advance(target float64) error {
	switch r.status {
	case StatusUninitialized:
		return ErrNotInitialized
	case StatusFailed:
		return ErrSimulationFailed
	}
	r.status = StatusAdvancing
	if err := r.stepper.Advance(target); err != nil {
		r.status = StatusFailed
		return fmt.Errorf("%w: advance to t=%g: %v", ErrSimulationFailed, target, err)
	}
	r.t = r.stepper.Time()
	r.refreshRates()
	return nil
}

// refreshRates recomputes and caches core and edge rates at the current
// state for inspection between advances.
func (r *Reactor) refreshRates() {
	r.computeRates(r.y)
	r.computeEdgeRates()
	ncr := r.reactionIndex.NumCore()
	copy(r.coreReactionRates, r.rxnRates[:ncr])
	copy(r.edgeReactionRates, r.rxnRates[ncr:])
	copy(r.coreSpeciesRates, r.spcRates[:r.numCore])
	copy(r.edgeSpeciesRates, r.spcRates[r.numCore:])
}

// Time returns the current reactor time in seconds.
func (r *Reactor) Time() float64 { return r.t }

// Y returns the live state vector, overwritten on every Advance. Clone to
// retain history.
func (r *Reactor) Y() State { return r.y }

// Status returns the driver state.
func (r *Reactor) Status() Status { return r.status }

// CoreReactionRates returns the cached net volumetric rate of every core
// reaction at the last advanced state (mol/(m^3*s)). The slice is reused;
// copy to retain.
func (r *Reactor) CoreReactionRates() []float64 { return r.coreReactionRates }

// CoreSpeciesRates returns the cached net production rate of every core
// species (mol/(m^3*s)). The slice is reused; copy to retain.
func (r *Reactor) CoreSpeciesRates() []float64 { return r.coreSpeciesRates }

// EdgeReactionRates returns the cached rates of edge reactions.
func (r *Reactor) EdgeReactionRates() []float64 { return r.edgeReactionRates }

// EdgeSpeciesRates returns the cached production rates of edge species.
func (r *Reactor) EdgeSpeciesRates() []float64 { return r.edgeSpeciesRates }

// Species returns the species index.
func (r *Reactor) Species() *SpeciesIndex { return r.speciesIndex }

// Reactions returns the reaction index.
func (r *Reactor) Reactions() *ReactionIndex { return r.reactionIndex }

// Temperature returns the isothermal operating temperature in K.
func (r *Reactor) Temperature() float64 { return r.T }

// Pressure returns the initial gas pressure in Pa.
func (r *Reactor) Pressure() float64 { return r.P0 }

// Volume returns the fixed reactor volume in m^3.
func (r *Reactor) Volume() float64 { return r.V }

// SurfaceArea returns the catalytic area in m^2.
func (r *Reactor) SurfaceArea() float64 { return r.area }

// TotalSites returns the molar amount of surface sites.
func (r *Reactor) TotalSites() float64 { return r.totalSites }

// Coverage returns the occupancy-weighted site fraction held by core
// species i (zero for gas species).
func (r *Reactor) Coverage(i int) float64 {
	sp := r.speciesIndex.At(i)
	if !sp.Adsorbate {
		return 0
	}
	return float64(sp.Occupancy()) * r.y[i] / r.totalSites
}

// SimulateOptions shapes the sampling grid Simulate walks: a geometric
// sequence of target times from InitialTime, multiplied by StepFactor
// after each sample.
type SimulateOptions struct {
	InitialTime float64 // default 1e-12 s
	StepFactor  float64 // default 10^0.1
	MaxSamples  int     // default 10000
}

func (o *SimulateOptions) setDefaults() {
	if o.InitialTime <= 0 {
		o.InitialTime = 1e-12
	}
	if o.StepFactor <= 1 {
		o.StepFactor = math.Pow(10, 0.1)
	}
	if o.MaxSamples <= 0 {
		o.MaxSamples = 10000
	}
}

// Result is the recorded trajectory of one Simulate call. All entries are
// copies, safe to retain.
type Result struct {
	Times         []float64
	States        []State
	ReactionRates [][]float64
	SpeciesRates  [][]float64
	Status        Status
	SolverSteps   int
}

// Simulate advances the reactor over a geometric time grid, recording each
// sample and evaluating the termination criteria after every step. It
// stops at the first satisfied criterion (Terminated), on stepper failure
// (Failed), or when the sample budget runs out.
func (r *Reactor) Simulate(ctx context.Context, opts SimulateOptions) (*Result, error) {
	if r.status == StatusUninitialized {
		return nil, ErrNotInitialized
	}
	if len(r.termination) == 0 {
		return nil, ErrNoTermination
	}
	opts.setDefaults()

	res := &Result{}
	record := func() {
		res.Times = append(res.Times, r.t)
		res.States = append(res.States, r.y.Clone())
		res.ReactionRates = append(res.ReactionRates, append([]float64(nil), r.coreReactionRates...))
		res.SpeciesRates = append(res.SpeciesRates, append([]float64(nil), r.coreSpeciesRates...))
	}
	record()

	// Never step past the earliest time criterion, so time termination is
	// exact rather than overshot.
	tStop := math.Inf(1)
	for _, c := range r.termination {
		if tc, ok := c.(TerminationTime); ok && tc.Time < tStop {
			tStop = tc.Time
		}
	}

	target := opts.InitialTime
	if r.t > 0 {
		target = r.t * opts.StepFactor
	}
	for i := 0; i < opts.MaxSamples; i++ {
		select {
		case <-ctx.Done():
			res.Status = r.status
			res.SolverSteps = r.stepper.Stats().Steps
			return res, ctx.Err()
		default:
		}
		if target > tStop {
			target = tStop
		}
		if err := r.Advance(target); err != nil {
			res.Status = r.status
			res.SolverSteps = r.stepper.Stats().Steps
			return res, err
		}
		record()
		if crit := r.satisfiedCriterion(); crit != nil {
			r.status = StatusTerminated
			res.Status = r.status
			res.SolverSteps = r.stepper.Stats().Steps
			return res, nil
		}
		target *= opts.StepFactor
	}
	res.Status = r.status
	res.SolverSteps = r.stepper.Stats().Steps
	return res, nil
}

// satisfiedCriterion returns the first termination criterion met at the
// current state, or nil.
func (r *Reactor) satisfiedCriterion() TerminationCriterion {
	for _, c := range r.termination {
		switch c := c.(type) {
		case TerminationTime:
			if r.t >= c.Time {
				return c
			}
		case TerminationConversion:
			i, ok := r.speciesIndex.LookupLabel(c.Species)
			if !ok || !r.speciesIndex.IsCore(i) || r.y0[i] == 0 {
				continue
			}
			if 1-r.y[i]/r.y0[i] >= c.Conversion {
				return c
			}
		}
	}
	return nil
}
