// Package study runs batch sensitivity sweeps: many independent reactor
// instances integrated in parallel, each with one reaction's
// pre-exponential factor perturbed, yielding normalized sensitivity
// coefficients of the final composition with respect to every rate
// coefficient. Reactor instances share nothing, so runs are embarrassingly
// parallel.
package study

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/surfkin/internal/chem"
	"github.com/san-kum/surfkin/internal/reactor"
)

// Mechanism bundles the species and reactions a sweep builds its reactors
// from.
type Mechanism struct {
	CoreSpecies   []*chem.Species
	CoreReactions []*chem.Reaction
	EdgeSpecies   []*chem.Species
	EdgeReactions []*chem.Reaction
}

// Config tunes a sweep.
type Config struct {
	// Perturbation is the relative change applied to each reaction's
	// pre-exponential factor. Default 1e-3.
	Perturbation float64

	// EndTime is the integration horizon in seconds.
	EndTime float64
}

// Sensitivity holds the normalized sensitivity of every core species'
// final amount to one reaction's rate coefficient:
// (dy_i/y_i) / (dk_j/k_j).
type Sensitivity struct {
	Reaction     int
	Coefficients []float64
}

// Sweep runs one-at-a-time perturbations over the core reactions.
type Sweep struct {
	conditions reactor.Conditions
	mech       Mechanism
	cfg        Config
}

func New(conditions reactor.Conditions, mech Mechanism, cfg Config) *Sweep {
	if cfg.Perturbation <= 0 {
		cfg.Perturbation = 1e-3
	}
	return &Sweep{conditions: conditions, mech: mech, cfg: cfg}
}

// Run integrates the base mechanism plus one perturbed copy per core
// reaction, all in parallel, and returns per-reaction sensitivities.
func (s *Sweep) Run(ctx context.Context) ([]Sensitivity, error) {
	if s.cfg.EndTime <= 0 {
		return nil, fmt.Errorf("study: end time must be positive")
	}
	base, err := s.runOnce(ctx, s.mech.CoreReactions)
	if err != nil {
		return nil, fmt.Errorf("study: base run: %w", err)
	}

	n := len(s.mech.CoreReactions)
	out := make([]Sensitivity, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for j := 0; j < n; j++ {
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			perturbed, err := s.perturbedReactions(j)
			if err != nil {
				errs[j] = err
				return
			}
			final, err := s.runOnce(ctx, perturbed)
			if err != nil {
				errs[j] = err
				return
			}
			coeffs := make([]float64, len(base))
			for i := range base {
				if base[i] != 0 {
					coeffs[i] = (final[i] - base[i]) / base[i] / s.cfg.Perturbation
				}
			}
			out[j] = Sensitivity{Reaction: j, Coefficients: coeffs}
		}(j)
	}
	wg.Wait()

	for j, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("study: reaction %d: %w", j, err)
		}
	}
	return out, nil
}

// perturbedReactions copies the core reaction list with reaction j's
// pre-exponential factor scaled by (1 + perturbation). Species pointers
// are shared; they are read-only during integration.
func (s *Sweep) perturbedReactions(j int) ([]*chem.Reaction, error) {
	scalable, ok := s.mech.CoreReactions[j].Kinetics.(chem.Scalable)
	if !ok {
		return nil, fmt.Errorf("kinetics of %s cannot be scaled", s.mech.CoreReactions[j])
	}
	out := make([]*chem.Reaction, len(s.mech.CoreReactions))
	copy(out, s.mech.CoreReactions)
	clone := *s.mech.CoreReactions[j]
	clone.Kinetics = scalable.Scaled(1 + s.cfg.Perturbation)
	out[j] = &clone
	return out, nil
}

func (s *Sweep) runOnce(ctx context.Context, coreReactions []*chem.Reaction) (reactor.State, error) {
	r := reactor.New(s.conditions, []reactor.TerminationCriterion{
		reactor.TerminationTime{Time: s.cfg.EndTime},
	})
	if err := r.InitializeModel(s.mech.CoreSpecies, coreReactions, s.mech.EdgeSpecies, s.mech.EdgeReactions); err != nil {
		return nil, err
	}
	res, err := r.Simulate(ctx, reactor.SimulateOptions{InitialTime: s.cfg.EndTime / 1e6})
	if err != nil {
		return nil, err
	}
	return res.States[len(res.States)-1], nil
}
