package reactor

import (
	"math"

	"github.com/san-kum/surfkin/internal/chem"
)

// power is one distinct species taking part in a reaction side with its
// multiplicity.
type power struct {
	index int
	count int
}

// reactionTerm is the precomputed evaluation form of one reaction: distinct
// participants with multiplicities, net stoichiometry, rate coefficients at
// the (fixed) reactor temperature, and the area-to-volume scaling for
// surface reactions. Rate coefficients are recomputed only when the model
// is (re)initialized, since T and P are constant for a reactor's lifetime.
type reactionTerm struct {
	reactants []power
	products  []power
	net       []power // products minus reactants, zero entries dropped

	kf    float64 // forward coefficient
	krev  float64 // reverse coefficient, 0 if irreversible
	kcInv float64 // 1/Kc, 0 if irreversible
	scale float64 // surfaceVolumeRatio for surface reactions, else 1
}

func (r *Reactor) buildTerm(rxn *chem.Reaction) reactionTerm {
	term := reactionTerm{
		reactants: collectPowers(rxn.Reactants, r.speciesIndex),
		products:  collectPowers(rxn.Products, r.speciesIndex),
		scale:     1,
	}
	if rxn.IsSurface() {
		term.scale = r.svRatio
	}

	net := make(map[int]int)
	for _, p := range term.products {
		net[p.index] += p.count
	}
	for _, p := range term.reactants {
		net[p.index] -= p.count
	}
	for i := 0; i < r.speciesIndex.Len(); i++ {
		if n := net[i]; n != 0 {
			term.net = append(term.net, power{index: i, count: n})
		}
	}

	term.kf = rxn.Kinetics.Coefficient(r.T, r.P0)
	if rxn.Reversible {
		kc := rxn.ConcentrationEquilibrium(r.T, r.siteDensity)
		term.kcInv = 1 / kc
		term.krev = term.kf * term.kcInv
	}
	return term
}

func collectPowers(side []*chem.Species, ix *SpeciesIndex) []power {
	counts := make(map[int]int)
	var order []int
	for _, sp := range side {
		i, _ := ix.Lookup(sp)
		if counts[i] == 0 {
			order = append(order, i)
		}
		counts[i]++
	}
	powers := make([]power, 0, len(order))
	for _, i := range order {
		powers = append(powers, power{index: i, count: counts[i]})
	}
	return powers
}

// computeConcentrations fills r.conc from the core amounts y. Gas species
// use molar concentration y/V (mol/m^3), adsorbates use surface
// concentration y/A (mol/m^2). Edge species carry no amount and evaluate
// to zero.
func (r *Reactor) computeConcentrations(y []float64) {
	for i := range r.conc {
		r.conc[i] = 0
	}
	for i := 0; i < r.numCore; i++ {
		r.conc[i] = y[i] * r.dCdy[i]
	}
}

// computeRates evaluates each core reaction's net volumetric rate and
// accumulates core species production rates, writing into the reactor's
// scratch slices. Pure in its inputs: the same y always yields the same
// rates. Edge reactions are candidates, not part of the integrated
// dynamics; they never contribute here.
func (r *Reactor) computeRates(y []float64) {
	r.computeConcentrations(y)
	for i := range r.spcRates {
		r.spcRates[i] = 0
	}
	for j := 0; j < r.reactionIndex.NumCore(); j++ {
		term := &r.terms[j]
		rate, _, _ := r.evalTerm(term)
		r.rxnRates[j] = rate
		for _, n := range term.net {
			r.spcRates[n.index] += float64(n.count) * rate
		}
	}
}

// computeEdgeRates evaluates the candidate edge reactions at the current
// concentrations, recording their rates and the flux they would feed into
// edge species. Called after computeRates; contributions to core species
// are discarded so the integrated rows stay untouched.
func (r *Reactor) computeEdgeRates() {
	for j := r.reactionIndex.NumCore(); j < len(r.terms); j++ {
		term := &r.terms[j]
		rate, _, _ := r.evalTerm(term)
		r.rxnRates[j] = rate
		for _, n := range term.net {
			if n.index >= r.numCore {
				r.spcRates[n.index] += float64(n.count) * rate
			}
		}
	}
}

// evalTerm returns the net volumetric rate of one reaction along with the
// raw forward and reverse concentration products (without coefficients),
// which the sensitivity computation reuses.
func (r *Reactor) evalTerm(term *reactionTerm) (rate, prodF, prodR float64) {
	prodF = 1
	for _, p := range term.reactants {
		prodF *= pow(r.conc[p.index], p.count)
	}
	rate = term.kf * prodF
	if term.krev != 0 {
		prodR = 1
		for _, p := range term.products {
			prodR *= pow(r.conc[p.index], p.count)
		}
		rate -= term.krev * prodR
	}
	return rate * term.scale, prodF, prodR
}

// pow computes c^n for small integer multiplicities without math.Pow.
func pow(c float64, n int) float64 {
	switch n {
	case 0:
		return 1
	case 1:
		return c
	case 2:
		return c * c
	case 3:
		return c * c * c
	}
	return math.Pow(c, float64(n))
}
