package chem

import (
	"errors"
	"math"
	"sort"
)

// ErrThermoData indicates malformed heat-capacity tabulation.
var ErrThermoData = errors.New("chem: thermo data requires matching, ascending Tdata and Cpdata")

// ThermoData holds tabulated heat capacities with reference-state enthalpy
// and entropy. Cp is interpolated linearly between tabulated temperatures
// and held constant outside them, which makes the enthalpy and entropy
// integrals analytic per segment.
type ThermoData struct {
	Tdata  []float64 // K, ascending
	Cpdata []float64 // J/(mol*K)
	H298   float64   // J/mol at 298.15 K
	S298   float64   // J/(mol*K) at 298.15 K
}

// NewThermoData validates and returns a ThermoData.
func NewThermoData(tdata, cpdata []float64, h298, s298 float64) (*ThermoData, error) {
	if len(tdata) == 0 || len(tdata) != len(cpdata) || !sort.Float64sAreSorted(tdata) {
		return nil, ErrThermoData
	}
	return &ThermoData{Tdata: tdata, Cpdata: cpdata, H298: h298, S298: s298}, nil
}

// Cp returns the molar heat capacity at T in J/(mol*K).
func (td *ThermoData) Cp(T float64) float64 {
	n := len(td.Tdata)
	if T <= td.Tdata[0] {
		return td.Cpdata[0]
	}
	if T >= td.Tdata[n-1] {
		return td.Cpdata[n-1]
	}
	i := sort.SearchFloat64s(td.Tdata, T)
	// Tdata[i-1] < T <= Tdata[i]
	t0, t1 := td.Tdata[i-1], td.Tdata[i]
	c0, c1 := td.Cpdata[i-1], td.Cpdata[i]
	return c0 + (c1-c0)*(T-t0)/(t1-t0)
}

// Enthalpy returns H(T) in J/mol.
func (td *ThermoData) Enthalpy(T float64) float64 {
	return td.H298 + td.integrate(RefTemperature, T, false)
}

// Entropy returns S(T) in J/(mol*K).
func (td *ThermoData) Entropy(T float64) float64 {
	return td.S298 + td.integrate(RefTemperature, T, true)
}

// FreeEnergy returns the Gibbs free energy G(T) = H - T*S in J/mol.
func (td *ThermoData) FreeEnergy(T float64) float64 {
	return td.Enthalpy(T) - T*td.Entropy(T)
}

// integrate computes the integral of Cp dT (or Cp/T dT when overT is set)
// from a to b, walking the linear segments of the tabulation.
func (td *ThermoData) integrate(a, b float64, overT bool) float64 {
	if a == b {
		return 0
	}
	sign := 1.0
	if a > b {
		a, b = b, a
		sign = -1.0
	}
	total := 0.0
	lo := a
	for lo < b {
		hi := b
		for _, t := range td.Tdata {
			if t > lo && t < hi {
				hi = t
				break
			}
		}
		c0, c1 := td.Cp(lo), td.Cp(hi)
		if overT {
			// Cp = slope*T + intercept on this segment.
			slope := 0.0
			if hi > lo {
				slope = (c1 - c0) / (hi - lo)
			}
			intercept := c0 - slope*lo
			total += intercept*math.Log(hi/lo) + slope*(hi-lo)
		} else {
			total += 0.5 * (c0 + c1) * (hi - lo)
		}
		lo = hi
	}
	return sign * total
}
