package reactor

import (
	"fmt"
	"math"

	"github.com/ctessum/unit"
)

// MoleDim is the amount-of-substance dimension used for site densities.
// The symbol "mol" is reserved in unit's dimension table, so the gram-mole
// spelling is registered instead.
var MoleDim = unit.NewDimension("gmol")

// Expected dimensions for reactor conditions.
var (
	Pascal        = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -2}
	PerMeter      = unit.Dimensions{unit.LengthDim: -1}
	MolPerSqMeter = unit.Dimensions{MoleDim: 1, unit.LengthDim: -2}
)

// fractionTolerance is the allowed deviation of fraction sums from one.
const fractionTolerance = 1e-6

// Conditions fixes the operating point of one reactor instance: isothermal,
// constant volume, fixed surface site density. Immutable after
// InitializeModel.
type Conditions struct {
	// T is the temperature, dimension K.
	T *unit.Unit

	// P0 is the initial gas pressure, dimension Pa.
	P0 *unit.Unit

	// InitialGasMoleFractions maps gas species labels to mole fractions
	// summing to one.
	InitialGasMoleFractions map[string]float64

	// InitialSurfaceCoverages maps adsorbate labels to coverage fractions
	// summing to one.
	InitialSurfaceCoverages map[string]float64

	// SurfaceVolumeRatio is the catalytic area per reactor volume, m^-1.
	SurfaceVolumeRatio *unit.Unit

	// SiteDensity is the surface site density, mol/m^2.
	SiteDensity *unit.Unit

	// SiteBalance, when set, replaces the last core surface species'
	// differential equation with the algebraic total-site constraint.
	SiteBalance bool
}

// HasSurface reports whether surface parameters are configured. A purely
// gas-phase mechanism may omit them.
func (c *Conditions) HasSurface() bool {
	return c.SurfaceVolumeRatio != nil && c.SiteDensity != nil
}

// Validate checks dimensions, positivity and fraction sums. It must pass
// before any integration begins.
func (c *Conditions) Validate() error {
	if c.T == nil || c.P0 == nil {
		return fmt.Errorf("%w: temperature and pressure are required", ErrConditions)
	}
	if len(c.InitialSurfaceCoverages) > 0 && !c.HasSurface() {
		return fmt.Errorf("%w: surface coverages require a surface/volume ratio and site density", ErrConditions)
	}
	if err := c.T.Check(unit.Kelvin); err != nil {
		return fmt.Errorf("%w: temperature: %v", ErrConditions, err)
	}
	if err := c.P0.Check(Pascal); err != nil {
		return fmt.Errorf("%w: pressure: %v", ErrConditions, err)
	}
	values := map[string]float64{
		"temperature": c.T.Value(),
		"pressure":    c.P0.Value(),
	}
	if c.SurfaceVolumeRatio != nil {
		if err := c.SurfaceVolumeRatio.Check(PerMeter); err != nil {
			return fmt.Errorf("%w: surface/volume ratio: %v", ErrConditions, err)
		}
		values["surface/volume ratio"] = c.SurfaceVolumeRatio.Value()
	}
	if c.SiteDensity != nil {
		if err := c.SiteDensity.Check(MolPerSqMeter); err != nil {
			return fmt.Errorf("%w: site density: %v", ErrConditions, err)
		}
		values["site density"] = c.SiteDensity.Value()
	}
	for name, v := range values {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrConditions, name, v)
		}
	}
	if len(c.InitialGasMoleFractions) == 0 {
		return fmt.Errorf("%w: initial gas mole fractions are required", ErrConditions)
	}
	if err := checkFractions("gas mole fractions", c.InitialGasMoleFractions); err != nil {
		return err
	}
	if len(c.InitialSurfaceCoverages) > 0 {
		if err := checkFractions("surface coverages", c.InitialSurfaceCoverages); err != nil {
			return err
		}
	}
	return nil
}

func checkFractions(name string, fractions map[string]float64) error {
	sum := 0.0
	for label, f := range fractions {
		if f < 0 {
			return fmt.Errorf("%w: negative %s for %s", ErrFractions, name, label)
		}
		sum += f
	}
	if math.Abs(sum-1) > fractionTolerance {
		return fmt.Errorf("%w: %s sum to %g", ErrFractions, name, sum)
	}
	return nil
}
