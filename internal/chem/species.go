package chem

// Physical constants (SI).
const (
	// GasConstant is the molar gas constant in J/(mol*K).
	GasConstant = 8.314462618

	// RefPressure is the thermodynamic standard-state pressure in Pa.
	RefPressure = 1.0e5

	// RefTemperature is the thermodynamic reference temperature in K.
	RefTemperature = 298.15
)

// Species is a chemical species tracked by a reaction mechanism. A species
// is either gas-phase or an adsorbate bound to the catalytic surface.
type Species struct {
	Label string

	Thermo *ThermoData

	// Adsorbate marks a surface-bound species, including the bare site.
	Adsorbate bool

	// SitesOccupied is the number of surface sites the adsorbate blocks.
	// Zero means one.
	SitesOccupied int

	// MolecularWeight in kg/mol. Required for gas species taking part in
	// sticking-coefficient reactions, otherwise optional.
	MolecularWeight float64
}

// Occupancy returns the number of sites the species blocks, defaulting to 1
// for adsorbates with an unset SitesOccupied. Gas species occupy none.
func (s *Species) Occupancy() int {
	if !s.Adsorbate {
		return 0
	}
	if s.SitesOccupied <= 0 {
		return 1
	}
	return s.SitesOccupied
}

func (s *Species) String() string { return s.Label }
