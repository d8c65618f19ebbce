// Package config loads reactor mechanisms and operating conditions from
// yaml. Quantities carry unit strings converted to SI at load time, with
// dimensions checked against what the reactor expects.
package config

import (
	"fmt"
	"os"

	"github.com/ctessum/unit"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/surfkin/internal/chem"
	"github.com/san-kum/surfkin/internal/reactor"
)

// Quantity is a value with a unit string, e.g. {value: 2.72e-9, units: mol/cm^2}.
type Quantity struct {
	Value float64 `yaml:"value"`
	Units string  `yaml:"units"`
}

// QuantityList is a list of values sharing one unit string.
type QuantityList struct {
	Values []float64 `yaml:"values"`
	Units  string    `yaml:"units"`
}

type ThermoConfig struct {
	Tdata  QuantityList `yaml:"tdata"`
	Cpdata QuantityList `yaml:"cpdata"`
	H298   Quantity     `yaml:"h298"`
	S298   Quantity     `yaml:"s298"`
}

type SpeciesConfig struct {
	Label           string        `yaml:"label"`
	Adsorbate       bool          `yaml:"adsorbate"`
	SitesOccupied   int           `yaml:"sites_occupied"`
	MolecularWeight *Quantity     `yaml:"molecular_weight"`
	Thermo          *ThermoConfig `yaml:"thermo"`
	Edge            bool          `yaml:"edge"`
}

type ReactionConfig struct {
	Reactants  []string `yaml:"reactants"`
	Products   []string `yaml:"products"`
	Reversible bool     `yaml:"reversible"`
	Type       string   `yaml:"type"` // arrhenius | surface-arrhenius | sticking
	A          float64  `yaml:"a"`    // SI, units set by molecularity
	N          float64  `yaml:"n"`
	Ea         Quantity `yaml:"ea"`
	T0         Quantity `yaml:"t0"`
	Edge       bool     `yaml:"edge"`
}

type SimulationConfig struct {
	InitialTime    Quantity           `yaml:"initial_time"`
	EndTime        Quantity           `yaml:"end_time"`
	StepFactor     float64            `yaml:"step_factor"`
	ConversionStop []ConversionConfig `yaml:"conversion_termination"`
}

type ConversionConfig struct {
	Species    string  `yaml:"species"`
	Conversion float64 `yaml:"conversion"`
}

type Config struct {
	Temperature        Quantity  `yaml:"temperature"`
	Pressure           Quantity  `yaml:"pressure"`
	SurfaceVolumeRatio *Quantity `yaml:"surface_volume_ratio"`
	SiteDensity        *Quantity `yaml:"site_density"`
	SiteBalance        bool      `yaml:"site_balance"`

	Species   []SpeciesConfig  `yaml:"species"`
	Reactions []ReactionConfig `yaml:"reactions"`

	InitialGasMoleFractions map[string]float64 `yaml:"initial_gas_mole_fractions"`
	InitialSurfaceCoverages map[string]float64 `yaml:"initial_surface_coverages"`

	Simulation SimulationConfig `yaml:"simulation"`
}

// Load reads a yaml mechanism file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Model is the built, SI-consistent form of a Config, ready to initialize
// a reactor.
type Model struct {
	Conditions    reactor.Conditions
	CoreSpecies   []*chem.Species
	CoreReactions []*chem.Reaction
	EdgeSpecies   []*chem.Species
	EdgeReactions []*chem.Reaction
	Termination   []reactor.TerminationCriterion
	Options       reactor.SimulateOptions
	EndTime       float64
}

// Build converts the configuration to chem and reactor objects, converting
// all quantities to SI.
func (c *Config) Build() (*Model, error) {
	m := &Model{}

	tval, err := toSI(c.Temperature, "K")
	if err != nil {
		return nil, err
	}
	pval, err := toSI(c.Pressure, "Pa")
	if err != nil {
		return nil, err
	}
	m.Conditions = reactor.Conditions{
		T:                       unit.New(tval, unit.Kelvin),
		P0:                      unit.New(pval, reactor.Pascal),
		InitialGasMoleFractions: c.InitialGasMoleFractions,
		InitialSurfaceCoverages: c.InitialSurfaceCoverages,
		SiteBalance:             c.SiteBalance,
	}
	siteDensity := 0.0
	if c.SurfaceVolumeRatio != nil {
		v, err := toSI(*c.SurfaceVolumeRatio, "m^-1")
		if err != nil {
			return nil, err
		}
		m.Conditions.SurfaceVolumeRatio = unit.New(v, reactor.PerMeter)
	}
	if c.SiteDensity != nil {
		v, err := toSI(*c.SiteDensity, "mol/m^2")
		if err != nil {
			return nil, err
		}
		siteDensity = v
		m.Conditions.SiteDensity = unit.New(v, reactor.MolPerSqMeter)
	}

	byLabel := make(map[string]*chem.Species, len(c.Species))
	for _, sc := range c.Species {
		sp, err := buildSpecies(sc)
		if err != nil {
			return nil, err
		}
		if _, dup := byLabel[sc.Label]; dup {
			return nil, fmt.Errorf("config: duplicate species %s", sc.Label)
		}
		byLabel[sc.Label] = sp
		if sc.Edge {
			m.EdgeSpecies = append(m.EdgeSpecies, sp)
		} else {
			m.CoreSpecies = append(m.CoreSpecies, sp)
		}
	}

	for i, rc := range c.Reactions {
		rxn, err := buildReaction(rc, byLabel, siteDensity)
		if err != nil {
			return nil, fmt.Errorf("config: reaction %d: %w", i, err)
		}
		if rc.Edge {
			m.EdgeReactions = append(m.EdgeReactions, rxn)
		} else {
			m.CoreReactions = append(m.CoreReactions, rxn)
		}
	}

	if c.Simulation.EndTime.Value > 0 {
		end, err := toSI(c.Simulation.EndTime, "s")
		if err != nil {
			return nil, err
		}
		m.EndTime = end
		m.Termination = append(m.Termination, reactor.TerminationTime{Time: end})
	}
	for _, cc := range c.Simulation.ConversionStop {
		m.Termination = append(m.Termination, reactor.TerminationConversion{
			Species:    cc.Species,
			Conversion: cc.Conversion,
		})
	}
	if c.Simulation.InitialTime.Value > 0 {
		t0, err := toSI(c.Simulation.InitialTime, "s")
		if err != nil {
			return nil, err
		}
		m.Options.InitialTime = t0
	}
	m.Options.StepFactor = c.Simulation.StepFactor
	return m, nil
}

func buildSpecies(sc SpeciesConfig) (*chem.Species, error) {
	if sc.Label == "" {
		return nil, fmt.Errorf("config: species without label")
	}
	sp := &chem.Species{
		Label:         sc.Label,
		Adsorbate:     sc.Adsorbate,
		SitesOccupied: sc.SitesOccupied,
	}
	if sc.MolecularWeight != nil {
		w, err := toSI(*sc.MolecularWeight, "kg/mol")
		if err != nil {
			return nil, err
		}
		sp.MolecularWeight = w
	}
	if sc.Thermo != nil {
		tdata, err := listToSI(sc.Thermo.Tdata, "K")
		if err != nil {
			return nil, err
		}
		cpdata, err := listToSI(sc.Thermo.Cpdata, "J/(mol*K)")
		if err != nil {
			return nil, err
		}
		h298, err := toSI(sc.Thermo.H298, "J/mol")
		if err != nil {
			return nil, err
		}
		s298, err := toSI(sc.Thermo.S298, "J/(mol*K)")
		if err != nil {
			return nil, err
		}
		sp.Thermo, err = chem.NewThermoData(tdata, cpdata, h298, s298)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sc.Label, err)
		}
	}
	return sp, nil
}

func buildReaction(rc ReactionConfig, byLabel map[string]*chem.Species, siteDensity float64) (*chem.Reaction, error) {
	resolve := func(labels []string) ([]*chem.Species, error) {
		out := make([]*chem.Species, 0, len(labels))
		for _, l := range labels {
			sp, ok := byLabel[l]
			if !ok {
				return nil, fmt.Errorf("unknown species %s", l)
			}
			out = append(out, sp)
		}
		return out, nil
	}
	reactants, err := resolve(rc.Reactants)
	if err != nil {
		return nil, err
	}
	products, err := resolve(rc.Products)
	if err != nil {
		return nil, err
	}
	if len(reactants) == 0 || len(products) == 0 {
		return nil, fmt.Errorf("requires reactants and products")
	}

	ea := 0.0
	if rc.Ea.Value != 0 {
		if ea, err = toSI(rc.Ea, "J/mol"); err != nil {
			return nil, err
		}
	}
	t0 := 1.0
	if rc.T0.Value != 0 {
		if t0, err = toSI(rc.T0, "K"); err != nil {
			return nil, err
		}
	}

	var kin chem.RateModel
	switch rc.Type {
	case "", "arrhenius":
		kin = &chem.Arrhenius{A: rc.A, N: rc.N, Ea: ea, T0: t0}
	case "surface-arrhenius":
		kin = &chem.SurfaceArrhenius{A: rc.A, N: rc.N, Ea: ea, T0: t0}
	case "sticking":
		sites := 0
		var gas *chem.Species
		for _, sp := range reactants {
			if sp.Adsorbate {
				sites += sp.Occupancy()
			} else {
				gas = sp
			}
		}
		if gas == nil || gas.MolecularWeight == 0 {
			return nil, fmt.Errorf("sticking kinetics require a gas reactant with molecular weight")
		}
		if siteDensity == 0 {
			return nil, fmt.Errorf("sticking kinetics require a site density")
		}
		kin = &chem.StickingCoefficient{
			A: rc.A, N: rc.N, Ea: ea, T0: t0,
			SiteDensity:     siteDensity,
			Sites:           sites,
			MolecularWeight: gas.MolecularWeight,
		}
	default:
		return nil, fmt.Errorf("unknown kinetics type %q", rc.Type)
	}

	return &chem.Reaction{
		Reactants:  reactants,
		Products:   products,
		Kinetics:   kin,
		Reversible: rc.Reversible,
	}, nil
}
