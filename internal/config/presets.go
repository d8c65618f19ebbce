package config

import "sort"

// presets are complete, ready-to-run configurations.
var presets = map[string]*Config{
	// Dissociative chemisorption of hydrogen on a bare catalytic surface,
	// H2 + 2X <=> 2HX, at 1000 K and 1 bar.
	"hydrogen-chemisorption": {
		Temperature:        Quantity{Value: 1000, Units: "K"},
		Pressure:           Quantity{Value: 1.0e5, Units: "Pa"},
		SurfaceVolumeRatio: &Quantity{Value: 10, Units: "m^-1"},
		SiteDensity:        &Quantity{Value: 2.72e-9, Units: "mol/cm^2"},
		Species: []SpeciesConfig{
			{
				Label:           "H2",
				MolecularWeight: &Quantity{Value: 2.016, Units: "g/mol"},
				Thermo: &ThermoConfig{
					Tdata:  QuantityList{Values: []float64{300, 400, 500, 600, 800, 1000, 1500}, Units: "K"},
					Cpdata: QuantityList{Values: []float64{6.955, 6.955, 6.956, 6.961, 7.003, 7.103, 7.502}, Units: "cal/(mol*K)"},
					H298:   Quantity{Value: 0, Units: "kcal/mol"},
					S298:   Quantity{Value: 31.129, Units: "cal/(mol*K)"},
				},
			},
			{
				Label:     "X",
				Adsorbate: true,
				Thermo: &ThermoConfig{
					Tdata:  QuantityList{Values: []float64{300, 400, 500, 600, 800, 1000, 1500}, Units: "K"},
					Cpdata: QuantityList{Values: []float64{0, 0, 0, 0, 0, 0, 0}, Units: "cal/(mol*K)"},
					H298:   Quantity{Value: 0, Units: "kcal/mol"},
					S298:   Quantity{Value: 0, Units: "cal/(mol*K)"},
				},
			},
			{
				Label:     "HX",
				Adsorbate: true,
				Thermo: &ThermoConfig{
					Tdata:  QuantityList{Values: []float64{300, 400, 500, 600, 800, 1000, 1500}, Units: "K"},
					Cpdata: QuantityList{Values: []float64{1.50, 2.58, 3.40, 4.00, 4.73, 5.13, 5.57}, Units: "cal/(mol*K)"},
					H298:   Quantity{Value: -11.26, Units: "kcal/mol"},
					S298:   Quantity{Value: 0.44, Units: "cal/(mol*K)"},
				},
			},
		},
		Reactions: []ReactionConfig{
			{
				Reactants:  []string{"H2", "X", "X"},
				Products:   []string{"HX", "HX"},
				Reversible: true,
				Type:       "surface-arrhenius",
				// 9.05e18 cm^5/(mol^2*s) in SI
				A:  9.05e8,
				N:  0.5,
				Ea: Quantity{Value: 5.0, Units: "kJ/mol"},
				T0: Quantity{Value: 1.0, Units: "K"},
			},
		},
		InitialGasMoleFractions: map[string]float64{"H2": 1.0},
		InitialSurfaceCoverages: map[string]float64{"X": 1.0},
		Simulation: SimulationConfig{
			InitialTime: Quantity{Value: 1e-13, Units: "s"},
			EndTime:     Quantity{Value: 7.943282347242822e-06, Units: "s"}, // 10^-5.1
			StepFactor:  1.2589254117941673,                                 // 10^0.1
		},
	},
}

// Preset returns a named configuration, or nil when unknown.
func Preset(name string) *Config {
	return presets[name]
}

// ListPresets returns the available preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
