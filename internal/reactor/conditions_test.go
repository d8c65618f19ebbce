package reactor

import (
	"errors"
	"math"
	"testing"

	"github.com/ctessum/unit"

	"github.com/san-kum/surfkin/internal/chem"
)

func TestConditions_Validate(t *testing.T) {
	conds := surfaceConditions()
	if err := conds.Validate(); err != nil {
		t.Errorf("valid conditions rejected: %v", err)
	}
}

func TestConditions_MissingRequired(t *testing.T) {
	conds := Conditions{
		P0:                      unit.New(1e5, Pascal),
		InitialGasMoleFractions: map[string]float64{"A": 1},
	}
	if err := conds.Validate(); !errors.Is(err, ErrConditions) {
		t.Errorf("missing temperature: got %v, expected ErrConditions", err)
	}

	conds = Conditions{
		T:  unit.New(1000, unit.Kelvin),
		P0: unit.New(1e5, Pascal),
	}
	if err := conds.Validate(); !errors.Is(err, ErrConditions) {
		t.Errorf("missing mole fractions: got %v, expected ErrConditions", err)
	}
}

func TestConditions_DimensionChecks(t *testing.T) {
	conds := surfaceConditions()
	conds.T = unit.New(1000, Pascal) // pressure dimensions on the temperature
	if err := conds.Validate(); !errors.Is(err, ErrConditions) {
		t.Errorf("wrong temperature dimensions: got %v, expected ErrConditions", err)
	}

	conds = surfaceConditions()
	conds.SiteDensity = unit.New(2.72e-5, PerMeter)
	if err := conds.Validate(); !errors.Is(err, ErrConditions) {
		t.Errorf("wrong site density dimensions: got %v, expected ErrConditions", err)
	}
}

func TestConditions_MoleDimension(t *testing.T) {
	// MoleDim registers under a symbol of its own ("mol" is reserved in
	// unit's dimension table) and must be usable both ways: matching
	// site-density quantities pass, mismatches fail.
	q := unit.New(2.72e-5, MolPerSqMeter)
	if err := q.Check(MolPerSqMeter); err != nil {
		t.Errorf("site density dimensions rejected: %v", err)
	}
	if err := q.Check(PerMeter); err == nil {
		t.Errorf("mismatched dimensions accepted, expected an error")
	}
}

func TestConditions_Positivity(t *testing.T) {
	conds := surfaceConditions()
	conds.T = unit.New(-300, unit.Kelvin)
	if err := conds.Validate(); !errors.Is(err, ErrConditions) {
		t.Errorf("negative temperature: got %v, expected ErrConditions", err)
	}

	conds = surfaceConditions()
	conds.P0 = unit.New(0, Pascal)
	if err := conds.Validate(); !errors.Is(err, ErrConditions) {
		t.Errorf("zero pressure: got %v, expected ErrConditions", err)
	}

	conds = surfaceConditions()
	conds.P0 = unit.New(math.NaN(), Pascal)
	if err := conds.Validate(); !errors.Is(err, ErrConditions) {
		t.Errorf("NaN pressure: got %v, expected ErrConditions", err)
	}
}

func TestConditions_FractionSums(t *testing.T) {
	conds := surfaceConditions()
	conds.InitialGasMoleFractions = map[string]float64{"H2": 0.9}
	if err := conds.Validate(); !errors.Is(err, ErrFractions) {
		t.Errorf("deficient sum: got %v, expected ErrFractions", err)
	}

	conds = surfaceConditions()
	conds.InitialGasMoleFractions = map[string]float64{"H2": 1.5, "N2": -0.5}
	if err := conds.Validate(); !errors.Is(err, ErrFractions) {
		t.Errorf("negative fraction: got %v, expected ErrFractions", err)
	}

	// Deviations inside the tolerance pass.
	conds = surfaceConditions()
	conds.InitialGasMoleFractions = map[string]float64{"H2": 0.6, "N2": 0.4 + 1e-9}
	if err := conds.Validate(); err != nil {
		t.Errorf("tolerable sum rejected: %v", err)
	}

	conds = surfaceConditions()
	conds.InitialSurfaceCoverages = map[string]float64{"X": 0.5}
	if err := conds.Validate(); !errors.Is(err, ErrFractions) {
		t.Errorf("deficient coverage sum: got %v, expected ErrFractions", err)
	}
}

func TestConditions_CoveragesRequireSurface(t *testing.T) {
	conds := Conditions{
		T:                       unit.New(1000, unit.Kelvin),
		P0:                      unit.New(1e5, Pascal),
		InitialGasMoleFractions: map[string]float64{"H2": 1},
		InitialSurfaceCoverages: map[string]float64{"X": 1},
	}
	if err := conds.Validate(); !errors.Is(err, ErrConditions) {
		t.Errorf("got %v, expected ErrConditions", err)
	}
}

func TestConditions_HasSurface(t *testing.T) {
	conds := surfaceConditions()
	if !conds.HasSurface() {
		t.Error("surface conditions not detected")
	}
	conds.SiteDensity = nil
	if conds.HasSurface() {
		t.Error("partial surface parameters reported as complete")
	}
}

func TestSpeciesIndex_Build(t *testing.T) {
	a := &chem.Species{Label: "A"}
	b := &chem.Species{Label: "B"}
	e := &chem.Species{Label: "E"}

	ix, err := BuildSpeciesIndex([]*chem.Species{a, b}, []*chem.Species{e})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if ix.Len() != 3 || ix.NumCore() != 2 {
		t.Errorf("sizes: got (%d, %d), expected (3, 2)", ix.Len(), ix.NumCore())
	}
	if i, ok := ix.Lookup(b); !ok || i != 1 {
		t.Errorf("Lookup(b): got (%d, %v), expected (1, true)", i, ok)
	}
	if i, ok := ix.LookupLabel("E"); !ok || i != 2 {
		t.Errorf("LookupLabel(E): got (%d, %v), expected (2, true)", i, ok)
	}
	if _, ok := ix.LookupLabel("missing"); ok {
		t.Error("LookupLabel found a species that does not exist")
	}
	if !ix.IsCore(1) || ix.IsCore(2) {
		t.Error("core/edge split wrong")
	}
	if ix.At(0) != a {
		t.Error("At(0) is not the first core species")
	}
}

func TestSpeciesIndex_RejectsDuplicates(t *testing.T) {
	a := &chem.Species{Label: "A"}
	if _, err := BuildSpeciesIndex([]*chem.Species{a, a}, nil); !errors.Is(err, ErrDuplicateSpecies) {
		t.Errorf("got %v, expected ErrDuplicateSpecies", err)
	}
	if _, err := BuildSpeciesIndex([]*chem.Species{a}, []*chem.Species{a}); !errors.Is(err, ErrDuplicateSpecies) {
		t.Errorf("core/edge duplicate: got %v, expected ErrDuplicateSpecies", err)
	}
}

func TestReactionIndex_RejectsUnknownSpecies(t *testing.T) {
	a := &chem.Species{Label: "A"}
	b := &chem.Species{Label: "B"}
	stranger := &chem.Species{Label: "Q"}

	ix, err := BuildSpeciesIndex([]*chem.Species{a, b}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	rxn := &chem.Reaction{
		Reactants: []*chem.Species{a},
		Products:  []*chem.Species{stranger},
		Kinetics:  &chem.Arrhenius{A: 1, T0: 1},
	}
	if _, err := BuildReactionIndex([]*chem.Reaction{rxn}, nil, ix); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("got %v, expected ErrUnknownSpecies", err)
	}
}

func TestState_Clone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()
	c[0] = 99
	if s[0] != 1 {
		t.Error("clone shares backing array")
	}
	if total := s.Total(); total != 6 {
		t.Errorf("total: got %v, expected 6", total)
	}
}

func TestState_IsValid(t *testing.T) {
	if !(State{1, 0, 2}).IsValid() {
		t.Error("finite state reported invalid")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state reported valid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("infinite state reported valid")
	}
}
