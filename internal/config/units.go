package config

import "fmt"

// conversion is a multiplicative factor into the SI unit named by its
// canonical key.
type conversion struct {
	canonical string
	factor    float64
}

// conversions maps accepted unit strings to SI. Keys are written the way
// mechanism files in the wild write them.
var conversions = map[string]conversion{
	"K": {"K", 1},

	"Pa":  {"Pa", 1},
	"bar": {"Pa", 1e5},
	"atm": {"Pa", 101325},

	"m^-1":  {"m^-1", 1},
	"1/m":   {"m^-1", 1},
	"cm^-1": {"m^-1", 100},
	"1/cm":  {"m^-1", 100},

	"mol/m^2":  {"mol/m^2", 1},
	"mol/cm^2": {"mol/m^2", 1e4},

	"J/mol":    {"J/mol", 1},
	"kJ/mol":   {"J/mol", 1e3},
	"cal/mol":  {"J/mol", 4.184},
	"kcal/mol": {"J/mol", 4184},

	"J/(mol*K)":   {"J/(mol*K)", 1},
	"kJ/(mol*K)":  {"J/(mol*K)", 1e3},
	"cal/(mol*K)": {"J/(mol*K)", 4.184},

	"kg/mol": {"kg/mol", 1},
	"g/mol":  {"kg/mol", 1e-3},

	"s":  {"s", 1},
	"ms": {"s", 1e-3},
	"us": {"s", 1e-6},
}

// toSI converts q into the SI unit named by want.
func toSI(q Quantity, want string) (float64, error) {
	if q.Units == "" {
		// Unitless input is taken as already SI.
		return q.Value, nil
	}
	conv, ok := conversions[q.Units]
	if !ok {
		return 0, fmt.Errorf("config: unknown units %q", q.Units)
	}
	if conv.canonical != want {
		return 0, fmt.Errorf("config: units %q where %s expected", q.Units, want)
	}
	return q.Value * conv.factor, nil
}

func listToSI(q QuantityList, want string) ([]float64, error) {
	out := make([]float64, len(q.Values))
	for i, v := range q.Values {
		si, err := toSI(Quantity{Value: v, Units: q.Units}, want)
		if err != nil {
			return nil, err
		}
		out[i] = si
	}
	return out, nil
}
