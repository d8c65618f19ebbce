package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/surfkin/internal/reactor"
)

type ExportData struct {
	Mechanism     string      `json:"mechanism"`
	Temperature   float64     `json:"temperature"`
	Pressure      float64     `json:"pressure"`
	Volume        float64     `json:"volume"`
	Status        string      `json:"status"`
	Samples       int         `json:"samples"`
	Species       []string    `json:"species"`
	Reactions     []string    `json:"reactions"`
	Times         []float64   `json:"times"`
	States        [][]float64 `json:"states"`
	ReactionRates [][]float64 `json:"reaction_rates"`
	SpeciesRates  [][]float64 `json:"species_rates"`
}

func buildExport(mechanism string, r *reactor.Reactor, result *reactor.Result) ExportData {
	spix := r.Species()
	species := make([]string, 0, spix.NumCore())
	for i := 0; i < spix.NumCore(); i++ {
		species = append(species, spix.At(i).Label)
	}
	rxix := r.Reactions()
	reactions := make([]string, 0, rxix.NumCore())
	for i := 0; i < rxix.NumCore(); i++ {
		reactions = append(reactions, rxix.At(i).String())
	}

	states := make([][]float64, len(result.States))
	for i, s := range result.States {
		states[i] = s
	}

	return ExportData{
		Mechanism:     mechanism,
		Temperature:   r.Temperature(),
		Pressure:      r.Pressure(),
		Volume:        r.Volume(),
		Status:        result.Status.String(),
		Samples:       len(result.Times),
		Species:       species,
		Reactions:     reactions,
		Times:         result.Times,
		States:        states,
		ReactionRates: result.ReactionRates,
		SpeciesRates:  result.SpeciesRates,
	}
}

func ExportJSON(path string, mechanism string, r *reactor.Reactor, result *reactor.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, mechanism, r, result)
}

func ExportJSONStdout(mechanism string, r *reactor.Reactor, result *reactor.Result) error {
	return writeExport(os.Stdout, mechanism, r, result)
}

func writeExport(w io.Writer, mechanism string, r *reactor.Reactor, result *reactor.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(mechanism, r, result))
}
