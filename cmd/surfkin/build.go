package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/san-kum/surfkin/internal/config"
	"github.com/san-kum/surfkin/internal/reactor"
)

func buildReactor(model *config.Model) (*reactor.Reactor, error) {
	r := reactor.New(model.Conditions, model.Termination)
	if err := r.InitializeModel(model.CoreSpecies, model.CoreReactions, model.EdgeSpecies, model.EdgeReactions); err != nil {
		return nil, err
	}
	return r, nil
}

func reactorTerminationTime(t float64) reactor.TerminationCriterion {
	return reactor.TerminationTime{Time: t}
}

// sanitizeName turns a mechanism name (possibly a file path) into a run id
// prefix safe for a directory name.
func sanitizeName(name string) string {
	name = strings.TrimSuffix(name, ".yaml")
	name = strings.TrimSuffix(name, ".yml")
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ".", "_")
	return r.Replace(name)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
