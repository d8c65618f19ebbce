package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/surfkin/internal/config"
	"github.com/san-kum/surfkin/internal/reactor"
)

func runPreset(t *testing.T) (*reactor.Reactor, *reactor.Result) {
	t.Helper()
	cfg := config.Preset("hydrogen-chemisorption")
	if cfg == nil {
		t.Fatal("hydrogen-chemisorption preset missing")
	}
	model, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	r := reactor.New(model.Conditions, model.Termination)
	if err := r.InitializeModel(model.CoreSpecies, model.CoreReactions, model.EdgeSpecies, model.EdgeReactions); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	result, err := r.Simulate(context.Background(), model.Options)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	return r, result
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	r, result := runPreset(t)

	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := st.Save("hydrogen", r, result)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Mechanism != "hydrogen" {
		t.Errorf("mechanism: got %q, expected %q", meta.Mechanism, "hydrogen")
	}
	if meta.Temperature != 1000 {
		t.Errorf("temperature: got %v, expected 1000", meta.Temperature)
	}
	if meta.Samples != len(result.Times) {
		t.Errorf("samples: got %d, expected %d", meta.Samples, len(result.Times))
	}
	if len(meta.Species) != 3 {
		t.Errorf("species: got %v", meta.Species)
	}
	if meta.Status != "terminated" {
		t.Errorf("status: got %q, expected %q", meta.Status, "terminated")
	}

	times, rows, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory: %v", err)
	}
	if len(times) != len(result.Times) {
		t.Fatalf("trajectory samples: got %d, expected %d", len(times), len(result.Times))
	}
	// Species amounts followed by one rate column.
	if len(rows[0]) != 3+1 {
		t.Fatalf("columns: got %d, expected 4", len(rows[0]))
	}
	// The csv carries 9 significant digits; compare loosely.
	final := result.States[len(result.States)-1]
	for i := range final {
		rel := math.Abs(rows[len(rows)-1][i]-final[i]) / math.Max(math.Abs(final[i]), 1e-300)
		if final[i] != 0 && rel > 1e-8 {
			t.Errorf("species %d: got %v, expected %v", i, rows[len(rows)-1][i], final[i])
		}
	}
}

func TestStore_List(t *testing.T) {
	r, result := runPreset(t)

	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}

	if _, err := st.Save("first", r, result); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Mechanism != "first" {
		t.Errorf("mechanism: got %q, expected %q", runs[0].Mechanism, "first")
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStore_LoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("absent_123"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestExportJSON(t *testing.T) {
	r, result := runPreset(t)

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, "hydrogen", r, result); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exported ExportData
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}

	if exported.Mechanism != "hydrogen" {
		t.Errorf("mechanism: got %q", exported.Mechanism)
	}
	if exported.Samples != len(result.Times) {
		t.Errorf("samples: got %d, expected %d", exported.Samples, len(result.Times))
	}
	if len(exported.States) != len(result.States) {
		t.Errorf("states: got %d, expected %d", len(exported.States), len(result.States))
	}
	if len(exported.Species) != 3 || len(exported.Reactions) != 1 {
		t.Errorf("mechanism shape: %v, %v", exported.Species, exported.Reactions)
	}
}

func TestExportWriter(t *testing.T) {
	r, result := runPreset(t)

	// The stdout export shares this writer path; a stream export must decode
	// to the same document a file export produces.
	var buf bytes.Buffer
	if err := writeExport(&buf, "hydrogen", r, result); err != nil {
		t.Fatalf("write export: %v", err)
	}

	var exported ExportData
	if err := json.Unmarshal(buf.Bytes(), &exported); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if exported.Mechanism != "hydrogen" {
		t.Errorf("mechanism: got %q", exported.Mechanism)
	}
	if exported.Samples != len(result.Times) {
		t.Errorf("samples: got %d, expected %d", exported.Samples, len(result.Times))
	}
}
