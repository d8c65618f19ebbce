package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/surfkin/internal/reactor"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Mechanism   string    `json:"mechanism"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Pressure    float64   `json:"pressure"`
	EndTime     float64   `json:"end_time"`
	Samples     int       `json:"samples"`
	SolverSteps int       `json:"solver_steps"`
	Status      string    `json:"status"`
	Species     []string  `json:"species"`
	Reactions   []string  `json:"reactions"`
}

func (s *Store) Save(mechanism string, r *reactor.Reactor, result *reactor.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", mechanism, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

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

	endTime := 0.0
	if len(result.Times) > 0 {
		endTime = result.Times[len(result.Times)-1]
	}

	meta := RunMetadata{
		ID:          runID,
		Mechanism:   mechanism,
		Timestamp:   time.Now(),
		Temperature: r.Temperature(),
		Pressure:    r.Pressure(),
		EndTime:     endTime,
		Samples:     len(result.Times),
		SolverSteps: result.SolverSteps,
		Status:      result.Status.String(),
		Species:     species,
		Reactions:   reactions,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.States) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	header = append(header, species...)
	for i := range reactions {
		header = append(header, fmt.Sprintf("rate%d", i))
	}

	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'e', 9, 64)}
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'e', 9, 64))
		}
		if i < len(result.ReactionRates) {
			for _, val := range result.ReactionRates[i] {
				row = append(row, strconv.FormatFloat(val, 'e', 9, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads a saved run back as times and rows of values
// (species amounts followed by reaction rates, matching the csv header).
func (s *Store) LoadTrajectory(runID string) ([]float64, [][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		row := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return times, rows, nil
}
