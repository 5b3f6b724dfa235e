// Package storage persists headless run results under a data directory:
// one subdirectory per run with metadata.json and an energy series CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/porfanid/N-Body-Simulator/internal/sim"
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
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	Bodies         int                `json:"bodies"`
	Steps          int                `json:"steps"`
	Dt             float64            `json:"dt"`
	G              float64            `json:"g"`
	Softening      float64            `json:"softening"`
	Boundary       float64            `json:"boundary"`
	BoundaryMode   string             `json:"boundary_mode"`
	MaxTrailLength int                `json:"max_trail_length"`
	Backend        string             `json:"backend"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes the run's metadata and energy series, returning the run id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("nbody_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "kinetic", "potential", "total"}); err != nil {
		return "", err
	}

	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Kinetic[i], 'f', 6, 64),
			strconv.FormatFloat(result.Potential[i], 'f', 6, 64),
			strconv.FormatFloat(result.Total[i], 'f', 6, 64),
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// EnergySeries holds the per-step diagnostic series of a stored run.
type EnergySeries struct {
	Times     []float64
	Kinetic   []float64
	Potential []float64
	Total     []float64
}

func (s *Store) LoadSeries(runID string) (*EnergySeries, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &EnergySeries{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		vals := make([]float64, 4)
		ok := true
		for j := 0; j < 4; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		series.Times = append(series.Times, vals[0])
		series.Kinetic = append(series.Kinetic, vals[1])
		series.Potential = append(series.Potential, vals[2])
		series.Total = append(series.Total, vals[3])
	}

	return series, nil
}
