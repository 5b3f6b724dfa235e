package storage

import (
	"encoding/json"
	"io"
	"os"
)

// ExportData is the full-run JSON export shape.
type ExportData struct {
	ID           string             `json:"id"`
	Bodies       int                `json:"bodies"`
	Steps        int                `json:"steps"`
	Dt           float64            `json:"dt"`
	G            float64            `json:"g"`
	Softening    float64            `json:"softening"`
	Boundary     float64            `json:"boundary"`
	BoundaryMode string             `json:"boundary_mode"`
	Times        []float64          `json:"times"`
	Kinetic      []float64          `json:"kinetic"`
	Potential    []float64          `json:"potential"`
	Total        []float64          `json:"total"`
	Metrics      map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, series *EnergySeries) ExportData {
	return ExportData{
		ID:           meta.ID,
		Bodies:       meta.Bodies,
		Steps:        meta.Steps,
		Dt:           meta.Dt,
		G:            meta.G,
		Softening:    meta.Softening,
		Boundary:     meta.Boundary,
		BoundaryMode: meta.BoundaryMode,
		Times:        series.Times,
		Kinetic:      series.Kinetic,
		Potential:    series.Potential,
		Total:        series.Total,
		Metrics:      meta.Metrics,
	}
}

func ExportJSON(w io.Writer, meta *RunMetadata, series *EnergySeries) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(meta, series))
}

func ExportJSONFile(path string, meta *RunMetadata, series *EnergySeries) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, series)
}
