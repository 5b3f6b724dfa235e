package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/porfanid/N-Body-Simulator/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times:      []float64{0.01, 0.02, 0.03},
		Kinetic:    []float64{10.5, 11.0, 11.5},
		Potential:  []float64{-20.0, -20.5, -21.0},
		Total:      []float64{-9.5, -9.5, -9.5},
		Metrics:    map[string]float64{"energy_drift": 0.001},
		StepsTaken: 3,
	}
}

func testMeta() RunMetadata {
	return RunMetadata{
		Seed:           7,
		Bodies:         10,
		Steps:          3,
		Dt:             0.01,
		G:              6.67,
		Softening:      0.1,
		Boundary:       400,
		BoundaryMode:   "bounce",
		MaxTrailLength: 50,
		Backend:        "cpu",
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("ID = %q, want %q", meta.ID, runID)
	}
	if meta.Bodies != 10 || meta.Dt != 0.01 || meta.BoundaryMode != "bounce" || meta.Backend != "cpu" {
		t.Errorf("metadata fields lost: %+v", meta)
	}
	if meta.Metrics["energy_drift"] != 0.001 {
		t.Errorf("metrics not saved: %v", meta.Metrics)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("LoadSeries failed: %v", err)
	}
	want := testResult()
	if len(series.Times) != len(want.Times) {
		t.Fatalf("series has %d rows, want %d", len(series.Times), len(want.Times))
	}
	for i := range want.Times {
		if math.Abs(series.Times[i]-want.Times[i]) > 1e-6 ||
			math.Abs(series.Kinetic[i]-want.Kinetic[i]) > 1e-6 ||
			math.Abs(series.Potential[i]-want.Potential[i]) > 1e-6 ||
			math.Abs(series.Total[i]-want.Total[i]) > 1e-6 {
			t.Errorf("row %d mismatch", i)
		}
	}
}

func TestListIncludesSavedRuns(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	found := false
	for _, run := range runs {
		if run.ID == runID {
			found = true
		}
	}
	if !found {
		t.Errorf("saved run %q not in list of %d runs", runID, len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/nbody-test-dir")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("List on missing dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nbody_0"); err == nil {
		t.Error("expected error for unknown run id")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("LoadSeries failed: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, series); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if out.ID != runID || out.Bodies != 10 || len(out.Total) != 3 {
		t.Errorf("export fields wrong: %+v", out)
	}
	if out.Metrics["energy_drift"] != 0.001 {
		t.Errorf("export metrics wrong: %v", out.Metrics)
	}
}
