package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/porfanid/N-Body-Simulator/internal/compute"
	"github.com/porfanid/N-Body-Simulator/internal/config"
	"github.com/porfanid/N-Body-Simulator/internal/engine"
	"github.com/porfanid/N-Body-Simulator/internal/metrics"
	"github.com/porfanid/N-Body-Simulator/internal/sim"
	"github.com/porfanid/N-Body-Simulator/internal/storage"
	"github.com/porfanid/N-Body-Simulator/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	numBodies   int
	steps       int
	seed        int64
	dt          float64
	gravity     float64
	softening   float64
	boundary    float64
	modeName    string
	trailLength int
	backendName string
	frameRate   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nbody",
		Short: "2D gravitational n-body simulator",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nbody", "data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	addSimFlags(rootCmd)
	rootCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless simulation and save results",
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run energy series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run energy series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark stepping throughput",
		RunE:  benchBackends,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 500, "steps per measurement")
	benchCmd.Flags().StringVar(&backendName, "backend", "auto", "force backend (auto, cpu, cuda)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tSTEPS\tDT\tMODE\tBOUNDARY")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%s\t%.0f\n",
					name, p.Bodies, p.Steps, p.Dt, p.BoundaryMode, p.Boundary)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = wall clock)")
	cmd.Flags().Float64Var(&dt, "dt", engine.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&gravity, "g", engine.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&softening, "softening", engine.DefaultSoftening, "plummer softening length")
	cmd.Flags().Float64Var(&boundary, "boundary", engine.DefaultBoundary, "domain extent")
	cmd.Flags().StringVar(&modeName, "mode", "bounce", "boundary mode (bounce, periodic, open)")
	cmd.Flags().IntVar(&trailLength, "trail", engine.DefaultMaxTrailLength, "max trail length")
	cmd.Flags().StringVar(&backendName, "backend", "auto", "compute backend (auto, cpu, cuda)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file, and CLI flags. Flags the user set
// explicitly win over both file and preset values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("g") {
		cfg.G = gravity
	}
	if cmd.Flags().Changed("softening") {
		cfg.Softening = softening
	}
	if cmd.Flags().Changed("boundary") {
		cfg.Boundary = boundary
	}
	if cmd.Flags().Changed("mode") {
		cfg.BoundaryMode = modeName
	}
	if cmd.Flags().Changed("trail") {
		cfg.MaxTrailLength = trailLength
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = backendName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func makeBackend(name string) (compute.Backend, error) {
	switch name {
	case "", "auto":
		return compute.AutoSelect(), nil
	case "cpu":
		return compute.NewCPUBackend(), nil
	case "cuda":
		cuda := compute.NewCUDABackend()
		if !cuda.Available() {
			return nil, fmt.Errorf("cuda backend not available in this build")
		}
		return cuda, nil
	}
	return nil, fmt.Errorf("unknown backend: %s", name)
}

// buildEngine constructs an engine from a validated config. Parameters are
// applied before the final Reset so bodies spawn inside the configured domain.
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	backend, err := makeBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg.Bodies, backend, cfg.Seed)
	if err != nil {
		return nil, err
	}

	if err := eng.SetG(cfg.G); err != nil {
		return nil, err
	}
	if err := eng.SetDt(cfg.Dt); err != nil {
		return nil, err
	}
	if err := eng.SetSoftening(cfg.Softening); err != nil {
		return nil, err
	}
	if err := eng.SetBoundary(cfg.Boundary); err != nil {
		return nil, err
	}
	if err := eng.SetMaxTrailLength(cfg.MaxTrailLength); err != nil {
		return nil, err
	}
	if err := eng.SetBoundaryMode(cfg.Mode()); err != nil {
		return nil, err
	}

	if err := eng.Reset(cfg.Bodies); err != nil {
		return nil, err
	}
	return eng, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Backend().Cleanup()

	return viz.Run(eng, frameRate)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Backend().Cleanup()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner := sim.New(eng)
	runner.AddMetric(metrics.NewEnergyDrift())
	runner.AddMetric(metrics.NewMomentum())
	runner.AddMetric(metrics.NewMaxSpeed())

	fmt.Printf("running %d bodies for %d steps on %s...\n", cfg.Bodies, cfg.Steps, eng.Backend().Name())
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Options{
		Steps:         cfg.Steps,
		ValidateState: true,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Seed:           cfg.Seed,
		Bodies:         cfg.Bodies,
		Steps:          result.StepsTaken,
		Dt:             cfg.Dt,
		G:              cfg.G,
		Softening:      cfg.Softening,
		Boundary:       cfg.Boundary,
		BoundaryMode:   cfg.BoundaryMode,
		MaxTrailLength: cfg.MaxTrailLength,
		Backend:        eng.Backend().Name(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f steps/sec)\n", elapsed, float64(result.StepsTaken)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBODIES\tSTEPS\tDT\tMODE\tBACKEND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.Dt,
			run.BoundaryMode,
			run.Backend,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d, dt: %.4f, mode: %s\n\n", meta.Bodies, meta.Dt, meta.BoundaryMode)

	for _, plot := range []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", series.Kinetic},
		{"potential energy", series.Potential},
		{"total energy", series.Total},
	} {
		graph := asciigraph.Plot(plot.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(plot.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "kinetic", "potential", "total"}); err != nil {
		return err
	}

	for i := range series.Times {
		row := []string{
			strconv.FormatFloat(series.Times[i], 'f', 6, 64),
			strconv.FormatFloat(series.Kinetic[i], 'f', 6, 64),
			strconv.FormatFloat(series.Potential[i], 'f', 6, 64),
			strconv.FormatFloat(series.Total[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, series)
}

func benchBackends(cmd *cobra.Command, args []string) error {
	backend, err := makeBackend(backendName)
	if err != nil {
		return err
	}
	defer backend.Cleanup()

	bodyCounts := []int{10, 50, 100, 250, 500}

	fmt.Printf("benchmarking %s backend, %d steps per size\n\n", backend.Name(), steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range bodyCounts {
		eng, err := engine.New(n, backend, 42)
		if err != nil {
			return err
		}

		runner := sim.New(eng)
		start := time.Now()
		result, err := runner.Run(context.Background(), sim.Options{Steps: steps})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n",
			n, result.StepsTaken, elapsed.Round(time.Millisecond),
			float64(result.StepsTaken)/elapsed.Seconds())
	}

	return w.Flush()
}
