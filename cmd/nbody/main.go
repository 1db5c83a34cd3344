package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nbody/internal/analysis"
	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/experiment"
	"github.com/san-kum/nbody/internal/export"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/nbody"
	"github.com/san-kum/nbody/internal/optim"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/storage"
	"github.com/san-kum/nbody/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir      string
	configFile   string
	preset       string
	integrator   string
	field        string
	dt           float64
	steps        int
	gravity      float64
	softening    float64
	theta        float64
	workers      int
	every        int
	logLevel     string
	plotBody     int
	noSave       bool
	saveFinal    string
	outFile      string
	svgSize      int
	gridSpecs    []string
	sweepMetric  string
	perturbation float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "nbody",
		Short:         "planar gravitational n-body simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./runs", "run storage directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", config.DefaultSampleEvery, "record every k-th step")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print results without storing the run")
	runCmd.Flags().StringVar(&saveFinal, "save-final", "", "write the final bodies as a YAML scene to continue from")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's trajectory and the energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBody, "body", 0, "body index to plot")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation in the terminal",
		Long:  "Steps the scene in the terminal and prints the bodies when the viewer exits.",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&saveFinal, "save-final", "", "write the bodies at exit as a YAML scene")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "run the same scene through several integrators",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image width and height in pixels")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search dt, softening, theta or g for the lowest metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "param=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimise")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest Lyapunov exponent of a scene",
		Args:  cobra.NoArgs,
		RunE:  runLyapunov,
	}
	addSimFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial offset of body 0 along x")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, liveCmd, compareCmd, sweepCmd, lyapunovCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "YAML scene file")
	f.StringVarP(&preset, "preset", "p", "", "built-in scene (see `nbody presets`)")
	f.StringVarP(&integrator, "integrator", "i", config.DefaultIntegrator, "euler, symplectic, leapfrog, verlet or rk4")
	f.StringVar(&field, "field", config.DefaultField, "pairwise, parallel or barneshut")
	f.Float64Var(&dt, "dt", config.DefaultDt, "time step")
	f.IntVarP(&steps, "steps", "n", config.DefaultSteps, "number of steps")
	f.Float64Var(&gravity, "g", nbody.DefaultG, "gravitational constant")
	f.Float64Var(&softening, "softening", nbody.DefaultSoftening, "softening length")
	f.Float64Var(&theta, "theta", config.DefaultTheta, "Barnes-Hut opening angle")
	f.IntVar(&workers, "workers", 0, "goroutines for the parallel field (0 = all CPUs)")
}

func setupLogger(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(h))
	return nil
}

// loadConfig resolves the scene: preset, then config file, then any flag the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("field") {
		cfg.Field = field
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("softening") {
		cfg.Softening = softening
	}
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Lookup("every") != nil && flags.Changed("every") {
		cfg.SampleEvery = every
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), slog.Default()); err != nil {
		return err
	}
	simulator := exp.GetSimulator()
	simulator.AddObserver(sim.NewProgressLogger(slog.Default(), cfg.Steps))

	x0 := exp.Initial()
	fmt.Printf("running %s: %d bodies, %s/%s, dt=%g, %d steps, E0=%.6g\n",
		cfg.Name, x0.Len(), simulator.Integrator().Name(), simulator.Field().Name(),
		cfg.Dt, cfg.Steps, x0.Energy(simulator.Params()))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d steps in %v\n", result.StepsTaken, elapsed)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}

	printBodies(result.Final())
	if err := writeFinal(cfg, result.Final()); err != nil {
		return err
	}

	fmt.Println("\nmetrics:")
	for _, name := range sortedNames(result.Metrics) {
		fmt.Printf("  %-24s %.6g\n", name, result.Metrics[name])
	}
	fmt.Printf("  %-24s %.6g\n", "energy_drift_final", result.EnergyDrift)

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{
		Name:       cfg.Name,
		Integrator: cfg.Integrator,
		Field:      cfg.Field,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Params:     cfg.Params(),
	}, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func printBodies(s nbody.System) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nBODY\tMASS\tX\tY\tVX\tVY")
	for i := range s.Len() {
		m, p, v, _ := s.BodyState(i)
		fmt.Fprintf(w, "%d\t%g\t%.6f\t%.6f\t%.6f\t%.6f\n", i, m, p.X, p.Y, v.X, v.Y)
	}
	w.Flush()
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
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
	fmt.Fprintln(w, "ID\tTIME\tBODIES\tSTEPS\tDT\tINTEG\tFIELD\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%g\t%s\t%s\t%.2e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Masses),
			run.StepsTaken,
			run.Steps,
			run.Dt,
			run.Integrator,
			run.Field,
			run.EnergyDrift,
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

	systems, _, err := st.LoadSystems(runID)
	if err != nil {
		return err
	}

	if len(systems) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}
	if plotBody < 0 || plotBody >= systems[0].Len() {
		return fmt.Errorf("%w: body %d of %d", nbody.ErrIndexOutOfRange, plotBody, systems[0].Len())
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("integrator: %s  field: %s\n", meta.Integrator, meta.Field)
	fmt.Printf("samples: %d\n\n", len(systems))

	xs := make([]float64, len(systems))
	ys := make([]float64, len(systems))
	for i, s := range systems {
		xs[i] = s[plotBody].Pos.X
		ys[i] = s[plotBody].Pos.Y
	}

	fmt.Println(asciigraph.PlotMany([][]float64{xs, ys},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Goldenrod),
		asciigraph.SeriesLegends("x", "y"),
		asciigraph.Caption(fmt.Sprintf("body %d position", plotBody)),
	))
	fmt.Println()

	energy := metrics.EnergySeries(systems, meta.Params())
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))

	sum := metrics.Summarize(energy)
	fmt.Printf("\nenergy mean %.6g  stddev %.3g  min %.6g  max %.6g\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	systems, _, err := storage.New(dataDir).LoadSystems(args[0])
	if err != nil {
		return err
	}

	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export.TrajectoriesSVG(w, systems, svgSize)
}

// parseGrid turns ["dt=0.01,0.005", "softening=0,0.01"] into names and
// value ranges.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid grid %q: want param=v1,v2", spec)
		}
		var values []float64
		for _, part := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid grid value in %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	best, points, err := g.Search(ctx, cfg, experiment.NewRegistry(), sweepMetric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(sweepMetric))
	for _, p := range points {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", p.Params[name])
		}
		if p.Err != nil {
			fmt.Fprintf(w, "error: %v\n", p.Err)
		} else {
			fmt.Fprintf(w, "%.6g\n", p.Value)
		}
	}
	w.Flush()

	if err != nil {
		return err
	}
	fmt.Printf("\nbest %s = %.6g at", sweepMetric, best.Value)
	for _, name := range names {
		fmt.Printf(" %s=%g", name, best.Params[name])
	}
	fmt.Println()
	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	r := experiment.NewRegistry()
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	f, err := r.GetField(cfg.Field, experiment.FieldOptions{Theta: cfg.Theta, Workers: cfg.Workers})
	if err != nil {
		return err
	}
	x0, err := cfg.System()
	if err != nil {
		return err
	}

	lambda := analysis.LyapunovExponent(integ, f, cfg.Params(), x0, cfg.Dt, cfg.Steps, perturbation)
	slog.Info("lyapunov estimate", "scene", cfg.Name, "integrator", cfg.Integrator, "steps", cfg.Steps)

	verdict := "regular"
	if lambda > 0.1 {
		verdict = "chaotic"
	}
	fmt.Printf("%s: λ ≈ %.4g over t=%g (%s)\n", cfg.Name, lambda, cfg.Dt*float64(cfg.Steps), verdict)
	return nil
}

var (
	presetName = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff")).Width(14)
	presetInfo = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
)

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println(viz.TitleStyle.Render("presets"))
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		info := fmt.Sprintf("%d bodies, %s/%s, dt=%g, %d steps", len(p.Bodies), p.Integrator, p.Field, p.Dt, p.Steps)
		fmt.Println("  " + presetName.Render(name) + presetInfo.Render(info))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	r := experiment.NewRegistry()
	integ, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	f, err := r.GetField(cfg.Field, experiment.FieldOptions{Theta: cfg.Theta, Workers: cfg.Workers})
	if err != nil {
		return err
	}
	x0, err := cfg.System()
	if err != nil {
		return err
	}

	m := viz.NewLiveModel(cfg.Name, integ, f, cfg.Params(), x0, cfg.Dt)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	lm, ok := final.(viz.LiveModel)
	if !ok {
		return nil
	}
	s, t := lm.State()
	fmt.Printf("%s at t=%g\n", cfg.Name, t)
	printBodies(s)
	return writeFinal(cfg, s)
}

// writeFinal saves s as a scene with the same settings as cfg when
// --save-final is set.
func writeFinal(cfg *config.Config, s nbody.System) error {
	if saveFinal == "" {
		return nil
	}
	if !s.IsValid() {
		return fmt.Errorf("final state is not finite, not writing %s", saveFinal)
	}
	next := cfg.Clone()
	next.SetBodies(s)
	if err := config.Save(saveFinal, next); err != nil {
		return err
	}
	fmt.Printf("final scene written to %s\n", saveFinal)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	r := experiment.NewRegistry()
	integs := make([]nbody.Integrator, len(args))
	for i, name := range args {
		if integs[i], err = r.GetIntegrator(name); err != nil {
			return err
		}
	}
	f, err := r.GetField(cfg.Field, experiment.FieldOptions{Theta: cfg.Theta, Workers: cfg.Workers})
	if err != nil {
		return err
	}
	x0, err := cfg.System()
	if err != nil {
		return err
	}

	params := cfg.Params()
	cmp := sim.NewComparison(f, params, func() []sim.Metric { return r.DefaultMetrics(params) })

	fmt.Printf("comparing integrators on %s (dt=%g, %d steps)\n\n", cfg.Name, cfg.Dt, cfg.Steps)
	start := time.Now()
	results, err := cmp.Run(cmd.Context(), x0, cfg.SimConfig(), integs)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%-12s  %12s  %12s  %12s  %8s\n", "integrator", "energy_drift", "mom_drift", "angmom_drift", "steps")
	fmt.Println(strings.Repeat("-", 64))

	series := make([][]float64, 0, len(results))
	for i, res := range results {
		fmt.Printf("%-12s  %12.3e  %12.3e  %12.3e  %8d\n",
			args[i], res.EnergyDrift, res.Metrics["momentum_drift"], res.Metrics["angular_momentum_drift"], res.StepsTaken)
		series = append(series, relativeEnergy(res, params))
	}
	fmt.Printf("\nwall time %v\n\n", elapsed)

	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesLegends(args...),
		asciigraph.SeriesColors(seriesColors(len(series))...),
		asciigraph.Caption("relative energy error"),
	))
	return nil
}

func relativeEnergy(res *sim.Result, p nbody.Params) []float64 {
	energy := metrics.EnergySeries(res.States, p)
	if len(energy) == 0 || energy[0] == 0 {
		return energy
	}
	e0 := energy[0]
	for i := range energy {
		energy[i] = (energy[i] - e0) / e0
	}
	return energy
}

func seriesColors(n int) []asciigraph.AnsiColor {
	palette := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Goldenrod, asciigraph.Red, asciigraph.Green, asciigraph.Magenta, asciigraph.Blue}
	out := make([]asciigraph.AnsiColor, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}
