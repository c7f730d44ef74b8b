package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/automation"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/export"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	seed       int64
	particles  int
	gravity    float64
	velocity   float64
	style      string
	workers    int
	frameRate  int
	view       string
	theme      string
	index      int
	format     string
	cols       int
	rows       int
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

// main registers the partsim commands and runs the live view when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "partsim",
		Short: "particle fountain simulator",
		RunE:  runLive,
	}
	simFlags(rootCmd)
	viewFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the fountain in the terminal",
		RunE:  runLive,
	}
	simFlags(liveCmd)
	viewFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report metrics",
		RunE:  runHeadless,
	}
	simFlags(runCmd)
	runCmd.Flags().Int("ticks", 400, "number of ticks")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "trace one particle to stdout",
		RunE:  runTrace,
	}
	simFlags(traceCmd)
	traceCmd.Flags().Int("ticks", 400, "number of ticks")
	traceCmd.Flags().IntVar(&index, "index", 0, "particle index")
	traceCmd.Flags().StringVar(&format, "format", "csv", "output format (csv|svg)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark integration throughput",
		RunE:  runBench,
	}
	benchCmd.Flags().Int("ticks", 100, "ticks per case")
	benchCmd.Flags().Int64("seed", 42, "random seed")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame as svg to stdout",
		RunE:  runSnapshot,
	}
	simFlags(snapshotCmd)
	viewFlags(snapshotCmd)
	snapshotCmd.Flags().Int("ticks", 200, "ticks before the frame")
	snapshotCmd.Flags().IntVar(&cols, "width", 80, "canvas width in cells")
	snapshotCmd.Flags().IntVar(&rows, "height", 30, "canvas height in cells")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	simFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [gravity|velocity]",
		Short: "sweep a parameter and compare metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().Int("ticks", 400, "ticks per point")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 3, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 8, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of points")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(liveCmd, runCmd, traceCmd, benchCmd, snapshotCmd, scenarioCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "active particles")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity")
	cmd.Flags().Float64Var(&velocity, "velocity", config.DefaultMeanVelocity, "mean emission velocity")
	cmd.Flags().StringVar(&style, "style", "point", "render style (point|sprite|sphere)")
	cmd.Flags().IntVar(&workers, "workers", 0, "integration goroutines (0 = serial)")
}

func viewFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().StringVar(&view, "view", config.DefaultView, "camera (original|fly)")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
}

// resolveConfig layers flags over the config file over the preset.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.LoadOver(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("velocity") {
		cfg.MeanVelocity = velocity
	}
	if flags.Changed("style") {
		cfg.Render.Style = style
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("fps") {
		cfg.Viewer.FPS = frameRate
	}
	if flags.Changed("view") {
		cfg.Viewer.View = view
	}
	if flags.Changed("theme") {
		cfg.Viewer.Theme = theme
	}
	if cfg.Seed == 0 || flags.Changed("seed") {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newController(cmd *cobra.Command) (*sim.Controller, *config.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.Options(cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	c, err := sim.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	c, cfg, err := newController(cmd)
	if err != nil {
		return err
	}
	mode, _ := viz.ParseView(cfg.Viewer.View)
	m := viz.NewModel(c, viz.Options{FPS: cfg.Viewer.FPS, View: mode, Theme: cfg.Viewer.Theme})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	c, cfg, err := newController(cmd)
	if err != nil {
		return err
	}

	ms := metrics.Default()
	height := ms[0].(*metrics.MeanHeight)
	history := make([]float64, 0, ticks)
	every := max(ticks/10, 1)

	fmt.Printf("particles: %d\n", c.Count())
	fmt.Printf("seed: %d\n\n", cfg.Seed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tTIME\tHEIGHT\tBOUNCES\tREEMITTED")
	for i := 1; i <= ticks; i++ {
		stats := c.Step()
		for _, m := range ms {
			m.Observe(c.Store(), stats, c.Time())
		}
		history = append(history, height.Last())
		if i%every == 0 {
			fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%d\t%d\n", i, c.Time(), height.Last(), stats.Bounces, stats.Reemitted)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%.4f\n", m.Name(), m.Value())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(history) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(history,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean height"),
		))
	}
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	c, _, err := newController(cmd)
	if err != nil {
		return err
	}
	if index < 0 || index >= c.Count() {
		return fmt.Errorf("index %d outside [0,%d)", index, c.Count())
	}

	switch format {
	case "csv":
		w := csv.NewWriter(os.Stdout)
		if err := w.Write([]string{"tick", "time", "x", "y", "z", "distance", "descending"}); err != nil {
			return err
		}
		for i := 0; i <= ticks; i++ {
			if i > 0 {
				c.Step()
			}
			p := c.Store().At(index)
			row := []string{
				strconv.Itoa(i),
				strconv.FormatFloat(c.Time(), 'f', 4, 64),
				strconv.FormatFloat(p.Position.X, 'f', 6, 64),
				strconv.FormatFloat(p.Position.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Position.Z, 'f', 6, 64),
				strconv.FormatFloat(p.Position.Planar(), 'f', 6, 64),
				strconv.FormatBool(p.Descending),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	case "svg":
		points := make([]export.Point, 0, ticks+1)
		for i := 0; i <= ticks; i++ {
			if i > 0 {
				c.Step()
			}
			points = append(points, export.Point{X: c.Time(), Y: c.Store().At(index).Position.Y})
		}
		fmt.Println(export.TraceToSVG(points, 800, 300, "#00ffff"))
		return nil
	}
	return fmt.Errorf("unknown format: %s", format)
}

func runBench(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	seed, _ := cmd.Flags().GetInt64("seed")
	counts := []int{1000, 10000, 100000, particle.MaxParticles}
	pool := []int{0, runtime.NumCPU()}

	fmt.Printf("benchmarking %d ticks\n\n", ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tTIME\tTICKS/SEC\tPARTICLES/SEC")

	for _, n := range counts {
		for _, k := range pool {
			c, err := sim.New(sim.Options{
				Capacity:  n,
				Particles: n,
				Seed:      seed,
				Workers:   k,
				Params:    sim.DefaultParams(),
			})
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < ticks; i++ {
				c.Step()
			}
			elapsed := time.Since(start)

			tps := float64(ticks) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.0f\n", n, k, elapsed, tps, tps*float64(n))
		}
	}

	return w.Flush()
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	c, cfg, err := newController(cmd)
	if err != nil {
		return err
	}
	for i := 0; i < ticks; i++ {
		c.Step()
	}

	cam := viz.NewCamera(cfg.Viewer.FPS)
	if mode, _ := viz.ParseView(cfg.Viewer.View); mode == viz.ViewFly {
		cam.Fly()
	}
	th := viz.GetTheme(cfg.Viewer.Theme)
	canvas := viz.NewCanvas(cols, rows)
	viz.NewRenderer(cam, th).Draw(canvas, c)

	if err := export.WriteCanvas(os.Stdout, canvas, 4, string(th.Background), string(th.Primary)); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	c, _, err := newController(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	rep, err := automation.RunScenario(context.Background(), c, scenario, metrics.Default())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tACTION\tRESULT")
	for _, ev := range rep.Events {
		result := "ok"
		if ev.Err != nil {
			result = ev.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", ev.Tick, ev.Action, result)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nticks: %d  simulated: %d  particles: %d\n", rep.Ticks, c.Ticks(), c.Count())
	for _, m := range metrics.Default() {
		fmt.Printf("%-14s %.4f\n", m.Name(), rep.Metrics[m.Name()])
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options(cfg.Seed)
	if err != nil {
		return err
	}
	opts.Capacity = cfg.Particles

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Param:    args[0],
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Ticks:    ticks,
		Options:  opts,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN_HEIGHT\tMAX_DISTANCE\tBOUNCE_RATE\n", args[0])
	for _, r := range results {
		fmt.Fprintf(w, "%.2f\t%.3f\t%.3f\t%.3f\n",
			r.Value, r.Metrics["mean_height"], r.Metrics["max_distance"], r.Metrics["bounce_rate"])
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tGRAVITY\tVELOCITY\tSTYLE\tVIEW")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%s\t%s\n",
			name, p.Particles, p.Gravity, p.MeanVelocity, p.Render.Style, p.Viewer.View)
	}
	return w.Flush()
}
