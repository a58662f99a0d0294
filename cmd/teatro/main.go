package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/teatro/internal/analysis"
	"github.com/san-kum/teatro/internal/config"
	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/experiment"
	"github.com/san-kum/teatro/internal/export"
	"github.com/san-kum/teatro/internal/optim"
	"github.com/san-kum/teatro/internal/physics"
	"github.com/san-kum/teatro/internal/sim"
	"github.com/san-kum/teatro/internal/stream"
	"github.com/san-kum/teatro/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dt          float64
	duration    float64
	recordEvery int
	configFile  string
	preset      string
	format      string
	traceBody   string
	signalBody  string
	addr        string
	runs        int
	phase       bool
	sweepParams []string
	metricName  string
	maximize    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "teatro",
		Short:        "fixed-step particle physics for a bouncing ball and a marionette",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	rootCmd.PersistentFlags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	rootCmd.PersistentFlags().IntVar(&recordEvery, "every", 1, "record every n-th frame")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and print metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "watch a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	serveCmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "stream a scene over websockets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serveScene,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	exportCmd := &cobra.Command{
		Use:   "export [scene]",
		Short: "run a scene and write its frames to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportScene,
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "output format: csv, json or svg")
	exportCmd.Flags().StringVar(&traceBody, "body", "", "body to trace (svg)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "measure how fast the puppet sways",
		Args:  cobra.NoArgs,
		RunE:  swaySpectrum,
	}
	spectrumCmd.Flags().StringVar(&signalBody, "body", physics.Torso, "body to analyse")
	spectrumCmd.Flags().BoolVar(&phase, "phase", false, "also print the x phase portrait")

	checkCmd := &cobra.Command{
		Use:   "check [scene]",
		Short: "run a scene several times concurrently and compare",
		Args:  cobra.MaximumNArgs(1),
		RunE:  checkDeterminism,
	}
	checkCmd.Flags().IntVar(&runs, "runs", 4, "number of concurrent runs")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes := args
			if len(scenes) == 0 {
				scenes = experiment.NewRegistry().ListScenes()
			}
			for _, scene := range scenes {
				presets := config.ListPresets(scene)
				if len(presets) == 0 {
					fmt.Printf("no presets for scene: %s\n", scene)
					continue
				}
				fmt.Printf("presets for %s:\n", scene)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "grid search scene parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter range, name=lo:hi:n or name=v1,v2 (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "max_travel", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "maximise instead of minimise")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, exportCmd, spectrumCmd, checkCmd, presetsCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file and changed flags, in
// that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	if preset != "" {
		scene, name := cfg.Scene, preset
		if s, n, ok := strings.Cut(preset, "/"); ok {
			scene, name = s, n
		}
		p := config.GetPreset(scene, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scene))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("every") {
		cfg.Run.RecordEvery = recordEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func focusBody(scene string) string {
	if scene == "puppet" {
		return physics.Torso
	}
	return physics.BallName
}

func runExperiment(cfg *config.Config) (*sim.Result, time.Duration, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, 0, err
	}
	start := time.Now()
	result, err := exp.Run(context.Background())
	return result, time.Since(start), err
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("running %s scene...\n", cfg.Scene)
	result, elapsed, err := runExperiment(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	final := result.Final()
	fmt.Printf("\nfinal state (t=%.3fs):\n", final.Time)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  body\tx\ty\tz\tspeed")
	for _, b := range final.Bodies {
		fmt.Fprintf(w, "  %s\t%.4f\t%.4f\t%.4f\t%.4f\n",
			b.Name, b.Position.X(), b.Position.Y(), b.Position.Z(), b.Velocity.Length())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	focus := focusBody(cfg.Scene)
	if heights := result.Series(focus, 1); len(heights) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(heights,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(focus+" height"),
		))
	}
	return nil
}

func sceneBuilder(cfg *config.Config) viz.Builder {
	reg := experiment.NewRegistry()
	return func() (dynamo.Scene, error) {
		return reg.GetScene(cfg.Scene, cfg)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && preset == "" && configFile == "" {
		var items []string
		for _, scene := range experiment.NewRegistry().ListScenes() {
			for _, p := range config.ListPresets(scene) {
				items = append(items, scene+"/"+p)
			}
		}
		picker := viz.NewPicker(items, func(name string) (viz.Model, error) {
			scene, p, _ := strings.Cut(name, "/")
			cfg := config.GetPreset(scene, p)
			if cfg == nil {
				return viz.Model{}, fmt.Errorf("unknown preset: %s", name)
			}
			return viz.NewModel(sceneBuilder(cfg), cfg.Run.Dt)
		})
		return viz.Run(picker)
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	m, err := viz.NewModel(sceneBuilder(cfg), cfg.Run.Dt)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func serveScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	scene, err := experiment.NewRegistry().GetScene(cfg.Scene, cfg)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "[serve] ", log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.Run.Dt * float64(time.Second))
	srv := stream.NewServer(scene, cfg.Run.Dt, interval, log.New(os.Stderr, "[stream] ", log.LstdFlags))

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)
	httpServer := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()
	go srv.Run(ctx)

	logger.Printf("streaming %s on ws://%s/ws", cfg.Scene, addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Printf("stopped")
	return nil
}

func exportScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	result, _, err := runExperiment(cfg)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return export.WriteCSV(os.Stdout, result)
	case "json":
		return export.WriteJSON(os.Stdout, cfg.Run.Sim(), result)
	case "svg":
		target := traceBody
		if target == "" {
			target = focusBody(cfg.Scene)
		}
		svg := export.TrajectoryToSVG(result.Frames, target, 800, 600, "#00ff88")
		if svg == "" {
			return fmt.Errorf("no trajectory for body %q", target)
		}
		_, err := fmt.Println(svg)
		return err
	default:
		return fmt.Errorf("unknown format: %s (want csv, json or svg)", format)
	}
}

func swaySpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, []string{"puppet"})
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("time") && preset == "" && configFile == "" {
		cfg.Run.Duration = 60
	}

	result, _, err := runExperiment(cfg)
	if err != nil {
		return err
	}

	every := max(cfg.Run.RecordEvery, 1)
	sampleDt := cfg.Run.Dt * float64(every)
	xs := result.Series(signalBody, 0)
	if len(xs) < 4 {
		return fmt.Errorf("not enough samples for %s", signalBody)
	}

	ps := analysis.PowerSpectrum(xs)
	plotData := ps[:max(len(ps)/8, 2)]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s x)", signalBody)),
	))
	fmt.Println()

	freq := analysis.DominantFrequency(xs, sampleDt)
	drive := cfg.Puppet.Drive.SwayFrequency / (2 * math.Pi)
	fmt.Printf("dominant frequency: %.4f hz\n", freq)
	fmt.Printf("bar drive:          %.4f hz\n", drive)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if phase {
		fmt.Println()
		fmt.Print(analysis.PhasePortraitToASCII(analysis.PhasePortrait(result.Frames, signalBody, 0), 60, 20))
	}
	return nil
}

func checkDeterminism(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	ensemble := sim.NewEnsemble(reg.Factory(cfg.Scene, cfg), runs, nil)

	start := time.Now()
	results, err := ensemble.Run(context.Background(), cfg.Run.Sim())
	if err != nil {
		return err
	}
	fmt.Printf("%d concurrent %s runs in %v\n", runs, cfg.Scene, time.Since(start))

	if sim.Deterministic(results) {
		fmt.Println("all runs identical")
		return nil
	}
	for i, r := range results[1:] {
		if d := sim.Divergence(results[0], r); d >= 0 {
			fmt.Printf("run %d diverges from run 0 at frame %d\n", i+1, d)
		}
	}
	return fmt.Errorf("runs diverged")
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, values, err := optim.ParseRange(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	reg := experiment.NewRegistry()
	run := func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		exp := experiment.New(cfg)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		tunable, ok := exp.Scene().(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("scene %s has no tunable parameters", cfg.Scene)
		}
		for k, v := range params {
			if err := tunable.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		return exp.Run(ctx)
	}

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = maximize

	fmt.Printf("sweeping %s over %v...\n", cfg.Scene, names)
	best, value, points, err := g.Search(context.Background(), run, metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.Join(names, "\t"), metricName)
	for _, p := range points {
		for _, name := range names {
			fmt.Fprintf(w, "%.4f\t", p.Params[name])
		}
		if p.Err != nil {
			fmt.Fprintf(w, "error: %v\n", p.Err)
		} else {
			fmt.Fprintf(w, "%.6f\n", p.Value)
		}
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f\n", metricName, value)
	for _, name := range names {
		fmt.Printf("  %s = %.4f\n", name, best[name])
	}
	return nil
}
