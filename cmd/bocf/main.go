package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/finitewave/bocf/internal/analysis"
	"github.com/finitewave/bocf/internal/cell"
	"github.com/finitewave/bocf/internal/config"
	"github.com/finitewave/bocf/internal/integrators"
	"github.com/finitewave/bocf/internal/metrics"
	"github.com/finitewave/bocf/internal/model"
	"github.com/finitewave/bocf/internal/sim"
	"github.com/finitewave/bocf/internal/storage"
	"github.com/finitewave/bocf/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	steps      int
	paramSet   string
	integrator string
	configFile string
	preset     string
	overrides  []string
	validate   bool
	// initial state overrides
	initU float64
	// stimulus flags
	stimStart     float64
	stimDuration  float64
	stimAmplitude float64
	stimPeriod    float64
	stimCount     int
	noStim        bool
	// sweep flags
	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bocf",
		Short: "single-cell simulator for the Bueno-Orovio-Cherry-Fenton minimal ionic model",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bocf", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&validate, "validate", false, "stop the run when the state goes non-finite")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [parameter]",
		Short: "sweep one parameter and report APD sensitivity",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParameter,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of sweep points")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same run",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, sweepCmd, compareCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (ms)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (ms)")
	cmd.Flags().IntVar(&steps, "steps", 0, "step count (overrides --time)")
	cmd.Flags().StringVar(&paramSet, "paramset", config.DefaultParamSet, "parameter set (epi, endo, mid)")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator (euler, rk4)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset configuration")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "parameter override name=value (repeatable)")
	cmd.Flags().Float64Var(&initU, "u0", 0, "initial membrane potential")
	cmd.Flags().Float64Var(&stimStart, "stim-start", 0.1, "stimulus start (ms)")
	cmd.Flags().Float64Var(&stimDuration, "stim-duration", 0.2, "stimulus pulse duration (ms)")
	cmd.Flags().Float64Var(&stimAmplitude, "stim-amplitude", 5.0, "stimulus amplitude (units/ms)")
	cmd.Flags().Float64Var(&stimPeriod, "stim-period", 0, "pacing period (ms)")
	cmd.Flags().IntVar(&stimCount, "stim-count", 1, "number of pulses")
	cmd.Flags().BoolVar(&noStim, "no-stim", false, "disable the stimulus")
}

// buildConfig layers preset, config file and CLI flags, flags winning.
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

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("paramset") {
		cfg.ParamSet = paramSet
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("u0") {
		cfg.InitState = &config.InitStateConfig{U: initU, V: 1, W: 1, S: 0}
	}
	if noStim {
		cfg.Stimuli = nil
	} else if cmd.Flags().Changed("stim-start") || cmd.Flags().Changed("stim-duration") ||
		cmd.Flags().Changed("stim-amplitude") || cmd.Flags().Changed("stim-period") ||
		cmd.Flags().Changed("stim-count") {
		cfg.Stimuli = []config.StimConfig{{
			Start:     stimStart,
			Duration:  stimDuration,
			Amplitude: stimAmplitude,
			Period:    stimPeriod,
			Count:     stimCount,
		}}
	}

	for _, kv := range overrides {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("bad override %q, want name=value", kv)
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("bad override value %q: %w", val, err)
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[name] = f
	}

	return cfg, nil
}

func getIntegrator(name string) (cell.Integrator, error) {
	switch name {
	case "", "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	integ, err := getIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(m, integ, cfg.BuildProtocol())
	s.AddMetric(metrics.NewAPD(0.1))
	s.AddMetric(metrics.NewPeak())
	s.AddMetric(metrics.NewUpstroke())

	runCfg := cfg.RunConfig()
	runCfg.ValidateState = validate

	fmt.Printf("running %s cell for %d steps (dt=%.4g ms)...\n", cfg.ParamSet, runCfg.NumSteps(), runCfg.Dt)
	start := time.Now()

	result, err := s.Run(context.Background(), cfg.GetInitState(), runCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.ParamSet, cfg.Integrator, runCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.States))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPARAMSET\tTIME\tDURATION\tDT\tINTEG\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fms\t%.4gms\t%s\t%d\n",
			run.ID,
			run.ParamSet,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, states, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("parameter set: %s\n", meta.ParamSet)
	fmt.Printf("samples: %d over %.1f ms\n\n", len(states), times[len(times)-1])

	captions := []string{
		"u (transmembrane potential)",
		"v (fast gate)",
		"w (slow gate)",
		"s (calcium-related)",
	}
	for varIdx := 0; varIdx < len(states[0]) && varIdx < len(captions); varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][varIdx]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[varIdx]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	times, states, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, model.VarNames...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 17, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	param := args[0]

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if sweepPoints < 2 {
		return fmt.Errorf("need at least 2 sweep points, got %d", sweepPoints)
	}
	if sweepFrom == 0 && sweepTo == 0 {
		base, err := cfg.BuildModel()
		if err != nil {
			return err
		}
		v, ok := base.Params().Map()[param]
		if !ok {
			return fmt.Errorf("unknown parameter: %s", param)
		}
		sweepFrom, sweepTo = v*0.5, v*2.0
	}

	fmt.Printf("sweeping %s over [%g, %g] (%d points, %s set)\n\n",
		param, sweepFrom, sweepTo, sweepPoints, cfg.ParamSet)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tAPD90\tPEAK_U\n", strings.ToUpper(param))

	for i := 0; i < sweepPoints; i++ {
		val := sweepFrom + (sweepTo-sweepFrom)*float64(i)/float64(sweepPoints-1)

		point := *cfg
		point.Params = make(map[string]float64, len(cfg.Params)+1)
		for k, v := range cfg.Params {
			point.Params[k] = v
		}
		point.Params[param] = val

		m, err := point.BuildModel()
		if err != nil {
			fmt.Fprintf(w, "%.4f\terror: %v\t\n", val, err)
			continue
		}
		integ, err := getIntegrator(point.Integrator)
		if err != nil {
			return err
		}

		s := sim.New(m, integ, point.BuildProtocol())
		result, err := s.Run(context.Background(), point.GetInitState(), point.RunConfig())
		if err != nil {
			return err
		}

		u := make([]float64, len(result.States))
		for j, x := range result.States {
			u[j] = x[model.VarU]
		}
		apd, ok := analysis.APD(result.Times, u, 0.9)
		apdStr := "incomplete"
		if ok {
			apdStr = fmt.Sprintf("%.2f", apd)
		}
		fmt.Fprintf(w, "%.4f\t%s\t%.4f\n", val, apdStr, analysis.Amplitude(u))
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (%s set, dt=%.4g ms, %.1f ms)\n\n",
		cfg.ParamSet, cfg.Dt, cfg.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_U\tPEAK_U\tAPD90\tTIME_MS")

	for _, name := range args {
		integ, err := getIntegrator(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\n", name, err)
			continue
		}

		s := sim.New(m, integ, cfg.BuildProtocol())
		start := time.Now()
		result, err := s.Run(context.Background(), cfg.GetInitState(), cfg.RunConfig())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\n", name, err)
			continue
		}

		u := make([]float64, len(result.States))
		for j, x := range result.States {
			u[j] = x[model.VarU]
		}
		apd, ok := analysis.APD(result.Times, u, 0.9)
		apdStr := "incomplete"
		if ok {
			apdStr = fmt.Sprintf("%.2f", apd)
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.4f\t%s\t%.2f\n",
			name, u[len(u)-1], analysis.Amplitude(u), apdStr,
			float64(elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	integ, err := getIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	view := viz.NewModel(m, integ, cfg.BuildProtocol(), cfg.GetInitState(), cfg.Dt, cfg.ParamSet)
	p := tea.NewProgram(view)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
