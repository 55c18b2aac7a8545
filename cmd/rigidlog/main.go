package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigidlog/internal/config"
	"github.com/san-kum/rigidlog/internal/dynamo"
	"github.com/san-kum/rigidlog/internal/export"
	"github.com/san-kum/rigidlog/internal/integrators"
	"github.com/san-kum/rigidlog/internal/metrics"
	"github.com/san-kum/rigidlog/internal/scenes"
	"github.com/san-kum/rigidlog/internal/storage"
	"github.com/san-kum/rigidlog/internal/telemetry"
	"github.com/san-kum/rigidlog/internal/viz"
	"github.com/spf13/cobra"
)

var (
	outDir   string
	logLevel string
	theme    string

	dt         float64
	duration   float64
	integrator string
	launchVX   float64
	launchVY   float64
	gravityZ   float64
	spheres    int
	layers     int
	rowDir     string
	rowPrefix  string
	docDir     string
	docPrefix  string
	nameTag    string
	flushEvery int
	configFile string
	preset     string
	live       bool
	speed      float64

	plotBody   string
	plotColumn string
	speedLimit float64
	exportPath string
	svgPath    string
	svgWidth   int
	svgHeight  int
)

// main executes the root command and exits with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.Style.Error.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// newRootCmd registers every command and binds its flags.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rigidlog",
		Short:         "record rigid-body demo scenes as row logs and frame documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viz.SetTheme(theme)
		},
	}

	rootCmd.PersistentFlags().StringVar(&outDir, "out", ".", "output root for row logs and documents")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.PersistentFlags().StringVar(&rowDir, "row-dir", config.DefaultRowDir, "row log directory, relative to --out")
	rootCmd.PersistentFlags().StringVar(&docDir, "doc-dir", config.DefaultDocDir, "document directory, relative to --out")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "simulate a scene and record its telemetry",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (rk4, euler)")
	runCmd.Flags().Float64Var(&launchVX, "launch-vx", 0, "launch velocity x of the cue ball")
	runCmd.Flags().Float64Var(&launchVY, "launch-vy", 0, "launch velocity y of the cue ball")
	runCmd.Flags().Float64Var(&gravityZ, "gravity-z", 0, "gravity along z")
	runCmd.Flags().IntVar(&spheres, "spheres", 0, "sphere count (cradle, bernoulli)")
	runCmd.Flags().IntVar(&layers, "layers", 0, "layer count (billiards, geyser)")
	runCmd.Flags().StringVar(&rowPrefix, "row-prefix", "", "row log prefix (default: per scene)")
	runCmd.Flags().StringVar(&docPrefix, "doc-prefix", config.DefaultDocPrefix, "document prefix")
	runCmd.Flags().StringVar(&nameTag, "name-tag", config.DefaultNameTag, "suffix appended to body names in the document")
	runCmd.Flags().IntVar(&flushEvery, "flush-every", config.DefaultFlushEvery, "flush the row log every n ticks")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&live, "live", false, "show the run in a live terminal view")
	runCmd.Flags().Float64Var(&speed, "speed", 1, "live playback speed relative to real time (0 = unpaced)")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list demo scenes",
		RunE:  listScenes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded row logs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [row log | prefix]",
		Short: "plot one column of one body from a row log",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "", "body name (default: first body)")
	plotCmd.Flags().StringVar(&plotColumn, "column", "p_y", "column ("+strings.Join(telemetry.RowColumns, ", ")+")")

	statsCmd := &cobra.Command{
		Use:   "stats [row log | prefix]",
		Short: "energy and momentum conservation of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  statsRun,
	}
	statsCmd.Flags().Float64Var(&speedLimit, "speed-limit", 0, "speed bound for the stability metric (default: fastest initial body)")

	exportCmd := &cobra.Command{
		Use:   "export [row log | prefix]",
		Short: "export a row log as column-oriented JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "write to file instead of stdout")

	svgCmd := &cobra.Command{
		Use:   "svg [row log | prefix]",
		Short: "draw body trajectories from above as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&svgPath, "output", "o", "trajectories.svg", "output file")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	inspectCmd := &cobra.Command{
		Use:   "inspect [document]",
		Short: "summarize a frame document",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectDocument,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with the defaults of a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, scenesCmd, presetsCmd, listCmd, plotCmd, statsCmd, exportCmd, svgCmd, inspectCmd, initCmd)
	return rootCmd
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// resolveConfig layers the run settings: defaults, then preset, then
// config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Scene = args[0]
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("launch-vx") {
		cfg.Launch.X = launchVX
	}
	if flags.Changed("launch-vy") {
		cfg.Launch.Y = launchVY
	}
	if flags.Changed("gravity-z") {
		cfg.Gravity.Z = gravityZ
	}
	if flags.Changed("spheres") {
		cfg.Layout.Spheres = spheres
	}
	if flags.Changed("layers") {
		cfg.Layout.Layers = layers
	}
	if flags.Changed("row-dir") {
		cfg.Output.RowDir = rowDir
	}
	if flags.Changed("row-prefix") {
		cfg.Output.RowPrefix = rowPrefix
	}
	if flags.Changed("doc-dir") {
		cfg.Output.DocDir = docDir
	}
	if flags.Changed("doc-prefix") {
		cfg.Output.DocPrefix = docPrefix
	}
	if flags.Changed("name-tag") {
		cfg.Output.NameTag = nameTag
	}
	if flags.Changed("flush-every") {
		cfg.Output.FlushEvery = flushEvery
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func vec(v config.Vec3Config) dynamo.Vec3 {
	return dynamo.V(v.X, v.Y, v.Z)
}

// buildRunConfig maps a resolved config onto a scene run. Zero layout and
// launch values keep the scene defaults.
func buildRunConfig(cfg *config.Config, entry scenes.Entry, logger *slog.Logger) (scenes.RunConfig, error) {
	integ, ok := integrators.ByName(cfg.Integrator)
	if !ok {
		return scenes.RunConfig{}, fmt.Errorf("unknown integrator: %s", cfg.Integrator)
	}

	params := entry.Defaults
	if launch := vec(cfg.Launch); launch != (dynamo.Vec3{}) {
		params.Launch = launch
	}
	params.Gravity = vec(cfg.Gravity)
	if cfg.Layout.Spheres > 0 {
		params.Spheres = cfg.Layout.Spheres
	}
	if cfg.Layout.Layers > 0 {
		params.Layers = cfg.Layout.Layers
	}

	opts := telemetry.Options{
		RowDir:     underOut(cfg.Output.RowDir),
		RowPrefix:  cfg.Output.RowPrefix,
		DocDir:     underOut(cfg.Output.DocDir),
		DocPrefix:  cfg.Output.DocPrefix,
		NameTag:    cfg.Output.NameTag,
		FlushEvery: cfg.Output.FlushEvery,
		Logger:     logger,
	}
	if opts.RowPrefix == "" {
		opts.RowPrefix = entry.RowPrefix
	}
	if opts.DocPrefix == "" {
		opts.DocPrefix = telemetry.DefaultDocPrefix
	}

	return scenes.RunConfig{
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Params:     params,
		Integrator: integ,
		Telemetry:  opts,
	}, nil
}

func underOut(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(outDir, dir)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	entry, err := scenes.NewRegistry().Get(cfg.Scene)
	if err != nil {
		return err
	}

	// the live view owns the terminal, so its logs are dropped
	logOut := io.Writer(os.Stderr)
	if live {
		logOut = io.Discard
	}
	logger, err := newLogger(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	rc, err := buildRunConfig(cfg, entry, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("rigidlog: starting run", "scene", entry.Name, "dt", cfg.Dt, "duration", cfg.Duration, "integrator", cfg.Integrator)

	var summary *scenes.Summary
	if live {
		summary, err = runLive(ctx, entry, rc, cfg.Steps())
	} else {
		fmt.Printf("recording %s...\n", entry.Name)
		summary, err = scenes.Run(ctx, entry, rc)
	}
	if summary != nil {
		printSummary(summary)
	}
	return err
}

func runLive(ctx context.Context, entry scenes.Entry, rc scenes.RunConfig, total int) (*scenes.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(viz.NewLive(entry.Name, total, cancel))

	pace := time.Duration(0)
	if speed > 0 {
		pace = time.Duration(rc.Dt / speed * float64(time.Second))
	}
	rc.OnProgress = func(pr scenes.Progress) {
		p.Send(viz.ProgressMsg(pr))
		if pace > 0 {
			time.Sleep(pace)
		}
	}

	go func() {
		summary, err := scenes.Run(ctx, entry, rc)
		p.Send(viz.DoneMsg{Summary: summary, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(viz.Live).Result()
}

func printSummary(s *scenes.Summary) {
	st := viz.Style
	fmt.Println(st.Header.Render(strings.ToUpper(s.Scene)))
	if s.RunID != "" {
		fmt.Println(st.KV("Run", s.RunID))
	}
	fmt.Println(st.KV("Bodies", s.Bodies))
	fmt.Println(st.KV("Ticks", s.Ticks))
	fmt.Println(st.KV("Sim time", fmt.Sprintf("%.3fs", s.SimTime)))
	fmt.Println(st.KV("Elapsed", s.Elapsed.Round(time.Millisecond)))
	if s.RowLog != "" {
		fmt.Println(st.KV("Row log", s.RowLog))
	} else {
		fmt.Println(st.KV("Row log", st.Warning.Render("not written")))
	}
	fmt.Println(st.KV("Document", s.Document))
	if s.RowFailures > 0 {
		fmt.Println(st.KV("Row failures", st.Error.Render(fmt.Sprint(s.RowFailures))))
	}
}

func listScenes(cmd *cobra.Command, args []string) error {
	reg := scenes.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tROW PREFIX\tDESCRIPTION")
	for _, name := range reg.List() {
		e, _ := reg.Get(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.RowPrefix, e.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := scenes.NewRegistry().List()
	if len(args) > 0 {
		names = args
	}

	for _, scene := range names {
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
}

func newStore() *storage.Store {
	return storage.New(outDir).WithDirs(rowDir, docDir)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := newStore()
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Printf("no row logs in %s\n", st.RowDir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tPREFIX\tRUN\tSIZE\tMODIFIED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			run.Name,
			run.Prefix,
			run.Index,
			run.Size,
			run.ModTime.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

// loadRowLog accepts a file path or a row log prefix, which selects the
// latest run with that prefix.
func loadRowLog(arg string) (*storage.RowLog, error) {
	path := arg
	if !strings.HasSuffix(arg, ".csv") {
		run, err := newStore().Latest(arg)
		if err != nil {
			return nil, err
		}
		path = run.Path
	}
	return storage.LoadRowLog(path)
}

func plotRun(cmd *cobra.Command, args []string) error {
	log, err := loadRowLog(args[0])
	if err != nil {
		return err
	}
	if log.Ticks() == 0 {
		return fmt.Errorf("no data to plot")
	}

	body := plotBody
	if body == "" {
		body = log.Bodies[0]
	}
	data, err := log.Series(body, plotColumn)
	if err != nil {
		return err
	}

	fmt.Printf("row log: %s\n", log.Path)
	fmt.Printf("ticks: %d\n\n", log.Ticks())

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s %s vs tick", body, plotColumn)),
	)
	fmt.Println(graph)
	return nil
}

func statsRun(cmd *cobra.Command, args []string) error {
	log, err := loadRowLog(args[0])
	if err != nil {
		return err
	}
	if log.Ticks() == 0 {
		return fmt.Errorf("no data in %s", log.Path)
	}

	limit := speedLimit
	if limit <= 0 {
		for _, v := range log.Velocities(0) {
			limit = max(limit, v.Len())
		}
		limit *= 1.01
	}

	ms := metrics.Standard(limit)
	for i := 0; i < log.Ticks(); i++ {
		metrics.ObserveAll(ms, log.Velocities(i), float64(i))
	}

	st := viz.Style
	fmt.Println(st.Header.Render(filepath.Base(log.Path)))
	fmt.Println(st.KV("Bodies", len(log.Bodies)))
	fmt.Println(st.KV("Ticks", log.Ticks()))
	if log.Truncated > 0 {
		fmt.Println(st.KV("Truncated", st.Warning.Render(fmt.Sprint(log.Truncated))))
	}
	fmt.Println(st.KV("Speed limit", fmt.Sprintf("%.4f", limit)))
	fmt.Println()
	for _, m := range ms {
		fmt.Println(st.KV(m.Name(), fmt.Sprintf("%.6f", m.Value())))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	log, err := loadRowLog(args[0])
	if err != nil {
		return err
	}
	if exportPath != "" {
		return storage.ExportJSON(exportPath, log)
	}
	return storage.WriteJSON(os.Stdout, log)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	log, err := loadRowLog(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoriesToSVG(log, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("no moving bodies in %s", log.Path)
	}
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgPath)
	return nil
}

func inspectDocument(cmd *cobra.Command, args []string) error {
	st := newStore()
	path := st.DocumentPath(telemetry.DefaultDocPrefix)
	if len(args) > 0 {
		path = args[0]
	}

	doc, err := storage.LoadDocument(path)
	if err != nil {
		return err
	}

	s := viz.Style
	fmt.Println(s.Header.Render(path))
	fmt.Println(s.KV("Objects", len(doc.Meta)))
	fmt.Println(s.KV("Frames", len(doc.Frames)))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSIZE\tFIRST\tLAST")
	for _, m := range doc.Meta {
		first, last := "-", "-"
		if len(doc.Frames) > 0 {
			first = formatPosition(doc.Frames[0], m.Name)
			last = formatPosition(doc.Frames[len(doc.Frames)-1], m.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.Name, orDash(m.Type), formatSize(m), first, last)
	}
	return w.Flush()
}

func formatPosition(f telemetry.Frame, name string) string {
	pose, ok := f[name]
	if !ok {
		return "-"
	}
	p := pose.Position
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p[0], p[1], p[2])
}

func formatSize(m telemetry.ObjectMeta) string {
	switch {
	case m.Radius != nil:
		return fmt.Sprintf("r=%g", *m.Radius)
	case m.Hx != nil && m.Hy != nil && m.Hz != nil:
		return fmt.Sprintf("%gx%gx%g", *m.Hx, *m.Hy, *m.Hz)
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		scene, name, ok := strings.Cut(preset, "/")
		if !ok {
			return fmt.Errorf("preset must be scene/name, got %q", preset)
		}
		cfg = config.GetPreset(scene, name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(scene))
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
