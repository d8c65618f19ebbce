package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/surfkin/internal/config"
	"github.com/san-kum/surfkin/internal/storage"
	"github.com/san-kum/surfkin/internal/study"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	endTime    float64
	jsonOut    string
	// Sensitivity sweep
	perturbation float64
	// Plot axes
	plotSpecies []string
	plotRates   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "surfkin",
		Short: "isothermal gas and catalytic-surface reactor simulation",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".surfkin", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "integrate a mechanism and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "mechanism file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset mechanism")
	runCmd.Flags().Float64Var(&endTime, "time", 0, "integration horizon in seconds (overrides mechanism)")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also export the full trajectory as json to this path, - for stdout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored species trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotSpecies, "species", nil, "species labels to plot (default all)")
	plotCmd.Flags().BoolVar(&plotRates, "rates", false, "plot reaction rates instead of amounts")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print stored run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available preset mechanisms",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [name]",
		Short: "run a rate-coefficient sensitivity sweep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "mechanism file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset mechanism")
	sweepCmd.Flags().Float64Var(&endTime, "time", 0, "integration horizon in seconds (overrides mechanism)")
	sweepCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-3, "relative rate-coefficient perturbation")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, presetsCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadModel resolves the mechanism from --preset, --config, or a bare
// preset name argument, in that order.
func loadModel(args []string) (string, *config.Model, error) {
	name := preset
	if name == "" && len(args) > 0 && configFile == "" {
		name = args[0]
	}

	var cfg *config.Config
	switch {
	case name != "":
		cfg = config.Preset(name)
		if cfg == nil {
			return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	case configFile != "":
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		name = configFile
		if len(args) > 0 {
			name = args[0]
		}
	default:
		return "", nil, fmt.Errorf("either a preset name or --config is required")
	}

	model, err := cfg.Build()
	if err != nil {
		return "", nil, err
	}
	if endTime > 0 {
		model.EndTime = endTime
		model.Termination = append(model.Termination, reactorTerminationTime(endTime))
	}
	if model.EndTime == 0 {
		return "", nil, fmt.Errorf("mechanism has no end time; set simulation.end_time or --time")
	}
	return name, model, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	name, model, err := loadModel(args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	r, err := buildReactor(model)
	if err != nil {
		return err
	}

	fmt.Printf("integrating %s...\n", name)
	start := time.Now()

	result, err := r.Simulate(context.Background(), model.Options)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(sanitizeName(name), r, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("status: %s\n", result.Status)
	fmt.Printf("samples: %d\n", len(result.Times))
	fmt.Printf("solver steps: %d\n", result.SolverSteps)

	if len(result.States) > 0 {
		final := result.States[len(result.States)-1]
		fmt.Println("\nfinal amounts (mol):")
		spix := r.Species()
		for i := 0; i < spix.NumCore(); i++ {
			fmt.Printf("  %s: %.6e\n", spix.At(i).Label, final[i])
		}
	}

	switch jsonOut {
	case "":
	case "-":
		if err := storage.ExportJSONStdout(name, r, result); err != nil {
			return err
		}
	default:
		if err := storage.ExportJSON(jsonOut, name, r, result); err != nil {
			return err
		}
		fmt.Printf("\nexported to %s\n", jsonOut)
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
	fmt.Fprintln(w, "ID\tMECHANISM\tTIME\tT(K)\tP(Pa)\tEND\tSAMPLES\tSTATUS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.3e\t%.3e\t%d\t%s\n",
			run.ID,
			run.Mechanism,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Temperature,
			run.Pressure,
			run.EndTime,
			run.Samples,
			run.Status,
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

	_, rows, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mechanism: %s\n", meta.Mechanism)
	fmt.Printf("samples: %d\n\n", len(rows))

	// Columns are species amounts followed by reaction rates.
	var columns []int
	var captions []string
	if plotRates {
		for j := range meta.Reactions {
			columns = append(columns, len(meta.Species)+j)
			captions = append(captions, fmt.Sprintf("rate of %s (mol/s)", meta.Reactions[j]))
		}
	} else if len(plotSpecies) > 0 {
		for _, label := range plotSpecies {
			found := false
			for j, sp := range meta.Species {
				if sp == label {
					columns = append(columns, j)
					captions = append(captions, fmt.Sprintf("%s (mol)", sp))
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("species %s not in run %s", label, runID)
			}
		}
	} else {
		for j, sp := range meta.Species {
			columns = append(columns, j)
			captions = append(captions, fmt.Sprintf("%s (mol)", sp))
		}
	}

	for k, col := range columns {
		data := make([]float64, len(rows))
		for i := range rows {
			if col < len(rows[i]) {
				data[i] = rows[i][col]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[k]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	return printJSON(meta)
}

func runSweep(cmd *cobra.Command, args []string) error {
	name, model, err := loadModel(args)
	if err != nil {
		return err
	}

	mech := study.Mechanism{
		CoreSpecies:   model.CoreSpecies,
		CoreReactions: model.CoreReactions,
		EdgeSpecies:   model.EdgeSpecies,
		EdgeReactions: model.EdgeReactions,
	}
	sweep := study.New(model.Conditions, mech, study.Config{
		Perturbation: perturbation,
		EndTime:      model.EndTime,
	})

	fmt.Printf("sweeping %d reactions of %s...\n", len(model.CoreReactions), name)
	start := time.Now()

	results, err := sweep.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "REACTION"
	for _, sp := range model.CoreSpecies {
		header += "\t" + sp.Label
	}
	fmt.Fprintln(w, header)

	for _, sens := range results {
		row := model.CoreReactions[sens.Reaction].String()
		for _, c := range sens.Coefficients {
			row += fmt.Sprintf("\t%+.4e", c)
		}
		fmt.Fprintln(w, row)
	}

	return w.Flush()
}
