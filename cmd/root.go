package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/replica-sim/replica-sim/sim"
)

var (
	// CLI flags for the run command
	scenarioPath string // Path to a YAML scenario file
	caseName     string // Name of a built-in scenario case
	logLevel     string // Log verbosity level
	outDir       string // Override for the metric output directory
	noExport     bool   // Skip writing .dat files

	// Scenario overrides
	overrideDuration    int64 // Override workload duration (ticks)
	overrideConcurrency int   // Override fixed client concurrency
	overrideSeed        int64 // Override scenario seed
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "replica-sim",
	Short: "Discrete-event simulator for replicated write flow control",
}

// runCmd executes one scenario, from a YAML file or a built-in case.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		scenario := loadScenario()
		applyOverrides(scenario)

		simulator, err := scenario.Build()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}
		simulator.Run()
		simulator.Summary().Print()

		if !noExport {
			dir := scenario.Output.Dir
			if dir == "" {
				dir = "out"
			}
			if err := simulator.Recorder.WriteDatFiles(dir); err != nil {
				logrus.Fatalf("Exporting metrics: %v", err)
			}
			logrus.Infof("Metrics written to %s/", dir)
		}
	},
}

// listCmd prints the built-in scenario cases.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in scenario cases",
	Run: func(cmd *cobra.Command, args []string) {
		for _, sc := range sim.BuiltinScenarios() {
			fmt.Printf("%-18s %d replicas, write_CL=%d, max_background=%d, controller=%s\n",
				sc.Name, len(sc.Replicas), sc.Coordinator.WriteCL,
				sc.Coordinator.MaxBackgroundWrites, controllerName(sc))
		}
	},
}

func controllerName(sc sim.Scenario) string {
	if sc.Coordinator.Pressure.Controller == "" {
		return sim.ControllerNone
	}
	return sc.Coordinator.Pressure.Controller
}

func loadScenario() *sim.Scenario {
	switch {
	case scenarioPath != "" && caseName != "":
		logrus.Fatalf("--scenario and --case are mutually exclusive")
		return nil
	case scenarioPath != "":
		sc, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Loading scenario: %v", err)
		}
		return sc
	case caseName != "":
		sc, err := sim.ScenarioByName(caseName)
		if err != nil {
			logrus.Fatalf("%v (see `replica-sim list`)", err)
		}
		return sc
	default:
		logrus.Fatalf("One of --scenario or --case is required")
		return nil
	}
}

func applyOverrides(sc *sim.Scenario) {
	if overrideDuration > 0 {
		sc.Workload.DurationTicks = overrideDuration
	}
	if overrideConcurrency > 0 {
		sc.Workload.Concurrency = overrideConcurrency
		sc.Workload.Phases = nil
		sc.Workload.Ramp = nil
	}
	if overrideSeed != 0 {
		sc.Seed = overrideSeed
	}
	if outDir != "" {
		sc.Output.Dir = outDir
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file")
	runCmd.Flags().StringVar(&caseName, "case", "", "Name of a built-in scenario case")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&outDir, "out", "", "Metric output directory (overrides the scenario)")
	runCmd.Flags().BoolVar(&noExport, "no-export", false, "Skip writing .dat metric files")

	runCmd.Flags().Int64Var(&overrideDuration, "duration", 0, "Override workload duration in ticks")
	runCmd.Flags().IntVar(&overrideConcurrency, "concurrency", 0, "Override fixed client concurrency")
	runCmd.Flags().Int64Var(&overrideSeed, "seed", 0, "Override scenario seed")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}
