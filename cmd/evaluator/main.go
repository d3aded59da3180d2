package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/archive"
	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/config"
	"github.com/schedeval/schedeval/internal/evaluate"
	"github.com/schedeval/schedeval/internal/report"
	"github.com/schedeval/schedeval/internal/schedule"
	"github.com/schedeval/schedeval/internal/settings"
	"github.com/schedeval/schedeval/pkg/logger"
)

// Exit codes: 0 the schedule is feasible, 1 it breaks a hard constraint,
// 2 the evaluation could not run at all.
const (
	exitFeasible   = 0
	exitInfeasible = 1
	exitSetupError = 2
)

func main() {
	env, err := settings.Load()
	if err != nil {
		log.Fatalf("cannot load settings: %v", err)
	}

	// Define arguments; environment settings provide the defaults
	referencePtr := flag.String("reference", env.ReferenceFolder, "Folder containing the reference CSVs and config.json")
	schedulePtr := flag.String("schedule", env.ScheduleFile, "Path to the proposed schedule CSV")
	outPtr := flag.String("out", env.OutputFolder, "Folder where reports will be written (ignored when archiving)")
	rulebookPtr := flag.String("rulebook", env.RulebookFile, "Path to the rulebook config.json; defaults to <reference>/config.json")
	noArchivePtr := flag.Bool("no-archive", !env.ArchiveRuns, "Skip the timestamped run archive and write reports to -out directly")
	workersPtr := flag.Int("workers", env.Workers, "Constraint rules checked concurrently; 1 runs them serially")
	quietPtr := flag.Bool("quiet", false, "Only log errors")
	flag.Parse()

	level := env.Log.Level
	if *quietPtr {
		level = "error"
	}
	zlog, err := logger.New(level, env.Log.Format, env.Production())
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer zlog.Sync()

	os.Exit(run(zlog, env, *referencePtr, *schedulePtr, *outPtr, *rulebookPtr, !*noArchivePtr, *workersPtr))
}

func run(zlog *zap.Logger, env settings.Settings, referenceDir, schedulePath, outDir, rulebookPath string, archiveRun bool, workers int) int {
	//** Snapshot the run, then evaluate the copies
	if archiveRun {
		run, err := archive.Create(env.ArchiveFolder, referenceDir, schedulePath, zlog)
		if err != nil {
			zlog.Error("run archive failed", zap.Error(err))
			return exitSetupError
		}
		referenceDir = run.ReferenceDir
		schedulePath = run.SchedulePath(schedulePath)
		outDir = run.OutputDir
	}

	//** Load reference data and the rulebook
	cat, err := catalog.Load(referenceDir, zlog)
	if err != nil {
		zlog.Error("reference data failed to load", zap.Error(err))
		return exitSetupError
	}

	if rulebookPath == "" {
		rulebookPath = filepath.Join(referenceDir, "config.json")
	}
	cfg, err := config.Load(rulebookPath, zlog)
	if err != nil {
		zlog.Error("rulebook failed to load", zap.Error(err))
		return exitSetupError
	}

	//** Load and evaluate the proposed schedule
	rows, err := schedule.ReadRows(schedulePath, zlog)
	if err != nil {
		zlog.Error("schedule failed to load", zap.Error(err))
		return exitSetupError
	}

	result := evaluate.NewEvaluator(cat, cfg, zlog, workers).Evaluate(rows)

	if err := report.NewReporter(cat, cfg, zlog).WriteAll(outDir, result); err != nil {
		zlog.Error("report generation failed", zap.Error(err))
		return exitSetupError
	}

	printSummary(result, outDir)
	if !result.Feasible() {
		return exitInfeasible
	}
	return exitFeasible
}

func printSummary(result *evaluate.Result, outDir string) {
	fmt.Println("==============================================================")
	fmt.Println("EVALUATION COMPLETE")
	fmt.Println("==============================================================")
	if result.Feasible() {
		fmt.Println("FEASIBLE SCHEDULE (no hard violations)")
	} else {
		fmt.Printf("INFEASIBLE SCHEDULE (%d hard violations)\n", len(result.HardViolations))
	}
	fmt.Printf("\nHard Violations: %d\n", len(result.HardViolations))
	fmt.Printf("Soft Violations: %d\n", len(result.SoftViolations))
	fmt.Printf("Total Penalty: %.2f\n", result.TotalPenalty())
	fmt.Printf("\nReports written to: %s\n", outDir)
}
