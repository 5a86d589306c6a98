package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"appaudit/internal/audit"
	"appaudit/internal/config"
	"appaudit/internal/store"
	"appaudit/internal/ui/live"
)

// runAndWrite is a test seam for executing the audit pipeline.
var runAndWrite = audit.RunAndWrite

// ingestRun is a test seam for persisting results into the store.
var ingestRun = ingestIntoStore

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .appaudit/config.yml)")
		appID := flags.String("app", "", "Audit a single application id")
		filter := flags.String("filter", "", "Server-side name filter for discovery")
		runtimeFlag := flags.String("runtime", "", "Override runtime criteria (true|false)")
		uiMode := flags.String("ui", "auto", "Progress UI mode (auto|live|plain)")
		verbose := flags.Bool("verbose", false, "Print one line per progress event")
		noColor := flags.Bool("no-color", false, "Disable ANSI colors")
		logPath := flags.String("log", "", "Append plain progress lines to a file")
		outputDir := flags.String("output-dir", "", "Override the output directory")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if *appID != "" && *filter != "" {
			fmt.Fprintln(stderr, "--app and --filter are mutually exclusive")
			return ExitUsage
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		if *runtimeFlag != "" {
			enabled, err := strconv.ParseBool(*runtimeFlag)
			if err != nil {
				fmt.Fprintf(stderr, "invalid --runtime value %q (expected true or false)\n", *runtimeFlag)
				return ExitUsage
			}
			cfg.Audit.Runtime = &enabled
		}

		colorOff := *noColor || colorDisabledByEnv()
		decision, err := resolveUIMode(*uiMode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		var observers []audit.RunObserver
		var controller *live.Controller
		if decision.useLive {
			controller = live.Start(stdout, live.Options{NoColor: colorOff})
			observers = append(observers, controller)
		} else if *verbose {
			observers = append(observers, audit.NewVerboseObserver(stdout, colorOff))
		}
		if *logPath != "" {
			logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to open log file: %v\n", err)
				return ExitError
			}
			defer logFile.Close()
			observers = append(observers, audit.NewVerboseObserver(logFile, true))
		}

		params := audit.RunParams{
			AppID:     *appID,
			Filter:    *filter,
			OutputDir: resolveOutputDir(resolved, cfg, *outputDir),
		}
		params.Deps.Observer = observe(observers)

		results, paths, err := runAndWrite(context.Background(), cfg, params)
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}

		if err := audit.WriteCSV(stdout, results); err != nil {
			fmt.Fprintf(stderr, "Failed to render table: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "\nRun %s completed: %d/%d applications compliant\n",
			results.RunID, results.Summary.AppsCompliant, results.Summary.AppsTotal)
		fmt.Fprintf(stdout, "Results: %s\n", paths.ResultsPath())
		fmt.Fprintf(stdout, "Report: %s\n", paths.ReportPath())

		if storePath := resolveStorePath(resolved, cfg); storePath != "" {
			if err := ingestRun(context.Background(), storePath, results); err != nil {
				fmt.Fprintf(stderr, "Failed to store run: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Stored in %s\n", storePath)
		}
		return ExitOK
	}
}

// observe folds the configured observers into a single one. Nil when
// nothing observes the run.
func observe(observers []audit.RunObserver) audit.RunObserver {
	switch len(observers) {
	case 0:
		return nil
	case 1:
		return observers[0]
	default:
		return teeObserver(observers)
	}
}

// teeObserver fans run events out to several observers.
type teeObserver []audit.RunObserver

func (t teeObserver) OnRunStart(runID string, criteriaRefs []string) {
	for _, observer := range t {
		observer.OnRunStart(runID, criteriaRefs)
	}
}

func (t teeObserver) OnAppEvent(event audit.AppEvent) {
	for _, observer := range t {
		observer.OnAppEvent(event)
	}
}

func (t teeObserver) OnRunEnd(results audit.Results) {
	for _, observer := range t {
		observer.OnRunEnd(results)
	}
}

// ingestIntoStore persists a finished run into the DuckDB store.
func ingestIntoStore(ctx context.Context, path string, results audit.Results) error {
	db, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()
	return store.IngestRun(ctx, db, results)
}
