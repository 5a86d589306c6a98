package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"appaudit/internal/audit"
	"appaudit/internal/config"
	"appaudit/internal/report"
	"appaudit/internal/store"
)

var buildReportHTML = report.BuildReportHTML

func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .appaudit/config.yml)")
		runRef := flags.String("run", "", "Render a single run by id (default: every stored run)")
		output := flags.String("output", "", "Report file path (default: <output-dir>/report.html)")
		fromStore := flags.Bool("from-store", false, "Load runs from the DuckDB store instead of the results directory")
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

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Report failed: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		outputDir := resolveOutputDir(resolved, cfg, "")

		var runs []audit.Results
		switch {
		case *fromStore:
			runs, err = loadRunsFromStore(context.Background(), resolveStorePath(resolved, cfg), *runRef)
		case *runRef != "":
			var results audit.Results
			results, _, err = report.ResolveRun(outputDir, *runRef)
			if err == nil {
				runs = []audit.Results{results}
			}
		default:
			runs, err = report.LoadAllRuns(outputDir)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Report failed: %v\n", err)
			return ExitError
		}
		if len(runs) == 0 {
			fmt.Fprintln(stderr, "Report failed: no runs recorded yet")
			return ExitError
		}

		html := buildReportHTML(runs)
		if html == "" {
			fmt.Fprintln(stderr, "Report failed: could not render the report")
			return ExitError
		}

		reportPath := strings.TrimSpace(*output)
		if reportPath == "" {
			reportPath = filepath.Join(outputDir, "report.html")
		}
		if err := os.MkdirAll(filepath.Dir(reportPath), 0o755); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}
		if err := os.WriteFile(reportPath, []byte(html), 0o644); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Report written to %s\n", reportPath)
		return ExitOK
	}
}

// loadRunsFromStore reads runs from the DuckDB store, most recent
// first. A run reference narrows the load to that single run.
func loadRunsFromStore(ctx context.Context, path, runRef string) ([]audit.Results, error) {
	if path == "" {
		return nil, fmt.Errorf("no store configured: set store.path in the config")
	}
	db, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if runRef != "" {
		results, err := store.LoadRun(ctx, db, runRef)
		if err != nil {
			return nil, err
		}
		return []audit.Results{results}, nil
	}
	summaries, err := store.ListRuns(ctx, db)
	if err != nil {
		return nil, err
	}
	runs := make([]audit.Results, 0, len(summaries))
	for _, summary := range summaries {
		results, err := store.LoadRun(ctx, db, summary.RunID)
		if err != nil {
			return nil, err
		}
		runs = append(runs, results)
	}
	return runs, nil
}
