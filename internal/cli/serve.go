package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"appaudit/internal/config"
	"appaudit/internal/reportserver"
)

// serveReport is a test seam for running the report server.
var serveReport = reportserver.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .appaudit/config.yml)")
		addr := flags.String("addr", "127.0.0.1:5000", "Address to listen on")
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
		if *addr == "" {
			fmt.Fprintln(stderr, "Missing --addr")
			return ExitUsage
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		dbPath := resolveStorePath(resolved, cfg)
		if dbPath != "" {
			if _, err := os.Stat(dbPath); err != nil {
				fmt.Fprintf(stderr, "Warning: store file not found, /data/db.duckdb will be unavailable: %v\n", err)
				dbPath = ""
			}
		}

		serverCfg := reportserver.Config{
			Addr:      *addr,
			OutputDir: resolveOutputDir(resolved, cfg, ""),
			DBPath:    dbPath,
		}
		fmt.Fprintf(stdout, "Serving report at http://%s\n", serverCfg.Addr)
		if err := serveReport(context.Background(), serverCfg); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
