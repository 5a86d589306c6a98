package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"appaudit/internal/config"
	"appaudit/internal/vcs"
)

// runInit builds the handler for the init command.
func runInit(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: ./.appaudit/config.yml)")
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

		targetPath := strings.TrimSpace(*configPath)
		if targetPath == "" {
			wd, err := os.Getwd()
			if err != nil {
				fmt.Fprintf(stderr, "Init failed: %v\n", err)
				return ExitError
			}
			targetPath = config.ConfigPath(wd)
		} else {
			abs, err := filepath.Abs(targetPath)
			if err != nil {
				fmt.Fprintf(stderr, "Init failed: %v\n", err)
				return ExitError
			}
			targetPath = abs
		}

		if err := config.Scaffold(targetPath); err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Wrote %s\n", targetPath)

		projectRoot := config.ProjectRootFromConfigPath(targetPath)
		if repoRoot := discoverGitRoot(projectRoot); repoRoot != "" {
			resultsDir := filepath.Join(projectRoot, config.DefaultOutputDir)
			updated, err := ensureIgnored(repoRoot, resultsDir)
			if err != nil {
				fmt.Fprintf(stderr, "Init failed: update .gitignore: %v\n", err)
				return ExitError
			}
			if updated {
				fmt.Fprintf(stdout, "Updated %s\n", filepath.Join(repoRoot, ".gitignore"))
			}
		}

		fmt.Fprintln(stdout, "Set APPAUDIT_MGMT_TOKEN or APPAUDIT_MGMT_USER/APPAUDIT_MGMT_PASSWORD before running an audit.")
		return ExitOK
	}
}

// discoverGitRoot is replaceable in tests to avoid a real repository.
var discoverGitRoot = defaultDiscoverGitRoot

// defaultDiscoverGitRoot returns the git root or empty when not found.
func defaultDiscoverGitRoot(startDir string) string {
	root, err := vcs.RepoRoot(context.Background(), startDir)
	if err != nil {
		return ""
	}
	return root
}
