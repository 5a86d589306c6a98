package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"appaudit/internal/config"
	"appaudit/internal/mgmt"
)

func runImport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .appaudit/config.yml)")
		match := flags.String("match", "", "Name filter that must select exactly one application")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if strings.TrimSpace(*match) == "" {
			fmt.Fprintln(stderr, "--match is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "import expects exactly one definition file")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		definitionPath := flags.Arg(0)

		definition, err := readDefinition(definitionPath)
		if err != nil {
			fmt.Fprintf(stderr, "Import failed: %v\n", err)
			return ExitError
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Import failed: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		ctx := context.Background()
		client, err := newManagementClient(ctx, cfg.Management)
		if err != nil {
			fmt.Fprintf(stderr, "Import failed: %v\n", err)
			return ExitError
		}
		target, err := resolveImportTarget(ctx, client, *match, cfg.Audit.PageSize)
		if err != nil {
			fmt.Fprintf(stderr, "Import failed: %v\n", err)
			return ExitError
		}

		updated, err := client.UpdateApplication(ctx, target.ID, definition)
		if err != nil {
			fmt.Fprintf(stderr, "Import failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Updated %s (%s)\n", updated.Name, updated.ID)
		return ExitOK
	}
}

// readDefinition parses an application definition file.
func readDefinition(path string) (mgmt.Application, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return mgmt.Application{}, err
	}
	var definition mgmt.Application
	if err := json.Unmarshal(contents, &definition); err != nil {
		return mgmt.Application{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return definition, nil
}

// resolveImportTarget finds the single application selected by the match
// filter. Zero or multiple matches abort the import.
func resolveImportTarget(ctx context.Context, client *mgmt.Client, match string, pageSize int) (mgmt.Application, error) {
	apps, err := listAllApplications(ctx, client, match, pageSize)
	if err != nil {
		return mgmt.Application{}, err
	}
	switch len(apps) {
	case 0:
		return mgmt.Application{}, fmt.Errorf("no application matches %q", match)
	case 1:
		return apps[0], nil
	default:
		names := make([]string, 0, len(apps))
		for _, app := range apps {
			names = append(names, app.Name)
		}
		return mgmt.Application{}, fmt.Errorf("%d applications match %q: %s", len(apps), match, strings.Join(names, ", "))
	}
}
