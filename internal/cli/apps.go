package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"appaudit/internal/config"
	"appaudit/internal/mgmt"
	"appaudit/internal/spec"
)

// newManagementClient builds an authenticated management client from the
// resolved configuration and the credential environment.
func newManagementClient(ctx context.Context, cfg spec.ManagementConfig) (*mgmt.Client, error) {
	credentials, err := mgmt.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond}
	client, err := mgmt.NewClient(cfg.BaseURL, credentials, httpClient)
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// listAllApplications drains every page of a filtered listing.
func listAllApplications(ctx context.Context, client *mgmt.Client, query string, pageSize int) ([]mgmt.Application, error) {
	var apps []mgmt.Application
	for page := 1; ; page++ {
		result, err := client.ListApplications(ctx, mgmt.ListParams{Query: query, Page: page, Size: pageSize})
		if err != nil {
			return nil, err
		}
		apps = append(apps, result.Data...)
		if len(result.Data) == 0 || page >= result.Page.TotalPages {
			return apps, nil
		}
	}
}

func runApps(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		if len(args) == 0 {
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		switch args[0] {
		case "list":
			return appsList(cmd, args[1:], stdout, stderr)
		case "show":
			return appsShow(cmd, args[1:], stdout, stderr)
		default:
			fmt.Fprintf(stderr, "Unknown apps subcommand: %s\n\n", args[0])
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
	}
}

func appsList(cmd *Command, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("apps list", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to config file (default: search for .appaudit/config.yml)")
	filter := flags.String("filter", "", "Server-side name filter")
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
		fmt.Fprintf(stderr, "Failed to list applications: %v\n", err)
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
		fmt.Fprintf(stderr, "Failed to list applications: %v\n", err)
		return ExitError
	}
	apps, err := listAllApplications(ctx, client, *filter, cfg.Audit.PageSize)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to list applications: %v\n", err)
		return ExitError
	}
	if len(apps) == 0 {
		fmt.Fprintln(stdout, "No applications found.")
		return ExitOK
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tTYPE\tOWNER")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", app.ID, app.Name, app.Status, app.Type, app.Owner.DisplayName)
	}
	w.Flush()
	fmt.Fprintf(stdout, "\n%d applications\n", len(apps))
	return ExitOK
}

func appsShow(cmd *Command, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("apps show", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to config file (default: search for .appaudit/config.yml)")
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "apps show expects exactly one application id")
		printCommandUsage(cmd, stderr)
		return ExitUsage
	}
	appID := flags.Arg(0)

	resolved, err := resolveConfigPath(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to show application: %v\n", err)
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
		fmt.Fprintf(stderr, "Failed to show application: %v\n", err)
		return ExitError
	}
	app, err := client.GetApplication(ctx, appID)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to show application: %v\n", err)
		return ExitError
	}
	subscriptions, err := client.ListSubscriptions(ctx, appID)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to show application: %v\n", err)
		return ExitError
	}

	printApplication(stdout, app)
	printSubscriptions(stdout, subscriptions)
	return ExitOK
}

func printApplication(stdout io.Writer, app mgmt.Application) {
	fmt.Fprintf(stdout, "Id:          %s\n", app.ID)
	fmt.Fprintf(stdout, "Name:        %s\n", app.Name)
	fmt.Fprintf(stdout, "Description: %s\n", app.Description)
	if app.Status != "" {
		fmt.Fprintf(stdout, "Status:      %s\n", app.Status)
	}
	if app.Type != "" {
		fmt.Fprintf(stdout, "Type:        %s\n", app.Type)
	}
	if app.Owner.DisplayName != "" {
		fmt.Fprintf(stdout, "Owner:       %s\n", app.Owner.DisplayName)
	}
	if clientID := app.ClientID(); clientID != "" {
		fmt.Fprintf(stdout, "Client id:   %s\n", clientID)
	}
	if app.CreatedAt > 0 {
		fmt.Fprintf(stdout, "Created:     %s\n", formatEpochMillis(app.CreatedAt))
	}
	if app.UpdatedAt > 0 {
		fmt.Fprintf(stdout, "Updated:     %s\n", formatEpochMillis(app.UpdatedAt))
	}
}

func printSubscriptions(stdout io.Writer, subscriptions []mgmt.Subscription) {
	fmt.Fprintln(stdout)
	if len(subscriptions) == 0 {
		fmt.Fprintln(stdout, "No subscriptions.")
		return
	}
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "API\tPLAN\tSTATUS\tSECURITY")
	for _, sub := range subscriptions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sub.API, sub.Plan, sub.Status, sub.Security)
	}
	w.Flush()
}

// formatEpochMillis renders a management service timestamp in UTC.
func formatEpochMillis(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04:05 MST")
}
