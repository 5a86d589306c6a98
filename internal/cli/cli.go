// Package cli implements the appaudit command line interface.
package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  appaudit <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"appaudit <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, handler func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = handler(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .appaudit/config.yml", []string{
		"appaudit init [--config <path>]",
	}, runInit),
	command("validate", "Validate the audit configuration", []string{
		"appaudit validate [--config <path>]",
	}, runValidate),
	command("run", "Audit the application inventory", []string{
		"appaudit run [--config <path>] [--app <id>] [--filter <text>] [--runtime true|false]",
		"appaudit run [--ui auto|live|plain] [--verbose] [--no-color] [--log <path>] [--output-dir <dir>]",
	}, runRun),
	command("apps", "List or inspect registered applications", []string{
		"appaudit apps list [--config <path>] [--filter <text>]",
		"appaudit apps show <id> [--config <path>]",
	}, runApps),
	command("import", "Update the one application matching a filter", []string{
		"appaudit import --match <text> <definition.json> [--config <path>]",
	}, runImport),
	command("report", "Render stored runs as an HTML report", []string{
		"appaudit report [--config <path>] [--run <id>] [--output <path>] [--from-store]",
	}, runReport),
	command("serve", "Serve the HTML report over HTTP", []string{
		"appaudit serve [--config <path>] [--addr <host:port>]",
	}, runServe),
}
