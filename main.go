package main

import (
	"fmt"
	"os"

	"github.com/kauel/railsim/internal/cli"
)

var (
	// overridable command handler for easier unit-testing
	runShell = cli.RunShell
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command logic and returns an exit code (0 = success).
// Keeping this function small makes unit-testing straightforward.
func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	cmd := args[0]
	cmdArgs := args[1:]

	var err error
	switch cmd {
	case "shell":
		err = runShell(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: railsim <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  shell    Start the interactive track-building and train-stepping session")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config string         path to shell config file (optional)")
	fmt.Fprintln(os.Stderr, "  -load string           track layout file to load on startup (optional)")
	fmt.Fprintln(os.Stderr, "  -metrics-addr string   address for the /metrics and /health admin endpoint (optional)")
}
