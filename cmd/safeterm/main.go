package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	cmd, rest := resolveCommand(os.Args[1:])
	switch cmd {
	case "mcp":
		os.Exit(runMCPServer(rest))
	case "install":
		os.Exit(runInstall(rest))
	case "uninstall":
		os.Exit(runUninstall(rest))
	case "doctor":
		os.Exit(runDoctor(rest))
	case "runs":
		os.Exit(runRuns(rest))
	default:
		printHelp()
		os.Exit(1)
	}
}

func resolveCommand(args []string) (string, []string) {
	subcommands := map[string]bool{
		"mcp":       true,
		"install":   true,
		"uninstall": true,
		"doctor":    true,
		"runs":      true,
	}

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if subcommands[args[0]] {
			return args[0], args[1:]
		}
	}
	return "", args
}

func printHelp() {
	fmt.Print(`safeterm

Usage:
  safeterm <command> [options]

Commands:
  mcp                  Run the AI-safe terminal MCP server (stdio)
  install              Register the server with host agent CLIs
  uninstall            Remove host registrations
  doctor               Check the local environment
  runs                 List recent command invocations
`)
}
