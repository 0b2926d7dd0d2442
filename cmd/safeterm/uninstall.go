package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func runUninstall(args []string) int {
	fs := flag.NewFlagSet("uninstall", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	claudeHome := fs.String("claude-home", filepath.Join(os.Getenv("HOME"), ".claude"), "claude home")
	geminiHome := fs.String("gemini-home", filepath.Join(os.Getenv("HOME"), ".gemini"), "gemini home")
	hostsFlag := fs.String("hosts", "", "comma-separated hosts to unregister (claude,codex,gemini)")
	dryRun := fs.Bool("dry-run", false, "print actions only")
	if err := fs.Parse(args); err != nil {
		fmt.Println("Invalid flags.")
		return 1
	}

	*claudeHome = expandPath(*claudeHome)
	*geminiHome = expandPath(*geminiHome)

	selected := map[string]bool{"claude": true, "codex": true, "gemini": true}
	if *hostsFlag != "" {
		selected = parseHostsFlag(*hostsFlag)
	}

	if selected["claude"] {
		if err := removeJSONHostMCP(claudeMCPPath(*claudeHome), *dryRun); err != nil {
			fmt.Printf("Claude MCP removal failed: %v\n", err)
			return 1
		}
	}
	if selected["gemini"] {
		if err := removeJSONHostMCP(geminiSettingsPath(*geminiHome), *dryRun); err != nil {
			fmt.Printf("Gemini MCP removal failed: %v\n", err)
			return 1
		}
	}
	if selected["codex"] {
		if err := removeCodexMCP(*dryRun); err != nil {
			fmt.Printf("Codex MCP removal failed: %v\n", err)
			return 1
		}
	}

	fmt.Println("Done.")
	return 0
}
