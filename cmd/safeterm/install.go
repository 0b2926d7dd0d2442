package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func runInstall(args []string) int {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	claudeHome := fs.String("claude-home", filepath.Join(os.Getenv("HOME"), ".claude"), "claude home")
	geminiHome := fs.String("gemini-home", filepath.Join(os.Getenv("HOME"), ".gemini"), "gemini home")
	hostsFlag := fs.String("hosts", "", "comma-separated hosts to register (claude,codex,gemini)")
	interactive := fs.Bool("interactive", false, "prompt for host selection (default when TTY)")
	dryRun := fs.Bool("dry-run", false, "print actions only")
	noConfig := fs.Bool("no-config", false, "skip writing the default config")
	if err := fs.Parse(args); err != nil {
		fmt.Println(installHelp())
		return 1
	}

	*claudeHome = expandPath(*claudeHome)
	*geminiHome = expandPath(*geminiHome)

	selected := map[string]bool{"claude": true, "codex": true, "gemini": true}
	if *hostsFlag != "" {
		selected = parseHostsFlag(*hostsFlag)
	} else if *interactive || (!*dryRun && isTerminal(os.Stdout)) {
		selected = promptHostSelectionTUI()
		if len(selected) == 0 {
			fmt.Println("Installation cancelled.")
			return 0
		}
	}

	entry := serverEntry()
	if selected["claude"] {
		fmt.Printf("Register -> claude: %s\n", claudeMCPPath(*claudeHome))
		if err := ensureJSONHostMCP(claudeMCPPath(*claudeHome), entry, *dryRun); err != nil {
			fmt.Printf("Claude MCP registration failed: %v\n", err)
			return 1
		}
	}
	if selected["gemini"] {
		fmt.Printf("Register -> gemini: %s\n", geminiSettingsPath(*geminiHome))
		if err := ensureJSONHostMCP(geminiSettingsPath(*geminiHome), entry, *dryRun); err != nil {
			fmt.Printf("Gemini MCP registration failed: %v\n", err)
			return 1
		}
	}
	if selected["codex"] {
		if err := ensureCodexMCP(entry, *dryRun); err != nil {
			fmt.Printf("Codex MCP registration failed: %v\n", err)
			return 1
		}
	}

	if !*noConfig {
		dest := filepath.Join(safetermHome(), "safeterm.json")
		if pathExists(dest) {
			fmt.Printf("Config exists, skipping: %s\n", dest)
		} else if err := writeDefaultConfig(dest, *dryRun); err != nil {
			fmt.Printf("Warning: failed to write config %s: %v\n", dest, err)
		} else {
			fmt.Printf("Install config -> %s\n", dest)
		}
	}

	fmt.Println("Done.")
	return 0
}

func writeDefaultConfig(dest string, dryRun bool) error {
	if dryRun {
		fmt.Printf("Write default config -> %s\n", dest)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	cfg := Config{Defaults: normalizeDefaults(Defaults{})}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(dest, append(data, '\n'), 0o644)
}

func parseHostsFlag(flagVal string) map[string]bool {
	result := map[string]bool{}
	for _, host := range splitList(flagVal) {
		host = strings.ToLower(host)
		if host == "claude" || host == "codex" || host == "gemini" {
			result[host] = true
		}
	}
	return result
}

func installHelp() string {
	return `safeterm install

Usage:
  safeterm install [--hosts claude,codex,gemini] [--interactive]
                   [--claude-home PATH] [--gemini-home PATH]
                   [--no-config] [--dry-run]
`
}
