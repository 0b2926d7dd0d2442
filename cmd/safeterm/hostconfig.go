package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
)

const serverRegistryName = "safeterm"

// HostEntry is the MCP server entry written into a host CLI's config.
type HostEntry struct {
	Command string
	Args    []string
}

func serverEntry() HostEntry {
	exe, err := os.Executable()
	if err != nil {
		exe = "safeterm"
	}
	return HostEntry{Command: exe, Args: []string{"mcp"}}
}

func claudeMCPPath(claudeHome string) string {
	return filepath.Join(claudeHome, ".mcp.json")
}

func geminiSettingsPath(geminiHome string) string {
	return filepath.Join(geminiHome, "settings.json")
}

// ensureJSONHostMCP upserts the server into a host config that keeps an
// "mcpServers" object (Claude and Gemini share the shape).
func ensureJSONHostMCP(path string, entry HostEntry, dryRun bool) error {
	if dryRun {
		fmt.Printf("Register MCP server -> %s\n", path)
		return nil
	}
	cfg, err := loadHostJSON(path)
	if err != nil {
		return err
	}
	servers, changed, err := ensureServersMap(cfg)
	if err != nil {
		return err
	}
	desired := map[string]interface{}{"command": entry.Command}
	if len(entry.Args) > 0 {
		args := make([]interface{}, 0, len(entry.Args))
		for _, a := range entry.Args {
			args = append(args, a)
		}
		desired["args"] = args
	}
	if existing, ok := servers[serverRegistryName]; !ok || !reflect.DeepEqual(existing, desired) {
		servers[serverRegistryName] = desired
		changed = true
	}
	if !changed {
		return nil
	}
	return writeHostJSON(path, cfg)
}

func removeJSONHostMCP(path string, dryRun bool) error {
	if dryRun {
		fmt.Printf("Remove MCP server -> %s\n", path)
		return nil
	}
	cfg, err := loadHostJSON(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	mcpVal, ok := cfg["mcpServers"]
	if !ok {
		return nil
	}
	servers, ok := mcpVal.(map[string]interface{})
	if !ok {
		return fmt.Errorf("host config mcpServers is not an object: %s", path)
	}
	if _, ok := servers[serverRegistryName]; !ok {
		return nil
	}
	delete(servers, serverRegistryName)
	if len(servers) == 0 {
		delete(cfg, "mcpServers")
	}
	return writeHostJSON(path, cfg)
}

func ensureCodexMCP(entry HostEntry, dryRun bool) error {
	if dryRun {
		fmt.Printf("Register Codex MCP -> codex mcp add %s -- %s mcp\n", serverRegistryName, entry.Command)
		return nil
	}
	if _, err := exec.LookPath("codex"); err != nil {
		fmt.Println("Codex CLI not found; skip MCP registration.")
		return nil
	}
	cmdArgs := append([]string{"mcp", "add", serverRegistryName, "--", entry.Command}, entry.Args...)
	cmd := exec.Command("codex", cmdArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func removeCodexMCP(dryRun bool) error {
	if dryRun {
		fmt.Printf("Remove Codex MCP -> codex mcp remove %s\n", serverRegistryName)
		return nil
	}
	if _, err := exec.LookPath("codex"); err != nil {
		return nil
	}
	cmd := exec.Command("codex", "mcp", "remove", serverRegistryName)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("Codex MCP removal failed: %v\n", err)
	}
	return nil
}

func loadHostJSON(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]interface{}{}, nil
	}
	var cfg map[string]interface{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = map[string]interface{}{}
	}
	return cfg, nil
}

func writeHostJSON(path string, cfg map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func ensureServersMap(cfg map[string]interface{}) (map[string]interface{}, bool, error) {
	mcpVal, ok := cfg["mcpServers"]
	if !ok {
		servers := map[string]interface{}{}
		cfg["mcpServers"] = servers
		return servers, true, nil
	}
	servers, ok := mcpVal.(map[string]interface{})
	if !ok {
		return nil, false, fmt.Errorf("host config mcpServers is not an object")
	}
	return servers, false, nil
}
