package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
	Fatal  bool   `json:"-"`
}

func runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", resolveConfigPath(""), "config path")
	jsonOut := fs.Bool("json", false, "output JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Println("Invalid flags.")
		return 1
	}

	cfg, err := loadConfigOrEmpty(*configPath)
	if err != nil {
		fmt.Println("Config error:", err.Error())
		return 1
	}
	checks := doctorChecks(cfg, *configPath)

	failed := false
	for _, c := range checks {
		if c.Fatal && !c.OK {
			failed = true
		}
	}

	if *jsonOut || !isTerminal(os.Stdout) {
		items := make([]interface{}, 0, len(checks))
		for _, c := range checks {
			items = append(items, c)
		}
		printJSON(map[string]interface{}{"ok": !failed, "checks": items})
		if failed {
			return 1
		}
		return 0
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Render("safeterm doctor")
	fmt.Println(title)
	fmt.Println()
	for _, c := range checks {
		icon := lipgloss.NewStyle().Foreground(greenColor).Render("●")
		if !c.OK {
			color := grayColor
			if c.Fatal {
				color = lipgloss.Color("203")
			}
			icon = lipgloss.NewStyle().Foreground(color).Render("○")
		}
		fmt.Printf("%s %-12s %s\n", icon, c.Name, c.Detail)
	}
	fmt.Println()
	if failed {
		fmt.Println("Some issues detected")
		return 1
	}
	fmt.Println("All systems ready")
	return 0
}

func doctorChecks(cfg Config, configPath string) []doctorCheck {
	defaults := normalizeDefaults(cfg.Defaults)
	checks := []doctorCheck{}

	shellOK := isCommandAvailable("sh")
	checks = append(checks, doctorCheck{Name: "shell", OK: shellOK, Detail: "sh on PATH", Fatal: true})

	dirDetail := defaults.OutputDir
	dirOK := true
	if err := os.MkdirAll(defaults.OutputDir, 0o755); err != nil {
		dirOK = false
		dirDetail = err.Error()
	} else {
		probe := filepath.Join(defaults.OutputDir, ".doctor-probe")
		if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
			dirOK = false
			dirDetail = err.Error()
		} else {
			_ = os.Remove(probe)
		}
	}
	checks = append(checks, doctorCheck{Name: "output dir", OK: dirOK, Detail: dirDetail, Fatal: true})

	cfgDetail := configPath
	if !pathExists(configPath) {
		cfgDetail = configPath + " (defaults in effect)"
	}
	checks = append(checks, doctorCheck{Name: "config", OK: true, Detail: cfgDetail})

	for _, host := range []string{"claude", "codex", "gemini"} {
		detail := "available"
		ok := isCommandAvailable(host)
		if !ok {
			detail = "not installed"
		}
		checks = append(checks, doctorCheck{Name: host, OK: ok, Detail: detail})
	}
	return checks
}
