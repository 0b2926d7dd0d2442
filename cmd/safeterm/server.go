package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Input types for the three boundary operations.

type RunCommandInput struct {
	Command         string `json:"command"`
	Cwd             string `json:"cwd,omitempty"`
	ForceBackground bool   `json:"force_background,omitempty"`
	Timeout         int    `json:"timeout,omitempty"`
}

type CheckStatusInput struct {
	ShowOutput *bool `json:"show_output,omitempty"`
}

type ContextInput struct {
	Lines int `json:"lines,omitempty"`
}

// Orchestrator routes execute calls through classification to the
// bounded or background strategy. It holds no cross-invocation state;
// everything the status and context readers need lives in the store's
// directory.
type Orchestrator struct {
	store        *RunStore
	classifier   *Classifier
	timeout      time.Duration
	grace        time.Duration
	statusLimit  int
	contextLimit int
	contextLines int
}

func newOrchestrator(cfg Config) (*Orchestrator, error) {
	defaults := normalizeDefaults(cfg.Defaults)
	store, err := newRunStore(defaults.OutputDir, cfg.Retention)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		store:        store,
		classifier:   newClassifier(cfg.Keywords),
		timeout:      time.Duration(defaults.TimeoutSec) * time.Second,
		grace:        time.Duration(defaults.GraceMs) * time.Millisecond,
		statusLimit:  defaults.StatusLimit,
		contextLimit: defaults.ContextLimit,
		contextLines: defaults.ContextLines,
	}, nil
}

// Execute handles one execute call end to end and renders the
// caller-facing report. Every failure becomes report text; nothing
// escapes to the transport as an error, so one bad invocation can
// never take the server down.
func (o *Orchestrator) Execute(input RunCommandInput) string {
	command := strings.TrimSpace(input.Command)
	if command == "" {
		return "❌ Error executing command: command is required"
	}
	cwd := input.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	category := o.classifier.Classify(command)
	logger.Info().Str("category", string(category)).Bool("forced", input.ForceBackground).Msg("command classified")

	if input.ForceBackground || category.Background() {
		return o.executeBackground(command, cwd, category)
	}
	timeout := o.timeout
	if input.Timeout > 0 {
		timeout = time.Duration(input.Timeout) * time.Second
	}
	return o.executeBounded(command, cwd, category, timeout)
}

func (o *Orchestrator) executeBounded(command, cwd string, category Category, timeout time.Duration) string {
	start := time.Now().UTC()
	res := o.store.runBounded(command, cwd, timeout)
	end := time.Now().UTC()

	record := RunRecord{
		ID:         res.ID,
		Mode:       "bounded",
		Command:    command,
		Cwd:        cwd,
		Category:   string(category),
		ExitCode:   res.ExitCode,
		PID:        res.PID,
		LogPath:    res.LogPath,
		StartedAt:  start.Format(time.RFC3339),
		EndedAt:    end.Format(time.RFC3339),
		DurationMs: end.Sub(start).Milliseconds(),
	}

	switch res.Outcome {
	case OutcomeFailedToStart:
		record.Status = "error"
		if res.Err != nil {
			record.Error = res.Err.Error()
		}
		_ = appendRunRecord(record)
		return fmt.Sprintf("❌ Error executing command: %v", res.Err)

	case OutcomeTimedOut:
		record.Status = "timeout"
		_ = appendRunRecord(record)
		return fmt.Sprintf("⏰ Command timed out after %s and was terminated\n"+
			"This prevents the caller from hanging on slow commands.\n"+
			"For long-running commands, use force_background=true\n"+
			"Note: processes spawned outside the command's process group may survive the kill.\n"+
			"Log: %s", timeout, res.LogPath)
	}

	record.Status = "completed"
	_ = appendRunRecord(record)

	report := fmt.Sprintf("✅ Command completed successfully\nExit Code: %d\nOutput:\n%s",
		res.ExitCode, excerpt(res.Output, boundedExcerptBytes))
	if len(res.Output) > boundedExcerptBytes {
		report += fmt.Sprintf("\n... (truncated, full output in %s)", res.LogPath)
	}
	return report
}

func (o *Orchestrator) executeBackground(command, cwd string, category Category) string {
	start := time.Now().UTC()
	res := o.store.runBackground(command, cwd, o.grace)
	if res.Err != nil {
		_ = appendRunRecord(RunRecord{
			ID:        res.ID,
			Mode:      "background",
			Command:   command,
			Cwd:       cwd,
			Category:  string(category),
			Status:    "error",
			LogPath:   res.LogPath,
			StartedAt: start.Format(time.RFC3339),
			Error:     res.Err.Error(),
		})
		return fmt.Sprintf("❌ Error starting background command: %v", res.Err)
	}

	_ = appendRunRecord(RunRecord{
		ID:        res.ID,
		Mode:      "background",
		Command:   command,
		Cwd:       cwd,
		Category:  string(category),
		Status:    "launched",
		PID:       res.PID,
		LogPath:   res.LogPath,
		StartedAt: start.Format(time.RFC3339),
	})

	report := fmt.Sprintf("✅ Command started in background\nPID: %d\nOutput file: %s\n"+
		"Use check_command_status to monitor progress\n", res.PID, res.LogPath)
	if strings.TrimSpace(res.InitialOutput) != "" {
		report += "\n=== Initial Output ===\n" + res.InitialOutput
	}
	return report
}

func (o *Orchestrator) CheckStatus(showOutput bool) string {
	report, err := o.store.checkStatus(showOutput, o.statusLimit)
	if err != nil {
		return fmt.Sprintf("❌ Error reading command status: %v", err)
	}
	return report
}

func (o *Orchestrator) GetContext(lines int) string {
	if lines <= 0 {
		lines = o.contextLines
	}
	report, err := o.store.getContext(lines, o.contextLimit)
	if err != nil {
		return fmt.Sprintf("❌ Error reading terminal context: %v", err)
	}
	return report
}

func runMCPServer(args []string) int {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", resolveConfigPath(""), "config path")
	if err := fs.Parse(args); err != nil {
		fmt.Println("Invalid flags.")
		return 1
	}

	cfg, err := loadConfigOrEmpty(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	orch, err := newOrchestrator(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "safeterm",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "run_command_safe",
		Description: `Execute terminal commands with automatic hang prevention and smart timeout handling.

Parameters:
- command (required): The command to execute
- cwd: Working directory (defaults to the server's)
- force_background: Force background execution
- timeout: Custom timeout in seconds for bounded runs`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input RunCommandInput) (*mcp.CallToolResult, any, error) {
		return textResult(orch.Execute(input)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name: "check_command_status",
		Description: `Check the status of background commands.

Parameters:
- show_output: Include recent output from each log (default true)`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input CheckStatusInput) (*mcp.CallToolResult, any, error) {
		showOutput := true
		if input.ShowOutput != nil {
			showOutput = *input.ShowOutput
		}
		return textResult(orch.CheckStatus(showOutput)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name: "get_terminal_context",
		Description: `Get recent terminal activity for debugging context.

Parameters:
- lines: Number of recent lines per log (default 50)`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ContextInput) (*mcp.CallToolResult, any, error) {
		return textResult(orch.GetContext(input.Lines)), nil, nil
	})

	transport := mcp.NewStdioTransport()
	session, err := server.Connect(context.Background(), transport, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	if err := session.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
