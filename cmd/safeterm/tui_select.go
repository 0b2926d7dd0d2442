package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyanColor  = lipgloss.Color("86")
	greenColor = lipgloss.Color("78")
	grayColor  = lipgloss.Color("242")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cyanColor).
			MarginBottom(1)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(cyanColor).
				Bold(true)

	checkboxStyle = lipgloss.NewStyle().
			Foreground(cyanColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(grayColor).
			MarginTop(1)
)

type hostItem struct {
	name        string
	description string
	selected    bool
	available   bool
}

type hostSelectModel struct {
	items    []hostItem
	cursor   int
	quitting bool
	done     bool
}

func initialHostSelectModel() hostSelectModel {
	items := []hostItem{
		{name: "claude", description: "Anthropic Claude Code"},
		{name: "codex", description: "OpenAI Codex CLI"},
		{name: "gemini", description: "Google Gemini CLI"},
	}
	for i := range items {
		items[i].available = isCommandAvailable(items[i].name)
		items[i].selected = items[i].available
	}
	return hostSelectModel{items: items}
}

func (m hostSelectModel) Init() tea.Cmd {
	return nil
}

func (m hostSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"))):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys(" ", "x"))):
			m.items[m.cursor].selected = !m.items[m.cursor].selected

		case key.Matches(msg, key.NewBinding(key.WithKeys("a"))):
			allSelected := true
			for _, item := range m.items {
				if !item.selected {
					allSelected = false
					break
				}
			}
			for i := range m.items {
				m.items[i].selected = !allSelected
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m hostSelectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("safeterm install"))
	b.WriteString("\n")
	b.WriteString("Select host CLIs to register the MCP server with:\n\n")

	for i, item := range m.items {
		checkbox := "[ ]"
		if item.selected {
			checkbox = checkboxStyle.Render("[x]")
		}
		label := fmt.Sprintf("%s %-8s %s", checkbox, item.name, item.description)
		if !item.available {
			label += lipgloss.NewStyle().Foreground(grayColor).Render("  (not installed)")
		}
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + label))
		} else {
			b.WriteString(itemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space toggle · a all · enter confirm · q cancel"))
	b.WriteString("\n")
	return b.String()
}

// promptHostSelectionTUI runs the selector and returns the chosen
// hosts. An empty map means the user cancelled.
func promptHostSelectionTUI() map[string]bool {
	model, err := tea.NewProgram(initialHostSelectModel()).Run()
	if err != nil {
		return map[string]bool{}
	}
	final, ok := model.(hostSelectModel)
	if !ok || !final.done {
		return map[string]bool{}
	}
	selected := map[string]bool{}
	for _, item := range final.items {
		if item.selected {
			selected[item.name] = true
		}
	}
	return selected
}
