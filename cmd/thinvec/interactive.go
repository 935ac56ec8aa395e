package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	usedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	spareStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	barWidth   = 40
	maxHistory = 8
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Apply operations to a vector interactively",
		Long: `The tui command opens an inspector that applies the operations accepted by
"thinvec run" one line at a time and shows the values, the capacity in use
and the output of each operation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("tui needs an interactive terminal; use \"thinvec run\" for scripts")
			}
			return runInteractive()
		},
	})
}

type historyEntry struct {
	command string
	output  string
	err     error
}

type interactiveModel struct {
	interp  *interpreter
	out     *bytes.Buffer
	input   textinput.Model
	history []historyEntry
}

func newInteractiveModel() *interactiveModel {
	out := &bytes.Buffer{}
	ti := textinput.New()
	ti.Placeholder = "push 1 2 3"
	ti.Prompt = "> "
	ti.Width = 50
	ti.Focus()
	return &interactiveModel{
		interp: newInterpreter(out),
		out:    out,
		input:  ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.exec(m.input.Value())
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// exec runs one line and records its output.
func (m *interactiveModel) exec(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	m.out.Reset()
	err := m.interp.Exec(line)
	m.history = append(m.history, historyEntry{
		command: line,
		output:  strings.TrimRight(m.out.String(), "\n"),
		err:     err,
	})
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	v := &m.interp.vec

	b.WriteString(titleStyle.Render("thinvec"))
	fmt.Fprintf(&b, " len %d  cap %d  align %d\n\n", v.Len(), v.Cap(), v.Alignment())
	b.WriteString(capacityBar(v.Len(), v.Cap()))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(v.String()))
	b.WriteString("\n\n")

	for _, h := range m.history {
		b.WriteString(helpStyle.Render("> " + h.command))
		b.WriteString("\n")
		if h.err != nil {
			b.WriteString(errorStyle.Render("Error: " + h.err.Error()))
			b.WriteString("\n")
		} else if h.output != "" {
			b.WriteString(resultStyle.Render(h.output))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • esc quit • see \"thinvec run --help\" for operations"))
	return b.String()
}

// capacityBar draws the used share of the capacity.
func capacityBar(length, capacity int) string {
	if capacity == 0 {
		return spareStyle.Render(strings.Repeat("·", barWidth))
	}
	used := length * barWidth / capacity
	if length > 0 && used == 0 {
		used = 1
	}
	return usedStyle.Render(strings.Repeat("█", used)) +
		spareStyle.Render(strings.Repeat("·", barWidth-used))
}

func runInteractive() error {
	m := newInteractiveModel()
	defer m.interp.Close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
