package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justapithecus/spoor/trace"
)

// TraceModel is a scrollable table over one decoded trace file's
// events.
type TraceModel struct {
	header   trace.Header
	table    table.Model
	quitting bool
}

// NewTraceModel builds a TraceModel from a decoded trace file.
func NewTraceModel(tf trace.TraceFile) TraceModel {
	columns := []table.Column{
		{Title: "#", Width: 6},
		{Title: "steady_ns", Width: 18},
		{Title: "type", Width: 16},
		{Title: "payload_1", Width: 12},
		{Title: "payload_2", Width: 12},
	}
	rows := make([]table.Row, len(tf.Events))
	for i, e := range tf.Events {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", e.SteadyClockTimestamp),
			e.Type.String(),
			fmt.Sprintf("%d", e.Payload1),
			fmt.Sprintf("%d", e.Payload2),
		}
	}

	t := table.New(table.WithColumns(columns), table.WithRows(rows), table.WithFocused(true))
	return TraceModel{header: tf.Header, table: t}
}

func (m TraceModel) Init() tea.Cmd { return nil }

func (m TraceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, quitKey) {
			m.quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m TraceModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("session=%d process=%d thread=%d events=%d",
		m.header.SessionID, m.header.ProcessID, m.header.ThreadID, m.header.EventCount)))
	b.WriteString("\n")
	b.WriteString(BoxStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Press q or Ctrl+C to quit"))
	return b.String()
}

var quitKey = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))

// RunTrace starts the interactive trace inspector.
func RunTrace(tf trace.TraceFile) error {
	_, err := tea.NewProgram(NewTraceModel(tf), tea.WithAltScreen()).Run()
	return err
}
