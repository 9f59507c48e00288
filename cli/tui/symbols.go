package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justapithecus/spoor/ir"
	"github.com/justapithecus/spoor/types"
)

// SymbolsModel is a scrollable table over a decoded symbol file.
type SymbolsModel struct {
	count    int
	table    table.Model
	quitting bool
}

// NewSymbolsModel builds a SymbolsModel from decoded symbols.
func NewSymbolsModel(symbols ir.Symbols) SymbolsModel {
	columns := []table.Column{
		{Title: "function_id", Width: 20},
		{Title: "demangled_name", Width: 30},
		{Title: "file:line", Width: 30},
		{Title: "instrumented", Width: 14},
	}

	ids := make([]types.FunctionId, 0, len(symbols))
	for id := range symbols {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []table.Row
	for _, id := range ids {
		for _, info := range symbols[id] {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", id),
				info.DemangledName,
				fmt.Sprintf("%s:%d", info.FileName, info.Line),
				fmt.Sprintf("%v", info.Instrumented),
			})
		}
	}

	t := table.New(table.WithColumns(columns), table.WithRows(rows), table.WithFocused(true))
	return SymbolsModel{count: len(symbols), table: t}
}

func (m SymbolsModel) Init() tea.Cmd { return nil }

func (m SymbolsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if k.String() == "q" || k.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SymbolsModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%d functions", m.count)))
	b.WriteString("\n")
	b.WriteString(BoxStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Press q or Ctrl+C to quit"))
	return b.String()
}

// RunSymbols starts the interactive symbol table inspector.
func RunSymbols(symbols ir.Symbols) error {
	_, err := tea.NewProgram(NewSymbolsModel(symbols), tea.WithAltScreen()).Run()
	return err
}
