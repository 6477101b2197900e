package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bjulian5/promote/internal/model"
)

// NewChangeTable creates a bordered table with alternating row backgrounds
func NewChangeTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		BorderRow(false).
		BorderColumn(true).
		StyleFunc(defaultTableStyleFunc)
}

// NewSimpleTable creates a table without borders
func NewSimpleTable() *table.Table {
	return table.New().
		Border(lipgloss.Border{}).
		StyleFunc(simpleTableStyleFunc)
}

// RenderChangeRequestTable renders one row per change request, in the given order
func RenderChangeRequestTable(crs []model.ChangeRequest, p *Presenter) string {
	t := NewChangeTable().Headers("#", "Author", "Title", "Merged", "Ref", "URL")
	for i, cr := range crs {
		t.Row(
			fmt.Sprintf("%d", i+1),
			cr.Author,
			Truncate(cr.Title, Display.MaxTitleLengthTable),
			FormatMergedAt(cr.MergedAt, p.location()),
			ShortRef(cr.TerminalRef),
			cr.URL,
		)
	}
	return t.String()
}

// RenderProjectTable renders the project allow-list in a borderless table
func RenderProjectTable(projects []string) string {
	t := NewSimpleTable().Headers("#", "Project")
	for i, project := range projects {
		t.Row(fmt.Sprintf("%d", i+1), project)
	}
	return t.String()
}

func defaultTableStyleFunc(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return TableHeaderStyle
	case row%2 == 0:
		return TableCellStyle
	default:
		return TableRowAltStyle
	}
}

func simpleTableStyleFunc(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return TableHeaderStyle
	}
	return TableCellStyle
}
