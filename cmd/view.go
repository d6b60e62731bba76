package cmd

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/illarion/pswdb/internal/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	indexStyle  = cellStyle.Foreground(lipgloss.Color("8"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderTable draws the password list with 1-based row numbers. Passwords are
// masked unless reveal is set.
func renderTable(t *table.Table, reveal bool) string {
	if t == nil || t.Len() == 0 {
		return "(empty)\n"
	}

	rows := make([][]string, 0, t.Len())
	for i, r := range t.Rows() {
		if !reveal {
			r = r.Masked()
		}
		rows = append(rows, append([]string{strconv.Itoa(i + 1)}, r.Fields()...))
	}

	headers := make([]string, 0, len(table.Columns)+1)
	headers = append(headers, "#")
	for _, c := range table.Columns {
		headers = append(headers, strings.ToUpper(c))
	}

	tbl := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return headerStyle
			case col == 0:
				return indexStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return tbl.String() + "\n"
}
