package display

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"github.com/weavex/quotabar/internal/actionbar"
)

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderTable draws rows under headers with a rounded border, preceded by
// title when it is set.
func renderTable(title string, headers []string, rows [][]string, noColor bool) string {
	header, border := tableHeader, tableBorder
	if noColor {
		header, border = tableCell, lipgloss.NewStyle()
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return tableCell
		})

	if title == "" {
		return t.String()
	}
	return RenderTitle(title, noColor) + "\n" + t.String()
}

// ActionsTable lists the action bar entries in bar order.
func ActionsTable(actions []actionbar.Action, noColor bool) string {
	rows := lo.Map(actions, func(a actionbar.Action, i int) []string {
		return []string{strconv.Itoa(i + 1), string(a.Key), a.Title, a.Description}
	})
	return renderTable("Action bar", []string{"#", "Key", "Title", "Description"}, rows, noColor)
}

// KeyStatusTable shows where the API key lives and whether one is stored.
func KeyStatusTable(st KeyStatusJSON, noColor bool) string {
	status := "✗ Not configured"
	if st.Configured {
		status = "✓ Configured"
	}
	location := st.Location
	if location == "" {
		location = "-"
	}
	return renderTable("API key", []string{"Backend", "Status", "Location"}, [][]string{{st.Backend, status, location}}, noColor)
}
