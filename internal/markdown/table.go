package markdown

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rogersnm/contractme/internal/api"
	"github.com/rogersnm/contractme/internal/calendar"
	"github.com/rogersnm/contractme/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
	todayStyle     = lipgloss.NewStyle().Bold(true).Reverse(true)
	busyDayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var weekdayHeaders = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

func RenderDocumentTable(docs []model.Document) string {
	if len(docs) == 0 {
		return "No documents found."
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{d.ID, d.Name, d.Category, FormatSize(d.SizeBytes), d.UploadedAt.Format("2006-01-02 15:04")}
	}
	return renderTable([]string{"ID", "Name", "Category", "Size", "Uploaded"}, rows)
}

func RenderDeadlineTable(views []api.DeadlineView) string {
	if len(views) == 0 {
		return "No deadlines found."
	}
	rows := make([][]string, len(views))
	for i, v := range views {
		doc := v.DocumentID
		if doc != "" && !v.Linked {
			doc += " (gone)"
		}
		rows[i] = []string{
			v.ID,
			v.Title,
			v.Date.Format(model.DateLayout),
			FormatDays(v.DaysRemaining),
			RenderUrgency(v.Urgency),
			v.Category,
			doc,
		}
	}
	return renderTable([]string{"ID", "Title", "Date", "Due", "Urgency", "Category", "Document"}, rows)
}

// RenderCalendar draws the month grid. Days with deadlines show their count
// after a dot and today is highlighted.
func RenderCalendar(g *calendar.Grid) string {
	rows := make([][]string, len(g.Weeks))
	for i, week := range g.Weeks {
		row := make([]string, len(week))
		for j, c := range week {
			row[j] = calendarCell(c)
		}
		rows[i] = row
	}

	t := table.New().
		Headers(weekdayHeaders...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			c := g.Weeks[row][col]
			switch {
			case c.IsToday:
				return todayStyle
			case c.DeadlineCount > 0:
				return busyDayStyle
			default:
				return cellStyle
			}
		})

	title := headerStyle.Render(fmt.Sprintf("%s %d", g.Month, g.Year))
	return title + "\n" + t.Render()
}

func calendarCell(c calendar.Cell) string {
	if c.Empty {
		return ""
	}
	s := strconv.Itoa(c.Day)
	if c.DeadlineCount > 0 {
		s += "•" + strconv.Itoa(c.DeadlineCount)
	}
	return s
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
