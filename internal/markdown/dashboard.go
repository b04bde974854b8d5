package markdown

import (
	"fmt"
	"strings"

	"github.com/rogersnm/contractme/internal/dashboard"
	"github.com/rogersnm/contractme/internal/model"
)

// DashboardMarkdown lays the summary out as a markdown document, ready for
// RenderMarkdown.
func DashboardMarkdown(s *dashboard.Summary) string {
	var sb strings.Builder
	sb.WriteString("# Dashboard\n\n")
	fmt.Fprintf(&sb, "| Documents | Uploaded in last %d days | Categories used | Due within %d days |\n", s.RecentDays, s.UpcomingDays)
	sb.WriteString("|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d |\n\n", s.Documents, s.RecentUploads, s.CategoriesUsed, s.UpcomingDeadlines)

	sb.WriteString("## Documents by category\n\n")
	if len(s.ByCategory) == 0 {
		sb.WriteString("No documents yet.\n\n")
	} else {
		sb.WriteString("| Category | Documents |\n|---|---|\n")
		for _, c := range s.ByCategory {
			fmt.Fprintf(&sb, "| %s | %d |\n", escapeCell(c.Category), c.Count)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Next deadlines\n\n")
	if len(s.NextDeadlines) == 0 {
		sb.WriteString("No deadlines.\n\n")
	} else {
		for _, d := range s.NextDeadlines {
			fmt.Fprintf(&sb, "- %s **%s** %s (%s, %s)\n",
				urgencyMark(d.Urgency), d.Title, d.Date.Format(model.DateLayout), FormatDays(d.DaysRemaining), d.Category)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Recent documents\n\n")
	if len(s.RecentDocuments) == 0 {
		sb.WriteString("No documents yet.\n")
	} else {
		for _, d := range s.RecentDocuments {
			fmt.Fprintf(&sb, "- `%s` %s (%s, %s)\n", d.ID, d.Name, d.Category, d.UploadedAt.Format("2006-01-02"))
		}
	}
	return sb.String()
}

func urgencyMark(u model.Urgency) string {
	switch u {
	case model.Urgent:
		return "🔴"
	case model.Warning:
		return "🟡"
	default:
		return "🟢"
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
