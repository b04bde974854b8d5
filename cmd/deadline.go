package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/rogersnm/contractme/internal/editor"
	"github.com/rogersnm/contractme/internal/markdown"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/spf13/cobra"
)

var deadlineCmd = &cobra.Command{
	Use:     "deadline",
	Aliases: []string{"dl"},
	Short:   "Manage deadlines",
}

var deadlineAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a deadline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		category, _ := cmd.Flags().GetString("category")
		desc, _ := cmd.Flags().GetString("description")
		docID, _ := cmd.Flags().GetString("document")

		date, err := model.ParseDate(dateStr, time.Local)
		if err != nil {
			return err
		}
		v, err := cl.AddDeadline(model.DeadlineInput{
			Title:       args[0],
			Description: desc,
			Date:        date,
			Category:    category,
			DocumentID:  docID,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added deadline %s (%s) due %s, %s\n",
			v.Title, v.ID, v.Date.Format(model.DateLayout), markdown.FormatDays(v.DaysRemaining))
		return nil
	},
}

var deadlineImportCmd = &cobra.Command{
	Use:   "import <file.md>",
	Short: "Add a deadline from a markdown file with YAML frontmatter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		in, err := markdown.ParseDeadline(f, time.Local)
		if err != nil {
			return err
		}
		v, err := cl.AddDeadline(in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported deadline %s (%s)\n", v.Title, v.ID)
		return nil
	},
}

var deadlineNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Write a deadline in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		docID, _ := cmd.Flags().GetString("document")

		tmpl, err := markdown.MarshalDeadline(model.Deadline{
			Date:       model.DateOf(time.Now().AddDate(0, 0, 7)),
			Category:   category,
			DocumentID: docID,
		})
		if err != nil {
			return err
		}
		data, err := editor.Compose("deadline-*.md", tmpl)
		if err != nil {
			return err
		}
		in, err := markdown.ParseDeadline(bytes.NewReader(data), time.Local)
		if err != nil {
			return err
		}
		v, err := cl.AddDeadline(in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added deadline %s (%s) due %s\n", v.Title, v.ID, v.Date.Format(model.DateLayout))
		return nil
	},
}

var deadlineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deadlines by date",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		views, err := cl.ListDeadlines(category)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderDeadlineTable(views))
		return nil
	},
}

var deadlineShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show deadline details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := cl.GetDeadline(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			data, err := markdown.MarshalDeadline(v.Deadline)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		}

		doc := "-"
		if v.DocumentID != "" {
			doc = v.DocumentID
			if !v.Linked {
				doc += " (removed)"
			}
		}
		fields := []string{
			markdown.RenderField("ID", v.ID),
			markdown.RenderField("Date", v.Date.Format(model.DateLayout)),
			markdown.RenderField("Due", markdown.FormatDays(v.DaysRemaining)),
			markdown.RenderField("Urgency", markdown.RenderUrgency(v.Urgency)),
			markdown.RenderField("Category", v.Category),
			markdown.RenderField("Document", doc),
		}
		fmt.Fprint(out, markdown.RenderEntityHeader(v.Title, fields))
		if v.Description != "" {
			rendered, err := markdown.RenderMarkdown(v.Description)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
		}
		return nil
	},
}

var deadlineDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a deadline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := cl.GetDeadline(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deadline: %s (%s) due %s\n", v.Title, v.ID, v.Date.Format(model.DateLayout))

		if err := confirmDelete(cmd, v.ID); err != nil {
			return err
		}
		if err := cl.RemoveDeadline(v.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted deadline %s\n", v.ID)
		return nil
	},
}

var deadlineUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Count deadlines due soon, past-due included",
	RunE: func(cmd *cobra.Command, args []string) error {
		within := cfg.UpcomingDays
		if cmd.Flags().Changed("within-days") {
			within, _ = cmd.Flags().GetInt("within-days")
		}
		n, err := cl.Upcoming(within)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d deadlines due within %d days\n", n, within)
		return nil
	},
}

func init() {
	deadlineAddCmd.Flags().StringP("date", "d", "", "due date (YYYY-MM-DD)")
	deadlineAddCmd.Flags().StringP("category", "c", "", "category")
	deadlineAddCmd.Flags().String("description", "", "description")
	deadlineAddCmd.Flags().String("document", "", "link to a document ID")
	deadlineAddCmd.MarkFlagRequired("date")
	deadlineNewCmd.Flags().StringP("category", "c", "", "category")
	deadlineNewCmd.Flags().String("document", "", "link to a document ID")
	deadlineListCmd.Flags().StringP("category", "c", "", "filter by category")
	deadlineShowCmd.Flags().Bool("raw", false, "print as a markdown file with YAML frontmatter")
	deadlineDeleteCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	deadlineUpcomingCmd.Flags().Int("within-days", 7, "window in days")

	deadlineCmd.AddCommand(deadlineAddCmd)
	deadlineCmd.AddCommand(deadlineImportCmd)
	deadlineCmd.AddCommand(deadlineNewCmd)
	deadlineCmd.AddCommand(deadlineListCmd)
	deadlineCmd.AddCommand(deadlineShowCmd)
	deadlineCmd.AddCommand(deadlineDeleteCmd)
	deadlineCmd.AddCommand(deadlineUpcomingCmd)
	rootCmd.AddCommand(deadlineCmd)
}
