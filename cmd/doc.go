package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rogersnm/contractme/internal/content"
	"github.com/rogersnm/contractme/internal/markdown"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/spf13/cobra"
)

const linkedDeadlinePrefix = "Scadenza: "

func contentStore() (*content.FileStore, error) {
	return content.New(filepath.Join(dataDir, "files"))
}

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage documents",
}

var docAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a document, optionally with a linked deadline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		category, _ := cmd.Flags().GetString("category")
		due, _ := cmd.Flags().GetString("deadline")
		dueDesc, _ := cmd.Flags().GetString("deadline-desc")

		var dueDate time.Time
		if due != "" {
			d, err := model.ParseDate(due, time.Local)
			if err != nil {
				return err
			}
			dueDate = d
		}

		if category == "" {
			c, err := pickCategory()
			if err != nil {
				return err
			}
			category = c
		}

		files, err := contentStore()
		if err != nil {
			return err
		}
		ref, info, err := files.Import(args[0])
		if err != nil {
			return err
		}
		if name == "" {
			name = info.Name
		}

		doc, err := cl.AddDocument(model.DocumentMeta{
			Name:       name,
			Category:   category,
			ContentRef: ref,
			MimeType:   info.MimeType,
			SizeBytes:  info.Size,
		})
		if err != nil {
			if rmErr := files.Remove(ref); rmErr != nil {
				logger.WithError(rmErr).WithField("ref", ref).Warn("could not remove imported copy")
			}
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added document %s (%s)\n", doc.Name, doc.ID)

		if dueDate.IsZero() {
			return nil
		}
		v, err := cl.AddDeadline(model.DeadlineInput{
			Title:       linkedDeadlinePrefix + doc.Name,
			Description: dueDesc,
			Date:        dueDate,
			Category:    doc.Category,
			DocumentID:  doc.ID,
		})
		if err != nil {
			return fmt.Errorf("document added, deadline failed: %w", err)
		}
		fmt.Fprintf(out, "Added deadline %s (%s) due %s\n", v.Title, v.ID, v.Date.Format(model.DateLayout))
		return nil
	},
}

// pickCategory offers the server's categories when --category is omitted.
func pickCategory() (string, error) {
	cats, err := cl.Categories()
	if err != nil {
		return "", err
	}
	if len(cats) == 0 {
		return "", fmt.Errorf("--category is required")
	}
	opts := make([]huh.Option[string], len(cats))
	for i, c := range cats {
		opts[i] = huh.NewOption(c, c)
	}
	var choice string
	if err := huh.NewSelect[string]().
		Title("Category").
		Options(opts...).
		Value(&choice).
		Run(); err != nil {
		return "", fmt.Errorf("--category is required")
	}
	return choice, nil
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		docs, err := cl.ListDocuments(category)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderDocumentTable(docs))
		return nil
	},
}

var docRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently uploaded documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		var within *int
		if cmd.Flags().Changed("within-days") {
			n, _ := cmd.Flags().GetInt("within-days")
			within = &n
		}
		docs, err := cl.RecentDocuments(limit, within)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderDocumentTable(docs))
		return nil
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show document details and a preview of its content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := cl.GetDocument(args[0])
		if err != nil {
			return err
		}
		fields := []string{
			markdown.RenderField("ID", d.ID),
			markdown.RenderField("Category", d.Category),
			markdown.RenderField("Type", d.MimeType),
			markdown.RenderField("Size", markdown.FormatSize(d.SizeBytes)),
			markdown.RenderField("Uploaded", d.UploadedAt.Format("2006-01-02 15:04:05")),
			markdown.RenderField("File", d.ContentRef),
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, markdown.RenderEntityHeader(d.Name, fields))

		if d.ContentRef == "" {
			return nil
		}
		files, err := contentStore()
		if err != nil {
			return err
		}
		text, err := files.Text(d.ContentRef)
		if err != nil {
			fmt.Fprintln(out, "\nPreview not available for this file type.")
			return nil
		}
		if text != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, content.Preview(text))
		}
		return nil
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document together with its linked deadlines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := cl.GetDocument(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Document: %s (%s), category %s\n", d.Name, d.ID, d.Category)

		if err := confirmDelete(cmd, d.ID); err != nil {
			return err
		}
		removed, err := cl.RemoveDocument(d.ID)
		if err != nil {
			return err
		}
		if d.ContentRef != "" {
			if files, err := contentStore(); err == nil {
				if err := files.Remove(d.ContentRef); err != nil {
					logger.WithError(err).WithField("ref", d.ContentRef).Warn("stored file not removed")
				}
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %s (%d linked deadlines removed)\n", d.ID, removed)
		return nil
	},
}

var docAskCmd = &cobra.Command{
	Use:   "ask <id> <question>",
	Short: "Ask the assistant about a document",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, err := cl.Ask(args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func init() {
	docAddCmd.Flags().String("name", "", "display name (defaults to the file name)")
	docAddCmd.Flags().StringP("category", "c", "", "category")
	docAddCmd.Flags().String("deadline", "", "add a linked deadline on this date (YYYY-MM-DD)")
	docAddCmd.Flags().String("deadline-desc", "", "description of the linked deadline")
	docListCmd.Flags().StringP("category", "c", "", "filter by category")
	docRecentCmd.Flags().IntP("limit", "n", 5, "maximum number of documents")
	docRecentCmd.Flags().Int("within-days", 0, "only documents uploaded within this many days")
	docDeleteCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	docCmd.AddCommand(docAddCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docRecentCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docDeleteCmd)
	docCmd.AddCommand(docAskCmd)
	rootCmd.AddCommand(docCmd)
}
