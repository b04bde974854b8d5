package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rogersnm/contractme/internal/markdown"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar [year month]",
	Short: "Show a month with its deadlines",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or <year> <month>")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		year, month := now.Year(), int(now.Month())
		if len(args) == 2 {
			var err error
			if year, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			if month, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid month %q", args[1])
			}
		}

		grid, err := cl.Calendar(year, month)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, markdown.RenderCalendar(grid))
		if len(grid.Deadlines) == 0 {
			fmt.Fprintln(out, "No deadlines this month.")
			return nil
		}
		for _, d := range grid.Deadlines {
			fmt.Fprintf(out, "  %2d  %s (%s)\n", d.Date.Day(), d.Title, d.Category)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
}
