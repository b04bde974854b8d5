package cmd

import (
	"fmt"

	"github.com/rogersnm/contractme/internal/markdown"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summary of documents and upcoming deadlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := cl.Dashboard()
		if err != nil {
			return err
		}
		md := markdown.DashboardMarkdown(sum)
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		rendered, err := markdown.RenderMarkdown(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().Bool("plain", false, "print markdown without terminal styling")
	rootCmd.AddCommand(dashboardCmd)
}
