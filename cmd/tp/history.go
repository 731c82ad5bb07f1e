package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show task history",
	Long:  `Display the audit history for a specific task.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskIDArg(args[0])
		if err != nil {
			handleError(err)
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		entries, err := c.GetTaskHistory(context.Background(), taskID)
		if err != nil {
			handleError(err)
		}

		printHistory(os.Stdout, entries, jsonOutput)
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent activity",
	Long:  `Display recent audit entries across all tasks in the project.`,
	Run: func(cmd *cobra.Command, args []string) {
		action, _ := cmd.Flags().GetString("action")
		agent, _ := cmd.Flags().GetString("agent")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.QueryAuditLog(context.Background(), action, agent, page, perPage)
		if err != nil {
			handleError(err)
		}

		if len(result.Data) == 0 {
			printSuccess(os.Stdout, "No recent activity", jsonOutput)
			return
		}

		printHistory(os.Stdout, result.Data, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().String("action", "", "Filter by action (create, update, claim, done, ...)")
	logCmd.Flags().String("agent", "", "Filter by agent id")
	logCmd.Flags().Int("page", 1, "Page number")
	logCmd.Flags().Int("per-page", 50, "Items per page")
}
