package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var claimCmd = &cobra.Command{
	Use:   "claim <id>",
	Short: "Claim a task",
	Long:  `Claim a task to start working on it. Changes status from pending to in_progress.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseTaskIDArg(args[0])
		if err != nil {
			handleError(err)
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.ClaimTask(context.Background(), id)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as done",
	Long:  `Mark a task as complete. Changes status from in_progress to done.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseTaskIDArg(args[0])
		if err != nil {
			handleError(err)
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.CompleteTask(context.Background(), id)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release <id>",
	Short: "Release a claimed task",
	Long: `Release a task you have claimed. Changes status from in_progress to pending.

Use --force to release a task claimed by another agent.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseTaskIDArg(args[0])
		if err != nil {
			handleError(err)
		}

		force, _ := cmd.Flags().GetBool("force")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.ReleaseTask(context.Background(), id, force)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().Bool("force", false, "Force release a task claimed by another agent")
}
