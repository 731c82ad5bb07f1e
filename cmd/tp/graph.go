package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect the dependency graph",
	Long:  `Commands for computing derived state over the task dependency graph.`,
}

var graphStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show execution status of all tasks",
	Long: `Compute the execution status of every task from the dependency graph.

Statuses:
  done    - the task itself is complete
  ready   - all dependencies are complete, work can start
  waiting - every incomplete dependency is being worked on
  blocked - at least one dependency has not been started`,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		statuses, err := c.GraphStatuses(context.Background())
		if err != nil {
			handleError(err)
		}

		printStatuses(os.Stdout, statuses, jsonOutput)
	},
}

var graphPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the critical path",
	Long: `Compute the critical path: the chain of dependent tasks with the
largest total estimated duration. Effort estimates convert to work days
at 8 hours per day, rounded up, with a minimum of one day per task.`,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.CriticalPath(context.Background())
		if err != nil {
			handleError(err)
		}

		printCriticalPath(os.Stdout, result, jsonOutput)
	},
}

var relatedCmd = &cobra.Command{
	Use:   "related <id>",
	Short: "Show related tasks",
	Long: `List every task connected to the given task through dependency
edges in either direction, including the task itself.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		taskID, err := parseTaskIDArg(args[0])
		if err != nil {
			handleError(err)
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		related, err := c.RelatedTasks(context.Background(), taskID)
		if err != nil {
			handleError(err)
		}

		printRelated(os.Stdout, taskID, related, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(relatedCmd)

	graphCmd.AddCommand(graphStatusCmd)
	graphCmd.AddCommand(graphPathCmd)
}
