package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskpath/taskpath/internal/client"
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Long: `Create a new task with the given title.

Priority can be specified as a number (0-4) or name:
  0 / critical - Highest priority
  1 / high     - High priority
  2 / normal   - Normal priority (default)
  3 / low      - Low priority
  4 / lowest   - Lowest priority

The estimated effort in hours feeds the critical path computation:
every 8 hours counts as one work day, always rounded up.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if args[0] == "" {
			handleError(fmt.Errorf("title cannot be empty"))
		}

		priorityStr, _ := cmd.Flags().GetString("priority")
		description, _ := cmd.Flags().GetString("description")

		priority := 2 // default
		if priorityStr != "" {
			p, err := parsePriority(priorityStr)
			if err != nil {
				handleError(err)
			}
			priority = p
		}

		var effort *float64
		if cmd.Flags().Changed("effort") {
			hours, _ := cmd.Flags().GetFloat64("effort")
			if hours < 0 {
				handleError(fmt.Errorf("effort must be non-negative, got %v", hours))
			}
			effort = &hours
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.CreateTask(context.Background(), args[0], description, priority, effort)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List tasks with optional filtering by stored status.`,
	Run: func(cmd *cobra.Command, args []string) {
		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.ListTasks(context.Background(), status, page, perPage)
		if err != nil {
			handleError(err)
		}

		printTaskList(os.Stdout, result.Data, result.Pagination, jsonOutput)
	},
}

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List ready tasks",
	Long:  `List pending tasks whose dependencies are all complete.`,
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.ListReadyTasks(context.Background(), page, perPage)
		if err != nil {
			handleError(err)
		}

		printTaskList(os.Stdout, result.Data, result.Pagination, jsonOutput)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Long:  `Display detailed information about a task.`,
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

		task, err := c.GetTask(context.Background(), id)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task",
	Long:  `Edit a task's title, description, priority, or estimated effort.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseTaskIDArg(args[0])
		if err != nil {
			handleError(err)
		}

		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		priorityStr, _ := cmd.Flags().GetString("priority")
		clearEffort, _ := cmd.Flags().GetBool("clear-effort")

		var updates client.TaskUpdates

		if cmd.Flags().Changed("title") {
			updates.Title = &title
		}
		if cmd.Flags().Changed("description") {
			updates.Description = &description
		}
		if cmd.Flags().Changed("priority") {
			p, err := parsePriority(priorityStr)
			if err != nil {
				handleError(err)
			}
			updates.Priority = &p
		}
		if cmd.Flags().Changed("effort") {
			hours, _ := cmd.Flags().GetFloat64("effort")
			if hours < 0 {
				handleError(fmt.Errorf("effort must be non-negative, got %v", hours))
			}
			updates.EstimatedEffortHours = &hours
		}
		updates.ClearEffort = clearEffort

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.UpdateTask(context.Background(), id, updates)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Long:  `Delete a task by ID.`,
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

		if err := c.DeleteTask(context.Background(), id); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Task %d deleted", id), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(readyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)

	// Create command flags
	createCmd.Flags().StringP("priority", "p", "", "Task priority (0-4 or critical/high/normal/low/lowest)")
	createCmd.Flags().StringP("description", "d", "", "Task description")
	createCmd.Flags().Float64P("effort", "e", 0, "Estimated effort in hours")

	// List command flags
	listCmd.Flags().String("status", "", "Filter by status (pending, in_progress, done)")
	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().Int("per-page", 50, "Items per page")

	// Ready command flags
	readyCmd.Flags().Int("page", 1, "Page number")
	readyCmd.Flags().Int("per-page", 50, "Items per page")

	// Edit command flags
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().StringP("description", "d", "", "New description")
	editCmd.Flags().StringP("priority", "p", "", "New priority")
	editCmd.Flags().Float64P("effort", "e", 0, "New estimated effort in hours")
	editCmd.Flags().Bool("clear-effort", false, "Remove the effort estimate")
}
