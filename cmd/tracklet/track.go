package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracklet/tracklet/pkg/events"
	"github.com/tracklet/tracklet/pkg/types"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track time against a customer/project/activity",
	Long: `Start a time entry and keep it running in the foreground.
The entry is stopped and synchronized to the server on Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")
		customerID, _ := cmd.Flags().GetInt64("customer")
		projectID, _ := cmd.Flags().GetInt64("project")
		activityID, _ := cmd.Flags().GetInt64("activity")
		description, _ := cmd.Flags().GetString("message")
		billable, _ := cmd.Flags().GetBool("billable")

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		ctx := context.Background()
		if err := eng.session.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect: %v", err)
		}

		entry, err := eng.session.StartTimeEntry(ctx, customerID, projectID, activityID, description, billable)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Tracking entry %d (%s). Press Ctrl+C to stop.\n", entry.ID, description)

		eng.timer.StartTicker(eng.tickInterval())
		defer eng.timer.StopTicker()

		sub := eng.broker.Subscribe()
		defer eng.broker.Unsubscribe(sub)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case ev := <-sub:
				if ev != nil && ev.Type == events.EventTimerTick {
					fmt.Printf("\r  elapsed: %s ", ev.Metadata["elapsed"])
				}
			case <-sigCh:
				fmt.Println("\nStopping...")
				// A failed stop leaves the timer running so the
				// duration survives a retry.
				for {
					if err := eng.session.StopTimeEntry(ctx); err != nil {
						fmt.Fprintf(os.Stderr, "Stop failed: %v\nRetry in 5s (Ctrl+C again to abandon)\n", err)
						select {
						case <-time.After(5 * time.Second):
							continue
						case <-sigCh:
							return err
						}
					}
					break
				}
				fmt.Println("✓ Entry synchronized")
				return nil
			}
		}
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work on server-side tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")
		statusFilter, _ := cmd.Flags().GetString("status")

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		ctx := context.Background()
		if err := eng.session.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect: %v", err)
		}

		tasks := eng.cache.Tasks()
		if statusFilter != "" {
			tasks = eng.cache.FilterTasksByStatus(types.TaskStatus(statusFilter))
		}
		for _, t := range tasks {
			fmt.Printf("%6d  %-10s %-8s %s\n", t.ID, t.Status, t.Priority, t.Title)
		}
		return nil
	},
}

var taskWorkCmd = &cobra.Command{
	Use:   "work [task-id]",
	Short: "Track time against a task",
	Long: `Move the task to progress and keep the timer running in the
foreground. On Ctrl+C the session's duration is accumulated into the
task's actual duration and the task returns to the chosen final status.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName, _ := cmd.Flags().GetString("profile")
		closeTask, _ := cmd.Flags().GetBool("close")

		var taskID int64
		if _, err := fmt.Sscanf(args[0], "%d", &taskID); err != nil {
			return fmt.Errorf("invalid task id: %s", args[0])
		}

		eng, err := newEngine(profileName)
		if err != nil {
			return err
		}
		defer eng.close()

		ctx := context.Background()
		if err := eng.session.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect: %v", err)
		}

		task, err := eng.session.StartTask(ctx, taskID)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Working on task %d: %s. Press Ctrl+C to stop.\n", task.ID, task.Title)

		eng.timer.StartTicker(eng.tickInterval())
		defer eng.timer.StopTicker()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		finalStatus := types.TaskStatusOpen
		if closeTask {
			finalStatus = types.TaskStatusClosed
		}

		fmt.Println("\nStopping...")
		if err := eng.session.StopTask(ctx, finalStatus); err != nil {
			return err
		}
		fmt.Println("✓ Task synchronized")
		return nil
	},
}

func init() {
	trackCmd.Flags().String("profile", "", "connection profile name")
	trackCmd.Flags().Int64("customer", 0, "customer ID")
	trackCmd.Flags().Int64("project", 0, "project ID")
	trackCmd.Flags().Int64("activity", 0, "activity ID")
	trackCmd.Flags().StringP("message", "m", "", "entry description")
	trackCmd.Flags().Bool("billable", false, "mark the entry billable")

	taskListCmd.Flags().String("profile", "", "connection profile name")
	taskListCmd.Flags().String("status", "", "filter by status (open|pending|progress|closed)")

	taskWorkCmd.Flags().String("profile", "", "connection profile name")
	taskWorkCmd.Flags().Bool("close", false, "close the task when stopping")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskWorkCmd)
}
