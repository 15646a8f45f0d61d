package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aurda012/cursor10x/internal/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	RunE:  runTaskCreate,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger progress",
	RunE:  runTaskStatus,
}

var taskStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Dispatch the first pending task",
	RunE:  runTaskStart,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Mark a task done (defaults to the task in progress)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaskComplete,
}

var taskSkipCmd = &cobra.Command{
	Use:   "skip [task-id]",
	Short: "Skip a pending task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskSkip,
}

var taskResetCmd = &cobra.Command{
	Use:   "reset [task-id]",
	Short: "Return an in-progress task to pending",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskReset,
}

var taskNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next pending task",
	RunE:  runTaskNext,
}

var taskCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the task in progress",
	RunE:  runTaskCurrent,
}

var taskDetailsCmd = &cobra.Command{
	Use:   "details [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDetails,
}

var taskAssignCmd = &cobra.Command{
	Use:     "assign [task-id]",
	Aliases: []string{"delegate"},
	Short:   "Dispatch a specific task to its best-matched worker",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskAssign,
}

var (
	taskTitle  string
	taskFile   string
	taskPrompt string
	taskFilter string
)

func init() {
	taskCmd.AddCommand(taskCreateCmd, taskListCmd, taskStatusCmd, taskStartCmd,
		taskCompleteCmd, taskSkipCmd, taskResetCmd, taskNextCmd, taskCurrentCmd,
		taskDetailsCmd, taskAssignCmd)

	taskCreateCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	taskCreateCmd.Flags().StringVar(&taskFile, "file", "", "Target artifact path")
	taskCreateCmd.Flags().StringVar(&taskPrompt, "prompt", "", "Instructions for the worker")
	taskCreateCmd.MarkFlagRequired("title")

	taskListCmd.Flags().StringVar(&taskFilter, "status", "", "Filter by status (pending, in-progress, done, skipped)")
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	task, err := svc.CreateTask(taskTitle, taskFile, taskPrompt)
	if err != nil {
		return err
	}

	fmt.Printf("Created task %s: %s\n", task.ID, task.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	tasks, err := svc.ListTasks(models.TaskStatus(taskFilter))
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tAGENT\tFILE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, truncate(t.Title, 40), t.Status, t.AssignedAgent, t.File)
	}
	w.Flush()
	return nil
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	sum, err := svc.Status()
	if err != nil {
		return err
	}

	fmt.Printf("Tasks: %d total\n", sum.Total)
	fmt.Printf("  pending:     %d\n", sum.Pending)
	fmt.Printf("  in-progress: %d\n", sum.InProgress)
	fmt.Printf("  done:        %d\n", sum.Done)
	fmt.Printf("  skipped:     %d\n", sum.Skipped)
	if sum.Current != "" {
		fmt.Printf("Current: %s\n", sum.Current)
	}
	if sum.Next != "" {
		fmt.Printf("Next: %s\n", sum.Next)
	}
	if !sum.LastUpdated.IsZero() {
		fmt.Printf("Last updated: %s\n", sum.LastUpdated.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runTaskStart(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	task, err := svc.StartTask()
	if err != nil {
		return err
	}

	fmt.Printf("Started task %s: %s (assigned to %s)\n", task.ID, task.Title, task.AssignedAgent)
	return nil
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	task, err := svc.CompleteTask(id)
	if err != nil {
		return err
	}

	fmt.Printf("Completed task %s: %s\n", task.ID, task.Title)
	return nil
}

func runTaskSkip(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	task, err := svc.SkipTask(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Skipped task %s: %s\n", task.ID, task.Title)
	return nil
}

func runTaskReset(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	task, err := svc.ResetTask(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Reset task %s to pending\n", task.ID)
	return nil
}

func runTaskNext(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	task, err := svc.NextTask()
	if err != nil {
		return err
	}
	if task == nil {
		fmt.Println("No pending tasks")
		return nil
	}

	printTask(task)
	return nil
}

func runTaskCurrent(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	task, err := svc.CurrentTask()
	if err != nil {
		return err
	}
	if task == nil {
		fmt.Println("No task in progress")
		return nil
	}

	printTask(task)
	return nil
}

func runTaskDetails(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	task, err := svc.TaskDetails(args[0])
	if err != nil {
		return err
	}

	printTask(task)
	return nil
}

func runTaskAssign(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService()
	if err != nil {
		return err
	}
	defer cleanup()

	task, err := svc.AssignTask(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Dispatched task %s to %s\n", task.ID, task.AssignedAgent)
	return nil
}

func printTask(t *models.Task) {
	fmt.Printf("ID:      %s\n", t.ID)
	fmt.Printf("Title:   %s\n", t.Title)
	fmt.Printf("Status:  %s\n", t.Status)
	if t.File != "" {
		fmt.Printf("File:    %s\n", t.File)
	}
	if t.AssignedAgent != "" {
		fmt.Printf("Agent:   %s\n", t.AssignedAgent)
	}
	fmt.Printf("Updated: %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	if t.Prompt != "" {
		fmt.Printf("\n%s\n", t.Prompt)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
