package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aurda012/cursor10x/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded task transitions",
	RunE:  runJournal,
}

var (
	journalLimit int
	journalTask  string
)

func init() {
	journalCmd.Flags().IntVar(&journalLimit, "limit", 20, "Maximum entries to show")
	journalCmd.Flags().StringVar(&journalTask, "task", "", "Show entries for a single task")
}

func runJournal(cmd *cobra.Command, args []string) error {
	j, err := journal.Open(filepath.Join(ledgerDir, "journal.db"))
	if err != nil {
		return err
	}
	defer j.Close()

	var entries []journal.Entry
	if journalTask != "" {
		entries, err = j.ForTask(journalTask)
	} else {
		entries, err = j.Recent(journalLimit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No journal entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTASK\tACTION\tFROM\tTO\tWORKER")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.TaskID, e.Action, e.FromStatus, e.ToStatus, e.Worker)
	}
	w.Flush()
	return nil
}
