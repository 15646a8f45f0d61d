package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurda012/cursor10x/internal/store"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Rebuild ledger metadata from the task records",
	RunE:  runRepair,
}

func runRepair(cmd *cobra.Command, args []string) error {
	meta, err := store.Repair(ledgerDir)
	if err != nil {
		return err
	}

	fmt.Printf("Ledger repaired: %d pending, %d in-progress, %d done, %d skipped\n",
		meta.PendingCount, meta.InProgressCount, meta.DoneCount, meta.SkippedCount)
	return nil
}
