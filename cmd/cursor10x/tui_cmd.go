package main

import (
	"github.com/spf13/cobra"

	"github.com/aurda012/cursor10x/internal/report"
	"github.com/aurda012/cursor10x/internal/store"
	"github.com/aurda012/cursor10x/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the read-only task board",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	st, err := store.Open(ledgerDir)
	if err != nil {
		return err
	}

	return tui.Run(report.NewReporter(st))
}
