package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aurda012/cursor10x/internal/journal"
	"github.com/aurda012/cursor10x/internal/registry"
	"github.com/aurda012/cursor10x/internal/service"
	"github.com/aurda012/cursor10x/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cursor10x",
	Short: "cursor10x - task ledger and capability dispatcher",
	Long:  `cursor10x keeps a durable ledger of tasks and dispatches them one at a time to the best-matched worker from a configurable capability table.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	ledgerDir  string
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&ledgerDir, "dir", "./.cursor10x", "Ledger directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", registry.DefaultConfigPath(), "Agents config file")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(tuiCmd)
}

// openService composes the service for one command invocation. The caller
// must invoke the returned cleanup func.
func openService() (*service.Service, func(), error) {
	st, err := store.Open(ledgerDir)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := registry.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	// The journal is best-effort; a broken journal never blocks the ledger.
	j, err := journal.Open(filepath.Join(ledgerDir, "journal.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: journal unavailable: %v\n", err)
		j = nil
	}

	cleanup := func() {
		if j != nil {
			j.Close()
		}
	}
	return service.New(st, cfg, j), cleanup, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
