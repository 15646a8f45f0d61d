package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aurda012/cursor10x/internal/registry"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Show the worker capability table",
	RunE:  runAgentsList,
}

var agentsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default capability table to the config file",
	RunE:  runAgentsInit,
}

func init() {
	agentsCmd.AddCommand(agentsInitCmd)
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	cfg, err := registry.LoadConfig(configPath)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRULES")
	for _, worker := range cfg.Profiles() {
		rules := make([]string, 0, len(worker.Rules))
		for _, r := range worker.Rules {
			if r.PathPattern != "" {
				rules = append(rules, r.PathPattern)
			} else {
				rules = append(rules, strings.Join(r.Keywords, "|"))
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", worker.ID, worker.Name, strings.Join(rules, ", "))
	}
	w.Flush()

	if cfg.DefaultWorker() != "" {
		fmt.Printf("\nDefault: %s\n", cfg.DefaultWorker())
	}
	return nil
}

func runAgentsInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	if err := registry.SaveConfig(configPath, registry.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Wrote default capability table to %s\n", configPath)
	return nil
}
