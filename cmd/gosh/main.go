package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcelocantos/gosh/internal/cli"
	"github.com/marcelocantos/gosh/internal/config"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		command    string
		noHistory  bool
		status     int
	)

	loadConfig := func() (*config.Config, error) {
		if configPath != "" {
			return config.LoadFrom(configPath)
		}
		return config.Load()
	}

	root := &cobra.Command{
		Use:           "gosh",
		Short:         "An interactive shell with pipelines, history and completion",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			sh, err := cli.New(cli.Options{Config: cfg, NoHistory: noHistory})
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("command") {
				status = sh.RunCommand(command)
			} else {
				status = sh.Interactive()
			}
			return nil
		},
	}
	root.SetVersionTemplate("gosh {{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	root.Flags().StringVarP(&command, "command", "c", "", "run `LINE` and exit with its status")
	root.Flags().BoolVar(&noHistory, "no-history", false, "neither load nor record the history journal")

	var (
		journalLines int
		journalJSON  bool
	)
	journal := &cobra.Command{
		Use:   "journal",
		Short: "Show recently executed command lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			status = cli.RunJournal(cmd.OutOrStdout(), cfg.History.Path, journalLines, journalJSON)
			return nil
		},
	}
	journal.Flags().IntVarP(&journalLines, "lines", "n", cli.DefaultJournalLines, "number of entries to show")
	journal.Flags().BoolVar(&journalJSON, "json", false, "print entries as JSON")
	root.AddCommand(journal)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
		return 1
	}
	return status
}
