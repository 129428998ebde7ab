package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	dataDir    string
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	rootCmd := &cobra.Command{
		Use:           "smtd-ops",
		Short:         "Operator tools for the smtd state store",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", "", "config file (default $SMTD_CONFIG or smtd.yml)")
	rootCmd.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "override server.data_dir")

	rootCmd.AddCommand(backupCmd(&f))
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(drillCmd(&f))
	rootCmd.AddCommand(exportCmd(&f))
	rootCmd.AddCommand(importCmd(&f))
	rootCmd.AddCommand(rolloverCmd(&f))
	rootCmd.AddCommand(notifyCmd(&f))
	return rootCmd
}
