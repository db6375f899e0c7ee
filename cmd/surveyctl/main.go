package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "surveyctl",
		Short: "surveyctl - operator tool for field survey projects",
		Long: `surveyctl manages survey projects on disk: list and create projects,
import and export record tables, manage the road overlay and publish a
project to PostGIS.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "configs", "directory containing app.yaml")

	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(overlayCmd())
	rootCmd.AddCommand(publishCmd())
	return rootCmd
}
