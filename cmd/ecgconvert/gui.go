package main

import (
	"github.com/spf13/cobra"

	"ecg-converter/internal/gui"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI(cmd)
	},
}

func runGUI(cmd *cobra.Command) error {
	cfg, log, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	gui.NewApp(cfg, log).Run()
	return nil
}

func init() {
	rootCmd.AddCommand(guiCmd)
}
