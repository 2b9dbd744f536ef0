package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecg-converter/internal/ecg"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the output formats ECGTool can produce",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, f := range ecg.Formats {
			marker := ""
			if f == ecg.IntermediateFormat {
				marker = "  (intermediate for --anonymize)"
			}
			fmt.Fprintf(out, "%-10s %s%s\n", f.Name, f.Ext, marker)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
