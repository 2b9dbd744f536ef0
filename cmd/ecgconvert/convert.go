package main

import (
	"github.com/spf13/cobra"

	"ecg-converter/internal/cli"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every ECG record in a folder",
	Long: `Convert runs ECGTool once per record found directly inside the input folder
(.dcm, .xml, .scp and .ecg; other files are skipped) and writes the results to
the output folder in the chosen format.

With --anonymize the run takes three passes: records are staged as MUSE-XML in
<output>/temp, de-identified in place, then converted to the chosen format.
The original and pseudonymized identifiers are written to
<output>/anonymization_key.csv. Keep that file private.`,
	Example: `  ecgconvert convert -i /data/muse -o /data/dicom
  ecgconvert convert -i /data/muse -o /data/csv -f CSV --anonymize`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadSettings(cmd, map[string]string{
			"input":        "input",
			"output":       "output",
			"format":       "format",
			"anonymize":    "anonymize",
			"skip_invalid": "skip-invalid",
			"error_log":    "error-log",
		})
		if err != nil {
			return err
		}
		return cli.Run(cli.Options{Config: cfg, Log: log, Out: cmd.OutOrStdout()})
	},
}

func init() {
	convertCmd.Flags().StringP("input", "i", "", "input folder containing ECG records")
	convertCmd.Flags().StringP("output", "o", "", "output folder")
	convertCmd.Flags().StringP("format", "f", "", "target format, see 'ecgconvert formats' (default: DICOM)")
	convertCmd.Flags().BoolP("anonymize", "a", false, "pseudonymize patient demographics before conversion")
	convertCmd.Flags().Bool("skip-invalid", false, "count records with missing demographic fields as failed instead of stopping")
	convertCmd.Flags().String("error-log", "", "append per-file failures to this file")

	rootCmd.AddCommand(convertCmd)
}
