package main

import "github.com/spf13/cobra"

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.errs|directory>",
	Short: "Verify union declarations without generating code",
	Long:  `Run the full pipeline over *.errs declarations and report diagnostics, writing nothing to disk`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args[0], true)
	},
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}
