package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse <snapshot-file>",
	Short: "Print the job listings found in a snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)

		records, err := walkSnapshot(e, args[0])
		if err != nil {
			e.logger.Fatal("reading the snapshot", zap.Error(err), zap.String("path", args[0]))
		}

		content, err := marshalJobs(records)
		if err != nil {
			e.logger.Fatal("encoding jobs", zap.Error(err))
		}

		if err := writeOutput(cmd, cmd.Flag("output").Value.String(), content); err != nil {
			e.logger.Fatal("writing jobs", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "write jobs to the file instead of stdout")
}
