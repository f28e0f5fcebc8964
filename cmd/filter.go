package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/filtering"
	"github.com/spigell/job-tracker/internal/jobs"
)

var filterCmd = &cobra.Command{
	Use:   "filter <jobs-file>",
	Short: "Print the jobs of a JSON file that were not applied to yet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)

		data, err := os.ReadFile(args[0])
		if err != nil {
			e.logger.Fatal("reading jobs", zap.Error(err))
		}

		var records []*jobs.Record
		if err := json.Unmarshal(data, &records); err != nil {
			e.logger.Fatal("decoding jobs", zap.Error(err), zap.String("path", args[0]))
		}

		state, err := e.tracker.State(e.ctx)
		if err != nil {
			e.logger.Fatal("loading record sets", zap.Error(err))
		}

		kept := filtering.Dedupe(records, state.Applied.Records(), e.logger)
		e.logger.Info("new jobs to process", zap.Int("initial", len(records)), zap.Int("left", len(kept)))

		content, err := marshalJobs(kept)
		if err != nil {
			e.logger.Fatal("encoding jobs", zap.Error(err))
		}

		if err := writeOutput(cmd, cmd.Flag("output").Value.String(), content); err != nil {
			e.logger.Fatal("writing jobs", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringP("output", "o", "", "write jobs to the file instead of stdout")
}
