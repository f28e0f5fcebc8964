package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/report"
)

var followUpsCmd = &cobra.Command{
	Use:     "follow-ups",
	Aliases: []string{"followups"},
	Short:   "Report the submitted applications due for a follow-up",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)

		due, err := e.tracker.DueFollowUps(e.ctx)
		if err != nil {
			e.logger.Fatal("getting due follow-ups", zap.Error(err))
		}

		e.logger.Info("applications due for follow-up", zap.Int("count", len(due)))

		content, err := report.FollowUpReport(due, time.Now())
		if err != nil {
			e.logger.Fatal("rendering the follow-up report", zap.Error(err))
		}

		if err := writeOutput(cmd, cmd.Flag("output").Value.String(), content); err != nil {
			e.logger.Fatal("writing the follow-up report", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(followUpsCmd)

	followUpsCmd.Flags().StringP("output", "o", "", "write the report to the file instead of stdout")
}
