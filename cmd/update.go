package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/tracker"
)

var updateCmd = &cobra.Command{
	Use:   "update <job-id> <status>",
	Short: "Update the status of an application",
	Long: "Update the status of an application.\n" +
		"Status: submitted | interviewing | rejected | offer",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)

		status, err := tracker.ParseStatus(args[1])
		if err != nil {
			e.logger.Fatal("parsing the status", zap.Error(err), zap.Any("allowed", tracker.Statuses()))
		}

		update := tracker.StatusUpdate{
			Status:        status,
			Notes:         cmd.Flag("notes").Value.String(),
			InterviewDate: cmd.Flag("interview-date").Value.String(),
			Force:         flagSet(cmd, "force"),
		}
		if cmd.Flags().Changed("response") {
			response := strings.TrimSpace(cmd.Flag("response").Value.String())
			update.Response = &response
		}

		app, err := e.tracker.Update(e.ctx, args[0], update)
		if err != nil {
			e.logger.Fatal("updating the status", zap.Error(err), zap.String("job_id", args[0]))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s at %s: %s\n", app.Title, app.Company, app.Status)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringP("notes", "n", "", "notes appended to the application")
	updateCmd.Flags().String("response", "", "response received from the company")
	updateCmd.Flags().String("interview-date", "", "interview date")
	updateCmd.Flags().Bool("force", false, "allow a transition outside the status table")
}
