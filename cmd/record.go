package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/tracker"
)

var errNoPending = errors.New("no pending jobs")

var recordCmd = &cobra.Command{
	Use:   "record [job-id] [notes]",
	Short: "Record an application to a pending job",
	Long: "Record an application to a pending job. The job moves from the pending to the applied jobs.\n" +
		"Without a job id, a pending job is chosen interactively.",
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)

		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		notes := ""
		if len(args) > 1 {
			notes = args[1]
		}

		if id == "" {
			var err error
			if id, err = choosePending(e); err != nil {
				if errors.Is(err, errExit) {
					return
				}
				if errors.Is(err, errNoPending) {
					e.logger.Info("exiting", zap.String("reason", "no pending jobs"))
					return
				}
				e.logger.Fatal("choosing a pending job", zap.Error(err))
			}
		}

		data := tracker.ApplicationData{
			Method: cmd.Flag("method").Value.String(),
			Notes:  notes,
		}

		if at := cmd.Flag("applied-at").Value.String(); at != "" {
			appliedAt, err := time.Parse(time.RFC3339, at)
			if err != nil {
				e.logger.Fatal("parsing applied-at", zap.Error(err), zap.String("hint", "use RFC3339, e.g. 2025-01-01T10:00:00Z"))
			}
			data.AppliedAt = appliedAt
		}

		app, err := e.tracker.Record(e.ctx, id, data)
		if err != nil {
			e.logger.Fatal("recording the application", zap.Error(err), zap.String("job_id", id))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Recorded application: %s at %s\nFollow-up date: %s\n",
			app.Title, app.Company, app.FollowUpDate.Format(time.RFC3339))
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().String("method", "", "application method (default is apply.method from the config)")
	recordCmd.Flags().String("applied-at", "", "application time in RFC3339 (default is now)")
}

func choosePending(e *env) (string, error) {
	state, err := e.tracker.State(e.ctx)
	if err != nil {
		return "", err
	}
	if state.Pending.Len() == 0 {
		return "", errNoPending
	}

	items := make([]string, 0, state.Pending.Len()+1)
	for _, job := range state.Pending.Jobs {
		items = append(items, jobLabel(job))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job you applied to and press ENTER",
		Items: append(items, PromptBack),
		Size:  10,
	}

	_, selected, err := jobPrompt.Run()
	if err != nil {
		return "", err
	}
	if selected == PromptBack {
		return "", errExit
	}

	return strings.Split(selected, " ")[0], nil
}
