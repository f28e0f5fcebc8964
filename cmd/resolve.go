package cmd

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/logger"
	"github.com/spigell/job-tracker/internal/resolve"
	"github.com/spigell/job-tracker/internal/snapshot"
	"github.com/spigell/job-tracker/internal/tracker"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <snapshot-file>",
	Short: "Match pending jobs with temporary ids to the listings of a snapshot",
	Long: "Match pending jobs with temporary ids to the listings of a snapshot.\n" +
		"Matched jobs get the ref of the listing to click. After the click, use the attach command with the reached URL.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)

		roots, err := snapshot.ReadFile(args[0])
		if err != nil {
			e.logger.Fatal("reading the snapshot", zap.Error(err), zap.String("path", args[0]))
		}
		listings := snapshot.Listings(roots)

		var result *resolve.Result
		err = e.tracker.Mutate(e.ctx, func(state *tracker.State) error {
			result = resolve.Batch(state.Pending.Jobs, listings, e.logger)
			state.Pending.Jobs = result.Jobs
			state.Pending.UpdatedAt = time.Now().UTC()
			return nil
		})
		if err != nil {
			e.logger.Fatal("resolving pending jobs", zap.Error(err))
		}

		for _, job := range result.Jobs {
			if job.NeedsClickThrough {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s / %s\n", job.JobID, job.MatchedRef, job.Title, job.Company)
			}
		}
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach <job-id> <url>",
	Short: "Replace the temporary id of a pending job with the id found in the job URL",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)

		if err := attach(e, args[0], args[1]); err != nil {
			e.logger.Fatal("attaching job id", zap.Error(err), zap.String("job_id", args[0]), zap.String("url", args[1]))
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(attachCmd)
}

func attach(e *env, id, url string) error {
	return e.tracker.Mutate(e.ctx, func(state *tracker.State) error {
		idx := state.Pending.IndexOf(id)
		if idx == -1 {
			return &tracker.NotFoundError{JobID: id, Set: tracker.SetPending}
		}

		resolved, err := resolve.Attach(state.Pending.Jobs[idx], url)
		if err != nil {
			return err
		}

		fields := append(logger.JobFields(resolved), zap.String("temporary_id", id))

		switch {
		case state.Applied.FindByID(resolved.JobID) != nil:
			e.logger.Warn("job already applied, removing it from pending", fields...)
			state.Pending.Jobs = slices.Delete(slices.Clone(state.Pending.Jobs), idx, idx+1)
		case resolved.JobID != id && state.Pending.FindByID(resolved.JobID) != nil:
			e.logger.Warn("job already pending, removing the duplicate", fields...)
			state.Pending.Jobs = slices.Delete(slices.Clone(state.Pending.Jobs), idx, idx+1)
		default:
			state.Pending.Jobs[idx] = resolved
			e.logger.Info("job id attached", fields...)
		}
		state.Pending.UpdatedAt = time.Now().UTC()

		return nil
	})
}
