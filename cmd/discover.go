package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/filtering"
	"github.com/spigell/job-tracker/internal/jobs"
	"github.com/spigell/job-tracker/internal/snapshot"
	"github.com/spigell/job-tracker/internal/tracker"
)

const (
	PromptYes        = "Yes"
	PromptNo         = "No"
	PromptShowJobs   = "Show jobs"
	PromptJobsToFile = "Dump jobs to file"
	PromptBack       = "back"

	flagIgnoreApplied   = "do-not-exclude-applied"
	flagAutoApprove     = "auto-approve"
	ignoreAppliedReason = "do-not-exclude-applied flag is set"
)

var errExit = errors.New("exit requested")

var discoverPrompt = promptui.Select{
	Label: "Add to pending jobs?",
	Items: []string{PromptYes, PromptNo, PromptShowJobs, PromptJobsToFile},
}

var discoverCmd = &cobra.Command{
	Use:   "discover <snapshot-file>",
	Short: "Parse job listings from a snapshot and add the new ones to the pending jobs",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		discover(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().BoolP(flagIgnoreApplied, "f", false, "do not exclude jobs if already applied")
	discoverCmd.Flags().BoolP(flagAutoApprove, "y", false, "do not ask for confirmation if new jobs found")
}

func discover(cmd *cobra.Command, path string) {
	e := setup(cmd)

	records, err := walkSnapshot(e, path)
	if err != nil {
		e.logger.Fatal("reading the snapshot", zap.Error(err), zap.String("path", path))
	}

	if len(records) == 0 {
		e.logger.Info("exiting", zap.String("reason", "no job listings found"))
		return
	}

	state, err := e.tracker.State(e.ctx)
	if err != nil {
		e.logger.Fatal("loading record sets", zap.Error(err))
	}

	filters := prepareFilters(cmd, e.config, state, e.logger)

	kept, err := filters.RunFilters(e.ctx, records)
	if err != nil {
		e.logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(kept) == 0 {
		e.logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	action := PromptYes
	for {
		if !flagSet(cmd, flagAutoApprove) {
			_, action, err = discoverPrompt.Run()
			if err != nil {
				e.logger.Fatal("exiting", zap.Error(err))
			}
		}

		e.logger.Info("current list of new jobs", zap.Int("count", len(kept)))

		if err := handleDiscoverAction(cmd, e, action, kept); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			e.logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleDiscoverAction(cmd *cobra.Command, e *env, action string, records []*jobs.Record) error {
	switch action {
	case PromptYes:
		added, err := e.tracker.AddPending(e.ctx, records)
		if err != nil {
			return err
		}
		e.logger.Info("new jobs added to pending", zap.Int("count", added))
		return errExit
	case PromptNo:
		e.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptShowJobs:
		for _, r := range records {
			fmt.Fprintln(cmd.OutOrStdout(), jobLabel(r))
		}
		return nil
	case PromptJobsToFile:
		filename, err := dumpToTmpFile(records)
		if err != nil {
			return fmt.Errorf("dump jobs to file: %w", err)
		}
		e.logger.Info("dumping jobs to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func walkSnapshot(e *env, path string) ([]*jobs.Record, error) {
	roots, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, err
	}

	walker := snapshot.NewWalker(e.logger)
	walker.URLBase = e.config.JobsURLBase

	records := walker.Walk(roots)
	e.logger.Info("job listings parsed", zap.String("path", path), zap.Int("count", len(records)))

	return records, nil
}

func prepareFilters(cmd *cobra.Command, config *Config, state *tracker.State, logger *zap.Logger) *filtering.Filtering {
	ignore := flagSet(cmd, flagIgnoreApplied)

	applied := &filtering.AppliedHistoryDeps{History: state.Applied.Records, Logger: logger}
	pending := &filtering.AppliedHistoryDeps{
		History: func() []*jobs.Record { return state.Pending.Jobs },
		Logger:  logger,
	}

	steps := []filtering.Filter{
		filtering.NewAppliedHistory(&filtering.AppliedHistoryConfig{Ignore: ignore}, applied),
		filtering.NewAppliedSignature(applied),
		filtering.NewPending(pending),
		filtering.NewPendingSignature(pending),
		filtering.NewExcludedCompanies(config.Exclude.Companies),
	}

	filters := filtering.New(steps, logger)
	if ignore {
		filters.DisableByName("applied_signature", ignoreAppliedReason)
	}

	for _, status := range filters.Describe() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filters
}

func flagSet(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}
