package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/ai"
	"github.com/spigell/job-tracker/internal/ai/gemini"
	"github.com/spigell/job-tracker/internal/fit"
	"github.com/spigell/job-tracker/internal/report"
	"github.com/spigell/job-tracker/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [extract-file]",
	Short: "Score a job against the candidate profile and write an application prep document",
	Long: "Score a job against the candidate profile and write an application prep document.\n" +
		"The job is read from a detail extract file, or taken from the pending jobs with --job.",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		evaluate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().String("job", "", "evaluate the pending job with this id instead of an extract file")
	evaluateCmd.Flags().StringP("output", "o", "", "write the prep document to the file instead of stdout")
	evaluateCmd.Flags().Bool("draft", false, "draft a cover letter with the AI provider even if ai.enabled is false")
}

func evaluate(cmd *cobra.Command, args []string) {
	e := setup(cmd)

	extract, err := loadExtract(e, args, cmd.Flag("job").Value.String())
	if err != nil {
		e.logger.Fatal("loading the job", zap.Error(err))
	}

	profile, err := loadProfile(e.config.Profile, e.logger)
	if err != nil {
		e.logger.Fatal("loading the candidate profile", zap.Error(err))
	}

	analysis := fit.Score(extract, profile)
	redFlags := fit.RedFlags(extract)

	e.logger.Info("job evaluated",
		zap.String("company", extract.Basic.Company),
		zap.String("title", extract.Basic.Title),
		zap.Int("score", analysis.Score),
		zap.String("recommendation", string(analysis.Recommendation)),
		zap.Strings("red_flags", redFlags),
		zap.Strings("notes", analysis.Notes),
	)

	prep := &report.Prep{
		Extract:   extract,
		Analysis:  analysis,
		RedFlags:  redFlags,
		Generated: time.Now(),
	}

	if e.config.AI.Enabled || flagSet(cmd, "draft") {
		letter, err := draftCoverLetter(e.ctx, e.config.AI, e.logger, extract, profile, analysis)
		if err != nil {
			e.logger.Warn("skipping cover letter draft", zap.Error(err))
		} else {
			prep.CoverLetter = letter.Letter
		}
	}

	doc, err := report.PrepDocument(prep)
	if err != nil {
		e.logger.Fatal("rendering the prep document", zap.Error(err))
	}

	if err := writeOutput(cmd, cmd.Flag("output").Value.String(), doc); err != nil {
		e.logger.Fatal("writing the prep document", zap.Error(err))
	}
}

func loadExtract(e *env, args []string, jobID string) (*fit.Extract, error) {
	if jobID != "" {
		state, err := e.tracker.State(e.ctx)
		if err != nil {
			return nil, err
		}
		job := state.Pending.FindByID(jobID)
		if job == nil {
			return nil, fmt.Errorf("job %q is not pending", jobID)
		}
		return fit.ExtractFromRecord(job), nil
	}

	if len(args) == 0 {
		return nil, errors.New("an extract file or --job is required")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading extract: %w", err)
	}

	var extract *fit.Extract
	if err := json.Unmarshal(data, &extract); err != nil {
		return nil, fmt.Errorf("decoding extract %s: %w", args[0], err)
	}
	if extract == nil {
		return nil, fmt.Errorf("extract %s is empty", args[0])
	}

	return extract, nil
}

func draftCoverLetter(ctx context.Context, cfg *AIConfig, logger *zap.Logger, extract *fit.Extract, profile *fit.Profile, analysis *fit.Analysis) (*ai.CoverLetter, error) {
	drafter, err := newAIDrafter(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building ai drafter: %w", err)
	}

	return drafter.Draft(ctx, extract, profile, analysis)
}

func newAIDrafter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Drafter, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	return gemini.NewDrafter(generator, logger, cfg.Gemini.MaxLogLength), nil
}
