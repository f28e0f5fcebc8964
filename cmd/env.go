package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/jobs"
	"github.com/spigell/job-tracker/internal/logger"
	"github.com/spigell/job-tracker/internal/storage"
	"github.com/spigell/job-tracker/internal/tracker"
)

// env is what every command needs: logger, config and the tracker over the data dir.
type env struct {
	ctx     context.Context
	logger  *zap.Logger
	config  *Config
	tracker *tracker.Tracker
}

func setup(cmd *cobra.Command) *env {
	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := storage.New(config.DataDir, logger)
	if err != nil {
		logger.Fatal("opening the data dir", zap.Error(err), zap.String("data_dir", config.DataDir))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &env{
		ctx:    ctx,
		logger: logger,
		config: config,
		tracker: tracker.New(store, &tracker.Config{
			FollowUpDays:  config.FollowUpDays,
			DefaultMethod: config.Apply.Method,
		}, logger),
	}
}

// writeOutput prints content to stdout or writes it to path when set.
func writeOutput(cmd *cobra.Command, path, content string) error {
	if strings.TrimSpace(path) == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func marshalJobs(records []*jobs.Record) (string, error) {
	if records == nil {
		records = []*jobs.Record{}
	}
	pretty, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding jobs: %w", err)
	}
	return string(pretty) + "\n", nil
}

// dumpToTmpFile writes records to a new temporary file and returns its name.
func dumpToTmpFile(records []*jobs.Record) (string, error) {
	content, err := marshalJobs(records)
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(content); err != nil {
		return "", err
	}

	return file.Name(), nil
}

func jobLabel(r *jobs.Record) string {
	label := fmt.Sprintf("%s %s / %s / %s", r.JobID, r.Title, r.Company, r.Location)
	if r.SalaryRange != "" {
		label += " / " + r.SalaryRange
	}
	return label
}
