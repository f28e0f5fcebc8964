package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/job-tracker/internal/jobs"
	"github.com/spigell/job-tracker/internal/tracker"
)

const (
	app       = "job-tracker"
	envPrefix = "JOB_TRACKER"
)

type Config struct {
	DataDir      string         `mapstructure:"data-dir"`
	Profile      string         `mapstructure:"profile"`
	JobsURLBase  string         `mapstructure:"jobs-url-base"`
	FollowUpDays int            `mapstructure:"follow-up-days"`
	Apply        *ApplyConfig   `mapstructure:"apply"`
	Exclude      *ExcludeConfig `mapstructure:"exclude"`
	AI           *AIConfig      `mapstructure:"ai"`
}

type ApplyConfig struct {
	Method string `mapstructure:"method"`
}

type ExcludeConfig struct {
	Companies []string `mapstructure:"companies"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-tracker discovers job postings from browser snapshots and tracks applications to them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-tracker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("data-dir", "", "directory with pending_jobs.json and applied_jobs.json")
	rootCmd.PersistentFlags().String("profile", "", "candidate profile file")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data-dir", "data")
	v.SetDefault("profile", "data/candidate-profile.json")
	v.SetDefault("jobs-url-base", jobs.DefaultURLBase)
	v.SetDefault("follow-up-days", tracker.DefaultFollowUpDays)
	v.SetDefault("apply.method", tracker.DefaultMethod)
	v.SetDefault("exclude.companies", []string{})
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.gemini.model", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.max-log-length", 0)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Apply == nil {
		config.Apply = &ApplyConfig{Method: tracker.DefaultMethod}
	}
	if config.Exclude == nil {
		config.Exclude = &ExcludeConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
