package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/fit"
)

// loadProfile reads the candidate profile. A missing file yields the default profile.
func loadProfile(path string, logger *zap.Logger) (*fit.Profile, error) {
	if path == "" {
		return fit.DefaultProfile(), nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Info("candidate profile not found, using the default one", zap.String("path", path))
		return fit.DefaultProfile(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var profile *fit.Profile
	if err := v.Unmarshal(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	if profile == nil {
		profile = &fit.Profile{}
	}

	logger.Debug("candidate profile loaded",
		zap.String("path", path),
		zap.Strings("skills", profile.Skills),
		zap.Int("years_experience", profile.YearsExperience),
	)

	return profile, nil
}
