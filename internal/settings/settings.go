// Package settings reads runtime settings from the environment and an
// optional .env file. These govern how the evaluator runs, not what it
// checks; the rulebook lives with the reference data.
package settings

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Env string

	ReferenceFolder string
	ScheduleFile    string
	OutputFolder    string
	RulebookFile    string

	ArchiveRuns   bool
	ArchiveFolder string

	Workers int

	Log LogSettings
}

type LogSettings struct {
	Level  string
	Format string
}

func (s Settings) Production() bool {
	return s.Env == "production"
}

func Load() (Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.SetEnvPrefix("EVAL")
	v.AutomaticEnv()

	setDefaults(v)

	// A missing .env file is fine; the environment and defaults cover it
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
	}

	return Settings{
		Env:             v.GetString("ENV"),
		ReferenceFolder: v.GetString("REFERENCE_FOLDER"),
		ScheduleFile:    v.GetString("SCHEDULE_FILE"),
		OutputFolder:    v.GetString("OUTPUT_FOLDER"),
		RulebookFile:    v.GetString("RULEBOOK_FILE"),
		ArchiveRuns:     v.GetBool("ARCHIVE_RUNS"),
		ArchiveFolder:   v.GetString("ARCHIVE_FOLDER"),
		Workers:         v.GetInt("WORKERS"),
		Log: LogSettings{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")

	v.SetDefault("REFERENCE_FOLDER", "REFERENCE")
	v.SetDefault("SCHEDULE_FILE", "schedule.csv")
	v.SetDefault("OUTPUT_FOLDER", "OUTPUT")
	v.SetDefault("RULEBOOK_FILE", "")

	v.SetDefault("ARCHIVE_RUNS", true)
	v.SetDefault("ARCHIVE_FOLDER", "RUNS")

	v.SetDefault("WORKERS", 1)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}
