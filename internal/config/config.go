// Package config holds the evaluation rulebook: thresholds and penalty
// weights loaded from the reference folder's config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// One faculty load unit equals three teaching hours.
const LoadToMinutes = 180

// Penalties weighs each soft rule. Zero disables the rule's score without
// suppressing its violations.
type Penalties struct {
	FacultyOverloadPerLoad        float64 `mapstructure:"FACULTY_OVERLOAD_PER_LOAD" validate:"gte=0"`
	FacultyUnderfillPerLoad       float64 `mapstructure:"FACULTY_UNDERFILL_PER_LOAD" validate:"gte=0"`
	SectionOverfillPerStudent     float64 `mapstructure:"SECTION_OVERFILL_PER_STUDENT" validate:"gte=0"`
	SectionUnderfillPerStudent    float64 `mapstructure:"SECTION_UNDERFILL_PER_STUDENT" validate:"gte=0"`
	UnderMinimumBlockPerMinute    float64 `mapstructure:"UNDER_MINIMUM_BLOCK_PER_MINUTE" validate:"gte=0"`
	ExcessGapPerMinute            float64 `mapstructure:"EXCESS_GAP_PER_MINUTE" validate:"gte=0"`
	NonPreferredSubjectPerSection float64 `mapstructure:"NON_PREFERRED_SUBJECT_PER_SECTION" validate:"gte=0"`
	FridayLatePerMinute           float64 `mapstructure:"FRIDAY_AFTER_1230_PER_MINUTE" validate:"gte=0"`
	ExcessSubjectsPerSubject      float64 `mapstructure:"EXCESS_SUBJECTS_PER_SUBJECT" validate:"gte=0"`
	ExternalConflictPerMinute     float64 `mapstructure:"EXTERNAL_MEETING_CONFLICT_PER_MINUTE" validate:"gte=0"`
}

// Config is the resolved rulebook. Hour-valued keys from config.json are
// converted to minutes once at load; the checkers only ever see minutes.
type Config struct {
	PenaltyExponent float64 `validate:"gt=0"`

	MaxContinuousMinutes int `validate:"gt=0"`
	MinContinuousMinutes int `validate:"gte=0"`
	// ExcessGapMinutes doubles as the excess-gap threshold (MAX_GAP_HOURS).
	ExcessGapMinutes int `validate:"gte=0"`
	MinGapMinutes    int `validate:"gte=0"`

	FridayEndMinutes      int `validate:"gte=0,lte=1440"`
	MaxSubjectsPerFaculty int `validate:"gt=0"`

	LectureUnitToHours float64 `validate:"gte=0"`
	LabUnitToHours     float64 `validate:"gte=0"`

	Penalties Penalties
}

// rulebookFile mirrors the config.json schema before unit conversion.
type rulebookFile struct {
	PenaltyExponent          float64   `mapstructure:"PENALTY_EXPONENT"`
	MaxContinuousClassHours  float64   `mapstructure:"MAX_CONTINUOUS_CLASS_HOURS"`
	MinContinuousClassHours  float64   `mapstructure:"MIN_CONTINUOUS_CLASS_HOURS"`
	MaxGapHours              float64   `mapstructure:"MAX_GAP_HOURS"`
	MinGapHours              float64   `mapstructure:"MIN_GAP_HOURS"`
	FridayEndMinutes         int       `mapstructure:"FRIDAY_END_MINUTES"`
	MaxSubjectsPerFaculty    int       `mapstructure:"MAX_SUBJECTS_PER_FACULTY"`
	LectureUnitToHours       float64   `mapstructure:"LECTURE_UNIT_TO_HOURS"`
	LabUnitToHours           float64   `mapstructure:"LAB_UNIT_TO_HOURS"`
	ConstraintPenalties      Penalties `mapstructure:"ConstraintPenalties"`
}

// Default returns the rulebook used when config.json is absent.
func Default() Config {
	return Config{
		PenaltyExponent:       1.0,
		MaxContinuousMinutes:  180,
		MinContinuousMinutes:  90,
		ExcessGapMinutes:      30,
		MinGapMinutes:         30,
		FridayEndMinutes:      750,
		MaxSubjectsPerFaculty: 5,
		LectureUnitToHours:    1,
		LabUnitToHours:        3,
		Penalties: Penalties{
			FacultyOverloadPerLoad:        1,
			FacultyUnderfillPerLoad:       1,
			SectionOverfillPerStudent:     1,
			SectionUnderfillPerStudent:    1,
			UnderMinimumBlockPerMinute:    0,
			ExcessGapPerMinute:            0,
			NonPreferredSubjectPerSection: 1,
			FridayLatePerMinute:           1,
			ExcessSubjectsPerSubject:      1,
			ExternalConflictPerMinute:     1,
		},
	}
}

// Load reads config.json, overlaying its keys on the defaults. A missing
// file is not an error; a malformed or invalid one is.
func Load(path string, logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bytes, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("rulebook not found, using defaults", zap.String("path", path))
		return Default(), nil
	} else if err != nil {
		return Config{}, fmt.Errorf("read rulebook %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse rulebook %s: %w", path, err)
	}

	cfg, err := FromMap(raw)
	if err != nil {
		return Config{}, fmt.Errorf("rulebook %s: %w", path, err)
	}

	logger.Info("rulebook loaded",
		zap.String("path", path),
		zap.Float64("penalty_exponent", cfg.PenaltyExponent),
		zap.Int("max_continuous_minutes", cfg.MaxContinuousMinutes),
		zap.Int("min_gap_minutes", cfg.MinGapMinutes),
	)
	return cfg, nil
}

// FromMap decodes an already-parsed rulebook document. Unknown keys are
// ignored, absent keys keep their defaults.
func FromMap(raw map[string]any) (Config, error) {
	cfg := Default()

	file := rulebookFile{
		PenaltyExponent:         cfg.PenaltyExponent,
		MaxContinuousClassHours: float64(cfg.MaxContinuousMinutes) / 60,
		MinContinuousClassHours: float64(cfg.MinContinuousMinutes) / 60,
		MaxGapHours:             float64(cfg.ExcessGapMinutes) / 60,
		MinGapHours:             float64(cfg.MinGapMinutes) / 60,
		FridayEndMinutes:        cfg.FridayEndMinutes,
		MaxSubjectsPerFaculty:   cfg.MaxSubjectsPerFaculty,
		LectureUnitToHours:      cfg.LectureUnitToHours,
		LabUnitToHours:          cfg.LabUnitToHours,
		ConstraintPenalties:     cfg.Penalties,
	}
	if err := mapstructure.WeakDecode(raw, &file); err != nil {
		return Config{}, fmt.Errorf("decode rulebook: %w", err)
	}

	cfg = Config{
		PenaltyExponent:       file.PenaltyExponent,
		MaxContinuousMinutes:  int(file.MaxContinuousClassHours * 60),
		MinContinuousMinutes:  int(file.MinContinuousClassHours * 60),
		ExcessGapMinutes:      int(file.MaxGapHours * 60),
		MinGapMinutes:         int(file.MinGapHours * 60),
		FridayEndMinutes:      file.FridayEndMinutes,
		MaxSubjectsPerFaculty: file.MaxSubjectsPerFaculty,
		LectureUnitToHours:    file.LectureUnitToHours,
		LabUnitToHours:        file.LabUnitToHours,
		Penalties:             file.ConstraintPenalties,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate rulebook: %w", err)
	}
	return cfg, nil
}

// ApplyPenalty scales a violation magnitude into a weighted score:
// magnitude^exponent * weight, 0 for non-positive magnitudes.
func (c Config) ApplyPenalty(magnitude int, weight float64) float64 {
	if magnitude <= 0 {
		return 0
	}
	return math.Pow(float64(magnitude), c.PenaltyExponent) * weight
}
