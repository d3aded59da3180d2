package catalog

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/interval"
	"github.com/schedeval/schedeval/internal/tabular"
)

// Reference file names expected inside the reference folder.
const (
	FacultyFile          = "faculty.csv"
	SubjectsFile         = "subjects.csv"
	RoomsFile            = "rooms.csv"
	BatchesFile          = "student_batches.csv"
	BannedTimesFile      = "banned_times.csv"
	ExternalMeetingsFile = "external_meetings.csv"
)

// Load reads the reference folder into a Catalog. The four entity tables are
// required; banned times and external meetings load only when present.
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &loader{logger: logger}

	faculty, err := l.loadFaculty(filepath.Join(dir, FacultyFile))
	if err != nil {
		return nil, err
	}
	subjects, err := l.loadSubjects(filepath.Join(dir, SubjectsFile))
	if err != nil {
		return nil, err
	}
	rooms, err := l.loadRooms(filepath.Join(dir, RoomsFile))
	if err != nil {
		return nil, err
	}
	batches, err := l.loadBatches(filepath.Join(dir, BatchesFile))
	if err != nil {
		return nil, err
	}

	c := New(faculty, subjects, rooms, batches)

	if c.BannedTimes, err = l.loadBannedTimes(filepath.Join(dir, BannedTimesFile)); err != nil {
		return nil, err
	}
	if c.ExternalMeetings, err = l.loadExternalMeetings(filepath.Join(dir, ExternalMeetingsFile)); err != nil {
		return nil, err
	}

	logger.Info("reference data loaded",
		zap.Int("faculty", len(faculty)),
		zap.Int("subjects", len(subjects)),
		zap.Int("rooms", len(rooms)),
		zap.Int("batches", len(batches)),
		zap.Int("banned_times", len(c.BannedTimes)),
		zap.Int("external_meetings", len(c.ExternalMeetings)),
	)

	return c, nil
}

type loader struct {
	logger *zap.Logger
}

func (l *loader) loadFaculty(path string) ([]*Faculty, error) {
	rows, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}

	faculty := []*Faculty{}
	for _, row := range rows {
		name := row.Get("faculty_name")
		id, ok := l.entityID(row, path, "faculty_id", name)
		if !ok {
			continue
		}

		faculty = append(faculty, &Faculty{
			ID:                id,
			Name:              name,
			MinLoad:           l.floatField(row, path, "min_load", 0),
			MaxLoad:           l.floatField(row, path, "max_load", 99),
			MaxSubjects:       l.intField(row, path, "max_subjects", 99),
			PreferredSubjects: parseIDList(row.Get("preferred_subjects")),
			QualifiedSubjects: parseIDList(row.Get("qualified_subjects")),
		})
	}
	return faculty, nil
}

func (l *loader) loadSubjects(path string) ([]*Subject, error) {
	rows, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}

	subjects := []*Subject{}
	for _, row := range rows {
		name := row.Get("subject_name")
		id, ok := l.entityID(row, path, "subject_id", name)
		if !ok {
			continue
		}

		subjects = append(subjects, &Subject{
			ID:              id,
			Name:            name,
			NormalizedName:  NormalizeSubjectName(name),
			LectureUnits:    l.floatField(row, path, "lecture_units", 0),
			LabUnits:        l.floatField(row, path, "lab_units", 0),
			LinkedSubjectID: l.int64Field(row, path, "linked_subject_id", 0),
			MaxEnrollment:   l.intField(row, path, "max_enrollment", 60),
		})
	}
	return subjects, nil
}

func (l *loader) loadRooms(path string) ([]*Room, error) {
	rows, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rooms := []*Room{}
	for _, row := range rows {
		name := row.Get("room_name")
		id, ok := l.entityID(row, path, "room_id", name)
		if !ok {
			continue
		}

		rooms = append(rooms, &Room{
			ID:              id,
			Name:            name,
			Capacity:        l.intField(row, path, "capacity", 40),
			OptimalCapacity: l.intField(row, path, "optimal_capacity", 0),
			MinCapacity:     l.intField(row, path, "min_capacity", 0),
		})
	}
	return rooms, nil
}

func (l *loader) loadBatches(path string) ([]*Batch, error) {
	rows, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}

	batches := []*Batch{}
	for _, row := range rows {
		name := row.Get("batch_name")
		id, ok := l.entityID(row, path, "batch_id", name)
		if !ok {
			continue
		}

		batches = append(batches, &Batch{
			ID:         id,
			Name:       name,
			Population: l.intField(row, path, "population", 0),
		})
	}
	return batches, nil
}

func (l *loader) loadBannedTimes(path string) ([]BannedTimeSlot, error) {
	rows, err := tabular.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	slots := lo.Map(rows, func(row tabular.Row, _ int) BannedTimeSlot {
		start, end := clockTexts(row)
		return BannedTimeSlot{
			FacultyName: row.Get("faculty_name"),
			Day:         NormalizeDay(row.Get("day")),
			StartText:   start,
			EndText:     end,
			Start:       interval.ParseClock(start),
			End:         interval.ParseClock(end),
		}
	})
	return slots, nil
}

func (l *loader) loadExternalMeetings(path string) ([]ExternalMeeting, error) {
	rows, err := tabular.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	meetings := lo.Map(rows, func(row tabular.Row, _ int) ExternalMeeting {
		start, end := clockTexts(row)
		return ExternalMeeting{
			FacultyName: row.Get("faculty_name"),
			Day:         NormalizeDay(row.Get("day")),
			StartText:   start,
			EndText:     end,
			Start:       interval.ParseClock(start),
			End:         interval.ParseClock(end),
			Description: row.Get("description"),
		}
	})
	return meetings, nil
}

// entityID parses the row's id column; rows without a usable id or name are
// skipped rather than failing the whole load.
func (l *loader) entityID(row tabular.Row, path, column, name string) (int64, bool) {
	if name == "" {
		l.logger.Warn("skipping row without a name", zap.String("file", path), zap.String("id_column", column))
		return 0, false
	}

	id, err := strconv.ParseInt(row.Get(column), 10, 64)
	if err != nil {
		l.logger.Warn("skipping row without a numeric id",
			zap.String("file", path),
			zap.String("id_column", column),
			zap.String("name", name),
		)
		return 0, false
	}
	return id, true
}

func (l *loader) intField(row tabular.Row, path, column string, fallback int) int {
	raw := row.Get(column)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		l.warnFallback(path, column, raw)
		return fallback
	}
	return value
}

func (l *loader) int64Field(row tabular.Row, path, column string, fallback int64) int64 {
	raw := row.Get(column)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		l.warnFallback(path, column, raw)
		return fallback
	}
	return value
}

func (l *loader) floatField(row tabular.Row, path, column string, fallback float64) float64 {
	raw := row.Get(column)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		l.warnFallback(path, column, raw)
		return fallback
	}
	return value
}

func (l *loader) warnFallback(path, column, raw string) {
	l.logger.Warn("unparsable numeric field, using default",
		zap.String("file", path),
		zap.String("column", column),
		zap.String("value", raw),
	)
}

// clockTexts reads the start_time and end_time columns of a row.
func clockTexts(row tabular.Row) (string, string) {
	return row.Get("start_time"), row.Get("end_time")
}

// parseIDList splits a semicolon-separated id list, dropping blanks and
// anything non-numeric.
func parseIDList(value string) []int64 {
	return lo.FilterMap(strings.Split(value, ";"), func(part string, _ int) (int64, bool) {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		return id, err == nil
	})
}
