package schedule

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/interval"
)

// Unification is the output of meeting unification: the canonical meeting
// list plus everything the merge step learned about the input's quality.
type Unification struct {
	// Meetings is the unified list, one entry per physical meeting.
	Meetings []*Meeting
	// Rows is the per-row mapping before merging, kept for audit reports.
	Rows []*Meeting
	// UnmappedSubjects lists schedule subject names absent from the catalog.
	UnmappedSubjects []string
	// Conflicts records meetings whose merged rows disagreed on faculty or room.
	Conflicts []Conflict
}

type Unifier interface {
	Unify(rows []RawRow) *Unification
}

func NewUnifier(cat *catalog.Catalog, logger *zap.Logger) Unifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &unifier{catalog: cat, logger: logger}
}

type unifier struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func (u *unifier) Unify(rows []RawRow) *Unification {
	//** Map every raw row against the catalog
	unmapped := map[string]bool{}
	mapped := lo.Map(rows, func(row RawRow, _ int) *Meeting {
		return u.mapRow(row, unmapped)
	})

	//** Group rows describing the same physical meeting
	type meetingKey struct {
		subject, day, start, end string
	}
	keys := []meetingKey{}
	groups := map[meetingKey][]*Meeting{}
	for _, row := range mapped {
		key := meetingKey{row.SubjectName, row.Day, row.StartText, row.EndText}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}

	//** Merge each group, single-row groups pass through unchanged
	result := &Unification{Rows: mapped}
	for _, key := range keys {
		group := groups[key]
		if len(group) == 1 {
			result.Meetings = append(result.Meetings, group[0])
			continue
		}
		result.Meetings = append(result.Meetings, u.merge(group, result))
	}

	result.UnmappedSubjects = lo.Keys(unmapped)
	slices.Sort(result.UnmappedSubjects)

	u.logger.Info("meetings unified",
		zap.Int("rows", len(mapped)),
		zap.Int("meetings", len(result.Meetings)),
		zap.Int("conflicts", len(result.Conflicts)),
	)
	if len(result.UnmappedSubjects) > 0 {
		u.logger.Warn("unmapped subjects", zap.Strings("subjects", result.UnmappedSubjects))
	}

	return result
}

// mapRow resolves one raw row's names against the catalog. Unresolvable
// names leave the field empty rather than failing the row.
func (u *unifier) mapRow(row RawRow, unmapped map[string]bool) *Meeting {
	meeting := &Meeting{
		RowIndex:     row.Index,
		ID:           row.MeetingID,
		SourceRows:   []string{row.MeetingID},
		OriginalName: strings.TrimSpace(row.SubjectName),
		Day:          catalog.NormalizeDay(row.Day),
		StartText:    strings.TrimSpace(row.StartText),
		EndText:      strings.TrimSpace(row.EndText),
		Start:        interval.ParseClock(row.StartText),
		End:          interval.ParseClock(row.EndText),
	}

	if subject, ok := u.catalog.SubjectsByName[catalog.NormalizeSubjectName(row.SubjectName)]; ok {
		meeting.SubjectID = subject.ID
		meeting.SubjectName = subject.Name
	} else {
		meeting.SubjectName = meeting.OriginalName
		unmapped[meeting.OriginalName] = true
	}

	if name := strings.TrimSpace(row.FacultyName); name != "" {
		if faculty, ok := u.catalog.FacultyByName[name]; ok {
			meeting.FacultyIDs = []int64{faculty.ID}
			meeting.FacultyNames = []string{faculty.Name}
		}
	}

	if name := strings.TrimSpace(row.RoomName); name != "" {
		if room, ok := u.catalog.RoomsByName[name]; ok {
			meeting.RoomIDs = []int64{room.ID}
			meeting.RoomNames = []string{room.Name}
		}
	}

	for _, name := range SplitBatchField(row.BatchField) {
		batch, ok := u.catalog.BatchesByName[name]
		if !ok {
			continue
		}
		if !lo.Contains(meeting.BatchIDs, batch.ID) {
			meeting.BatchIDs = append(meeting.BatchIDs, batch.ID)
			meeting.BatchNames = append(meeting.BatchNames, batch.Name)
			meeting.BatchPopulation += batch.Population
		}
	}

	return meeting
}

// merge collapses rows sharing one meeting key into a single Meeting,
// recording a conflict whenever the rows disagree on faculty or room. The
// canonical single-valued choice is the first one encountered in input order.
func (u *unifier) merge(group []*Meeting, result *Unification) *Meeting {
	first := group[0]
	merged := &Meeting{
		RowIndex:     first.RowIndex,
		SubjectName:  first.SubjectName,
		OriginalName: first.OriginalName,
		Day:          first.Day,
		StartText:    first.StartText,
		EndText:      first.EndText,
		Start:        first.Start,
		End:          first.End,
	}

	for _, row := range group {
		merged.SourceRows = append(merged.SourceRows, row.ID)
		if merged.SubjectID == 0 {
			merged.SubjectID = row.SubjectID
		}
		for i, id := range row.FacultyIDs {
			if !lo.Contains(merged.FacultyIDs, id) {
				merged.FacultyIDs = append(merged.FacultyIDs, id)
				merged.FacultyNames = append(merged.FacultyNames, row.FacultyNames[i])
			}
		}
		for i, id := range row.RoomIDs {
			if !lo.Contains(merged.RoomIDs, id) {
				merged.RoomIDs = append(merged.RoomIDs, id)
				merged.RoomNames = append(merged.RoomNames, row.RoomNames[i])
			}
		}
		for i, id := range row.BatchIDs {
			if !lo.Contains(merged.BatchIDs, id) {
				merged.BatchIDs = append(merged.BatchIDs, id)
				merged.BatchNames = append(merged.BatchNames, row.BatchNames[i])
			}
		}
	}

	slices.SortFunc(merged.SourceRows, compareRowIDs)
	merged.ID = strings.Join(merged.SourceRows, "/")

	// Population summed once per unique batch id
	merged.BatchPopulation = lo.SumBy(merged.BatchIDs, func(id int64) int {
		if batch, ok := u.catalog.BatchesByID[id]; ok {
			return batch.Population
		}
		return 0
	})

	if len(merged.FacultyIDs) > 1 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Kind:    ConflictMultipleFaculty,
			Meeting: merged.Label(),
			RowIDs:  merged.SourceRows,
			Values:  merged.FacultyNames,
			Details: fmt.Sprintf("Same meeting assigned to %d different faculty: %s",
				len(merged.FacultyIDs), strings.Join(merged.FacultyNames, ", ")),
		})
	}
	if len(merged.RoomIDs) > 1 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Kind:    ConflictMultipleRooms,
			Meeting: merged.Label(),
			RowIDs:  merged.SourceRows,
			Values:  merged.RoomNames,
			Details: fmt.Sprintf("Same meeting assigned to %d different rooms: %s",
				len(merged.RoomIDs), strings.Join(merged.RoomNames, ", ")),
		})
	}

	return merged
}

// SplitBatchField splits a semicolon-separated batch list, stripping the
// parenthesized head-count suffix: "BSIT 1-A (35)" reads as "BSIT 1-A".
func SplitBatchField(field string) []string {
	return lo.FilterMap(strings.Split(field, ";"), func(part string, _ int) (string, bool) {
		if open := strings.Index(part, "("); open >= 0 {
			part = part[:open]
		}
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}
