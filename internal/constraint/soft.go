package constraint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/config"
	"github.com/schedeval/schedeval/internal/interval"
	"github.com/schedeval/schedeval/internal/schedule"
)

// SoftChecker applies the penalized rules. Every violation's penalty goes
// through the rulebook's uniform magnitude^exponent*weight formula.
type SoftChecker interface {
	Check(meetings []*schedule.Meeting, sections []*schedule.Section) []Violation
}

func NewSoftChecker(cat *catalog.Catalog, cfg config.Config, logger *zap.Logger, workers int) SoftChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &softChecker{catalog: cat, config: cfg, logger: logger, workers: workers}
}

type softChecker struct {
	catalog *catalog.Catalog
	config  config.Config
	logger  *zap.Logger
	workers int
}

func (c *softChecker) Check(meetings []*schedule.Meeting, sections []*schedule.Section) []Violation {
	rules := []rule{
		{TypeFacultyOverload, func() []Violation { return c.facultyOverload(meetings) }},
		{TypeFacultyUnderfill, func() []Violation { return c.facultyUnderfill(meetings) }},
		{TypeSectionOverfill, func() []Violation { return c.sectionOverfill(sections) }},
		{TypeSectionUnderfill, func() []Violation { return c.sectionUnderfill(sections) }},
		{TypeMinContinuousClass, func() []Violation { return c.minContinuous(meetings) }},
		{TypeExcessGap, func() []Violation { return c.excessGap(meetings) }},
		{TypeNonPreferredSubject, func() []Violation { return c.nonPreferredSubjects(sections) }},
		{TypeFridayLateClass, func() []Violation { return c.fridayLateClasses(meetings) }},
		{TypeExcessSubjects, func() []Violation { return c.excessSubjects(meetings) }},
		{TypeExternalConflict, func() []Violation { return c.externalConflicts(meetings) }},
	}
	violations := runRules(rules, c.workers, c.logger)
	c.logger.Info("soft constraints checked", zap.Int("violations", len(violations)))
	return violations
}

// facultyMinutes sums teaching minutes per faculty, merged meetings
// counting for every faculty in their set.
func (c *softChecker) facultyMinutes(meetings []*schedule.Meeting) []entityMeetings {
	return groupByEntity(meetings, facultyIDs)
}

func (c *softChecker) facultyOverload(meetings []*schedule.Meeting) []Violation {
	violations := []Violation{}

	for _, entity := range c.facultyMinutes(meetings) {
		faculty, ok := c.catalog.FacultyByID[entity.id]
		if !ok {
			continue
		}
		maxMinutes := int(faculty.MaxLoad * config.LoadToMinutes)
		if maxMinutes <= 0 {
			continue
		}

		total := lo.SumBy(entity.meetings, (*schedule.Meeting).Duration)
		if total <= maxMinutes {
			continue
		}

		excess := total - maxMinutes
		violations = append(violations, Violation{
			Type:       TypeFacultyOverload,
			EntityType: "Faculty",
			EntityName: faculty.Name,
			Magnitude:  excess,
			Penalty:    c.config.ApplyPenalty(excess, c.config.Penalties.FacultyOverloadPerLoad),
			Details: fmt.Sprintf("%s: %s assigned, max %s, over by %s",
				faculty.Name, interval.FormatDuration(total),
				interval.FormatDuration(maxMinutes), interval.FormatDuration(excess)),
		})
	}

	return violations
}

// facultyUnderfill checks every catalog faculty, including those with no
// meetings at all.
func (c *softChecker) facultyUnderfill(meetings []*schedule.Meeting) []Violation {
	totals := map[int64]int{}
	for _, entity := range c.facultyMinutes(meetings) {
		totals[entity.id] = lo.SumBy(entity.meetings, (*schedule.Meeting).Duration)
	}

	ids := lo.Keys(c.catalog.FacultyByID)
	slices.Sort(ids)

	violations := []Violation{}
	for _, id := range ids {
		faculty := c.catalog.FacultyByID[id]
		minMinutes := int(faculty.MinLoad * config.LoadToMinutes)
		if minMinutes <= 0 {
			continue
		}

		total := totals[id]
		if total >= minMinutes {
			continue
		}

		shortfall := minMinutes - total
		violations = append(violations, Violation{
			Type:       TypeFacultyUnderfill,
			EntityType: "Faculty",
			EntityName: faculty.Name,
			Magnitude:  shortfall,
			Penalty:    c.config.ApplyPenalty(shortfall, c.config.Penalties.FacultyUnderfillPerLoad),
			Details: fmt.Sprintf("%s: %s assigned, min %s, under by %s",
				faculty.Name, interval.FormatDuration(total),
				interval.FormatDuration(minMinutes), interval.FormatDuration(shortfall)),
		})
	}

	return violations
}

// sectionOverfill compares head count against the primary room's optimal
// capacity, falling back to raw capacity when the optimal column is absent.
func (c *softChecker) sectionOverfill(sections []*schedule.Section) []Violation {
	violations := []Violation{}

	for _, section := range sections {
		room := c.primaryRoom(section)
		if room == nil {
			continue
		}

		optimal := room.OptimalCapacity
		if optimal == 0 {
			optimal = room.Capacity
		}
		if optimal == 0 || section.TotalStudents <= optimal {
			continue
		}

		excess := section.TotalStudents - optimal
		violations = append(violations, Violation{
			Type:       TypeSectionOverfill,
			EntityType: "Section",
			EntityName: section.ID,
			Magnitude:  excess,
			Penalty:    c.config.ApplyPenalty(excess, c.config.Penalties.SectionOverfillPerStudent),
			Details: fmt.Sprintf("%s: %d students in %s (optimal %d), over by %d",
				section.ID, section.TotalStudents, room.Name, optimal, excess),
		})
	}

	return violations
}

// sectionUnderfill is inert for rooms without a minimum-capacity column.
func (c *softChecker) sectionUnderfill(sections []*schedule.Section) []Violation {
	violations := []Violation{}

	for _, section := range sections {
		room := c.primaryRoom(section)
		if room == nil || room.MinCapacity == 0 || section.TotalStudents >= room.MinCapacity {
			continue
		}

		shortfall := room.MinCapacity - section.TotalStudents
		violations = append(violations, Violation{
			Type:       TypeSectionUnderfill,
			EntityType: "Section",
			EntityName: section.ID,
			Magnitude:  shortfall,
			Penalty:    c.config.ApplyPenalty(shortfall, c.config.Penalties.SectionUnderfillPerStudent),
			Details: fmt.Sprintf("%s: %d students in %s (min %d), under by %d",
				section.ID, section.TotalStudents, room.Name, room.MinCapacity, shortfall),
		})
	}

	return violations
}

func (c *softChecker) primaryRoom(section *schedule.Section) *catalog.Room {
	id, ok := section.PrimaryRoom()
	if !ok {
		return nil
	}
	return c.catalog.RoomsByID[id]
}

func (c *softChecker) minContinuous(meetings []*schedule.Meeting) []Violation {
	check := func(entityType string, ids func(*schedule.Meeting) []int64) []Violation {
		violations := []Violation{}
		for _, entity := range groupByEntity(meetings, ids) {
			name := c.entityName(entityType, entity.id)
			for _, day := range groupByDay(entity.meetings) {
				for _, block := range interval.ContinuousBlocks(spans(day.meetings)) {
					if block.Duration() <= 0 || block.Duration() >= c.config.MinContinuousMinutes {
						continue
					}
					shortfall := c.config.MinContinuousMinutes - block.Duration()
					violations = append(violations, Violation{
						Type:       TypeMinContinuousClass,
						EntityType: entityType,
						EntityName: name,
						Day:        day.day,
						Magnitude:  shortfall,
						Penalty:    c.config.ApplyPenalty(shortfall, c.config.Penalties.UnderMinimumBlockPerMinute),
						Details: fmt.Sprintf("%s on %s: %s block (%s-%s), below min %s by %s",
							name, day.day, interval.FormatDuration(block.Duration()),
							interval.FormatClock(block.Start), interval.FormatClock(block.End),
							interval.FormatDuration(c.config.MinContinuousMinutes),
							interval.FormatDuration(shortfall)),
					})
				}
			}
		}
		return violations
	}

	return append(check("Faculty", facultyIDs), check("Batch", batchIDs)...)
}

func (c *softChecker) excessGap(meetings []*schedule.Meeting) []Violation {
	check := func(entityType string, ids func(*schedule.Meeting) []int64) []Violation {
		violations := []Violation{}
		for _, entity := range groupByEntity(meetings, ids) {
			name := c.entityName(entityType, entity.id)
			for _, day := range groupByDay(entity.meetings) {
				for _, gap := range interval.Gaps(spans(day.meetings)) {
					if gap.Minutes <= c.config.ExcessGapMinutes {
						continue
					}
					excess := gap.Minutes - c.config.ExcessGapMinutes
					violations = append(violations, Violation{
						Type:       TypeExcessGap,
						EntityType: entityType,
						EntityName: name,
						Day:        day.day,
						Magnitude:  excess,
						Penalty:    c.config.ApplyPenalty(excess, c.config.Penalties.ExcessGapPerMinute),
						Details: fmt.Sprintf("%s on %s: %s gap (%s-%s), exceeds threshold %s by %s",
							name, day.day, interval.FormatDuration(gap.Minutes),
							interval.FormatClock(gap.Start), interval.FormatClock(gap.End),
							interval.FormatDuration(c.config.ExcessGapMinutes),
							interval.FormatDuration(excess)),
					})
				}
			}
		}
		return violations
	}

	return append(check("Faculty", facultyIDs), check("Batch", batchIDs)...)
}

// nonPreferredSubjects counts sections, not meetings: a faculty teaching
// two sections of an unwanted subject scores magnitude 2.
func (c *softChecker) nonPreferredSubjects(sections []*schedule.Section) []Violation {
	type pairKey struct {
		facultyID int64
		subjectID int64
	}
	keys := []pairKey{}
	counts := map[pairKey]int{}

	for _, section := range sections {
		if !section.HasFaculty {
			continue
		}
		faculty, ok := c.catalog.FacultyByID[section.FacultyID]
		if !ok || len(faculty.PreferredSubjects) == 0 {
			continue
		}
		if lo.Contains(faculty.PreferredSubjects, section.SubjectID) {
			continue
		}

		key := pairKey{section.FacultyID, section.SubjectID}
		if _, seen := counts[key]; !seen {
			keys = append(keys, key)
		}
		counts[key]++
	}

	return lo.Map(keys, func(key pairKey, _ int) Violation {
		count := counts[key]
		facultyName := c.catalog.FacultyName(key.facultyID)
		subjectName := c.catalog.SubjectName(key.subjectID)
		return Violation{
			Type:       TypeNonPreferredSubject,
			EntityType: "Faculty",
			EntityName: facultyName,
			Magnitude:  count,
			Penalty:    c.config.ApplyPenalty(count, c.config.Penalties.NonPreferredSubjectPerSection),
			Details: fmt.Sprintf("%s assigned to %d section(s) of non-preferred subject %s",
				facultyName, count, subjectName),
		}
	})
}

func (c *softChecker) fridayLateClasses(meetings []*schedule.Meeting) []Violation {
	violations := []Violation{}

	for _, meeting := range meetings {
		if !catalog.IsFriday(meeting.Day) || meeting.End <= c.config.FridayEndMinutes {
			continue
		}

		over := meeting.End - c.config.FridayEndMinutes
		violations = append(violations, Violation{
			Type:       TypeFridayLateClass,
			EntityType: "Meeting",
			EntityName: meeting.SubjectName,
			Day:        meeting.Day,
			Magnitude:  over,
			Penalty:    c.config.ApplyPenalty(over, c.config.Penalties.FridayLatePerMinute),
			Details: fmt.Sprintf("%s on %s ends at %s, %s past %s",
				meeting.SubjectName, meeting.Day, meeting.EndText,
				interval.FormatDuration(over), interval.FormatClock(c.config.FridayEndMinutes)),
		})
	}

	return violations
}

// excessSubjects counts distinct base subjects per faculty, a lab
// collapsing into its linked lecture before counting.
func (c *softChecker) excessSubjects(meetings []*schedule.Meeting) []Violation {
	violations := []Violation{}

	for _, entity := range groupByEntity(meetings, facultyIDs) {
		faculty, ok := c.catalog.FacultyByID[entity.id]
		if !ok {
			continue
		}

		baseSubjects := map[string]bool{}
		actualSubjects := map[string]bool{}
		for _, meeting := range entity.meetings {
			baseSubjects[c.baseSubjectName(meeting)] = true
			actualSubjects[meeting.SubjectName] = true
		}

		if len(baseSubjects) <= c.config.MaxSubjectsPerFaculty {
			continue
		}

		excess := len(baseSubjects) - c.config.MaxSubjectsPerFaculty
		violations = append(violations, Violation{
			Type:       TypeExcessSubjects,
			EntityType: "Faculty",
			EntityName: faculty.Name,
			Magnitude:  excess,
			Penalty:    c.config.ApplyPenalty(excess, c.config.Penalties.ExcessSubjectsPerSubject),
			Details: fmt.Sprintf("%s has %d unique subjects (max %d), excess %d: %s (including: %s)",
				faculty.Name, len(baseSubjects), c.config.MaxSubjectsPerFaculty, excess,
				strings.Join(sortedKeys(baseSubjects), ", "),
				strings.Join(sortedKeys(actualSubjects), ", ")),
		})
	}

	return violations
}

// baseSubjectName resolves a meeting's subject to its lecture counterpart.
// For unmapped subjects it falls back to stripping a trailing lab suffix
// from the raw name; a heuristic guess, not a guarantee.
func (c *softChecker) baseSubjectName(meeting *schedule.Meeting) string {
	if meeting.SubjectID == 0 {
		return BaseNameHeuristic(meeting.SubjectName)
	}

	subject, ok := c.catalog.SubjectsByID[meeting.SubjectID]
	if !ok {
		return meeting.SubjectName
	}
	if subject.LinkedSubjectID != 0 {
		if lecture, ok := c.catalog.SubjectsByID[subject.LinkedSubjectID]; ok {
			return lecture.Name
		}
	}
	return subject.Name
}

// BaseNameHeuristic guesses the lecture name behind an uncataloged subject:
// uppercase, underscores dropped, then one trailing "LAB" or "L" stripped.
func BaseNameHeuristic(name string) string {
	upper := strings.ReplaceAll(strings.ToUpper(name), "_", "")
	if base, found := strings.CutSuffix(upper, "LAB"); found {
		return strings.TrimSpace(base)
	}
	if base, found := strings.CutSuffix(upper, "L"); found {
		return strings.TrimSpace(base)
	}
	return upper
}

// externalConflicts matches schedule meetings against the catalog's
// external faculty commitments by name, day and time overlap.
func (c *softChecker) externalConflicts(meetings []*schedule.Meeting) []Violation {
	violations := []Violation{}

	for _, external := range c.catalog.ExternalMeetings {
		for _, meeting := range meetings {
			if meeting.Day != external.Day || !lo.Contains(meeting.FacultyNames, external.FacultyName) {
				continue
			}
			if !interval.Overlaps(meeting.Start, meeting.End, external.Start, external.End) {
				continue
			}

			overlap := interval.OverlapMinutes(meeting.Start, meeting.End, external.Start, external.End)
			violations = append(violations, Violation{
				Type:       TypeExternalConflict,
				EntityType: "Faculty",
				EntityName: external.FacultyName,
				Day:        external.Day,
				Magnitude:  overlap,
				Penalty:    c.config.ApplyPenalty(overlap, c.config.Penalties.ExternalConflictPerMinute),
				Details: fmt.Sprintf("%s on %s: %s conflicts with external meeting (%s overlap)",
					external.FacultyName, external.Day, meeting.SubjectName,
					interval.FormatDuration(overlap)),
			})
		}
	}

	return violations
}

func (c *softChecker) entityName(entityType string, id int64) string {
	if entityType == "Faculty" {
		return c.catalog.FacultyName(id)
	}
	return c.catalog.BatchName(id)
}

func sortedKeys(set map[string]bool) []string {
	keys := lo.Keys(set)
	slices.Sort(keys)
	return keys
}
