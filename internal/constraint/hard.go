package constraint

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/config"
	"github.com/schedeval/schedeval/internal/interval"
	"github.com/schedeval/schedeval/internal/schedule"
)

// HardChecker applies the rules whose violation count must be zero for a
// feasible schedule. Violations carry magnitude only, no penalty.
type HardChecker interface {
	Check(meetings []*schedule.Meeting, sections []*schedule.Section, pairs []*schedule.LectureLabPair) []Violation
}

func NewHardChecker(cat *catalog.Catalog, cfg config.Config, logger *zap.Logger, workers int) HardChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &hardChecker{catalog: cat, config: cfg, logger: logger, workers: workers}
}

type hardChecker struct {
	catalog *catalog.Catalog
	config  config.Config
	logger  *zap.Logger
	workers int
}

func (c *hardChecker) Check(meetings []*schedule.Meeting, sections []*schedule.Section, pairs []*schedule.LectureLabPair) []Violation {
	rules := []rule{
		{TypeFacultyTimeConflict, func() []Violation { return c.timeConflicts(meetings, "Faculty", facultyIDs) }},
		{TypeBatchTimeConflict, func() []Violation { return c.timeConflicts(meetings, "Batch", batchIDs) }},
		{TypeRoomTimeConflict, func() []Violation { return c.timeConflicts(meetings, "Room", roomIDs) }},
		{TypeRoomCapacityExceeded, func() []Violation { return c.roomCapacity(sections) }},
		{TypeMaxContinuousClass, func() []Violation { return c.maxContinuous(meetings) }},
		{TypeMinGap, func() []Violation { return c.minGap(meetings) }},
		{TypeBannedTime, func() []Violation { return c.bannedTimes(meetings) }},
		{TypeLectureLabSeparation, func() []Violation { return c.lectureLabSeparation(pairs) }},
	}
	violations := runRules(rules, c.workers, c.logger)
	c.logger.Info("hard constraints checked", zap.Int("violations", len(violations)))
	return violations
}

// timeConflicts reports every overlapping meeting pair of one entity on one
// day; a merged meeting counts for every entity in its set.
func (c *hardChecker) timeConflicts(meetings []*schedule.Meeting, entityType string, ids func(*schedule.Meeting) []int64) []Violation {
	violations := []Violation{}

	for _, entity := range groupByEntity(meetings, ids) {
		name := c.entityName(entityType, entity.id)
		prefix := entityPrefix(entityType, name)

		for _, day := range groupByDay(entity.meetings) {
			for i := 0; i < len(day.meetings); i++ {
				for j := i + 1; j < len(day.meetings); j++ {
					m1, m2 := day.meetings[i], day.meetings[j]
					if !interval.Overlaps(m1.Start, m1.End, m2.Start, m2.End) {
						continue
					}

					overlap := interval.OverlapMinutes(m1.Start, m1.End, m2.Start, m2.End)
					violations = append(violations, Violation{
						Type:       entityType + " Time Conflict",
						EntityType: entityType,
						EntityName: name,
						Day:        day.day,
						Magnitude:  overlap,
						Details: fmt.Sprintf("%s on %s: Row %s (%s) overlaps Row %s (%s) - %s overlap",
							prefix, day.day, m1.ID, m1.TimeLabel(), m2.ID, m2.TimeLabel(),
							interval.FormatDuration(overlap)),
					})
				}
			}
		}
	}

	return violations
}

// roomCapacity checks each section's head count against its primary room's
// raw capacity.
func (c *hardChecker) roomCapacity(sections []*schedule.Section) []Violation {
	violations := []Violation{}

	for _, section := range sections {
		roomID, ok := section.PrimaryRoom()
		if !ok {
			continue
		}
		room, ok := c.catalog.RoomsByID[roomID]
		if !ok {
			continue
		}

		if section.TotalStudents > room.Capacity {
			excess := section.TotalStudents - room.Capacity
			violations = append(violations, Violation{
				Type:       TypeRoomCapacityExceeded,
				EntityType: "Section",
				EntityName: section.ID,
				Magnitude:  excess,
				Details: fmt.Sprintf("%s: %d students in %s (capacity %d), exceeds by %d",
					section.ID, section.TotalStudents, room.Name, room.Capacity, excess),
			})
		}
	}

	return violations
}

func (c *hardChecker) maxContinuous(meetings []*schedule.Meeting) []Violation {
	check := func(entityType string, ids func(*schedule.Meeting) []int64) []Violation {
		violations := []Violation{}
		for _, entity := range groupByEntity(meetings, ids) {
			name := c.entityName(entityType, entity.id)
			for _, day := range groupByDay(entity.meetings) {
				for _, block := range interval.ContinuousBlocks(spans(day.meetings)) {
					if block.Duration() <= c.config.MaxContinuousMinutes {
						continue
					}
					excess := block.Duration() - c.config.MaxContinuousMinutes
					violations = append(violations, Violation{
						Type:       TypeMaxContinuousClass,
						EntityType: entityType,
						EntityName: name,
						Day:        day.day,
						Magnitude:  excess,
						Details: fmt.Sprintf("%s on %s: %s continuous (%s-%s), exceeds max %s by %s",
							name, day.day, interval.FormatDuration(block.Duration()),
							interval.FormatClock(block.Start), interval.FormatClock(block.End),
							interval.FormatDuration(c.config.MaxContinuousMinutes),
							interval.FormatDuration(excess)),
					})
				}
			}
		}
		return violations
	}

	return append(check("Faculty", facultyIDs), check("Batch", batchIDs)...)
}

// minGap flags positive gaps shorter than the configured minimum. Always a
// hard rule; there is no soft counterpart.
func (c *hardChecker) minGap(meetings []*schedule.Meeting) []Violation {
	check := func(entityType string, ids func(*schedule.Meeting) []int64) []Violation {
		violations := []Violation{}
		for _, entity := range groupByEntity(meetings, ids) {
			name := c.entityName(entityType, entity.id)
			for _, day := range groupByDay(entity.meetings) {
				for _, gap := range interval.Gaps(spans(day.meetings)) {
					if gap.Minutes >= c.config.MinGapMinutes {
						continue
					}
					shortfall := c.config.MinGapMinutes - gap.Minutes
					violations = append(violations, Violation{
						Type:       TypeMinGap,
						EntityType: entityType,
						EntityName: name,
						Day:        day.day,
						Magnitude:  shortfall,
						Details: fmt.Sprintf("%s on %s: gap of %s (%s-%s), below min %s by %s",
							name, day.day, interval.FormatDuration(gap.Minutes),
							interval.FormatClock(gap.Start), interval.FormatClock(gap.End),
							interval.FormatDuration(c.config.MinGapMinutes),
							interval.FormatDuration(shortfall)),
					})
				}
			}
		}
		return violations
	}

	return append(check("Faculty", facultyIDs), check("Batch", batchIDs)...)
}

// bannedTimes flags meetings overlapping a banned window. Faculty-specific
// windows match against the meeting's full faculty-name set.
func (c *hardChecker) bannedTimes(meetings []*schedule.Meeting) []Violation {
	violations := []Violation{}

	for _, banned := range c.catalog.BannedTimes {
		for _, meeting := range meetings {
			if meeting.Day != banned.Day {
				continue
			}
			if banned.FacultyName != "" && !lo.Contains(meeting.FacultyNames, banned.FacultyName) {
				continue
			}
			if !interval.Overlaps(meeting.Start, meeting.End, banned.Start, banned.End) {
				continue
			}

			overlap := interval.OverlapMinutes(meeting.Start, meeting.End, banned.Start, banned.End)
			violations = append(violations, Violation{
				Type:       TypeBannedTime,
				EntityType: "Meeting",
				EntityName: meeting.SubjectName,
				Day:        banned.Day,
				Magnitude:  overlap,
				Details: fmt.Sprintf("%s on %s %s overlaps banned time %s-%s (%s overlap)",
					meeting.SubjectName, banned.Day, meeting.TimeLabel(),
					banned.StartText, banned.EndText, interval.FormatDuration(overlap)),
			})
		}
	}

	return violations
}

// lectureLabSeparation checks valid pairs only: on any day both sections
// meet, lecture and lab must sit back-to-back in the same room.
func (c *hardChecker) lectureLabSeparation(pairs []*schedule.LectureLabPair) []Violation {
	violations := []Violation{}

	for _, pair := range pairs {
		lectureDays := groupByDay(pair.Lecture.Meetings)
		labByDay := map[string][]*schedule.Meeting{}
		for _, day := range groupByDay(pair.Lab.Meetings) {
			labByDay[day.day] = day.meetings
		}

		for _, day := range lectureDays {
			labMeetings, both := labByDay[day.day]
			if !both {
				continue
			}

			for _, lecture := range day.meetings {
				for _, lab := range labMeetings {
					backToBack := lecture.End == lab.Start || lab.End == lecture.Start

					lectureRoom, hasLectureRoom := lecture.RoomID()
					labRoom, hasLabRoom := lab.RoomID()
					sameRoom := hasLectureRoom && hasLabRoom && lectureRoom == labRoom

					if !backToBack {
						violations = append(violations, Violation{
							Type:       TypeLectureLabSeparation,
							EntityType: "Section",
							EntityName: pair.Label(),
							Day:        day.day,
							Magnitude:  1,
							Details: fmt.Sprintf("%s/%s on %s: Lecture (%s) and Lab (%s) not back-to-back",
								pair.Lecture.ID, pair.Lab.ID, day.day, lecture.TimeLabel(), lab.TimeLabel()),
						})
					} else if !sameRoom {
						violations = append(violations, Violation{
							Type:       TypeLectureLabSeparation,
							EntityType: "Section",
							EntityName: pair.Label(),
							Day:        day.day,
							Magnitude:  1,
							Details: fmt.Sprintf("%s/%s on %s: Back-to-back but different rooms (Lecture: %s, Lab: %s)",
								pair.Lecture.ID, pair.Lab.ID, day.day,
								roomOrPlaceholder(lecture.RoomName()), roomOrPlaceholder(lab.RoomName())),
						})
					}
				}
			}
		}
	}

	return violations
}

func (c *hardChecker) entityName(entityType string, id int64) string {
	switch entityType {
	case "Faculty":
		return c.catalog.FacultyName(id)
	case "Batch":
		return c.catalog.BatchName(id)
	default:
		return c.catalog.RoomName(id)
	}
}

// entityPrefix matches the legacy detail wording: faculty lines start with
// the bare name, batch and room lines with their entity type.
func entityPrefix(entityType, name string) string {
	if entityType == "Faculty" {
		return name
	}
	return entityType + " " + name
}

func roomOrPlaceholder(name string) string {
	if name == "" {
		return "N/A"
	}
	return name
}
