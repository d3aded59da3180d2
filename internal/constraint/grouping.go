package constraint

import (
	"slices"

	"github.com/samber/lo"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/interval"
	"github.com/schedeval/schedeval/internal/schedule"
)

// entityMeetings is one entity's meetings, grouping fanned out so a merged
// meeting carrying several ids contributes to every one of them.
type entityMeetings struct {
	id       int64
	meetings []*schedule.Meeting
}

// groupByEntity fans meetings out across the ids the selector yields,
// returning groups in ascending id order so rule output is deterministic.
func groupByEntity(meetings []*schedule.Meeting, ids func(*schedule.Meeting) []int64) []entityMeetings {
	groups := map[int64][]*schedule.Meeting{}
	for _, meeting := range meetings {
		for _, id := range ids(meeting) {
			groups[id] = append(groups[id], meeting)
		}
	}

	keys := lo.Keys(groups)
	slices.Sort(keys)
	return lo.Map(keys, func(id int64, _ int) entityMeetings {
		return entityMeetings{id: id, meetings: groups[id]}
	})
}

func facultyIDs(m *schedule.Meeting) []int64 { return m.FacultyIDs }
func batchIDs(m *schedule.Meeting) []int64   { return m.BatchIDs }
func roomIDs(m *schedule.Meeting) []int64    { return m.RoomIDs }

// dayMeetings is one day's meetings sorted by start time, ties broken by
// input order.
type dayMeetings struct {
	day      string
	meetings []*schedule.Meeting
}

// groupByDay splits meetings per day in Monday-first order and sorts each
// day by start time.
func groupByDay(meetings []*schedule.Meeting) []dayMeetings {
	groups := lo.GroupBy(meetings, func(m *schedule.Meeting) string { return m.Day })

	days := lo.Keys(groups)
	slices.SortFunc(days, func(a, b string) int {
		if rank := catalog.DayRank(a) - catalog.DayRank(b); rank != 0 {
			return rank
		}
		return compareStrings(a, b)
	})

	return lo.Map(days, func(day string, _ int) dayMeetings {
		return dayMeetings{day: day, meetings: sortedByStart(groups[day])}
	})
}

func sortedByStart(meetings []*schedule.Meeting) []*schedule.Meeting {
	sorted := slices.Clone(meetings)
	slices.SortStableFunc(sorted, func(a, b *schedule.Meeting) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.RowIndex - b.RowIndex
	})
	return sorted
}

func spans(meetings []*schedule.Meeting) []interval.Span {
	return lo.Map(meetings, func(m *schedule.Meeting, _ int) interval.Span {
		return interval.Span{Start: m.Start, End: m.End}
	})
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
