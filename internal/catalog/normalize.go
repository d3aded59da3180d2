package catalog

import "strings"

// WeekDays lists day names in timetable order, Monday first.
var WeekDays = []string{
	"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
}

var dayRanks = func() map[string]int {
	ranks := make(map[string]int, len(WeekDays))
	for i, day := range WeekDays {
		ranks[day] = i
	}
	return ranks
}()

// NormalizeSubjectName strips spaces and periods and upper-cases, so
// "ICS 103" and "ics103." resolve to the same subject.
func NormalizeSubjectName(name string) string {
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, ".", "")
	return strings.ToUpper(name)
}

// NormalizeDay trims and upper-cases a day-of-week string.
func NormalizeDay(day string) string {
	return strings.ToUpper(strings.TrimSpace(day))
}

// DayRank orders normalized day names Monday through Sunday as 0..6; unknown
// day strings sort last.
func DayRank(day string) int {
	if rank, ok := dayRanks[day]; ok {
		return rank
	}
	return len(WeekDays)
}

// IsFriday matches the two Friday spellings the schedule exports use.
func IsFriday(day string) bool {
	return day == "FRIDAY" || day == "FRI"
}
