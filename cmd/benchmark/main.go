// Benchmark drives the evaluator over synthetic schedules of growing size
// and records wall-clock timings per worker count into benchmark_results.csv.
package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/samber/lo"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/config"
	"github.com/schedeval/schedeval/internal/evaluate"
	"github.com/schedeval/schedeval/internal/interval"
	"github.com/schedeval/schedeval/internal/schedule"
)

type benchmarkCase struct {
	Meetings int
	Faculty  int
	Subjects int
	Rooms    int
	Batches  int
}

type benchmarkResult struct {
	Case           benchmarkCase
	Workers        int
	Duration       time.Duration
	HardViolations int
	SoftViolations int
	Penalty        float64
	Feasible       bool
}

func main() {
	cases := []benchmarkCase{
		{Meetings: 100, Faculty: 10, Subjects: 20, Rooms: 8, Batches: 6},
		{Meetings: 500, Faculty: 30, Subjects: 60, Rooms: 20, Batches: 15},
		{Meetings: 2000, Faculty: 80, Subjects: 160, Rooms: 50, Batches: 40},
		{Meetings: 10000, Faculty: 200, Subjects: 400, Rooms: 120, Batches: 100},
	}
	workerCounts := []int{1, 2, 4, 8}
	results := make([]benchmarkResult, 0, len(cases)*len(workerCounts))

	for _, c := range cases {
		cat := buildCatalog(c)
		rows := buildRows(c, 1)

		for _, workers := range workerCounts {
			fmt.Printf("Benchmarking %v meetings with %v workers\n", c.Meetings, workers)

			evaluator := evaluate.NewEvaluator(cat, config.Default(), nil, workers)
			start := time.Now()
			result := evaluator.Evaluate(rows)
			elapsed := time.Since(start)

			results = append(results, benchmarkResult{
				Case:           c,
				Workers:        workers,
				Duration:       elapsed,
				HardViolations: len(result.HardViolations),
				SoftViolations: len(result.SoftViolations),
				Penalty:        result.TotalPenalty(),
				Feasible:       result.Feasible(),
			})
		}
	}

	toCsv(results)
}

// buildCatalog creates synthetic reference data sized to the case.
func buildCatalog(c benchmarkCase) *catalog.Catalog {
	faculty := make([]*catalog.Faculty, 0, c.Faculty)
	for i := 1; i <= c.Faculty; i++ {
		faculty = append(faculty, &catalog.Faculty{
			ID:          int64(i),
			Name:        fmt.Sprintf("Faculty %03d", i),
			MaxLoad:     6,
			MaxSubjects: 5,
		})
	}

	subjects := make([]*catalog.Subject, 0, c.Subjects)
	for i := 1; i <= c.Subjects; i++ {
		subject := &catalog.Subject{ID: int64(i), Name: fmt.Sprintf("SUBJ %03d", i), MaxEnrollment: 60}
		// Every other subject is the lab of its predecessor
		if i%2 == 0 {
			subject.Name = fmt.Sprintf("SUBJ %03d Lab", i-1)
			subject.LinkedSubjectID = int64(i - 1)
		}
		subjects = append(subjects, subject)
	}

	rooms := make([]*catalog.Room, 0, c.Rooms)
	for i := 1; i <= c.Rooms; i++ {
		rooms = append(rooms, &catalog.Room{
			ID:              int64(i),
			Name:            fmt.Sprintf("Room %03d", i),
			Capacity:        40,
			OptimalCapacity: 35,
		})
	}

	batches := make([]*catalog.Batch, 0, c.Batches)
	for i := 1; i <= c.Batches; i++ {
		batches = append(batches, &catalog.Batch{
			ID:         int64(i),
			Name:       fmt.Sprintf("Batch %03d", i),
			Population: 25 + i%15,
		})
	}

	return catalog.New(faculty, subjects, rooms, batches)
}

// buildRows generates a deterministic pseudo-random schedule; the same seed
// always produces the same rows, so worker counts are compared on identical
// input.
func buildRows(c benchmarkCase, seed int64) []schedule.RawRow {
	rng := rand.New(rand.NewSource(seed))
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

	rows := make([]schedule.RawRow, 0, c.Meetings)
	for i := 0; i < c.Meetings; i++ {
		start, end := meetingSlot(rng.Intn(10), rng.Intn(3))
		subject := 1 + rng.Intn(c.Subjects)
		name := fmt.Sprintf("SUBJ %03d", subject)
		if subject%2 == 0 {
			name = fmt.Sprintf("SUBJ %03d Lab", subject-1)
		}

		rows = append(rows, schedule.RawRow{
			Index:       i,
			MeetingID:   fmt.Sprint(i + 1),
			SubjectName: name,
			FacultyName: fmt.Sprintf("Faculty %03d", 1+rng.Intn(c.Faculty)),
			RoomName:    fmt.Sprintf("Room %03d", 1+rng.Intn(c.Rooms)),
			BatchField:  fmt.Sprintf("Batch %03d", 1+rng.Intn(c.Batches)),
			Day:         days[rng.Intn(len(days))],
			StartText:   start,
			EndText:     end,
		})
	}
	return rows
}

// meetingSlot maps a slot index (07:00 base, hourly) and a length choice
// (1h, 1.5h, 3h) to clock texts.
func meetingSlot(slot, length int) (string, string) {
	start := 7*60 + slot*60
	durations := []int{60, 90, 180}
	return interval.FormatClock(start), interval.FormatClock(start + durations[length])
}

func toCsv(results []benchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Meetings", "Faculty", "Subjects", "Rooms", "Batches", "Workers", "Duration(ms)", "HardViolations", "SoftViolations", "Penalty", "Feasible"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	records := lo.Map(results, func(r benchmarkResult, _ int) []string {
		return []string{
			fmt.Sprintf("%d", r.Case.Meetings),
			fmt.Sprintf("%d", r.Case.Faculty),
			fmt.Sprintf("%d", r.Case.Subjects),
			fmt.Sprintf("%d", r.Case.Rooms),
			fmt.Sprintf("%d", r.Case.Batches),
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%d", r.Duration.Milliseconds()),
			fmt.Sprintf("%d", r.HardViolations),
			fmt.Sprintf("%d", r.SoftViolations),
			fmt.Sprintf("%.2f", r.Penalty),
			fmt.Sprintf("%v", r.Feasible),
		}
	})
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}
