// Package evaluate runs the full evaluation pipeline: unify raw rows,
// build sections, match lecture-lab pairs, then apply the rulebook.
package evaluate

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/config"
	"github.com/schedeval/schedeval/internal/constraint"
	"github.com/schedeval/schedeval/internal/schedule"
)

// Result bundles everything one evaluation produced, from the unified
// meeting list down to the scored violations. Reports render from this and
// nothing else.
type Result struct {
	Meetings         []*schedule.Meeting
	Rows             []*schedule.Meeting
	UnmappedSubjects []string
	Conflicts        []schedule.Conflict

	Sections     []*schedule.Section
	Pairs        []*schedule.LectureLabPair
	InvalidPairs []*schedule.LectureLabPair

	HardViolations []constraint.Violation
	SoftViolations []constraint.Violation
}

// Feasible reports whether the schedule broke no hard rule.
func (r *Result) Feasible() bool {
	return len(r.HardViolations) == 0
}

// TotalPenalty sums the weighted soft scores.
func (r *Result) TotalPenalty() float64 {
	return lo.SumBy(r.SoftViolations, func(v constraint.Violation) float64 {
		return v.Penalty
	})
}

// Violations returns hard then soft violations as one list.
func (r *Result) Violations() []constraint.Violation {
	return append(append([]constraint.Violation{}, r.HardViolations...), r.SoftViolations...)
}

type Evaluator interface {
	Evaluate(rows []schedule.RawRow) *Result
}

func NewEvaluator(cat *catalog.Catalog, cfg config.Config, logger *zap.Logger, workers int) Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &evaluator{
		catalog: cat,
		logger:  logger,
		unifier: schedule.NewUnifier(cat, logger),
		hard:    constraint.NewHardChecker(cat, cfg, logger, workers),
		soft:    constraint.NewSoftChecker(cat, cfg, logger, workers),
	}
}

type evaluator struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
	unifier schedule.Unifier
	hard    constraint.HardChecker
	soft    constraint.SoftChecker
}

func (e *evaluator) Evaluate(rows []schedule.RawRow) *Result {
	//** Unify raw rows into physical meetings
	unified := e.unifier.Unify(rows)

	//** Derive sections and lecture-lab pairs
	sections := schedule.BuildSections(unified.Meetings, e.catalog, e.logger)
	pairs, invalidPairs := schedule.MatchLectureLabPairs(sections, e.catalog, e.logger)

	//** Apply the rulebook
	result := &Result{
		Meetings:         unified.Meetings,
		Rows:             unified.Rows,
		UnmappedSubjects: unified.UnmappedSubjects,
		Conflicts:        unified.Conflicts,
		Sections:         sections,
		Pairs:            pairs,
		InvalidPairs:     invalidPairs,
	}
	result.HardViolations = e.hard.Check(unified.Meetings, sections, pairs)
	result.SoftViolations = e.soft.Check(unified.Meetings, sections)

	e.logger.Info("evaluation complete",
		zap.Bool("feasible", result.Feasible()),
		zap.Int("hard_violations", len(result.HardViolations)),
		zap.Int("soft_violations", len(result.SoftViolations)),
		zap.Float64("total_penalty", result.TotalPenalty()),
	)
	return result
}
