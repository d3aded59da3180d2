package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/schedeval/schedeval/internal/constraint"
	"github.com/schedeval/schedeval/internal/evaluate"
	"github.com/schedeval/schedeval/pkg/export"
)

var violationColumns = []string{
	"constraint_category", "violation_type", "entity_type",
	"entity_name", "magnitude", "penalty", "details",
}

// violationsDataset flattens hard then soft violations into one table. Hard
// rows leave the penalty column empty; they gate feasibility, not the score.
func violationsDataset(result *evaluate.Result) export.Dataset {
	rows := []map[string]string{}
	for _, v := range result.HardViolations {
		rows = append(rows, violationRow("HARD", v, ""))
	}
	for _, v := range result.SoftViolations {
		rows = append(rows, violationRow("SOFT", v, formatPenalty(v.Penalty)))
	}
	return export.Dataset{Headers: violationColumns, Rows: rows}
}

func violationRow(category string, v constraint.Violation, penalty string) map[string]string {
	return map[string]string{
		"constraint_category": category,
		"violation_type":      v.Type,
		"entity_type":         v.EntityType,
		"entity_name":         v.EntityName,
		"magnitude":           strconv.Itoa(v.Magnitude),
		"penalty":             penalty,
		"details":             v.Details,
	}
}

const detailLimit = 10

func (r *reporter) summaryText(result *evaluate.Result) string {
	b := &strings.Builder{}
	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 40)

	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "SCHEDULE EVALUATION REPORT")
	fmt.Fprintf(b, "Generated: %s\n", r.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b)

	fmt.Fprintln(b, "SUMMARY")
	fmt.Fprintln(b, thin)
	fmt.Fprintf(b, "Total Hard Violations: %d\n", len(result.HardViolations))
	fmt.Fprintf(b, "Total Soft Violations: %d\n", len(result.SoftViolations))
	fmt.Fprintf(b, "Total Penalty Score: %.2f\n", result.TotalPenalty())
	fmt.Fprintln(b)
	if result.Feasible() {
		fmt.Fprintln(b, "SCHEDULE IS FEASIBLE (no hard constraint violations)")
	} else {
		fmt.Fprintln(b, "SCHEDULE IS INFEASIBLE (has hard constraint violations)")
	}
	fmt.Fprintln(b)

	hardByType := lo.GroupBy(result.HardViolations, violationType)
	softByType := lo.GroupBy(result.SoftViolations, violationType)

	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "HARD CONSTRAINTS (must be zero for valid schedule)")
	fmt.Fprintln(b, rule)
	for _, vtype := range constraint.HardTypes {
		violations := hardByType[vtype]
		fmt.Fprintln(b)
		fmt.Fprintf(b, "%s: %d violations\n", vtype, len(violations))
		fmt.Fprintln(b, thin)
		writeDetails(b, violations, func(v constraint.Violation) string {
			return "  - " + v.Details
		})
	}

	fmt.Fprintln(b)
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "SOFT CONSTRAINTS (penalized but allowed)")
	fmt.Fprintln(b, rule)
	for _, vtype := range constraint.SoftTypes {
		violations := softByType[vtype]
		fmt.Fprintln(b)
		fmt.Fprintf(b, "%s: %d violations (penalty: %.2f)\n", vtype, len(violations), sumPenalty(violations))
		fmt.Fprintln(b, thin)
		writeDetails(b, violations, func(v constraint.Violation) string {
			return fmt.Sprintf("  - %s [penalty: %.2f]", v.Details, v.Penalty)
		})
	}

	fmt.Fprintln(b)
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "PENALTY SCORE BREAKDOWN")
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b)
	fmt.Fprintf(b, "Formula: (magnitude ^ %g) x weight\n", r.config.PenaltyExponent)
	fmt.Fprintln(b)
	for _, vtype := range constraint.SoftTypes {
		violations := softByType[vtype]
		if len(violations) == 0 {
			continue
		}
		magnitude := lo.SumBy(violations, func(v constraint.Violation) int { return v.Magnitude })
		fmt.Fprintf(b, "%-35s %4d violations | magnitude: %6d | penalty: %10.2f\n",
			vtype, len(violations), magnitude, sumPenalty(violations))
	}
	fmt.Fprintln(b, strings.Repeat("-", 80))
	fmt.Fprintf(b, "%-35s %4d violations | %15s | penalty: %10.2f\n",
		"TOTAL", len(result.SoftViolations), "", result.TotalPenalty())

	return b.String()
}

// summaryPDF renders the violations table with the verdict as lead lines,
// a printable counterpart of the CSV.
func (r *reporter) summaryPDF(result *evaluate.Result) ([]byte, error) {
	verdict := "SCHEDULE IS FEASIBLE (no hard constraint violations)"
	if !result.Feasible() {
		verdict = "SCHEDULE IS INFEASIBLE (has hard constraint violations)"
	}
	lead := []string{
		"Generated: " + r.now().Format("2006-01-02 15:04:05"),
		verdict,
		fmt.Sprintf("Total Hard Violations: %d", len(result.HardViolations)),
		fmt.Sprintf("Total Soft Violations: %d", len(result.SoftViolations)),
		fmt.Sprintf("Total Penalty Score: %.2f", result.TotalPenalty()),
	}

	return r.pdf.Render(violationsDataset(result), "Schedule Evaluation Report", lead)
}

func writeDetails(b *strings.Builder, violations []constraint.Violation, line func(constraint.Violation) string) {
	if len(violations) == 0 {
		fmt.Fprintln(b, "  (none)")
		return
	}
	for _, v := range violations[:min(len(violations), detailLimit)] {
		fmt.Fprintln(b, line(v))
	}
	if len(violations) > detailLimit {
		fmt.Fprintf(b, "  ... and %d more\n", len(violations)-detailLimit)
	}
}

func violationType(v constraint.Violation) string {
	return v.Type
}

func sumPenalty(violations []constraint.Violation) float64 {
	return lo.SumBy(violations, func(v constraint.Violation) float64 { return v.Penalty })
}

func formatPenalty(penalty float64) string {
	return strconv.FormatFloat(penalty, 'f', -1, 64)
}
