package constraint

import (
	"go.uber.org/zap"
)

// rule is one named check producing its violations independently of every
// other rule.
type rule struct {
	name string
	run  func() []Violation
}

// runRules executes the rules and concatenates their violations in rule
// order. Rules only read the immutable meeting/section/pair set, so with
// workers > 1 they fan out across goroutines; results land in indexed slots
// to keep the output identical regardless of arrival order.
func runRules(rules []rule, workers int, logger *zap.Logger) []Violation {
	results := make([][]Violation, len(rules))

	if workers <= 1 {
		for i, r := range rules {
			logger.Debug("checking", zap.String("rule", r.name))
			results[i] = r.run()
		}
	} else {
		type slot struct {
			index      int
			violations []Violation
		}

		slots := make(chan slot)
		semaphore := make(chan struct{}, workers)

		for i, r := range rules {
			go func(index int, r rule) {
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
				slots <- slot{index: index, violations: r.run()}
			}(i, r)
		}

		// Counter-close: collect one slot per rule, then stop reading
		for collected := 0; collected < len(rules); collected++ {
			s := <-slots
			results[s.index] = s.violations
		}
	}

	violations := []Violation{}
	for _, result := range results {
		violations = append(violations, result...)
	}
	return violations
}
