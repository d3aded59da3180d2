package config

import (
	"math"
	"math/rand"
	"testing"

	gomega "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestApplyPenalty(t *testing.T) {
	g := gomega.NewWithT(t)

	t.Run("zero or negative magnitude scores nothing", func(t *testing.T) {
		cfg := Default()
		for _, weight := range []float64{0, 0.5, 1, 100} {
			g.Expect(cfg.ApplyPenalty(0, weight)).To(gomega.BeZero())
			g.Expect(cfg.ApplyPenalty(-7, weight)).To(gomega.BeZero())
		}
	})

	t.Run("exponent one is plain multiplication", func(t *testing.T) {
		cfg := Default()
		cfg.PenaltyExponent = 1.0

		for i := 0; i < 100; i++ {
			magnitude := rand.Intn(500) + 1
			weight := rand.Float64() * 10
			g.Expect(cfg.ApplyPenalty(magnitude, weight)).To(gomega.Equal(float64(magnitude) * weight))
		}
	})

	t.Run("exponent scales super-linearly", func(t *testing.T) {
		cfg := Default()
		cfg.PenaltyExponent = 2.0

		g.Expect(cfg.ApplyPenalty(3, 2)).To(gomega.BeNumerically("~", 18, 1e-9))
		g.Expect(cfg.ApplyPenalty(10, 0.5)).To(gomega.BeNumerically("~", 50, 1e-9))
		g.Expect(cfg.ApplyPenalty(6, 1)).To(gomega.Equal(math.Pow(6, 2)))
	})
}

func TestFromMap(t *testing.T) {
	t.Run("overlays known keys and converts hours to minutes", func(t *testing.T) {
		//**Arrange
		raw := map[string]any{
			"PENALTY_EXPONENT":           1.5,
			"MAX_CONTINUOUS_CLASS_HOURS": 3.5,
			"MIN_GAP_HOURS":              0.25,
			"FRIDAY_END_MINUTES":         780,
			"ConstraintPenalties": map[string]any{
				"EXCESS_GAP_PER_MINUTE": 0.2,
			},
			"SOME_FUTURE_KEY": "ignored",
		}

		//**Act
		cfg, err := FromMap(raw)

		//**Assert
		assert.NoError(t, err)
		assert.Equal(t, 1.5, cfg.PenaltyExponent)
		assert.Equal(t, 210, cfg.MaxContinuousMinutes)
		assert.Equal(t, 15, cfg.MinGapMinutes)
		assert.Equal(t, 780, cfg.FridayEndMinutes)
		assert.Equal(t, 0.2, cfg.Penalties.ExcessGapPerMinute)
		// Untouched keys keep their defaults
		assert.Equal(t, Default().MaxSubjectsPerFaculty, cfg.MaxSubjectsPerFaculty)
		assert.Equal(t, Default().Penalties.FridayLatePerMinute, cfg.Penalties.FridayLatePerMinute)
	})

	t.Run("empty document equals defaults", func(t *testing.T) {
		cfg, err := FromMap(map[string]any{})
		assert.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("rejects non-positive exponent", func(t *testing.T) {
		_, err := FromMap(map[string]any{"PENALTY_EXPONENT": 0})
		assert.Error(t, err)
	})

	t.Run("rejects negative weights", func(t *testing.T) {
		_, err := FromMap(map[string]any{
			"ConstraintPenalties": map[string]any{"FRIDAY_AFTER_1230_PER_MINUTE": -1},
		})
		assert.Error(t, err)
	})
}
