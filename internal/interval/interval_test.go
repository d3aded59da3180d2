package interval

import (
	"math/rand"
	"testing"

	. "github.com/onsi/gomega"
)

func TestOverlapAgainstArithmetic(t *testing.T) {
	g := NewWithT(t)

	for i := 0; i < 200; i++ {
		//**Arrange
		start1 := rand.Intn(24 * 60)
		end1 := start1 + rand.Intn(240) + 1
		start2 := rand.Intn(24 * 60)
		end2 := start2 + rand.Intn(240) + 1

		//**Act
		overlapping := Overlaps(start1, end1, start2, end2)
		shared := OverlapMinutes(start1, end1, start2, end2)

		//**Assert
		if overlapping {
			g.Expect(shared).To(Equal(min(end1, end2) - max(start1, start2)))
			g.Expect(shared).To(BeNumerically(">", 0))
		} else {
			g.Expect(shared).To(BeZero())
		}
	}
}

func TestTouchingSpansDoNotOverlap(t *testing.T) {
	g := NewWithT(t)

	//**Act and assert
	g.Expect(Overlaps(480, 540, 540, 600)).To(BeFalse())
	g.Expect(Overlaps(540, 600, 480, 540)).To(BeFalse())
	g.Expect(OverlapMinutes(480, 540, 540, 600)).To(BeZero())

	// One shared minute is enough
	g.Expect(Overlaps(480, 541, 540, 600)).To(BeTrue())
	g.Expect(OverlapMinutes(480, 541, 540, 600)).To(Equal(1))
}

func TestContinuousBlocks(t *testing.T) {
	g := NewWithT(t)

	t.Run("chained spans form one block per run", func(t *testing.T) {
		//**Arrange: 08:00-09:00, 09:00-10:30, 11:00-12:00
		spans := []Span{
			{Start: 480, End: 540},
			{Start: 540, End: 630},
			{Start: 660, End: 720},
		}

		//**Act
		blocks := ContinuousBlocks(spans)

		//**Assert
		g.Expect(blocks).To(HaveLen(2))
		g.Expect(blocks[0]).To(Equal(Span{Start: 480, End: 630}))
		g.Expect(blocks[0].Duration()).To(Equal(150))
		g.Expect(blocks[1]).To(Equal(Span{Start: 660, End: 720}))
		g.Expect(blocks[1].Duration()).To(Equal(60))
	})

	t.Run("single span is its own block", func(t *testing.T) {
		blocks := ContinuousBlocks([]Span{{Start: 600, End: 690}})
		g.Expect(blocks).To(Equal([]Span{{Start: 600, End: 690}}))
	})

	t.Run("no spans no blocks", func(t *testing.T) {
		g.Expect(ContinuousBlocks(nil)).To(BeEmpty())
	})

	t.Run("near miss starts a new block", func(t *testing.T) {
		blocks := ContinuousBlocks([]Span{
			{Start: 480, End: 540},
			{Start: 541, End: 600},
		})
		g.Expect(blocks).To(HaveLen(2))
	})
}

func TestGaps(t *testing.T) {
	g := NewWithT(t)

	t.Run("only positive gaps are reported", func(t *testing.T) {
		//**Arrange: gap, touch, overlap
		spans := []Span{
			{Start: 480, End: 540},
			{Start: 570, End: 630},
			{Start: 630, End: 690},
			{Start: 680, End: 740},
		}

		//**Act
		gaps := Gaps(spans)

		//**Assert
		g.Expect(gaps).To(Equal([]Gap{{Start: 540, End: 570, Minutes: 30}}))
	})

	t.Run("fewer than two spans yield none", func(t *testing.T) {
		g.Expect(Gaps(nil)).To(BeEmpty())
		g.Expect(Gaps([]Span{{Start: 480, End: 540}})).To(BeEmpty())
	})
}

func TestParseClock(t *testing.T) {
	g := NewWithT(t)

	cases := map[string]int{
		"08:00":   480,
		"8:00":    480,
		" 13:45 ": 825,
		"00:00":   0,
		"23:59":   1439,
		"24:00":   0,
		"12:75":   0,
		"noon":    0,
		"":        0,
	}

	for clock, want := range cases {
		g.Expect(ParseClock(clock)).To(Equal(want), "clock %q", clock)
	}
}

func TestFormatting(t *testing.T) {
	g := NewWithT(t)

	g.Expect(FormatClock(480)).To(Equal("08:00"))
	g.Expect(FormatClock(750)).To(Equal("12:30"))

	g.Expect(FormatDuration(0)).To(Equal("0 mins"))
	g.Expect(FormatDuration(-5)).To(Equal("0 mins"))
	g.Expect(FormatDuration(1)).To(Equal("1 min"))
	g.Expect(FormatDuration(60)).To(Equal("1 hr"))
	g.Expect(FormatDuration(90)).To(Equal("1 hr 30 mins"))
	g.Expect(FormatDuration(150)).To(Equal("2 hrs 30 mins"))
}
