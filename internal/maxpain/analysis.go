package maxpain

import (
	"math"
	"time"

	"taifex-settlement-lab/internal/backtest"
	"taifex-settlement-lab/internal/domain"
)

// Yearly breakdowns with fewer samples than this skip the binomial test.
const minYearSamples = 5

// Observation records one settlement day's relation to its max pain
// level. Distances use the event day's regular open and close.
type Observation struct {
	EventDate time.Time
	MaxPain   float64
	Open      float64
	Close     float64

	OpenDistance     float64
	CloseDistance    float64
	PctOpenDistance  float64
	PctCloseDistance float64

	Attracted bool
	DailyMove float64
}

// Summary aggregates attraction observations and the exact binomial
// test of the attraction rate against a 50 percent coin flip.
type Summary struct {
	Samples        int
	Attracted      int
	AttractionRate float64

	PValue      float64
	Significant bool

	AvgOpenDistance     float64
	AvgCloseDistance    float64
	DistanceImprovement float64
}

// Analysis is the full max pain study over a settlement series.
type Analysis struct {
	Observations []Observation
	Overall      Summary
	ByYear       map[int]Summary
}

// Analyze walks the settlement events, computes each day's max pain
// from the open-interest snapshot dated that day, and tests whether the
// close sits nearer the level than the open did. Events lacking either
// an OI chain or a regular bar are skipped.
func Analyze(events []domain.EventDate, table *backtest.BarTable, oi map[time.Time][]domain.OptionOI) Analysis {
	var obs []Observation
	for _, ev := range events {
		chain, ok := oi[ev.Date]
		if !ok {
			continue
		}
		mp, ok := Compute(chain)
		if !ok {
			continue
		}
		bar, ok := table.Bar(ev.Date, domain.SessionRegular)
		if !ok {
			continue
		}

		openDist := math.Abs(bar.Open - mp)
		closeDist := math.Abs(bar.Close - mp)
		obs = append(obs, Observation{
			EventDate:        ev.Date,
			MaxPain:          mp,
			Open:             bar.Open,
			Close:            bar.Close,
			OpenDistance:     openDist,
			CloseDistance:    closeDist,
			PctOpenDistance:  openDist / mp * 100,
			PctCloseDistance: closeDist / mp * 100,
			Attracted:        closeDist < openDist,
			DailyMove:        bar.Close - bar.Open,
		})
	}

	analysis := Analysis{
		Observations: obs,
		Overall:      summarize(obs, 1),
		ByYear:       make(map[int]Summary),
	}

	yearly := make(map[int][]Observation)
	for _, o := range obs {
		y := o.EventDate.Year()
		yearly[y] = append(yearly[y], o)
	}
	for y, slice := range yearly {
		analysis.ByYear[y] = summarize(slice, minYearSamples)
	}
	return analysis
}

// summarize reduces observations to a Summary. Sample counts below
// minSamples leave the test untouched at p=1.
func summarize(obs []Observation, minSamples int) Summary {
	var s Summary
	s.PValue = 1
	s.Samples = len(obs)
	if s.Samples == 0 {
		return s
	}

	sumOpen := 0.0
	sumClose := 0.0
	for _, o := range obs {
		if o.Attracted {
			s.Attracted++
		}
		sumOpen += o.OpenDistance
		sumClose += o.CloseDistance
	}
	s.AttractionRate = float64(s.Attracted) / float64(s.Samples) * 100
	s.AvgOpenDistance = sumOpen / float64(s.Samples)
	s.AvgCloseDistance = sumClose / float64(s.Samples)
	s.DistanceImprovement = s.AvgOpenDistance - s.AvgCloseDistance

	if s.Samples >= minSamples {
		s.PValue = binomUpperTail(s.Attracted, s.Samples)
		s.Significant = s.PValue < 0.05
	}
	return s
}

// binomUpperTail is the exact one-sided binomial test P(X >= successes)
// for X ~ Binomial(n, 0.5), computed in log space to stay stable for
// large n.
func binomUpperTail(successes, n int) float64 {
	if n == 0 || successes <= 0 {
		return 1
	}
	ln2n := float64(n) * math.Ln2
	lnFactN, _ := math.Lgamma(float64(n + 1))

	sum := 0.0
	for k := successes; k <= n; k++ {
		lnFactK, _ := math.Lgamma(float64(k + 1))
		lnFactNK, _ := math.Lgamma(float64(n - k + 1))
		sum += math.Exp(lnFactN - lnFactK - lnFactNK - ln2n)
	}
	if sum > 1 {
		return 1
	}
	return sum
}
