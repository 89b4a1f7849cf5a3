package reward

import (
	"math"
	"sort"

	"github.com/xtding233/tavern-gambit/internal/model"
)

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// Report is the outcome of a Simulate run.
type Report struct {
	Trials    int
	BatchSize int
	// Pick measures a blind pick: one uniformly chosen card per round.
	Pick Stats
	// Best measures the largest amount in the batch, i.e. a perfect pick.
	Best Stats
	// RarityShare is the observed share of blind picks per tier.
	RarityShare map[model.Rarity]float64
	// Expected is the analytic distribution the generator rolls from.
	Expected Chances
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	// mean
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)
	stddev := math.Sqrt(variance)

	// percentiles
	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 {
			return float64(cp[0])
		}
		if p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  stddev,
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// Simulate deals trials rounds at the given upgrades and records what a
// blind pick and a perfect pick would have earned.
func Simulate(g *Generator, up model.UpgradesState, trials int) Report {
	rep := Report{
		Trials:      trials,
		BatchSize:   g.BatchSize(up),
		RarityShare: make(map[model.Rarity]float64, len(model.Rarities)),
		Expected:    g.cfg.Odds.At(up.LuckLevel),
	}
	if trials <= 0 {
		return rep
	}

	picks := make([]int, trials)
	best := make([]int, trials)
	counts := make(map[model.Rarity]int, len(model.Rarities))
	for i := 0; i < trials; i++ {
		batch := g.GenerateBatch(up)
		chosen := batch[intn(g.rng, len(batch))].Resource
		picks[i] = chosen.Amount
		counts[chosen.Rarity]++
		for _, c := range batch {
			if c.Resource.Amount > best[i] {
				best[i] = c.Resource.Amount
			}
		}
	}
	for _, r := range model.Rarities {
		rep.RarityShare[r] = float64(counts[r]) / float64(trials)
	}
	rep.Pick = calcStats(picks)
	rep.Best = calcStats(best)
	return rep
}
