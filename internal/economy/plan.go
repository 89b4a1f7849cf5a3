package economy

import (
	"math"

	"github.com/xtding233/tavern-gambit/internal/model"
)

// Step is one level bought along a plan.
type Step struct {
	Level int // level reached after this step
	Cost  model.Cost
}

// Plan summarizes what it takes to raise a track from one level to another.
type Plan struct {
	Track    TrackID
	From, To int
	Steps    []Step
	Total    model.Cost
	// Shortfall is what the inventory still lacks for the whole plan.
	Shortfall model.Cost
	// Affordable counts the steps the inventory covers right now, in order.
	Affordable int
}

// PlanTo prices every level from level up to target (clamped to the cap).
// A target at or below level yields an empty plan.
func (e *Economy) PlanTo(id TrackID, level, target int, inv model.Inventory) Plan {
	t := e.tracks[id]
	target = model.Clamp(target, 0, t.MaxLevel)
	p := Plan{Track: id, From: level, To: target, Total: model.Cost{}, Shortfall: model.Cost{}}
	if target <= level {
		p.To = level
		return p
	}

	left := inv.Clone()
	covering := true
	for lvl := level; lvl < target; lvl++ {
		c := t.Cost(lvl)
		p.Steps = append(p.Steps, Step{Level: lvl + 1, Cost: c})
		for rt, n := range c {
			p.Total[rt] += n
		}
		if covering {
			if next, ok := left.Debit(c); ok {
				left = next
				p.Affordable++
			} else {
				covering = false
			}
		}
	}
	for rt, n := range p.Total {
		if short := n - inv[rt]; short > 0 {
			p.Shortfall[rt] = short
		}
	}
	return p
}

// RoundsToAfford estimates rounds needed to cover the shortfall when each
// round yields perRound of every currency on average. It returns -1 when
// perRound is not positive and there is a shortfall.
func (p Plan) RoundsToAfford(perRound float64) int {
	worst := 0
	for _, n := range p.Shortfall {
		if n <= 0 {
			continue
		}
		if perRound <= 0 {
			return -1
		}
		if r := int(math.Ceil(float64(n) / perRound)); r > worst {
			worst = r
		}
	}
	return worst
}
