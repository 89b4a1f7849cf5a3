package economy

import (
	"fmt"

	"github.com/xtding233/tavern-gambit/internal/model"
)

// Receipt is the outcome of a purchase attempt. On rejection Inventory is an
// equal copy of the input and Level is unchanged.
type Receipt struct {
	Accepted  bool
	Track     TrackID
	Cost      model.Cost
	Inventory model.Inventory
	Level     int
}

// Quote describes a track as the shop renders it.
type Quote struct {
	Track      TrackID
	Level      int
	MaxLevel   int
	Cost       model.Cost
	Affordable bool
	// Short lists the currencies the player cannot cover.
	Short []model.ResourceType
	// Maxed marks the mastered terminal state.
	Maxed bool
}

// Economy prices and applies upgrade purchases.
type Economy struct {
	tracks map[TrackID]Track
}

// New builds an economy from the luck and card-slot tracks.
func New(luck, cards Track) *Economy {
	return &Economy{tracks: map[TrackID]Track{Luck: luck, Cards: cards}}
}

// Track returns the curve of id.
func (e *Economy) Track(id TrackID) (Track, error) {
	t, ok := e.tracks[id]
	if !ok {
		return Track{}, fmt.Errorf("%w: %q", ErrUnknownTrack, id)
	}
	return t, nil
}

// Level reads the level of id out of an upgrades state.
func Level(up model.UpgradesState, id TrackID) int {
	if id == Cards {
		return up.MaxCardsLevel
	}
	return up.LuckLevel
}

// WithLevel returns up with the level of id replaced.
func WithLevel(up model.UpgradesState, id TrackID, level int) model.UpgradesState {
	if id == Cards {
		up.MaxCardsLevel = level
	} else {
		up.LuckLevel = level
	}
	return up
}

// Quote prices the next level of a track against an inventory.
func (e *Economy) Quote(id TrackID, level int, inv model.Inventory) Quote {
	t := e.tracks[id]
	q := Quote{Track: id, Level: level, MaxLevel: t.MaxLevel}
	if level >= t.MaxLevel {
		q.Maxed = true
		return q
	}
	q.Cost = t.Cost(level)
	for _, rt := range model.ResourceTypes {
		if amount, ok := q.Cost[rt]; ok && inv[rt] < amount {
			q.Short = append(q.Short, rt)
		}
	}
	q.Affordable = len(q.Short) == 0
	return q
}

// Purchase buys one level of a track. It never mutates inv.
func (e *Economy) Purchase(id TrackID, level int, inv model.Inventory) Receipt {
	rec := Receipt{Track: id, Inventory: inv.Clone(), Level: level}
	t, ok := e.tracks[id]
	if !ok || level >= t.MaxLevel {
		return rec
	}
	rec.Cost = t.Cost(level)
	debited, ok := inv.Debit(rec.Cost)
	if !ok {
		return rec
	}
	rec.Accepted = true
	rec.Inventory = debited
	rec.Level = level + 1
	return rec
}

// Apply runs Purchase against the level stored in up.
func (e *Economy) Apply(id TrackID, up model.UpgradesState, inv model.Inventory) (model.UpgradesState, Receipt) {
	rec := e.Purchase(id, Level(up, id), inv)
	if rec.Accepted {
		up = WithLevel(up, id, rec.Level)
	}
	return up, rec
}
