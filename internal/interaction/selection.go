// Package interaction turns pointer input on a Pick'Ems board into ranking
// actions. Clicks and drags go through separate adapters that both produce an
// Outcome, so the two input paths cannot drift apart.
package interaction

import "github.com/DoyleJ11/bpl-pickems/internal/engine"

type SelectionKind string

const (
	SelectNone SelectionKind = ""
	SelectPool SelectionKind = "pool"
	SelectRank SelectionKind = "rank"
)

// Selection is the single pending target of a click-driven action. Index is
// only meaningful for SelectRank.
type Selection struct {
	Kind   SelectionKind
	TeamID string
	Index  int
}

var None = Selection{}

func PoolSelected(teamID string) Selection {
	return Selection{Kind: SelectPool, TeamID: teamID}
}

func RankSelected(index int, teamID string) Selection {
	return Selection{Kind: SelectRank, TeamID: teamID, Index: index}
}

func (s Selection) IsNone() bool { return s.Kind == SelectNone }

// Outcome is what an adapter decided: an action to run (after which the
// selection is always cleared) or just the next selection.
type Outcome struct {
	Action *engine.Action
	Next   Selection
}

func act(a engine.Action) Outcome {
	return Outcome{Action: &a}
}

func keep(s Selection) Outcome {
	return Outcome{Next: s}
}

// ResolvePoolClick handles a click on a team in the pool.
func ResolvePoolClick(sel Selection, teamID string) Outcome {
	switch {
	case sel.Kind == SelectRank:
		// pool acts as a "return to pool" target for the selected slot
		return act(engine.RemoveFromRank(sel.Index))
	case sel.Kind == SelectPool && sel.TeamID == teamID:
		return keep(None)
	default:
		return keep(PoolSelected(teamID))
	}
}

// ResolvePoolAreaClick handles a click on the pool background.
func ResolvePoolAreaClick(sel Selection) Outcome {
	if sel.Kind == SelectRank {
		return act(engine.RemoveFromRank(sel.Index))
	}
	return keep(sel)
}

// ResolveRankClick handles a click on slot index given the category's slots.
func ResolveRankClick(sel Selection, slots engine.Slots, index int) Outcome {
	switch sel.Kind {
	case SelectPool:
		return act(engine.PlaceFromPool(sel.TeamID, index))
	case SelectRank:
		if sel.Index == index {
			return keep(None)
		}
		return act(engine.MoveRankToRank(sel.Index, index))
	}

	if id := slots[index]; id != "" {
		return keep(RankSelected(index, id))
	}
	return keep(None)
}
