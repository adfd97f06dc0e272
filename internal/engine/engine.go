package engine

import (
	"errors"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
)

var ErrSlotOutOfRange = errors.New("slot index out of range")
var ErrSelfMove = errors.New("cannot move a slot onto itself")
var ErrEmptyTeam = errors.New("empty team id")
var ErrTeamAlreadyRanked = errors.New("team already ranked")
var ErrUnsupportedAction = errors.New("unsupported action")

const SlotCount = catalog.SlotCount

// Slots is one category's ranking. An empty string is an empty slot.
type Slots [SlotCount]string

type State struct {
	Rankings map[catalog.Category]Slots
}

type ActionType string

const (
	ActPlaceFromPool  ActionType = "PlaceFromPool"
	ActMoveRankToRank ActionType = "MoveRankToRank"
	ActRemoveFromRank ActionType = "RemoveFromRank"
)

/*
	PlaceFromPool   -> TeamDisplaced (only if the slot was filled) -> TeamPlaced
	MoveRankToRank  -> SlotsSwapped
	RemoveFromRank  -> TeamRemoved (nothing if the slot was already empty)

	The pool is never stored: a team is unranked exactly when no slot holds it,
	so a displaced or removed team is back in the pool as soon as its slot changes.
*/

type Action struct {
	Type        ActionType
	TeamID      string
	FromIndex   int
	TargetIndex int
}

func PlaceFromPool(teamID string, targetIndex int) Action {
	return Action{Type: ActPlaceFromPool, TeamID: teamID, TargetIndex: targetIndex}
}

func MoveRankToRank(fromIndex, targetIndex int) Action {
	return Action{Type: ActMoveRankToRank, FromIndex: fromIndex, TargetIndex: targetIndex}
}

func RemoveFromRank(fromIndex int) Action {
	return Action{Type: ActRemoveFromRank, FromIndex: fromIndex}
}

type EventType string

const (
	EvtTeamPlaced    EventType = "TeamPlaced"
	EvtTeamDisplaced EventType = "TeamDisplaced"
	EvtSlotsSwapped  EventType = "SlotsSwapped"
	EvtTeamRemoved   EventType = "TeamRemoved"
)

type Event struct {
	Type      EventType
	Category  catalog.Category
	TeamID    string
	FromIndex int
	Index     int
}

// Apply runs one action against the given category and returns the resulting
// events and state. s is never modified; on error the original state is returned.
func Apply(s State, cat catalog.Category, a Action) ([]Event, State, error) {
	slots, ok := s.Rankings[cat]
	if !ok {
		return nil, s, catalog.ErrUnknownCategory
	}

	switch a.Type {
	case ActPlaceFromPool:
		if !validIndex(a.TargetIndex) {
			return nil, s, ErrSlotOutOfRange
		}
		if a.TeamID == "" {
			return nil, s, ErrEmptyTeam
		}
		if slots[a.TargetIndex] == a.TeamID {
			return nil, s, nil
		}
		if slots.IndexOf(a.TeamID) >= 0 {
			return nil, s, ErrTeamAlreadyRanked
		}

		var events []Event
		if prev := slots[a.TargetIndex]; prev != "" {
			events = append(events, Event{Type: EvtTeamDisplaced, Category: cat, TeamID: prev, Index: a.TargetIndex})
		}
		events = append(events, Event{Type: EvtTeamPlaced, Category: cat, TeamID: a.TeamID, Index: a.TargetIndex})

		slots[a.TargetIndex] = a.TeamID
		return events, s.with(cat, slots), nil

	case ActMoveRankToRank:
		if !validIndex(a.FromIndex) || !validIndex(a.TargetIndex) {
			return nil, s, ErrSlotOutOfRange
		}
		if a.FromIndex == a.TargetIndex {
			return nil, s, ErrSelfMove
		}

		events := []Event{
			{Type: EvtSlotsSwapped, Category: cat, FromIndex: a.FromIndex, Index: a.TargetIndex},
		}

		slots[a.FromIndex], slots[a.TargetIndex] = slots[a.TargetIndex], slots[a.FromIndex]
		return events, s.with(cat, slots), nil

	case ActRemoveFromRank:
		if !validIndex(a.FromIndex) {
			return nil, s, ErrSlotOutOfRange
		}
		prev := slots[a.FromIndex]
		if prev == "" {
			return nil, s, nil
		}

		events := []Event{
			{Type: EvtTeamRemoved, Category: cat, TeamID: prev, Index: a.FromIndex},
		}

		slots[a.FromIndex] = ""
		return events, s.with(cat, slots), nil

	default:
		return nil, s, ErrUnsupportedAction
	}
}

// Reduce rebuilds a state by replaying events on top of empty rankings.
func Reduce(categories []catalog.Category, events []Event) State {
	s := NewEmptyState(categories)
	for _, event := range events {
		slots, ok := s.Rankings[event.Category]
		if !ok {
			continue
		}
		switch event.Type {
		case EvtTeamPlaced:
			slots[event.Index] = event.TeamID
		case EvtTeamDisplaced, EvtTeamRemoved:
			slots[event.Index] = ""
		case EvtSlotsSwapped:
			slots[event.FromIndex], slots[event.Index] = slots[event.Index], slots[event.FromIndex]
		}
		s.Rankings[event.Category] = slots
	}
	return s
}

// RankedTeams resolves a category's slots to team records. Empty slots stay in
// place as nil entries so the result always has SlotCount elements.
func RankedTeams(c *catalog.Catalog, s State, cat catalog.Category) []*catalog.Team {
	slots := s.Rankings[cat]
	out := make([]*catalog.Team, SlotCount)
	for i, id := range slots {
		if id == "" {
			continue
		}
		if team, ok := c.Team(id); ok {
			out[i] = &team
		}
	}
	return out
}

// UnrankedTeams is the pool: catalog teams, in catalog order, that no slot of
// the category holds.
func UnrankedTeams(c *catalog.Catalog, s State, cat catalog.Category) []catalog.Team {
	slots := s.Rankings[cat]
	pool := make([]catalog.Team, 0, len(c.Teams))
	for _, team := range c.Teams {
		if slots.IndexOf(team.ID) < 0 {
			pool = append(pool, team)
		}
	}
	return pool
}
