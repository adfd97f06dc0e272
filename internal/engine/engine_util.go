package engine

import "github.com/DoyleJ11/bpl-pickems/internal/catalog"

func NewEmptyState(categories []catalog.Category) State {
	s := State{Rankings: make(map[catalog.Category]Slots, len(categories))}
	for _, cat := range categories {
		s.Rankings[cat] = Slots{}
	}
	return s
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// IndexOf returns the slot holding id, or -1.
func (s Slots) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, v := range s {
		if v == id {
			return i
		}
	}
	return -1
}

func (s Slots) Filled() int {
	n := 0
	for _, v := range s {
		if v != "" {
			n++
		}
	}
	return n
}

// with returns a copy of s where cat maps to slots. The rankings map is
// copied so callers holding the previous state never observe the change.
func (s State) with(cat catalog.Category, slots Slots) State {
	next := s.Clone()
	next.Rankings[cat] = slots
	return next
}

func (s State) Clone() State {
	next := State{Rankings: make(map[catalog.Category]Slots, len(s.Rankings))}
	for k, v := range s.Rankings {
		next.Rankings[k] = v
	}
	return next
}

func validIndex(i int) bool {
	return i >= 0 && i < SlotCount
}
