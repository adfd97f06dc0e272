package interaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DoyleJ11/bpl-pickems/internal/engine"
)

var ErrMalformedPayload = errors.New("malformed drag payload")

// DragSource is carried from drag start to drop as the JSON payload of the
// drag (the browser's application/json data transfer item).
type DragSource struct {
	Type  SelectionKind `json:"type"`
	ID    string        `json:"id,omitempty"`
	Index *int          `json:"index,omitempty"`
}

func PoolSource(teamID string) DragSource {
	return DragSource{Type: SelectPool, ID: teamID}
}

func RankSource(index int, teamID string) DragSource {
	return DragSource{Type: SelectRank, ID: teamID, Index: &index}
}

func (d DragSource) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// DecodeDragSource parses a drop payload. Anything that is not a pool source
// with a team id or a rank source with an index is malformed.
func DecodeDragSource(payload []byte) (DragSource, error) {
	var d DragSource
	if err := json.Unmarshal(payload, &d); err != nil {
		return DragSource{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	switch d.Type {
	case SelectPool:
		if d.ID == "" {
			return DragSource{}, fmt.Errorf("%w: pool source without id", ErrMalformedPayload)
		}
	case SelectRank:
		if d.Index == nil {
			return DragSource{}, fmt.Errorf("%w: rank source without index", ErrMalformedPayload)
		}
	default:
		return DragSource{}, fmt.Errorf("%w: source type %q", ErrMalformedPayload, d.Type)
	}
	return d, nil
}

// DragStartSelection is the selection shown while src is being dragged.
func DragStartSelection(src DragSource) Selection {
	if src.Type == SelectRank && src.Index != nil {
		return RankSelected(*src.Index, src.ID)
	}
	return PoolSelected(src.ID)
}

// ResolveRankDrop handles src dropped on slot target. Dropping a slot on
// itself ends the drag with nothing selected, as clicking a selected slot
// again would.
func ResolveRankDrop(src DragSource, target int) Outcome {
	if src.Type == SelectPool {
		return act(engine.PlaceFromPool(src.ID, target))
	}
	if *src.Index == target {
		return keep(None)
	}
	return act(engine.MoveRankToRank(*src.Index, target))
}

// ResolvePoolDrop handles src dropped on the pool area.
func ResolvePoolDrop(src DragSource) Outcome {
	if src.Type == SelectRank {
		return act(engine.RemoveFromRank(*src.Index))
	}
	return keep(None)
}
