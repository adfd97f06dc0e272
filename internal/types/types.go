package types

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
	pub "github.com/DoyleJ11/bpl-pickems/pkg/types"
)

type ClientMessage struct {
	Type     string          `json:"type"` // an input type, or "Export"
	Category string          `json:"category,omitempty"`
	TeamID   string          `json:"team_id,omitempty"`
	Index    *int            `json:"index,omitempty"`
	Source   json.RawMessage `json:"source,omitempty"`  // DragStart
	Payload  json.RawMessage `json:"payload,omitempty"` // DropOnRank, DropOnPool
}

type ServerMessage struct {
	Type     string          `json:"type"` // "StateSnapshot" | "DragPayload" | "ExportReady" | "Alert" | "Error"
	Version  int             `json:"version,omitempty"`
	Board    *pub.BoardView  `json:"board,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	FileName string          `json:"filename,omitempty"`
	PNG      []byte          `json:"png,omitempty"` // base64 in JSON
	Message  string          `json:"message,omitempty"`
	Error    string          `json:"error,omitempty"`
}

const (
	MsgStateSnapshot = "StateSnapshot"
	MsgDragPayload   = "DragPayload"
	MsgExportReady   = "ExportReady"
	MsgAlert         = "Alert"
	MsgError         = "Error"

	ClientExport = "Export"
)

// ExportFailedAlert is shown to the user as a blocking alert.
const ExportFailedAlert = "画像の保存に失敗しました。"

var ErrMissingIndex = errors.New("missing index")

// Input maps a client message onto a controller input.
func (m ClientMessage) Input() (interaction.Input, error) {
	in := interaction.Input{
		Type:     interaction.InputType(m.Type),
		Category: m.Category,
		TeamID:   m.TeamID,
	}

	switch in.Type {
	case interaction.InClickRank, interaction.InDropOnRank:
		if m.Index == nil {
			return interaction.Input{}, fmt.Errorf("%s: %w", m.Type, ErrMissingIndex)
		}
		in.Index = *m.Index
	}

	switch in.Type {
	case interaction.InDragStart:
		src, err := interaction.DecodeDragSource(m.Source)
		if err != nil {
			return interaction.Input{}, err
		}
		in.Source = src
	case interaction.InDropOnRank, interaction.InDropOnPool:
		in.Payload = []byte(m.Payload)
	case interaction.InSelectCategory, interaction.InClickPoolTeam, interaction.InClickPoolArea,
		interaction.InClickRank, interaction.InClearSelection:
	default:
		return interaction.Input{}, fmt.Errorf("%w: %q", interaction.ErrUnsupportedInput, m.Type)
	}
	return in, nil
}
