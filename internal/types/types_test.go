package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
)

func decode(t *testing.T, raw string) ClientMessage {
	t.Helper()
	var m ClientMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestClientMessageInput(t *testing.T) {
	in, err := decode(t, `{"type":"ClickRank","index":3}`).Input()
	require.NoError(t, err)
	assert.Equal(t, interaction.Input{Type: interaction.InClickRank, Index: 3}, in)

	in, err = decode(t, `{"type":"ClickPoolTeam","team_id":"gigo"}`).Input()
	require.NoError(t, err)
	assert.Equal(t, "gigo", in.TeamID)

	in, err = decode(t, `{"type":"DragStart","source":{"type":"rank","index":2}}`).Input()
	require.NoError(t, err)
	require.NotNil(t, in.Source.Index)
	assert.Equal(t, 2, *in.Source.Index)

	in, err = decode(t, `{"type":"DropOnPool","payload":{"type":"pool","id":"apina"}}`).Input()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pool","id":"apina"}`, string(in.Payload))
}

func TestClientMessageInputRejects(t *testing.T) {
	_, err := decode(t, `{"type":"ClickRank"}`).Input()
	assert.ErrorIs(t, err, ErrMissingIndex)

	_, err = decode(t, `{"type":"DragStart","source":{"type":"rank"}}`).Input()
	assert.ErrorIs(t, err, interaction.ErrMalformedPayload)

	_, err = decode(t, `{"type":"LockPick"}`).Input()
	assert.ErrorIs(t, err, interaction.ErrUnsupportedInput)
}

func TestServerMessageOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(ServerMessage{Type: MsgAlert, Message: ExportFailedAlert})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Alert","message":"画像の保存に失敗しました。"}`, string(raw))
}
