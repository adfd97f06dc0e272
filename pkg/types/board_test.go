package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
)

func TestNewBoardView(t *testing.T) {
	c := catalog.Default()
	ctrl := interaction.NewController(c, nil)
	require.NoError(t, ctrl.ClickPoolTeam("gigo"))
	require.NoError(t, ctrl.ClickRank(4))
	require.NoError(t, ctrl.ClickRank(4))

	bv := NewBoardView("ABC123", 3, c, ctrl.View(), false)

	assert.Equal(t, "beatmania IIDX", bv.ActiveCategory)
	require.Len(t, bv.Slots, 7)
	assert.Nil(t, bv.Slots[0].Team)
	assert.Equal(t, "gigo", bv.Slots[4].Team.ID)
	assert.True(t, bv.Slots[3].Qualifies)
	assert.False(t, bv.Slots[4].Qualifies)
	assert.Equal(t, 6, bv.PoolCount)
	require.NotNil(t, bv.Selection)
	assert.Equal(t, "rank", bv.Selection.Type)
	assert.Equal(t, 4, *bv.Selection.Index)
	assert.Equal(t, "choose-target", bv.Hint)

	raw, err := json.Marshal(bv.Rankings["beatmania IIDX"])
	require.NoError(t, err)
	assert.JSONEq(t, `[null,null,null,null,"gigo",null,null]`, string(raw))
}

func TestNewCatalogView(t *testing.T) {
	v := NewCatalogView(catalog.Default())
	assert.Len(t, v.Teams, 7)
	assert.Equal(t, []string{"beatmania IIDX", "SOUND VOLTEX", "DanceDanceRevolution"}, v.Categories)
}
