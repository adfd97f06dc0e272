package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/engine"
	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
)

func TestBuildBoard(t *testing.T) {
	ctrl, err := buildBoard(catalog.Default(), "sound voltex", []string{"tradz", "-", "apina"})
	require.NoError(t, err)

	assert.Equal(t, catalog.Category("SOUND VOLTEX"), ctrl.Active())
	assert.Equal(t, engine.Slots{"tradz", "", "apina"}, ctrl.Slots())
	assert.Len(t, ctrl.View().Unranked, 5)
}

func TestBuildBoardRejects(t *testing.T) {
	_, err := buildBoard(catalog.Default(), "pop'n music", nil)
	assert.ErrorIs(t, err, catalog.ErrUnknownCategory)

	_, err = buildBoard(catalog.Default(), "SOUND VOLTEX", []string{"gigo", "gigo"})
	assert.ErrorIs(t, err, interaction.ErrTeamNotInPool)

	_, err = buildBoard(catalog.Default(), "SOUND VOLTEX", []string{"nobody"})
	assert.ErrorIs(t, err, interaction.ErrUnknownTeam)

	_, err = buildBoard(catalog.Default(), "SOUND VOLTEX", make([]string, 8))
	assert.Error(t, err)
}
