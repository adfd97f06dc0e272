package export

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
)

func sampleBoard(c *catalog.Catalog) Board {
	ranked := make([]*catalog.Team, catalog.SlotCount)
	for i, id := range []string{"apina", "", "leisureland", "tradz"} {
		if team, ok := c.Team(id); ok {
			ranked[i] = &team
		}
	}
	return Board{Category: "SOUND VOLTEX", Ranked: ranked}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "BPL_S5_PickEms_SOUND_VOLTEX.png", FileName("BPL_S5_PickEms", "SOUND VOLTEX"))
	assert.Equal(t, "BPL_S5_PickEms_beatmania_IIDX.png", FileName("BPL_S5_PickEms", "beatmania IIDX"))
	assert.Equal(t, "x_DanceDanceRevolution.png", FileName("x", "DanceDanceRevolution"))
}

func TestExportWritesScaledPNG(t *testing.T) {
	c := catalog.Default()
	r, err := NewRenderer(c, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Export(&buf, sampleBoard(c)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, width*DefaultScale, img.Bounds().Dx())

	// corner pixel is the configured background
	cr, cg, cb, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0x0f, 0x17, 0x2a}, [3]uint32{cr >> 8, cg >> 8, cb >> 8})
}

func TestRenderUsesTeamColor(t *testing.T) {
	c := catalog.Default()
	r, err := NewRenderer(c, Options{Scale: 1, Background: "#000"})
	require.NoError(t, err)

	img, err := r.Render(sampleBoard(c))
	require.NoError(t, err)

	// right edge of the first card, clear of any text
	y := pad + headerH + rowH/2
	cr, cg, cb, _ := img.At(width-pad-2, y).RGBA()
	assert.Equal(t, [3]uint32{0x00, 0x57, 0xb5}, [3]uint32{cr >> 8, cg >> 8, cb >> 8})
}

func TestRenderRejectsWrongSlotCount(t *testing.T) {
	c := catalog.Default()
	r, err := NewRenderer(c, Options{Scale: 1})
	require.NoError(t, err)

	err = r.Export(&bytes.Buffer{}, Board{Category: "x", Ranked: nil})
	assert.ErrorIs(t, err, ErrExportFailed)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportEncodeFailure(t *testing.T) {
	c := catalog.Default()
	r, err := NewRenderer(c, Options{Scale: 1})
	require.NoError(t, err)

	err = r.Export(failingWriter{}, sampleBoard(c))
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestNewRendererValidation(t *testing.T) {
	_, err := NewRenderer(catalog.Default(), Options{Scale: -1})
	assert.Error(t, err)

	_, err = NewRenderer(catalog.Default(), Options{Background: "navy-ish"})
	assert.Error(t, err)
}
