// Package export draws a ranking board to a PNG image.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
)

var ErrExportDisabled = errors.New("export is under construction")
var ErrExportFailed = errors.New("export failed")

const (
	DefaultScale      = 2
	DefaultBackground = "#0f172a"
)

// board geometry at scale 1
const (
	width      = 480
	pad        = 16
	headerH    = 52
	rowH       = 40
	rowGap     = 8
	rankBox    = 32
	cutoffBand = 28
	footerH    = 32
)

var (
	white      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	muted      = color.RGBA{0x71, 0x71, 0x7a, 0xff}
	panel      = color.RGBA{0x18, 0x18, 0x1b, 0xff}
	rankBg     = color.RGBA{0x27, 0x27, 0x2a, 0xff}
	gold       = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
	slotBorder = color.RGBA{0x33, 0x41, 0x55, 0xff}
)

type Options struct {
	Scale      int
	Background string
}

// Board is the part of a ranking board that ends up in the image.
type Board struct {
	Category catalog.Category
	Ranked   []*catalog.Team
}

type Renderer struct {
	catalog    *catalog.Catalog
	background color.Color
	scale      int
	face       font.Face
}

func NewRenderer(c *catalog.Catalog, opts Options) (*Renderer, error) {
	if opts.Scale == 0 {
		opts.Scale = DefaultScale
	}
	if opts.Scale < 1 {
		return nil, fmt.Errorf("export scale must be positive, got %d", opts.Scale)
	}
	if opts.Background == "" {
		opts.Background = DefaultBackground
	}
	bg, err := catalog.ParseColor(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("export background: %w", err)
	}

	return &Renderer{
		catalog:    c,
		background: bg,
		scale:      opts.Scale,
		face:       basicfont.Face7x13,
	}, nil
}

// FileName is the download name for a category's board, e.g.
// BPL_S5_PickEms_SOUND_VOLTEX.png.
func FileName(prefix string, cat catalog.Category) string {
	return prefix + "_" + strings.Join(strings.Fields(string(cat)), "_") + ".png"
}

func (r *Renderer) FileName(cat catalog.Category) string {
	return FileName(r.catalog.FilePrefix, cat)
}

// Export renders b and writes it to w as PNG.
func (r *Renderer) Export(w io.Writer, b Board) error {
	img, err := r.Render(b)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrExportFailed, err)
	}
	return nil
}

func (r *Renderer) Render(b Board) (image.Image, error) {
	if len(b.Ranked) != catalog.SlotCount {
		return nil, fmt.Errorf("board has %d slots, want %d", len(b.Ranked), catalog.SlotCount)
	}

	cutoff := r.catalog.Cutoff
	height := pad + headerH + catalog.SlotCount*(rowH+rowGap) + footerH + pad
	if cutoff > 0 && cutoff < catalog.SlotCount {
		height += cutoffBand
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, img.Bounds(), r.background)
	fill(img, image.Rect(pad/2, pad/2, width-pad/2, height-pad/2), panel)

	// header
	y := pad
	r.text(img, string(b.Category), pad, y+20, white)
	r.text(img, "MY PICKS", pad, y+38, muted)
	r.textRight(img, r.catalog.Title, width-pad, y+20, muted)
	fill(img, image.Rect(pad, y+headerH-6, width-pad, y+headerH-5), rankBg)
	y += headerH

	for i, team := range b.Ranked {
		if i == cutoff && cutoff > 0 {
			r.cutoffLine(img, y)
			y += cutoffBand
		}
		if err := r.slot(img, y, i, team, i < cutoff); err != nil {
			return nil, err
		}
		y += rowH + rowGap
	}

	// footer
	fill(img, image.Rect(pad, y+4, width-pad, y+5), slotBorder)
	r.text(img, r.catalog.Title+" Pick'Ems", pad, y+22, muted)
	r.textRight(img, r.catalog.Tag, width-pad, y+22, muted)

	return r.scaled(img), nil
}

func (r *Renderer) slot(img *image.RGBA, y, index int, team *catalog.Team, qualified bool) error {
	numColor := color.Color(muted)
	if qualified {
		numColor = gold
	}
	box := image.Rect(pad, y+(rowH-rankBox)/2, pad+rankBox, y+(rowH+rankBox)/2)
	fill(img, box, rankBg)
	num := strconv.Itoa(index + 1)
	r.text(img, num, box.Min.X+(rankBox-r.measure(num))/2, box.Min.Y+21, numColor)

	card := image.Rect(pad+rankBox+12, y, width-pad, y+rowH)
	if team == nil {
		outline(img, card, slotBorder)
		label := "EMPTY SLOT"
		r.text(img, label, card.Min.X+(card.Dx()-r.measure(label))/2, y+25, slotBorder)
		return nil
	}

	bg, err := catalog.ParseColor(team.Color)
	if err != nil {
		return fmt.Errorf("team %s color: %w", team.ID, err)
	}
	fg, err := catalog.ParseColor(team.TextColor)
	if err != nil {
		return fmt.Errorf("team %s text color: %w", team.ID, err)
	}
	fill(img, card, bg)
	fill(img, image.Rect(card.Min.X, card.Min.Y, card.Min.X+4, card.Max.Y), fg)
	r.text(img, team.Label(), card.Min.X+16, y+25, fg)
	return nil
}

func (r *Renderer) cutoffLine(img *image.RGBA, y int) {
	label := fmt.Sprintf("TOP %d ADVANCE TO SEMIFINAL", r.catalog.Cutoff)
	w := r.measure(label)
	mid := y + cutoffBand/2 - 4
	left := (width - w) / 2
	fill(img, image.Rect(pad*2, mid, left-8, mid+1), gold)
	fill(img, image.Rect(left+w+8, mid, width-pad*2, mid+1), gold)
	r.text(img, label, left, mid+4, gold)
}

func (r *Renderer) scaled(src *image.RGBA) image.Image {
	if r.scale == 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*r.scale, b.Dy()*r.scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func (r *Renderer) text(img *image.RGBA, s string, x, baseline int, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func (r *Renderer) textRight(img *image.RGBA, s string, right, baseline int, c color.Color) {
	r.text(img, s, right-r.measure(s), baseline, c)
}

func (r *Renderer) measure(s string) int {
	return font.MeasureString(r.face, s).Round()
}

func fill(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

func outline(img *image.RGBA, rect image.Rectangle, c color.Color) {
	fill(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), c)
	fill(img, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), c)
	fill(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), c)
	fill(img, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), c)
}
