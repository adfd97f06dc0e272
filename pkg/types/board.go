// Package types holds the JSON shapes a front-end renders a Pick'Ems board
// from.
package types

import (
	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
)

// BoardView:
//   code: string
//   version: number
//   active_category: string
//   categories: string[]
//   slots: { rank, team|null, qualifies }[7]   // gaps are kept, never compacted
//   pool: Team[]                                // catalog order
//   pool_count: number
//   selection: { type: "pool"|"rank", id, index? } | null
//   rankings: { [category]: (team_id|null)[7] }
//   hint: "idle" | "choose-rank" | "choose-target"
//   export_enabled: boolean

type TeamView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Logo      string `json:"logo"`
	TextColor string `json:"text_color"`
}

type SlotView struct {
	Rank      int       `json:"rank"`
	Team      *TeamView `json:"team"`
	Qualifies bool      `json:"qualifies"` // at or above the semifinal cutoff
}

type SelectionView struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Index *int   `json:"index,omitempty"`
}

type BoardView struct {
	Code           string               `json:"code"`
	Version        int                  `json:"version"`
	ActiveCategory string               `json:"active_category"`
	Categories     []string             `json:"categories"`
	Slots          []SlotView           `json:"slots"`
	Pool           []TeamView           `json:"pool"`
	PoolCount      int                  `json:"pool_count"`
	Selection      *SelectionView       `json:"selection"`
	Rankings       map[string][]*string `json:"rankings"`
	Hint           string               `json:"hint"`
	ExportEnabled  bool                 `json:"export_enabled"`
}

type CatalogView struct {
	Title      string     `json:"title"`
	Tag        string     `json:"tag"`
	Cutoff     int        `json:"cutoff"`
	Categories []string   `json:"categories"`
	Teams      []TeamView `json:"teams"`
}

func NewTeamView(t catalog.Team) TeamView {
	return TeamView{ID: t.ID, Name: t.Name, Color: t.Color, Logo: t.Logo, TextColor: t.TextColor}
}

func NewCatalogView(c *catalog.Catalog) CatalogView {
	v := CatalogView{
		Title:      c.Title,
		Tag:        c.Tag,
		Cutoff:     c.Cutoff,
		Categories: categoryNames(c.Categories),
		Teams:      make([]TeamView, 0, len(c.Teams)),
	}
	for _, t := range c.Teams {
		v.Teams = append(v.Teams, NewTeamView(t))
	}
	return v
}

func NewBoardView(code string, version int, c *catalog.Catalog, v interaction.View, exportEnabled bool) BoardView {
	bv := BoardView{
		Code:           code,
		Version:        version,
		ActiveCategory: string(v.Active),
		Categories:     categoryNames(c.Categories),
		Slots:          make([]SlotView, len(v.Ranked)),
		Pool:           make([]TeamView, 0, len(v.Unranked)),
		PoolCount:      len(v.Unranked),
		Rankings:       make(map[string][]*string, len(v.Rankings)),
		Hint:           string(v.Hint),
		ExportEnabled:  exportEnabled,
	}

	for i, t := range v.Ranked {
		slot := SlotView{Rank: i + 1, Qualifies: i < c.Cutoff}
		if t != nil {
			tv := NewTeamView(*t)
			slot.Team = &tv
		}
		bv.Slots[i] = slot
	}
	for _, t := range v.Unranked {
		bv.Pool = append(bv.Pool, NewTeamView(t))
	}
	for cat, slots := range v.Rankings {
		ids := make([]*string, len(slots))
		for i := range slots {
			if slots[i] != "" {
				id := slots[i]
				ids[i] = &id
			}
		}
		bv.Rankings[string(cat)] = ids
	}

	switch v.Selection.Kind {
	case interaction.SelectPool:
		bv.Selection = &SelectionView{Type: "pool", ID: v.Selection.TeamID}
	case interaction.SelectRank:
		idx := v.Selection.Index
		bv.Selection = &SelectionView{Type: "rank", ID: v.Selection.TeamID, Index: &idx}
	}
	return bv
}

func categoryNames(cats []catalog.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}
