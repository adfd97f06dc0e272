package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
)

type ExportCmd struct {
	Category   string   `kong:"required,help='Category to render, case-insensitive'"`
	Ranks      []string `kong:"sep=',',help='Team ids from rank 1 down; use - to leave a rank empty'"`
	Out        string   `kong:"help='Output file (defaults to the standard export name)'"`
	Scale      int      `kong:"default='2',help='Scale factor'"`
	Background string   `kong:"default='#0f172a',help='Background colour'"`
}

func (c *ExportCmd) Run(cli *CLI) error {
	cat, err := catalog.Load(cli.Catalog)
	if err != nil {
		return err
	}
	ctrl, err := buildBoard(cat, c.Category, c.Ranks)
	if err != nil {
		return err
	}

	r, err := export.NewRenderer(cat, export.Options{Scale: c.Scale, Background: c.Background})
	if err != nil {
		return err
	}
	view := ctrl.View()
	out := c.Out
	if out == "" {
		out = r.FileName(view.Active)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	err = r.Export(f, export.Board{Category: view.Active, Ranked: view.Ranked})
	err = multierr.Append(err, f.Close())
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// buildBoard replays ranks as pool clicks followed by rank clicks, the same
// path a player takes.
func buildBoard(c *catalog.Catalog, category string, ranks []string) (*interaction.Controller, error) {
	if len(ranks) > catalog.SlotCount {
		return nil, fmt.Errorf("at most %d ranks, got %d", catalog.SlotCount, len(ranks))
	}
	ctrl := interaction.NewController(c, nil)
	active, err := c.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if err := ctrl.SwitchCategory(active); err != nil {
		return nil, err
	}

	for i, id := range ranks {
		id = strings.TrimSpace(id)
		if id == "" || id == "-" {
			continue
		}
		if err := ctrl.ClickPoolTeam(id); err != nil {
			return nil, fmt.Errorf("rank %d: %w", i+1, err)
		}
		if err := ctrl.ClickRank(i); err != nil {
			return nil, fmt.Errorf("rank %d: %w", i+1, err)
		}
	}
	return ctrl, nil
}
