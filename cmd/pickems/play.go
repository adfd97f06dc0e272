package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/logging"
	"github.com/DoyleJ11/bpl-pickems/internal/tui"
)

type PlayCmd struct {
	Export  bool   `kong:"env='PICKEMS_EXPORT_ENABLED',help='Enable saving the board as an image (e)'"`
	OutDir  string `kong:"default='.',type='existingdir',help='Directory exported images are written to'"`
	Scale   int    `kong:"default='2',help='Export scale factor'"`
	LogFile string `kong:"help='Write debug logs to this file'"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	cat, err := catalog.Load(cli.Catalog)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs go to a file or nowhere.
	logger := zap.NewNop()
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger, err = logging.NewWithWriter("debug", "json", f)
		if err != nil {
			return err
		}
	}

	opts := tui.Options{
		OutDir:      c.OutDir,
		SettleDelay: 100 * time.Millisecond,
		Logger:      logger,
	}
	if c.Export {
		r, err := export.NewRenderer(cat, export.Options{Scale: c.Scale})
		if err != nil {
			return err
		}
		opts.Exporter = r
	}

	_, err = tea.NewProgram(tui.New(cat, opts), tea.WithAltScreen()).Run()
	return err
}
