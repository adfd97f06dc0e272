package board

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/coder/quartz"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
)

var ErrBoardClosed = errors.New("board closed")

type Msg interface{ isBoardMsg() }

type FromClient struct {
	Input interaction.Input
	Reply chan Result // optional; only the sender learns about errors
}

func (FromClient) isBoardMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isBoardMsg() {}

type Leave struct{ ClientID string }

func (Leave) isBoardMsg() {}

type Shutdown struct{}

func (Shutdown) isBoardMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isBoardMsg() {}

type Export struct {
	Reply chan ExportResult
}

func (Export) isBoardMsg() {}

// captureReady fires once the settle delay after an Export has passed.
type captureReady struct {
	reply chan ExportResult
}

func (captureReady) isBoardMsg() {}

type Result struct {
	Version int
	Payload []byte
	Err     error
}

type Snapshot struct {
	Version int
	View    interaction.View
}

type View struct {
	Version    int
	NumClients int
	View       interaction.View
}

type ExportResult struct {
	FileName string
	PNG      []byte
	Err      error
}

type Exporter interface {
	FileName(cat catalog.Category) string
	Export(w io.Writer, b export.Board) error
}

type Options struct {
	Catalog *catalog.Catalog
	// Exporter renders boards; nil means export is disabled.
	Exporter    Exporter
	Clock       quartz.Clock
	SettleDelay time.Duration
	Logger      *zap.Logger
}

// Board is one user's Pick'Ems session. A single goroutine owns the
// controller, so every input runs to completion before the next one starts.
type Board struct {
	inbox    chan Msg
	ctrl     *interaction.Controller
	exporter Exporter
	clock    quartz.Clock
	settle   time.Duration
	logger   *zap.Logger
	version  int
	clients  map[string]chan Snapshot
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, opts Options) *Board {
	ctx, cancel := context.WithCancel(parent)
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	b := &Board{
		inbox:    make(chan Msg, 64), // Small buffer
		ctrl:     interaction.NewController(opts.Catalog, opts.Logger),
		exporter: opts.Exporter,
		clock:    opts.Clock,
		settle:   opts.SettleDelay,
		logger:   opts.Logger,
		clients:  make(map[string]chan Snapshot),
		ctx:      ctx,
		cancel:   cancel,
	}

	go b.loop()
	return b
}

func (b *Board) loop() {
	for {
		select {
		case <-b.ctx.Done():
			b.shutdown()
			return

		case m := <-b.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				b.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- b.snapshot()

			case Leave:
				if ch, ok := b.clients[msg.ClientID]; ok {
					close(ch)
					delete(b.clients, msg.ClientID)
				}

			case FromClient:
				res, err := b.ctrl.Handle(msg.Input)
				if err != nil {
					b.logger.Debug("input rejected", zap.String("input", string(msg.Input.Type)), zap.Error(err))
					reply(msg.Reply, Result{Version: b.version, Err: err})
					break
				}
				b.version++
				b.broadcast(b.snapshot())
				reply(msg.Reply, Result{Version: b.version, Payload: res.Payload})

			case GetState:
				msg.Reply <- View{
					Version:    b.version,
					NumClients: len(b.clients),
					View:       b.ctrl.View(),
				}

			case Export:
				b.startExport(msg.Reply)

			case captureReady:
				msg.reply <- b.capture()

			case Shutdown:
				b.shutdown()
				return
			}
		}
	}
}

// startExport clears the selection so no highlight ends up in the image, lets
// clients redraw, and captures after the settle delay.
func (b *Board) startExport(replyTo chan ExportResult) {
	if b.exporter == nil {
		replyTo <- ExportResult{Err: export.ErrExportDisabled}
		return
	}

	if !b.ctrl.Selection().IsNone() {
		b.ctrl.ClearSelection()
		b.version++
		b.broadcast(b.snapshot())
	}

	b.clock.AfterFunc(b.settle, func() {
		select {
		case b.inbox <- captureReady{reply: replyTo}:
		case <-b.ctx.Done():
		}
	}, "export")
}

func (b *Board) capture() ExportResult {
	view := b.ctrl.View()
	var buf bytes.Buffer
	err := b.exporter.Export(&buf, export.Board{Category: view.Active, Ranked: view.Ranked})
	if err != nil {
		if !errors.Is(err, export.ErrExportFailed) {
			err = fmt.Errorf("%w: %v", export.ErrExportFailed, err)
		}
		b.logger.Error("export failed", zap.String("category", string(view.Active)), zap.Error(err))
		return ExportResult{Err: err}
	}
	return ExportResult{FileName: b.exporter.FileName(view.Active), PNG: buf.Bytes()}
}

func (b *Board) snapshot() Snapshot {
	return Snapshot{Version: b.version, View: b.ctrl.View()}
}

func (b *Board) shutdown() {
	for id, ch := range b.clients {
		close(ch) // Tell client no more snapshots
		delete(b.clients, id)
	}
	b.cancel()
}

func (b *Board) broadcast(snap Snapshot) {
	for id, ch := range b.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(b.clients, id)
		}
	}
}

func reply(ch chan Result, r Result) {
	if ch != nil {
		ch <- r
	}
}

// Expose the inbox so tests or the WS layer can send messages.
func (b *Board) Inbox() chan<- Msg { return b.inbox }

func (b *Board) Catalog() *catalog.Catalog { return b.ctrl.Catalog() }

func (b *Board) ExportEnabled() bool { return b.exporter != nil }

// Dispatch sends one input and waits for its result.
func (b *Board) Dispatch(ctx context.Context, in interaction.Input) (Result, error) {
	ch := make(chan Result, 1)
	if err := b.send(ctx, FromClient{Input: in, Reply: ch}); err != nil {
		return Result{}, err
	}
	return await(ctx, b.ctx, ch)
}

func (b *Board) State(ctx context.Context) (View, error) {
	ch := make(chan View, 1)
	if err := b.send(ctx, GetState{Reply: ch}); err != nil {
		return View{}, err
	}
	return await(ctx, b.ctx, ch)
}

// RequestExport asks for a PNG of the active category and waits for it.
func (b *Board) RequestExport(ctx context.Context) (ExportResult, error) {
	ch := make(chan ExportResult, 1)
	if err := b.send(ctx, Export{Reply: ch}); err != nil {
		return ExportResult{}, err
	}
	return await(ctx, b.ctx, ch)
}

func (b *Board) send(ctx context.Context, m Msg) error {
	select {
	case b.inbox <- m:
		return nil
	case <-b.ctx.Done():
		return ErrBoardClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func await[T any](ctx, boardCtx context.Context, ch <-chan T) (T, error) {
	var zero T
	select {
	case v := <-ch:
		return v, nil
	case <-boardCtx.Done():
		return zero, ErrBoardClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
