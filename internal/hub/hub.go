package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/bpl-pickems/internal/board"
)

type HubMsg interface{ isHubMsg() }

type CreateBoard struct {
	Code  string
	Reply chan *board.Board
}

type GetBoard struct {
	Code  string
	Reply chan *board.Board
}

type EnsureBoard struct {
	Code  string
	Reply chan *board.Board
}

type RemoveBoard struct {
	Code string
}

type CountBoards struct {
	Reply chan int
}

type ShutdownHub struct{}

func (CreateBoard) isHubMsg() {}
func (GetBoard) isHubMsg()    {}
func (EnsureBoard) isHubMsg() {}
func (RemoveBoard) isHubMsg() {}
func (CountBoards) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Hub owns every live board, keyed by its share code. Boards are kept in
// memory only; removing one discards its rankings.
type Hub struct {
	inbox  chan HubMsg
	boards map[string]*board.Board
	opts   board.Options
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub starts a hub whose boards are all created with opts.
func NewHub(parent context.Context, opts board.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		boards: make(map[string]*board.Board),
		opts:   opts,
		logger: opts.Logger.Named("hub"),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateBoard:
				if b := h.boards[msg.Code]; b != nil {
					msg.Reply <- b
					break
				}
				msg.Reply <- h.create(msg.Code)

			case GetBoard:
				msg.Reply <- h.boards[msg.Code] // May be nil

			case EnsureBoard:
				if b := h.boards[msg.Code]; b != nil {
					msg.Reply <- b
					break
				}
				msg.Reply <- h.create(msg.Code)

			case RemoveBoard:
				if b := h.boards[msg.Code]; b != nil {
					b.Inbox() <- board.Shutdown{}
					delete(h.boards, msg.Code)
				}

			case CountBoards:
				msg.Reply <- len(h.boards)

			case ShutdownHub:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) create(code string) *board.Board {
	opts := h.opts
	opts.Logger = h.opts.Logger.Named("board").With(zap.String("board", code))
	b := board.New(h.ctx, opts)
	h.boards[code] = b
	h.logger.Info("board created", zap.String("board", code))
	return b
}

func (h *Hub) shutdown() {
	for _, b := range h.boards {
		select {
		case b.Inbox() <- board.Shutdown{}:
		default:
			// full inbox: the board stops when the hub context is cancelled
		}
	}
	clear(h.boards)
}

// Get looks a board up by code; nil means there is no such board.
func (h *Hub) Get(ctx context.Context, code string) *board.Board {
	reply := make(chan *board.Board, 1)
	select {
	case h.inbox <- GetBoard{Code: code, Reply: reply}:
	case <-ctx.Done():
		return nil
	case <-h.ctx.Done():
		return nil
	}
	select {
	case b := <-reply:
		return b
	case <-ctx.Done():
		return nil
	case <-h.ctx.Done():
		return nil
	}
}
