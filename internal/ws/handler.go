package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bpl-pickems/internal/board"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/hub"
	"github.com/DoyleJ11/bpl-pickems/internal/types"
	pub "github.com/DoyleJ11/bpl-pickems/pkg/types"
)

type Options struct {
	// OriginPatterns are passed to websocket.Accept; empty means same origin only.
	OriginPatterns []string
	Logger         *zap.Logger
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		b := h.Get(r.Context(), code)
		if b == nil {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			logger.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		c := &client{
			id:     uuid.NewString(),
			code:   code,
			conn:   conn,
			board:  b,
			logger: logger.With(zap.String("board", code)),
		}
		c.serve(r.Context())
	}
}

type client struct {
	id     string
	code   string
	conn   *websocket.Conn
	board  *board.Board
	logger *zap.Logger
}

func (c *client) serve(ctx context.Context) {
	out := make(chan board.Snapshot, 8)
	select {
	case c.board.Inbox() <- board.Join{ClientID: c.id, Outbox: out}:
	case <-ctx.Done():
		return
	}
	defer func() {
		select {
		case c.board.Inbox() <- board.Leave{ClientID: c.id}:
		default:
		}
	}()
	c.logger.Debug("client joined", zap.String("client", c.id))

	// Writer goroutine
	writeCtx, writeCancel := context.WithCancel(ctx)
	defer writeCancel()
	go func() {
		for snap := range out {
			bv := pub.NewBoardView(c.code, snap.Version, c.board.Catalog(), snap.View, c.board.ExportEnabled())
			c.write(writeCtx, types.ServerMessage{Type: types.MsgStateSnapshot, Version: snap.Version, Board: &bv})
		}
		// The board dropped us or shut down.
		c.conn.Close(websocket.StatusGoingAway, "board closed")
	}()

	// Reader loop
	for {
		readCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		_, data, err := c.conn.Read(readCtx)
		cancel()
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				c.logger.Debug("read failed", zap.String("client", c.id), zap.Error(err))
			}
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			c.writeError(ctx, "bad json")
			continue
		}

		if cm.Type == types.ClientExport {
			go c.export(writeCtx)
			continue
		}

		in, err := cm.Input()
		if err != nil {
			c.writeError(ctx, err.Error())
			continue
		}

		res, err := c.board.Dispatch(ctx, in)
		if err != nil {
			// board gone or request cancelled
			return
		}
		if res.Err != nil {
			c.writeError(ctx, res.Err.Error())
			continue
		}
		if res.Payload != nil {
			c.write(ctx, types.ServerMessage{Type: types.MsgDragPayload, Version: res.Version, Payload: res.Payload})
		}
	}
}

func (c *client) export(ctx context.Context) {
	res, err := c.board.RequestExport(ctx)
	if err != nil {
		return
	}
	switch {
	case res.Err == nil:
		c.write(ctx, types.ServerMessage{Type: types.MsgExportReady, FileName: res.FileName, PNG: res.PNG})
	case errors.Is(res.Err, export.ErrExportDisabled):
		c.writeError(ctx, res.Err.Error())
	default:
		c.write(ctx, types.ServerMessage{Type: types.MsgAlert, Message: types.ExportFailedAlert})
	}
}

func (c *client) writeError(ctx context.Context, msg string) {
	c.write(ctx, types.ServerMessage{Type: types.MsgError, Error: msg})
}

func (c *client) write(ctx context.Context, msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("encode message", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.conn.Write(wctx, websocket.MessageText, payload); err != nil {
		c.logger.Debug("write failed", zap.String("client", c.id), zap.Error(err))
	}
}
