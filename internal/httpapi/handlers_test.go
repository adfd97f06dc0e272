package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/bpl-pickems/internal/board"
	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/hub"
	"github.com/DoyleJ11/bpl-pickems/internal/types"
	pub "github.com/DoyleJ11/bpl-pickems/pkg/types"
)

func newTestServer(t *testing.T, exporter board.Exporter) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := catalog.Default()
	h := hub.NewHub(ctx, board.Options{Catalog: c, Exporter: exporter})
	srv := httptest.NewServer(New(h, c, Options{AllowedOrigins: []string{"*"}}))
	t.Cleanup(srv.Close)
	return srv
}

func createBoard(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/boards", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Code, codeLength)
	return body.Code
}

func postInput(t *testing.T, srv *httptest.Server, code, body string) (*http.Response, inputResponse) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/boards/"+code+"/inputs", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out inputResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode()
	assert.Len(t, code, codeLength)
	assert.Equal(t, strings.ToUpper(code), code)
	assert.NotEqual(t, code, GenerateCode())
}

func TestHealthzAndCatalog(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()
	var cv pub.CatalogView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cv))
	assert.Equal(t, 4, cv.Cutoff)
	assert.Len(t, cv.Teams, 7)
}

func TestBoardLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	code := createBoard(t, srv)

	resp, err := http.Get(srv.URL + "/boards/" + code)
	require.NoError(t, err)
	var bv pub.BoardView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bv))
	resp.Body.Close()
	assert.Equal(t, code, bv.Code)
	assert.Equal(t, 7, bv.PoolCount)
	assert.False(t, bv.ExportEnabled)

	resp, out := postInput(t, srv, code, `{"type":"ClickPoolTeam","team_id":"silkhat"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "choose-rank", out.Board.Hint)

	resp, out = postInput(t, srv, code, `{"type":"ClickRank","index":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "silkhat", out.Board.Slots[2].Team.ID)
	assert.Nil(t, out.Board.Selection)
	assert.Equal(t, 2, out.Board.Version)

	// drag the slot back to the pool
	resp, out = postInput(t, srv, code, `{"type":"DragStart","source":{"type":"rank","index":2}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.Payload)

	resp, out = postInput(t, srv, code, `{"type":"DropOnPool","payload":`+string(out.Payload)+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, out.Board.PoolCount)
}

func TestPostInputErrors(t *testing.T) {
	srv := newTestServer(t, nil)
	code := createBoard(t, srv)

	resp, _ := postInput(t, srv, code, `{nope`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postInput(t, srv, code, `{"type":"ClickRank"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postInput(t, srv, "MISSING1", `{"type":"ClickPoolArea"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = postInput(t, srv, code, `{"type":"ClickRank","index":9}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = postInput(t, srv, code, `{"type":"DropOnRank","index":0,"payload":"garbage"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = postInput(t, srv, code, `{"type":"SelectCategory","category":"pop'n music"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestExportEndpoint(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		srv := newTestServer(t, nil)
		code := createBoard(t, srv)

		resp, err := http.Get(srv.URL + "/boards/" + code + "/export")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("enabled", func(t *testing.T) {
		r, err := export.NewRenderer(catalog.Default(), export.Options{Scale: 1})
		require.NoError(t, err)
		srv := newTestServer(t, r)
		code := createBoard(t, srv)
		postInput(t, srv, code, `{"type":"SelectCategory","category":"sound voltex"}`)

		resp, err := http.Get(srv.URL + "/boards/" + code + "/export")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "BPL_S5_PickEms_SOUND_VOLTEX.png")

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
	})
}

func readServerMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(rctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func writeClientMessage(t *testing.T, ctx context.Context, conn *websocket.Conn, raw string) {
	t.Helper()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(raw)))
}

func TestWebsocketRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	code := createBoard(t, srv)
	ctx := context.Background()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?code=" + code
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	first := readServerMessage(t, ctx, conn)
	require.Equal(t, types.MsgStateSnapshot, first.Type)
	require.NotNil(t, first.Board)
	assert.Equal(t, 7, first.Board.PoolCount)

	writeClientMessage(t, ctx, conn, `{"type":"DragStart","source":{"type":"pool","id":"tradz"}}`)
	// the snapshot and the payload reply are written by different goroutines
	var drag types.ServerMessage
	for i := 0; i < 2; i++ {
		msg := readServerMessage(t, ctx, conn)
		if msg.Type == types.MsgDragPayload {
			drag = msg
			continue
		}
		require.Equal(t, types.MsgStateSnapshot, msg.Type)
		assert.Equal(t, "pool", msg.Board.Selection.Type)
	}
	require.NotEmpty(t, drag.Payload)

	writeClientMessage(t, ctx, conn, `{"type":"DropOnRank","index":0,"payload":`+string(drag.Payload)+`}`)
	placed := readServerMessage(t, ctx, conn)
	require.Equal(t, types.MsgStateSnapshot, placed.Type)
	assert.Equal(t, "tradz", placed.Board.Slots[0].Team.ID)
	assert.Equal(t, 6, placed.Board.PoolCount)

	writeClientMessage(t, ctx, conn, `{"type":"ClickRank","index":42}`)
	rejected := readServerMessage(t, ctx, conn)
	assert.Equal(t, types.MsgError, rejected.Type)

	writeClientMessage(t, ctx, conn, `{"type":"Export"}`)
	disabled := readServerMessage(t, ctx, conn)
	assert.Equal(t, types.MsgError, disabled.Type)
	assert.Equal(t, export.ErrExportDisabled.Error(), disabled.Error)
}

func TestWebsocketUnknownBoard(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/ws?code=NOPE")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
