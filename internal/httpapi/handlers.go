package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bpl-pickems/internal/board"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/hub"
	"github.com/DoyleJ11/bpl-pickems/internal/types"
	pub "github.com/DoyleJ11/bpl-pickems/pkg/types"
)

const codeLength = 8

// GenerateCode returns a short upper-case share code.
func GenerateCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, pub.NewCatalogView(s.catalog))
}

// handleCreateBoard starts a new empty board under a fresh code
func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var code string
	for {
		c := GenerateCode()
		if s.hub.Get(r.Context(), c) == nil {
			code = c
			break
		}
		s.logger.Info("collision on code, regenerating", zap.String("board", c))
	}

	reply := make(chan *board.Board, 1)
	s.hub.Inbox() <- hub.CreateBoard{Code: code, Reply: reply}
	if <-reply == nil {
		respondError(w, http.StatusInternalServerError, "Failed to create board")
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Code string `json:"code"`
	}{Code: code})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	b := s.hub.Get(r.Context(), code)
	if b == nil {
		respondError(w, http.StatusNotFound, "Board not found")
		return
	}

	view, err := b.State(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, "Board not found")
		return
	}
	respondJSON(w, http.StatusOK, pub.NewBoardView(code, view.Version, b.Catalog(), view.View, b.ExportEnabled()))
}

type inputResponse struct {
	Board   pub.BoardView   `json:"board"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// handlePostInput applies one input. A rejected input answers 422 and leaves
// the board unchanged.
func (s *Server) handlePostInput(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	b := s.hub.Get(r.Context(), code)
	if b == nil {
		respondError(w, http.StatusNotFound, "Board not found")
		return
	}

	var req types.ClientMessage
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type == types.ClientExport {
		respondError(w, http.StatusBadRequest, "use GET /boards/{code}/export")
		return
	}
	in, err := req.Input()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := b.Dispatch(r.Context(), in)
	if err != nil {
		respondError(w, http.StatusNotFound, "Board not found")
		return
	}
	if res.Err != nil {
		respondError(w, http.StatusUnprocessableEntity, res.Err.Error())
		return
	}

	view, err := b.State(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, "Board not found")
		return
	}
	respondJSON(w, http.StatusOK, inputResponse{
		Board:   pub.NewBoardView(code, view.Version, b.Catalog(), view.View, b.ExportEnabled()),
		Payload: res.Payload,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	b := s.hub.Get(r.Context(), code)
	if b == nil {
		respondError(w, http.StatusNotFound, "Board not found")
		return
	}

	res, err := b.RequestExport(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, "Board not found")
		return
	}
	switch {
	case errors.Is(res.Err, export.ErrExportDisabled):
		respondError(w, http.StatusServiceUnavailable, res.Err.Error())
		return
	case res.Err != nil:
		respondError(w, http.StatusInternalServerError, types.ExportFailedAlert)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PNG)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.PNG)
}
