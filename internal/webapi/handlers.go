// Package webapi serves games over HTTP as JSON for the browser client.
package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/view"
)

// MaxDim bounds the rows and columns a client may ask for.
const MaxDim = 64

const maxBody = 1 << 12

type Handler struct {
	store         *Store
	catalog       *i18n.Catalog
	board         minefield.Config
	questionMarks bool
	log           logrus.FieldLogger
}

type HandlerOptions struct {
	Board         minefield.Config
	Catalog       *i18n.Catalog
	QuestionMarks bool
}

func New(store *Store, opts HandlerOptions, log logrus.FieldLogger) *Handler {
	if opts.Catalog == nil {
		opts.Catalog = i18n.Load("en")
	}
	return &Handler{
		store:         store,
		catalog:       opts.Catalog,
		board:         opts.Board.Normalize(),
		questionMarks: opts.QuestionMarks,
		log:           log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/games", h.create)
	mux.HandleFunc("GET /api/games/{id}", h.session(h.get))
	mux.HandleFunc("POST /api/games/{id}/start", h.session(h.start))
	mux.HandleFunc("POST /api/games/{id}/reveal", h.session(h.reveal))
	mux.HandleFunc("POST /api/games/{id}/mark", h.session(h.mark))
	mux.HandleFunc("POST /api/games/{id}/chord", h.session(h.chord))
	mux.HandleFunc("POST /api/games/{id}/restart", h.session(h.restart))
}

type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

type sessionFunc func(w http.ResponseWriter, r *http.Request, s *Session) error

// session resolves {id} and renders any error the wrapped handler returns.
func (h *Handler) session(fn sessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			h.fail(w, r, badRequest("invalid game id"))
			return
		}
		s, err := h.store.Get(id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if err := fn(w, r, s); err != nil {
			h.fail(w, r, err)
		}
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	cfg := h.board
	var req minefield.Config
	if err := decodeOptional(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Rows > MaxDim || req.Cols > MaxDim {
		h.fail(w, r, badRequest("board larger than %dx%d", MaxDim, MaxDim))
		return
	}
	s := h.store.Create(cfg.Override(req).Normalize())
	h.respond(w, http.StatusCreated, s)
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request, s *Session) error {
	h.respond(w, http.StatusOK, s)
	return nil
}

func (h *Handler) start(w http.ResponseWriter, _ *http.Request, s *Session) error {
	s.Do(func(g *minefield.Game) { g.Start() })
	h.respond(w, http.StatusOK, s)
	return nil
}

func (h *Handler) restart(w http.ResponseWriter, _ *http.Request, s *Session) error {
	s.Do(func(g *minefield.Game) { g.Restart() })
	h.respond(w, http.StatusOK, s)
	return nil
}

func (h *Handler) reveal(w http.ResponseWriter, r *http.Request, s *Session) error {
	return h.cellAction(w, r, s, "reveal", func(g *minefield.Game, p minefield.Pos) {
		g.Reveal(p)
	})
}

func (h *Handler) chord(w http.ResponseWriter, r *http.Request, s *Session) error {
	return h.cellAction(w, r, s, "chord", func(g *minefield.Game, p minefield.Pos) {
		g.Chord(p)
	})
}

func (h *Handler) mark(w http.ResponseWriter, r *http.Request, s *Session) error {
	return h.cellAction(w, r, s, "mark", func(g *minefield.Game, p minefield.Pos) {
		g.CycleMark(p, h.questionMarks)
	})
}

func (h *Handler) cellAction(w http.ResponseWriter, r *http.Request, s *Session, action string, fn func(*minefield.Game, minefield.Pos)) error {
	var p minefield.Pos
	if err := decode(r, &p); err != nil {
		return err
	}
	s.Do(func(g *minefield.Game) {
		before := g.Status()
		fn(g, p)
		if status := g.Status(); status != before {
			h.log.WithFields(logrus.Fields{
				"id":     s.ID,
				"action": action,
				"pos":    p,
				"status": status,
			}).Info("game status changed")
		}
	})
	h.respond(w, http.StatusOK, s)
	return nil
}

func (h *Handler) respond(w http.ResponseWriter, code int, s *Session) {
	var v view.GameView
	s.Do(func(g *minefield.Game) { v = view.Build(g, h.catalog) })
	v.ID = s.ID.String()
	writeJSON(w, code, v)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	var he *httpError
	switch {
	case errors.As(err, &he):
		code = he.status
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	}
	h.log.WithError(err).WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": code,
	}).Warn("request failed")
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, v any) error {
	return decodeBody(r, v, false)
}

// decodeOptional accepts an empty body and leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	return decodeBody(r, v, true)
}

func decodeBody(r *http.Request, v any, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return badRequest("missing body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("malformed body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Debug("writing response")
	}
}
