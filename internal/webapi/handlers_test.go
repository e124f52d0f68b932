package webapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/view"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := quietLogger()
	h := New(NewStore(time.Hour, 7, log), HandlerOptions{
		Board:         minefield.DefaultConfig(),
		Catalog:       i18n.Load("en"),
		QuestionMarks: true,
	}, log)
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(RequestLogger(log, mux))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, view.GameView, map[string]string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("%s %s: content type %q", method, path, ct)
	}

	var v view.GameView
	var e map[string]string
	if resp.StatusCode < 300 {
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("decode view: %v (%s)", err, data)
		}
	} else if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("decode error: %v (%s)", err, data)
	}
	return resp.StatusCode, v, e
}

func TestGameFlow(t *testing.T) {
	srv := newServer(t)

	code, v, _ := call(t, srv, http.MethodPost, "/api/games", `{"rows":2,"cols":2,"bombs":3}`)
	if code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	if v.ID == "" || v.Status != "not_started" || v.Rows != 2 || v.Bombs != 3 {
		t.Fatalf("create view %+v", v)
	}
	base := "/api/games/" + v.ID

	_, v, _ = call(t, srv, http.MethodPost, base+"/reveal", `{"row":0,"col":0}`)
	if v.Status != "not_started" || v.Revealed != 0 {
		t.Fatalf("reveal before start changed the game: %+v", v)
	}

	_, v, _ = call(t, srv, http.MethodPost, base+"/start", "")
	if v.Status != "in_progress" {
		t.Fatalf("start: %+v", v)
	}

	// Three bombs on four cells: the safe first reveal wins.
	_, v, _ = call(t, srv, http.MethodPost, base+"/reveal", `{"row":1,"col":1}`)
	if v.Status != "won" || v.Message != "You win :)" || v.Revealed != 1 {
		t.Fatalf("reveal: %+v", v)
	}
	if c := v.Cells[1][1]; c.State != view.StateOpened || c.Count != 3 {
		t.Fatalf("revealed cell %+v", c)
	}

	_, got, _ := call(t, srv, http.MethodGet, base, "")
	if got.Status != "won" || got.ID != v.ID {
		t.Fatalf("get: %+v", got)
	}

	_, v, _ = call(t, srv, http.MethodPost, base+"/restart", "")
	if v.Status != "not_started" || v.Revealed != 0 {
		t.Fatalf("restart: %+v", v)
	}
}

func TestMarkAndChord(t *testing.T) {
	srv := newServer(t)
	_, v, _ := call(t, srv, http.MethodPost, "/api/games", "")
	if v.Rows != 8 || v.Cols != 8 || v.Bombs != 8 {
		t.Fatalf("default board %+v", v)
	}
	base := "/api/games/" + v.ID
	call(t, srv, http.MethodPost, base+"/start", "")

	_, v, _ = call(t, srv, http.MethodPost, base+"/mark", `{"row":0,"col":0}`)
	if v.Cells[0][0].State != view.StateFlagged || v.BombsRemaining != 7 {
		t.Fatalf("after flag: %+v remaining %d", v.Cells[0][0], v.BombsRemaining)
	}
	_, v, _ = call(t, srv, http.MethodPost, base+"/mark", `{"row":0,"col":0}`)
	if v.Cells[0][0].State != view.StateQuestion {
		t.Fatalf("after second mark: %+v", v.Cells[0][0])
	}

	code, v, _ := call(t, srv, http.MethodPost, base+"/chord", `{"row":3,"col":3}`)
	if code != http.StatusOK || v.Revealed != 0 {
		t.Fatalf("chord on hidden cell: %d %+v", code, v)
	}
}

func TestCreatePartialBodyOverridesDefaults(t *testing.T) {
	srv := newServer(t)
	cases := []struct {
		body             string
		rows, cols, bomb int
	}{
		{`{"bombs":10}`, 8, 8, 10},
		{`{"rows":12}`, 12, 8, 8},
		{`{"cols":3,"bombs":20}`, 8, 3, 20},
		{`{"rows":0,"cols":0,"bombs":0}`, 8, 8, 8},
		{`{"rows":2,"cols":2,"bombs":9}`, 2, 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			code, v, _ := call(t, srv, http.MethodPost, "/api/games", tc.body)
			if code != http.StatusCreated {
				t.Fatalf("create: %d", code)
			}
			if v.Rows != tc.rows || v.Cols != tc.cols || v.Bombs != tc.bomb {
				t.Fatalf("board %dx%d/%d, want %dx%d/%d", v.Rows, v.Cols, v.Bombs, tc.rows, tc.cols, tc.bomb)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	srv := newServer(t)
	_, v, _ := call(t, srv, http.MethodPost, "/api/games", "")
	base := "/api/games/" + v.ID

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
		substr string
	}{
		{"unknown id", http.MethodGet, "/api/games/" + uuid.NewString(), "", http.StatusNotFound, "not found"},
		{"bad id", http.MethodPost, "/api/games/nope/start", "", http.StatusBadRequest, "invalid game id"},
		{"malformed body", http.MethodPost, base + "/reveal", `{"row":`, http.StatusBadRequest, "malformed"},
		{"unknown field", http.MethodPost, base + "/reveal", `{"x":1}`, http.StatusBadRequest, "malformed"},
		{"missing body", http.MethodPost, base + "/reveal", "", http.StatusBadRequest, "malformed"},
		{"too large", http.MethodPost, "/api/games", `{"rows":500,"cols":5,"bombs":1}`, http.StatusBadRequest, "larger"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, e := call(t, srv, tc.method, tc.path, tc.body)
			if code != tc.code {
				t.Fatalf("status %d, want %d", code, tc.code)
			}
			if !strings.Contains(e["error"], tc.substr) {
				t.Fatalf("error %q, want it to mention %q", e["error"], tc.substr)
			}
		})
	}
}

func TestStorePrunesIdleSessions(t *testing.T) {
	st := NewStore(time.Minute, 0, quietLogger())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	old := st.Create(minefield.DefaultConfig())
	now = now.Add(30 * time.Second)
	kept := st.Create(minefield.DefaultConfig())
	now = now.Add(45 * time.Second)
	st.Create(minefield.DefaultConfig())

	if _, err := st.Get(old.ID); err != ErrNotFound {
		t.Fatalf("idle session survived: %v", err)
	}
	if _, err := st.Get(kept.ID); err != nil {
		t.Fatalf("recent session pruned: %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}
}

func TestStoreSeedsSurvivePruning(t *testing.T) {
	layout := func(s *Session) string {
		var out string
		s.Do(func(g *minefield.Game) {
			g.Start()
			g.Reveal(minefield.Pos{Row: 4, Col: 4})
			out = g.Layout()
		})
		return out
	}

	pruned := NewStore(time.Minute, 11, quietLogger())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pruned.now = func() time.Time { return now }
	pruned.Create(minefield.DefaultConfig())
	now = now.Add(time.Hour)
	second := pruned.Create(minefield.DefaultConfig())
	if pruned.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after pruning", pruned.Len())
	}

	fresh := NewStore(0, 11, quietLogger())
	fresh.Create(minefield.DefaultConfig())
	want := fresh.Create(minefield.DefaultConfig())

	if got, exp := layout(second), layout(want); got != exp {
		t.Fatalf("second game after pruning got layout\n%s\nwant\n%s", got, exp)
	}
}
