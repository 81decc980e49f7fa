package cosense

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeCosense serves the REST endpoints the patcher needs and a socket.io endpoint
// that acknowledges commits.
type fakeCosense struct {
	t *testing.T

	mu            sync.Mutex
	page          string
	rejectCommits int
	pageGets      int
	methods       []string
	commits       []map[string]json.RawMessage
	noSession     bool
}

func (f *fakeCosense) handler() http.Handler {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if f.noSession {
			_, _ = w.Write([]byte(`{"isGuest":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"5ef2bdebb60650001e1280f0","name":"tester"}`))
	})
	mux.HandleFunc("/api/projects/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"proj-id","name":"proj"}`))
	})
	mux.HandleFunc("/api/pages/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.pageGets++
		body := f.page
		f.mu.Unlock()
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/socket.io/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			f.t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		f.serveSocket(conn)
	})
	return mux
}

func (f *fakeCosense) serveSocket(conn *websocket.Conn) {
	send := func(s string) bool {
		return conn.WriteMessage(websocket.TextMessage, []byte(s)) == nil
	}
	if !send(`0{"sid":"s1","upgrades":[],"pingInterval":25000,"pingTimeout":20000}`) {
		return
	}
	if _, msg, err := conn.ReadMessage(); err != nil || string(msg) != "40" {
		f.t.Errorf("connect packet = %q, %v", msg, err)
		return
	}
	if !send(`40{"sid":"n1"}`) || !send("2") {
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		packet := string(msg)
		if packet == "3" || packet == "41" {
			continue
		}
		if !strings.HasPrefix(packet, "42") {
			f.t.Errorf("unexpected packet %q", packet)
			return
		}
		body := packet[2:]
		idx := strings.IndexByte(body, '[')
		id, _ := strconv.Atoi(body[:idx])

		var args []json.RawMessage
		if err := json.Unmarshal([]byte(body[idx:]), &args); err != nil || len(args) != 2 {
			f.t.Errorf("bad request %q", packet)
			return
		}
		var req struct {
			Method string                     `json:"method"`
			Data   map[string]json.RawMessage `json:"data"`
		}
		_ = json.Unmarshal(args[1], &req)

		f.mu.Lock()
		f.methods = append(f.methods, req.Method)
		reply := `[{"data":{"success":true}}]`
		if req.Method == "commit" {
			f.commits = append(f.commits, req.Data)
			if f.rejectCommits > 0 {
				f.rejectCommits--
				reply = `[{"error":{"name":"NotFastForwardError","message":"parentId is not the latest commit"}}]`
			} else {
				reply = `[{"data":{"commitId":"c-next"}}]`
			}
		}
		f.mu.Unlock()

		if !send("43" + strconv.Itoa(id) + reply) {
			return
		}
	}
}

func (f *fakeCosense) snapshot() (methods []string, commits []map[string]json.RawMessage, gets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.methods...), append([]map[string]json.RawMessage(nil), f.commits...), f.pageGets
}

func newTestPatcher(t *testing.T, f *fakeCosense) *Patcher {
	t.Helper()
	f.t = t
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/socket.io/?EIO=4&transport=websocket"
	p := NewPatcher("", NewRESTWithBaseURL(srv.URL, srv.Client()), WithSocketURL(wsURL))
	p.now = func() time.Time { return time.Unix(0x5f000000, 0) }
	return p
}

const existingPage = `{"id":"page-id","title":"T","persistent":true,"commitId":"c-parent",
	"lines":[{"id":"l0","text":"T"},{"id":"l1","text":"a"}]}`

func TestPatchCommitsChanges(t *testing.T) {
	f := &fakeCosense{page: existingPage}
	p := newTestPatcher(t, f)

	res, err := p.Patch(context.Background(), "proj", "T", func(cur []string) []string {
		return append(cur, "b")
	}, Options{SID: "sid"})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if res.CommitID != "c-next" || res.PageID != "page-id" {
		t.Errorf("result = %+v", res)
	}

	methods, commits, _ := f.snapshot()
	if strings.Join(methods, ",") != "room:join,commit" {
		t.Errorf("methods = %v", methods)
	}
	commit := commits[0]
	if string(commit["parentId"]) != `"c-parent"` || string(commit["userId"]) != `"5ef2bdebb60650001e1280f0"` {
		t.Errorf("commit = %v", commit)
	}
	var changes []map[string]json.RawMessage
	if err := json.Unmarshal(commit["changes"], &changes); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 2 {
		t.Fatalf("changes = %s", commit["changes"])
	}
	if string(changes[0]["_insert"]) != `"_end"` {
		t.Errorf("first change = %s", commit["changes"])
	}
	if !strings.Contains(string(changes[0]["lines"]), `"text":"b"`) {
		t.Errorf("inserted line = %s", changes[0]["lines"])
	}
	if _, ok := changes[1]["descriptions"]; !ok {
		t.Errorf("expected descriptions change, got %s", commit["changes"])
	}
}

func TestPatchRetriesLostRace(t *testing.T) {
	f := &fakeCosense{page: existingPage, rejectCommits: 2}
	p := newTestPatcher(t, f)

	calls := 0
	_, err := p.Patch(context.Background(), "proj", "T", func(cur []string) []string {
		calls++
		return append(cur, "b")
	}, Options{})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	_, commits, gets := f.snapshot()
	if calls != 3 || gets != 3 || len(commits) != 3 {
		t.Errorf("calls=%d gets=%d commits=%d, want 3 each", calls, gets, len(commits))
	}
}

func TestPatchGivesUpAfterMaxAttempts(t *testing.T) {
	f := &fakeCosense{page: existingPage, rejectCommits: 10}
	p := newTestPatcher(t, f)
	WithMaxAttempts(2)(p)

	_, err := p.Patch(context.Background(), "proj", "T", func(cur []string) []string {
		return append(cur, "b")
	}, Options{})
	var perr PushError
	if !errors.As(err, &perr) || !strings.Contains(string(perr), "NotFastForwardError") {
		t.Fatalf("err = %v, want NotFastForwardError", err)
	}
	if _, commits, _ := f.snapshot(); len(commits) != 2 {
		t.Errorf("commits = %d, want 2", len(commits))
	}
}

func TestPatchNoChangesSkipsCommit(t *testing.T) {
	f := &fakeCosense{page: existingPage}
	p := newTestPatcher(t, f)

	res, err := p.Patch(context.Background(), "proj", "T", func(cur []string) []string { return cur }, Options{})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if _, commits, _ := f.snapshot(); res.CommitID != "c-parent" || len(commits) != 0 {
		t.Errorf("res=%+v commits=%d", res, len(commits))
	}
}

func TestPatchWithoutSession(t *testing.T) {
	f := &fakeCosense{page: existingPage, noSession: true}
	p := newTestPatcher(t, f)

	_, err := p.Patch(context.Background(), "proj", "T", func(cur []string) []string { return cur }, Options{})
	var perr PushError
	if !errors.As(err, &perr) || !strings.Contains(string(perr), "401") {
		t.Fatalf("err = %v, want PushError with 401", err)
	}
}

func TestDeletePage(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		f := &fakeCosense{page: existingPage}
		p := newTestPatcher(t, f)

		if err := p.DeletePage(context.Background(), "proj", "T", Options{}); err != nil {
			t.Fatalf("DeletePage: %v", err)
		}
		_, commits, _ := f.snapshot()
		if len(commits) != 1 || !strings.Contains(string(commits[0]["changes"]), `"deleted":true`) {
			t.Errorf("commits = %v", commits)
		}
	})

	t.Run("missing", func(t *testing.T) {
		f := &fakeCosense{page: `{"id":"page-id","title":"T","persistent":false,"lines":[{"id":"l0","text":"T"}]}`}
		p := newTestPatcher(t, f)

		err := p.DeletePage(context.Background(), "proj", "T", Options{})
		var perr PushError
		if !errors.As(err, &perr) || !strings.HasPrefix(string(perr), "NotFoundError") {
			t.Fatalf("err = %v, want NotFoundError", err)
		}
		if _, commits, _ := f.snapshot(); len(commits) != 0 {
			t.Errorf("unexpected commit")
		}
	})
}

func TestDialSocketUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/socket.io/?EIO=4&transport=websocket"
	_, err := DialSocket(context.Background(), wsURL, Options{})
	if err != PushError("Unauthorized: 401") {
		t.Fatalf("err = %v", err)
	}
}
