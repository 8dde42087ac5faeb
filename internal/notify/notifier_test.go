package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// captureServer starts an httptest.Server that records incoming requests.
// It returns the server and a function to collect all captured requests.
func captureServer(t *testing.T) (*httptest.Server, func() []capturedReq) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedReq{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedReq {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedReq, len(reqs))
		copy(out, reqs)
		return out
	}
}

type capturedReq struct {
	method      string
	body        string
	contentType string
	title       string
}

// waitForRequests polls until count requests are captured or the deadline is reached.
func waitForRequests(t *testing.T, collect func() []capturedReq, count int) []capturedReq {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := collect(); len(got) >= count {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d request(s)", count)
	return nil
}

func attached(url, title string, onComplete, onError, onResult bool) *bus.Bus {
	b := bus.New()
	New(url, title, onComplete, onError, onResult).Attach(b)
	return b
}

func completeSnapshot() attempt.Snapshot {
	return attempt.Snapshot{
		ContextID:         "333",
		ContextName:       "3x3",
		IsContextComplete: true,
		PriorAttempts: []attempt.PriorAttempt{
			{DisplayText: "7.53"},
			{DisplayText: "DNF", IsDNF: true},
		},
	}
}

func TestNotifier_OnComplete(t *testing.T) {
	srv, collect := captureServer(t)
	b := attached(srv.URL, "myapp", true, false, false)

	b.Publish(attempt.EventContextRefreshed, attempt.Snapshot{ContextID: "333", ContextName: "3x3"})
	b.Publish(attempt.EventContextRefreshed, completeSnapshot())
	b.Publish(attempt.EventContextRefreshed, completeSnapshot())

	reqs := waitForRequests(t, collect, 1)
	time.Sleep(50 * time.Millisecond)
	reqs = collect()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	r := reqs[0]
	if r.method != http.MethodPost {
		t.Errorf("method = %q, want POST", r.method)
	}
	if want := "3x3 complete: 7.53, DNF"; r.body != want {
		t.Errorf("body = %q, want %q", r.body, want)
	}
	if r.contentType != "text/plain" {
		t.Errorf("content-type = %q, want text/plain", r.contentType)
	}
	if r.title != "myapp" {
		t.Errorf("title = %q, want myapp", r.title)
	}
}

func TestNotifier_OnComplete_Disabled(t *testing.T) {
	srv, collect := captureServer(t)
	b := attached(srv.URL, "", false, false, false)

	b.Publish(attempt.EventContextRefreshed, completeSnapshot())

	time.Sleep(100 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestNotifier_OnError(t *testing.T) {
	srv, collect := captureServer(t)
	b := attached(srv.URL, "", false, true, false)

	b.Publish(attempt.EventSyncFailed, attempt.SyncFailure{Message: "database is locked"})

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].body != "Sync failed: database is locked" {
		t.Errorf("body = %q", reqs[0].body)
	}
}

func TestNotifier_OnError_Disabled(t *testing.T) {
	srv, collect := captureServer(t)
	b := attached(srv.URL, "", true, false, false)

	b.Publish(attempt.EventSyncFailed, attempt.SyncFailure{Message: "x"})

	time.Sleep(100 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestNotifier_OnResult(t *testing.T) {
	tests := []struct {
		res  attempt.Result
		want string
	}{
		{attempt.Result{ContextID: "333", ElapsedCentiseconds: 753}, "333: 7.53"},
		{attempt.Result{ContextID: "333", ElapsedCentiseconds: 753, IsPlusTwo: true}, "333: 9.53+"},
		{attempt.Result{ContextID: "333", ElapsedCentiseconds: 1, IsDNF: true}, "333: DNF"},
	}
	for _, tt := range tests {
		srv, collect := captureServer(t)
		b := attached(srv.URL, "", false, false, true)
		b.Publish(attempt.EventCompleted, tt.res)
		reqs := waitForRequests(t, collect, 1)
		if reqs[0].body != tt.want {
			t.Errorf("body = %q, want %q", reqs[0].body, tt.want)
		}
	}
}

func TestNotifier_UsesContextName(t *testing.T) {
	srv, collect := captureServer(t)
	b := attached(srv.URL, "", false, false, true)

	b.Publish(attempt.EventContextRefreshed, attempt.Snapshot{ContextID: "333", ContextName: "3x3"})
	b.Publish(attempt.EventCompleted, attempt.Result{ContextID: "333", ElapsedCentiseconds: 1000})

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].body != "3x3: 10.00" {
		t.Errorf("body = %q", reqs[0].body)
	}
}

func TestNotifier_FallbackTitle(t *testing.T) {
	srv, collect := captureServer(t)
	b := attached(srv.URL, "", false, true, false)

	b.Publish(attempt.EventSyncFailed, attempt.SyncFailure{Message: "x"})

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].title != "cubetimer" {
		t.Errorf("title = %q, want cubetimer", reqs[0].title)
	}
}

func TestNotifier_PostFailureSilent(t *testing.T) {
	n := New("http://127.0.0.1:1", "", true, true, true)
	// Must not panic or block.
	n.post("unreachable")
}
