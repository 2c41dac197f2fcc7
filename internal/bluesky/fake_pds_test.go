// ABOUTME: In-memory fake of the Bluesky PDS XRPC endpoints for tests
// ABOUTME: Issues tokens, records posts, and injects failures on demand
package bluesky

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fakePDS struct {
	srv *httptest.Server

	mu      sync.Mutex
	logins  int
	calls   int
	token   string
	records []createRecordRequest
	byKey   map[string]int
	// statuses is consumed one per createRecord call; 0 means succeed
	statuses []int
	// lostReplies is consumed one per stored record: the record is kept
	// but the reply carries this status instead, as when a gateway drops it
	lostReplies []int

	loginStarted chan struct{}
	loginGate    chan struct{}
}

func newFakePDS(t *testing.T) *fakePDS {
	t.Helper()
	pds := &fakePDS{byKey: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/xrpc/com.atproto.server.createSession", pds.createSession)
	mux.HandleFunc("/xrpc/com.atproto.repo.createRecord", pds.createRecord)
	mux.HandleFunc("/xrpc/com.atproto.repo.getRecord", pds.getRecord)
	pds.srv = httptest.NewServer(mux)
	t.Cleanup(pds.srv.Close)
	return pds
}

func (p *fakePDS) session(identifier, password string) *Session {
	return NewSession(p.srv.URL+"/", identifier, password, p.srv.Client())
}

// loseReplies stores the next records but answers with statuses
func (p *fakePDS) loseReplies(statuses ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lostReplies = statuses
}

// holdLogins makes createSession block until the returned func is called.
// started is closed when the first login arrives.
func (p *fakePDS) holdLogins() (started <-chan struct{}, release func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	start, gate := make(chan struct{}), make(chan struct{})
	p.loginStarted, p.loginGate = start, gate
	return start, func() { close(gate) }
}

func (p *fakePDS) failWith(statuses ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = statuses
}

// revoke invalidates the issued token so the next post sees ExpiredToken
func (p *fakePDS) revoke() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = "revoked"
}

func (p *fakePDS) snapshot() (logins, calls int, records []createRecordRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logins, p.calls, append([]createRecordRequest(nil), p.records...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (p *fakePDS) createSession(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	started, gate := p.loginStarted, p.loginGate
	if started != nil {
		close(started)
		p.loginStarted = nil
	}
	p.mu.Unlock()
	if gate != nil {
		<-gate
	}

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "InvalidRequest", "message": err.Error()})
		return
	}
	if body["identifier"] != "reader.bsky.social" || body["password"] != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "AuthenticationRequired", "message": "Invalid identifier or password"})
		return
	}

	p.mu.Lock()
	p.logins++
	p.token = fmt.Sprintf("token-%d", p.logins)
	token := p.token
	p.mu.Unlock()

	writeJSON(w, http.StatusOK, Auth{
		AccessJwt:  token,
		RefreshJwt: "refresh",
		Handle:     "reader.bsky.social",
		DID:        "did:plc:reader",
	})
}

func (p *fakePDS) createRecord(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if r.Header.Get("Authorization") != "Bearer "+p.token {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ExpiredToken", "message": "Token has expired"})
		return
	}

	if len(p.statuses) > 0 {
		status := p.statuses[0]
		p.statuses = p.statuses[1:]
		if status != 0 {
			writeJSON(w, status, map[string]string{"error": "Injected", "message": http.StatusText(status)})
			return
		}
	}

	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "InvalidRequest", "message": err.Error()})
		return
	}
	if _, exists := p.byKey[req.Rkey]; req.Rkey != "" && exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "InvalidRequest", "message": "Record already exists"})
		return
	}
	p.records = append(p.records, req)
	n := len(p.records)
	if req.Rkey != "" {
		p.byKey[req.Rkey] = n - 1
	}

	if len(p.lostReplies) > 0 {
		status := p.lostReplies[0]
		p.lostReplies = p.lostReplies[1:]
		writeJSON(w, status, map[string]string{"error": "UpstreamFailure", "message": http.StatusText(status)})
		return
	}

	writeJSON(w, http.StatusOK, recordRef(req.Rkey, n))
}

func recordRef(rkey string, n int) map[string]string {
	return map[string]string{
		"uri": fmt.Sprintf("at://did:plc:reader/app.bsky.feed.post/%s", rkey),
		"cid": fmt.Sprintf("cid%d", n),
	}
}

func (p *fakePDS) getRecord(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := r.URL.Query()
	i, ok := p.byKey[q.Get("rkey")]
	if !ok || q.Get("repo") != "did:plc:reader" || q.Get("collection") != "app.bsky.feed.post" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "RecordNotFound", "message": "Could not locate record"})
		return
	}
	writeJSON(w, http.StatusOK, recordRef(p.records[i].Rkey, i+1))
}
