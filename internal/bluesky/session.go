// ABOUTME: Session is an explicitly passed, lazily authenticated Bluesky login
// ABOUTME: Acquire logs in once and reuses the tokens; concurrent callers share one login
package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrMissingCredentials is returned when no handle or password is configured
var ErrMissingCredentials = errors.New("missing BLUESKY_HANDLE or BLUESKY_PASSWORD")

// Auth holds the tokens returned by createSession
type Auth struct {
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	Handle     string `json:"handle"`
	DID        string `json:"did"`
}

// Session owns the credentials and the cached login for one account
type Session struct {
	service    string
	identifier string
	password   string
	http       *http.Client

	mu    sync.Mutex
	auth  *Auth
	login singleflight.Group
}

// NewSession creates a session handle. No network traffic happens until Acquire.
func NewSession(service, identifier, password string, client *http.Client) *Session {
	if client == nil {
		client = http.DefaultClient
	}
	return &Session{
		service:    strings.TrimRight(service, "/"),
		identifier: identifier,
		password:   password,
		http:       client,
	}
}

// Service returns the PDS base URL
func (s *Session) Service() string {
	return s.service
}

// Acquire returns the cached login, creating it on first use
func (s *Session) Acquire(ctx context.Context) (*Auth, error) {
	s.mu.Lock()
	auth := s.auth
	s.mu.Unlock()
	if auth != nil {
		return auth, nil
	}

	if s.identifier == "" || s.password == "" {
		return nil, ErrMissingCredentials
	}

	// The shared login outlives any one caller; each caller stops waiting
	// when its own ctx ends.
	loginCtx := context.WithoutCancel(ctx)
	ch := s.login.DoChan("login", func() (interface{}, error) {
		s.mu.Lock()
		if s.auth != nil {
			auth := s.auth
			s.mu.Unlock()
			return auth, nil
		}
		s.mu.Unlock()

		auth, err := s.createSession(loginCtx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.auth = auth
		s.mu.Unlock()
		return auth, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Auth), nil
	}
}

// Invalidate drops the cached login so the next Acquire logs in again
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = nil
}

// LoggedIn reports whether a login is cached
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth != nil
}

func (s *Session) createSession(ctx context.Context) (*Auth, error) {
	body, err := json.Marshal(map[string]string{
		"identifier": s.identifier,
		"password":   s.password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.service+"/xrpc/com.atproto.server.createSession", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login: %w", readAPIError(resp))
	}

	var auth Auth
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if auth.AccessJwt == "" || auth.DID == "" {
		return nil, errors.New("login: response missing accessJwt or did")
	}
	return &auth, nil
}
