// ABOUTME: Bluesky posting client over AT Protocol XRPC
// ABOUTME: Posts single chunks and reply-chains, retrying transient failures
package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/harper/bookthread/internal/models"
	"github.com/harper/bookthread/internal/util"
)

// ErrEmptyThread is returned when asked to post a thread with no chunks
var ErrEmptyThread = errors.New("cannot post empty thread")

const postCollection = "app.bsky.feed.post"

// ReplyRef points a post at its thread root and direct parent
type ReplyRef struct {
	Root   models.PostRef `json:"root"`
	Parent models.PostRef `json:"parent"`
}

// Options tune retry behaviour
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	Logger     *slog.Logger
	// Now stamps createdAt; defaults to time.Now
	Now func() time.Time
}

// Client submits posts on behalf of a Session
type Client struct {
	session    *Session
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
	now        func() time.Time
	tids       *tidClock
}

// NewClient creates a posting client bound to session
func NewClient(session *Session, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Client{
		session:    session,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		logger:     opts.Logger,
		now:        opts.Now,
		tids:       newTIDClock(),
	}
}

type postRecord struct {
	Type      string    `json:"$type"`
	Text      string    `json:"text"`
	CreatedAt string    `json:"createdAt"`
	Reply     *ReplyRef `json:"reply,omitempty"`
}

type createRecordRequest struct {
	Repo       string     `json:"repo"`
	Collection string     `json:"collection"`
	Rkey       string     `json:"rkey"`
	Record     postRecord `json:"record"`
}

// CreatePost publishes text, optionally as a reply. The record key is
// fixed before the first attempt, so a retry after a lost response finds
// the post the server already stored instead of creating a second one.
func (c *Client) CreatePost(ctx context.Context, text string, reply *ReplyRef) (models.PostRef, error) {
	now := c.now()
	rkey := c.tids.Next(now)
	record := postRecord{
		Type:      postCollection,
		Text:      text,
		CreatedAt: now.UTC().Format(time.RFC3339Nano),
		Reply:     reply,
	}

	var ref models.PostRef
	relogged := false
	sent := false

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(attempt int) error {
		if sent {
			found, ok, err := c.lookup(ctx, rkey)
			if err != nil {
				return c.classify(ctx, attempt, err)
			}
			if ok {
				c.logger.Info("post already stored by an earlier attempt", "uri", found.URI)
				ref = found
				return nil
			}
		}

		var err error
		sent = true
		ref, err = c.submit(ctx, rkey, record)

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Expired() && !relogged {
			c.logger.Info("session expired, logging in again")
			c.session.Invalidate()
			relogged = true
			ref, err = c.submit(ctx, rkey, record)
		}

		return c.classify(ctx, attempt, err)
	})
	if err != nil {
		return models.PostRef{}, err
	}
	return ref, nil
}

// classify marks errors that a retry cannot fix as permanent
func (c *Client) classify(ctx context.Context, attempt int, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMissingCredentials) || ctx.Err() != nil {
		return util.Permanent(err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && !apiErr.Retryable() {
		return util.Permanent(err)
	}

	c.logger.Warn("post failed", "attempt", attempt+1, "error", err)
	return err
}

func (c *Client) submit(ctx context.Context, rkey string, record postRecord) (models.PostRef, error) {
	if !c.session.LoggedIn() {
		c.logger.Debug("logging in", "service", c.session.Service())
	}
	auth, err := c.session.Acquire(ctx)
	if err != nil {
		return models.PostRef{}, err
	}
	return c.createRecord(ctx, auth, createRecordRequest{
		Repo:       auth.DID,
		Collection: postCollection,
		Rkey:       rkey,
		Record:     record,
	})
}

// lookup fetches the post stored under rkey, if any. getRecord is public,
// so no access token is sent.
func (c *Client) lookup(ctx context.Context, rkey string) (models.PostRef, bool, error) {
	auth, err := c.session.Acquire(ctx)
	if err != nil {
		return models.PostRef{}, false, err
	}

	q := url.Values{}
	q.Set("repo", auth.DID)
	q.Set("collection", postCollection)
	q.Set("rkey", rkey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.session.Service()+"/xrpc/com.atproto.repo.getRecord?"+q.Encode(), nil)
	if err != nil {
		return models.PostRef{}, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.session.http.Do(req)
	if err != nil {
		return models.PostRef{}, false, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := readAPIError(resp)
		if apiErr.NotFound() {
			return models.PostRef{}, false, nil
		}
		return models.PostRef{}, false, apiErr
	}

	var ref models.PostRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return models.PostRef{}, false, fmt.Errorf("decode response: %w", err)
	}
	return ref, true, nil
}

// PostThread posts chunks as a reply-chain. The first chunk is the root;
// every later chunk replies to the previous one under that root. The
// refs of every created post are returned in order, including those
// created before a failure.
func (c *Client) PostThread(ctx context.Context, chunks []string) ([]models.PostRef, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyThread
	}

	refs := make([]models.PostRef, 0, len(chunks))

	root, err := c.CreatePost(ctx, chunks[0], nil)
	if err != nil {
		return refs, fmt.Errorf("post root: %w", err)
	}
	refs = append(refs, root)
	c.logger.Debug("posted thread root", "uri", root.URI)

	parent := root
	for i := 1; i < len(chunks); i++ {
		reply, err := c.CreatePost(ctx, chunks[i], &ReplyRef{Root: root, Parent: parent})
		if err != nil {
			return refs, fmt.Errorf("post reply %d/%d: %w", i+1, len(chunks), err)
		}
		refs = append(refs, reply)
		parent = reply
		c.logger.Debug("posted reply", "uri", reply.URI, "index", i)
	}

	return refs, nil
}

func (c *Client) createRecord(ctx context.Context, auth *Auth, payload createRecordRequest) (models.PostRef, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return models.PostRef{}, fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.session.Service()+"/xrpc/com.atproto.repo.createRecord", bytes.NewReader(body))
	if err != nil {
		return models.PostRef{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+auth.AccessJwt)

	resp, err := c.session.http.Do(req)
	if err != nil {
		return models.PostRef{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PostRef{}, readAPIError(resp)
	}

	var ref models.PostRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return models.PostRef{}, fmt.Errorf("decode response: %w", err)
	}
	return ref, nil
}
