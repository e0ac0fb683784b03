package git

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/prpreview/internal/logfields"
	"git.home.luguber.info/inful/prpreview/internal/retry"
)

// Identity is the author/committer recorded on preview commits.
type Identity struct {
	Name  string
	Email string
}

// Client performs the clone, commit and push operations of a preview run.
type Client struct {
	token    string
	policy   retry.Policy
	identity Identity
}

// NewClient creates a client authenticating HTTP(S) remotes with token.
// An empty token leaves remotes unauthenticated.
func NewClient(token string) *Client {
	return &Client{token: token, policy: retry.None(), identity: Identity{Name: "prpreview", Email: "prpreview@localhost"}}
}

// WithRetryPolicy sets the policy applied to clones (fluent helper).
func (c *Client) WithRetryPolicy(p retry.Policy) *Client { c.policy = p; return c }

// WithIdentity sets the commit identity (fluent helper).
func (c *Client) WithIdentity(name, email string) *Client {
	c.identity = Identity{Name: name, Email: email}
	return c
}

// authFor returns token auth for HTTP(S) URLs; other transports get none.
func (c *Client) authFor(url string) transport.AuthMethod {
	if c.token == "" {
		return nil
	}
	l := strings.ToLower(url)
	if !strings.HasPrefix(l, "https://") && !strings.HasPrefix(l, "http://") {
		return nil
	}
	return &githttp.BasicAuth{Username: "token", Password: c.token}
}

// clone runs fn under the retry policy, clearing dir before every attempt.
func (c *Client) clone(ctx context.Context, op, url, dir string, fn func() error) error {
	return c.policy.Do(ctx, func() error {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		return fn()
	}, func(err error) bool {
		return isPermanentGitError(err) || isMissingBranch(err)
	}, func(attempt int, err error) {
		slog.Warn("Retrying git operation",
			slog.String("operation", op),
			logfields.URL(url),
			slog.Int("attempt", attempt),
			logfields.Error(err))
	})
}

func plainClone(ctx context.Context, dir string, opts *git.CloneOptions) (*git.Repository, error) {
	return git.PlainCloneContext(ctx, dir, false, opts)
}
