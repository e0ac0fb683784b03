package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	"git.home.luguber.info/inful/prpreview/internal/logfields"
)

// Marker identifies the comment owned by the preview bot.
const Marker = "<!-- prpreview -->"

// Target is the pull request to notify and the preview it should point at.
type Target struct {
	Owner    string
	Repo     string
	Number   int
	URL      string
	ShortSHA string
}

// Notifier announces a published preview.
type Notifier interface {
	Notify(ctx context.Context, t Target) error
}

// NoopNotifier does nothing (default when notification is disabled).
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Target) error { return nil }

// GitHubNotifier upserts the preview comment through the GitHub REST API.
type GitHubNotifier struct {
	client *github.Client
}

// NewGitHubNotifier creates a notifier authenticated with token. apiBaseURL overrides
// the public API endpoint (GitHub Enterprise, tests).
func NewGitHubNotifier(ctx context.Context, token, apiBaseURL string) (*GitHubNotifier, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)
	if apiBaseURL != "" {
		if !strings.HasSuffix(apiBaseURL, "/") {
			apiBaseURL += "/"
		}
		u, err := url.Parse(apiBaseURL)
		if err != nil {
			return nil, errors.ConfigError("invalid notify API base URL").
				WithCause(err).
				WithContext("url", apiBaseURL).
				Build()
		}
		client.BaseURL = u
	}
	return &GitHubNotifier{client: client}, nil
}

// Body renders the comment text for t.
func Body(t Target) string {
	return fmt.Sprintf("%s\nPreview for this pull request is available at %s\n\nBuilt from %s.\n", Marker, t.URL, t.ShortSHA)
}

// Notify edits the existing marked comment, or creates one.
func (n *GitHubNotifier) Notify(ctx context.Context, t Target) error {
	body := Body(t)
	existing, err := n.findComment(ctx, t)
	if err != nil {
		return notifyError("failed to list pull request comments", err, t)
	}
	if existing != nil {
		if _, _, err := n.client.Issues.EditComment(ctx, t.Owner, t.Repo, existing.GetID(), &github.IssueComment{Body: github.String(body)}); err != nil {
			return notifyError("failed to update preview comment", err, t)
		}
		slog.Debug("Updated preview comment", logfields.PR(t.Number), logfields.URL(t.URL))
		return nil
	}
	if _, _, err := n.client.Issues.CreateComment(ctx, t.Owner, t.Repo, t.Number, &github.IssueComment{Body: github.String(body)}); err != nil {
		return notifyError("failed to create preview comment", err, t)
	}
	slog.Debug("Created preview comment", logfields.PR(t.Number), logfields.URL(t.URL))
	return nil
}

func (n *GitHubNotifier) findComment(ctx context.Context, t Target) (*github.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := n.client.Issues.ListComments(ctx, t.Owner, t.Repo, t.Number, opts)
		if err != nil {
			return nil, err
		}
		for _, c := range comments {
			if strings.Contains(c.GetBody(), Marker) {
				return c, nil
			}
		}
		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

func notifyError(msg string, err error, t Target) error {
	return errors.NewError(errors.CategoryNotify, msg).
		Warning().
		WithCause(err).
		WithContext("repository", t.Owner+"/"+t.Repo).
		WithContext("pr", t.Number).
		Build()
}
