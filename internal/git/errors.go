package git

import (
	stderrors "errors"
	"net"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
)

// ErrNothingToCommit is returned by Commit when the staged path has no changes.
var ErrNothingToCommit = stderrors.New("nothing to commit")

// ClassifyGitError translates go-git errors into ClassifiedErrors carrying op and url context.
func ClassifyGitError(err error, op string, url string) error {
	if err == nil {
		return nil
	}

	// Already classified
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	builder := errors.GitError("git " + op + " failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("url", url)

	switch {
	case isPermanentGitError(err):
		builder.UserAction()
	default:
		builder.Retryable()
	}
	return builder.Build()
}

// isPermanentGitError reports failures that retrying cannot fix: authentication,
// missing repositories or references, and malformed endpoints.
func isPermanentGitError(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case stderrors.Is(err, transport.ErrAuthenticationRequired),
		stderrors.Is(err, transport.ErrAuthorizationFailed),
		stderrors.Is(err, transport.ErrRepositoryNotFound),
		stderrors.Is(err, transport.ErrInvalidAuthMethod):
		return true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "auth") || strings.Contains(msg, "permission") || strings.Contains(msg, "denied") {
		return true
	}
	if strings.Contains(msg, "not found") || strings.Contains(msg, "no such remote") || strings.Contains(msg, "invalid reference") {
		return true
	}
	if strings.Contains(msg, "unsupported protocol") || strings.Contains(msg, "unsupported scheme") {
		return true
	}
	var nerr net.Error
	if stderrors.As(err, &nerr) {
		return !nerr.Timeout()
	}
	return false
}
