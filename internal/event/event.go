package event

import (
	"encoding/json"
	"strings"

	"github.com/google/go-github/v66/github"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
)

// Action is the lifecycle-relevant classification of a pull request action.
type Action string

const (
	ActionOpened      Action = "opened"
	ActionSynchronize Action = "synchronize"
	ActionClosed      Action = "closed"
	ActionMerged      Action = "merged"
	ActionOther       Action = "other"
)

// ParseAction maps a raw action string. "reopened" is handled like "opened".
func ParseAction(raw string) Action {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "opened", "reopened":
		return ActionOpened
	case "synchronize":
		return ActionSynchronize
	case "closed":
		return ActionClosed
	case "merged":
		return ActionMerged
	default:
		return ActionOther
	}
}

// Repository identifies the source repository of the event.
type Repository struct {
	Name     string
	FullName string
	Owner    string
}

// PullRequest carries the pull request fields the lifecycle needs.
type PullRequest struct {
	Number  int
	HeadSHA string
	Merged  bool
}

// Event is an immutable, validated pull request event.
type Event struct {
	Action      Action
	RawAction   string
	Repository  Repository
	PullRequest PullRequest
}

// ShortSHA returns the first seven characters of the head commit SHA.
func (e *Event) ShortSHA() string {
	if len(e.PullRequest.HeadSHA) > 7 {
		return e.PullRequest.HeadSHA[:7]
	}
	return e.PullRequest.HeadSHA
}

// Parse decodes and validates a JSON payload.
func Parse(payload []byte) (*Event, error) {
	var raw github.PullRequestEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.MalformedEvent("event payload is not valid JSON").WithCause(err).Build()
	}

	var missing []string
	if raw.GetAction() == "" {
		missing = append(missing, "action")
	}
	if raw.Repo == nil || raw.Repo.GetName() == "" {
		missing = append(missing, "repository")
	}
	if raw.PullRequest == nil {
		missing = append(missing, "pull_request")
	}
	if len(missing) > 0 {
		return nil, errors.MalformedEvent("event is missing required fields").
			WithContext("missing", strings.Join(missing, ",")).
			Build()
	}

	number := raw.PullRequest.GetNumber()
	if number == 0 {
		number = raw.GetNumber()
	}
	if number <= 0 {
		return nil, errors.MalformedEvent("pull_request has no number").Build()
	}

	name := raw.Repo.GetName()
	if !validRepoName(name) {
		return nil, errors.MalformedEvent("repository name is not a single path segment").
			WithContext("repository", name).
			Build()
	}

	fullName := raw.Repo.GetFullName()
	owner := raw.Repo.GetOwner().GetLogin()
	if owner == "" {
		if i := strings.Index(fullName, "/"); i > 0 {
			owner = fullName[:i]
		}
	}
	if fullName == "" && owner != "" {
		fullName = owner + "/" + name
	}

	return &Event{
		Action:    ParseAction(raw.GetAction()),
		RawAction: raw.GetAction(),
		Repository: Repository{
			Name:     name,
			FullName: fullName,
			Owner:    owner,
		},
		PullRequest: PullRequest{
			Number:  number,
			HeadSHA: raw.PullRequest.GetHead().GetSHA(),
			Merged:  raw.PullRequest.GetMerged(),
		},
	}, nil
}

// validRepoName rejects names that would escape the preview path slot.
func validRepoName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && strings.TrimSpace(name) == name
}
