// Package publish writes and removes pull request previews in a checkout of the
// preview repository.
//
// Both operations treat "nothing to commit" as success without a push, so re-running
// on identical output, or removing an already removed preview, is idempotent.
package publish
