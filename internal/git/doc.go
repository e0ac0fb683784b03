// Package git wraps go-git for the two repositories a preview run touches:
//   - the source repository, cloned and checked out at the pull request head
//   - the preview repository, cloned on its publishing branch, staged, committed and pushed
//
// Clones retry transient network failures; pushes are never retried.
package git
