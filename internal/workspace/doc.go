// Package workspace manages the per-invocation scratch directories that hold the
// source and preview working trees. Every directory is uniquely named and owned by
// one Manager, which removes them all on Cleanup.
package workspace
