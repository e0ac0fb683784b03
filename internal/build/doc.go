// Package build discovers and runs the build step of a checked-out source repository.
//
// Source repositories use heterogeneous tooling, so Discovery walks a fixed,
// ordered list of strategies and stops at the first one that succeeds:
//
//   - ScriptStrategy runs a shell script at a known relative path, but only when
//     that file exists. Execute permission is granted at attempt time.
//   - CommandStrategy runs a tooling command (npm, make, mkdocs, hugo) and is
//     always attempted.
//
// A failing strategy is expected and never fatal. When every candidate fails
// the build is still considered best-effort: pre-built output in the tree may
// satisfy the artifact locator later on.
package build
