// Package artifacts locates the generated HTML output of a source repository build.
//
// Candidate directories are consulted in order; the first one containing at least
// one HTML file wins and later candidates are never inspected.
package artifacts
