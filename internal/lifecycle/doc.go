// Package lifecycle maps a pull request event to the preview side effects it requires.
//
// An Orchestrator filters the event against the monitored repositories before any
// side effect, routes it by action, and runs either the generation flow
// (clone, build, locate artifacts, publish) or the cleanup flow (remove the preview).
// Benign results are reported as an Outcome; only fatal conditions return an error.
package lifecycle
