// Package event turns an inbound pull request payload into a typed, validated Event.
//
// Payloads use the GitHub pull_request webhook shape and are decoded with go-github.
// An event missing its action, repository or pull request is rejected with a
// MalformedEvent error before anything touches the network or the filesystem.
package event
