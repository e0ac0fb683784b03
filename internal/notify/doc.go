// Package notify tells a pull request where its preview was published by keeping a
// single marked comment up to date on the pull request.
package notify
