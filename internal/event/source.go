package event

import (
	"os"
	"strings"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
)

// Source lists the places an event payload may come from.
// The first non-empty one wins: Arg, then File, then the environment variable.
type Source struct {
	Arg    string
	File   string
	EnvVar string
	Getenv func(string) string
}

// Read returns the raw payload.
func (s Source) Read() ([]byte, error) {
	if strings.TrimSpace(s.Arg) != "" {
		return []byte(s.Arg), nil
	}
	if s.File != "" {
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, errors.MalformedEvent("cannot read event file").
				WithCause(err).
				WithContext("path", s.File).
				Build()
		}
		return data, nil
	}
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if s.EnvVar != "" {
		if v := getenv(s.EnvVar); strings.TrimSpace(v) != "" {
			return []byte(v), nil
		}
	}
	return nil, errors.MalformedEvent("no event payload supplied").
		WithContext("env", s.EnvVar).
		Build()
}

// Load reads and parses the payload.
func (s Source) Load() (*Event, error) {
	data, err := s.Read()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
