package github

import "encoding/gob"

func init() {
	gob.Register(Metadata{})
}

// Metadata is the subset of repository data a report may be missing.
type Metadata struct {
	Stars    int
	Forks    int
	Language string
	License  string
}
