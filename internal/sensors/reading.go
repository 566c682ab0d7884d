package sensors

import "time"

// Reading pairs one enumerated sensor with its interpreted view. Service is
// the bus name the properties were fetched from.
type Reading struct {
	Path    string `json:"path"`
	Service string `json:"-"`
	View    View   `json:"-"`
}

// Snapshot is the result of one full fetch-interpret cycle. Readings keep
// the order they were collected in (natural path order, or watch-list
// order). A snapshot is immutable once built; each refresh creates a new
// one.
type Snapshot struct {
	Taken    time.Time
	Readings []Reading
}
