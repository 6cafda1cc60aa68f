package domain

import "time"

const SnapshotVersion = 1

// BookSnapshot is the durable form of one book: both sides plus the
// trade ledger, as a single versioned record. The stored order of Bids
// and Asks carries no meaning; a loader must rebuild priority by
// reinserting every order.
type BookSnapshot struct {
	Version int       `json:"version"`
	Symbol  string    `json:"symbol"`
	Bids    []Order   `json:"bids"`
	Asks    []Order   `json:"asks"`
	Trades  []Trade   `json:"trades"`
	SavedAt time.Time `json:"saved_at"`
}

// Depth is the reporting view of a book: both sides best-first.
type Depth struct {
	Symbol    string    `json:"symbol"`
	Bids      []Order   `json:"bids"`
	Asks      []Order   `json:"asks"`
	Timestamp time.Time `json:"timestamp"`
}
