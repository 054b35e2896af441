package domain

// Listing is a single item scraped from a store catalog. Listings are produced
// entirely by the worker side and are immutable once observed.
type Listing struct {
	Name            string  `json:"name"`
	Set             string  `json:"set,omitempty"`
	CollectorNumber string  `json:"collector_number,omitempty"`
	Finish          Finish  `json:"finish,omitempty"`
	Price           float64 `json:"price,omitempty"`
	Availability    int     `json:"availability,omitempty"`
}
