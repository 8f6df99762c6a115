// Package domain defines agricultural market (mandi) price models.
package domain

import (
	"strings"
	"time"
)

// Source labels every snapshot served by this service.
const Source = "Agmarknet-Simulated-Live"

// Price is the modal price of one commodity at one mandi.
type Price struct {
	Commodity   string
	State       string
	District    string
	Mandi       string
	ModalPrice  int
	Unit        string
	ArrivalDate string
}

// Filter restricts a snapshot. Empty fields match everything; comparisons ignore case and surrounding space.
type Filter struct {
	State     string
	Commodity string
}

// Matches reports whether p satisfies the filter.
func (f Filter) Matches(p Price) bool {
	return matchField(f.State, p.State) && matchField(f.Commodity, p.Commodity)
}

func matchField(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, got)
}

// Snapshot is a point in time view of mandi prices.
type Snapshot struct {
	Timestamp time.Time
	Source    string
	Prices    []Price
}
