package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Matches(t *testing.T) {
	price := Price{Commodity: "Onion", State: "Maharashtra"}

	tests := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{name: "empty filter", filter: Filter{}, expected: true},
		{name: "state case insensitive", filter: Filter{State: "maharashtra"}, expected: true},
		{name: "commodity with spaces", filter: Filter{Commodity: " ONION "}, expected: true},
		{name: "both match", filter: Filter{State: "Maharashtra", Commodity: "onion"}, expected: true},
		{name: "state mismatch", filter: Filter{State: "Gujarat"}, expected: false},
		{name: "commodity mismatch", filter: Filter{State: "Maharashtra", Commodity: "Cotton"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(price))
		})
	}
}
