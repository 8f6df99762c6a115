// Package dto provides data transfer objects for mandi HTTP responses.
package dto

import (
	"time"

	mandiDomain "github.com/allisson/bizdata/internal/mandi/domain"
)

// PriceResponse is one commodity price.
type PriceResponse struct {
	Commodity   string `json:"commodity"`
	State       string `json:"state"`
	District    string `json:"district"`
	Mandi       string `json:"mandi"`
	ModalPrice  int    `json:"modal_price"`
	Unit        string `json:"unit"`
	ArrivalDate string `json:"arrival_date"`
}

// SnapshotResponse is a snapshot of mandi prices.
type SnapshotResponse struct {
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Count     int             `json:"count"`
	Data      []PriceResponse `json:"data"`
}

// MapSnapshotToResponse converts a domain snapshot.
func MapSnapshotToResponse(snapshot *mandiDomain.Snapshot) SnapshotResponse {
	data := make([]PriceResponse, 0, len(snapshot.Prices))
	for _, price := range snapshot.Prices {
		data = append(data, PriceResponse{
			Commodity:   price.Commodity,
			State:       price.State,
			District:    price.District,
			Mandi:       price.Mandi,
			ModalPrice:  price.ModalPrice,
			Unit:        price.Unit,
			ArrivalDate: price.ArrivalDate,
		})
	}

	return SnapshotResponse{
		Timestamp: snapshot.Timestamp,
		Source:    snapshot.Source,
		Count:     len(data),
		Data:      data,
	}
}
