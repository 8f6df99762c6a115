// Package repository provides mandi price sources.
package repository

import (
	"context"

	mandiDomain "github.com/allisson/bizdata/internal/mandi/domain"
)

// staticPrices is the simulated Agmarknet feed across major producing states.
var staticPrices = []mandiDomain.Price{
	{
		Commodity:   "Wheat",
		State:       "UP",
		District:    "Lucknow",
		Mandi:       "Lucknow",
		ModalPrice:  2550,
		Unit:        "Quintal",
		ArrivalDate: "08/02/2026",
	},
	{
		Commodity:   "Rice",
		State:       "Punjab",
		District:    "Amritsar",
		Mandi:       "Amritsar",
		ModalPrice:  3200,
		Unit:        "Quintal",
		ArrivalDate: "08/02/2026",
	},
	{
		Commodity:   "Mustard",
		State:       "Rajasthan",
		District:    "Jaipur",
		Mandi:       "Jaipur",
		ModalPrice:  5450,
		Unit:        "Quintal",
		ArrivalDate: "07/02/2026",
	},
	{
		Commodity:   "Potato",
		State:       "WB",
		District:    "Hooghly",
		Mandi:       "Hooghly",
		ModalPrice:  1200,
		Unit:        "Quintal",
		ArrivalDate: "08/02/2026",
	},
	{
		Commodity:   "Onion",
		State:       "Maharashtra",
		District:    "Nashik",
		Mandi:       "Lasalgaon",
		ModalPrice:  1850,
		Unit:        "Quintal",
		ArrivalDate: "08/02/2026",
	},
	{
		Commodity:   "Cotton",
		State:       "Gujarat",
		District:    "Rajkot",
		Mandi:       "Rajkot",
		ModalPrice:  7200,
		Unit:        "Quintal",
		ArrivalDate: "08/02/2026",
	},
	{
		Commodity:   "Soyabean",
		State:       "MP",
		District:    "Indore",
		Mandi:       "Indore",
		ModalPrice:  4600,
		Unit:        "Quintal",
		ArrivalDate: "07/02/2026",
	},
}

// StaticPriceRepository serves the built-in price table.
type StaticPriceRepository struct{}

// NewStaticPriceRepository creates the static price source.
func NewStaticPriceRepository() *StaticPriceRepository {
	return &StaticPriceRepository{}
}

// List returns the prices matching filter, in table order. The result is a fresh slice.
func (r *StaticPriceRepository) List(ctx context.Context, filter mandiDomain.Filter) ([]mandiDomain.Price, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prices := make([]mandiDomain.Price, 0, len(staticPrices))
	for _, price := range staticPrices {
		if filter.Matches(price) {
			prices = append(prices, price)
		}
	}
	return prices, nil
}
