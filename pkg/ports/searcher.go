package ports

import (
	"context"
	"encoding/json"

	"github.com/aretw0/voyant/pkg/domain"
)

// FlightSearcher is the external flight lookup collaborator. Queries arrive
// with resolved airport codes; records come back as raw provider payloads so
// the dispatcher can serialize them without caring about their shape.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, q domain.FlightsQuery) ([]json.RawMessage, error)
}

// HotelSearcher is the external hotel lookup collaborator.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, q domain.HotelsQuery) ([]json.RawMessage, error)
}
