package domain

// Registered tool names. The dispatcher's registry is fixed at these.
const (
	ToolSearchFlights = "search_flights"
	ToolSearchHotels  = "search_hotels"
)

// DefaultMaxRounds bounds the decide-and-act loop. The oracle normally
// terminates the loop itself; the cap only guards against runaway cost.
const DefaultMaxRounds = 10
