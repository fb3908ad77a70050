package domain

// Trip types understood by the flight collaborator.
const (
	TripRound  = 1
	TripOneWay = 2
)

// FlightsQuery is the typed argument set for a flight lookup. Location
// fields carry resolved 3-letter codes by the time the collaborator runs.
type FlightsQuery struct {
	DepartureID   string `json:"departure_id" mapstructure:"departure_id"`
	ArrivalID     string `json:"arrival_id" mapstructure:"arrival_id"`
	OutboundDate  string `json:"outbound_date" mapstructure:"outbound_date"`
	ReturnDate    string `json:"return_date,omitempty" mapstructure:"return_date"`
	Adults        int    `json:"adults,omitempty" mapstructure:"adults"`
	Children      int    `json:"children,omitempty" mapstructure:"children"`
	InfantsInSeat int    `json:"infants_in_seat,omitempty" mapstructure:"infants_in_seat"`
	InfantsOnLap  int    `json:"infants_on_lap,omitempty" mapstructure:"infants_on_lap"`
}

// TripType derives the trip type from the presence of a return date.
// One-way is signaled by an absent return date.
func (q FlightsQuery) TripType() int {
	if q.ReturnDate == "" {
		return TripOneWay
	}
	return TripRound
}

// DefaultHotelsSortBy is the collaborator's "highest rated" sort order.
const DefaultHotelsSortBy = 8

// HotelsQuery is the typed argument set for a hotel lookup. Location carries
// the standardized text by the time the collaborator runs.
type HotelsQuery struct {
	Location     string `json:"location" mapstructure:"location"`
	CheckInDate  string `json:"check_in_date" mapstructure:"check_in_date"`
	CheckOutDate string `json:"check_out_date" mapstructure:"check_out_date"`
	Adults       int    `json:"adults,omitempty" mapstructure:"adults"`
	Children     int    `json:"children,omitempty" mapstructure:"children"`
	Rooms        int    `json:"rooms,omitempty" mapstructure:"rooms"`
	SortBy       int    `json:"sort_by,omitempty" mapstructure:"sort_by"`
	HotelClass   string `json:"hotel_class,omitempty" mapstructure:"hotel_class"`
}

// SearchOverrides forces collaborator parameters regardless of what a query
// derives. Zero values mean no override. Carried explicitly as session-scoped
// configuration, never read from ambient globals by the core loop.
type SearchOverrides struct {
	FlightsType  int `json:"flights_type,omitempty" yaml:"flights_type"`
	HotelsSortBy int `json:"hotels_sort_by,omitempty" yaml:"hotels_sort_by"`
}
