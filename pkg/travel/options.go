// Package travel turns raw search payloads into the typed options the API and
// terminal layers present. Upstream shapes shift between engines and sample
// fixtures, so parsing works field by field over untyped records and degrades
// to placeholders instead of failing.
package travel

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// maxOptions bounds how many records are parsed per search.
const maxOptions = 6

// FlightLeg is one end of a flight for display.
type FlightLeg struct {
	Airport string `json:"airport"`
	Time    string `json:"time"`
}

// FlightOption is a flight search record reduced to display fields.
type FlightOption struct {
	Airline      string    `json:"airline"`
	FlightNumber string    `json:"flightNumber"`
	Departure    FlightLeg `json:"departure"`
	Arrival      FlightLeg `json:"arrival"`
	Duration     string    `json:"duration"`
	Price        string    `json:"price"`
	Aircraft     string    `json:"aircraft"`
	Stops        int       `json:"stops"`
	Details      string    `json:"details"`
	Error        string    `json:"error,omitempty"`
}

// HotelOption is a hotel search record reduced to display fields.
type HotelOption struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Rating       string   `json:"rating"`
	Reviews      string   `json:"reviews"`
	Price        string   `json:"price"`
	Currency     string   `json:"currency"`
	HotelClass   string   `json:"hotel_class"`
	PropertyType string   `json:"property_type"`
	Distance     string   `json:"distance"`
	Amenities    []string `json:"amenities"`
	Image        string   `json:"image"`
	Link         string   `json:"link"`
	Error        string   `json:"error,omitempty"`
}

// ParseFlights reduces raw flight records to display options, at most
// maxOptions of them.
func ParseFlights(records []json.RawMessage) []FlightOption {
	if len(records) > maxOptions {
		records = records[:maxOptions]
	}
	out := make([]FlightOption, 0, len(records))
	for _, raw := range records {
		out = append(out, parseFlight(raw))
	}
	return out
}

// ParseHotels reduces raw hotel records to display options, at most
// maxOptions of them.
func ParseHotels(records []json.RawMessage) []HotelOption {
	if len(records) > maxOptions {
		records = records[:maxOptions]
	}
	out := make([]HotelOption, 0, len(records))
	for _, raw := range records {
		out = append(out, parseHotel(raw))
	}
	return out
}

func parseFlight(raw json.RawMessage) FlightOption {
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return FlightOption{Airline: "Flight Option", Error: err.Error()}
	}

	// Google Flights itineraries nest their legs under "flights" with the
	// price on the itinerary; flat records carry everything at the top level.
	info := record
	var price string
	if legs, ok := record["flights"].([]any); ok {
		info = map[string]any{}
		if len(legs) > 0 {
			if leg, ok := legs[0].(map[string]any); ok {
				info = leg
			}
		}
		price = "$" + asText(record["price"], "N/A")
	} else {
		price = asText(record["price"], "Price not available")
	}

	departure := asObject(info["departure_airport"])
	arrival := asObject(info["arrival_airport"])

	departureTime := asText(info["departure_time"], "")
	if departureTime == "" {
		departureTime = asText(departure["time"], "Unknown")
	}
	arrivalTime := asText(info["arrival_time"], "")
	if arrivalTime == "" {
		arrivalTime = asText(arrival["time"], "Unknown")
	}

	aircraft := asText(info["airplane"], asText(info["aircraft"], "Unknown"))
	stops := asInt(info["stops"])

	return FlightOption{
		Airline:      asText(info["airline"], "Unknown Airline"),
		FlightNumber: asText(info["flight_number"], "Unknown"),
		Departure: FlightLeg{
			Airport: asText(departure["id"], "Unknown") + " - " + asText(departure["name"], "Unknown Airport"),
			Time:    departureTime,
		},
		Arrival: FlightLeg{
			Airport: asText(arrival["id"], "Unknown") + " - " + asText(arrival["name"], "Unknown Airport"),
			Time:    arrivalTime,
		},
		Duration: asText(info["duration"], "Unknown"),
		Price:    price,
		Aircraft: aircraft,
		Stops:    stops,
		Details:  fmt.Sprintf("Aircraft: %s, Stops: %d", aircraft, stops),
	}
}

func parseHotel(raw json.RawMessage) HotelOption {
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return HotelOption{Name: "Hotel Option", Location: "Hotel details", Error: err.Error()}
	}

	rate := asObject(record["rate_per_night"])

	var amenities []string
	if list, ok := record["amenities"].([]any); ok {
		for _, item := range list {
			if len(amenities) == 4 {
				break
			}
			amenities = append(amenities, cleanField(asText(item, "")))
		}
	}

	var image string
	if images, ok := record["images"].([]any); ok && len(images) > 0 {
		switch first := images[0].(type) {
		case string:
			image = first
		case map[string]any:
			image = asText(first["thumbnail"], "")
			if image == "" {
				image = asText(first["original_image"], "")
			}
		}
	}

	return HotelOption{
		Name:         cleanField(asText(record["name"], "Unknown Hotel")),
		Location:     cleanField(asText(record["location"], "Unknown Location")),
		Rating:       cleanField(asText(record["overall_rating"], "No rating")),
		Reviews:      cleanField(asText(record["reviews"], "No reviews")),
		Price:        cleanField(asText(rate["lowest"], "Price not available")),
		Currency:     cleanField(asText(rate["currency"], "")),
		HotelClass:   cleanField(asText(record["hotel_class"], "Not specified")),
		PropertyType: cleanField(asText(record["type"], "Hotel")),
		Distance:     cleanField(asText(record["distance_from_search_location"], "")),
		Amenities:    amenities,
		Image:        image,
		Link:         asText(record["link"], ""),
	}
}

// asText renders a loosely typed value for display. Missing values take the
// fallback; JSON numbers render without a trailing ".0".
func asText(v any, fallback string) string {
	switch s := v.(type) {
	case nil:
		return fallback
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return 0
}
