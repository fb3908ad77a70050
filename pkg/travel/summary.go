package travel

import (
	"fmt"
	"strings"
)

// Summarize returns the cleaned answer when the oracle produced one,
// otherwise a synthesized rundown of whatever the searches found.
func Summarize(answer string, flights []FlightOption, hotels []HotelOption) string {
	if text := CleanText(answer); text != "" {
		return text
	}

	switch {
	case len(flights) > 0 && len(hotels) > 0:
		var b strings.Builder
		b.WriteString("I found great travel options for you!\n\n")
		writeFlightLines(&b, flights, false)
		b.WriteString("\n")
		writeHotelLines(&b, hotels, false)
		b.WriteString("\nWould you like more details about any of these options?")
		return b.String()

	case len(flights) > 0:
		var b strings.Builder
		fmt.Fprintf(&b, "I found %d flight options for your trip:\n\n", len(flights))
		writeFlightLines(&b, flights, true)
		b.WriteString("\nWould you like me to search for hotels as well?")
		return b.String()

	case len(hotels) > 0:
		var b strings.Builder
		fmt.Fprintf(&b, "I found %d hotel options for your stay:\n\n", len(hotels))
		writeHotelLines(&b, hotels, true)
		b.WriteString("\nWould you like me to search for flights as well?")
		return b.String()

	default:
		return "I've processed your travel request. Let me help you find the best options for your trip."
	}
}

func writeFlightLines(b *strings.Builder, flights []FlightOption, detailed bool) {
	fmt.Fprintf(b, "✈️ **Flight Options (%d found):**\n", len(flights))
	for i, flight := range top(flights) {
		if detailed {
			fmt.Fprintf(b, "%d. %s - %s\n   Departure: %s | Arrival: %s | Duration: %s\n",
				i+1, flight.Airline, flight.Price, flight.Departure.Time, flight.Arrival.Time, flight.Duration)
		} else {
			fmt.Fprintf(b, "%d. %s - %s (%s)\n", i+1, flight.Airline, flight.Price, flight.Duration)
		}
	}
}

func writeHotelLines(b *strings.Builder, hotels []HotelOption, detailed bool) {
	fmt.Fprintf(b, "🏨 **Hotel Options (%d found):**\n", len(hotels))
	for i, hotel := range top(hotels) {
		if detailed {
			fmt.Fprintf(b, "%d. %s - %s/night\n   Rating: ⭐%s | Location: %s\n",
				i+1, hotel.Name, hotel.Price, hotel.Rating, hotel.Location)
		} else {
			fmt.Fprintf(b, "%d. %s - %s/night (⭐%s)\n", i+1, hotel.Name, hotel.Price, hotel.Rating)
		}
	}
}

// top trims to the three entries a summary shows.
func top[T any](items []T) []T {
	if len(items) > 3 {
		return items[:3]
	}
	return items
}
