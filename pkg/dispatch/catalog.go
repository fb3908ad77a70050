package dispatch

import "github.com/aretw0/voyant/pkg/domain"

// Catalog describes the registered tools in JSON-schema form. Oracle and MCP
// adapters derive their native declarations from this single source so the
// names the oracle emits always match what Execute accepts.
func Catalog() []domain.Tool {
	return []domain.Tool{
		{
			Name:        domain.ToolSearchFlights,
			Description: "Find flights between two locations using the Google Flights engine.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"departure_id": map[string]any{
						"type":        "string",
						"description": "Departure location: a city or country name in any common form, or an IATA airport code.",
					},
					"arrival_id": map[string]any{
						"type":        "string",
						"description": "Arrival location: a city or country name in any common form, or an IATA airport code.",
					},
					"outbound_date": map[string]any{
						"type":        "string",
						"description": "Outbound date in YYYY-MM-DD format, e.g. 2024-06-22.",
					},
					"return_date": map[string]any{
						"type":        "string",
						"description": "Return date in YYYY-MM-DD format for round trips. Leave empty for one-way flights.",
					},
					"adults": map[string]any{
						"type":        "integer",
						"description": "Number of adults. Defaults to 1.",
					},
					"children": map[string]any{
						"type":        "integer",
						"description": "Number of children. Defaults to 0.",
					},
					"infants_in_seat": map[string]any{
						"type":        "integer",
						"description": "Number of infants in seat. Defaults to 0.",
					},
					"infants_on_lap": map[string]any{
						"type":        "integer",
						"description": "Number of infants on lap. Defaults to 0.",
					},
				},
				"required": []string{"departure_id", "arrival_id", "outbound_date"},
			},
		},
		{
			Name:        domain.ToolSearchHotels,
			Description: "Find hotels in a location using the Google Hotels engine.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": "Location of the hotel: a city name in any common form.",
					},
					"check_in_date": map[string]any{
						"type":        "string",
						"description": "Check-in date in YYYY-MM-DD format, e.g. 2024-06-22.",
					},
					"check_out_date": map[string]any{
						"type":        "string",
						"description": "Check-out date in YYYY-MM-DD format, e.g. 2024-06-28.",
					},
					"adults": map[string]any{
						"type":        "integer",
						"description": "Number of adults. Defaults to 1.",
					},
					"children": map[string]any{
						"type":        "integer",
						"description": "Number of children. Defaults to 0.",
					},
					"rooms": map[string]any{
						"type":        "integer",
						"description": "Number of rooms. Defaults to 1.",
					},
					"sort_by": map[string]any{
						"type":        "integer",
						"description": "Sort order for results. Defaults to 8, highest rated first.",
					},
					"hotel_class": map[string]any{
						"type":        "string",
						"description": "Restrict results to certain hotel classes, e.g. 2,3,4.",
					},
				},
				"required": []string{"location", "check_in_date", "check_out_date"},
			},
		},
	}
}
