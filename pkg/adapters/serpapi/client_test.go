package serpapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voyant/pkg/adapters/serpapi"
	"github.com/aretw0/voyant/pkg/domain"
)

// newServer stands in for the SerpAPI endpoint, capturing the query of the
// last request it served.
func newServer(t *testing.T, status int, body string, captured *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = r.URL.Query()
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchFlights_RoundTripParams(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusOK, `{"best_flights":[]}`, &got)
	client := serpapi.New("test-key", serpapi.WithBaseURL(srv.URL))

	_, err := client.SearchFlights(context.Background(), domain.FlightsQuery{
		DepartureID:  "DUR",
		ArrivalID:    "HRE",
		OutboundDate: "2024-06-22",
		ReturnDate:   "2024-06-28",
		Adults:       2,
		Children:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, "google_flights", got.Get("engine"))
	assert.Equal(t, "test-key", got.Get("api_key"))
	assert.Equal(t, "en", got.Get("hl"))
	assert.Equal(t, "us", got.Get("gl"))
	assert.Equal(t, "USD", got.Get("currency"))
	assert.Equal(t, "DUR", got.Get("departure_id"))
	assert.Equal(t, "HRE", got.Get("arrival_id"))
	assert.Equal(t, "2024-06-22", got.Get("outbound_date"))
	assert.Equal(t, "2024-06-28", got.Get("return_date"))
	assert.Equal(t, "2", got.Get("adults"))
	assert.Equal(t, "1", got.Get("children"))
	assert.Equal(t, "1", got.Get("type"), "a return date makes the trip round")
}

func TestSearchFlights_OneWayOmitsReturnDate(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusOK, `{"best_flights":[]}`, &got)
	client := serpapi.New("test-key", serpapi.WithBaseURL(srv.URL))

	_, err := client.SearchFlights(context.Background(), domain.FlightsQuery{
		DepartureID:  "DUR",
		ArrivalID:    "HRE",
		OutboundDate: "2024-06-22",
		Adults:       1,
	})
	require.NoError(t, err)

	assert.Equal(t, "2", got.Get("type"))
	assert.False(t, got.Has("return_date"))
}

func TestSearchFlights_TypeOverride(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusOK, `{"best_flights":[]}`, &got)
	client := serpapi.New("test-key",
		serpapi.WithBaseURL(srv.URL),
		serpapi.WithOverrides(domain.SearchOverrides{FlightsType: domain.TripRound}),
	)

	_, err := client.SearchFlights(context.Background(), domain.FlightsQuery{
		DepartureID:  "DUR",
		ArrivalID:    "HRE",
		OutboundDate: "2024-06-22",
		Adults:       1,
	})
	require.NoError(t, err)

	assert.Equal(t, "1", got.Get("type"), "override wins over the derived trip type")
}

func TestSearchFlights_ExtractsBestFlights(t *testing.T) {
	var got url.Values
	body := `{"search_metadata":{"id":"abc"},"best_flights":[{"price":120},{"price":150}],"other_flights":[{"price":90}]}`
	srv := newServer(t, http.StatusOK, body, &got)
	client := serpapi.New("test-key", serpapi.WithBaseURL(srv.URL))

	records, err := client.SearchFlights(context.Background(), domain.FlightsQuery{
		DepartureID:  "DUR",
		ArrivalID:    "HRE",
		OutboundDate: "2024-06-22",
		Adults:       1,
	})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.JSONEq(t, `{"price":120}`, string(records[0]))
	assert.JSONEq(t, `{"price":150}`, string(records[1]))
}

func TestSearchFlights_MissingResultsKey(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusOK, `{"search_metadata":{"id":"abc"}}`, &got)
	client := serpapi.New("test-key", serpapi.WithBaseURL(srv.URL))

	records, err := client.SearchFlights(context.Background(), domain.FlightsQuery{
		DepartureID:  "DUR",
		ArrivalID:    "HRE",
		OutboundDate: "2024-06-22",
		Adults:       1,
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchFlights_APIError(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusBadRequest, `{"error":"Invalid API key"}`, &got)
	client := serpapi.New("bad-key", serpapi.WithBaseURL(srv.URL))

	_, err := client.SearchFlights(context.Background(), domain.FlightsQuery{
		DepartureID:  "DUR",
		ArrivalID:    "HRE",
		OutboundDate: "2024-06-22",
		Adults:       1,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestSearchFlights_ServerFault(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusInternalServerError, `boom`, &got)
	client := serpapi.New("test-key", serpapi.WithBaseURL(srv.URL))

	_, err := client.SearchFlights(context.Background(), domain.FlightsQuery{
		DepartureID:  "DUR",
		ArrivalID:    "HRE",
		OutboundDate: "2024-06-22",
		Adults:       1,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestSearchHotels_Params(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusOK, `{"properties":[]}`, &got)
	client := serpapi.New("test-key",
		serpapi.WithBaseURL(srv.URL),
		serpapi.WithLocale("pt-br", "br", "BRL"),
	)

	_, err := client.SearchHotels(context.Background(), domain.HotelsQuery{
		Location:     "johannesburg",
		CheckInDate:  "2024-06-22",
		CheckOutDate: "2024-06-28",
		Adults:       2,
		Rooms:        1,
		SortBy:       domain.DefaultHotelsSortBy,
		HotelClass:   "3,4,5",
	})
	require.NoError(t, err)

	assert.Equal(t, "google_hotels", got.Get("engine"))
	assert.Equal(t, "johannesburg", got.Get("q"))
	assert.Equal(t, "2024-06-22", got.Get("check_in_date"))
	assert.Equal(t, "2024-06-28", got.Get("check_out_date"))
	assert.Equal(t, "2", got.Get("adults"))
	assert.Equal(t, "1", got.Get("rooms"))
	assert.Equal(t, "8", got.Get("sort_by"))
	assert.Equal(t, "3,4,5", got.Get("hotel_class"))
	assert.Equal(t, "pt-br", got.Get("hl"))
	assert.Equal(t, "br", got.Get("gl"))
	assert.Equal(t, "BRL", got.Get("currency"))
}

func TestSearchHotels_OmitsEmptyHotelClass(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusOK, `{"properties":[]}`, &got)
	client := serpapi.New("test-key", serpapi.WithBaseURL(srv.URL))

	_, err := client.SearchHotels(context.Background(), domain.HotelsQuery{
		Location:     "johannesburg",
		CheckInDate:  "2024-06-22",
		CheckOutDate: "2024-06-28",
		Adults:       1,
		Rooms:        1,
		SortBy:       domain.DefaultHotelsSortBy,
	})
	require.NoError(t, err)

	assert.False(t, got.Has("hotel_class"))
}

func TestSearchHotels_SortByOverride(t *testing.T) {
	var got url.Values
	srv := newServer(t, http.StatusOK, `{"properties":[]}`, &got)
	client := serpapi.New("test-key",
		serpapi.WithBaseURL(srv.URL),
		serpapi.WithOverrides(domain.SearchOverrides{HotelsSortBy: 13}),
	)

	_, err := client.SearchHotels(context.Background(), domain.HotelsQuery{
		Location:     "johannesburg",
		CheckInDate:  "2024-06-22",
		CheckOutDate: "2024-06-28",
		Adults:       1,
		Rooms:        1,
		SortBy:       domain.DefaultHotelsSortBy,
	})
	require.NoError(t, err)

	assert.Equal(t, "13", got.Get("sort_by"))
}

func TestSearchHotels_CapsProperties(t *testing.T) {
	var got url.Values
	body := `{"properties":[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"},{"name":"e"},{"name":"f"},{"name":"g"}]}`
	srv := newServer(t, http.StatusOK, body, &got)
	client := serpapi.New("test-key", serpapi.WithBaseURL(srv.URL))

	records, err := client.SearchHotels(context.Background(), domain.HotelsQuery{
		Location:     "johannesburg",
		CheckInDate:  "2024-06-22",
		CheckOutDate: "2024-06-28",
		Adults:       1,
		Rooms:        1,
		SortBy:       domain.DefaultHotelsSortBy,
	})
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.JSONEq(t, `{"name":"a"}`, string(records[0]))
	assert.JSONEq(t, `{"name":"e"}`, string(records[4]))
}
