// Package serpapi implements the flight and hotel search ports over the
// SerpAPI Google Flights and Google Hotels engines.
//
// The adapter returns raw result records; ranking, trimming to the best
// options, and presentation all happen upstream. Transport and API faults
// surface as errors so the dispatcher can fold them into tool results.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
)

const (
	defaultBaseURL = "https://serpapi.com/search.json"

	engineFlights = "google_flights"
	engineHotels  = "google_hotels"

	// maxHotelResults caps how many properties a hotel search hands back.
	// Google Hotels pages are large and the oracle only ever presents a few.
	maxHotelResults = 5
)

// Client talks to SerpAPI. It implements both ports.FlightSearcher and
// ports.HotelSearcher; one client is safe for concurrent use.
type Client struct {
	apiKey    string
	baseURL   string
	httpc     *http.Client
	hl        string
	gl        string
	currency  string
	overrides domain.SearchOverrides
	logger    *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithLocale sets the language, country and currency parameters sent with
// every search. Empty values keep the defaults (en, us, USD).
func WithLocale(hl, gl, currency string) Option {
	return func(c *Client) {
		if hl != "" {
			c.hl = hl
		}
		if gl != "" {
			c.gl = gl
		}
		if currency != "" {
			c.currency = currency
		}
	}
}

// WithOverrides forces trip type or hotel sort order regardless of what the
// query derives. Deployment-scoped knobs; zero values change nothing.
func WithOverrides(o domain.SearchOverrides) Option {
	return func(c *Client) {
		c.overrides = o
	}
}

// WithLogger sets the internal logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a SerpAPI client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		hl:       "en",
		gl:       "us",
		currency: "USD",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchFlights implements ports.FlightSearcher over the Google Flights
// engine. It returns the engine's best_flights list.
func (c *Client) SearchFlights(ctx context.Context, q domain.FlightsQuery) ([]json.RawMessage, error) {
	params := c.baseParams(engineFlights)
	params.Set("departure_id", q.DepartureID)
	params.Set("arrival_id", q.ArrivalID)
	params.Set("outbound_date", q.OutboundDate)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("children", strconv.Itoa(q.Children))
	params.Set("infants_in_seat", strconv.Itoa(q.InfantsInSeat))
	params.Set("infants_on_lap", strconv.Itoa(q.InfantsOnLap))

	tripType := q.TripType()
	if q.ReturnDate != "" {
		params.Set("return_date", q.ReturnDate)
	}
	if c.overrides.FlightsType == domain.TripRound || c.overrides.FlightsType == domain.TripOneWay {
		tripType = c.overrides.FlightsType
	}
	params.Set("type", strconv.Itoa(tripType))

	c.logger.Debug("searching flights",
		"departure_id", q.DepartureID,
		"arrival_id", q.ArrivalID,
		"outbound_date", q.OutboundDate,
		"type", tripType,
	)

	var envelope struct {
		BestFlights []json.RawMessage `json:"best_flights"`
		Error       string            `json:"error"`
	}
	if err := c.get(ctx, params, &envelope); err != nil {
		return nil, err
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", envelope.Error)
	}
	return envelope.BestFlights, nil
}

// SearchHotels implements ports.HotelSearcher over the Google Hotels engine.
// It returns at most maxHotelResults properties.
func (c *Client) SearchHotels(ctx context.Context, q domain.HotelsQuery) ([]json.RawMessage, error) {
	params := c.baseParams(engineHotels)
	params.Set("q", q.Location)
	params.Set("check_in_date", q.CheckInDate)
	params.Set("check_out_date", q.CheckOutDate)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("children", strconv.Itoa(q.Children))
	params.Set("rooms", strconv.Itoa(q.Rooms))

	sortBy := q.SortBy
	if c.overrides.HotelsSortBy > 0 {
		sortBy = c.overrides.HotelsSortBy
	}
	params.Set("sort_by", strconv.Itoa(sortBy))

	if q.HotelClass != "" {
		params.Set("hotel_class", q.HotelClass)
	}

	c.logger.Debug("searching hotels",
		"location", q.Location,
		"check_in_date", q.CheckInDate,
		"check_out_date", q.CheckOutDate,
		"sort_by", sortBy,
	)

	var envelope struct {
		Properties []json.RawMessage `json:"properties"`
		Error      string            `json:"error"`
	}
	if err := c.get(ctx, params, &envelope); err != nil {
		return nil, err
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", envelope.Error)
	}

	if len(envelope.Properties) > maxHotelResults {
		envelope.Properties = envelope.Properties[:maxHotelResults]
	}
	return envelope.Properties, nil
}

func (c *Client) baseParams(engine string) url.Values {
	params := url.Values{}
	params.Set("engine", engine)
	params.Set("api_key", c.apiKey)
	params.Set("hl", c.hl)
	params.Set("gl", c.gl)
	params.Set("currency", c.currency)
	return params
}

// get performs one API call and decodes the body into out. The API key never
// appears in logs or error messages.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build serpapi request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("serpapi request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read serpapi response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("serpapi: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("serpapi: unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode serpapi response: %w", err)
	}
	return nil
}
