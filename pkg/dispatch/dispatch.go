// Package dispatch translates oracle tool calls into tool results. It owns
// the boundary between the conversation loop and the external search
// collaborators: argument coercion, location resolution, and the conversion
// of every lower-layer fault into data the loop can keep reasoning about.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/location"
	"github.com/aretw0/voyant/pkg/ports"
)

// badToolContent instructs the oracle to self-correct on the next round.
const badToolContent = "bad tool name, retry"

// UnresolvedLocationError reports location text the resolver could not map
// to an airport code.
type UnresolvedLocationError struct {
	Text string
}

func (e *UnresolvedLocationError) Error() string {
	return "could not resolve location: " + e.Text
}

// errInvalidArgs marks argument maps that failed coercion into the tool's
// typed query.
var errInvalidArgs = errors.New("invalid tool arguments")

type toolFunc func(ctx context.Context, args map[string]any) (any, error)

// Dispatcher executes tool calls against a fixed registry of known tools.
// Execute never returns an error: every fault is folded into the ToolResult
// so the loop cannot lose conversation state to an unhandled fault.
type Dispatcher struct {
	flights ports.FlightSearcher
	hotels  ports.HotelSearcher
	logger  *slog.Logger
	tools   map[string]toolFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Dispatcher over the two search collaborators.
func New(flights ports.FlightSearcher, hotels ports.HotelSearcher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		flights: flights,
		hotels:  hotels,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.tools = map[string]toolFunc{
		domain.ToolSearchFlights: d.searchFlights,
		domain.ToolSearchHotels:  d.searchHotels,
	}
	return d
}

// errorPayload is the structured error shape carried inside a ToolResult.
type errorPayload struct {
	Error   string `json:"error"`
	Results []any  `json:"results"`
}

// Execute turns one ToolCall into one ToolResult. Unknown tools produce a
// retry instruction, unresolved locations and bad arguments produce
// structured errors, collaborator failures degrade to an empty result list,
// and a serialization failure falls back to a plain string rendering.
func (d *Dispatcher) Execute(ctx context.Context, call domain.ToolCall) domain.ToolResult {
	fn, ok := d.tools[call.Name]
	if !ok {
		d.logger.Warn("unknown tool requested", "tool", call.Name, "call_id", call.ID)
		return domain.ToolResult{
			ID: call.ID, Name: call.Name,
			Content: badToolContent, IsError: true, ErrorKind: domain.ErrKindUnknownTool,
		}
	}

	payload, err := fn(ctx, call.Args)

	var unresolved *UnresolvedLocationError
	switch {
	case errors.As(err, &unresolved):
		d.logger.Warn("location could not be resolved", "tool", call.Name, "text", unresolved.Text)
		return d.structuredError(call, unresolved.Error(), domain.ErrKindUnresolvedLocation)
	case errors.Is(err, errInvalidArgs):
		d.logger.Warn("tool arguments failed coercion", "tool", call.Name, "err", err)
		return d.structuredError(call, err.Error(), domain.ErrKindInvalidArguments)
	case err != nil:
		// Transport-level collaborator failure degrades to an empty result
		// list; the loop continues on data, never on a fault.
		d.logger.Warn("collaborator call failed", "tool", call.Name, "err", err)
		return domain.ToolResult{ID: call.ID, Name: call.Name, Content: "[]"}
	}

	return domain.ToolResult{ID: call.ID, Name: call.Name, Content: serialize(payload, d.logger)}
}

func (d *Dispatcher) structuredError(call domain.ToolCall, msg, kind string) domain.ToolResult {
	return domain.ToolResult{
		ID:        call.ID,
		Name:      call.Name,
		Content:   serialize(errorPayload{Error: msg, Results: []any{}}, d.logger),
		IsError:   true,
		ErrorKind: kind,
	}
}

func (d *Dispatcher) searchFlights(ctx context.Context, args map[string]any) (any, error) {
	var q domain.FlightsQuery
	if err := decodeArgs(args, &q); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}

	departure := location.Resolve(q.DepartureID)
	if !departure.Resolved() {
		return nil, &UnresolvedLocationError{Text: q.DepartureID}
	}
	arrival := location.Resolve(q.ArrivalID)
	if !arrival.Resolved() {
		return nil, &UnresolvedLocationError{Text: q.ArrivalID}
	}
	q.DepartureID = departure.Code
	q.ArrivalID = arrival.Code
	if q.Adults == 0 {
		q.Adults = 1
	}

	d.logger.Debug("searching flights",
		"departure", q.DepartureID, "arrival", q.ArrivalID,
		"outbound", q.OutboundDate, "return", q.ReturnDate)
	records, err := d.flights.SearchFlights(ctx, q)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

func (d *Dispatcher) searchHotels(ctx context.Context, args map[string]any) (any, error) {
	var q domain.HotelsQuery
	if err := decodeArgs(args, &q); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}

	place := location.Resolve(q.Location)
	if !place.Resolved() {
		return nil, &UnresolvedLocationError{Text: q.Location}
	}
	// Hotel searches take standardized text, not a code.
	q.Location = place.CanonicalName
	if q.Adults == 0 {
		q.Adults = 1
	}
	if q.Rooms == 0 {
		q.Rooms = 1
	}
	if q.SortBy == 0 {
		q.SortBy = domain.DefaultHotelsSortBy
	}

	d.logger.Debug("searching hotels",
		"location", q.Location, "check_in", q.CheckInDate, "check_out", q.CheckOutDate)
	records, err := d.hotels.SearchHotels(ctx, q)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

// decodeArgs coerces the oracle's untyped argument map into a typed query.
// Weak typing tolerates numbers arriving as JSON floats or strings.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

// serialize renders a payload to JSON, falling back to a best-effort string
// rather than dropping the result.
func serialize(payload any, logger *slog.Logger) string {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("result serialization failed, using string fallback", "err", err)
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}
