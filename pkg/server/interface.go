/*
Package server exposes the autocomplete controller as msgpack IPC over stdin/stdout.

The protocol is a stream of msgpack values in both directions. Clients send Requests and
receive one StateResponse (or ErrorResponse) per request, in order. Work that finishes later,
such as a debounced lookup, is pushed as an Event.

Events raised while a request is handled, for example the selected event of an Enter key,
are written after that request's response. Events from timers may fall between responses.

# IPC

Every request carries an ID and an op:

	{"id": "1", "op": "focus"}
	{"id": "2", "op": "input", "q": "berl"}

The input is answered right away with the current state, then once the debounce interval
has passed and the lookup finished an event follows:

	{"ev": "results", "q": "berl", "r": [{"n": "Berlin, Germany", "x": 13.4, "y": 52.5, "s": "local", "r": 1}], "sel": 0}

Keys are sent by name or DOM keyCode and answer with the transition the text field owner
should apply:

	{"id": "3", "op": "key", "k": "down"}
	{"id": "4", "op": "key", "kc": 13}

Confirming a result pushes a selected event carrying the target viewport:

	{"ev": "selected", "res": {...}, "vp": {"lon": 13.4, "lat": 52.5, "z": 10.2, "t": 500}}

# Ops

input, key, select, focus, blur, viewport, state, health.

Failures answer with an ErrorResponse: {"id": "5", "e": "result index out of range", "c": 404}.
*/
package server

// Ops understood by the server.
const (
	OpInput    = "input"
	OpKey      = "key"
	OpSelect   = "select"
	OpFocus    = "focus"
	OpBlur     = "blur"
	OpViewport = "viewport"
	OpState    = "state"
	OpHealth   = "health"
)

// Events pushed without a request.
const (
	EventReady    = "ready"
	EventLoading  = "loading"
	EventResults  = "results"
	EventError    = "error"
	EventSelected = "selected"
)

// Request is one client message.
type Request struct {
	ID       string        `msgpack:"id"`
	Op       string        `msgpack:"op"`
	Query    string        `msgpack:"q,omitempty"`
	Key      string        `msgpack:"k,omitempty"`
	KeyCode  int           `msgpack:"kc,omitempty"`
	Index    *int          `msgpack:"i,omitempty"`
	Viewport *WireViewport `msgpack:"vp,omitempty"`
}

// WireResult is a Result as sent to clients.
type WireResult struct {
	ID     string    `msgpack:"id,omitempty"`
	Name   string    `msgpack:"n"`
	Lon    float64   `msgpack:"x"`
	Lat    float64   `msgpack:"y"`
	BBox   []float64 `msgpack:"b,omitempty"` // west, south, east, north
	Source string    `msgpack:"s"`
	Rank   uint16    `msgpack:"r"`
}

// WireViewport is a Viewport with the transition in milliseconds.
type WireViewport struct {
	Longitude    float64 `msgpack:"lon"`
	Latitude     float64 `msgpack:"lat"`
	Zoom         float64 `msgpack:"z"`
	Bearing      float64 `msgpack:"b,omitempty"`
	Pitch        float64 `msgpack:"p,omitempty"`
	Width        int     `msgpack:"w,omitempty"`
	Height       int     `msgpack:"h,omitempty"`
	TransitionMS int64   `msgpack:"t,omitempty"`
}

// WireTransition tells the client what to do with its text field after a key.
type WireTransition struct {
	Action         string `msgpack:"a"`
	Index          int    `msgpack:"i"`
	PreventDefault bool   `msgpack:"pd,omitempty"`
	CaretToEnd     bool   `msgpack:"ce,omitempty"`
	Blur           bool   `msgpack:"bl,omitempty"`
}

// StateResponse answers every successful request.
type StateResponse struct {
	ID         string          `msgpack:"id"`
	Query      string          `msgpack:"q"`
	Results    []WireResult    `msgpack:"r"`
	Selected   int             `msgpack:"sel"`
	Visible    bool            `msgpack:"v"`
	Focused    bool            `msgpack:"f"`
	Loading    bool            `msgpack:"l"`
	Error      string          `msgpack:"e,omitempty"`
	Transition *WireTransition `msgpack:"tr,omitempty"`
	TimeTaken  int64           `msgpack:"t"` // microseconds
}

// Event is pushed when asynchronous work completes.
type Event struct {
	Event    string        `msgpack:"ev"`
	Query    string        `msgpack:"q,omitempty"`
	Results  []WireResult  `msgpack:"r,omitempty"`
	Selected int           `msgpack:"sel"`
	Error    string        `msgpack:"e,omitempty"`
	Result   *WireResult   `msgpack:"res,omitempty"`
	Viewport *WireViewport `msgpack:"vp,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
