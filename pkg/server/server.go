package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/geoserve/internal/utils"
	"github.com/bastiangx/geoserve/pkg/autocomplete"
	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/bastiangx/geoserve/pkg/viewport"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultMaxQuery caps the length of an input query in runes.
const DefaultMaxQuery = 120

// Server handles the IPC for one autocomplete controller
type Server struct {
	ctrl     *autocomplete.Controller
	dec      *msgpack.Decoder
	maxQuery int

	wmu     sync.Mutex
	w       *bufio.Writer
	enc     *msgpack.Encoder
	holding bool  // a request is being handled
	held    []any // events raised meanwhile, written after its reply
}

// NewServer creates a server on stdin/stdout.
func NewServer(opts autocomplete.Options, maxQuery int) (*Server, error) {
	return NewServerWithIO(opts, os.Stdin, os.Stdout, maxQuery)
}

// NewServerWithIO creates a server on the given streams. The controller's
// callbacks are wrapped so that async results reach the client as events;
// callbacks already present in opts still run.
func NewServerWithIO(opts autocomplete.Options, r io.Reader, w io.Writer, maxQuery int) (*Server, error) {
	if maxQuery <= 0 {
		maxQuery = DefaultMaxQuery
	}
	bw := bufio.NewWriter(w)
	s := &Server{
		dec:      msgpack.NewDecoder(bufio.NewReader(r)),
		maxQuery: maxQuery,
		w:        bw,
		enc:      msgpack.NewEncoder(bw),
	}

	onSelect, onChange, onError := opts.OnSelect, opts.OnChange, opts.OnError
	opts.OnSelect = func(vp viewport.Viewport, res geocode.Result) {
		wr := toWireResult(res, 1)
		s.push(Event{Event: EventSelected, Query: res.Label(), Result: &wr, Viewport: toWireViewport(vp), Selected: -1})
		if onSelect != nil {
			onSelect(vp, res)
		}
	}
	opts.OnChange = func(st autocomplete.SearchState) {
		switch {
		case st.Loading:
			s.push(Event{Event: EventLoading, Query: st.Query, Selected: st.Selected})
		case st.Err == nil:
			s.push(Event{Event: EventResults, Query: st.Query, Results: toWireResults(st.Results), Selected: st.Selected})
		}
		if onChange != nil {
			onChange(st)
		}
	}
	opts.OnError = func(query string, err error) {
		s.push(Event{Event: EventError, Query: query, Error: err.Error(), Selected: -1})
		if onError != nil {
			onError(query, err)
		}
	}

	ctrl, err := autocomplete.New(opts)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	return s, nil
}

// Controller returns the controller driven by this server.
func (s *Server) Controller() *autocomplete.Controller {
	return s.ctrl
}

// Start begins listening for IPC requests. It returns nil once the input is exhausted.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	defer s.ctrl.Dispose()

	// Signal that the server is ready
	s.push(Event{Event: EventReady, Selected: -1})

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("stdin closed, stopping server")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return err
		}
		s.handleRequest(req)
	}
}

// handleRequest dispatches one request and writes its answer
func (s *Server) handleRequest(req Request) {
	start := time.Now()
	s.hold()
	var transition *WireTransition

	switch req.Op {
	case OpInput:
		if utf8.RuneCountInString(req.Query) > s.maxQuery {
			log.Debugf("rejecting long query %q...", utils.TruncateRunes(req.Query, 32))
			s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", s.maxQuery), 400)
			return
		}
		if err := s.ctrl.Input(req.Query); err != nil {
			s.sendControllerError(req.ID, err)
			return
		}
	case OpKey:
		key := autocomplete.ParseKey(req.Key)
		if req.Key == "" {
			key = autocomplete.KeyFromCode(req.KeyCode)
		}
		t, err := s.ctrl.KeyDown(key)
		if err != nil {
			s.sendControllerError(req.ID, err)
			return
		}
		transition = &WireTransition{
			Action:         t.Action.String(),
			Index:          t.Index,
			PreventDefault: t.PreventDefault,
			CaretToEnd:     t.CaretToEnd,
			Blur:           t.Blur,
		}
	case OpSelect:
		if req.Index == nil {
			s.sendError(req.ID, "missing 'i' parameter", 400)
			return
		}
		if err := s.ctrl.Select(*req.Index); err != nil {
			s.sendControllerError(req.ID, err)
			return
		}
	case OpFocus:
		s.ctrl.Open()
	case OpBlur:
		s.ctrl.Close()
	case OpViewport:
		if req.Viewport == nil {
			s.sendError(req.ID, "missing 'vp' parameter", 400)
			return
		}
		s.ctrl.SetViewport(fromWireViewport(*req.Viewport))
	case OpState, OpHealth:
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %q", req.Op), 400)
		return
	}

	st := s.ctrl.State()
	resp := StateResponse{
		ID:         req.ID,
		Query:      st.Query,
		Results:    toWireResults(st.Results),
		Selected:   st.Selected,
		Visible:    st.Visible,
		Focused:    st.Focused,
		Loading:    st.Loading,
		Transition: transition,
		TimeTaken:  time.Since(start).Microseconds(),
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	s.reply(resp)
}

func (s *Server) sendControllerError(id string, err error) {
	code := 500
	switch {
	case errors.Is(err, autocomplete.ErrNoSelection), errors.Is(err, autocomplete.ErrIndexOutOfRange):
		code = 404
	case errors.Is(err, autocomplete.ErrDisposed):
		code = 410
	}
	s.sendError(id, err.Error(), code)
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	log.Debugf("request %q failed: %s (%d)", id, message, code)
	s.reply(ErrorResponse{ID: id, Error: message, Code: code})
}

// hold defers events until the current request has been answered.
func (s *Server) hold() {
	s.wmu.Lock()
	s.holding = true
	s.wmu.Unlock()
}

// reply writes the answer to the current request, then any events held back while handling it.
func (s *Server) reply(v any) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.writeLocked(v)
	s.holding = false
	for _, ev := range s.held {
		s.writeLocked(ev)
	}
	s.held = nil
}

// push writes an event. Events arrive from timer goroutines as well as from handlers.
func (s *Server) push(ev Event) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.holding {
		s.held = append(s.held, ev)
		return
	}
	s.writeLocked(ev)
}

func (s *Server) writeLocked(v any) {
	if err := s.enc.Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.w.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func toWireResults(rs []geocode.Result) []WireResult {
	ranks := utils.CreateRankList(len(rs))
	out := make([]WireResult, len(rs))
	for i, r := range rs {
		out[i] = toWireResult(r, ranks[i])
	}
	return out
}

func toWireResult(r geocode.Result, rank uint16) WireResult {
	wr := WireResult{
		ID:     r.ID,
		Name:   r.Label(),
		Lon:    r.Center.Lon,
		Lat:    r.Center.Lat,
		Source: string(r.Source),
		Rank:   rank,
	}
	if r.BBox != nil {
		wr.BBox = []float64{r.BBox.West, r.BBox.South, r.BBox.East, r.BBox.North}
	}
	return wr
}

func toWireViewport(v viewport.Viewport) *WireViewport {
	return &WireViewport{
		Longitude:    v.Longitude,
		Latitude:     v.Latitude,
		Zoom:         v.Zoom,
		Bearing:      v.Bearing,
		Pitch:        v.Pitch,
		Width:        v.Width,
		Height:       v.Height,
		TransitionMS: v.TransitionDuration.Milliseconds(),
	}
}

func fromWireViewport(w WireViewport) viewport.Viewport {
	return viewport.Viewport{
		Longitude:          w.Longitude,
		Latitude:           w.Latitude,
		Zoom:               w.Zoom,
		Bearing:            w.Bearing,
		Pitch:              w.Pitch,
		Width:              w.Width,
		Height:             w.Height,
		TransitionDuration: time.Duration(w.TransitionMS) * time.Millisecond,
	}
}
