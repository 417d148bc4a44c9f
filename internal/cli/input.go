// Package cli is an interactive terminal front end for the autocomplete controller,
// for trying lookups and keyboard navigation in real-time.
package cli

import (
	"sync"

	"github.com/bastiangx/geoserve/pkg/autocomplete"
	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/bastiangx/geoserve/pkg/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Messages the controller callbacks deliver to the program.
type (
	stateMsg    autocomplete.SearchState
	selectedMsg struct {
		vp     viewport.Viewport
		result geocode.Result
	}
	errMsg struct {
		query string
		err   error
	}
)

// bridge forwards controller callbacks, which run on timer goroutines, into the program.
type bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (b *bridge) attach(opts *autocomplete.Options) {
	opts.OnChange = func(s autocomplete.SearchState) { b.post(stateMsg(s)) }
	opts.OnSelect = func(vp viewport.Viewport, r geocode.Result) { b.post(selectedMsg{vp: vp, result: r}) }
	opts.OnError = func(q string, err error) { b.post(errMsg{query: q, err: err}) }
}

func (b *bridge) connect(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

func (b *bridge) post(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// InputHandler runs the terminal UI. The controller's callbacks are replaced,
// the rest of the options are used as given.
type InputHandler struct {
	opts     autocomplete.Options
	maxQuery int
	teaOpts  []tea.ProgramOption
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(opts autocomplete.Options, maxQuery int, teaOpts ...tea.ProgramOption) *InputHandler {
	return &InputHandler{opts: opts, maxQuery: maxQuery, teaOpts: teaOpts}
}

// Start builds the controller and blocks until the user quits.
func (h *InputHandler) Start() error {
	b := &bridge{}
	opts := h.opts
	b.attach(&opts)

	ctrl, err := autocomplete.New(opts)
	if err != nil {
		return err
	}
	defer ctrl.Dispose()

	teaOpts := append([]tea.ProgramOption{tea.WithAltScreen()}, h.teaOpts...)
	p := tea.NewProgram(newModel(ctrl, h.maxQuery), teaOpts...)
	b.connect(p.Send)

	log.Debug("starting terminal UI", "limit", opts.Limit, "localOnly", opts.LocalOnly)
	_, err = p.Run()
	return err
}
